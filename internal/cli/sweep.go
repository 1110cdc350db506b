package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"seam-lattice/internal/mask"
	"seam-lattice/internal/sims/bottle"
	"seam-lattice/internal/sims/lattice"
	"seam-lattice/internal/sweep"
)

// SweepOptions holds flags shared by the sweep subcommands.
type SweepOptions struct {
	*RootOptions
	Trials   int
	Workers  int
	MaxSteps int
	Seed     int64
}

// NewSweepCommand creates the sweep command group.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SweepOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run many seeded trials in parallel",
	}
	cmd.PersistentFlags().IntVar(&opts.Trials, "trials", 20, "trials per parameter point")
	cmd.PersistentFlags().IntVar(&opts.Workers, "workers", rootOpts.Env.Workers, "worker goroutines (0 for one per CPU)")
	cmd.PersistentFlags().IntVar(&opts.MaxSteps, "max-steps", rootOpts.Env.Steps, "cap per trial (0 for the engine default)")
	cmd.PersistentFlags().Int64Var(&opts.Seed, "seed", 0, "first trial seed (0 uses SEAM_SEED or the default)")

	cmd.AddCommand(newSweepLatticeCommand(opts))
	cmd.AddCommand(newSweepBottleCommand(opts))
	return cmd
}

// LatticeSweepReport lists annihilation rates by bias.
type LatticeSweepReport struct {
	Size    int                   `json:"size"`
	K       float64               `json:"k"`
	Trials  int                   `json:"trials"`
	Elapsed string                `json:"elapsed"`
	Results []sweep.LatticeResult `json:"results"`
}

func (r LatticeSweepReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "lattice sweep %dx%d k=%.4f trials=%d (%s)\n", r.Size, r.Size, r.K, r.Trials, r.Elapsed)
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "bias\tk_eff\trate\tmean steps\tmean coherence\tcapped")
	for _, res := range r.Results {
		fmt.Fprintf(tw, "%.3f\t%.4f\t%.3f\t%.1f\t%.4f\t%d\n", res.Bias, res.KEff, res.Rate, res.MeanSteps, res.MeanCoherence, res.Capped)
	}
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

func newSweepLatticeCommand(opts *SweepOptions) *cobra.Command {
	def := lattice.DefaultConfig()
	var (
		size      int
		k         float64
		biases    []float64
		randomize bool
	)
	cmd := &cobra.Command{
		Use:   "lattice",
		Short: "Annihilation rate against propagation bias",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := def
			cfg.Size = size
			cfg.ThresholdK = k
			cfg.Seed = opts.seedOr(opts.Seed, def.Seed)
			cfg = cfg.Normalized()
			s := sweep.LatticeSweep{Base: cfg, Biases: biases, Trials: opts.Trials, MaxSteps: opts.MaxSteps, Randomize: randomize}

			ctx, stop := signalContext(cmd)
			defer stop()
			log := opts.log()
			log.Info("lattice sweep starting", "points", len(biases), "trials", opts.Trials, "workers", opts.Workers)
			start := time.Now()
			results, err := s.Run(ctx, opts.Workers)
			if err != nil {
				return WrapExitError(sweepExitCode(err), "lattice sweep", err)
			}
			elapsed := time.Since(start).Round(time.Millisecond)
			log.Info("lattice sweep finished", "elapsed", elapsed)

			return opts.formatter(cmd).Success(LatticeSweepReport{
				Size: cfg.Size, K: cfg.ThresholdK, Trials: opts.Trials, Elapsed: elapsed.String(), Results: results,
			})
		},
	}
	cmd.Flags().IntVar(&size, "size", def.Size, "grid size")
	cmd.Flags().Float64Var(&k, "k", def.ThresholdK, "threshold k")
	cmd.Flags().Float64SliceVar(&biases, "biases", []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6}, "propagation biases to sweep")
	cmd.Flags().BoolVar(&randomize, "randomize", false, "scramble each grid before ignition")
	return cmd
}

// BottleSweepReport lists win counts by liquid bias.
type BottleSweepReport struct {
	Width   int                  `json:"width"`
	Height  int                  `json:"height"`
	Spawn   string               `json:"spawn"`
	Trials  int                  `json:"trials"`
	Elapsed string               `json:"elapsed"`
	Results []sweep.BottleResult `json:"results"`
}

func (r BottleSweepReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "bottle sweep %dx%d spawn=%s trials=%d (%s)\n", r.Width, r.Height, r.Spawn, r.Trials, r.Elapsed)
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "bias A\tbias B\tfrozen\tliquid\tundecided\tmean switch\tmean frac A")
	for _, res := range r.Results {
		fmt.Fprintf(tw, "%.3f\t%.3f\t%d\t%d\t%d\t%.1f\t%.3f\n", res.BiasA, res.BiasB, res.FrozenWins, res.LiquidWins, res.Undecided, res.MeanSwitchFrame, res.MeanFracA)
	}
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

func newSweepBottleCommand(opts *SweepOptions) *cobra.Command {
	def := bottle.DefaultParams()
	p := def
	var (
		spawn  string
		biases []float64
		rect   bool
	)
	cmd := &cobra.Command{
		Use:   "bottle",
		Short: "Consensus outcomes against the Liquid bias",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, ok := mask.ParsePreset(spawn)
			if !ok {
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown spawn %q", spawn))
			}
			base := p
			base.Spawn = preset
			base.Seed = opts.seedOr(opts.Seed, def.Seed)
			var provider mask.Provider = mask.NewBottle()
			if rect {
				provider = mask.Rect{}
			}
			s := sweep.BottleSweep{Base: base, Provider: provider, BiasesB: biases, Trials: opts.Trials, MaxSteps: opts.MaxSteps}

			ctx, stop := signalContext(cmd)
			defer stop()
			log := opts.log()
			log.Info("bottle sweep starting", "points", len(biases), "trials", opts.Trials, "workers", opts.Workers)
			start := time.Now()
			results, err := s.Run(ctx, opts.Workers)
			if err != nil {
				return WrapExitError(sweepExitCode(err), "bottle sweep", err)
			}
			elapsed := time.Since(start).Round(time.Millisecond)
			log.Info("bottle sweep finished", "elapsed", elapsed)

			return opts.formatter(cmd).Success(BottleSweepReport{
				Width: base.Width, Height: base.Height, Spawn: string(preset), Trials: opts.Trials, Elapsed: elapsed.String(), Results: results,
			})
		},
	}
	cmd.Flags().IntVar(&p.Width, "width", 60, "domain width")
	cmd.Flags().IntVar(&p.Height, "height", 80, "domain height")
	cmd.Flags().Float64Var(&p.Threshold, "threshold", def.Threshold, "consensus threshold τ")
	cmd.Flags().Float64Var(&p.Hysteresis, "hysteresis", def.Hysteresis, "revert margin below τ")
	cmd.Flags().Float64Var(&p.BiasA, "bias-a", def.BiasA, "fixed Frozen bias")
	cmd.Flags().Float64SliceVar(&biases, "biases-b", []float64{0, 0.05, 0.1, 0.15, 0.2, 0.25}, "Liquid biases to sweep")
	cmd.Flags().IntVar(&p.SpeedA, "speed-a", def.SpeedA, "Frozen sub-steps per step")
	cmd.Flags().IntVar(&p.SpeedB, "speed-b", def.SpeedB, "Liquid sub-steps per step")
	cmd.Flags().StringVar(&spawn, "spawn", string(def.Spawn), "spawn layout")
	cmd.Flags().BoolVar(&rect, "rect", false, "use the full rectangle instead of the bottle silhouette")
	return cmd
}

func sweepExitCode(err error) int {
	if isCanceled(err) {
		return ExitFailure
	}
	return ExitCommandError
}
