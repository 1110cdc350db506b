package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"seam-lattice/internal/core"
	"seam-lattice/internal/sims/lattice"
	"seam-lattice/internal/stats"
)

// LatticeOptions holds flags for the lattice command.
type LatticeOptions struct {
	*RootOptions
	Scenario  string
	Size      int
	K         float64
	Bias      float64
	Seed      int64
	Randomize bool
	Origin    string
	MaxSteps  int
	Watch     bool
	TPS       int
	Chart     string
}

// LatticeReport is the outcome of one cascade.
type LatticeReport struct {
	Scenario   string        `json:"scenario,omitempty"`
	Size       int           `json:"size"`
	K          float64       `json:"k"`
	Bias       float64       `json:"bias"`
	KEff       float64       `json:"k_eff"`
	Seed       int64         `json:"seed"`
	Randomized bool          `json:"randomized"`
	Origin     [2]int        `json:"origin"`
	Outcome    string        `json:"outcome"`
	Stats      stats.Lattice `json:"stats"`
	Chart      string        `json:"chart,omitempty"`
}

func (r LatticeReport) String() string {
	var b strings.Builder
	if r.Scenario != "" {
		fmt.Fprintf(&b, "scenario   %s\n", r.Scenario)
	}
	fmt.Fprintf(&b, "lattice    %dx%d seed=%d origin=(%d,%d) randomized=%v\n", r.Size, r.Size, r.Seed, r.Origin[0], r.Origin[1], r.Randomized)
	fmt.Fprintf(&b, "threshold  k=%.4f bias=%.2f k_eff=%.4f\n", r.K, r.Bias, r.KEff)
	fmt.Fprintf(&b, "outcome    %s after %d steps\n", r.Outcome, r.Stats.Steps)
	fmt.Fprintf(&b, "coherence  %.4f", r.Stats.Coherence)
	if r.Chart != "" {
		fmt.Fprintf(&b, "\nchart      %s", r.Chart)
	}
	return b.String()
}

// Lattice run outcomes.
const (
	OutcomeAnnihilated = "annihilated"
	OutcomeDiedOut     = "died-out"
	OutcomeCapped      = "capped"
)

// NewLatticeCommand creates the lattice command.
func NewLatticeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LatticeOptions{RootOptions: rootOpts}
	def := lattice.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "lattice",
		Short: "Run a seam cascade on a toroidal lattice",
		Long: `Ignite a lattice and step it until the propagation queue drains.

Example:
  seamlab lattice --size 15 --bias 0.4
  seamlab lattice --scenario random-start --watch
  seamlab lattice --k 0.5 --bias 0.6 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLattice(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "start from a catalogue entry")
	cmd.Flags().IntVar(&opts.Size, "size", def.Size, "grid size (forced odd, 5..49)")
	cmd.Flags().Float64Var(&opts.K, "k", def.ThresholdK, "threshold k")
	cmd.Flags().Float64Var(&opts.Bias, "bias", def.PropagationBias, "propagation bias (0..0.6)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "RNG seed (0 uses SEAM_SEED or the default)")
	cmd.Flags().BoolVar(&opts.Randomize, "randomize", false, "scramble the grid before ignition")
	cmd.Flags().StringVar(&opts.Origin, "origin", "", "ignition cell as row,col (default center)")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", rootOpts.Env.Steps, "stop after this many flips (0 for no cap)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "print an ASCII frame per step")
	cmd.Flags().IntVar(&opts.TPS, "tps", 10, "frames per second when watching")
	cmd.Flags().StringVar(&opts.Chart, "chart", "", "write a coherence chart PNG to this path")

	return cmd
}

func (o *LatticeOptions) config(cmd *cobra.Command) (lattice.Config, string, error) {
	cfg := lattice.DefaultConfig()
	flags := cmd.Flags()
	fromScenario := false
	name := ""
	if o.Scenario != "" {
		cat, err := o.catalog()
		if err != nil {
			return cfg, "", err
		}
		s, err := cat.LatticeByID(o.Scenario)
		if err != nil {
			return cfg, "", WrapExitError(ExitCommandError, "unknown scenario", err)
		}
		cfg = s.Config(cfg)
		fromScenario = true
		name = s.ID
		if s.Randomize && !flags.Changed("randomize") {
			o.Randomize = true
		}
		if s.DelayMS > 0 && !flags.Changed("tps") {
			o.TPS = max(1, 1000/s.DelayMS)
		}
	}
	use := func(flag string) bool { return !fromScenario || flags.Changed(flag) }
	if use("size") {
		cfg.Size = o.Size
	}
	if use("k") {
		cfg.ThresholdK = o.K
	}
	if use("bias") {
		cfg.PropagationBias = o.Bias
	}
	cfg.Seed = o.seedOr(o.Seed, cfg.Seed)
	return cfg.Normalized(), name, nil
}

func parseOrigin(s string) (lattice.Coord, error) {
	row, col, ok := strings.Cut(s, ",")
	if !ok {
		return lattice.Coord{}, fmt.Errorf("origin %q: want row,col", s)
	}
	r, err := strconv.Atoi(strings.TrimSpace(row))
	if err != nil {
		return lattice.Coord{}, fmt.Errorf("origin row: %w", err)
	}
	c, err := strconv.Atoi(strings.TrimSpace(col))
	if err != nil {
		return lattice.Coord{}, fmt.Errorf("origin col: %w", err)
	}
	return lattice.Coord{Row: r, Col: c}, nil
}

func runLattice(opts *LatticeOptions, cmd *cobra.Command) error {
	cfg, name, err := opts.config(cmd)
	if err != nil {
		return err
	}
	log := opts.log()
	log.Debug("lattice configured", "n", cfg.Size, "k", cfg.ThresholdK, "bias", cfg.PropagationBias, "k_eff", cfg.EffectiveThreshold(), "seed", cfg.Seed)

	l := lattice.New(cfg)
	if opts.Randomize {
		l.Randomize()
	}
	origin := lattice.Coord{Row: cfg.Size / 2, Col: cfg.Size / 2}
	if opts.Origin != "" {
		if origin, err = parseOrigin(opts.Origin); err != nil {
			return WrapExitError(ExitCommandError, "invalid origin", err)
		}
	}
	if err := l.Ignite(origin); err != nil {
		return WrapExitError(ExitCommandError, "ignite", err)
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	out := opts.formatter(cmd)
	hist := stats.NewHistory(stats.DefaultHistoryLimit)
	hist.AddLattice(l.Stats())

	var pacer *core.FixedStep
	if opts.Watch {
		pacer = core.NewFixedStep(opts.TPS)
		if err := writeLatticeFrame(out.FrameWriter(), l); err != nil {
			return WrapExitError(ExitFailure, "write frame", err)
		}
	}

	outcome := ""
	for outcome == "" {
		if err := ctx.Err(); err != nil {
			return WrapExitError(ExitFailure, "interrupted", err)
		}
		if opts.MaxSteps > 0 && l.Steps() >= opts.MaxSteps {
			outcome = OutcomeCapped
			break
		}
		if !l.Step() {
			outcome = OutcomeDiedOut
			if l.Annihilated() {
				outcome = OutcomeAnnihilated
			}
			break
		}
		hist.AddLattice(l.Stats())
		if pacer != nil {
			pacer.Wait()
			if err := writeLatticeFrame(out.FrameWriter(), l); err != nil {
				return WrapExitError(ExitFailure, "write frame", err)
			}
		}
	}
	log.Info("cascade finished", "outcome", outcome, "steps", l.Steps(), "coherence", l.Coherence())

	report := LatticeReport{
		Scenario:   name,
		Size:       cfg.Size,
		K:          cfg.ThresholdK,
		Bias:       cfg.PropagationBias,
		KEff:       cfg.EffectiveThreshold(),
		Seed:       cfg.Seed,
		Randomized: opts.Randomize,
		Origin:     [2]int{origin.Row, origin.Col},
		Outcome:    outcome,
		Stats:      l.Stats(),
	}
	if opts.Chart != "" {
		written, err := writeChart(opts.Chart, stats.CoherenceChart, hist.Samples())
		if err != nil {
			return err
		}
		if written {
			report.Chart = opts.Chart
		} else {
			log.Warn("chart skipped, run too short", "samples", hist.Len())
		}
	}
	return out.Success(report)
}

func writeLatticeFrame(w io.Writer, l *lattice.Lattice) error {
	st := l.Stats()
	if _, err := fmt.Fprintf(w, "step %d coherence %.3f seams %d\n", st.Steps, st.Coherence, st.ActiveSeams); err != nil {
		return err
	}
	if err := l.WriteASCII(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// writeChart renders samples to path. It reports false without creating the
// file when there are too few samples.
func writeChart(path string, kind stats.ChartKind, samples []stats.Sample) (bool, error) {
	if len(samples) < 2 {
		return false, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return false, WrapExitError(ExitCommandError, "create chart", err)
	}
	if err := stats.RenderChart(f, kind, samples); err != nil {
		f.Close()
		if errors.Is(err, stats.ErrTooFewSamples) {
			return false, nil
		}
		return false, WrapExitError(ExitFailure, "render chart", err)
	}
	if err := f.Close(); err != nil {
		return false, WrapExitError(ExitFailure, "close chart", err)
	}
	return true, nil
}
