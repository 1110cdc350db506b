package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"seam-lattice/internal/mask"
	"seam-lattice/internal/sims/bottle"
	"seam-lattice/internal/stats"
)

// BottleOptions holds flags for the bottle command.
type BottleOptions struct {
	*RootOptions
	Scenario   string
	Width      int
	Height     int
	Threshold  float64
	Hysteresis float64
	BiasA      float64
	BiasB      float64
	SpeedA     int
	SpeedB     int
	Seed       int64
	Spawn      string
	Rect       bool
	MaxSteps   int
	Chart      string
}

// BottleReport is the outcome of one two-front run.
type BottleReport struct {
	Scenario    string       `json:"scenario,omitempty"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	ActiveCells int          `json:"active_cells"`
	Spawn       string       `json:"spawn"`
	Seed        int64        `json:"seed"`
	Threshold   float64      `json:"threshold"`
	Hysteresis  float64      `json:"hysteresis"`
	BiasA       float64      `json:"bias_a"`
	BiasB       float64      `json:"bias_b"`
	SpeedA      int          `json:"speed_a"`
	SpeedB      int          `json:"speed_b"`
	Winner      string       `json:"winner,omitempty"`
	Stats       stats.Bottle `json:"stats"`
	Chart       string       `json:"chart,omitempty"`
}

func (r BottleReport) String() string {
	var b strings.Builder
	if r.Scenario != "" {
		fmt.Fprintf(&b, "scenario   %s\n", r.Scenario)
	}
	fmt.Fprintf(&b, "domain     %dx%d active=%d spawn=%s seed=%d\n", r.Width, r.Height, r.ActiveCells, r.Spawn, r.Seed)
	fmt.Fprintf(&b, "fronts     A bias=%.2f speed=%d | B bias=%.2f speed=%d\n", r.BiasA, r.SpeedA, r.BiasB, r.SpeedB)
	fmt.Fprintf(&b, "fractions  A=%.3f B=%.3f after %d steps\n", r.Stats.FracA, r.Stats.FracB, r.Stats.Steps)
	winner := r.Winner
	if winner == "" {
		winner = "none"
	}
	fmt.Fprintf(&b, "consensus  %s (τ=%.2f, switch frame %d, complete=%v)", winner, r.Threshold, r.Stats.SwitchFrame, r.Stats.Complete)
	if r.Chart != "" {
		fmt.Fprintf(&b, "\nchart      %s", r.Chart)
	}
	return b.String()
}

// NewBottleCommand creates the bottle command.
func NewBottleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BottleOptions{RootOptions: rootOpts}
	def := bottle.DefaultParams()

	cmd := &cobra.Command{
		Use:   "bottle",
		Short: "Race the Frozen and Liquid fronts across the bottle",
		Long: `Seed both fronts, expand them every step and report the consensus.

Example:
  seamlab bottle --scenario frozenWins
  seamlab bottle --spawn neckVsBody --threshold 0.9 --chart fractions.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBottle(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "start from a catalogue entry")
	cmd.Flags().IntVar(&opts.Width, "width", def.Width, "domain width")
	cmd.Flags().IntVar(&opts.Height, "height", def.Height, "domain height")
	cmd.Flags().Float64Var(&opts.Threshold, "threshold", def.Threshold, "consensus threshold τ")
	cmd.Flags().Float64Var(&opts.Hysteresis, "hysteresis", def.Hysteresis, "revert margin below τ")
	cmd.Flags().Float64Var(&opts.BiasA, "bias-a", def.BiasA, "Frozen bias")
	cmd.Flags().Float64Var(&opts.BiasB, "bias-b", def.BiasB, "Liquid bias")
	cmd.Flags().IntVar(&opts.SpeedA, "speed-a", def.SpeedA, "Frozen sub-steps per step")
	cmd.Flags().IntVar(&opts.SpeedB, "speed-b", def.SpeedB, "Liquid sub-steps per step")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "RNG seed (0 uses SEAM_SEED or the default)")
	cmd.Flags().StringVar(&opts.Spawn, "spawn", string(def.Spawn), "spawn layout")
	cmd.Flags().BoolVar(&opts.Rect, "rect", false, "use the full rectangle instead of the bottle silhouette")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", rootOpts.Env.Steps, "stop after this many steps (0 for no cap)")
	cmd.Flags().StringVar(&opts.Chart, "chart", "", "write a fraction chart PNG to this path")

	return cmd
}

func (o *BottleOptions) params(cmd *cobra.Command) (bottle.Params, string, error) {
	p := bottle.DefaultParams()
	flags := cmd.Flags()
	fromScenario := false
	name := ""
	if o.Scenario != "" {
		cat, err := o.catalog()
		if err != nil {
			return p, "", err
		}
		s, err := cat.BottleByID(o.Scenario)
		if err != nil {
			return p, "", WrapExitError(ExitCommandError, "unknown scenario", err)
		}
		p = s.Params(p)
		fromScenario = true
		name = s.ID
	}
	use := func(flag string) bool { return !fromScenario || flags.Changed(flag) }
	p.Width, p.Height = o.Width, o.Height
	p.Threshold, p.Hysteresis = o.Threshold, o.Hysteresis
	if use("bias-a") {
		p.BiasA = o.BiasA
	}
	if use("bias-b") {
		p.BiasB = o.BiasB
	}
	if use("speed-a") {
		p.SpeedA = o.SpeedA
	}
	if use("speed-b") {
		p.SpeedB = o.SpeedB
	}
	if use("spawn") {
		spawn, ok := mask.ParsePreset(o.Spawn)
		if !ok {
			return p, "", NewExitError(ExitCommandError, fmt.Sprintf("unknown spawn %q", o.Spawn))
		}
		p.Spawn = spawn
	}
	p.Seed = o.seedOr(o.Seed, p.Seed)
	return p, name, nil
}

func runBottle(opts *BottleOptions, cmd *cobra.Command) error {
	p, name, err := opts.params(cmd)
	if err != nil {
		return err
	}
	log := opts.log()

	var provider mask.Provider = mask.NewBottle()
	if opts.Rect {
		provider = mask.Rect{}
	}
	b, err := bottle.New(p, provider)
	if err != nil {
		return WrapExitError(ExitCommandError, "build bottle", err)
	}
	log.Debug("bottle configured", "w", p.Width, "h", p.Height, "active", b.ActiveCells(), "spawn", p.Spawn, "seed", p.Seed)

	ctx, stop := signalContext(cmd)
	defer stop()

	hist := stats.NewHistory(stats.DefaultHistoryLimit)
	hist.AddBottle(b.Stats())
	for {
		if err := ctx.Err(); err != nil {
			return WrapExitError(ExitFailure, "interrupted", err)
		}
		if opts.MaxSteps > 0 && b.Steps() >= opts.MaxSteps {
			log.Debug("step cap reached", "steps", b.Steps())
			break
		}
		if !b.Step() {
			break
		}
		hist.AddBottle(b.Stats())
		if b.Switched() {
			log.Debug("global regime changed", "step", b.Steps()-1, "global", b.Global())
		}
	}
	st := b.Stats()
	log.Info("bottle finished", "steps", st.Steps, "global", st.Global, "frac_a", st.FracA, "frac_b", st.FracB)

	report := BottleReport{
		Scenario:    name,
		Width:       p.Width,
		Height:      p.Height,
		ActiveCells: b.ActiveCells(),
		Spawn:       string(p.Spawn),
		Seed:        p.Seed,
		Threshold:   p.Threshold,
		Hysteresis:  p.Hysteresis,
		BiasA:       p.BiasA,
		BiasB:       p.BiasB,
		SpeedA:      p.SpeedA,
		SpeedB:      p.SpeedB,
		Winner:      b.Winner(),
		Stats:       st,
	}
	if opts.Chart != "" {
		written, err := writeChart(opts.Chart, stats.FractionChart, hist.Samples())
		if err != nil {
			return err
		}
		if written {
			report.Chart = opts.Chart
		} else {
			log.Warn("chart skipped, run too short", "samples", hist.Len())
		}
	}
	return opts.formatter(cmd).Success(report)
}
