package app

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"seam-lattice/internal/config"
	"seam-lattice/internal/core"
	"seam-lattice/internal/mask"
	"seam-lattice/internal/scenario"
	"seam-lattice/internal/sims/bottle"
	"seam-lattice/internal/sims/lattice"
)

// viewPixels is the target edge length of the grid view when the scale is
// chosen automatically.
const viewPixels = 600

// Config represents the command-line parameters for the viewer.
type Config struct {
	Sim      string
	Scenario string
	Presets  string
	Scale    int
	TPS      int
	Seed     int64
	HUDWidth int
}

// NewConfig returns a Config populated with the viewer defaults.
func NewConfig() *Config {
	return &Config{Sim: "lattice", TPS: 30, HUDWidth: 220}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run ("+strings.Join(core.Names(), ", ")+")")
	fs.StringVar(&c.Scenario, "scenario", c.Scenario, "catalogue scenario id; overrides -sim")
	fs.StringVar(&c.Presets, "presets", c.Presets, "extra scenario catalogue (YAML)")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier, 0 fits the window")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset, 0 keeps the sim default")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "parameter panel width in pixels, 0 hides it")
}

// ApplyEnv fills settings the flags left at their zero value.
func (c *Config) ApplyEnv(e config.Env) {
	if c.Seed == 0 {
		c.Seed = e.Seed
	}
	if c.Presets == "" {
		c.Presets = e.Presets
	}
}

// Build constructs the simulation the configuration names, ready to step.
func (c *Config) Build() (core.Sim, error) {
	if c.Scenario != "" {
		return c.buildScenario()
	}
	factory, ok := core.Sims()[c.Sim]
	if !ok {
		return nil, fmt.Errorf("unknown sim %q (have %s)", c.Sim, strings.Join(core.Names(), ", "))
	}
	var opts map[string]string
	if c.Seed != 0 {
		opts = map[string]string{"seed": strconv.FormatInt(c.Seed, 10)}
	}
	return factory(opts)
}

func (c *Config) buildScenario() (core.Sim, error) {
	cat, err := scenario.Builtin()
	if err != nil {
		return nil, err
	}
	if c.Presets != "" {
		extra, err := scenario.Load(c.Presets)
		if err != nil {
			return nil, err
		}
		cat = cat.Merge(extra)
	}

	if s, err := cat.LatticeByID(c.Scenario); err == nil {
		cfg := s.Config(lattice.DefaultConfig())
		if c.Seed != 0 {
			cfg.Seed = c.Seed
		}
		l := lattice.New(cfg)
		if s.Randomize {
			l.Randomize()
		}
		if err := l.IgniteCenter(); err != nil {
			return nil, err
		}
		return l, nil
	} else if !errors.Is(err, scenario.ErrNotFound) {
		return nil, err
	}

	s, err := cat.BottleByID(c.Scenario)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", c.Scenario, scenario.ErrNotFound)
	}
	p := s.Params(bottle.DefaultParams())
	if c.Seed != 0 {
		p.Seed = c.Seed
	}
	return newBottle(p, nil)
}

// newBottle returns a nil Sim, not a Sim holding a nil *Bottle, when the
// parameters are rejected.
func newBottle(p bottle.Params, provider mask.Provider) (core.Sim, error) {
	b, err := bottle.New(p, provider)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ScaleFor returns the configured scale, or one that fits size into the
// default view when the scale is zero.
func (c *Config) ScaleFor(size core.Size) int {
	if c.Scale > 0 {
		return c.Scale
	}
	edge := max(size.W, size.H)
	if edge <= 0 {
		return 1
	}
	return max(1, viewPixels/edge)
}
