package app

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seam-lattice/internal/config"
	"seam-lattice/internal/core"
	"seam-lattice/internal/mask"
	"seam-lattice/internal/scenario"
	"seam-lattice/internal/sims/bottle"
	"seam-lattice/internal/sims/lattice"
)

func TestBindParsesFlags(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("seam", flag.ContinueOnError)
	cfg.Bind(fs)
	require.NoError(t, fs.Parse([]string{"-sim", "bottle", "-scale", "3", "-seed", "9", "-hud", "0"}))

	assert.Equal(t, "bottle", cfg.Sim)
	assert.Equal(t, 3, cfg.Scale)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, 0, cfg.HUDWidth)
	assert.Equal(t, 30, cfg.TPS)
}

func TestApplyEnvFillsUnsetValues(t *testing.T) {
	cfg := NewConfig()
	cfg.ApplyEnv(config.Env{Seed: 5, Presets: "extra.yaml"})
	assert.Equal(t, int64(5), cfg.Seed)
	assert.Equal(t, "extra.yaml", cfg.Presets)

	cfg = NewConfig()
	cfg.Seed = 2
	cfg.ApplyEnv(config.Env{Seed: 5})
	assert.Equal(t, int64(2), cfg.Seed)
}

func TestBuildRegisteredSim(t *testing.T) {
	cfg := NewConfig()
	cfg.Seed = 77
	sim, err := cfg.Build()
	require.NoError(t, err)
	l, ok := sim.(*lattice.Lattice)
	require.True(t, ok)
	assert.Equal(t, int64(77), l.Config().Seed)
	assert.True(t, l.Running(), "the registered lattice starts ignited")

	cfg.Sim = "nope"
	_, err = cfg.Build()
	assert.ErrorContains(t, err, `unknown sim "nope"`)
}

func TestBuildLatticeScenario(t *testing.T) {
	cfg := NewConfig()
	cfg.Scenario = "random-start"
	sim, err := cfg.Build()
	require.NoError(t, err)
	l := sim.(*lattice.Lattice)
	assert.True(t, l.Running())
	assert.False(t, lattice.IsUniform(l.States()), "random-start scrambles the grid")
}

func TestBuildBottleScenario(t *testing.T) {
	cfg := NewConfig()
	cfg.Scenario = "frozenWins"
	cfg.Seed = 3
	sim, err := cfg.Build()
	require.NoError(t, err)
	b, ok := sim.(*bottle.Bottle)
	require.True(t, ok)
	assert.Equal(t, int64(3), b.Params().Seed)
}

func TestNewBottleRejectsWithNilSim(t *testing.T) {
	p := bottle.DefaultParams()
	p.Width = 0
	sim, err := newBottle(p, mask.Rect{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrPrecondition))
	assert.True(t, sim == nil, "a rejected bottle must not leave a typed nil in the interface")

	p = bottle.DefaultParams()
	p.Width, p.Height = 10, 10
	sim, err = newBottle(p, mask.Rect{})
	require.NoError(t, err)
	assert.Equal(t, "bottle", sim.Name())
}

func TestBuildUnknownScenario(t *testing.T) {
	cfg := NewConfig()
	cfg.Scenario = "missing"
	_, err := cfg.Build()
	assert.True(t, errors.Is(err, scenario.ErrNotFound))
}

func TestBuildScenarioFromPresetsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.yaml")
	data := "lattice:\n  - id: tiny\n    name: Tiny\n    description: five by five\n    size: 5\n    k: 0.5\n    bias: 0.1\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg := NewConfig()
	cfg.Scenario = "tiny"
	cfg.Presets = path
	sim, err := cfg.Build()
	require.NoError(t, err)
	assert.Equal(t, core.Size{W: 5, H: 5}, sim.Size())

	cfg.Presets = filepath.Join(t.TempDir(), "absent.yaml")
	_, err = cfg.Build()
	assert.Error(t, err)
}

func TestScaleFor(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, 3, cfg.ScaleFor(core.Size{W: 150, H: 200}))
	assert.Equal(t, 54, cfg.ScaleFor(core.Size{W: 11, H: 11}))
	assert.Equal(t, 1, cfg.ScaleFor(core.Size{W: 2000, H: 10}))
	assert.Equal(t, 1, cfg.ScaleFor(core.Size{}))

	cfg.Scale = 4
	assert.Equal(t, 4, cfg.ScaleFor(core.Size{W: 11, H: 11}))
}
