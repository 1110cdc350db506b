// Package scenario holds the named lattice and bottle setups shipped with
// the tools, plus loading of user catalogues in the same YAML shape.
package scenario

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"seam-lattice/internal/mask"
	"seam-lattice/internal/sims/bottle"
	"seam-lattice/internal/sims/lattice"
)

//go:embed catalog.yaml
var builtinYAML []byte

// Lattice is a named cascade setup.
type Lattice struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Outcome     string  `yaml:"outcome,omitempty" json:"outcome,omitempty"`
	Size        int     `yaml:"size" json:"size"`
	K           float64 `yaml:"k" json:"k"`
	Bias        float64 `yaml:"bias" json:"bias"`
	DelayMS     int     `yaml:"delay_ms,omitempty" json:"delay_ms,omitempty"`
	// Randomize scrambles the grid before ignition.
	Randomize bool `yaml:"randomize,omitempty" json:"randomize,omitempty"`
}

// Config applies the scenario to base.
func (s Lattice) Config(base lattice.Config) lattice.Config {
	base.Size = s.Size
	base.ThresholdK = s.K
	base.PropagationBias = s.Bias
	return base.Normalized()
}

// Delay is the suggested pause between steps when watching.
func (s Lattice) Delay() time.Duration {
	return time.Duration(s.DelayMS) * time.Millisecond
}

// Bottle is a named two-front story.
type Bottle struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Spawn       string  `yaml:"spawn" json:"spawn"`
	BiasA       float64 `yaml:"bias_a" json:"bias_a"`
	BiasB       float64 `yaml:"bias_b" json:"bias_b"`
	SpeedA      int     `yaml:"speed_a" json:"speed_a"`
	SpeedB      int     `yaml:"speed_b" json:"speed_b"`
}

// Params applies the story to base.
func (s Bottle) Params(base bottle.Params) bottle.Params {
	base.Spawn, _ = mask.ParsePreset(s.Spawn)
	base.BiasA, base.BiasB = s.BiasA, s.BiasB
	base.SpeedA, base.SpeedB = s.SpeedA, s.SpeedB
	return base
}

// Catalog groups scenarios by engine.
type Catalog struct {
	Lattice []Lattice `yaml:"lattice" json:"lattice"`
	Bottle  []Bottle  `yaml:"bottle" json:"bottle"`
}

// ErrNotFound is returned when an id is not in the catalogue.
var ErrNotFound = errors.New("scenario not found")

var (
	builtinOnce    sync.Once
	builtinCatalog Catalog
	builtinErr     error
)

// Builtin returns the embedded catalogue.
func Builtin() (Catalog, error) {
	builtinOnce.Do(func() {
		builtinCatalog, builtinErr = Parse(builtinYAML)
	})
	if builtinErr != nil {
		return Catalog{}, builtinErr
	}
	return builtinCatalog.clone(), nil
}

// Load reads a catalogue file.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalogue: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalogue, rejecting unknown fields.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalogue: %w", err)
	}
	if err := c.validate(); err != nil {
		return Catalog{}, fmt.Errorf("invalid catalogue: %w", err)
	}
	return c, nil
}

func (c Catalog) validate() error {
	seen := map[string]bool{}
	for i, s := range c.Lattice {
		if s.ID == "" {
			return fmt.Errorf("lattice[%d]: id is required", i)
		}
		if seen["lattice/"+s.ID] {
			return fmt.Errorf("lattice[%d]: duplicate id %q", i, s.ID)
		}
		seen["lattice/"+s.ID] = true
		if s.Size <= 0 {
			return fmt.Errorf("lattice %q: size must be positive", s.ID)
		}
		if s.Bias < 0 || s.Bias > lattice.MaxBias {
			return fmt.Errorf("lattice %q: bias %.2f outside [0, %.1f]", s.ID, s.Bias, lattice.MaxBias)
		}
	}
	for i, s := range c.Bottle {
		if s.ID == "" {
			return fmt.Errorf("bottle[%d]: id is required", i)
		}
		if seen["bottle/"+s.ID] {
			return fmt.Errorf("bottle[%d]: duplicate id %q", i, s.ID)
		}
		seen["bottle/"+s.ID] = true
		if _, ok := mask.ParsePreset(s.Spawn); !ok {
			return fmt.Errorf("bottle %q: unknown spawn %q", s.ID, s.Spawn)
		}
		if s.SpeedA < 0 || s.SpeedB < 0 {
			return fmt.Errorf("bottle %q: speeds must not be negative", s.ID)
		}
	}
	return nil
}

// Merge returns c with other's entries appended; entries sharing an id
// replace the earlier one in place.
func (c Catalog) Merge(other Catalog) Catalog {
	out := c.clone()
	for _, s := range other.Lattice {
		if i := indexOf(out.Lattice, s.ID, func(l Lattice) string { return l.ID }); i >= 0 {
			out.Lattice[i] = s
		} else {
			out.Lattice = append(out.Lattice, s)
		}
	}
	for _, s := range other.Bottle {
		if i := indexOf(out.Bottle, s.ID, func(b Bottle) string { return b.ID }); i >= 0 {
			out.Bottle[i] = s
		} else {
			out.Bottle = append(out.Bottle, s)
		}
	}
	return out
}

// LatticeByID looks up a lattice scenario.
func (c Catalog) LatticeByID(id string) (Lattice, error) {
	if i := indexOf(c.Lattice, id, func(l Lattice) string { return l.ID }); i >= 0 {
		return c.Lattice[i], nil
	}
	return Lattice{}, fmt.Errorf("lattice %q: %w", id, ErrNotFound)
}

// BottleByID looks up a bottle story.
func (c Catalog) BottleByID(id string) (Bottle, error) {
	if i := indexOf(c.Bottle, id, func(b Bottle) string { return b.ID }); i >= 0 {
		return c.Bottle[i], nil
	}
	return Bottle{}, fmt.Errorf("bottle %q: %w", id, ErrNotFound)
}

func (c Catalog) clone() Catalog {
	return Catalog{
		Lattice: append([]Lattice(nil), c.Lattice...),
		Bottle:  append([]Bottle(nil), c.Bottle...),
	}
}

func indexOf[T any](items []T, id string, key func(T) string) int {
	for i, it := range items {
		if key(it) == id {
			return i
		}
	}
	return -1
}
