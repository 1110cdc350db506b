// Package ui draws the viewer's parameter panel and overlays. The control and
// status logic here is build-tag free so it runs under plain go test.
package ui

import (
	"math"
	"strconv"

	"seam-lattice/internal/core"
)

// control tracks one HUD-adjustable parameter and its last observed value.
type control struct {
	core.ParameterControl
	text  string
	value float64
	known bool
}

func newControls(sim core.Sim) []control {
	provider, ok := sim.(core.ParameterControlsProvider)
	if !ok {
		return nil
	}
	defs := provider.ParameterControls()
	out := make([]control, len(defs))
	for i, def := range defs {
		out[i] = control{ParameterControl: def, text: "--"}
	}
	return out
}

// refresh reads every control's value out of the snapshot. Controls whose key
// is missing or unparsable are marked unknown and cannot be adjusted.
func refresh(controls []control, snap core.ParameterSnapshot) {
	for i := range controls {
		c := &controls[i]
		c.known = false
		c.text = "--"
		p, ok := snap.Lookup(c.Key)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(p.Value, 64)
		if err != nil {
			continue
		}
		c.value = v
		c.known = true
		c.text = formatValue(c.ParameterControl, v)
	}
}

func (c control) step() float64 {
	if c.Type == core.ParamTypeInt {
		return math.Max(1, math.Round(c.Step))
	}
	if c.Step <= 0 {
		return 0.05
	}
	return c.Step
}

// target returns the clamped value one step in direction dir, and false when
// that step would not change anything.
func (c control) target(dir int) (float64, bool) {
	if !c.known || dir == 0 {
		return c.value, false
	}
	next := c.Clamp(c.value + float64(dir)*c.step())
	if c.Type == core.ParamTypeInt {
		next = math.Round(next)
	}
	if core.AlmostEqual(next, c.value) {
		return c.value, false
	}
	return next, true
}

// adjust steps c through the sim's setter and updates the cached value when
// the sim accepts it.
func adjust(sim core.Sim, c *control, dir int) bool {
	next, ok := c.target(dir)
	if !ok {
		return false
	}
	switch c.Type {
	case core.ParamTypeInt:
		setter, ok := sim.(core.IntParameterSetter)
		if !ok || !setter.SetIntParameter(c.Key, int(next)) {
			return false
		}
	case core.ParamTypeFloat:
		setter, ok := sim.(core.FloatParameterSetter)
		if !ok || !setter.SetFloatParameter(c.Key, next) {
			return false
		}
	default:
		return false
	}
	c.value = next
	c.text = formatValue(c.ParameterControl, next)
	return true
}

func formatValue(ctrl core.ParameterControl, v float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	precision := 1
	switch {
	case ctrl.Step > 0 && ctrl.Step < 0.001:
		precision = 4
	case ctrl.Step > 0 && ctrl.Step < 0.01:
		precision = 3
	case ctrl.Step > 0 && ctrl.Step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}
