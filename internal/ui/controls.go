package ui

import (
	"image"
	"math"
	"slices"
	"strconv"
	"strings"

	"diversim/internal/core"
)

const (
	panelPadding   = 12
	rowHeight      = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	statsSpacing   = 18
	statsLines     = 7
	rowsTop        = panelPadding + headerBaseline + 14
)

const defaultFloatStep = 0.05

// control is the panel's view of one adjustable parameter.
type control struct {
	def    core.ParameterControl
	value  string
	number float64
	choice int
	known  bool
}

func newControls(defs []core.ParameterControl) []control {
	out := make([]control, len(defs))
	for i, d := range defs {
		out[i] = control{def: d, value: "--", choice: -1}
	}
	return out
}

// sync reads the control's current value from snap.
func (c *control) sync(snap core.ParameterSnapshot) {
	c.known = false
	c.value = "--"
	p, ok := snap.Lookup(c.def.Key)
	if !ok {
		return
	}
	switch c.def.Type {
	case core.ParamTypeFloat:
		v, err := strconv.ParseFloat(p.Value, 64)
		if err != nil {
			return
		}
		c.number = v
		c.value = formatStep(v, c.step())
	case core.ParamTypeString, core.ParamTypeBool:
		c.choice = slices.Index(c.def.Options, p.Value)
		c.value = p.Value
	default:
		return
	}
	c.known = true
}

func (c *control) step() float64 {
	if c.def.Step > 0 {
		return c.def.Step
	}
	return defaultFloatStep
}

// next returns the value one click in direction dir asks for. ok is false
// when the click would change nothing.
func (c *control) next(dir int) (option string, number float64, ok bool) {
	if !c.known || dir == 0 {
		return "", 0, false
	}
	switch c.def.Type {
	case core.ParamTypeFloat:
		number = c.number + float64(dir)*c.step()
		if c.def.HasMin {
			number = max(number, c.def.Min)
		}
		if c.def.HasMax {
			number = min(number, c.def.Max)
		}
		return "", number, math.Abs(number-c.number) > 1e-9
	case core.ParamTypeString, core.ParamTypeBool:
		n := len(c.def.Options)
		if n < 2 {
			return "", 0, false
		}
		i := ((c.choice+dir)%n + n) % n
		return c.def.Options[i], 0, true
	}
	return "", 0, false
}

// apply sends the next value through the matching setter and records it when
// the sim accepts.
func (c *control) apply(dir int, fs core.FloatParameterSetter, cs core.ChoiceParameterSetter) bool {
	option, number, ok := c.next(dir)
	if !ok {
		return false
	}
	if c.def.Type == core.ParamTypeFloat {
		if fs == nil || !fs.SetFloatParameter(c.def.Key, number) {
			return false
		}
		c.number = number
		c.value = formatStep(number, c.step())
		return true
	}
	if cs == nil || !cs.SetChoiceParameter(c.def.Key, option) {
		return false
	}
	c.choice = slices.Index(c.def.Options, option)
	c.value = option
	return true
}

// buttons returns the decrement and increment hit boxes of row in a panel of
// the given width.
func buttons(row, width int) (minus, plus image.Rectangle) {
	y := rowsTop + row*rowHeight + (rowHeight-buttonSize)/2
	plus = image.Rect(width-panelPadding-buttonSize, y, width-panelPadding, y+buttonSize)
	minus = plus.Sub(image.Pt(buttonSize+buttonGap, 0))
	return minus, plus
}

// formatStep prints value with as many decimals as step carries.
func formatStep(value, step float64) string {
	s := strconv.FormatFloat(step, 'f', -1, 64)
	decimals := 0
	if i := strings.IndexByte(s, '.'); i >= 0 {
		decimals = len(s) - i - 1
	}
	return strconv.FormatFloat(value, 'f', decimals, 64)
}
