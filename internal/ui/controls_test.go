package ui

import (
	"image"
	"testing"

	"diversim/internal/core"
)

type fakeSetter struct {
	accept bool
	key    string
	float  float64
	choice string
}

func (f *fakeSetter) SetFloatParameter(key string, v float64) bool {
	f.key, f.float = key, v
	return f.accept
}

func (f *fakeSetter) SetChoiceParameter(key, v string) bool {
	f.key, f.choice = key, v
	return f.accept
}

func snapshot(params ...core.Parameter) core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{Name: "Policies", Params: params}}}
}

var thresholdDef = core.ParameterControl{
	Key: "threshold", Type: core.ParamTypeFloat, Min: 0, Max: 1, Step: 0.05, HasMin: true, HasMax: true,
}

var dynamicsDef = core.ParameterControl{
	Key: "dynamics", Type: core.ParamTypeString, Options: []string{"ordered", "random"},
}

func TestControlFloatClampsAndFormats(t *testing.T) {
	c := newControls([]core.ParameterControl{thresholdDef})[0]
	if _, _, ok := c.next(1); ok {
		t.Fatal("a control without a value must not adjust")
	}
	c.sync(snapshot(core.Parameter{Key: "threshold", Value: "0.9800"}))
	if c.value != "0.98" {
		t.Fatalf("value = %q, want 0.98", c.value)
	}
	_, v, ok := c.next(1)
	if !ok || v != 1 {
		t.Fatalf("next(+1) = %v,%v, want clamp to 1", v, ok)
	}

	c.sync(snapshot(core.Parameter{Key: "threshold", Value: "1"}))
	if _, _, ok := c.next(1); ok {
		t.Fatal("at the maximum the increment must be disabled")
	}
	if _, v, ok := c.next(-1); !ok || v < 0.949 || v > 0.951 {
		t.Fatalf("next(-1) = %v,%v, want 0.95", v, ok)
	}
}

func TestControlApply(t *testing.T) {
	set := &fakeSetter{accept: true}
	c := newControls([]core.ParameterControl{thresholdDef})[0]
	c.sync(snapshot(core.Parameter{Key: "threshold", Value: "0.5"}))
	if !c.apply(-1, set, set) || set.key != "threshold" || c.value != "0.45" {
		t.Fatalf("apply(-1): setter %+v, value %q", set, c.value)
	}
	if c.apply(-1, nil, set) {
		t.Fatal("float control without a float setter must not apply")
	}

	set.accept = false
	if c.apply(1, set, set) || c.value != "0.45" {
		t.Fatalf("rejected change must keep %q, got %q", "0.45", c.value)
	}
}

func TestControlChoiceCycles(t *testing.T) {
	set := &fakeSetter{accept: true}
	c := newControls([]core.ParameterControl{dynamicsDef})[0]
	c.sync(snapshot(core.Parameter{Key: "dynamics", Value: "ordered"}))
	if opt, _, _ := c.next(-1); opt != "random" {
		t.Fatalf("next(-1) from first option = %q, want wrap to random", opt)
	}
	if !c.apply(1, set, set) || set.choice != "random" || c.choice != 1 {
		t.Fatalf("apply(+1): setter %+v, choice %d", set, c.choice)
	}
	if !c.apply(1, set, set) || set.choice != "ordered" {
		t.Fatalf("apply(+1) must wrap to ordered, got %q", set.choice)
	}

	c.sync(snapshot())
	if c.known || c.value != "--" {
		t.Fatalf("missing parameter must clear the value, got %q", c.value)
	}
}

func TestButtonsLayout(t *testing.T) {
	minus, plus := buttons(1, 300)
	if plus.Max.X != 300-panelPadding || plus.Dx() != buttonSize || plus.Dy() != buttonSize {
		t.Fatalf("plus = %v", plus)
	}
	if minus.Max.X+buttonGap != plus.Min.X || minus.Min.Y != plus.Min.Y {
		t.Fatalf("minus = %v, plus = %v", minus, plus)
	}
	top, _ := buttons(0, 300)
	if minus.Min.Y-top.Min.Y != rowHeight {
		t.Fatalf("rows are %d apart, want %d", minus.Min.Y-top.Min.Y, rowHeight)
	}
	if image.Pt(minus.Min.X, minus.Min.Y).In(plus) {
		t.Fatal("buttons overlap")
	}
}

func TestFormatStep(t *testing.T) {
	cases := []struct {
		value, step float64
		want        string
	}{
		{0.5, 0.05, "0.50"},
		{0.333, 0.1, "0.3"},
		{3, 1, "3"},
		{0.12345, 0.001, "0.123"},
	}
	for _, tc := range cases {
		if got := formatStep(tc.value, tc.step); got != tc.want {
			t.Fatalf("formatStep(%v, %v) = %q, want %q", tc.value, tc.step, got, tc.want)
		}
	}
}
