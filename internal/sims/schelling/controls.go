package schelling

import (
	"strconv"

	"diversim/internal/core"
	"diversim/internal/dynamics"
	"diversim/internal/utility"
)

// ParameterControls lists the policy parameters that can change while the
// world runs. Topology and population are fixed at construction.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{
			Key:    "threshold",
			Label:  "Threshold",
			Type:   core.ParamTypeFloat,
			Min:    0,
			Max:    1,
			Step:   0.05,
			HasMin: true,
			HasMax: true,
		},
		{Key: "utility", Label: "Utility", Type: core.ParamTypeString, Options: utility.Names()},
		{Key: "dynamics", Label: "Dynamics", Type: core.ParamTypeString, Options: dynamics.Names()},
		{Key: "condition", Label: "Condition", Type: core.ParamTypeString, Options: dynamics.ConditionNames()},
		{Key: "collective", Label: "Collective", Type: core.ParamTypeBool, Options: []string{"false", "true"}},
	}
}

// SetFloatParameter updates the segregation threshold.
func (w *World) SetFloatParameter(key string, value float64) bool {
	if key != "threshold" || value < 0 || value > 1 {
		return false
	}
	p, err := utility.ByName(w.utility.Name(), value)
	if err != nil {
		return false
	}
	w.cfg.Threshold = value
	w.utility = p
	w.done = false
	return true
}

// SetChoiceParameter switches the utility policy, dynamics, swap condition
// or collective flag by name. Changing the acceptance rule rebuilds the
// dynamics, restarting a random swapper from the configured seed.
func (w *World) SetChoiceParameter(key, value string) bool {
	next := w.cfg
	switch key {
	case "utility":
		p, err := utility.ByName(value, w.cfg.Threshold)
		if err != nil {
			return false
		}
		w.cfg.Utility = value
		w.utility = p
		w.done = false
		return true
	case "dynamics":
		next.Dynamics = value
	case "condition":
		next.Condition = value
	case "collective":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false
		}
		next.Collective = b
	default:
		return false
	}

	cond, err := dynamics.ParseCondition(next.Condition)
	if err != nil {
		return false
	}
	d, err := dynamics.ByName(next.Dynamics, dynamics.Acceptor{Condition: cond, Collective: next.Collective}, next.Seed)
	if err != nil {
		return false
	}
	w.cfg = next
	w.SetDynamicsPolicy(d)
	w.log.Debug("policy changed", "key", key, "value", value)
	return true
}

var (
	_ core.ParameterControlsProvider = (*World)(nil)
	_ core.FloatParameterSetter      = (*World)(nil)
	_ core.ChoiceParameterSetter     = (*World)(nil)
)
