package schelling

import (
	"strconv"
	"strings"

	"diversim/internal/core"
	"diversim/internal/metrics"
)

// Parameters reports the configuration together with live run statistics.
func (w *World) Parameters() core.ParameterSnapshot {
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				stringParam("size", "Size", joinInts(w.cfg.Size)),
				stringParam("wrap", "Wrap", joinBools(w.cfg.Wrap)),
				intParam("degree", "Vertex degree", w.cfg.VertexDegree),
				intParam("radius", "Neighborhood radius", w.cfg.NeighRadius),
				intParam("types", "Types", w.cfg.NumTypes),
				int64Param("seed", "Seed", w.cfg.Seed),
			},
		},
		{
			Name: "Policies",
			Params: []core.Parameter{
				stringParam("utility", "Utility", w.utility.Name()),
				floatParam("threshold", "Threshold", w.cfg.Threshold),
				stringParam("dynamics", "Dynamics", w.dynamics.Name()),
				stringParam("condition", "Swap condition", w.cfg.Condition),
				boolParam("collective", "Collective", w.cfg.Collective),
				stringParam("init", "Initializer", w.cfg.Init),
			},
		},
		{
			Name:    "Run",
			Summary: runSummary(w),
			Params: []core.Parameter{
				intParam("steps", "Steps", w.steps),
				boolParam("done", "Converged", w.done),
				floatParam("welfare", "Social welfare", metrics.SocialWelfare(w, w.utility)),
				floatParam("colorful_edges", "Colorful edges", metrics.ColorfulEdges(w)),
				floatParam("segregated", "Segregated", metrics.Segregated(w)),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func runSummary(w *World) string {
	if w.done {
		return "converged after " + strconv.Itoa(w.steps) + " moves"
	}
	return "running"
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', 4, 64),
	}
}

func boolParam(key, label string, value bool) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeBool,
		Value: strconv.FormatBool(value),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "x")
}

func joinBools(vals []bool) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatBool(v)
	}
	return strings.Join(parts, ",")
}
