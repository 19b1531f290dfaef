package core

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeFloat denotes floating-point parameters.
	ParamTypeFloat ParamType = "float"
	// ParamTypeBool denotes boolean parameters.
	ParamTypeBool ParamType = "bool"
	// ParamTypeString denotes named choices such as policies.
	ParamTypeString ParamType = "string"
)

// Parameter describes a single configured value exposed by a simulation.
type Parameter struct {
	Key         string
	Label       string
	Type        ParamType
	Value       string
	Description string
}

// ParameterGroup clusters related parameters for presentation purposes.
type ParameterGroup struct {
	Name    string
	Params  []Parameter
	Summary string
}

// ParameterSnapshot captures the current configuration and live statistics of a sim.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// ParameterProvider is implemented by sims that expose a parameter snapshot.
type ParameterProvider interface {
	Parameters() ParameterSnapshot
}

// Lookup returns the parameter with the given key, searching all groups.
func (s ParameterSnapshot) Lookup(key string) (Parameter, bool) {
	for _, g := range s.Groups {
		for _, p := range g.Params {
			if p.Key == key {
				return p, true
			}
		}
	}
	return Parameter{}, false
}

// ParameterControl describes a parameter the viewer may adjust at runtime.
// Float controls step between Min and Max; string and bool controls cycle
// through Options.
type ParameterControl struct {
	Key     string
	Label   string
	Type    ParamType
	Min     float64
	Max     float64
	Step    float64
	HasMin  bool
	HasMax  bool
	Options []string
}

// ParameterControlsProvider lists the runtime-adjustable parameters of a sim.
type ParameterControlsProvider interface {
	ParameterControls() []ParameterControl
}

// FloatParameterSetter applies floating-point parameter changes.
type FloatParameterSetter interface {
	SetFloatParameter(key string, value float64) bool
}

// ChoiceParameterSetter applies a named option to a string parameter.
type ChoiceParameterSetter interface {
	SetChoiceParameter(key, value string) bool
}
