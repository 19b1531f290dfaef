package schelling

import "errors"

var (
	// ErrDegree indicates a non-positive vertex degree.
	ErrDegree = errors.New("schelling: vertex degree must be positive")
	// ErrDegreeInfeasible indicates a degree no vertex of a grid without
	// wrapping axes can reach.
	ErrDegreeInfeasible = errors.New("schelling: vertex degree exceeds the neighbors the grid can supply")
	// ErrNumTypes indicates fewer than one agent type.
	ErrNumTypes = errors.New("schelling: number of types must be positive")
	// ErrNeighRadius indicates a non-positive neighborhood radius.
	ErrNeighRadius = errors.New("schelling: neighborhood radius must be positive")
	// ErrUnknownInit indicates an initializer name with no constructor.
	ErrUnknownInit = errors.New("schelling: unknown initializer")
	// ErrTypes indicates a type assignment of the wrong length or with out-of-range types.
	ErrTypes = errors.New("schelling: invalid type assignment")
)
