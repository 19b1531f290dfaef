package core

import "sort"

// Size describes the dimensions of the 2D view of a simulation grid.
type Size struct {
	W int
	H int
}

// Environment is the capability set a graph environment must provide to be
// driven by the swap dynamics. Grid worlds are one implementation; other
// topologies only need to supply typed vertices and their neighbors.
type Environment interface {
	Type(c Coord) int
	SetType(t int, c Coord)
	Neighbors(c Coord) []Coord
	Step() bool
}

// Sim defines the minimal contract the viewer needs from a simulation.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step() bool
	Cells() []uint8
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) (Sim, error)

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// SimNames returns the registered simulation names in sorted order.
func SimNames() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
