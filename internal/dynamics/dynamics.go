// Package dynamics decides which vertex types move. A Dynamics never mutates
// the environment itself: it returns a Move the environment executes.
package dynamics

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownDynamics indicates a dynamics name with no constructor.
	ErrUnknownDynamics = errors.New("dynamics: unknown dynamics")
	// ErrUnknownCondition indicates an unrecognized acceptance condition.
	ErrUnknownCondition = errors.New("dynamics: unknown swap condition")
)

// Env is the read-side view of an environment the dynamics need.
// Vertices are addressed by flat index.
type Env interface {
	NumVertices() int
	TypeAt(i int) int
	Utility(i int) float64
	NeighborsOf(i int) []int
	// Hypothetical swaps the types at a and b, runs fn with a utility
	// function that reads the swapped state, then restores the original
	// types before returning.
	Hypothetical(a, b int, fn func(utility func(i int) float64))
}

// Move instructs the environment to copy the types found at From to the
// positions in To. Types are read before any write.
type Move struct {
	From []int
	To   []int
}

// Empty reports whether the move carries no instruction.
func (m Move) Empty() bool { return len(m.From) == 0 }

// Outcome is the result of a single Step.
type Outcome int

const (
	// Rejected means no move was accepted this step; the run continues.
	Rejected Outcome = iota
	// Swapped means the returned Move should be applied.
	Swapped
	// Converged means no acceptable move exists; the run is finished.
	Converged
)

func (o Outcome) String() string {
	switch o {
	case Rejected:
		return "rejected"
	case Swapped:
		return "swapped"
	case Converged:
		return "converged"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Dynamics performs one transition attempt per Step.
type Dynamics interface {
	Name() string
	Step(env Env) (Move, Outcome)
}

// Names of the built-in dynamics.
const (
	NameRandom  = "random"
	NameOrdered = "ordered"
)

// ByName constructs a built-in dynamics. seed only affects the random swapper.
func ByName(name string, acc Acceptor, seed int64) (Dynamics, error) {
	switch name {
	case NameRandom:
		return NewRandomSwapper(acc, seed), nil
	case NameOrdered:
		return NewOrderedSwapper(acc), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDynamics, name)
}

// Names lists the dynamics ByName understands.
func Names() []string { return []string{NameOrdered, NameRandom} }

func swapMove(i, j int) Move {
	return Move{From: []int{i, j}, To: []int{j, i}}
}
