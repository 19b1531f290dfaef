// Package utility scores a vertex's satisfaction from its neighborhood
// type-count vector. vec[t] counts the neighbors of type t, excluding the
// vertex itself; own is the vertex's type.
package utility

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnknownPolicy indicates a policy name with no registered constructor.
var ErrUnknownPolicy = errors.New("utility: unknown policy")

// Policy maps a neighborhood type-count vector to a scalar utility.
// BestCase is the largest value Compute can take for a neighborhood of the
// same size and type count.
type Policy interface {
	Name() string
	Compute(vec []int, own int) float64
	BestCase(vec []int, own int) float64
}

// Policy names accepted by ByName.
const (
	NameBinary           = "binary"
	NameDifference       = "difference"
	NameTypeCount        = "type-count"
	NameSegregation      = "segregation"
	NameAntiSegregation  = "anti-segregation"
	NameEntropy          = "entropy"
	NameAvgDiffTypeCount = "avg-diff-type-count"
)

// ByName constructs a policy. threshold only applies to the segregation pair.
func ByName(name string, threshold float64) (Policy, error) {
	switch name {
	case NameBinary:
		return Binary{}, nil
	case NameDifference:
		return Difference{}, nil
	case NameTypeCount:
		return TypeCount{}, nil
	case NameSegregation:
		return Segregation{Threshold: threshold}, nil
	case NameAntiSegregation:
		return AntiSegregation{Threshold: threshold}, nil
	case NameEntropy:
		return Entropy{}, nil
	case NameAvgDiffTypeCount:
		return Average{A: Difference{}, B: TypeCount{}}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// Names lists the policies ByName understands.
func Names() []string {
	names := []string{
		NameBinary, NameDifference, NameTypeCount, NameSegregation,
		NameAntiSegregation, NameEntropy, NameAvgDiffTypeCount,
	}
	sort.Strings(names)
	return names
}

// Diversity returns the policies used for welfare reporting.
func Diversity() []Policy {
	return []Policy{Binary{}, TypeCount{}, Difference{}, AntiSegregation{Threshold: 0.5}, Entropy{}}
}

func total(vec []int) int {
	n := 0
	for _, c := range vec {
		n += c
	}
	return n
}

// Binary is 1 when any neighbor has a different type, else 0.
type Binary struct{}

func (Binary) Name() string { return NameBinary }

func (Binary) Compute(vec []int, own int) float64 {
	if vec[own] == total(vec) {
		return 0
	}
	return 1
}

func (Binary) BestCase(vec []int, own int) float64 {
	if total(vec) == 0 || len(vec) < 2 {
		return 0
	}
	return 1
}

// Difference counts the neighbors whose type differs from own.
type Difference struct{}

func (Difference) Name() string { return NameDifference }

func (Difference) Compute(vec []int, own int) float64 {
	return float64(total(vec) - vec[own])
}

func (Difference) BestCase(vec []int, own int) float64 {
	if len(vec) < 2 {
		return 0
	}
	return float64(total(vec))
}

// TypeCount counts the distinct types other than own present among the neighbors.
type TypeCount struct{}

func (TypeCount) Name() string { return NameTypeCount }

func (TypeCount) Compute(vec []int, own int) float64 {
	n := 0
	for t, c := range vec {
		if t != own && c > 0 {
			n++
		}
	}
	return float64(n)
}

func (TypeCount) BestCase(vec []int, own int) float64 {
	return float64(min(len(vec)-1, total(vec)))
}

// Segregation is the fraction of neighbors sharing own's type. With a
// positive Threshold it becomes 1 when the fraction reaches the threshold and
// 0 otherwise. A vertex without neighbors counts as fully segregated.
type Segregation struct {
	Threshold float64
}

func (Segregation) Name() string { return NameSegregation }

func (s Segregation) Compute(vec []int, own int) float64 {
	n := total(vec)
	frac := 1.0
	if n > 0 {
		frac = float64(vec[own]) / float64(n)
	}
	if s.Threshold <= 0 {
		return frac
	}
	if frac >= s.Threshold {
		return 1
	}
	return 0
}

func (Segregation) BestCase([]int, int) float64 { return 1 }

// AntiSegregation is the complement of Segregation.
type AntiSegregation struct {
	Threshold float64
}

func (AntiSegregation) Name() string { return NameAntiSegregation }

func (a AntiSegregation) Compute(vec []int, own int) float64 {
	return 1 - Segregation(a).Compute(vec, own)
}

func (AntiSegregation) BestCase([]int, int) float64 { return 1 }

// Entropy is the Shannon entropy (natural log) of the type distribution over
// the closed neighborhood, own type included.
type Entropy struct{}

func (Entropy) Name() string { return NameEntropy }

func (Entropy) Compute(vec []int, own int) float64 {
	n := float64(total(vec) + 1)
	h := 0.0
	for t, c := range vec {
		if t == own {
			c++
		}
		if c == 0 {
			continue
		}
		p := float64(c) / n
		h -= p * math.Log(p)
	}
	return h
}

// BestCase spreads the n+1 members of the closed neighborhood as evenly as
// possible over min(T, n+1) types.
func (Entropy) BestCase(vec []int, own int) float64 {
	members := total(vec) + 1
	k := min(len(vec), members)
	base, extra := members/k, members%k
	n := float64(members)
	h := 0.0
	for i := 0; i < k; i++ {
		c := base
		if i < extra {
			c++
		}
		p := float64(c) / n
		h -= p * math.Log(p)
	}
	return h
}

// Average is the mean of two policies, each normalized by its best case.
type Average struct {
	A, B Policy
}

func (a Average) Name() string {
	if _, ok := a.A.(Difference); ok {
		if _, ok := a.B.(TypeCount); ok {
			return NameAvgDiffTypeCount
		}
	}
	return "avg(" + a.A.Name() + "," + a.B.Name() + ")"
}

func (a Average) Compute(vec []int, own int) float64 {
	return (Normalized(a.A, vec, own) + Normalized(a.B, vec, own)) / 2
}

func (Average) BestCase([]int, int) float64 { return 1 }

// Normalized returns p's utility divided by its best case, or 0 when the
// best case is 0.
func Normalized(p Policy, vec []int, own int) float64 {
	best := p.BestCase(vec, own)
	if best == 0 {
		return 0
	}
	return p.Compute(vec, own) / best
}
