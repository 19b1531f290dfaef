package core

import "fmt"

// Coord is an n-dimensional grid coordinate, one entry per axis.
type Coord []int

// Clone returns a copy of the coordinate.
func (c Coord) Clone() Coord { return append(Coord(nil), c...) }

// Equal reports whether two coordinates are identical.
func (c Coord) Equal(o Coord) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// Shape describes an n-dimensional grid with per-axis wraparound.
type Shape struct {
	size    []int
	wrap    []bool
	strides []int
	total   int
}

// NewShape validates the axis sizes and wrap flags and precomputes strides.
// A nil wrap slice marks every axis as wrapping.
func NewShape(size []int, wrap []bool) (*Shape, error) {
	if len(size) == 0 {
		return nil, ErrEmptyShape
	}
	if wrap == nil {
		wrap = make([]bool, len(size))
		for i := range wrap {
			wrap[i] = true
		}
	}
	if len(wrap) != len(size) {
		return nil, fmt.Errorf("%w: %d flags for %d axes", ErrWrapMismatch, len(wrap), len(size))
	}
	s := &Shape{
		size:    append([]int(nil), size...),
		wrap:    append([]bool(nil), wrap...),
		strides: make([]int, len(size)),
		total:   1,
	}
	for i := len(size) - 1; i >= 0; i-- {
		if size[i] <= 0 {
			return nil, fmt.Errorf("%w: axis %d has length %d", ErrAxisSize, i, size[i])
		}
		s.strides[i] = s.total
		s.total *= size[i]
	}
	return s, nil
}

// Dims returns the number of axes.
func (s *Shape) Dims() int { return len(s.size) }

// Size returns a copy of the axis lengths.
func (s *Shape) Size() []int { return append([]int(nil), s.size...) }

// Wraps returns a copy of the per-axis wrap flags.
func (s *Shape) Wraps() []bool { return append([]bool(nil), s.wrap...) }

// Len returns the number of grid points.
func (s *Shape) Len() int { return s.total }

// MinSize returns the shortest axis length.
func (s *Shape) MinSize() int {
	m := s.size[0]
	for _, v := range s.size[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// ToCoord decomposes a flat row-major index into a coordinate.
func (s *Shape) ToCoord(flat int) Coord {
	c := make(Coord, len(s.size))
	for i := range s.size {
		c[i] = (flat / s.strides[i]) % s.size[i]
	}
	return c
}

// ToFlat returns the row-major index of an in-bounds coordinate.
func (s *Shape) ToFlat(c Coord) int {
	flat := 0
	for i, v := range c {
		flat += v * s.strides[i]
	}
	return flat
}

// Contains reports whether c has the right rank and lies inside the grid.
func (s *Shape) Contains(c Coord) bool {
	if len(c) != len(s.size) {
		return false
	}
	for i, v := range c {
		if v < 0 || v >= s.size[i] {
			return false
		}
	}
	return true
}

// Wrap folds c back into the grid along wrapping axes. It reports false when
// c leaves the grid along an axis with a hard boundary. c is modified in place.
func (s *Shape) Wrap(c Coord) (Coord, bool) {
	for i, v := range c {
		if v >= 0 && v < s.size[i] {
			continue
		}
		if !s.wrap[i] {
			return nil, false
		}
		c[i] = (v%s.size[i] + s.size[i]) % s.size[i]
	}
	return c, true
}

// MaxDegree returns the largest neighbor count any vertex could reach within
// the enumeration window of min(size)-1 shells.
func (s *Shape) MaxDegree() int {
	reach := 2*(s.MinSize()-1) + 1
	n := 1
	for _, v := range s.size {
		if v < reach {
			n *= v
		} else {
			n *= reach
		}
	}
	return n - 1
}
