package core

import (
	"errors"
	"testing"
)

func TestShapeRoundTrip(t *testing.T) {
	shapes := [][]int{{7}, {5, 5}, {2, 3, 4}, {3, 1, 2, 5}}
	for _, size := range shapes {
		s, err := NewShape(size, nil)
		if err != nil {
			t.Fatalf("NewShape(%v): %v", size, err)
		}
		for f := 0; f < s.Len(); f++ {
			c := s.ToCoord(f)
			if !s.Contains(c) {
				t.Fatalf("size %v: ToCoord(%d) = %v out of bounds", size, f, c)
			}
			if got := s.ToFlat(c); got != f {
				t.Fatalf("size %v: ToFlat(ToCoord(%d)) = %d", size, f, got)
			}
		}
	}
}

func TestShapeRowMajor(t *testing.T) {
	s, err := NewShape([]int{2, 3, 4}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.ToFlat(Coord{1, 2, 3}); got != 23 {
		t.Fatalf("ToFlat(1,2,3) = %d, want 23", got)
	}
	if got := s.ToCoord(13); !got.Equal(Coord{1, 0, 1}) {
		t.Fatalf("ToCoord(13) = %v, want [1 0 1]", got)
	}
	if s.Len() != 24 || s.Dims() != 3 || s.MinSize() != 2 {
		t.Fatalf("unexpected shape metrics len=%d dims=%d min=%d", s.Len(), s.Dims(), s.MinSize())
	}
}

func TestShapeWrap(t *testing.T) {
	s, err := NewShape([]int{5, 4}, []bool{true, false})
	if err != nil {
		t.Fatal(err)
	}
	c, ok := s.Wrap(Coord{-1, 2})
	if !ok || !c.Equal(Coord{4, 2}) {
		t.Fatalf("Wrap(-1,2) = %v,%v want [4 2],true", c, ok)
	}
	c, ok = s.Wrap(Coord{7, 3})
	if !ok || !c.Equal(Coord{2, 3}) {
		t.Fatalf("Wrap(7,3) = %v,%v want [2 3],true", c, ok)
	}
	if _, ok := s.Wrap(Coord{0, 4}); ok {
		t.Fatal("Wrap(0,4) crossed a bounded axis")
	}
	if _, ok := s.Wrap(Coord{0, -1}); ok {
		t.Fatal("Wrap(0,-1) crossed a bounded axis")
	}
}

func TestNewShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		size []int
		wrap []bool
		want error
	}{
		{"empty", nil, nil, ErrEmptyShape},
		{"zero axis", []int{3, 0}, nil, ErrAxisSize},
		{"negative axis", []int{-2}, nil, ErrAxisSize},
		{"wrap mismatch", []int{3, 3}, []bool{true}, ErrWrapMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewShape(tt.size, tt.wrap); !errors.Is(err, tt.want) {
				t.Fatalf("NewShape error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMaxDegree(t *testing.T) {
	tests := []struct {
		size []int
		want int
	}{
		{[]int{5, 5}, 24},
		{[]int{20, 20}, 399},
		{[]int{2, 10}, 5},
		{[]int{9}, 8},
		{[]int{1, 6}, 0},
	}
	for _, tt := range tests {
		s, err := NewShape(tt.size, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got := s.MaxDegree(); got != tt.want {
			t.Fatalf("MaxDegree(%v) = %d, want %d", tt.size, got, tt.want)
		}
	}
}
