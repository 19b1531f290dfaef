package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// IntN returns a random int in [0, n). It returns 0 when n <= 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Pair returns two distinct indices drawn uniformly from [0, n).
// It reports false when n < 2.
func (r *RNG) Pair(n int) (int, int, bool) {
	if n < 2 {
		return 0, 0, false
	}
	a := r.r.IntN(n)
	b := r.r.IntN(n - 1)
	if b >= a {
		b++
	}
	return a, b, true
}

// Shuffle permutes vals in place.
func (r *RNG) Shuffle(vals []int) {
	r.r.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })
}

// FillUniform fills buf with values drawn uniformly from [0, n).
func (r *RNG) FillUniform(buf []int, n int) {
	for i := range buf {
		buf[i] = r.IntN(n)
	}
}
