package schelling

// Dissatisfaction returns, per vertex, how far the active policy's utility
// falls short of the best case the vertex's own neighborhood allows, in
// [0, 1]. Vertices whose best case is 0 count as satisfied.
func (w *World) Dissatisfaction() []float64 {
	out := make([]float64, len(w.types))
	for i := range out {
		vec, own := w.Neighborhood(i), w.types[i]
		best := w.utility.BestCase(vec, own)
		if best <= 0 {
			continue
		}
		out[i] = min(max(1-w.utility.Compute(vec, own)/best, 0), 1)
	}
	return out
}

// Mixing returns, per vertex, the share of its neighborhood holding a
// different type. Vertices without neighbors report 0.
func (w *World) Mixing() []float64 {
	out := make([]float64, len(w.types))
	for i := range out {
		vec, own := w.Neighborhood(i), w.types[i]
		n := 0
		for _, c := range vec {
			n += c
		}
		if n > 0 {
			out[i] = float64(n-vec[own]) / float64(n)
		}
	}
	return out
}
