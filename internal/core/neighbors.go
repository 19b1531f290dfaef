package core

// Neighbors enumerates up to degree distinct neighbors of c in shell order.
//
// For each Chebyshev radius w = 1 .. MinSize()-1 it first visits the axial
// points (offset -w then +w on one axis at a time), then the off-axis points
// of the shell: for every axis i and sign s in {-w, +w}, axes before i range
// over [-w+1, w-1], axes after i over [-w, w] and axis i is fixed to s, with
// the first axis varying slowest. Candidates that leave a bounded axis, fold
// back onto c, or repeat an earlier coordinate are skipped without counting.
//
// The second result is false when the grid cannot supply degree neighbors.
func (s *Shape) Neighbors(c Coord, degree int) ([]Coord, bool) {
	if degree <= 0 {
		return nil, true
	}
	out := make([]Coord, 0, degree)
	seen := map[int]struct{}{s.ToFlat(c): {}}
	add := func(offset []int) bool {
		cand := make(Coord, len(c))
		for i := range c {
			cand[i] = c[i] + offset[i]
		}
		cand, ok := s.Wrap(cand)
		if !ok {
			return false
		}
		f := s.ToFlat(cand)
		if _, dup := seen[f]; dup {
			return false
		}
		seen[f] = struct{}{}
		out = append(out, cand)
		return len(out) == degree
	}

	n := len(s.size)
	offset := make([]int, n)
	for w := 1; w < s.MinSize(); w++ {
		for i := 0; i < n; i++ {
			for _, sign := range [2]int{-w, w} {
				clear(offset)
				offset[i] = sign
				if add(offset) {
					return out, true
				}
			}
		}
		for i := 0; i < n; i++ {
			for _, sign := range [2]int{-w, w} {
				if shellFace(offset, i, sign, w, add) {
					return out, true
				}
			}
		}
	}
	return out, len(out) == degree
}

// shellFace walks the face of shell w where axis i is pinned to sign and
// feeds every non-axial offset to visit. It stops when visit returns true.
func shellFace(offset []int, axis, sign, w int, visit func([]int) bool) bool {
	n := len(offset)
	lo := func(j int) int {
		if j < axis {
			return -w + 1
		}
		return -w
	}
	hi := func(j int) int {
		if j < axis {
			return w - 1
		}
		return w
	}
	for j := range offset {
		offset[j] = lo(j)
	}
	offset[axis] = sign

	for {
		axial := true
		for j, v := range offset {
			if j != axis && v != 0 {
				axial = false
				break
			}
		}
		if !axial && visit(offset) {
			return true
		}

		j := n - 1
		for ; j >= 0; j-- {
			if j == axis {
				continue
			}
			if offset[j] < hi(j) {
				offset[j]++
				break
			}
			offset[j] = lo(j)
		}
		if j < 0 {
			return false
		}
	}
}

// ExtendNeighborhood grows the immediate neighborhood of ref by radius-1
// rounds. Each round adds the adjacency of the vertices discovered in the
// previous round, skipping ref and vertices already present. adj holds the
// immediate neighbors of every vertex as flat indices.
func ExtendNeighborhood(adj [][]int, ref, radius int) []int {
	out := append([]int(nil), adj[ref]...)
	if radius <= 1 {
		return out
	}
	seen := make(map[int]struct{}, len(out)+1)
	seen[ref] = struct{}{}
	for _, v := range out {
		seen[v] = struct{}{}
	}
	frontier := out
	for r := 1; r < radius; r++ {
		start := len(out)
		for _, u := range frontier {
			for _, v := range adj[u] {
				if _, ok := seen[v]; ok {
					continue
				}
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
		if len(out) == start {
			break
		}
		frontier = out[start:]
	}
	return out
}
