// Package metrics computes global diversity measures over a type assignment.
// All measures except SocialWelfare with unnormalized policies lie in [0, 1].
package metrics

import "diversim/internal/utility"

// Grid is the read-only view of a world the measures need.
type Grid interface {
	NumVertices() int
	VertexDegree() int
	NumEdges() float64
	TypeAt(i int) int
	// Neighborhood returns the neighbor type-count vector of vertex i.
	Neighborhood(i int) []int
}

// DOI returns the degree-of-integration vector: entry k-1 is the fraction of
// vertices with at least k neighbors of a different type. Its length is the
// largest neighborhood size in g, at least VertexDegree.
func DOI(g Grid) []float64 {
	n := g.NumVertices()
	if n == 0 {
		return nil
	}
	diffs := make([]int, n)
	longest := g.VertexDegree()
	for i := range diffs {
		vec := g.Neighborhood(i)
		total := 0
		for _, c := range vec {
			total += c
		}
		diffs[i] = total - vec[g.TypeAt(i)]
		longest = max(longest, total)
	}
	counts := make([]int, longest)
	for _, d := range diffs {
		for k := 0; k < d; k++ {
			counts[k]++
		}
	}
	doi := make([]float64, longest)
	for k, c := range counts {
		doi[k] = float64(c) / float64(n)
	}
	return doi
}

// Segregated returns the fraction of vertices without a differently typed
// neighbor, 1 - DOI_1.
func Segregated(g Grid) float64 {
	doi := DOI(g)
	if len(doi) == 0 {
		return 0
	}
	return 1 - doi[0]
}

// ColorfulEdges returns the fraction of edges joining vertices of different
// types. Each such edge is seen from both endpoints.
func ColorfulEdges(g Grid) float64 {
	edges := g.NumEdges()
	if edges == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range DOI(g) {
		sum += v
	}
	return sum * float64(g.NumVertices()) / edges / 2
}

// SocialWelfare returns the mean normalized utility of every vertex under p.
func SocialWelfare(g Grid, p utility.Policy) float64 {
	n := g.NumVertices()
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += utility.Normalized(p, g.Neighborhood(i), g.TypeAt(i))
	}
	return sum / float64(n)
}

// Score pairs a policy name with its social welfare.
type Score struct {
	Policy string  `json:"policy" yaml:"policy"`
	Value  float64 `json:"value" yaml:"value"`
}

// Summary bundles the global measures of one assignment.
type Summary struct {
	SocialWelfare []Score   `json:"social_welfare" yaml:"social_welfare"`
	DOI           []float64 `json:"doi" yaml:"doi"`
	ColorfulEdges float64   `json:"colorful_edges" yaml:"colorful_edges"`
	Segregated    float64   `json:"segregated" yaml:"segregated"`
}

// Summarize computes every measure, scoring social welfare under policies
// or, when none are given, under utility.Diversity().
func Summarize(g Grid, policies ...utility.Policy) Summary {
	if len(policies) == 0 {
		policies = utility.Diversity()
	}
	s := Summary{DOI: DOI(g)}
	for _, p := range policies {
		s.SocialWelfare = append(s.SocialWelfare, Score{Policy: p.Name(), Value: SocialWelfare(g, p)})
	}
	if len(s.DOI) > 0 {
		s.Segregated = 1 - s.DOI[0]
	}
	if edges := g.NumEdges(); edges > 0 {
		sum := 0.0
		for _, v := range s.DOI {
			sum += v
		}
		s.ColorfulEdges = sum * float64(g.NumVertices()) / edges / 2
	}
	return s
}
