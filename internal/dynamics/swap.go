package dynamics

import (
	"cmp"
	"slices"

	pcore "diversim/pkg/core"
)

// RandomSwapper samples two distinct vertices per step and swaps them when
// the acceptor agrees. It never reports convergence.
type RandomSwapper struct {
	acc Acceptor
	rng *pcore.RNG
}

// NewRandomSwapper returns a RandomSwapper drawing pairs from a seeded RNG.
func NewRandomSwapper(acc Acceptor, seed int64) *RandomSwapper {
	return &RandomSwapper{acc: acc, rng: pcore.NewRNG(seed)}
}

// Name identifies the dynamics.
func (r *RandomSwapper) Name() string { return NameRandom }

// Reseed restarts the pair sequence from seed.
func (r *RandomSwapper) Reseed(seed int64) { r.rng = pcore.NewRNG(seed) }

// Step samples one pair and evaluates it.
func (r *RandomSwapper) Step(env Env) (Move, Outcome) {
	i, j, ok := r.rng.Pair(env.NumVertices())
	if !ok || !r.acc.Accepts(env, i, j) {
		return Move{}, Rejected
	}
	return swapMove(i, j), Swapped
}

// OrderedSwapper ranks all vertices by utility, least satisfied first, and
// swaps the first differently typed pair in that order the acceptor agrees
// to. When no pair qualifies it reports convergence.
type OrderedSwapper struct {
	acc Acceptor
}

// NewOrderedSwapper returns an OrderedSwapper.
func NewOrderedSwapper(acc Acceptor) *OrderedSwapper {
	return &OrderedSwapper{acc: acc}
}

// Name identifies the dynamics.
func (o *OrderedSwapper) Name() string { return NameOrdered }

// Step scans all unordered pairs in ascending utility order, ties broken by
// flat index.
func (o *OrderedSwapper) Step(env Env) (Move, Outcome) {
	n := env.NumVertices()
	utils := make([]float64, n)
	order := make([]int, n)
	for i := range order {
		order[i] = i
		utils[i] = env.Utility(i)
	}
	slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(utils[a], utils[b]) })

	for x, i := range order {
		ti := env.TypeAt(i)
		for _, j := range order[x+1:] {
			if env.TypeAt(j) == ti {
				continue
			}
			if o.acc.Accepts(env, i, j) {
				return swapMove(i, j), Swapped
			}
		}
	}
	return Move{}, Converged
}
