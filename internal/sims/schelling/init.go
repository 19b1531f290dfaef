package schelling

import (
	"context"
	"fmt"

	"diversim/internal/dynamics"
	"diversim/internal/initcache"
	"diversim/internal/utility"
	pcore "diversim/pkg/core"
)

// Initializer assigns the starting types of w from seed. It must leave every
// vertex with a type in [0, NumTypes).
type Initializer func(w *World, seed int64) error

// InitByName returns the built-in initializer called name. budget bounds the
// warm-up of the schelling initializer and is ignored by the others.
func InitByName(name string, budget int) (Initializer, error) {
	switch name {
	case InitRandom:
		return RandomInit, nil
	case InitEquitable:
		return EquitableInit, nil
	case InitSchelling:
		return SchellingInit(budget), nil
	case InitBlock:
		return BlockInit, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownInit, name)
}

// RandomInit draws every type uniformly.
func RandomInit(w *World, seed int64) error {
	types := make([]int, w.NumVertices())
	pcore.NewRNG(seed).FillUniform(types, w.cfg.NumTypes)
	return w.SetTypes(types)
}

// EquitableInit assigns every type to floor(V/T) or ceil(V/T) vertices and
// shuffles the result.
func EquitableInit(w *World, seed int64) error {
	n, k := w.NumVertices(), w.cfg.NumTypes
	types := make([]int, n)
	for i := range types {
		types[i] = i % k
	}
	pcore.NewRNG(seed).Shuffle(types)
	return w.SetTypes(types)
}

// BlockInit stripes the grid along the first axis: each type gets
// size[0]/NumTypes consecutive slabs and the last type absorbs the remainder.
// The seed is unused.
func BlockInit(w *World, _ int64) error {
	rows := w.shape.Size()[0]
	k := w.cfg.NumTypes
	block := max(rows/k, 1)
	slab := w.NumVertices() / rows
	types := make([]int, w.NumVertices())
	for i := range types {
		types[i] = min(i/slab/block, k-1)
	}
	return w.SetTypes(types)
}

// SchellingInit starts from a random assignment and runs classic threshold
// segregation until it converges or budget steps were attempted. The world's
// own policies are restored afterwards and the move counter starts at zero.
func SchellingInit(budget int) Initializer {
	return func(w *World, seed int64) error {
		if err := RandomInit(w, seed); err != nil {
			return err
		}
		pol, dyn := w.utility, w.dynamics
		w.utility = utility.Segregation{Threshold: 0.5}
		w.dynamics = dynamics.NewOrderedSwapper(dynamics.Acceptor{Condition: dynamics.IndividualGreater})
		w.done = false
		moved := w.Run(max(budget, 1))
		w.log.Debug("segregated warm-up finished", "moves", moved, "converged", w.done)
		w.utility, w.dynamics = pol, dyn
		w.done = false
		w.steps = 0
		for i := range w.vectors {
			w.vectors[i] = nil
		}
		return nil
	}
}

// CachedInit wraps init so an assignment stored in c under the world's
// parameters and seed is reused. The schelling warm-up is also keyed by its
// budget. Cache I/O errors are returned; an entry that
// no longer fits the world is replaced.
func CachedInit(c initcache.Cache, name string, init Initializer) Initializer {
	return func(w *World, seed int64) error {
		ctx := context.Background()
		key := initcache.Key{
			Init:         name,
			Size:         w.shape.Size(),
			Wrap:         w.shape.Wraps(),
			VertexDegree: w.cfg.VertexDegree,
			NeighRadius:  w.cfg.NeighRadius,
			NumTypes:     w.cfg.NumTypes,
			Seed:         seed,
		}
		if name == InitSchelling {
			key.Budget = max(w.cfg.WarmupBudget, 1)
		}
		types, ok, err := c.Load(ctx, key)
		if err != nil {
			return fmt.Errorf("load cached assignment: %w", err)
		}
		if ok {
			if err := w.SetTypes(types); err == nil {
				w.log.Debug("init cache hit", "key", key.String())
				return nil
			}
			w.log.Warn("discarding stale cached assignment", "key", key.String())
		}
		if err := init(w, seed); err != nil {
			return err
		}
		if err := c.Store(ctx, key, w.Snapshot()); err != nil {
			return fmt.Errorf("store assignment: %w", err)
		}
		return nil
	}
}
