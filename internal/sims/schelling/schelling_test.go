package schelling

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diversim/internal/core"
	"diversim/internal/dynamics"
	"diversim/internal/initcache"
	"diversim/internal/utility"
)

func testConfig(size ...int) Config {
	cfg := DefaultConfig()
	cfg.Size = size
	cfg.Wrap = repeatBool(true, len(size))
	return cfg
}

func newWorld(t *testing.T, cfg Config, opts ...Option) *World {
	t.Helper()
	w, err := NewWithConfig(cfg, opts...)
	require.NoError(t, err)
	return w
}

func fill(t *testing.T, w *World, typ int) {
	t.Helper()
	types := make([]int, w.NumVertices())
	for i := range types {
		types[i] = typ
	}
	require.NoError(t, w.SetTypes(types))
}

// assertCacheConsistent checks every cached vector against a fresh count.
func assertCacheConsistent(t *testing.T, w *World) {
	t.Helper()
	for i, vec := range w.vectors {
		if vec != nil {
			require.Equal(t, w.countNeighborhood(i), vec, "stale vector at %v", w.shape.ToCoord(i))
		}
	}
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero degree", func(c *Config) { c.VertexDegree = 0 }, ErrDegree},
		{"zero types", func(c *Config) { c.NumTypes = 0 }, ErrNumTypes},
		{"zero radius", func(c *Config) { c.NeighRadius = 0 }, ErrNeighRadius},
		{"wrap mismatch", func(c *Config) { c.Wrap = []bool{true} }, core.ErrWrapMismatch},
		{"empty size", func(c *Config) { c.Size = nil; c.Wrap = nil }, core.ErrEmptyShape},
		{"zero axis", func(c *Config) { c.Size = []int{5, 0} }, core.ErrAxisSize},
		{"degree too large unwrapped", func(c *Config) { c.Wrap = []bool{false, false}; c.VertexDegree = 25 }, ErrDegreeInfeasible},
		{"unknown utility", func(c *Config) { c.Utility = "happiness" }, utility.ErrUnknownPolicy},
		{"unknown dynamics", func(c *Config) { c.Dynamics = "annealing" }, dynamics.ErrUnknownDynamics},
		{"unknown condition", func(c *Config) { c.Condition = "maybe" }, dynamics.ErrUnknownCondition},
		{"unknown init", func(c *Config) { c.Init = "spiral" }, ErrUnknownInit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(5, 5)
			tt.mutate(&cfg)
			_, err := NewWithConfig(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestMaximalDegreeAccepted(t *testing.T) {
	cfg := testConfig(5, 5)
	cfg.VertexDegree = 24
	w := newWorld(t, cfg)
	for i := 0; i < w.NumVertices(); i++ {
		require.Len(t, w.NeighborsOf(i), 24)
	}
}

func TestWorldCounts(t *testing.T) {
	w := newWorld(t, testConfig(5, 5))
	assert.Equal(t, 25, w.NumVertices())
	assert.Equal(t, 50.0, w.NumEdges())
	assert.Equal(t, "schelling", w.Name())

	cfg := testConfig(2, 3, 4)
	cfg.VertexDegree = 6
	w = newWorld(t, cfg)
	assert.Equal(t, core.Size{W: 4, H: 6}, w.Size())
	assert.Len(t, w.Cells(), 24)
	assert.Equal(t, 72.0, w.NumEdges())

	one := newWorld(t, testConfig(9))
	assert.Equal(t, core.Size{W: 9, H: 1}, one.Size())
}

func TestNeighborsOneDimensional(t *testing.T) {
	cfg := testConfig(8)
	cfg.VertexDegree = 2
	w := newWorld(t, cfg)
	assert.Equal(t, []core.Coord{{7}, {1}}, w.Neighbors(core.Coord{0}))
}

func TestNeighborsVonNeumannAndMoore(t *testing.T) {
	w := newWorld(t, testConfig(5, 5))
	assert.ElementsMatch(t, []core.Coord{{1, 2}, {3, 2}, {2, 1}, {2, 3}}, w.Neighbors(core.Coord{2, 2}))

	cfg := testConfig(5, 5)
	cfg.VertexDegree = 8
	w = newWorld(t, cfg)
	assert.ElementsMatch(t, []core.Coord{
		{1, 2}, {3, 2}, {2, 1}, {2, 3},
		{1, 1}, {1, 3}, {3, 1}, {3, 3},
	}, w.Neighbors(core.Coord{2, 2}))
}

func TestBinaryUtility(t *testing.T) {
	w := newWorld(t, testConfig(5, 5), WithUtility(utility.Binary{}))
	fill(t, w, 0)
	center := core.Coord{2, 2}
	assert.Equal(t, 0.0, w.ComputeUtility(w.Vertex(center), nil))

	w.SetType(1, core.Coord{2, 3})
	assert.Equal(t, 1.0, w.ComputeUtility(w.Vertex(center), nil))
	assert.Equal(t, 1.0, w.Utility(w.shape.ToFlat(center)))
	// A lone vertex of type 1 amid type 0 is also diverse.
	assert.Equal(t, 1.0, w.ComputeUtility(w.Vertex(core.Coord{2, 3}), nil))
}

func TestComputeUtilityLazyNeighborhood(t *testing.T) {
	w := newWorld(t, testConfig(5, 5))
	fill(t, w, 0)
	w.SetType(1, core.Coord{1, 2})
	w.SetType(2, core.Coord{3, 2})

	v := Vertex{Coord: core.Coord{2, 2}, Type: 0}
	assert.Equal(t, 2.0, w.ComputeUtility(v, utility.TypeCount{}))
	assert.Equal(t, 2.0, w.ComputeUtility(v, utility.Difference{}))
	v.Type = 1
	assert.Equal(t, 2.0, w.ComputeUtility(v, utility.TypeCount{}))
}

func TestUtilityIdempotent(t *testing.T) {
	cfg := testConfig(6, 6)
	cfg.Utility = utility.NameEntropy
	w := newWorld(t, cfg)
	for i := 0; i < w.NumVertices(); i++ {
		first := w.Utility(i)
		assert.Equal(t, first, w.Utility(i))
		assert.Equal(t, first, w.ComputeUtility(w.Vertex(w.shape.ToCoord(i)), nil))
	}
}

func TestOrderedConvergesOnHomogeneousGrid(t *testing.T) {
	cfg := testConfig(6, 6)
	cfg.NumTypes = 2
	w := newWorld(t, cfg)
	fill(t, w, 1)

	for i := 0; i < 3; i++ {
		assert.False(t, w.Step())
	}
	assert.True(t, w.Done())
	assert.Zero(t, w.Steps())
	assert.Equal(t, []int{0, 36}, w.TypeDistribution())
}

func TestSwapsConserveTypes(t *testing.T) {
	for _, dyn := range []string{dynamics.NameOrdered, dynamics.NameRandom} {
		t.Run(dyn, func(t *testing.T) {
			cfg := testConfig(8, 8)
			cfg.Dynamics = dyn
			cfg.Seed = 42
			w := newWorld(t, cfg)
			want := w.TypeDistribution()
			for i := 0; i < 60 && !w.Done(); i++ {
				w.Step()
				require.Equal(t, want, w.TypeDistribution())
			}
			assertCacheConsistent(t, w)
		})
	}
}

func TestOrderedRunImprovesDiversity(t *testing.T) {
	cfg := testConfig(6, 6)
	cfg.Init = InitBlock
	cfg.NumTypes = 2
	w := newWorld(t, cfg)

	before := 0.0
	for i := 0; i < w.NumVertices(); i++ {
		before += w.Utility(i)
	}
	moved := w.Run(500)
	after := 0.0
	for i := 0; i < w.NumVertices(); i++ {
		after += w.Utility(i)
	}
	assert.Positive(t, moved)
	assert.Equal(t, moved, w.Steps())
	assert.Greater(t, after, before)
	assertCacheConsistent(t, w)
}

func TestHypotheticalLeavesWorldUntouched(t *testing.T) {
	w := newWorld(t, testConfig(5, 5))
	fill(t, w, 0)
	w.SetType(1, core.Coord{0, 0})
	for i := 0; i < w.NumVertices(); i++ {
		w.Utility(i)
	}
	before := w.Snapshot()
	a, b := w.shape.ToFlat(core.Coord{0, 0}), w.shape.ToFlat(core.Coord{2, 2})
	uBefore := w.Utility(b)

	var during float64
	w.Hypothetical(a, b, func(after func(int) float64) {
		assert.Equal(t, 1, w.TypeAt(b))
		during = after(w.shape.ToFlat(core.Coord{2, 3}))
	})
	assert.Equal(t, 1.0, during)
	assert.Equal(t, before, w.Snapshot())
	assert.Equal(t, uBefore, w.Utility(b))
	assertCacheConsistent(t, w)

	assert.Panics(t, func() {
		w.Hypothetical(a, b, func(func(int) float64) { panic("boom") })
	})
	assert.Equal(t, before, w.Snapshot())
	assert.False(t, w.hypothetical)
}

func TestAsymmetricNeighborhoodInvalidation(t *testing.T) {
	cfg := testConfig(5, 5)
	cfg.VertexDegree = 6
	cfg.NumTypes = 2
	w := newWorld(t, cfg)
	fill(t, w, 0)

	center := w.shape.ToFlat(core.Coord{2, 2})
	corner := core.Coord{1, 1}
	require.Contains(t, w.NeighborsOf(center), w.shape.ToFlat(corner))
	require.NotContains(t, w.NeighborsOf(w.shape.ToFlat(corner)), center)

	assert.Equal(t, []int{6, 0}, w.Neighborhood(center))
	w.SetType(1, corner)
	assert.Equal(t, []int{5, 1}, w.Neighborhood(center))
	assertCacheConsistent(t, w)
}

func TestNeighborhoodRadius(t *testing.T) {
	cfg := testConfig(7, 7)
	cfg.NeighRadius = 2
	w := newWorld(t, cfg)
	fill(t, w, 0)
	center := w.shape.ToFlat(core.Coord{3, 3})
	assert.Len(t, w.NeighborsOf(center), 4)
	assert.Equal(t, 12, w.Neighborhood(center)[0])

	w.SetType(1, core.Coord{1, 3})
	assert.Equal(t, []int{11, 1, 0}, w.Neighborhood(center))
}

func TestShortEnumerationWarnsButBuilds(t *testing.T) {
	cfg := testConfig(2, 10)
	cfg.Wrap = []bool{false, false}
	cfg.VertexDegree = 5
	w := newWorld(t, cfg)
	assert.Len(t, w.NeighborsOf(0), 3)
	assert.Len(t, w.NeighborsOf(w.shape.ToFlat(core.Coord{0, 5})), 5)
}

func TestWrappedGridTooSmallWarnsButBuilds(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))

	cfg := testConfig(3, 3)
	cfg.VertexDegree = 10
	w := newWorld(t, cfg, WithLogger(log))
	for i := 0; i < w.NumVertices(); i++ {
		require.Len(t, w.NeighborsOf(i), 8)
	}
	assert.Contains(t, logs.String(), "short_vertices=9")
	assert.Contains(t, logs.String(), "fewest_neighbors=8")

	cfg = testConfig(2)
	cfg.VertexDegree = 2
	w = newWorld(t, cfg)
	assert.Equal(t, []int{1}, w.NeighborsOf(0))
	assert.Equal(t, []int{0}, w.NeighborsOf(1))

	cfg = testConfig(3, 3)
	cfg.Wrap = []bool{true, false}
	cfg.VertexDegree = 9
	w = newWorld(t, cfg)
	assert.Len(t, w.NeighborsOf(w.shape.ToFlat(core.Coord{1, 1})), 8)
}

func TestSetTypesValidates(t *testing.T) {
	w := newWorld(t, testConfig(3, 3))
	assert.ErrorIs(t, w.SetTypes([]int{0, 1}), ErrTypes)
	assert.ErrorIs(t, w.SetTypes([]int{0, 1, 2, 0, 1, 2, 0, 1, 3}), ErrTypes)
	require.NoError(t, w.SetTypes([]int{0, 1, 2, 0, 1, 2, 0, 1, 2}))
	assert.Equal(t, []uint8{0, 1, 2, 0, 1, 2, 0, 1, 2}, w.Cells())
}

func TestResetReproducesInitialization(t *testing.T) {
	cfg := testConfig(8, 8)
	cfg.Seed = 5
	w := newWorld(t, cfg)
	initial := w.Snapshot()
	w.Run(20)

	w.Reset(5)
	assert.Equal(t, initial, w.Snapshot())
	assert.Zero(t, w.Steps())
	assert.False(t, w.Done())
	assertCacheConsistent(t, w)

	w.Reset(6)
	assert.NotEqual(t, initial, w.Snapshot())
}

func TestRegistered(t *testing.T) {
	factory, ok := core.Sims()["schelling"]
	require.True(t, ok)
	sim, err := factory(map[string]string{"size": "6x4", "types": "2", "degree": "8"})
	require.NoError(t, err)
	assert.Equal(t, "schelling", sim.Name())
	assert.Equal(t, core.Size{W: 4, H: 6}, sim.Size())

	_, err = factory(map[string]string{"size": "3x3", "degree": "9"})
	assert.ErrorIs(t, err, ErrDegreeInfeasible)
}

func TestParameters(t *testing.T) {
	w := newWorld(t, testConfig(5, 5))
	snap := w.Parameters()
	p, ok := snap.Lookup("degree")
	require.True(t, ok)
	assert.Equal(t, "4", p.Value)
	p, ok = snap.Lookup("size")
	require.True(t, ok)
	assert.Equal(t, "5x5", p.Value)
	p, ok = snap.Lookup("utility")
	require.True(t, ok)
	assert.Equal(t, utility.NameTypeCount, p.Value)
}

func TestPalette(t *testing.T) {
	for _, n := range []int{1, 3, 8, 12} {
		cfg := testConfig(4, 4)
		cfg.NumTypes = n
		palette := newWorld(t, cfg).Palette()
		require.Len(t, palette, n)
		seen := map[[3]uint8]bool{}
		for _, c := range palette {
			key := [3]uint8{c.R, c.G, c.B}
			assert.False(t, seen[key], "duplicate color %v", c)
			seen[key] = true
		}
	}
}

func TestInitializers(t *testing.T) {
	t.Run("random deterministic", func(t *testing.T) {
		a := newWorld(t, testConfig(6, 6))
		b := newWorld(t, testConfig(6, 6))
		assert.Equal(t, a.Snapshot(), b.Snapshot())
	})

	t.Run("equitable", func(t *testing.T) {
		cfg := testConfig(10)
		cfg.VertexDegree = 2
		cfg.Init = InitEquitable
		w := newWorld(t, cfg)
		assert.Equal(t, []int{4, 3, 3}, w.TypeDistribution())
	})

	t.Run("block", func(t *testing.T) {
		cfg := testConfig(10, 2)
		cfg.VertexDegree = 2
		cfg.Init = InitBlock
		w := newWorld(t, cfg)
		rows := []int{0, 0, 0, 1, 1, 1, 2, 2, 2, 2}
		for r, want := range rows {
			assert.Equal(t, want, w.Type(core.Coord{r, 0}), "row %d", r)
			assert.Equal(t, want, w.Type(core.Coord{r, 1}), "row %d", r)
		}
	})

	t.Run("schelling warm-up", func(t *testing.T) {
		cfg := testConfig(8, 8)
		cfg.NumTypes = 2
		cfg.Init = InitSchelling
		cfg.WarmupBudget = 200
		w := newWorld(t, cfg)
		random := newWorld(t, func() Config { c := cfg; c.Init = InitRandom; return c }())

		assert.Equal(t, random.TypeDistribution(), w.TypeDistribution())
		assert.NotEqual(t, random.Snapshot(), w.Snapshot())
		assert.Equal(t, utility.NameTypeCount, w.UtilityPolicy().Name())
		assert.Equal(t, dynamics.NameOrdered, w.DynamicsPolicy().Name())
		assert.Zero(t, w.Steps())
		assert.False(t, w.Done())
		assertCacheConsistent(t, w)
	})
}

func TestCachedInit(t *testing.T) {
	cache := initcache.NewMemory()
	cfg := testConfig(6, 6)
	first := newWorld(t, cfg, WithInitCache(cache))
	assert.Equal(t, 1, cache.Len())

	failing := func(*World, int64) error { return errors.New("initializer must not run on a hit") }
	second := newWorld(t, cfg, WithInitializer(failing), WithInitCache(cache))
	assert.Equal(t, first.Snapshot(), second.Snapshot())

	cfg.Seed = 99
	_, err := NewWithConfig(cfg, WithInitializer(failing), WithInitCache(cache))
	assert.Error(t, err)
}

func TestCachedInitKeysWarmupBudget(t *testing.T) {
	cache := initcache.NewMemory()
	cfg := testConfig(8, 8)
	cfg.Init = InitSchelling
	cfg.WarmupBudget = 1
	short := newWorld(t, cfg, WithInitCache(cache))

	cfg.WarmupBudget = 100000
	long := newWorld(t, cfg, WithInitCache(cache))
	assert.Equal(t, 2, cache.Len(), "each budget gets its own entry")
	assert.Equal(t, newWorld(t, cfg).Snapshot(), long.Snapshot())

	cfg.WarmupBudget = 1
	again := newWorld(t, cfg, WithInitCache(cache))
	assert.Equal(t, short.Snapshot(), again.Snapshot())
	assert.Equal(t, 2, cache.Len())
}

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{
		"size":       "4x5x6",
		"wrap":       "false",
		"degree":     "6",
		"radius":     "2",
		"types":      "4",
		"utility":    "entropy",
		"threshold":  "0.3",
		"dynamics":   "random",
		"condition":  "sum-greater",
		"collective": "true",
		"init":       "equitable",
		"warmup":     "10",
		"seed":       "11",
	})
	assert.Equal(t, []int{4, 5, 6}, cfg.Size)
	assert.Equal(t, []bool{false, false, false}, cfg.Wrap)
	assert.Equal(t, 6, cfg.VertexDegree)
	assert.Equal(t, 2, cfg.NeighRadius)
	assert.Equal(t, 4, cfg.NumTypes)
	assert.Equal(t, "entropy", cfg.Utility)
	assert.Equal(t, 0.3, cfg.Threshold)
	assert.Equal(t, "random", cfg.Dynamics)
	assert.Equal(t, "sum-greater", cfg.Condition)
	assert.True(t, cfg.Collective)
	assert.Equal(t, "equitable", cfg.Init)
	assert.Equal(t, 10, cfg.WarmupBudget)
	assert.Equal(t, int64(11), cfg.Seed)

	def := FromMap(map[string]string{"degree": "x", "size": "3x-1"})
	assert.Equal(t, DefaultConfig(), def)
}

func TestCollectiveRandomRun(t *testing.T) {
	cfg := testConfig(6, 6)
	cfg.Dynamics = dynamics.NameRandom
	cfg.Collective = true
	cfg.Condition = dynamics.SumGreater.String()
	w := newWorld(t, cfg)
	want := w.TypeDistribution()
	w.Run(200)
	assert.False(t, w.Done())
	assert.Equal(t, want, w.TypeDistribution())
	assertCacheConsistent(t, w)
}

func TestRuntimeControls(t *testing.T) {
	w := newWorld(t, testConfig(6, 6))
	keys := []string{}
	for _, c := range w.ParameterControls() {
		keys = append(keys, c.Key)
	}
	assert.Equal(t, []string{"threshold", "utility", "dynamics", "condition", "collective"}, keys)

	fill(t, w, 0)
	w.Run(0)
	require.True(t, w.Done())

	require.True(t, w.SetChoiceParameter("utility", utility.NameSegregation))
	assert.False(t, w.Done(), "policy change resumes the run")
	assert.Equal(t, utility.Segregation{Threshold: 0.5}, w.UtilityPolicy())

	require.True(t, w.SetFloatParameter("threshold", 0.25))
	assert.Equal(t, utility.Segregation{Threshold: 0.25}, w.UtilityPolicy())
	assert.False(t, w.SetFloatParameter("threshold", 1.5))
	assert.False(t, w.SetFloatParameter("degree", 0.5))

	require.True(t, w.SetChoiceParameter("dynamics", dynamics.NameRandom))
	assert.Equal(t, dynamics.NameRandom, w.DynamicsPolicy().Name())
	require.True(t, w.SetChoiceParameter("condition", "sum-greater"))
	require.True(t, w.SetChoiceParameter("collective", "true"))
	assert.True(t, w.Config().Collective)
	assert.Equal(t, "sum-greater", w.Config().Condition)

	assert.False(t, w.SetChoiceParameter("condition", "lenient"))
	assert.False(t, w.SetChoiceParameter("utility", "happiness"))
	assert.False(t, w.SetChoiceParameter("collective", "maybe"))
	assert.Equal(t, "sum-greater", w.Config().Condition, "rejected change keeps config")

	p, ok := w.Parameters().Lookup("utility")
	require.True(t, ok)
	assert.Equal(t, utility.NameSegregation, p.Value)
}

func TestOverlayFields(t *testing.T) {
	cfg := testConfig(4, 4)
	cfg.NumTypes = 2
	cfg.Utility = utility.NameBinary
	w := newWorld(t, cfg)

	fill(t, w, 0)
	for _, v := range w.Mixing() {
		assert.Zero(t, v)
	}
	for _, v := range w.Dissatisfaction() {
		assert.Equal(t, 1.0, v, "binary utility wants a differently typed neighbor")
	}

	w.SetType(1, core.Coord{1, 1})
	mix := w.Mixing()
	assert.Equal(t, 1.0, mix[w.shape.ToFlat(core.Coord{1, 1})])
	assert.Equal(t, 0.25, mix[w.shape.ToFlat(core.Coord{0, 1})])
	assert.Zero(t, mix[w.shape.ToFlat(core.Coord{3, 3})])
	assert.Zero(t, w.Dissatisfaction()[w.shape.ToFlat(core.Coord{1, 2})])
}

func TestCoordinateOutsideGridPanics(t *testing.T) {
	w := newWorld(t, testConfig(5, 5))
	before := w.Snapshot()
	assert.Panics(t, func() { w.Type(core.Coord{0, 5}) }, "must not alias (1,0)")
	assert.Panics(t, func() { w.Type(core.Coord{5, 0}) })
	assert.Panics(t, func() { w.SetType(1, core.Coord{-1, 0}) })
	assert.Panics(t, func() { w.Vertex(core.Coord{2}) })
	assert.Panics(t, func() { w.Neighbors(core.Coord{2, 2, 0}) })
	assert.Equal(t, before, w.Snapshot())
	assert.NotPanics(t, func() { w.Type(core.Coord{4, 4}) })
}
