// Package schelling implements the grid world: a dense n-dimensional array of
// agent types whose arrangement evolves through utility-driven swaps.
package schelling

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"diversim/internal/core"
	"diversim/internal/dynamics"
	"diversim/internal/initcache"
	"diversim/internal/logging"
	"diversim/internal/utility"
)

// Vertex is a transient view of one grid position.
type Vertex struct {
	Coord core.Coord
	Type  int
	// Neighborhood counts neighbor types, excluding the vertex itself.
	// A nil Neighborhood is filled in by World.ComputeUtility.
	Neighborhood []int
}

// World owns the type assignment and wires the neighbor enumerator, utility
// policy and dynamics together. It is not safe for concurrent use.
type World struct {
	cfg   Config
	shape *core.Shape

	types []int
	// adj holds each vertex's immediate neighbors in enumeration order.
	adj [][]int
	// hood is adj grown to the configured neighborhood radius.
	hood [][]int
	// dependents[i] lists the vertices whose neighborhood contains i.
	dependents [][]int
	// vectors caches neighborhood type counts; nil means stale.
	vectors [][]int
	// hypothetical is set while Hypothetical holds a swapped state.
	hypothetical bool

	utility  utility.Policy
	dynamics dynamics.Dynamics
	init     Initializer

	done    bool
	steps   int
	display []uint8
	log     *slog.Logger
}

// Option customizes a World at construction.
type Option func(*World)

// WithLogger routes the world's diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithUtility overrides the utility policy named in the config.
func WithUtility(p utility.Policy) Option {
	return func(w *World) { w.utility = p }
}

// WithDynamics overrides the dynamics named in the config.
func WithDynamics(d dynamics.Dynamics) Option {
	return func(w *World) { w.dynamics = d }
}

// WithInitializer overrides the initializer named in the config.
func WithInitializer(init Initializer) Option {
	return func(w *World) { w.init = init }
}

// WithInitCache serves the initial assignment from c when present and
// records it there otherwise.
func WithInitCache(c initcache.Cache) Option {
	return func(w *World) {
		if c != nil {
			w.init = CachedInit(c, w.cfg.Init, w.init)
		}
	}
}

// New returns a World with the default configuration resized to size.
func New(size ...int) (*World, error) {
	cfg := DefaultConfig()
	cfg.Size = size
	cfg.Wrap = repeatBool(true, len(size))
	return NewWithConfig(cfg)
}

// NewWithConfig validates cfg, precomputes the topology and runs the
// initializer with cfg.Seed.
func NewWithConfig(cfg Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	shape, err := core.NewShape(cfg.Size, cfg.Wrap)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	// Wrapped grids that run short only warn in buildTopology.
	if maxDeg := shape.MaxDegree(); cfg.VertexDegree > maxDeg && !slices.Contains(shape.Wraps(), true) {
		return nil, fmt.Errorf("invalid config: %w: degree %d, at most %d for size %v",
			ErrDegreeInfeasible, cfg.VertexDegree, maxDeg, cfg.Size)
	}
	cfg.Size = shape.Size()
	cfg.Wrap = shape.Wraps()

	w := &World{
		cfg:   cfg,
		shape: shape,
		log:   logging.Discard(),
	}
	w.utility, _ = utility.ByName(cfg.Utility, cfg.Threshold)
	cond, _ := dynamics.ParseCondition(cfg.Condition)
	acc := dynamics.Acceptor{Condition: cond, Collective: cfg.Collective}
	w.dynamics, _ = dynamics.ByName(cfg.Dynamics, acc, cfg.Seed)
	w.init, _ = InitByName(cfg.Init, cfg.WarmupBudget)

	for _, opt := range opts {
		opt(w)
	}

	w.buildTopology()
	total := shape.Len()
	w.types = make([]int, total)
	w.vectors = make([][]int, total)
	w.display = make([]uint8, total)

	if err := w.init(w, cfg.Seed); err != nil {
		return nil, fmt.Errorf("initialize world: %w", err)
	}
	return w, nil
}

func (w *World) buildTopology() {
	total := w.shape.Len()
	w.adj = make([][]int, total)
	short, fewest := 0, w.cfg.VertexDegree
	for f := 0; f < total; f++ {
		coords, complete := w.shape.Neighbors(w.shape.ToCoord(f), w.cfg.VertexDegree)
		if !complete {
			short++
			fewest = min(fewest, len(coords))
		}
		flats := make([]int, len(coords))
		for i, c := range coords {
			flats[i] = w.shape.ToFlat(c)
		}
		w.adj[f] = flats
	}
	if short > 0 {
		w.log.Warn("grid too small for requested vertex degree",
			"size", w.cfg.Size, "degree", w.cfg.VertexDegree,
			"short_vertices", short, "fewest_neighbors", fewest)
	}

	w.hood = w.adj
	if w.cfg.NeighRadius > 1 {
		w.hood = make([][]int, total)
		for f := range w.hood {
			w.hood[f] = core.ExtendNeighborhood(w.adj, f, w.cfg.NeighRadius)
		}
	}
	w.dependents = make([][]int, total)
	for f, hood := range w.hood {
		for _, n := range hood {
			w.dependents[n] = append(w.dependents[n], f)
		}
	}
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "schelling" }

// Config returns the configuration the world was built from.
func (w *World) Config() Config { return w.cfg }

// Shape exposes the grid geometry.
func (w *World) Shape() *core.Shape { return w.shape }

// NumVertices returns the number of grid positions.
func (w *World) NumVertices() int { return len(w.types) }

// NumEdges returns num_vertices * vertex_degree / 2.
func (w *World) NumEdges() float64 {
	return float64(len(w.types)) * float64(w.cfg.VertexDegree) / 2
}

// VertexDegree returns the configured neighbor count.
func (w *World) VertexDegree() int { return w.cfg.VertexDegree }

// NumTypes returns the number of agent types.
func (w *World) NumTypes() int { return w.cfg.NumTypes }

// Done reports whether the dynamics have converged.
func (w *World) Done() bool { return w.done }

// Steps returns the number of accepted moves since initialization.
func (w *World) Steps() int { return w.steps }

// UtilityPolicy returns the active utility policy.
func (w *World) UtilityPolicy() utility.Policy { return w.utility }

// SetUtilityPolicy replaces the active utility policy.
func (w *World) SetUtilityPolicy(p utility.Policy) { w.utility = p }

// DynamicsPolicy returns the active dynamics.
func (w *World) DynamicsPolicy() dynamics.Dynamics { return w.dynamics }

// SetDynamicsPolicy replaces the active dynamics and clears the done flag.
func (w *World) SetDynamicsPolicy(d dynamics.Dynamics) {
	w.dynamics = d
	w.done = false
}

// index maps c to its flat index. Coordinates outside the grid are a
// programming error and panic rather than alias another vertex.
func (w *World) index(c core.Coord) int {
	if !w.shape.Contains(c) {
		panic(fmt.Sprintf("schelling: coordinate %v outside grid %v", c, w.cfg.Size))
	}
	return w.shape.ToFlat(c)
}

// Type returns the type at c.
func (w *World) Type(c core.Coord) int { return w.types[w.index(c)] }

// TypeAt returns the type at flat index i.
func (w *World) TypeAt(i int) int { return w.types[i] }

// SetType assigns t at c and invalidates every cached neighborhood that
// observes c.
func (w *World) SetType(t int, c core.Coord) { w.SetTypeAt(t, w.index(c)) }

// SetTypeAt is SetType addressed by flat index.
func (w *World) SetTypeAt(t, i int) {
	w.types[i] = t
	w.display[i] = cellValue(t)
	w.vectors[i] = nil
	for _, d := range w.dependents[i] {
		w.vectors[d] = nil
	}
}

// SetTypes replaces the whole assignment. types is in row-major order.
func (w *World) SetTypes(types []int) error {
	if len(types) != len(w.types) {
		return fmt.Errorf("%w: got %d types for %d vertices", ErrTypes, len(types), len(w.types))
	}
	for i, t := range types {
		if t < 0 || t >= w.cfg.NumTypes {
			return fmt.Errorf("%w: type %d at index %d outside [0, %d)", ErrTypes, t, i, w.cfg.NumTypes)
		}
	}
	copy(w.types, types)
	for i, t := range w.types {
		w.display[i] = cellValue(t)
		w.vectors[i] = nil
	}
	return nil
}

// Neighbors returns the immediate neighbors of c in enumeration order.
func (w *World) Neighbors(c core.Coord) []core.Coord {
	flats := w.adj[w.index(c)]
	out := make([]core.Coord, len(flats))
	for i, f := range flats {
		out[i] = w.shape.ToCoord(f)
	}
	return out
}

// NeighborsOf returns the immediate neighbors of flat index i. The slice is
// shared and must not be modified.
func (w *World) NeighborsOf(i int) []int { return w.adj[i] }

// Neighborhood returns the type-count vector of flat index i over its
// radius-extended neighborhood. The slice is shared and must not be modified.
func (w *World) Neighborhood(i int) []int {
	if w.hypothetical {
		return w.countNeighborhood(i)
	}
	if w.vectors[i] == nil {
		w.vectors[i] = w.countNeighborhood(i)
	}
	return w.vectors[i]
}

func (w *World) countNeighborhood(i int) []int {
	vec := make([]int, w.cfg.NumTypes)
	for _, n := range w.hood[i] {
		vec[w.types[n]]++
	}
	return vec
}

// Vertex returns a view of the position c with its neighborhood populated.
func (w *World) Vertex(c core.Coord) Vertex {
	i := w.index(c)
	return Vertex{
		Coord:        w.shape.ToCoord(i),
		Type:         w.types[i],
		Neighborhood: append([]int(nil), w.Neighborhood(i)...),
	}
}

// ComputeUtility scores v under p, or under the active policy when p is nil.
// A missing neighborhood is computed from the current assignment at v.Coord,
// so v.Type may differ from the type stored there.
func (w *World) ComputeUtility(v Vertex, p utility.Policy) float64 {
	if p == nil {
		p = w.utility
	}
	vec := v.Neighborhood
	if vec == nil {
		vec = w.Neighborhood(w.index(v.Coord))
	}
	return p.Compute(vec, v.Type)
}

// Utility scores flat index i under the active policy.
func (w *World) Utility(i int) float64 {
	return w.utility.Compute(w.Neighborhood(i), w.types[i])
}

// UtilityWith scores flat index i under p.
func (w *World) UtilityWith(i int, p utility.Policy) float64 {
	return p.Compute(w.Neighborhood(i), w.types[i])
}

// Hypothetical swaps the types at a and b, hands fn a utility function over
// the swapped state and restores the original types on return, even if fn
// panics. The neighborhood cache is neither read nor written meanwhile.
func (w *World) Hypothetical(a, b int, fn func(utility func(i int) float64)) {
	w.types[a], w.types[b] = w.types[b], w.types[a]
	w.hypothetical = true
	defer func() {
		w.types[a], w.types[b] = w.types[b], w.types[a]
		w.hypothetical = false
	}()
	fn(w.Utility)
}

// Step advances the simulation by one dynamics transition and reports
// whether the assignment changed. Once the dynamics converge the world is
// done and Step keeps returning false.
func (w *World) Step() bool {
	if w.done {
		return false
	}
	move, outcome := w.dynamics.Step(w)
	switch outcome {
	case dynamics.Converged:
		w.done = true
		w.log.Debug("dynamics converged", "dynamics", w.dynamics.Name(), "steps", w.steps)
		return false
	case dynamics.Swapped:
		w.apply(move)
		w.steps++
		return true
	}
	return false
}

// Run steps until convergence or until budget steps were attempted, and
// returns the number of accepted moves. A non-positive budget means no limit,
// which only terminates for dynamics that can converge.
func (w *World) Run(budget int) int {
	moved := 0
	for n := 0; budget <= 0 || n < budget; n++ {
		if w.Step() {
			moved++
			continue
		}
		if w.done {
			break
		}
	}
	return moved
}

func (w *World) apply(m dynamics.Move) {
	vals := make([]int, len(m.From))
	for k, f := range m.From {
		vals[k] = w.types[f]
	}
	for k, to := range m.To {
		w.SetTypeAt(vals[k], to)
	}
	w.log.Log(context.Background(), logging.LevelTrace, "moved vertices", "from", m.From, "to", m.To)
}

// Snapshot returns a row-major copy of the assignment; Shape gives its dimensions.
func (w *World) Snapshot() []int { return append([]int(nil), w.types...) }

// TypeDistribution counts the vertices of each type.
func (w *World) TypeDistribution() []int {
	dist := make([]int, w.cfg.NumTypes)
	for _, t := range w.types {
		dist[t]++
	}
	return dist
}

// Reset reinitializes the assignment with seed, clearing the done flag and
// move counter.
func (w *World) Reset(seed int64) {
	if err := w.init(w, seed); err != nil {
		w.log.Error("reset failed", "seed", seed, "err", err)
		return
	}
	if r, ok := w.dynamics.(interface{ Reseed(int64) }); ok {
		r.Reseed(seed)
	}
	w.done = false
	w.steps = 0
}

// Size reports the 2D view of the grid: the last axis horizontally and all
// leading axes stacked vertically.
func (w *World) Size() core.Size {
	size := w.shape.Size()
	width := size[len(size)-1]
	return core.Size{W: width, H: w.shape.Len() / width}
}

// Cells exposes the assignment as display values.
func (w *World) Cells() []uint8 { return w.display }

func cellValue(t int) uint8 {
	if t > 255 {
		return 255
	}
	return uint8(t)
}

func init() {
	core.Register("schelling", func(cfg map[string]string) (core.Sim, error) {
		w, err := NewWithConfig(FromMap(cfg))
		if err != nil {
			return nil, err
		}
		return w, nil
	})
}

var (
	_ core.Environment = (*World)(nil)
	_ core.Sim         = (*World)(nil)
	_ dynamics.Env     = (*World)(nil)
)
