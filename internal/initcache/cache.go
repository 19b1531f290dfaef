// Package initcache stores initial type assignments so repeated runs with the
// same world shape, initializer and seed can skip initialization.
package initcache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Key identifies an initial assignment.
type Key struct {
	Init         string
	Size         []int
	Wrap         []bool
	VertexDegree int
	NeighRadius  int
	NumTypes     int
	Seed         int64
	// Budget bounds warm-up initializers that run dynamics; zero otherwise.
	Budget int
}

// String renders the canonical form used as the storage key, e.g.
// "random/20x20/wrap=11/d4/r1/t3/s7" or, with a budget,
// "schelling/20x20/wrap=11/d4/r1/t3/s7/b5000".
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Init)
	b.WriteByte('/')
	for i, v := range k.Size {
		if i > 0 {
			b.WriteByte('x')
		}
		b.WriteString(strconv.Itoa(v))
	}
	b.WriteString("/wrap=")
	for _, w := range k.Wrap {
		if w {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	fmt.Fprintf(&b, "/d%d/r%d/t%d/s%d", k.VertexDegree, k.NeighRadius, k.NumTypes, k.Seed)
	if k.Budget > 0 {
		fmt.Fprintf(&b, "/b%d", k.Budget)
	}
	return b.String()
}

// Cache loads and stores initial assignments. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Load returns the stored assignment and true, or false on a miss.
	Load(ctx context.Context, key Key) ([]int, bool, error)
	// Store records the assignment under key, replacing any previous entry.
	Store(ctx context.Context, key Key, types []int) error
}

// Memory is an in-process Cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]int
}

// NewMemory returns an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]int)}
}

// Load implements Cache.
func (m *Memory) Load(_ context.Context, key Key) ([]int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	types, ok := m.entries[key.String()]
	if !ok {
		return nil, false, nil
	}
	return append([]int(nil), types...), true, nil
}

// Store implements Cache.
func (m *Memory) Store(_ context.Context, key Key, types []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key.String()] = append([]int(nil), types...)
	return nil
}

// Len returns the number of cached assignments.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
