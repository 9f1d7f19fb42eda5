// Package status holds the named counters and gauges published by the simulation
package status

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// Metric names written by the engine
const (
	Ticks        = "sim.ticks"
	Alive        = "sim.alive"
	Deaths       = "sim.deaths"
	Respawns     = "sim.respawns"
	Pairs        = "sim.pairs"
	Contacts     = "sim.contacts"
	DroppedCells = "sim.capped_cells"
	Scale        = "sim.scale"
	TickMillis   = "sim.tick_ms"
	DroppedTicks = "runner.dropped_ticks"
	Frames       = "runner.frames"
)

// Registry maps names to stable metric pointers
// Lookup takes the lock; callers cache the pointer and write the atomic directly
type Registry struct {
	mu     sync.RWMutex
	ints   map[string]*atomic.Int64
	floats map[string]*Gauge
}

func NewRegistry() *Registry {
	return &Registry{
		ints:   make(map[string]*atomic.Int64),
		floats: make(map[string]*Gauge),
	}
}

// Int returns the counter for name, creating it on first use
func (r *Registry) Int(name string) *atomic.Int64 {
	return lookup(&r.mu, r.ints, name)
}

// Float returns the gauge for name, creating it on first use
func (r *Registry) Float(name string) *Gauge {
	return lookup(&r.mu, r.floats, name)
}

func lookup[T any](mu *sync.RWMutex, m map[string]*T, name string) *T {
	mu.RLock()
	p, ok := m[name]
	mu.RUnlock()
	if ok {
		return p
	}

	mu.Lock()
	defer mu.Unlock()
	if p, ok := m[name]; ok {
		return p
	}
	p = new(T)
	m[name] = p
	return p
}

// Each visits every metric in name order; ints are reported as float64
func (r *Registry) Each(fn func(name string, value float64)) {
	r.mu.RLock()
	names := make([]string, 0, len(r.ints)+len(r.floats))
	vals := make(map[string]float64, len(r.ints)+len(r.floats))
	for k, p := range r.ints {
		names = append(names, k)
		vals[k] = float64(p.Load())
	}
	for k, p := range r.floats {
		if _, dup := vals[k]; !dup {
			names = append(names, k)
		}
		vals[k] = p.Get()
	}
	r.mu.RUnlock()

	slices.Sort(names)
	for _, k := range names {
		fn(k, vals[k])
	}
}

// Len returns the number of registered metrics
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ints) + len(r.floats)
}

// Snapshot copies every metric into a fresh map
func (r *Registry) Snapshot() map[string]float64 {
	out := make(map[string]float64, r.Len())
	r.Each(func(name string, v float64) { out[name] = v })
	return out
}

// LogValue renders the registry as a sorted slog group
func (r *Registry) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, r.Len())
	r.Each(func(name string, v float64) {
		attrs = append(attrs, slog.Float64(name, v))
	})
	return slog.GroupValue(attrs...)
}
