package engine

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/arena/config"
	"github.com/lixenwraith/arena/physics"
	"github.com/lixenwraith/arena/vmath"
)

// minChunk keeps parallel passes from splitting into tasks smaller than the scheduling overhead
const minChunk = 64

// Stream salts keep per-agent streams of different phases independent
const (
	saltIntegrate uint64 = 0x696e74
	saltResolve   uint64 = 0x636f6c
)

// executor carries the mutation discipline of one backend through the tick phases
type executor interface {
	integrate(s *Simulation, dt float64) physics.Stats
	buildGrid(s *Simulation)
	resolve(s *Simulation) physics.Stats
}

func newExecutor(cfg *config.Config) executor {
	if cfg.Backend == config.BackendParallel {
		return &parallelExec{workers: max(1, cfg.Workers)}
	}
	return sequentialExec{}
}

// sequentialExec runs every phase on the caller with the shared stream and the symmetric resolver
type sequentialExec struct{}

func (sequentialExec) integrate(s *Simulation, dt float64) physics.Stats {
	var st physics.Stats
	for i := range s.store.State {
		countTransition(&st, physics.Integrate(s.store, i, dt, &s.cfg, s.scale, s.rng))
	}
	return st
}

func (sequentialExec) buildGrid(s *Simulation) {
	s.grid.Build(s.store, s.radius, s.cfg.ArenaWidth, s.cfg.ArenaHeight, s.cfg.MinCellSize, s.cfg.DyingCollide)
}

func (sequentialExec) resolve(s *Simulation) physics.Stats {
	return physics.ResolvePairs(s.store, &s.grid, &s.cfg, s.scale, s.rng)
}

// parallelExec runs each phase as chunks over agents; a task writes only the rows it owns
// Randomness comes from per-agent streams keyed by seed, tick and index
type parallelExec struct {
	workers int
}

func (p *parallelExec) partition(n int, fn func(lo, hi int)) {
	chunk := max(minChunk, (n+p.workers-1)/p.workers)
	if n <= chunk {
		fn(0, n)
		return
	}
	var g errgroup.Group
	g.SetLimit(p.workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

func (p *parallelExec) integrate(s *Simulation, dt float64) physics.Stats {
	var (
		mu  sync.Mutex
		out physics.Stats
	)
	seed := s.cfg.Seed ^ saltIntegrate
	p.partition(s.store.Len(), func(lo, hi int) {
		var st physics.Stats
		var rng vmath.FastRand
		for i := lo; i < hi; i++ {
			rng.Seed(vmath.Derive(seed, s.tick, uint64(i)))
			countTransition(&st, physics.Integrate(s.store, i, dt, &s.cfg, s.scale, &rng))
		}
		mu.Lock()
		out.Add(st)
		mu.Unlock()
	})
	return out
}

func (p *parallelExec) buildGrid(s *Simulation) {
	s.grid.BuildParallel(s.store, s.radius, s.cfg.ArenaWidth, s.cfg.ArenaHeight, s.cfg.MinCellSize, s.cfg.DyingCollide, p.partition)
}

func (p *parallelExec) resolve(s *Simulation) physics.Stats {
	s.frame.Capture(s.store)

	var (
		mu  sync.Mutex
		out physics.Stats
	)
	seed := s.cfg.Seed ^ saltResolve
	p.partition(s.store.Len(), func(lo, hi int) {
		var st physics.Stats
		var rng vmath.FastRand
		for i := lo; i < hi; i++ {
			rng.Seed(vmath.Derive(seed, s.tick, uint64(i)))
			st.Add(physics.ResolveOwner(s.store, &s.frame, &s.grid, i, &s.cfg, s.scale, &rng))
		}
		mu.Lock()
		out.Add(st)
		mu.Unlock()
	})
	return out
}

func countTransition(st *physics.Stats, t physics.Transition) {
	switch t {
	case physics.Killed:
		st.Deaths++
	case physics.Respawned:
		st.Respawns++
	}
}
