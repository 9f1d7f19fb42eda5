// Package engine owns the simulation context and the goroutine that ticks it
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/arena/agent"
	"github.com/lixenwraith/arena/config"
	"github.com/lixenwraith/arena/growth"
	"github.com/lixenwraith/arena/outcome"
	"github.com/lixenwraith/arena/parameter"
	"github.com/lixenwraith/arena/physics"
	"github.com/lixenwraith/arena/roster"
	"github.com/lixenwraith/arena/spatial"
	"github.com/lixenwraith/arena/status"
	"github.com/lixenwraith/arena/vmath"
)

// Simulation is one fight: agent store, grid, growth and outcome state
// Step, Reset, Snapshot and Destroy belong to a single owner; Enqueue is safe from any goroutine
type Simulation struct {
	cfg    config.Config
	roster []roster.Participant
	log    *slog.Logger

	store *agent.Store
	frame agent.Frame
	grid  spatial.Grid
	exec  executor

	growth  *growth.Controller
	tracker *outcome.Tracker
	rng     *vmath.FastRand
	radius  spatial.RadiusFunc
	scratch []int

	fightID uuid.UUID
	tick    uint64
	elapsed time.Duration
	scale   float64
	alive   int
	paused  bool
	last    physics.Stats

	qmu       sync.Mutex
	queue     []Command
	destroyed atomic.Bool

	metrics *status.Registry
	m       simMetrics
}

type simMetrics struct {
	ticks, alive, deaths, respawns *atomic.Int64
	pairs, contacts, capped        *atomic.Int64
	scale, tickMillis              *status.Gauge
}

// StepResult summarizes one Step
type StepResult struct {
	Tick     uint64
	Advanced bool // False while paused
	Alive    int
	Scale    float64
	Stats    physics.Stats
	Outcome  *outcome.Event
}

// New builds a fight from cfg, sanitizing it; participants may be shorter than the population
// A nil logger uses slog.Default, a nil registry gets a private one
func New(cfg config.Config, participants []roster.Participant, logger *slog.Logger, metrics *status.Registry) *Simulation {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = status.NewRegistry()
	}
	if participants != nil {
		cfg.Participants = participants
	}
	s := &Simulation{
		cfg:     cfg.Sanitized(),
		log:     logger.With("component", "engine"),
		growth:  growth.New(),
		rng:     vmath.NewFastRand(1),
		metrics: metrics,
		queue:   make([]Command, 0, parameter.CommandQueueSize),
	}
	s.radius = func(i int) float64 {
		return s.store.EffectiveRadius(i, s.scale, s.cfg.DeathFadeSec)
	}
	s.m = simMetrics{
		ticks:      metrics.Int(status.Ticks),
		alive:      metrics.Int(status.Alive),
		deaths:     metrics.Int(status.Deaths),
		respawns:   metrics.Int(status.Respawns),
		pairs:      metrics.Int(status.Pairs),
		contacts:   metrics.Int(status.Contacts),
		capped:     metrics.Int(status.DroppedCells),
		scale:      metrics.Float(status.Scale),
		tickMillis: metrics.Float(status.TickMillis),
	}
	s.Reset()
	return s
}

// Reset discards all agent state and starts a new fight with a fresh id from the configured seed
// Same seed and config reproduce identical initial positions and velocities
func (s *Simulation) Reset() {
	n := s.cfg.Population
	s.store = agent.NewStore(n)
	s.roster = roster.Fill(s.cfg.Participants, n)
	s.exec = newExecutor(&s.cfg)
	s.rng.Seed(s.cfg.Seed)

	for i := 0; i < n; i++ {
		physics.Spawn(s.store, i, &s.cfg, s.rng)
	}

	s.growth.Reset()
	s.scale = s.growth.Scale()
	s.alive = n
	if s.tracker == nil {
		s.tracker = outcome.New(n)
	} else {
		s.tracker.Reset(n)
	}
	s.tick = 0
	s.elapsed = 0
	s.last = physics.Stats{}
	s.fightID = uuid.New()
	s.m.alive.Store(int64(n))
	s.m.scale.Set(s.scale)

	s.log.Info("fight started", "fight", s.fightID, "population", n, "seed", s.cfg.Seed, "backend", string(s.cfg.Backend))
}

// Destroy releases agent state; later Step and Enqueue calls return ErrStopped
func (s *Simulation) Destroy() {
	if !s.destroyed.CompareAndSwap(false, true) {
		return
	}
	s.qmu.Lock()
	s.queue = nil
	s.qmu.Unlock()
	s.store = nil
	s.frame = agent.Frame{}
	s.grid = spatial.Grid{}
	s.scratch = nil
}

// Enqueue validates cmd and queues it for the start of the next tick
func (s *Simulation) Enqueue(cmd Command) error {
	if s.destroyed.Load() {
		return ErrStopped
	}
	if err := cmd.validate(); err != nil {
		s.log.Warn("command rejected", "command", fmt.Sprintf("%T", cmd), "error", err)
		return err
	}
	s.qmu.Lock()
	defer s.qmu.Unlock()
	if len(s.queue) >= parameter.CommandQueueSize {
		s.log.Warn("command rejected", "command", fmt.Sprintf("%T", cmd), "error", ErrQueueFull)
		return ErrQueueFull
	}
	s.queue = append(s.queue, cmd)
	return nil
}

func (s *Simulation) drain() {
	s.qmu.Lock()
	if len(s.queue) == 0 {
		s.qmu.Unlock()
		return
	}
	pending := s.queue
	s.queue = make([]Command, 0, parameter.CommandQueueSize)
	s.qmu.Unlock()

	for _, cmd := range pending {
		cmd.apply(s)
	}
}

// Step applies queued commands, then advances one tick of dt seconds capped at MaxStepSec
func (s *Simulation) Step(dt float64) (StepResult, error) {
	if s.destroyed.Load() {
		return StepResult{}, ErrStopped
	}
	s.drain()
	if s.paused {
		return StepResult{Tick: s.tick, Alive: s.alive, Scale: s.scale}, nil
	}

	start := time.Now()
	dt = vmath.Clamp(dt, 0, s.cfg.MaxStepSec)
	s.tick++
	s.elapsed += time.Duration(dt * float64(time.Second))

	st := s.exec.integrate(s, dt)

	prev := s.scale
	s.scale = s.growth.Update(dt, s.store.CountAlive(), s.cfg.Population, &s.cfg)
	if s.scale > prev {
		s.contain()
	}

	if s.cfg.Collisions {
		s.exec.buildGrid(s)
		st.Add(s.exec.resolve(s))
	} else {
		var sparse physics.Stats
		sparse, s.scratch = physics.SparseDamage(s.store, &s.cfg, s.scale, dt, s.rng, s.scratch)
		st.Add(sparse)
	}

	s.alive = s.store.CountAlive()
	s.last = st
	res := StepResult{
		Tick:     s.tick,
		Advanced: true,
		Alive:    s.alive,
		Scale:    s.scale,
		Stats:    st,
	}
	if kind, ok := s.tracker.Update(s.alive, s.cfg.Endless); ok {
		ev := s.event(kind)
		res.Outcome = &ev
		s.log.Info("fight decided", "fight", s.fightID, "result", kind.String(),
			"index", ev.Index, "name", ev.Participant.Name, "tick", ev.Tick, "elapsed", ev.Elapsed)
	}

	s.m.ticks.Add(1)
	s.m.alive.Store(int64(s.alive))
	s.m.deaths.Add(int64(st.Deaths))
	s.m.respawns.Add(int64(st.Respawns))
	s.m.pairs.Add(int64(st.Pairs))
	s.m.contacts.Add(int64(st.Contacts))
	s.m.capped.Add(int64(st.CappedCells))
	s.m.scale.Set(s.scale)
	s.m.tickMillis.Set(float64(time.Since(start).Microseconds()) / 1000)
	return res, nil
}

// contain pulls agents back inside the arena after the radius scale grew
func (s *Simulation) contain() {
	for i, st := range s.store.State {
		if st == agent.Dead {
			continue
		}
		physics.ClampToArena(s.store, i, s.radius(i), s.cfg.ArenaWidth, s.cfg.ArenaHeight)
	}
}

func (s *Simulation) event(kind outcome.Kind) outcome.Event {
	ev := outcome.Event{
		Kind:    kind,
		FightID: s.fightID,
		Index:   -1,
		Tick:    s.tick,
		Elapsed: s.elapsed,
	}
	if kind != outcome.Winner {
		return ev
	}
	i := s.store.FirstAlive()
	if i < 0 {
		return ev
	}
	ev.Index = i
	ev.Participant = s.roster[i]
	ev.Health = s.store.Health[i]
	ev.X, ev.Y = s.store.X[i], s.store.Y[i]
	return ev
}

// Config returns the tunables in effect for the next tick
func (s *Simulation) Config() config.Config { return s.cfg }

func (s *Simulation) FightID() uuid.UUID        { return s.fightID }
func (s *Simulation) Tick() uint64              { return s.tick }
func (s *Simulation) Alive() int                { return s.alive }
func (s *Simulation) Paused() bool              { return s.paused }
func (s *Simulation) Metrics() *status.Registry { return s.metrics }

// Participant returns the identity bound to agent i
func (s *Simulation) Participant(i int) roster.Participant { return s.roster[i] }
