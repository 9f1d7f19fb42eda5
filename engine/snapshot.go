package engine

import (
	"github.com/google/uuid"

	"github.com/lixenwraith/arena/agent"
)

// Snapshot is the per-tick view handed to renderers
// Slices are owned by the snapshot; runner snapshots return to the pool via Runner.Release
type Snapshot struct {
	FightID uuid.UUID
	Tick    uint64

	Width, Height float64
	Scale         float64
	Alive         int
	Paused        bool
	Endless       bool
	Collisions    bool

	// Work of the tick that produced the snapshot
	Contacts     int
	Eliminations int // Deaths plus endless respawns

	X, Y   []float64
	R      []float64 // Effective radius
	Health []float64 // Health fraction in [0,1]
	State  []agent.State
}

// Len returns the number of agents in the snapshot
func (sn *Snapshot) Len() int { return len(sn.State) }

// Snapshot copies the current state into dst, reusing its buffers; nil dst allocates
func (s *Simulation) Snapshot(dst *Snapshot) *Snapshot {
	if dst == nil {
		dst = &Snapshot{}
	}
	if s.store == nil {
		dst.State = dst.State[:0]
		return dst
	}
	n := s.store.Len()
	dst.FightID = s.fightID
	dst.Tick = s.tick
	dst.Width, dst.Height = s.cfg.ArenaWidth, s.cfg.ArenaHeight
	dst.Scale = s.scale
	dst.Alive = s.alive
	dst.Paused = s.paused
	dst.Endless = s.cfg.Endless
	dst.Collisions = s.cfg.Collisions
	dst.Contacts = s.last.Contacts
	dst.Eliminations = s.last.Deaths + s.last.Respawns

	dst.X = resize(dst.X, n)
	dst.Y = resize(dst.Y, n)
	dst.R = resize(dst.R, n)
	dst.Health = resize(dst.Health, n)
	if cap(dst.State) < n {
		dst.State = make([]agent.State, n)
	}
	dst.State = dst.State[:n]

	copy(dst.X, s.store.X)
	copy(dst.Y, s.store.Y)
	copy(dst.State, s.store.State)
	for i := 0; i < n; i++ {
		dst.R[i] = s.store.EffectiveRadius(i, s.scale, s.cfg.DeathFadeSec)
		dst.Health[i] = s.store.HealthFraction(i)
	}
	return dst
}

func resize(b []float64, n int) []float64 {
	if cap(b) < n {
		return make([]float64, n)
	}
	return b[:n]
}
