// Package agent holds per-agent simulation state as a structure of arrays
// Index is identity; the store never grows or shrinks during a fight
package agent

// State is the agent lifecycle; exactly one holds at any time
type State uint8

const (
	Alive State = iota
	// Dying is the transient fade after health reached zero, bounded by Remaining
	Dying
	Dead
)

func (s State) String() string {
	switch s {
	case Alive:
		return "alive"
	case Dying:
		return "dying"
	case Dead:
		return "dead"
	}
	return "unknown"
}

// Store is the dense agent table, all slices have equal length
type Store struct {
	X, Y      []float64
	VX, VY    []float64
	Radius    []float64 // Base radius, fixed at creation
	Health    []float64
	MaxHealth []float64
	Remaining []float64 // Fade seconds left while Dying
	State     []State
}

// NewStore allocates a store for n agents, all Alive with zeroed kinematics
func NewStore(n int) *Store {
	if n < 0 {
		n = 0
	}
	return &Store{
		X:         make([]float64, n),
		Y:         make([]float64, n),
		VX:        make([]float64, n),
		VY:        make([]float64, n),
		Radius:    make([]float64, n),
		Health:    make([]float64, n),
		MaxHealth: make([]float64, n),
		Remaining: make([]float64, n),
		State:     make([]State, n),
	}
}

func (s *Store) Len() int { return len(s.State) }

// Shrink returns the death fade factor in [0,1]: 1 Alive, linear fade while Dying, 0 Dead
func (s *Store) Shrink(i int, fadeSec float64) float64 {
	switch s.State[i] {
	case Alive:
		return 1
	case Dying:
		if fadeSec <= 0 {
			return 0
		}
		f := s.Remaining[i] / fadeSec
		if f < 0 {
			return 0
		}
		if f > 1 {
			return 1
		}
		return f
	}
	return 0
}

// EffectiveRadius is base radius times global scale times death shrink
func (s *Store) EffectiveRadius(i int, scale, fadeSec float64) float64 {
	return s.Radius[i] * scale * s.Shrink(i, fadeSec)
}

// MaxEffectiveRadius returns the largest effective radius among non-Dead agents
func (s *Store) MaxEffectiveRadius(scale, fadeSec float64) float64 {
	var m float64
	for i := range s.State {
		if s.State[i] == Dead {
			continue
		}
		if r := s.EffectiveRadius(i, scale, fadeSec); r > m {
			m = r
		}
	}
	return m
}

// HealthFraction returns health/maxHealth clamped to [0,1]
func (s *Store) HealthFraction(i int) float64 {
	if s.MaxHealth[i] <= 0 {
		return 0
	}
	f := s.Health[i] / s.MaxHealth[i]
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Kill moves an Alive agent into Dying; a zero fade goes straight to Dead
func (s *Store) Kill(i int, fadeSec float64) {
	if s.State[i] != Alive {
		return
	}
	if fadeSec <= 0 {
		s.State[i] = Dead
		s.Remaining[i] = 0
		return
	}
	s.State[i] = Dying
	s.Remaining[i] = fadeSec
}

// Eligible reports whether agent i takes part in collisions under the Dying policy
func (s *Store) Eligible(i int, dyingCollide bool) bool {
	return Eligible(s.State[i], dyingCollide)
}

// Eligible is the collision participation rule shared by the live store and frames
func Eligible(st State, dyingCollide bool) bool {
	switch st {
	case Alive:
		return true
	case Dying:
		return dyingCollide
	}
	return false
}

// CountAlive returns the number of agents in the Alive state
func (s *Store) CountAlive() int {
	n := 0
	for _, st := range s.State {
		if st == Alive {
			n++
		}
	}
	return n
}

// FirstAlive returns the lowest Alive index or -1
func (s *Store) FirstAlive() int {
	for i, st := range s.State {
		if st == Alive {
			return i
		}
	}
	return -1
}
