// Package physics advances and resolves agents in the store
// Every function mutates the store in place and never fails; degenerate geometry falls back to random directions
package physics

import (
	"math"

	"github.com/lixenwraith/arena/agent"
	"github.com/lixenwraith/arena/config"
	"github.com/lixenwraith/arena/vmath"
)

// Transition reports a lifecycle change caused by one phase on one agent
type Transition uint8

const (
	NoTransition Transition = iota
	// Expired is Dying to Dead at the end of the fade
	Expired
	// Killed is Alive to Dying (or Dead with zero fade)
	Killed
	// Respawned is a recycle into a fresh Alive agent in endless mode
	Respawned
)

// Integrate advances agent i by dt: fade timer, motion, wall reflection, damping, jitter, speed clamp
func Integrate(s *agent.Store, i int, dt float64, cfg *config.Config, scale float64, rng *vmath.FastRand) Transition {
	switch s.State[i] {
	case agent.Dead:
		if cfg.Endless {
			Respawn(s, i, cfg, scale, rng)
			return Respawned
		}
		return NoTransition
	case agent.Dying:
		s.Remaining[i] -= dt
		if s.Remaining[i] <= 0 {
			s.Remaining[i] = 0
			if cfg.Endless {
				Respawn(s, i, cfg, scale, rng)
				return Respawned
			}
			s.State[i] = agent.Dead
			return Expired
		}
	}

	s.X[i] += s.VX[i] * dt
	s.Y[i] += s.VY[i] * dt

	r := s.EffectiveRadius(i, scale, cfg.DeathFadeSec)
	if ReflectBounds(s, i, r, cfg.ArenaWidth, cfg.ArenaHeight) {
		s.VX[i] *= cfg.WallBoost
		s.VY[i] *= cfg.WallBoost
	}

	s.VX[i] *= cfg.Damping
	s.VY[i] *= cfg.Damping

	if cfg.Jitter > 0 {
		hx, hy := rng.Heading()
		a := cfg.Jitter * rng.Float64() * dt
		s.VX[i] += hx * a
		s.VY[i] += hy * a
	}

	s.VX[i], s.VY[i] = vmath.ClampSpeed(s.VX[i], s.VY[i], cfg.MinSpeed, cfg.MaxSpeed, rng)
	return NoTransition
}

// ReflectBounds clamps agent i into [r, size-r] per axis and points the velocity back inward
// Returns true if any wall was hit
func ReflectBounds(s *agent.Store, i int, r, width, height float64) bool {
	hitX := reflectAxis(&s.X[i], &s.VX[i], r, width)
	hitY := reflectAxis(&s.Y[i], &s.VY[i], r, height)
	return hitX || hitY
}

func reflectAxis(p, v *float64, r, size float64) bool {
	lo, hi := inset(r, size)
	if *p < lo {
		*p = lo
		*v = math.Abs(*v)
		return true
	}
	if *p > hi {
		*p = hi
		*v = -math.Abs(*v)
		return true
	}
	return false
}

// ClampToArena clamps position only, used after positional correction
func ClampToArena(s *agent.Store, i int, r, width, height float64) {
	lo, hi := inset(r, width)
	s.X[i] = vmath.Clamp(s.X[i], lo, hi)
	lo, hi = inset(r, height)
	s.Y[i] = vmath.Clamp(s.Y[i], lo, hi)
}

// inset returns the valid center range on one axis; an agent wider than the arena is pinned to the middle
func inset(r, size float64) (float64, float64) {
	if 2*r >= size {
		return size / 2, size / 2
	}
	return r, size - r
}
