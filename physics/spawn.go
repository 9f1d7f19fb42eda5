package physics

import (
	"github.com/lixenwraith/arena/agent"
	"github.com/lixenwraith/arena/config"
	"github.com/lixenwraith/arena/vmath"
)

// Spawn initializes agent i for a new fight: base radius, max health, placement and velocity
func Spawn(s *agent.Store, i int, cfg *config.Config, rng *vmath.FastRand) {
	r := cfg.Radius
	if cfg.RadiusVariance > 0 {
		r *= 1 + cfg.RadiusVariance*(2*rng.Float64()-1)
	}
	s.Radius[i] = r
	s.MaxHealth[i] = cfg.MaxHealth
	Respawn(s, i, cfg, 1, rng)
}

// Respawn recycles agent i into a fresh Alive agent at a random position with a random heading at base speed
func Respawn(s *agent.Store, i int, cfg *config.Config, scale float64, rng *vmath.FastRand) {
	s.State[i] = agent.Alive
	s.Remaining[i] = 0
	s.Health[i] = s.MaxHealth[i]

	r := s.Radius[i] * scale
	lo, hi := inset(r, cfg.ArenaWidth)
	s.X[i] = rng.Range(lo, hi)
	lo, hi = inset(r, cfg.ArenaHeight)
	s.Y[i] = rng.Range(lo, hi)

	hx, hy := rng.Heading()
	s.VX[i], s.VY[i] = vmath.ClampSpeed(hx*cfg.BaseSpeed, hy*cfg.BaseSpeed, cfg.MinSpeed, cfg.MaxSpeed, rng)
}

// damage subtracts dmg from agent i and applies the death rule on the first crossing to zero
func damage(s *agent.Store, i int, dmg float64, cfg *config.Config, scale float64, rng *vmath.FastRand) Transition {
	s.Health[i] -= dmg
	if s.State[i] != agent.Alive || s.Health[i] > 0 {
		return NoTransition
	}
	if cfg.Endless {
		Respawn(s, i, cfg, scale, rng)
		return Respawned
	}
	s.Kill(i, cfg.DeathFadeSec)
	return Killed
}
