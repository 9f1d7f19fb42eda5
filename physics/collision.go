package physics

import (
	"math"

	"github.com/lixenwraith/arena/agent"
	"github.com/lixenwraith/arena/config"
	"github.com/lixenwraith/arena/spatial"
	"github.com/lixenwraith/arena/vmath"
)

// Stats reports collision phase work of one tick
type Stats struct {
	Pairs       int // Broad phase candidates examined
	Contacts    int // Overlapping pairs resolved
	CappedCells int // Neighborhoods (or agents, owner mode) cut short by MaxPairsPerCell
	Deaths      int
	Respawns    int
}

// Add merges o into st
func (st *Stats) Add(o Stats) {
	st.Pairs += o.Pairs
	st.Contacts += o.Contacts
	st.CappedCells += o.CappedCells
	st.Deaths += o.Deaths
	st.Respawns += o.Respawns
}

func (st *Stats) record(t Transition) {
	switch t {
	case Killed:
		st.Deaths++
	case Respawned:
		st.Respawns++
	}
}

// ResolvePairs is the symmetric resolver: every contact mutates both agents
// Pairs are processed in grid order against positions already corrected earlier in the sweep
func ResolvePairs(s *agent.Store, g *spatial.Grid, cfg *config.Config, scale float64, rng *vmath.FastRand) Stats {
	var st Stats
	gs := g.ForEachPair(cfg.MaxPairsPerCell, func(i, j int) {
		if Contact(s, i, j, cfg, scale, rng, &st) {
			st.Contacts++
		}
	})
	st.Pairs = gs.Pairs
	st.CappedCells = gs.CappedCells
	return st
}

// Contact runs the narrow phase and response for one pair
// Returns false when the pair is ineligible or not overlapping
func Contact(s *agent.Store, i, j int, cfg *config.Config, scale float64, rng *vmath.FastRand, st *Stats) bool {
	if !s.Eligible(i, cfg.DyingCollide) || !s.Eligible(j, cfg.DyingCollide) {
		return false
	}

	ri := s.EffectiveRadius(i, scale, cfg.DeathFadeSec)
	rj := s.EffectiveRadius(j, scale, cfg.DeathFadeSec)
	sum := ri + rj
	if sum <= 0 {
		return false
	}
	dx, dy := s.X[j]-s.X[i], s.Y[j]-s.Y[i]
	if dx*dx+dy*dy > sum*sum {
		return false
	}

	nx, ny, d, ok := vmath.Normalize(dx, dy)
	if !ok {
		nx, ny = rng.Heading()
		d = 0
	}

	// Positional correction, half the penetration each
	half := (sum - d) / 2
	s.X[i] -= nx * half
	s.Y[i] -= ny * half
	s.X[j] += nx * half
	s.Y[j] += ny * half
	ClampToArena(s, i, ri, cfg.ArenaWidth, cfg.ArenaHeight)
	ClampToArena(s, j, rj, cfg.ArenaWidth, cfg.ArenaHeight)

	// Equal-mass impulse, only when closing
	vn := (s.VX[j]-s.VX[i])*nx + (s.VY[j]-s.VY[i])*ny
	if vn < 0 {
		imp := -(1 + cfg.Elasticity) * vn / 2
		s.VX[i] -= imp * nx
		s.VY[i] -= imp * ny
		s.VX[j] += imp * nx
		s.VY[j] += imp * ny
	}

	boost(s, i, cfg, rng)
	boost(s, j, cfg, rng)

	// One roll damages both participants
	lo, hi := cfg.DamageRange()
	dmg := rng.Range(lo, hi)
	st.record(damage(s, i, dmg, cfg, scale, rng))
	st.record(damage(s, j, dmg, cfg, scale, rng))
	return true
}

func boost(s *agent.Store, i int, cfg *config.Config, rng *vmath.FastRand) {
	s.VX[i], s.VY[i] = vmath.ClampSpeed(s.VX[i]*cfg.HitBoost, s.VY[i]*cfg.HitBoost, cfg.MinSpeed, cfg.MaxSpeed, rng)
}

// ResolveOwner resolves all contacts of agent i reading neighbors from frame f and writing only row i
// Safe to run concurrently for distinct i; both sides of a contact apply their own half of correction and impulse
// Contacts counts sides, a pair resolved by both owners contributes 2
func ResolveOwner(s *agent.Store, f *agent.Frame, g *spatial.Grid, i int, cfg *config.Config, scale float64, rng *vmath.FastRand) Stats {
	var st Stats
	if !agent.Eligible(f.State[i], cfg.DyingCollide) {
		return st
	}

	fade := cfg.DeathFadeSec
	ri := s.Radius[i] * scale * f.Shrink(i, fade)
	xi, yi := f.X[i], f.Y[i]
	vxi, vyi := f.VX[i], f.VY[i]

	var cx, cy, dvx, dvy float64
	hits := 0
	full := g.ForEachNeighbor(i, cfg.MaxPairsPerCell, func(j int) {
		st.Pairs++
		if !agent.Eligible(f.State[j], cfg.DyingCollide) {
			return
		}
		rj := s.Radius[j] * scale * f.Shrink(j, fade)
		sum := ri + rj
		if sum <= 0 {
			return
		}
		dx, dy := f.X[j]-xi, f.Y[j]-yi
		if dx*dx+dy*dy > sum*sum {
			return
		}

		nx, ny, d, ok := vmath.Normalize(dx, dy)
		if !ok {
			nx, ny = pairNormal(i, j)
			d = 0
		}

		half := (sum - d) / 2
		cx -= nx * half
		cy -= ny * half

		vn := (f.VX[j]-vxi)*nx + (f.VY[j]-vyi)*ny
		if vn < 0 {
			imp := -(1 + cfg.Elasticity) * vn / 2
			dvx -= imp * nx
			dvy -= imp * ny
		}
		hits++
	})
	if !full {
		st.CappedCells++
	}
	if hits == 0 {
		return st
	}
	st.Contacts = hits

	s.X[i] = xi + cx
	s.Y[i] = yi + cy
	ClampToArena(s, i, ri, cfg.ArenaWidth, cfg.ArenaHeight)

	b := math.Pow(cfg.HitBoost, float64(hits))
	s.VX[i], s.VY[i] = vmath.ClampSpeed((vxi+dvx)*b, (vyi+dvy)*b, cfg.MinSpeed, cfg.MaxSpeed, rng)

	lo, hi := cfg.DamageRange()
	var dmg float64
	for k := 0; k < hits; k++ {
		dmg += rng.Range(lo, hi)
	}
	st.record(damage(s, i, dmg, cfg, scale, rng))
	return st
}

// pairNormal is a deterministic normal from i toward j for coincident centers
// Both owners derive the same axis with opposite signs
func pairNormal(i, j int) (float64, float64) {
	lo, hi := min(i, j), max(i, j)
	hx, hy := vmath.HashHeading(uint64(lo)<<32 | uint64(hi))
	if i == lo {
		return hx, hy
	}
	return -hx, -hy
}
