package physics

import (
	"github.com/lixenwraith/arena/agent"
	"github.com/lixenwraith/arena/config"
	"github.com/lixenwraith/arena/vmath"
)

// SparseDamage is the collisions-off fallback: random hits between uniformly sampled living agents
// Expected hits this tick = SparseHitsPerSec * alive * dt, the fractional part resolved by a roll
// scratch is reused for the living index list and returned for the next call
func SparseDamage(s *agent.Store, cfg *config.Config, scale, dt float64, rng *vmath.FastRand, scratch []int) (Stats, []int) {
	var st Stats

	living := scratch[:0]
	for i, state := range s.State {
		if state == agent.Alive {
			living = append(living, i)
		}
	}
	n := len(living)
	if n < 2 || dt <= 0 {
		return st, living
	}

	expected := cfg.SparseHitsPerSec * float64(n) * dt
	hits := int(expected)
	if rng.Float64() < expected-float64(hits) {
		hits++
	}

	lo, hi := cfg.DamageRange()
	for h := 0; h < hits; h++ {
		a := rng.Intn(n)
		b := rng.Intn(n - 1)
		if b >= a {
			b++
		}
		i, j := living[a], living[b]
		// Agents killed earlier in this tick stay in the list but are no longer Alive
		if s.State[i] != agent.Alive || s.State[j] != agent.Alive {
			continue
		}
		st.Pairs++
		st.Contacts++
		dmg := rng.Range(lo, hi)
		st.record(damage(s, i, dmg, cfg, scale, rng))
		st.record(damage(s, j, dmg, cfg, scale, rng))
	}
	return st, living
}
