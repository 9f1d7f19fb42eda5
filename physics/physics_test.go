package physics

import (
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/lixenwraith/arena/agent"
	"github.com/lixenwraith/arena/config"
	"github.com/lixenwraith/arena/spatial"
	"github.com/lixenwraith/arena/vmath"
)

const eps = 1e-9

func testConfig() config.Config {
	cfg := config.Default()
	cfg.ArenaWidth = 400
	cfg.ArenaHeight = 300
	cfg.Radius = 10
	cfg.MaxHealth = 100
	cfg.DamageMin, cfg.DamageMax = 10, 10
	cfg.Elasticity = 1
	cfg.HitBoost = 1
	cfg.WallBoost = 1
	cfg.Jitter = 0
	cfg.MinSpeed = 0
	cfg.MaxSpeed = 1000
	return cfg.Sanitized()
}

// pairStore places two equal agents at the given centers with zero velocity
func pairStore(cfg *config.Config, x0, y0, x1, y1 float64) *agent.Store {
	s := agent.NewStore(2)
	for i := 0; i < 2; i++ {
		s.Radius[i] = cfg.Radius
		s.MaxHealth[i] = cfg.MaxHealth
		s.Health[i] = cfg.MaxHealth
	}
	s.X[0], s.Y[0] = x0, y0
	s.X[1], s.Y[1] = x1, y1
	return s
}

func distance(s *agent.Store, i, j int) float64 {
	return vmath.Length(s.X[j]-s.X[i], s.Y[j]-s.Y[i])
}

func TestReflectBounds(t *testing.T) {
	cfg := testConfig()
	cfg.WallBoost = 1.5
	s := pairStore(&cfg, 395, 150, 100, -4)
	s.VX[0], s.VY[0] = 100, 0
	s.VX[1], s.VY[1] = 0, -50

	rng := vmath.NewFastRand(1)
	Integrate(s, 0, 0.01, &cfg, 1, rng)
	Integrate(s, 1, 0.01, &cfg, 1, rng)

	if s.X[0] != 390 {
		t.Errorf("right wall clamp X = %v, want 390", s.X[0])
	}
	if s.VX[0] >= 0 {
		t.Errorf("VX after right wall = %v, want negative", s.VX[0])
	}
	if want := -100 * 1.5 * cfg.Damping; math.Abs(s.VX[0]-want) > eps {
		t.Errorf("VX = %v, want %v (boost then damping)", s.VX[0], want)
	}
	if s.Y[1] != 10 || s.VY[1] <= 0 {
		t.Errorf("top wall: Y=%v VY=%v", s.Y[1], s.VY[1])
	}
}

func TestIntegrateFadeLifecycle(t *testing.T) {
	cfg := testConfig()
	cfg.DeathFadeSec = 0.3
	s := pairStore(&cfg, 100, 100, 200, 200)
	rng := vmath.NewFastRand(2)

	s.Health[0] = 0
	s.Kill(0, cfg.DeathFadeSec)

	if tr := Integrate(s, 0, 0.2, &cfg, 1, rng); tr != NoTransition || s.State[0] != agent.Dying {
		t.Fatalf("mid fade: transition %v state %v", tr, s.State[0])
	}
	if tr := Integrate(s, 0, 0.2, &cfg, 1, rng); tr != Expired || s.State[0] != agent.Dead {
		t.Fatalf("end of fade: transition %v state %v", tr, s.State[0])
	}
	x := s.X[0]
	if tr := Integrate(s, 0, 0.2, &cfg, 1, rng); tr != NoTransition || s.X[0] != x {
		t.Errorf("Dead agent must not move or transition, got %v", tr)
	}

	cfg.Endless = true
	if tr := Integrate(s, 0, 0.2, &cfg, 1, rng); tr != Respawned {
		t.Fatalf("endless Dead agent should respawn, got %v", tr)
	}
	if s.State[0] != agent.Alive || s.Health[0] != cfg.MaxHealth {
		t.Errorf("respawn: state %v health %v", s.State[0], s.Health[0])
	}
}

func TestIntegrateKeepsInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cfg := config.Default()
		cfg.ArenaWidth = rapid.Float64Range(50, 800).Draw(rt, "w")
		cfg.ArenaHeight = rapid.Float64Range(50, 800).Draw(rt, "h")
		cfg.MinSpeed = rapid.Float64Range(0, 100).Draw(rt, "min")
		cfg.MaxSpeed = cfg.MinSpeed + rapid.Float64Range(0, 400).Draw(rt, "span")
		cfg.Jitter = rapid.Float64Range(0, 500).Draw(rt, "jitter")
		cfg = cfg.Sanitized()
		scale := rapid.Float64Range(1, 4).Draw(rt, "scale")
		rng := vmath.NewFastRand(rapid.Uint64().Draw(rt, "seed"))

		s := agent.NewStore(20)
		for i := 0; i < s.Len(); i++ {
			Spawn(s, i, &cfg, rng)
		}
		for step := 0; step < 50; step++ {
			for i := 0; i < s.Len(); i++ {
				Integrate(s, i, 1.0/60, &cfg, scale, rng)
				r := s.EffectiveRadius(i, scale, cfg.DeathFadeSec)
				lo, hi := inset(r, cfg.ArenaWidth)
				if s.X[i] < lo-eps || s.X[i] > hi+eps {
					rt.Fatalf("agent %d X=%v outside [%v,%v]", i, s.X[i], lo, hi)
				}
				lo, hi = inset(r, cfg.ArenaHeight)
				if s.Y[i] < lo-eps || s.Y[i] > hi+eps {
					rt.Fatalf("agent %d Y=%v outside [%v,%v]", i, s.Y[i], lo, hi)
				}
				sp := vmath.Length(s.VX[i], s.VY[i])
				if sp < cfg.MinSpeed-1e-6 || sp > cfg.MaxSpeed+1e-6 {
					rt.Fatalf("agent %d speed %v outside [%v,%v]", i, sp, cfg.MinSpeed, cfg.MaxSpeed)
				}
			}
		}
	})
}

func TestSpawnDeterministic(t *testing.T) {
	cfg := testConfig()
	cfg.RadiusVariance = 0.3
	a, b := agent.NewStore(50), agent.NewStore(50)
	ra, rb := vmath.NewFastRand(77), vmath.NewFastRand(77)
	for i := 0; i < 50; i++ {
		Spawn(a, i, &cfg, ra)
		Spawn(b, i, &cfg, rb)
	}
	for i := 0; i < 50; i++ {
		if a.X[i] != b.X[i] || a.Y[i] != b.Y[i] || a.VX[i] != b.VX[i] || a.VY[i] != b.VY[i] || a.Radius[i] != b.Radius[i] {
			t.Fatalf("agent %d differs between identical seeds", i)
		}
		if a.Radius[i] < 7 || a.Radius[i] > 13 {
			t.Errorf("radius %v outside variance band", a.Radius[i])
		}
	}
}

func TestContactOverlapScenario(t *testing.T) {
	tests := []struct {
		name      string
		maxHealth float64
		wantState agent.State
		wantHP    float64
	}{
		{"survives", 100, agent.Alive, 90},
		{"both die", 10, agent.Dying, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.MaxHealth = tt.maxHealth
			s := pairStore(&cfg, 200, 150, 206, 150)
			rng := vmath.NewFastRand(3)

			var st Stats
			if !Contact(s, 0, 1, &cfg, 1, rng, &st) {
				t.Fatal("overlapping pair not resolved")
			}
			if d := distance(s, 0, 1); math.Abs(d-20) > eps {
				t.Errorf("distance after correction = %v, want 20", d)
			}
			if s.X[0] != 193 || s.X[1] != 213 {
				t.Errorf("correction not symmetric: %v, %v", s.X[0], s.X[1])
			}
			for i := 0; i < 2; i++ {
				if s.Health[i] != tt.wantHP {
					t.Errorf("agent %d health = %v, want %v", i, s.Health[i], tt.wantHP)
				}
				if s.State[i] != tt.wantState {
					t.Errorf("agent %d state = %v, want %v", i, s.State[i], tt.wantState)
				}
			}
			if tt.wantState == agent.Dying && st.Deaths != 2 {
				t.Errorf("Deaths = %d, want 2", st.Deaths)
			}
		})
	}
}

func TestContactEndlessRespawns(t *testing.T) {
	cfg := testConfig()
	cfg.MaxHealth = 5
	cfg.Endless = true
	s := pairStore(&cfg, 200, 150, 210, 150)

	var st Stats
	Contact(s, 0, 1, &cfg, 1, vmath.NewFastRand(4), &st)
	if st.Respawns != 2 || st.Deaths != 0 {
		t.Fatalf("stats = %+v, want 2 respawns", st)
	}
	for i := 0; i < 2; i++ {
		if s.State[i] != agent.Alive || s.Health[i] != 5 {
			t.Errorf("agent %d: state %v health %v", i, s.State[i], s.Health[i])
		}
	}
}

func TestContactElasticExchange(t *testing.T) {
	cfg := testConfig()
	s := pairStore(&cfg, 200, 150, 219, 150)
	s.VX[0], s.VX[1] = 50, -30

	Contact(s, 0, 1, &cfg, 1, vmath.NewFastRand(5), &Stats{})
	if math.Abs(s.VX[0]+30) > eps || math.Abs(s.VX[1]-50) > eps {
		t.Errorf("elastic equal-mass exchange failed: %v, %v", s.VX[0], s.VX[1])
	}

	// Separating pairs keep their velocity
	s = pairStore(&cfg, 200, 150, 219, 150)
	s.VX[0], s.VX[1] = -20, 20
	Contact(s, 0, 1, &cfg, 1, vmath.NewFastRand(5), &Stats{})
	if s.VX[0] != -20 || s.VX[1] != 20 {
		t.Errorf("separating pair changed velocity: %v, %v", s.VX[0], s.VX[1])
	}
}

func TestContactCoincidentCenters(t *testing.T) {
	cfg := testConfig()
	s := pairStore(&cfg, 200, 150, 200, 150)
	Contact(s, 0, 1, &cfg, 1, vmath.NewFastRand(6), &Stats{})
	for i := 0; i < 2; i++ {
		if math.IsNaN(s.X[i]) || math.IsNaN(s.Y[i]) {
			t.Fatalf("NaN position for agent %d", i)
		}
	}
	if d := distance(s, 0, 1); math.Abs(d-20) > 1e-6 {
		t.Errorf("coincident separation = %v, want 20", d)
	}
}

func TestContactDyingPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.DeathFadeSec = 1
	s := pairStore(&cfg, 200, 150, 205, 150)
	s.Health[1] = 0
	s.Kill(1, cfg.DeathFadeSec)

	cfg.DyingCollide = false
	if Contact(s, 0, 1, &cfg, 1, vmath.NewFastRand(7), &Stats{}) {
		t.Error("Dying agent hit while policy excludes Dying")
	}

	cfg.DyingCollide = true
	if !Contact(s, 0, 1, &cfg, 1, vmath.NewFastRand(7), &Stats{}) {
		t.Error("Dying agent not hit while policy includes Dying")
	}
	if s.State[1] != agent.Dying || s.Remaining[1] != 1 {
		t.Errorf("hitting a Dying agent must not restart its fade: %v %v", s.State[1], s.Remaining[1])
	}
}

func TestResolvePairsGrid(t *testing.T) {
	cfg := testConfig()
	s := pairStore(&cfg, 100, 100, 112, 100)

	var g spatial.Grid
	g.Build(s, func(i int) float64 { return s.EffectiveRadius(i, 1, cfg.DeathFadeSec) }, cfg.ArenaWidth, cfg.ArenaHeight, cfg.MinCellSize, cfg.DyingCollide)
	st := ResolvePairs(s, &g, &cfg, 1, vmath.NewFastRand(8))
	if st.Contacts != 1 || st.Pairs != 1 {
		t.Errorf("stats = %+v, want one pair one contact", st)
	}
	if d := distance(s, 0, 1); math.Abs(d-20) > eps {
		t.Errorf("distance = %v, want 20", d)
	}
}

func TestResolveOwnerMatchesSymmetric(t *testing.T) {
	cfg := testConfig()
	sym := pairStore(&cfg, 200, 150, 206, 158)
	own := pairStore(&cfg, 200, 150, 206, 158)
	sym.VX[0], sym.VY[0] = 40, 10
	own.VX[0], own.VY[0] = 40, 10

	Contact(sym, 0, 1, &cfg, 1, vmath.NewFastRand(9), &Stats{})

	var g spatial.Grid
	g.Build(own, func(i int) float64 { return own.EffectiveRadius(i, 1, cfg.DeathFadeSec) }, cfg.ArenaWidth, cfg.ArenaHeight, cfg.MinCellSize, cfg.DyingCollide)
	var f agent.Frame
	f.Capture(own)
	var total Stats
	for i := 0; i < 2; i++ {
		total.Add(ResolveOwner(own, &f, &g, i, &cfg, 1, vmath.NewFastRand(vmath.Derive(1, 0, uint64(i)))))
	}

	if total.Contacts != 2 {
		t.Errorf("owner contacts = %d, want 2 sides", total.Contacts)
	}
	for i := 0; i < 2; i++ {
		if math.Abs(sym.X[i]-own.X[i]) > eps || math.Abs(sym.Y[i]-own.Y[i]) > eps {
			t.Errorf("agent %d position sym (%v,%v) own (%v,%v)", i, sym.X[i], sym.Y[i], own.X[i], own.Y[i])
		}
		if math.Abs(sym.VX[i]-own.VX[i]) > eps || math.Abs(sym.VY[i]-own.VY[i]) > eps {
			t.Errorf("agent %d velocity sym (%v,%v) own (%v,%v)", i, sym.VX[i], sym.VY[i], own.VX[i], own.VY[i])
		}
		if own.Health[i] != 90 {
			t.Errorf("agent %d owner health = %v, want 90", i, own.Health[i])
		}
	}
}

func TestResolveOwnerCoincident(t *testing.T) {
	cfg := testConfig()
	s := pairStore(&cfg, 200, 150, 200, 150)
	var g spatial.Grid
	g.Build(s, func(i int) float64 { return s.EffectiveRadius(i, 1, cfg.DeathFadeSec) }, cfg.ArenaWidth, cfg.ArenaHeight, cfg.MinCellSize, true)
	var f agent.Frame
	f.Capture(s)
	ResolveOwner(s, &f, &g, 0, &cfg, 1, vmath.NewFastRand(1))
	ResolveOwner(s, &f, &g, 1, &cfg, 1, vmath.NewFastRand(2))
	if d := distance(s, 0, 1); math.Abs(d-20) > 1e-6 {
		t.Errorf("owner coincident separation = %v, want 20", d)
	}
}

func TestSparseDamage(t *testing.T) {
	cfg := testConfig()
	cfg.Collisions = false
	cfg.SparseHitsPerSec = 2
	cfg.DamageMin, cfg.DamageMax = 5, 15
	rng := vmath.NewFastRand(10)

	s := agent.NewStore(100)
	for i := 0; i < s.Len(); i++ {
		Spawn(s, i, &cfg, rng)
	}

	var scratch []int
	prev := s.CountAlive()
	hit := false
	for tick := 0; tick < 600; tick++ {
		var st Stats
		st, scratch = SparseDamage(s, &cfg, 1, 1.0/60, rng, scratch)
		if st.Contacts > 0 {
			hit = true
		}
		alive := s.CountAlive()
		if alive > prev {
			t.Fatalf("tick %d: alive rose from %d to %d", tick, prev, alive)
		}
		prev = alive
	}
	if !hit {
		t.Error("sparse damage never landed a hit")
	}
	if prev == 100 {
		t.Error("expected some eliminations after 10 simulated seconds")
	}
}

func TestSparseDamageEndless(t *testing.T) {
	cfg := testConfig()
	cfg.Endless = true
	cfg.SparseHitsPerSec = 5
	cfg.MaxHealth = 1
	rng := vmath.NewFastRand(11)

	s := agent.NewStore(30)
	for i := 0; i < s.Len(); i++ {
		Spawn(s, i, &cfg, rng)
	}
	var total Stats
	var scratch []int
	for tick := 0; tick < 120; tick++ {
		var st Stats
		st, scratch = SparseDamage(s, &cfg, 1, 1.0/60, rng, scratch)
		total.Add(st)
		if got := s.CountAlive(); got != 30 {
			t.Fatalf("endless alive count = %d, want 30", got)
		}
	}
	if total.Respawns == 0 {
		t.Error("expected respawns with one-hit health")
	}
}
