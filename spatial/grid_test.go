package spatial

import (
	"sync"
	"testing"

	"pgregory.net/rapid"

	"github.com/lixenwraith/arena/agent"
	"github.com/lixenwraith/arena/vmath"
)

type pair struct{ i, j int }

func scatter(n int, w, h, r float64, seed uint64) *agent.Store {
	s := agent.NewStore(n)
	rng := vmath.NewFastRand(seed)
	for i := 0; i < n; i++ {
		s.Radius[i] = r
		s.X[i] = rng.Range(r, w-r)
		s.Y[i] = rng.Range(r, h-r)
	}
	return s
}

func baseRadius(s *agent.Store) RadiusFunc {
	return func(i int) float64 { return s.EffectiveRadius(i, 1, 1) }
}

func collectPairs(g *Grid, limit int) (map[pair]int, Stats) {
	got := make(map[pair]int)
	st := g.ForEachPair(limit, func(i, j int) { got[pair{i, j}]++ })
	return got, st
}

// goroutinePartition splits [0,n) into fixed chunks run concurrently
func goroutinePartition(n int, fn func(lo, hi int)) {
	const chunk = 7
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, min(n, lo+chunk))
	}
	wg.Wait()
}

func TestLayout(t *testing.T) {
	s := scatter(10, 100, 50, 6, 1)
	var g Grid
	g.Build(s, baseRadius(s), 100, 50, 4, true)

	if g.CellSize != 12 {
		t.Errorf("CellSize = %v, want ceil(2*6)=12", g.CellSize)
	}
	if g.Cols != 9 || g.Rows != 5 {
		t.Errorf("dims = %dx%d, want 9x5", g.Cols, g.Rows)
	}

	g.Build(s, baseRadius(s), 100, 50, 30, true)
	if g.CellSize != 30 {
		t.Errorf("min cell not honored: %v", g.CellSize)
	}
}

func TestPairsCoverOverlapsOnce(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 120).Draw(rt, "n")
		r := rapid.Float64Range(1, 20).Draw(rt, "r")
		seed := rapid.Uint64().Draw(rt, "seed")
		w, h := 300.0, 200.0

		s := scatter(n, w, h, r, seed)
		var g Grid
		g.Build(s, baseRadius(s), w, h, 1, true)
		got, st := collectPairs(&g, 0)

		if st.CappedCells != 0 {
			rt.Fatalf("unlimited sweep reported %d capped cells", st.CappedCells)
		}
		for p, c := range got {
			if c != 1 {
				rt.Fatalf("pair %v visited %d times", p, c)
			}
			if p.i >= p.j {
				rt.Fatalf("pair %v not ordered", p)
			}
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx, dy := s.X[j]-s.X[i], s.Y[j]-s.Y[i]
				sum := s.Radius[i] + s.Radius[j]
				if dx*dx+dy*dy <= sum*sum && got[pair{i, j}] == 0 {
					rt.Fatalf("overlapping pair (%d,%d) missed", i, j)
				}
			}
		}
	})
}

func TestDeadAndDyingPolicy(t *testing.T) {
	s := agent.NewStore(3)
	for i := 0; i < 3; i++ {
		s.Radius[i] = 5
		s.X[i], s.Y[i] = 20, 20
	}
	s.State[1] = agent.Dying
	s.Remaining[1] = 1
	s.State[2] = agent.Dead

	var g Grid
	g.Build(s, baseRadius(s), 100, 100, 1, true)
	if g.Cell(2) != -1 {
		t.Error("Dead agent must not be bucketed")
	}
	if g.Cell(1) == -1 {
		t.Error("Dying agent must be bucketed when the policy includes it")
	}
	got, _ := collectPairs(&g, 0)
	if len(got) != 1 || got[pair{0, 1}] != 1 {
		t.Errorf("pairs with dying included = %v", got)
	}

	g.Build(s, baseRadius(s), 100, 100, 1, false)
	if g.Cell(1) != -1 {
		t.Error("Dying agent must be excluded when the policy excludes it")
	}
	if got, _ := collectPairs(&g, 0); len(got) != 0 {
		t.Errorf("pairs with dying excluded = %v", got)
	}
}

func TestPairCap(t *testing.T) {
	// Ten agents stacked in one cell produce 45 candidate pairs
	s := agent.NewStore(10)
	for i := range s.State {
		s.Radius[i] = 2
		s.X[i], s.Y[i] = 50, 50
	}
	var g Grid
	g.Build(s, baseRadius(s), 100, 100, 20, true)

	all, st := collectPairs(&g, 0)
	if len(all) != 45 || st.Pairs != 45 {
		t.Fatalf("unlimited pairs = %d, want 45", len(all))
	}

	capped, st := collectPairs(&g, 5)
	if len(capped) != 5 || st.Pairs != 5 {
		t.Errorf("capped pairs = %d, want 5", len(capped))
	}
	if st.CappedCells != 1 {
		t.Errorf("CappedCells = %d, want 1", st.CappedCells)
	}
}

func TestOutOfRangePositionsClamp(t *testing.T) {
	s := agent.NewStore(2)
	s.Radius[0], s.Radius[1] = 3, 3
	s.X[0], s.Y[0] = -500, -500
	s.X[1], s.Y[1] = 1e9, 1e9

	var g Grid
	g.Build(s, baseRadius(s), 60, 60, 10, true)
	if c := g.Cell(0); c != 0 {
		t.Errorf("far negative position bucketed at %d, want 0", c)
	}
	if c := g.Cell(1); c != g.Cols*g.Rows-1 {
		t.Errorf("far positive position bucketed at %d, want last cell", c)
	}
}

func TestBuildParallelMatchesSequential(t *testing.T) {
	s := scatter(400, 500, 400, 6, 99)

	var seq, par Grid
	seq.Build(s, baseRadius(s), 500, 400, 1, true)
	par.BuildParallel(s, baseRadius(s), 500, 400, 1, true, goroutinePartition)

	a, _ := collectPairs(&seq, 0)
	b, _ := collectPairs(&par, 0)
	if len(a) != len(b) {
		t.Fatalf("pair counts differ: %d vs %d", len(a), len(b))
	}
	for p := range a {
		if b[p] != 1 {
			t.Fatalf("pair %v missing from parallel build", p)
		}
	}
}

func TestForEachNeighbor(t *testing.T) {
	s := scatter(200, 300, 300, 8, 5)
	var g Grid
	g.Build(s, baseRadius(s), 300, 300, 1, true)

	for i := 0; i < s.Len(); i++ {
		seen := make(map[int]bool)
		g.ForEachNeighbor(i, 0, func(j int) {
			if j == i {
				t.Fatalf("agent %d yielded as its own neighbor", i)
			}
			seen[j] = true
		})
		for j := 0; j < s.Len(); j++ {
			if j == i {
				continue
			}
			dx, dy := s.X[j]-s.X[i], s.Y[j]-s.Y[i]
			if dx*dx+dy*dy <= 16*16 && !seen[j] {
				t.Fatalf("overlapping neighbor %d of %d missed", j, i)
			}
		}
	}

	full := g.ForEachNeighbor(0, 1, func(int) {})
	count := 0
	g.ForEachNeighbor(0, 0, func(int) { count++ })
	if count > 1 && full {
		t.Error("limit of 1 with several neighbors should report a cut scan")
	}
}

func TestRebuildReusesBuffers(t *testing.T) {
	s := scatter(50, 200, 200, 4, 3)
	var g Grid
	g.Build(s, baseRadius(s), 200, 200, 1, true)
	head := &g.head[0]
	g.Build(s, baseRadius(s), 200, 200, 1, true)
	if &g.head[0] != head {
		t.Error("rebuild with the same layout should not reallocate cell heads")
	}
}
