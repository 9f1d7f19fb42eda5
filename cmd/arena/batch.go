package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/arena/config"
	"github.com/lixenwraith/arena/outcome"
	"github.com/lixenwraith/arena/status"
)

// WinCount is one row of the winner histogram
type WinCount struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// Summary aggregates a batch of seeded fights
type Summary struct {
	Fights         int        `json:"fights"`
	Decided        int        `json:"decided"`
	Draws          int        `json:"draws"`
	Unfinished     int        `json:"unfinished"`
	Wins           []WinCount `json:"wins"`
	MeanTicks      float64    `json:"mean_ticks"`
	MeanElapsedSec float64    `json:"mean_elapsed_sec"`

	// Counters summed over every fight; sim.alive and sim.scale hold the last writer's value
	Metrics map[string]float64 `json:"metrics"`
}

// WriteJSON writes the summary as indented JSON
func (s *Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// runBatch runs fights seeded Seed, Seed+1, ... with at most jobs in flight
// The parallel backend is forced to sequential so each fight is reproducible from its seed
func runBatch(ctx context.Context, cfg config.Config, fights, jobs int, maxTicks uint64, logger *slog.Logger) (*Summary, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	cfg.Backend = config.BackendSequential

	metrics := status.NewRegistry()
	results := make([]fightResult, fights)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := 0; i < fights; i++ {
		c := cfg
		c.Seed = cfg.Seed + uint64(i)
		g.Go(func() error {
			res, err := runFight(gctx, c, maxTicks, logger, metrics)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("batch finished", "fights", fights, "jobs", jobs, "seed", cfg.Seed, "metrics", metrics)
	sum := summarize(results)
	sum.Metrics = metrics.Snapshot()
	return sum, nil
}

func summarize(results []fightResult) *Summary {
	sum := &Summary{Fights: len(results), Wins: []WinCount{}}
	wins := make(map[string]int)
	var ticks, elapsed float64

	for _, r := range results {
		switch {
		case r.Event == nil:
			sum.Unfinished++
			continue
		case r.Event.Kind == outcome.Draw:
			sum.Draws++
		default:
			wins[r.Event.Participant.Label(r.Event.Index)]++
		}
		sum.Decided++
		ticks += float64(r.Event.Tick)
		elapsed += r.Event.Elapsed.Seconds()
	}

	if sum.Decided > 0 {
		sum.MeanTicks = ticks / float64(sum.Decided)
		sum.MeanElapsedSec = elapsed / float64(sum.Decided)
	}
	for name, n := range wins {
		sum.Wins = append(sum.Wins, WinCount{Name: name, Wins: n})
	}
	sort.Slice(sum.Wins, func(a, b int) bool {
		if sum.Wins[a].Wins != sum.Wins[b].Wins {
			return sum.Wins[a].Wins > sum.Wins[b].Wins
		}
		return sum.Wins[a].Name < sum.Wins[b].Name
	})
	return sum
}
