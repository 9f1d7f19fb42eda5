package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/arena/config"
	"github.com/lixenwraith/arena/engine"
	"github.com/lixenwraith/arena/outcome"
	"github.com/lixenwraith/arena/status"
)

// ctxCheckEvery bounds how many ticks run between cancellation checks
const ctxCheckEvery = 1024

// fightResult is the end state of one headless fight
type fightResult struct {
	Seed    uint64
	FightID uuid.UUID
	Event   *outcome.Event // Nil when the tick limit was reached first
	Ticks   uint64
	Alive   int
}

func (r fightResult) String() string {
	if r.Event == nil {
		return fmt.Sprintf("fight %s seed %d unfinished after %d ticks, %d alive", r.FightID, r.Seed, r.Ticks, r.Alive)
	}
	ev := r.Event
	if ev.Kind == outcome.Draw {
		return fmt.Sprintf("fight %s seed %d draw at tick %d (%.2fs)", r.FightID, r.Seed, ev.Tick, ev.Elapsed.Seconds())
	}
	return fmt.Sprintf("fight %s seed %d winner %s (#%d) at tick %d (%.2fs) health %.1f",
		r.FightID, r.Seed, ev.Participant.Label(ev.Index), ev.Index, ev.Tick, ev.Elapsed.Seconds(), ev.Health)
}

// runFight steps one simulation at the fixed tick interval, detached from wall time, until it is decided
// Counters accumulate into metrics, which fights of a batch share
func runFight(ctx context.Context, cfg config.Config, maxTicks uint64, logger *slog.Logger, metrics *status.Registry) (fightResult, error) {
	sim := engine.New(cfg, nil, logger, metrics)
	defer sim.Destroy()

	dt := cfg.TickInterval().Seconds()
	res := fightResult{Seed: cfg.Seed, FightID: sim.FightID()}
	started := time.Now()

	for {
		st, err := sim.Step(dt)
		if err != nil {
			return res, fmt.Errorf("step fight %s: %w", res.FightID, err)
		}
		res.Ticks, res.Alive = st.Tick, st.Alive
		if st.Outcome != nil {
			res.Event = st.Outcome
			break
		}
		if maxTicks > 0 && st.Tick >= maxTicks {
			break
		}
		if st.Tick%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
	}

	logger.Debug("headless fight finished", "fight", res.FightID, "seed", res.Seed,
		"ticks", res.Ticks, "wall", time.Since(started))
	return res, nil
}

// writeMetrics prints one aligned line per metric
func writeMetrics(w io.Writer, metrics *status.Registry) error {
	var err error
	metrics.Each(func(name string, v float64) {
		if err == nil {
			_, err = fmt.Fprintf(w, "  %-22s %g\n", name, v)
		}
	})
	return err
}
