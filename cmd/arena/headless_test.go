package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/lixenwraith/arena/config"
	"github.com/lixenwraith/arena/outcome"
	"github.com/lixenwraith/arena/status"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// quickFightYAML is a small, high-damage arena that decides in a few seconds of simulated time
const quickFightYAML = `population: 4
arena_width: 100
arena_height: 80
radius: 8
damage_min: 80
damage_max: 120
death_fade_sec: 0.05
seed: 11
`

func quickFight(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(quickFightYAML))
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestRunFightDecides(t *testing.T) {
	metrics := status.NewRegistry()
	res, err := runFight(context.Background(), quickFight(t), 200000, quiet, metrics)
	if err != nil {
		t.Fatal(err)
	}
	if got := metrics.Int(status.Ticks).Load(); got != int64(res.Ticks) {
		t.Errorf("ticks metric = %d, want %d", got, res.Ticks)
	}
	if got := metrics.Int(status.Deaths).Load(); got < 3 {
		t.Errorf("deaths metric = %d, a 4 agent fight needs at least 3", got)
	}
	if res.Event == nil {
		t.Fatalf("fight undecided after %d ticks, %d alive", res.Ticks, res.Alive)
	}
	if res.Event.FightID != res.FightID {
		t.Error("event carries a different fight id")
	}
	if res.Event.Kind == outcome.Winner && res.Alive != 1 {
		t.Errorf("winner declared with %d alive", res.Alive)
	}
	if !strings.Contains(res.String(), res.FightID.String()) {
		t.Errorf("result line %q lacks the fight id", res.String())
	}
}

func TestRunFightReproducible(t *testing.T) {
	cfg := quickFight(t)
	a, err := runFight(context.Background(), cfg, 200000, quiet, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := runFight(context.Background(), cfg, 200000, quiet, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Event == nil || b.Event == nil {
		t.Fatal("fight undecided")
	}
	if a.Event.Kind != b.Event.Kind || a.Event.Index != b.Event.Index || a.Event.Tick != b.Event.Tick {
		t.Errorf("same seed diverged: %+v vs %+v", a.Event, b.Event)
	}
}

func TestRunFightTickLimit(t *testing.T) {
	cfg := quickFight(t)
	cfg.Endless = true
	res, err := runFight(context.Background(), cfg, 500, quiet, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Event != nil {
		t.Fatal("endless fight produced a result")
	}
	if res.Ticks != 500 {
		t.Errorf("ran %d ticks, want 500", res.Ticks)
	}
	if !strings.Contains(res.String(), "unfinished") {
		t.Errorf("result line %q", res.String())
	}
}

func TestRunFightCancelled(t *testing.T) {
	cfg := quickFight(t)
	cfg.Endless = true
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runFight(ctx, cfg, 0, quiet, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestWriteMetrics(t *testing.T) {
	metrics := status.NewRegistry()
	metrics.Int(status.DroppedCells).Store(5)
	metrics.Float(status.Scale).Set(2.5)

	var b strings.Builder
	if err := writeMetrics(&b, metrics); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if f := strings.Fields(lines[0]); len(f) != 2 || f[0] != status.DroppedCells || f[1] != "5" {
		t.Errorf("first line = %q", lines[0])
	}
	if f := strings.Fields(lines[1]); len(f) != 2 || f[0] != status.Scale || f[1] != "2.5" {
		t.Errorf("second line = %q", lines[1])
	}
}
