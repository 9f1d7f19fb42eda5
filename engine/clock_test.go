package engine

import (
	"sync"
	"testing"
	"time"
)

// mockTime is a controllable wall clock
type mockTime struct {
	mu  sync.Mutex
	now time.Time
}

func newMockTime() *mockTime {
	return &mockTime{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *mockTime) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *mockTime) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

func TestClockAdvancesWithWallTime(t *testing.T) {
	mt := newMockTime()
	c := NewPausableClockWith(mt)
	t0 := c.Now()
	mt.Advance(250 * time.Millisecond)
	if got := c.Now().Sub(t0); got != 250*time.Millisecond {
		t.Errorf("elapsed = %v, want 250ms", got)
	}
}

func TestClockNoPhantomTimeAcrossPause(t *testing.T) {
	mt := newMockTime()
	c := NewPausableClockWith(mt)

	mt.Advance(time.Second)
	before := c.Now()

	c.Pause()
	if !c.IsPaused() {
		t.Fatal("clock not paused")
	}
	mt.Advance(10 * time.Second)
	if got := c.Now(); !got.Equal(before) {
		t.Errorf("time moved while paused: %v", got.Sub(before))
	}
	if got := c.PausedTotal(); got != 10*time.Second {
		t.Errorf("PausedTotal during pause = %v", got)
	}

	c.Resume()
	if got := c.Now(); !got.Equal(before) {
		t.Errorf("resume jumped by %v", got.Sub(before))
	}
	mt.Advance(100 * time.Millisecond)
	if got := c.Now().Sub(before); got != 100*time.Millisecond {
		t.Errorf("elapsed after resume = %v, want 100ms", got)
	}
}

func TestClockPauseResumeIdempotent(t *testing.T) {
	mt := newMockTime()
	c := NewPausableClockWith(mt)
	c.Pause()
	mt.Advance(time.Second)
	c.Pause()
	mt.Advance(time.Second)
	c.Resume()
	c.Resume()
	if got := c.PausedTotal(); got != 2*time.Second {
		t.Errorf("PausedTotal = %v, want 2s", got)
	}
}
