package engine

import (
	"sync"
	"time"
)

// TimeProvider is the wall clock source behind PausableClock
type TimeProvider interface {
	Now() time.Time
}

type systemTime struct{}

func (systemTime) Now() time.Time { return time.Now() }

// PausableClock is simulation time: wall time minus every paused interval
type PausableClock struct {
	mu sync.RWMutex

	src   TimeProvider
	start time.Time

	paused      bool
	pausedAt    time.Time
	pausedTotal time.Duration
}

func NewPausableClock() *PausableClock {
	return NewPausableClockWith(systemTime{})
}

// NewPausableClockWith uses src as the wall clock
func NewPausableClockWith(src TimeProvider) *PausableClock {
	return &PausableClock{src: src, start: src.Now()}
}

// Now returns simulation time, frozen while paused
func (c *PausableClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	wall := c.src.Now()
	if c.paused {
		wall = c.pausedAt
	}
	return c.start.Add(wall.Sub(c.start) - c.pausedTotal)
}

func (c *PausableClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return
	}
	c.paused = true
	c.pausedAt = c.src.Now()
}

func (c *PausableClock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		return
	}
	c.paused = false
	c.pausedTotal += c.src.Now().Sub(c.pausedAt)
	c.pausedAt = time.Time{}
}

func (c *PausableClock) IsPaused() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.paused
}

// PausedTotal returns cumulative pause duration including a pause in progress
func (c *PausableClock) PausedTotal() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := c.pausedTotal
	if c.paused {
		total += c.src.Now().Sub(c.pausedAt)
	}
	return total
}
