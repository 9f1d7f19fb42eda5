package engine

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/arena/outcome"
	"github.com/lixenwraith/arena/parameter"
	"github.com/lixenwraith/arena/status"
)

// Telemetry is the throttled HUD signal
type Telemetry struct {
	FightID    uuid.UUID
	Tick       uint64
	AliveCount int
	Scale      float64
	Paused     bool
}

// Runner ticks a Simulation on its own goroutine at a capped rate
// The runner owns the simulation exclusively; consumers only see snapshots, telemetry and outcomes
type Runner struct {
	sim   *Simulation
	clock *PausableClock
	wall  TimeProvider
	log   *slog.Logger

	tickInterval      time.Duration
	telemetryInterval time.Duration
	maxBehind         time.Duration

	frames    chan *Snapshot
	pool      chan *Snapshot
	telemetry chan Telemetry
	outcomes  chan outcome.Event
	wake      chan struct{}

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
	stopped  atomic.Bool

	statDropped *atomic.Int64
	statFrames  *atomic.Int64
}

// NewRunner wraps sim; the tick rate and telemetry interval come from the simulation config
// A nil clock uses wall time
func NewRunner(sim *Simulation, clock *PausableClock, logger *slog.Logger) *Runner {
	if clock == nil {
		clock = NewPausableClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg := sim.Config()
	interval := cfg.TickInterval()
	r := &Runner{
		sim:               sim,
		clock:             clock,
		wall:              clock.src,
		log:               logger.With("component", "runner"),
		tickInterval:      interval,
		telemetryInterval: cfg.TelemetryInterval,
		maxBehind:         interval * 2,
		frames:            make(chan *Snapshot, 1),
		pool:              make(chan *Snapshot, parameter.FramePoolSize),
		telemetry:         make(chan Telemetry, 1),
		outcomes:          make(chan outcome.Event, 4),
		wake:              make(chan struct{}, 1),
		stop:              make(chan struct{}),
		statDropped:       sim.Metrics().Int(status.DroppedTicks),
		statFrames:        sim.Metrics().Int(status.Frames),
	}
	if sim.Paused() {
		clock.Pause()
	}
	return r
}

// Frames delivers the latest snapshot; an unread frame is replaced by a newer one
func (r *Runner) Frames() <-chan *Snapshot { return r.frames }

// Telemetry delivers the throttled alive count, latest wins
func (r *Runner) Telemetry() <-chan Telemetry { return r.telemetry }

// Outcomes delivers winner and draw events
func (r *Runner) Outcomes() <-chan outcome.Event { return r.outcomes }

// Release returns a consumed snapshot to the pool
func (r *Runner) Release(sn *Snapshot) {
	if sn == nil {
		return
	}
	select {
	case r.pool <- sn:
	default:
	}
}

func (r *Runner) acquire() *Snapshot {
	select {
	case sn := <-r.pool:
		return sn
	default:
		return &Snapshot{}
	}
}

// Send validates and queues cmd for the next tick
// Pause and resume also freeze and thaw the runner clock so no time accrues while paused
func (r *Runner) Send(cmd Command) error {
	if r.stopped.Load() {
		return ErrStopped
	}
	if err := r.sim.Enqueue(cmd); err != nil {
		return err
	}
	switch cmd.(type) {
	case PauseCommand:
		r.clock.Pause()
	case ResumeCommand:
		r.clock.Resume()
	}
	select {
	case r.wake <- struct{}{}:
	default:
	}
	return nil
}

// Start launches the tick goroutine; a stopped runner cannot be restarted
func (r *Runner) Start() error {
	if r.stopped.Load() {
		return ErrStopped
	}
	if r.running.CompareAndSwap(false, true) {
		r.log.Info("runner started", "tick_interval", r.tickInterval)
		r.wg.Add(1)
		goSafe(r.loop)
	}
	return nil
}

// Stop halts the loop and discards the simulation
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		r.stopped.Store(true)
		close(r.stop)
		r.wg.Wait()
		r.running.Store(false)
		r.sim.Destroy()
		r.log.Info("runner stopped", "metrics", r.sim.Metrics())
	})
}

func (r *Runner) loop() {
	defer r.wg.Done()

	last := r.clock.Now()
	next := last.Add(r.tickInterval)
	var lastTelemetry time.Time
	fight := r.sim.FightID()

	timer := time.NewTimer(r.tickInterval)
	defer timer.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-r.wake:
		case <-timer.C:
		}

		if r.clock.IsPaused() {
			// Commands still apply while paused so resume and reset are not stuck behind the freeze
			if _, err := r.sim.Step(0); err != nil {
				return
			}
			r.retime()
			r.publish(r.sim)
			last = r.clock.Now()
			next = last.Add(r.tickInterval)
			r.resetTimer(timer, r.tickInterval*2)
			continue
		}

		now := r.clock.Now()
		if now.Before(next) {
			r.resetTimer(timer, next.Sub(now))
			continue
		}

		dt := now.Sub(last).Seconds()
		last = now
		res, err := r.sim.Step(dt)
		if err != nil {
			return
		}

		if r.retime() {
			next = now
		}
		next = next.Add(r.tickInterval)
		if now.Sub(next) > r.maxBehind {
			// Consumer or host is slower than the cap: skip ahead instead of queueing backlog
			skipped := int64(now.Sub(next) / r.tickInterval)
			r.statDropped.Add(skipped)
			next = now.Add(r.tickInterval)
		}

		r.publish(r.sim)

		id := r.sim.FightID()
		wall := r.wall.Now()
		if id != fight || res.Outcome != nil || wall.Sub(lastTelemetry) >= r.telemetryInterval {
			fight = id
			lastTelemetry = wall
			r.emitTelemetry(Telemetry{
				FightID:    id,
				Tick:       res.Tick,
				AliveCount: res.Alive,
				Scale:      res.Scale,
				Paused:     r.sim.Paused(),
			})
		}
		if res.Outcome != nil {
			select {
			case r.outcomes <- *res.Outcome:
			default:
				r.log.Warn("outcome dropped, consumer not reading", "fight", res.Outcome.FightID)
			}
		}

		r.resetTimer(timer, max(0, next.Sub(r.clock.Now())))
	}
}

// retime follows tick_rate and telemetry_interval changes applied by the last Step
// It reports whether the tick interval changed so the loop can rebase its deadline
func (r *Runner) retime() bool {
	cfg := r.sim.Config()
	r.telemetryInterval = cfg.TelemetryInterval
	interval := cfg.TickInterval()
	if interval == r.tickInterval {
		return false
	}
	r.log.Info("tick rate changed", "from", r.tickInterval, "to", interval)
	r.tickInterval = interval
	r.maxBehind = interval * 2
	return true
}

func (r *Runner) resetTimer(t *time.Timer, d time.Duration) {
	t.Stop()
	t.Reset(d)
}

// publish hands the newest snapshot over, recycling a frame the consumer never took
func (r *Runner) publish(sim *Simulation) {
	sn := sim.Snapshot(r.acquire())
	r.statFrames.Add(1)
	select {
	case r.frames <- sn:
		return
	default:
	}
	select {
	case stale := <-r.frames:
		r.Release(stale)
	default:
	}
	select {
	case r.frames <- sn:
	default:
		r.Release(sn)
	}
}

func (r *Runner) emitTelemetry(t Telemetry) {
	select {
	case r.telemetry <- t:
		return
	default:
	}
	select {
	case <-r.telemetry:
	default:
	}
	select {
	case r.telemetry <- t:
	default:
	}
}
