package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/lixenwraith/arena/audio"
	"github.com/lixenwraith/arena/config"
	"github.com/lixenwraith/arena/engine"
	"github.com/lixenwraith/arena/outcome"
	"github.com/lixenwraith/arena/parameter"
	"github.com/lixenwraith/arena/render"
	"github.com/lixenwraith/arena/roster"
)

// cueSink receives the audio cues raised by the frame loop
type cueSink interface {
	Hit()
	Elimination()
	Winner()
}

type silentCues struct{}

func (silentCues) Hit()         {}
func (silentCues) Elimination() {}
func (silentCues) Winner()      {}

// keyAction is what the input loop does with a key besides sending a command
type keyAction uint8

const (
	keyNone keyAction = iota
	keyQuit
	keyPauseToggle
)

// keyCommand maps a key press to a simulation command or a loop action
func keyCommand(ev *tcell.EventKey) (engine.Command, keyAction) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return nil, keyQuit
	case tcell.KeyRune:
	default:
		return nil, keyNone
	}
	switch ev.Rune() {
	case 'q', 'Q':
		return nil, keyQuit
	case ' ':
		return nil, keyPauseToggle
	case 'r', 'R':
		return engine.ResetCommand{}, keyNone
	case 'e', 'E':
		return engine.ToggleCommand{Toggle: engine.ToggleEndless}, keyNone
	case 'c', 'C':
		return engine.ToggleCommand{Toggle: engine.ToggleCollisions}, keyNone
	case 'd', 'D':
		return engine.ToggleCommand{Toggle: engine.ToggleDyingCollide}, keyNone
	}
	return nil, keyNone
}

// session ties the runner outputs to the screen and the cue player
type session struct {
	screen  tcell.Screen
	arena   *render.Arena
	runner  *engine.Runner
	cues    cueSink
	labels  []roster.Participant
	fightID uuid.UUID
	log     *slog.Logger

	// paused is the state the last pause key asked for; frames only overwrite it
	// once no pause or resume is in flight
	paused       bool
	pausePending bool
}

func newSession(screen tcell.Screen, runner *engine.Runner, cfg config.Config, cues cueSink, logger *slog.Logger) *session {
	if cues == nil {
		cues = silentCues{}
	}
	return &session{
		screen: screen,
		arena:  render.NewArena(screen),
		runner: runner,
		cues:   cues,
		labels: roster.Fill(cfg.Participants, cfg.Population),
		log:    logger,
	}
}

// frame draws a snapshot, raises hit and elimination cues, and returns it to the pool
func (s *session) frame(sn *engine.Snapshot) {
	if sn.FightID != s.fightID {
		s.fightID = sn.FightID
		s.arena.SetBanner("")
	}
	switch {
	case !s.pausePending:
		s.paused = sn.Paused
	case sn.Paused == s.paused:
		s.pausePending = false
	}
	if sn.Eliminations > 0 {
		s.cues.Elimination()
	} else if sn.Contacts > 0 {
		s.cues.Hit()
	}
	s.arena.Draw(sn, s.labels)
	s.runner.Release(sn)
}

// result shows the banner for a decided fight
func (s *session) result(ev outcome.Event) {
	// A result from a fight already reset away is stale
	if s.fightID != uuid.Nil && ev.FightID != s.fightID {
		return
	}
	switch ev.Kind {
	case outcome.Winner:
		s.arena.SetBanner(fmt.Sprintf(" %s wins ", ev.Participant.Label(ev.Index)))
		s.cues.Winner()
	case outcome.Draw:
		s.arena.SetBanner(" draw ")
	}
}

// key handles one key press and reports whether the loop should exit
func (s *session) key(ev *tcell.EventKey) bool {
	cmd, action := keyCommand(ev)
	switch action {
	case keyQuit:
		return true
	case keyPauseToggle:
		if s.paused {
			cmd = engine.ResumeCommand{}
		} else {
			cmd = engine.PauseCommand{}
		}
	}
	if cmd == nil {
		return false
	}
	if err := s.runner.Send(cmd); err != nil {
		s.log.Warn("command rejected", "error", err)
		return false
	}
	if action == keyPauseToggle {
		s.paused = !s.paused
		s.pausePending = true
	}
	return false
}

func runInteractive(ctx context.Context, cfg config.Config, sound bool, logger *slog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	engine.SetCrashHandler(func(r any) {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "\r\n\x1b[31mARENA CRASHED: %v\x1b[0m\r\n", r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
		os.Exit(1)
	})
	defer engine.SetCrashHandler(nil)

	var cues cueSink = silentCues{}
	if sound {
		player := audio.NewCuePlayer(parameter.DefaultCueVolume)
		if err := player.Init(); err != nil {
			logger.Warn("audio unavailable, continuing silent", "error", err)
		} else {
			defer player.Close()
			cues = player
		}
	}

	sim := engine.New(cfg, nil, logger, nil)
	runner := engine.NewRunner(sim, nil, logger)
	if err := runner.Start(); err != nil {
		return fmt.Errorf("start runner: %w", err)
	}
	defer runner.Stop()

	s := newSession(screen, runner, sim.Config(), cues, logger)
	s.fightID = sim.FightID()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if s.key(ev) {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case sn := <-runner.Frames():
			s.frame(sn)
		case ev := <-runner.Outcomes():
			s.result(ev)
		case t := <-runner.Telemetry():
			logger.Debug("telemetry", "fight", t.FightID, "tick", t.Tick, "alive", t.AliveCount, "scale", t.Scale)
		}
	}
}
