package engine

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/arena/config"
	"github.com/lixenwraith/arena/roster"
)

var (
	// ErrStopped is returned once a simulation is destroyed or a runner stopped
	ErrStopped = errors.New("simulation stopped")
	// ErrQueueFull is returned when commands arrive faster than ticks drain them
	ErrQueueFull = errors.New("command queue full")
)

// Command is a typed control message applied atomically at the start of the next tick
type Command interface {
	validate() error
	apply(s *Simulation)
}

// ConfigCommand replaces the tunables wholesale
// A change of population, arena, radius, health or seed starts a new fight
type ConfigCommand struct {
	Config config.Config
}

func (c ConfigCommand) validate() error {
	if err := c.Config.Validate(); err != nil {
		return fmt.Errorf("config command: %w", err)
	}
	return nil
}

func (c ConfigCommand) apply(s *Simulation) {
	next := c.Config.Sanitized()
	restart := structural(&s.cfg, &next)
	s.cfg = next
	s.roster = roster.Fill(next.Participants, next.Population)
	if restart {
		s.log.Info("config applied, restarting fight", "population", next.Population, "seed", next.Seed)
		s.Reset()
		return
	}
	s.exec = newExecutor(&s.cfg)
	s.log.Info("config applied",
		"collisions", next.Collisions, "endless", next.Endless, "backend", string(next.Backend))
}

// structural reports whether moving from a to b invalidates the current agent store
func structural(a, b *config.Config) bool {
	if a.Population != b.Population || a.ArenaWidth != b.ArenaWidth || a.ArenaHeight != b.ArenaHeight {
		return true
	}
	if a.Radius != b.Radius || a.RadiusVariance != b.RadiusVariance || a.MaxHealth != b.MaxHealth {
		return true
	}
	return a.Seed != b.Seed
}

// ResetCommand discards the fight and starts a fresh one; Seed 0 keeps the configured seed
type ResetCommand struct {
	Seed uint64
}

func (ResetCommand) validate() error { return nil }

func (c ResetCommand) apply(s *Simulation) {
	if c.Seed != 0 {
		s.cfg.Seed = c.Seed
	}
	s.Reset()
}

// PauseCommand freezes the simulation; ticks still drain commands
type PauseCommand struct{}

func (PauseCommand) validate() error { return nil }
func (PauseCommand) apply(s *Simulation) {
	s.paused = true
}

type ResumeCommand struct{}

func (ResumeCommand) validate() error { return nil }
func (ResumeCommand) apply(s *Simulation) {
	s.paused = false
}

// ToggleCommand flips a boolean tunable without touching the rest of the config
type ToggleCommand struct {
	Toggle Toggle
}

type Toggle uint8

const (
	ToggleEndless Toggle = iota + 1
	ToggleCollisions
	ToggleDyingCollide
)

func (t Toggle) String() string {
	switch t {
	case ToggleEndless:
		return "endless"
	case ToggleCollisions:
		return "collisions"
	case ToggleDyingCollide:
		return "dying_collide"
	}
	return "unknown"
}

func (c ToggleCommand) validate() error {
	switch c.Toggle {
	case ToggleEndless, ToggleCollisions, ToggleDyingCollide:
		return nil
	}
	return fmt.Errorf("toggle command: %w: unknown toggle %d", config.ErrInvalid, c.Toggle)
}

func (c ToggleCommand) apply(s *Simulation) {
	var v bool
	switch c.Toggle {
	case ToggleEndless:
		s.cfg.Endless = !s.cfg.Endless
		v = s.cfg.Endless
	case ToggleCollisions:
		s.cfg.Collisions = !s.cfg.Collisions
		v = s.cfg.Collisions
	case ToggleDyingCollide:
		s.cfg.DyingCollide = !s.cfg.DyingCollide
		v = s.cfg.DyingCollide
	}
	s.log.Info("toggle applied", "toggle", c.Toggle.String(), "value", v)
}

// RosterCommand swaps participant identities without restarting the fight
type RosterCommand struct {
	Participants []roster.Participant
}

func (RosterCommand) validate() error { return nil }

func (c RosterCommand) apply(s *Simulation) {
	s.cfg.Participants = append([]roster.Participant(nil), c.Participants...)
	s.roster = roster.Fill(s.cfg.Participants, s.cfg.Population)
}
