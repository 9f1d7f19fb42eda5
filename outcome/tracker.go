// Package outcome watches the living count and raises the one-shot fight result
package outcome

import (
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/arena/roster"
)

// Kind of fight result
type Kind uint8

const (
	// Winner is raised when the living count drops from above one to exactly one
	Winner Kind = iota + 1
	// Draw is raised when the last living agents are eliminated in the same tick
	Draw
)

func (k Kind) String() string {
	switch k {
	case Winner:
		return "winner"
	case Draw:
		return "draw"
	}
	return "none"
}

// Event is the result payload handed to collaborators
type Event struct {
	Kind    Kind
	FightID uuid.UUID

	Index       int // Winning agent, -1 for Draw
	Participant roster.Participant
	Health      float64
	X, Y        float64

	Tick    uint64
	Elapsed time.Duration
}

// Tracker raises at most one event per transition and re-arms when the count climbs above one
type Tracker struct {
	armed bool
}

func New(initial int) *Tracker {
	t := &Tracker{}
	t.Reset(initial)
	return t
}

// Reset re-arms for a new fight of the given population
func (t *Tracker) Reset(initial int) {
	t.armed = initial > 1
}

// Update takes the current living count and reports which result, if any, fires now
// Endless fights never produce a result
func (t *Tracker) Update(alive int, endless bool) (Kind, bool) {
	if alive > 1 {
		t.armed = true
		return 0, false
	}
	if endless || !t.armed {
		return 0, false
	}
	t.armed = false
	if alive == 1 {
		return Winner, true
	}
	return Draw, true
}
