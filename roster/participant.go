// Package roster holds participant identities supplied by the host
// Identity is immutable for a fight and never read by the physics core
package roster

import (
	"fmt"
	"strings"
)

// Participant is one named combatant, Avatar is an opaque reference owned by presentation
type Participant struct {
	Name   string `yaml:"name"`
	Avatar string `yaml:"avatar,omitempty"`
}

// Label returns the display name, falling back to the slot number
func (p Participant) Label(index int) string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return placeholder(index)
}

// Fill returns exactly n participants in order
// Missing slots get placeholder names, extra entries are dropped
func Fill(list []Participant, n int) []Participant {
	if n < 0 {
		n = 0
	}
	out := make([]Participant, n)
	copy(out, list)
	for i := range out {
		out[i].Name = out[i].Label(i)
	}
	return out
}

func placeholder(index int) string {
	return fmt.Sprintf("P%03d", index+1)
}
