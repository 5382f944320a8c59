package pairing

import (
	"fmt"

	"github.com/mlehner/tatami/internal/event"
)

// Match is a single bout between two athletes. Cycle is the repetition index
// when the round-robin is repeated (1-based).
type Match struct {
	AthleteA event.Athlete
	AthleteB event.Athlete
	Cycle    int
}

// Round is a set of matches in which no athlete appears twice.
type Round struct {
	Number  int
	Matches []Match
}

// Generator produces the complete round-robin round sequence for one roster.
type Generator interface {
	Rounds(athletes []event.Athlete, cycles int) []Round
}

// Get returns a Generator by name.
func Get(name string) (Generator, error) {
	switch name {
	case "circle":
		return &Circle{}, nil
	default:
		return nil, fmt.Errorf("unknown pairing generator: %q", name)
	}
}

// bye marks the synthetic padding entry added for odd rosters. Its matches
// are dropped from the output.
var bye = event.Athlete{}

// Circle implements the circle method: the first position is fixed and the
// remaining positions rotate one step between rounds. One full cycle pairs
// every two athletes exactly once in n-1 rounds (n padded to even).
type Circle struct{}

func (c *Circle) Rounds(athletes []event.Athlete, cycles int) []Round {
	if len(athletes) < 2 || cycles < 1 {
		return nil
	}

	positions := make([]event.Athlete, len(athletes))
	copy(positions, athletes)
	if len(positions)%2 == 1 {
		positions = append(positions, bye)
	}

	n := len(positions)
	roundsPerCycle := n - 1

	var rounds []Round
	for cycle := 1; cycle <= cycles; cycle++ {
		for r := 0; r < roundsPerCycle; r++ {
			// Rotation state carries across cycles.
			rotate(positions)

			round := Round{Number: (cycle-1)*roundsPerCycle + r + 1}
			for i := 0; i < n/2; i++ {
				a, b := positions[i], positions[n-1-i]
				if a.ID == bye.ID || b.ID == bye.ID {
					continue
				}
				round.Matches = append(round.Matches, Match{AthleteA: a, AthleteB: b, Cycle: cycle})
			}
			rounds = append(rounds, round)
		}
	}
	return rounds
}

// rotate moves the second position to the end, leaving the first fixed.
func rotate(positions []event.Athlete) {
	if len(positions) < 3 {
		return
	}
	second := positions[1]
	copy(positions[1:], positions[2:])
	positions[len(positions)-1] = second
}
