package schedule

import "github.com/mlehner/tatami/internal/event"

// athleteState is the per-athlete scheduling state for one area pass.
// Athletes are addressed by index into their group's roster so enumeration
// order stays the roster order.
type athleteState struct {
	id          string
	name        string
	matchCount  int
	opponents   map[int]struct{} // roster indexes already faced
	availableAt int              // seconds since midnight
}

// groupState is the per-group scheduling state for one area pass.
type groupState struct {
	id           string
	name         string
	athletes     []*athleteState
	totalMatches int
}

func newGroupState(g event.Group, windowStart int) *groupState {
	gs := &groupState{id: g.ID, name: g.Name}
	for _, a := range g.Athletes {
		gs.athletes = append(gs.athletes, &athleteState{
			id:          a.ID,
			name:        a.Name,
			opponents:   make(map[int]struct{}),
			availableAt: windowStart,
		})
	}
	return gs
}

// avgMatches is the group's matches-per-athlete average used for group
// selection and pair scoring.
func (g *groupState) avgMatches() float64 {
	if len(g.athletes) == 0 {
		return 0
	}
	return float64(g.totalMatches) / float64(len(g.athletes))
}

// eligiblePairAt reports whether any pair in the group has both athletes
// available at the given clock.
func (g *groupState) eligiblePairAt(clock int) bool {
	for i := 0; i < len(g.athletes); i++ {
		if g.athletes[i].availableAt > clock {
			continue
		}
		for j := i + 1; j < len(g.athletes); j++ {
			if g.athletes[j].availableAt <= clock {
				return true
			}
		}
	}
	return false
}
