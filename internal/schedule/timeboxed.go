package schedule

import (
	"math"

	"github.com/mlehner/tatami/internal/event"
)

// timeBoxed drives the primary scheduling strategy for a single area: a
// virtual clock walks from windowStart toward windowEnd, and at every step
// the least-served group and its fairest eligible pair are scheduled next.
// Rest requirements are hard eligibility gates, so this path never produces
// rest violations.
type timeBoxed struct {
	ev     *event.Event
	areaID string
	ids    IDSource

	groups  []*groupState
	entries []Entry
	clock   int
	seq     int
}

func runTimeBoxed(ev *event.Event, area event.Area, groups []event.Group, ids IDSource) ([]Entry, []Warning) {
	s := &timeBoxed{
		ev:     ev,
		areaID: area.ID,
		ids:    ids,
		clock:  ev.WindowStart.Seconds,
	}
	for _, g := range groups {
		s.groups = append(s.groups, newGroupState(g, ev.WindowStart.Seconds))
	}
	s.run()
	return s.entries, nil
}

func (s *timeBoxed) run() {
	duration := s.ev.MatchDurationSeconds
	windowEnd := s.ev.WindowEnd.Seconds

	for s.clock+duration <= windowEnd {
		gi := s.selectGroup()
		if gi < 0 {
			next, ok := s.nextAvailability()
			if !ok {
				return
			}
			s.clock = next
			continue
		}
		i, j := s.selectPair(s.groups[gi])
		s.commit(s.groups[gi], i, j)
	}
}

// selectGroup picks the eligible group with the lowest matches-per-athlete
// average. Ties resolve to the earlier group in input order.
func (s *timeBoxed) selectGroup() int {
	best := -1
	bestAvg := 0.0
	for gi, g := range s.groups {
		if !g.eligiblePairAt(s.clock) {
			continue
		}
		avg := g.avgMatches()
		if best < 0 || avg < bestAvg {
			best = gi
			bestAvg = avg
		}
	}
	return best
}

// selectPair picks the pair to schedule next within a group. New-opponent
// pairs always beat rematches; within the preferred set the pair with the
// lowest fairness score wins, ties resolving to the earliest pair in roster
// enumeration order (i ascending, then j ascending).
func (s *timeBoxed) selectPair(g *groupState) (int, int) {
	avg := g.avgMatches()
	bestI, bestJ := -1, -1
	bestScore := 0.0
	bestNew := false

	for i := 0; i < len(g.athletes); i++ {
		if g.athletes[i].availableAt > s.clock {
			continue
		}
		for j := i + 1; j < len(g.athletes); j++ {
			if g.athletes[j].availableAt > s.clock {
				continue
			}
			_, faced := g.athletes[i].opponents[j]
			isNew := !faced
			if bestNew && !isNew {
				continue
			}
			score := fairnessScore(g.athletes[i].matchCount, g.athletes[j].matchCount, avg)
			if bestI < 0 || (isNew && !bestNew) || score < bestScore {
				bestI, bestJ = i, j
				bestScore = score
				bestNew = isNew
			}
		}
	}
	return bestI, bestJ
}

// fairnessScore is the heuristic pair cost: total matches played dominates,
// with a smaller penalty for imbalance against the group average. The
// constants are part of the output contract; do not reweight.
func fairnessScore(countA, countB int, avg float64) float64 {
	return 10*float64(countA+countB) +
		math.Abs(float64(countA)-avg) +
		math.Abs(float64(countB)-avg)
}

// commit emits the entry at the current clock and advances all state.
func (s *timeBoxed) commit(g *groupState, i, j int) {
	a, b := g.athletes[i], g.athletes[j]
	start := s.clock
	end := start + s.ev.MatchDurationSeconds
	s.seq++

	s.entries = append(s.entries, Entry{
		ID:           s.ids.Next("entry"),
		AreaID:       s.areaID,
		GroupID:      g.id,
		MatchID:      s.ids.Next("match"),
		Sequence:     s.seq,
		StartClock:   event.FormatClock(start),
		StartSeconds: start,
		EndSeconds:   end,
		AthleteAID:   a.id,
		AthleteAName: a.name,
		AthleteBID:   b.id,
		AthleteBName: b.name,
	})

	a.matchCount++
	b.matchCount++
	a.opponents[j] = struct{}{}
	b.opponents[i] = struct{}{}
	a.availableAt = end + s.ev.MinRestSeconds
	b.availableAt = end + s.ev.MinRestSeconds
	g.totalMatches++

	s.clock += s.ev.MatchDurationSeconds + s.ev.RotationSeconds
}

// nextAvailability finds the earliest moment after the current clock at which
// any athlete becomes available again. Returns false when no such moment
// exists before the window closes.
func (s *timeBoxed) nextAvailability() (int, bool) {
	next := -1
	for _, g := range s.groups {
		for _, a := range g.athletes {
			if a.availableAt <= s.clock {
				continue
			}
			if next < 0 || a.availableAt < next {
				next = a.availableAt
			}
		}
	}
	if next < 0 || next >= s.ev.WindowEnd.Seconds {
		return 0, false
	}
	return next, true
}
