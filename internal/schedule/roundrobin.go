package schedule

import (
	"fmt"

	"github.com/mlehner/tatami/internal/event"
	"github.com/mlehner/tatami/internal/pairing"
)

// pairingGenerator names the round generator resolved through the pairing
// registry. Circle is the only method implemented today.
const pairingGenerator = "circle"

// runRoundRobin is the legacy complete-round-robin path. Each group's full
// round list is generated with the circle method, then whole rounds are
// interleaved across groups in lock-step so every athlete in a group fights
// at most once before the next group's round. The clock advances past the
// window end if the round-robin does not fit; the overrun is reported as a
// non-fatal TIME_OVERFLOW warning and shows up as a negative area margin.
func runRoundRobin(ev *event.Event, area event.Area, groups []event.Group, ids IDSource) ([]Entry, []Warning, error) {
	gen, err := pairing.Get(pairingGenerator)
	if err != nil {
		return nil, nil, err
	}

	rounds := make([][]pairing.Round, len(groups))
	maxRounds := 0
	for gi, g := range groups {
		rounds[gi] = gen.Rounds(g.Athletes, ev.Cycles)
		if len(rounds[gi]) > maxRounds {
			maxRounds = len(rounds[gi])
		}
	}

	var entries []Entry
	clock := ev.WindowStart.Seconds
	seq := 0

	for k := 0; k < maxRounds; k++ {
		for gi, g := range groups {
			if k >= len(rounds[gi]) {
				continue
			}
			for _, m := range rounds[gi][k].Matches {
				start := clock
				end := start + ev.MatchDurationSeconds
				seq++
				entries = append(entries, Entry{
					ID:           ids.Next("entry"),
					AreaID:       area.ID,
					GroupID:      g.ID,
					MatchID:      ids.Next("match"),
					Sequence:     seq,
					StartClock:   event.FormatClock(start),
					StartSeconds: start,
					EndSeconds:   end,
					AthleteAID:   m.AthleteA.ID,
					AthleteAName: m.AthleteA.Name,
					AthleteBID:   m.AthleteB.ID,
					AthleteBName: m.AthleteB.Name,
					Round:        rounds[gi][k].Number,
				})
				clock += ev.MatchDurationSeconds + ev.RotationSeconds
			}
		}
	}

	var warnings []Warning
	if len(entries) > 0 {
		last := entries[len(entries)-1]
		if last.EndSeconds > ev.WindowEnd.Seconds {
			overrun := last.EndSeconds - ev.WindowEnd.Seconds
			warnings = append(warnings, Warning{
				Kind:     KindTimeOverflow,
				Severity: SeverityWarning,
				Message: fmt.Sprintf("area %q round-robin ends at %s, %s past the window end",
					area.Name, event.FormatClock(last.EndSeconds), event.FormatClock(overrun)),
				EntityIDs:  []string{area.ID},
				Suggestion: "extend the event window, reduce group sizes, or use the timeboxed strategy",
			})
		}
	}
	return entries, warnings, nil
}
