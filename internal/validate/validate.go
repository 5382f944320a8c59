// Package validate checks a produced schedule against the event's rest
// requirement. It runs post-hoc over entries from either scheduling strategy.
package validate

import (
	"fmt"
	"sort"

	"github.com/mlehner/tatami/internal/event"
	"github.com/mlehner/tatami/internal/schedule"
)

// Rest reports every consecutive pair of matches for the same athlete whose
// gap (next start minus previous end) falls short of the event's minimum
// rest. Violations are non-fatal.
func Rest(ev *event.Event, entries []schedule.Entry) []schedule.Warning {
	if ev.MinRestSeconds <= 0 {
		return nil
	}

	byAthlete := entriesByAthlete(entries)

	// Deterministic warning order: follow the roster, not map iteration.
	var warnings []schedule.Warning
	for _, area := range ev.Areas {
		for _, group := range area.Groups {
			for _, athlete := range group.Athletes {
				matches := byAthlete[athlete.ID]
				for i := 1; i < len(matches); i++ {
					rest := matches[i].StartSeconds - matches[i-1].EndSeconds
					if rest >= ev.MinRestSeconds {
						continue
					}
					warnings = append(warnings, schedule.Warning{
						Kind:     schedule.KindRestViolation,
						Severity: schedule.SeverityWarning,
						Message: fmt.Sprintf("%s rests only %ds between matches %s and %s (minimum %ds)",
							athlete.Name, rest, matches[i-1].MatchID, matches[i].MatchID, ev.MinRestSeconds),
						EntityIDs:  []string{athlete.ID, matches[i-1].MatchID, matches[i].MatchID},
						Suggestion: "increase the rotation gap or extend the event window",
					})
				}
			}
		}
	}
	return warnings
}

// entriesByAthlete indexes entries per athlete, sorted by start time.
func entriesByAthlete(entries []schedule.Entry) map[string][]schedule.Entry {
	byAthlete := make(map[string][]schedule.Entry)
	for _, e := range entries {
		byAthlete[e.AthleteAID] = append(byAthlete[e.AthleteAID], e)
		byAthlete[e.AthleteBID] = append(byAthlete[e.AthleteBID], e)
	}
	for id := range byAthlete {
		matches := byAthlete[id]
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].StartSeconds < matches[j].StartSeconds
		})
		byAthlete[id] = matches
	}
	return byAthlete
}
