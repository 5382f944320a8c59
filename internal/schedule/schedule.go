// Package schedule implements the core scheduling engine: the time-boxed
// greedy scheduler and the legacy interleaved round-robin, both producing the
// same entry shape for one area at a time.
package schedule

import (
	"fmt"

	"github.com/mlehner/tatami/internal/event"
)

// RunArea schedules one area on its own timeline and returns the ordered
// entries plus any warnings raised along the way. The caller is responsible
// for the event-level feasibility gate.
func RunArea(ev *event.Event, area event.Area, ids IDSource) ([]Entry, []Warning, error) {
	groups, warnings := schedulableGroups(area)
	if len(groups) == 0 {
		warnings = append(warnings, Warning{
			Kind:      KindInfo,
			Severity:  SeverityWarning,
			Message:   fmt.Sprintf("area %q has no schedulable groups and contributes no matches", area.Name),
			EntityIDs: []string{area.ID},
		})
		return nil, warnings, nil
	}

	var entries []Entry
	var more []Warning
	switch ev.Strategy {
	case event.StrategyRoundRobin:
		var err error
		entries, more, err = runRoundRobin(ev, area, groups, ids)
		if err != nil {
			return nil, warnings, err
		}
	default:
		entries, more = runTimeBoxed(ev, area, groups, ids)
	}
	return entries, append(warnings, more...), nil
}

// schedulableGroups filters out groups too small to pair, raising an info
// warning for each one skipped.
func schedulableGroups(area event.Area) ([]event.Group, []Warning) {
	var groups []event.Group
	var warnings []Warning
	for _, g := range area.Groups {
		if len(g.Athletes) < 2 {
			warnings = append(warnings, Warning{
				Kind:     KindInfo,
				Severity: SeverityInfo,
				Message: fmt.Sprintf("group %q has %d athlete(s); at least 2 are required, skipping",
					g.Name, len(g.Athletes)),
				EntityIDs: []string{g.ID},
			})
			continue
		}
		groups = append(groups, g)
	}
	return groups, warnings
}
