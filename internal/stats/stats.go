// Package stats measures a produced schedule: per-athlete rest, per-area
// time usage, and the realized fairness of the time-boxed strategy.
package stats

import (
	"fmt"
	"sort"

	"github.com/mlehner/tatami/internal/event"
	"github.com/mlehner/tatami/internal/schedule"
)

// AthleteRest holds rest metrics for one athlete. Rest is always measured
// end-to-start: the gap between the end of one match and the start of the
// next, never start-to-start.
type AthleteRest struct {
	AthleteID        string  `json:"athlete_id"`
	AthleteName      string  `json:"athlete_name"`
	Matches          int     `json:"matches"`
	MinRestSeconds   int     `json:"min_rest_seconds"`
	MaxRestSeconds   int     `json:"max_rest_seconds"`
	TotalRestSeconds int     `json:"total_rest_seconds"`
	AvgRestSeconds   float64 `json:"avg_rest_seconds"`
	Violations       int     `json:"violations"`
}

// AreaStats summarizes one area's timeline usage. Margin is the available
// window minus the realized duration; negative means overflow, which only
// the legacy round-robin path can produce.
type AreaStats struct {
	AreaID          string `json:"area_id"`
	AreaName        string `json:"area_name"`
	MatchCount      int    `json:"match_count"`
	DurationSeconds int    `json:"duration_seconds"`
	MarginSeconds   int    `json:"margin_seconds"`
}

// GroupFairness holds realized-equity metrics for one group.
type GroupFairness struct {
	GroupID         string  `json:"group_id"`
	GroupName       string  `json:"group_name"`
	MinMatches      int     `json:"min_matches"`
	MaxMatches      int     `json:"max_matches"`
	AvgMatches      float64 `json:"avg_matches"`
	Gap             int     `json:"gap"`
	TheoreticalMax  int     `json:"theoretical_max"`
	ScheduledPairs  int     `json:"scheduled_pairs"`
	CompletenessPct float64 `json:"completeness_pct"`
	RematchCount    int     `json:"rematch_count"`
}

// Fairness aggregates equity metrics across all groups. Produced only for
// time-boxed runs. TimeUtilization is total realized duration over the total
// window time of areas that scheduled at least one match.
type Fairness struct {
	MinMatches      int             `json:"min_matches"`
	MaxMatches      int             `json:"max_matches"`
	AvgMatches      float64         `json:"avg_matches"`
	Gap             int             `json:"gap"`
	TheoreticalMax  int             `json:"theoretical_max"`
	ScheduledPairs  int             `json:"scheduled_pairs"`
	CompletenessPct float64         `json:"completeness_pct"`
	RematchCount    int             `json:"rematch_count"`
	TimeUtilization float64         `json:"time_utilization"`
	Groups          []GroupFairness `json:"groups"`
}

// Stats is the statistics block attached to every schedule.
type Stats struct {
	TotalMatches         int           `json:"total_matches"`
	TotalDurationSeconds int           `json:"total_duration_seconds"`
	Areas                []AreaStats   `json:"areas"`
	Athletes             []AthleteRest `json:"athletes"`
	Fairness             *Fairness     `json:"fairness,omitempty"`
}

// Compute builds the statistics for a finished run and derives the advisory
// equity and completeness warnings.
func Compute(ev *event.Event, entries []schedule.Entry) (*Stats, []schedule.Warning) {
	st := &Stats{
		TotalMatches:         len(entries),
		TotalDurationSeconds: len(entries) * ev.MatchDurationSeconds,
	}

	st.Areas = areaStats(ev, entries)
	st.Athletes = athleteRests(ev, entries)

	var warnings []schedule.Warning
	if ev.Strategy == event.StrategyTimeBoxed {
		st.Fairness, warnings = fairness(ev, entries, st.Areas)
	}
	return st, warnings
}

func areaStats(ev *event.Event, entries []schedule.Entry) []AreaStats {
	window := ev.WindowEnd.Seconds - ev.WindowStart.Seconds

	var out []AreaStats
	for _, area := range ev.Areas {
		as := AreaStats{AreaID: area.ID, AreaName: area.Name, MarginSeconds: window}
		first, last := -1, -1
		for _, e := range entries {
			if e.AreaID != area.ID {
				continue
			}
			as.MatchCount++
			if first < 0 || e.StartSeconds < first {
				first = e.StartSeconds
			}
			if e.EndSeconds > last {
				last = e.EndSeconds
			}
		}
		if as.MatchCount > 0 {
			as.DurationSeconds = last - first
			as.MarginSeconds = window - as.DurationSeconds
		}
		out = append(out, as)
	}
	return out
}

func athleteRests(ev *event.Event, entries []schedule.Entry) []AthleteRest {
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

	var out []AthleteRest
	for _, area := range ev.Areas {
		for _, group := range area.Groups {
			for _, athlete := range group.Athletes {
				matches := byAthlete[athlete.ID]
				ar := AthleteRest{
					AthleteID:   athlete.ID,
					AthleteName: athlete.Name,
					Matches:     len(matches),
				}
				for i := 1; i < len(matches); i++ {
					rest := matches[i].StartSeconds - matches[i-1].EndSeconds
					if i == 1 || rest < ar.MinRestSeconds {
						ar.MinRestSeconds = rest
					}
					if rest > ar.MaxRestSeconds {
						ar.MaxRestSeconds = rest
					}
					ar.TotalRestSeconds += rest
					if rest < ev.MinRestSeconds {
						ar.Violations++
					}
				}
				if len(matches) > 1 {
					ar.AvgRestSeconds = float64(ar.TotalRestSeconds) / float64(len(matches)-1)
				}
				out = append(out, ar)
			}
		}
	}
	return out
}

type pairKey struct {
	a, b string
}

func normalizePair(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

func fairness(ev *event.Event, entries []schedule.Entry, areas []AreaStats) (*Fairness, []schedule.Warning) {
	counts := make(map[string]int)
	pairCounts := make(map[string]map[pairKey]int) // group id -> pair -> matches
	for _, e := range entries {
		counts[e.AthleteAID]++
		counts[e.AthleteBID]++
		if pairCounts[e.GroupID] == nil {
			pairCounts[e.GroupID] = make(map[pairKey]int)
		}
		pairCounts[e.GroupID][normalizePair(e.AthleteAID, e.AthleteBID)]++
	}

	f := &Fairness{}
	var warnings []schedule.Warning
	athleteTotal := 0
	appearances := 0
	firstAthlete := true

	for _, area := range ev.Areas {
		for _, group := range area.Groups {
			n := len(group.Athletes)
			if n < 2 {
				continue
			}

			gf := GroupFairness{
				GroupID:        group.ID,
				GroupName:      group.Name,
				TheoreticalMax: n * (n - 1) / 2,
			}
			firstInGroup := true
			for _, athlete := range group.Athletes {
				c := counts[athlete.ID]
				if firstInGroup || c < gf.MinMatches {
					gf.MinMatches = c
				}
				if firstInGroup || c > gf.MaxMatches {
					gf.MaxMatches = c
				}
				firstInGroup = false
				gf.AvgMatches += float64(c)

				if firstAthlete || c < f.MinMatches {
					f.MinMatches = c
				}
				if firstAthlete || c > f.MaxMatches {
					f.MaxMatches = c
				}
				firstAthlete = false
				athleteTotal++
				appearances += c
			}
			gf.AvgMatches /= float64(n)
			gf.Gap = gf.MaxMatches - gf.MinMatches

			for _, c := range pairCounts[group.ID] {
				gf.ScheduledPairs++
				gf.RematchCount += c - 1
			}
			if gf.TheoreticalMax > 0 {
				gf.CompletenessPct = 100 * float64(gf.ScheduledPairs) / float64(gf.TheoreticalMax)
			}

			f.TheoreticalMax += gf.TheoreticalMax
			f.ScheduledPairs += gf.ScheduledPairs
			f.RematchCount += gf.RematchCount
			f.Groups = append(f.Groups, gf)

			if gf.Gap > 2 {
				warnings = append(warnings, schedule.Warning{
					Kind:     schedule.KindInfo,
					Severity: schedule.SeverityWarning,
					Message: fmt.Sprintf("group %q match counts are uneven: min %d, max %d",
						group.Name, gf.MinMatches, gf.MaxMatches),
					EntityIDs:  []string{group.ID},
					Suggestion: "extend the event window or reduce the group size",
				})
			}
		}
	}

	f.Gap = f.MaxMatches - f.MinMatches
	if athleteTotal > 0 {
		f.AvgMatches = float64(appearances) / float64(athleteTotal)
	}
	if f.TheoreticalMax > 0 {
		f.CompletenessPct = 100 * float64(f.ScheduledPairs) / float64(f.TheoreticalMax)
		if f.CompletenessPct < 50 {
			warnings = append(warnings, schedule.Warning{
				Kind:     schedule.KindInfo,
				Severity: schedule.SeverityWarning,
				Message: fmt.Sprintf("only %.0f%% of unique pairings fit in the window",
					f.CompletenessPct),
				Suggestion: "extend the event window, shorten matches, or split large groups",
			})
		}
	}

	window := ev.WindowEnd.Seconds - ev.WindowStart.Seconds
	realized, activeAreas := 0, 0
	for _, as := range areas {
		if as.MatchCount == 0 {
			continue
		}
		realized += as.DurationSeconds
		activeAreas++
	}
	if window > 0 && activeAreas > 0 {
		f.TimeUtilization = float64(realized) / float64(window*activeAreas)
	}

	return f, warnings
}
