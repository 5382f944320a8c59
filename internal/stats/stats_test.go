package stats

import (
	"testing"

	"github.com/mlehner/tatami/internal/event"
	"github.com/mlehner/tatami/internal/schedule"
)

func testEvent() *event.Event {
	ev := &event.Event{
		Name:                 "Test Event",
		MatchDurationSeconds: 120,
		RotationSeconds:      30,
		WindowStart:          mustClock("09:00"),
		WindowEnd:            mustClock("12:00"),
		MinRestSeconds:       300,
		Strategy:             event.StrategyTimeBoxed,
		Areas: []event.Area{
			{ID: "mat-1", Name: "Mat 1", Groups: []event.Group{
				{ID: "g1", Name: "U18", Athletes: []event.Athlete{
					{ID: "a1", Name: "A"},
					{ID: "a2", Name: "B"},
					{ID: "a3", Name: "C"},
					{ID: "a4", Name: "D"},
				}},
			}},
		},
	}
	ev.Normalize()
	return ev
}

func mustClock(s string) event.Clock {
	c, err := event.ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// entry builds a minimal entry; start/end in seconds since midnight.
func entry(id, a, b string, start, end int) schedule.Entry {
	return schedule.Entry{
		ID: id, MatchID: "m-" + id, AreaID: "mat-1", GroupID: "g1",
		StartSeconds: start, EndSeconds: end,
		AthleteAID: a, AthleteBID: b,
	}
}

func TestRestUsesEndToStart(t *testing.T) {
	ev := testEvent()
	base := ev.WindowStart.Seconds
	entries := []schedule.Entry{
		entry("e1", "a1", "a2", base, base+120),
		entry("e2", "a1", "a3", base+300, base+420),
	}

	st, _ := Compute(ev, entries)

	var a1 *AthleteRest
	for i := range st.Athletes {
		if st.Athletes[i].AthleteID == "a1" {
			a1 = &st.Athletes[i]
		}
	}
	if a1 == nil {
		t.Fatal("no rest stats for a1")
	}
	if a1.Matches != 2 {
		t.Errorf("matches = %d, want 2", a1.Matches)
	}
	// 300s start-to-start, but rest is end-to-start: 180s.
	if a1.MinRestSeconds != 180 {
		t.Errorf("min rest = %d, want 180", a1.MinRestSeconds)
	}
	if a1.Violations != 1 {
		t.Errorf("violations = %d, want 1 (180s < 300s minimum)", a1.Violations)
	}
}

func TestAreaMargin(t *testing.T) {
	ev := testEvent()
	base := ev.WindowStart.Seconds
	entries := []schedule.Entry{
		entry("e1", "a1", "a2", base, base+120),
		entry("e2", "a3", "a4", base+150, base+270),
	}

	st, _ := Compute(ev, entries)

	if len(st.Areas) != 1 {
		t.Fatalf("areas = %d, want 1", len(st.Areas))
	}
	as := st.Areas[0]
	if as.MatchCount != 2 {
		t.Errorf("match count = %d, want 2", as.MatchCount)
	}
	if as.DurationSeconds != 270 {
		t.Errorf("duration = %d, want 270", as.DurationSeconds)
	}
	// Window is 3h = 10800s.
	if as.MarginSeconds != 10800-270 {
		t.Errorf("margin = %d, want %d", as.MarginSeconds, 10800-270)
	}
}

func TestFairnessCompletenessAndRematches(t *testing.T) {
	ev := testEvent()
	base := ev.WindowStart.Seconds
	// a1-a2 three times, nothing else: 1 of 6 pairs covered, 2 rematches.
	entries := []schedule.Entry{
		entry("e1", "a1", "a2", base, base+120),
		entry("e2", "a1", "a2", base+600, base+720),
		entry("e3", "a2", "a1", base+1200, base+1320),
	}

	st, warnings := Compute(ev, entries)
	f := st.Fairness
	if f == nil {
		t.Fatal("fairness stats missing")
	}

	if f.TheoreticalMax != 6 {
		t.Errorf("theoretical max = %d, want 6", f.TheoreticalMax)
	}
	if f.ScheduledPairs != 1 {
		t.Errorf("scheduled pairs = %d, want 1", f.ScheduledPairs)
	}
	if f.RematchCount != 2 {
		t.Errorf("rematch count = %d, want 2", f.RematchCount)
	}
	if f.Gap != 3 {
		t.Errorf("gap = %d, want 3 (a1/a2 have 3, a3/a4 have 0)", f.Gap)
	}

	var equity, completeness bool
	for _, w := range warnings {
		if w.Kind != schedule.KindInfo {
			continue
		}
		if len(w.EntityIDs) == 1 && w.EntityIDs[0] == "g1" {
			equity = true
		} else {
			completeness = true
		}
		if w.Suggestion == "" {
			t.Errorf("advisory warning without suggestion: %s", w.Message)
		}
	}
	if !equity {
		t.Error("expected an equity warning for gap > 2")
	}
	if !completeness {
		t.Error("expected a low-completeness warning below 50%")
	}
}

func TestFairnessOnlyForTimeBoxed(t *testing.T) {
	ev := testEvent()
	ev.Strategy = event.StrategyRoundRobin

	st, warnings := Compute(ev, nil)
	if st.Fairness != nil {
		t.Error("legacy runs must not carry fairness stats")
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestStatsTotals(t *testing.T) {
	ev := testEvent()
	base := ev.WindowStart.Seconds
	entries := []schedule.Entry{
		entry("e1", "a1", "a2", base, base+120),
		entry("e2", "a3", "a4", base+150, base+270),
	}

	st, _ := Compute(ev, entries)
	if st.TotalMatches != 2 {
		t.Errorf("total matches = %d, want 2", st.TotalMatches)
	}
	if st.TotalDurationSeconds != 240 {
		t.Errorf("total duration = %d, want 240", st.TotalDurationSeconds)
	}
}
