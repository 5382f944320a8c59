package schedule

import (
	"testing"

	"github.com/mlehner/tatami/internal/event"
)

func TestRoundRobinFourAthletes(t *testing.T) {
	area := event.Area{ID: "mat-1", Groups: []event.Group{
		group("g1", "A", "B", "C", "D"),
	}}
	ev := testEvent(event.StrategyRoundRobin, area)

	entries, warnings, err := RunArea(ev, ev.Areas[0], NewSequentialIDs())
	if err != nil {
		t.Fatalf("RunArea() error: %v", err)
	}

	if len(entries) != 6 {
		t.Fatalf("entries = %d, want 6", len(entries))
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	t.Run("round structure", func(t *testing.T) {
		want := []struct {
			a, b  string
			round int
		}{
			{"A", "B", 1}, {"C", "D", 1},
			{"A", "C", 2}, {"D", "B", 2},
			{"A", "D", 3}, {"B", "C", 3},
		}
		for i, w := range want {
			e := entries[i]
			if e.AthleteAName != w.a || e.AthleteBName != w.b || e.Round != w.round {
				t.Errorf("entry %d = %s-%s round %d, want %s-%s round %d",
					i, e.AthleteAName, e.AthleteBName, e.Round, w.a, w.b, w.round)
			}
		}
	})

	t.Run("clock advances per match", func(t *testing.T) {
		step := ev.MatchDurationSeconds + ev.RotationSeconds
		for i, e := range entries {
			want := ev.WindowStart.Seconds + i*step
			if e.StartSeconds != want {
				t.Errorf("entry %d starts at %d, want %d", i, e.StartSeconds, want)
			}
		}
	})
}

func TestRoundRobinInterleavesGroups(t *testing.T) {
	area := event.Area{ID: "mat-1", Groups: []event.Group{
		group("g1", "A", "B", "C", "D"),
		group("g2", "E", "F", "G", "H"),
	}}
	ev := testEvent(event.StrategyRoundRobin, area)

	entries, _, err := RunArea(ev, ev.Areas[0], NewSequentialIDs())
	if err != nil {
		t.Fatalf("RunArea() error: %v", err)
	}
	if len(entries) != 12 {
		t.Fatalf("entries = %d, want 12", len(entries))
	}

	// Lock-step: round k of every group before round k+1 of any group.
	wantGroups := []string{
		"g1", "g1", "g2", "g2",
		"g1", "g1", "g2", "g2",
		"g1", "g1", "g2", "g2",
	}
	for i, e := range entries {
		if e.GroupID != wantGroups[i] {
			t.Errorf("entry %d from group %s, want %s", i, e.GroupID, wantGroups[i])
		}
	}
}

func TestRoundRobinOverflowWarning(t *testing.T) {
	area := event.Area{ID: "mat-1", Name: "Mat 1", Groups: []event.Group{
		group("g1", "A", "B", "C", "D", "E", "F"),
	}}
	ev := testEvent(event.StrategyRoundRobin, area)
	// 15 matches at 150s each need 2220s; give the window 10 minutes.
	ev.WindowEnd = mustClock("09:10")

	entries, warnings, err := RunArea(ev, ev.Areas[0], NewSequentialIDs())
	if err != nil {
		t.Fatalf("RunArea() error: %v", err)
	}

	if len(entries) != 15 {
		t.Fatalf("entries = %d, want 15 (legacy path schedules everything)", len(entries))
	}

	var overflow *Warning
	for i := range warnings {
		if warnings[i].Kind == KindTimeOverflow {
			overflow = &warnings[i]
		}
	}
	if overflow == nil {
		t.Fatal("expected a TIME_OVERFLOW warning")
	}
	if overflow.Severity != SeverityWarning {
		t.Errorf("overflow severity = %s, want %s (non-fatal)", overflow.Severity, SeverityWarning)
	}
	if overflow.Fatal() {
		t.Error("legacy overflow must not be fatal")
	}
}
