package engine

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/mlehner/tatami/internal/event"
	"github.com/mlehner/tatami/internal/schedule"
)

func testEvent(strategy string) *event.Event {
	ev := &event.Event{
		Name:                 "Spring Open",
		MatchDurationSeconds: 120,
		RotationSeconds:      30,
		WindowStart:          mustClock("09:00"),
		WindowEnd:            mustClock("12:00"),
		Strategy:             strategy,
		Areas: []event.Area{
			{
				ID:   "mat-1",
				Name: "Mat 1",
				Groups: []event.Group{
					{
						ID:   "g1",
						Name: "U18",
						Athletes: []event.Athlete{
							{ID: "a1", Name: "A"},
							{ID: "a2", Name: "B"},
							{ID: "a3", Name: "C"},
							{ID: "a4", Name: "D"},
						},
					},
				},
			},
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

func TestGenerateTimeBoxed(t *testing.T) {
	ev := testEvent(event.StrategyTimeBoxed)
	sched, err := Generate(ev)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if len(sched.Entries) < 6 {
		t.Errorf("entries = %d, want at least 6", len(sched.Entries))
	}
	if sched.Stats == nil || sched.Stats.Fairness == nil {
		t.Fatal("timeboxed run must produce fairness stats")
	}
	if sched.Stats.Fairness.Gap != 0 {
		t.Errorf("match count gap = %d, want 0", sched.Stats.Fairness.Gap)
	}
	for _, w := range sched.Warnings {
		if w.Fatal() {
			t.Errorf("unexpected fatal warning: %s", w.Message)
		}
	}
}

func TestGenerateDoesNotMutateInput(t *testing.T) {
	ev := testEvent(event.StrategyTimeBoxed)
	before, err := ev.Clone()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Generate(ev); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !reflect.DeepEqual(ev, before) {
		t.Error("Generate mutated the caller's event")
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	first, err := Generate(testEvent(event.StrategyTimeBoxed))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := Generate(testEvent(event.StrategyTimeBoxed))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if !reflect.DeepEqual(first.Entries, second.Entries) {
		t.Error("identical inputs produced different entries")
	}
	if !reflect.DeepEqual(first.Stats, second.Stats) {
		t.Error("identical inputs produced different stats")
	}
	if !reflect.DeepEqual(first.Warnings, second.Warnings) {
		t.Error("identical inputs produced different warnings")
	}
}

func TestGenerateInfeasibleWindow(t *testing.T) {
	ev := testEvent(event.StrategyTimeBoxed)
	ev.WindowEnd = mustClock("09:01")

	sched, err := Generate(ev)
	if err == nil {
		t.Fatal("expected an error for a window shorter than one match")
	}
	if len(sched.Entries) != 0 {
		t.Errorf("entries = %d, want 0", len(sched.Entries))
	}
	if len(sched.Warnings) != 1 {
		t.Fatalf("warnings = %d, want exactly 1", len(sched.Warnings))
	}
	w := sched.Warnings[0]
	if w.Kind != schedule.KindTimeOverflow || !w.Fatal() {
		t.Errorf("warning = %s/%s, want fatal TIME_OVERFLOW", w.Kind, w.Severity)
	}
}

func TestGenerateLegacyRestViolations(t *testing.T) {
	ev := testEvent(event.StrategyRoundRobin)
	ev.MinRestSeconds = 300

	sched, err := Generate(ev)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(sched.Entries) != 6 {
		t.Fatalf("entries = %d, want 6", len(sched.Entries))
	}

	// Athlete A fights in rounds 1, 2, and 3 with only 180s end-to-start
	// between appearances; every athlete is short of the 300s minimum.
	var violations []schedule.Warning
	for _, w := range sched.Warnings {
		if w.Kind == schedule.KindRestViolation {
			violations = append(violations, w)
		}
	}
	if len(violations) == 0 {
		t.Fatal("expected REST_VIOLATION warnings")
	}

	first := violations[0]
	if len(first.EntityIDs) != 3 {
		t.Fatalf("violation entity ids = %v, want athlete plus two match ids", first.EntityIDs)
	}
	if first.EntityIDs[0] != "a1" {
		t.Errorf("first violation names %s, want a1", first.EntityIDs[0])
	}
	wantMatches := map[string]bool{
		sched.Entries[0].MatchID: true,
		sched.Entries[2].MatchID: true,
	}
	if !wantMatches[first.EntityIDs[1]] || !wantMatches[first.EntityIDs[2]] {
		t.Errorf("violation cites matches %v, want %v", first.EntityIDs[1:], wantMatches)
	}
}

func TestGenerateMultipleAreasIndependent(t *testing.T) {
	ev := testEvent(event.StrategyTimeBoxed)
	ev.Areas = append(ev.Areas, event.Area{
		ID:   "mat-2",
		Name: "Mat 2",
		Groups: []event.Group{
			{ID: "g2", Name: "Seniors", Athletes: []event.Athlete{
				{ID: "b1", Name: "E"},
				{ID: "b2", Name: "F"},
				{ID: "b3", Name: "G"},
			}},
		},
	})

	sched, err := Generate(ev)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	seq := make(map[string]int)
	for _, e := range sched.Entries {
		seq[e.AreaID]++
		if e.Sequence != seq[e.AreaID] {
			t.Errorf("area %s entry has sequence %d, want %d", e.AreaID, e.Sequence, seq[e.AreaID])
		}
	}
	if seq["mat-1"] == 0 || seq["mat-2"] == 0 {
		t.Errorf("both areas should schedule matches, got %v", seq)
	}
}

func TestGenerateWithRandomIDSource(t *testing.T) {
	sched, err := Generate(testEvent(event.StrategyTimeBoxed), WithIDSource(schedule.RandomIDs{}))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(sched.Entries) == 0 {
		t.Fatal("no entries scheduled")
	}

	seen := make(map[string]bool)
	for _, e := range sched.Entries {
		if !strings.HasPrefix(e.ID, "entry-") {
			t.Errorf("entry id %q lacks prefix", e.ID)
		}
		if len(e.ID) != len("entry-")+8 {
			t.Errorf("entry id %q is not an 8-char random suffix", e.ID)
		}
		if seen[e.ID] {
			t.Errorf("duplicate entry id %q", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestGenerateWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := Generate(testEvent(event.StrategyTimeBoxed), WithLogger(logger)); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !strings.Contains(buf.String(), "scheduled area") {
		t.Errorf("debug log missing per-area line, got: %s", buf.String())
	}
}

func TestGenerateRejectsInvalidEvent(t *testing.T) {
	ev := testEvent(event.StrategyTimeBoxed)
	ev.MatchDurationSeconds = 0
	if _, err := Generate(ev); err == nil {
		t.Error("expected a validation error")
	}
}
