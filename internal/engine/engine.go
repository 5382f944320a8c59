// Package engine runs one complete Event -> Schedule computation: the
// feasibility gate, per-area scheduling, rest validation, and statistics.
package engine

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mlehner/tatami/internal/event"
	"github.com/mlehner/tatami/internal/schedule"
	"github.com/mlehner/tatami/internal/stats"
	"github.com/mlehner/tatami/internal/validate"
)

// Schedule is the engine's sole output: the flattened entries across all
// areas plus statistics and accumulated warnings. It is built once per run
// and never mutated afterward.
type Schedule struct {
	EventID   string             `json:"event_id"`
	EventName string             `json:"event_name"`
	Entries   []schedule.Entry   `json:"entries"`
	Stats     *stats.Stats       `json:"stats"`
	Warnings  []schedule.Warning `json:"warnings"`
}

type options struct {
	ids    schedule.IDSource
	logger *slog.Logger
}

// Option configures a scheduling run.
type Option func(*options)

// WithIDSource overrides the default deterministic sequential id source.
func WithIDSource(ids schedule.IDSource) Option {
	return func(o *options) { o.ids = ids }
}

// WithLogger sets the logger for per-area debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Generate schedules an event. Areas are scheduled independently and
// sequentially; the run is a pure function of the event and the id source.
//
// When the window cannot fit even one match the returned schedule carries a
// single fatal TIME_OVERFLOW warning, no entries, and a non-nil error. Any
// other outcome is a success whose warnings are advisory.
func Generate(ev *event.Event, opts ...Option) (*Schedule, error) {
	o := options{
		ids:    schedule.NewSequentialIDs(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := ev.Validate(); err != nil {
		return nil, err
	}

	// The engine annotates athletes and caches names into entries; work on a
	// clone so the caller's event is untouched.
	ev, err := ev.Clone()
	if err != nil {
		return nil, err
	}

	out := &Schedule{EventID: ev.ID, EventName: ev.Name}

	if ev.WindowStart.Seconds+ev.MatchDurationSeconds > ev.WindowEnd.Seconds {
		out.Warnings = append(out.Warnings, schedule.Warning{
			Kind:     schedule.KindTimeOverflow,
			Severity: schedule.SeverityError,
			Message: fmt.Sprintf("window %s-%s cannot fit a single %ds match",
				ev.WindowStart, ev.WindowEnd, ev.MatchDurationSeconds),
			EntityIDs:  []string{ev.ID},
			Suggestion: "extend the event window or shorten the match duration",
		})
		out.Stats, _ = stats.Compute(ev, nil)
		return out, fmt.Errorf("event window cannot fit a single match")
	}

	for _, area := range ev.Areas {
		entries, warnings, err := schedule.RunArea(ev, area, o.ids)
		if err != nil {
			return nil, fmt.Errorf("scheduling area %q: %w", area.Name, err)
		}
		o.logger.Debug("scheduled area",
			"area", area.Name, "matches", len(entries), "warnings", len(warnings))
		out.Entries = append(out.Entries, entries...)
		out.Warnings = append(out.Warnings, warnings...)
	}

	out.Warnings = append(out.Warnings, validate.Rest(ev, out.Entries)...)

	var derived []schedule.Warning
	out.Stats, derived = stats.Compute(ev, out.Entries)
	out.Warnings = append(out.Warnings, derived...)

	return out, nil
}
