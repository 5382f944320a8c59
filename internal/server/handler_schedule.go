package server

import (
	"encoding/json"
	"net/http"

	"github.com/mlehner/tatami/internal/engine"
	"github.com/mlehner/tatami/internal/event"
)

// handleCreateSchedule accepts an event document and returns its schedule.
// Fatal infeasibility is distinguished from advisory warnings by status:
// 422 carries the empty schedule with its fatal warning attached.
func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	reqID := requestIDFrom(r.Context())

	var ev event.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		respondError(w, reqID, http.StatusBadRequest, "invalid_body", err.Error(), nil)
		return
	}
	ev.Normalize()
	if err := ev.Validate(); err != nil {
		respondError(w, reqID, http.StatusBadRequest, "invalid_event", err.Error(), nil)
		return
	}

	sched, err := engine.Generate(&ev, engine.WithLogger(s.logger))
	if err != nil {
		respondError(w, reqID, http.StatusUnprocessableEntity, "infeasible", err.Error(), sched)
		return
	}

	s.logger.Info("schedule generated",
		"event", ev.Name,
		"matches", len(sched.Entries),
		"warnings", len(sched.Warnings),
	)
	respondOK(w, reqID, sched)
}
