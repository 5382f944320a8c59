package export

import (
	"encoding/json"
	"io"

	"github.com/mlehner/tatami/internal/engine"
)

// JSON writes the full schedule (entries, stats, warnings) as indented JSON.
func JSON(w io.Writer, sched *engine.Schedule) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sched)
}
