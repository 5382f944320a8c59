package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/mlehner/tatami/internal/engine"
	"github.com/mlehner/tatami/internal/event"
)

// CSV writes the flattened entry list as comma-separated rows.
func CSV(w io.Writer, sched *engine.Schedule) error {
	cw := csv.NewWriter(w)
	header := []string{
		"entry_id", "area_id", "group_id", "match_id", "sequence",
		"start", "end", "athlete_a", "athlete_b", "round",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, e := range sched.Entries {
		round := ""
		if e.Round > 0 {
			round = strconv.Itoa(e.Round)
		}
		row := []string{
			e.ID, e.AreaID, e.GroupID, e.MatchID, strconv.Itoa(e.Sequence),
			e.StartClock, event.FormatClock(e.EndSeconds),
			e.AthleteAName, e.AthleteBName, round,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
