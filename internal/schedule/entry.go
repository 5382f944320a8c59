package schedule

// Entry is one scheduled match on an area's timeline.
//
// Entries for an area are strictly ordered by Sequence and by non-decreasing
// start time, and EndSeconds - StartSeconds equals the event match duration
// exactly. ID and MatchID are opaque; treat them as identity only.
type Entry struct {
	ID           string `json:"id"`
	AreaID       string `json:"area_id"`
	GroupID      string `json:"group_id"`
	MatchID      string `json:"match_id"`
	Sequence     int    `json:"sequence"`
	StartClock   string `json:"start_clock"`
	StartSeconds int    `json:"start_seconds"`
	EndSeconds   int    `json:"end_seconds"`
	AthleteAID   string `json:"athlete_a_id"`
	AthleteAName string `json:"athlete_a_name"`
	AthleteBID   string `json:"athlete_b_id"`
	AthleteBName string `json:"athlete_b_name"`
	Round        int    `json:"round,omitempty"`
}
