package event

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tiendc/go-deepcopy"
	"gopkg.in/yaml.v3"
)

// Strategy names accepted in an event description.
const (
	StrategyTimeBoxed  = "timeboxed"
	StrategyRoundRobin = "roundrobin"
)

// Clock is a time of day stored as seconds since midnight.
// It parses from and formats to "HH:MM" (24h).
type Clock struct {
	Seconds int
}

// ParseClock parses an "HH:MM" string into a Clock.
func ParseClock(s string) (Clock, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return Clock{}, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("invalid time %q: hour or minute out of range", s)
	}
	return Clock{Seconds: h*3600 + m*60}, nil
}

// FormatClock renders seconds since midnight as "HH:MM", or "HH:MM:SS"
// when the value does not fall on a whole minute.
func FormatClock(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if s == 0 {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func (c Clock) String() string {
	return FormatClock(c.Seconds)
}

func (c *Clock) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseClock(value.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Clock) MarshalYAML() (any, error) {
	return c.String(), nil
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// Date is a wrapper around time.Time for "2006-01-02" parsing.
type Date struct {
	Time time.Time
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse("2006-01-02", value.Value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value.Value, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalYAML() (any, error) {
	return d.Time.Format("2006-01-02"), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.Format("2006-01-02"))
}

// Athlete is a competitor. Identity is the ID; the name is display-only.
type Athlete struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	GroupID string `yaml:"-" json:"group_id,omitempty"`
}

// Group is an ordered roster of athletes competing against each other.
// Groups with fewer than two athletes cannot be scheduled.
type Group struct {
	ID       string    `yaml:"id" json:"id"`
	Name     string    `yaml:"name" json:"name"`
	AreaID   string    `yaml:"-" json:"area_id,omitempty"`
	Athletes []Athlete `yaml:"athletes" json:"athletes"`
}

// Area is a physical competition surface with its own independent timeline.
type Area struct {
	ID     string  `yaml:"id" json:"id"`
	Name   string  `yaml:"name" json:"name"`
	Groups []Group `yaml:"groups" json:"groups"`
}

// Event is the immutable input to one scheduling run.
type Event struct {
	ID                   string `yaml:"id" json:"id"`
	Name                 string `yaml:"name" json:"name"`
	Date                 Date   `yaml:"date" json:"date"`
	MatchDurationSeconds int    `yaml:"match_duration_seconds" json:"match_duration_seconds"`
	RotationSeconds      int    `yaml:"rotation_seconds" json:"rotation_seconds"`
	WindowStart          Clock  `yaml:"window_start" json:"window_start"`
	WindowEnd            Clock  `yaml:"window_end" json:"window_end"`
	MinRestSeconds       int    `yaml:"min_rest_seconds" json:"min_rest_seconds"`
	Cycles               int    `yaml:"cycles" json:"cycles"`
	Strategy             string `yaml:"strategy" json:"strategy"`
	Areas                []Area `yaml:"areas" json:"areas"`
}

// LoadFromBytes parses YAML bytes into an Event, fills defaults, and validates.
func LoadFromBytes(data []byte) (*Event, error) {
	var ev Event
	if err := yaml.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("parsing event: %w", err)
	}
	ev.Normalize()
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return &ev, nil
}

// LoadFromFile reads and parses a YAML event file.
func LoadFromFile(path string) (*Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading event file: %w", err)
	}
	return LoadFromBytes(data)
}

// Normalize fills defaults and assigns stable ordinal IDs to areas, groups,
// and athletes that were declared without one. Back-references (GroupID,
// AreaID) are always rewritten from the nesting structure.
func (e *Event) Normalize() {
	if e.ID == "" {
		e.ID = "event-1"
	}
	if e.Cycles == 0 {
		e.Cycles = 1
	}
	if e.Strategy == "" {
		e.Strategy = StrategyTimeBoxed
	}

	areaN, groupN, athleteN := 0, 0, 0
	for ai := range e.Areas {
		area := &e.Areas[ai]
		areaN++
		if area.ID == "" {
			area.ID = fmt.Sprintf("area-%d", areaN)
		}
		for gi := range area.Groups {
			group := &area.Groups[gi]
			groupN++
			if group.ID == "" {
				group.ID = fmt.Sprintf("group-%d", groupN)
			}
			group.AreaID = area.ID
			for xi := range group.Athletes {
				athlete := &group.Athletes[xi]
				athleteN++
				if athlete.ID == "" {
					athlete.ID = fmt.Sprintf("athlete-%d", athleteN)
				}
				athlete.GroupID = group.ID
			}
		}
	}
}

// Validate checks the input contract. Window feasibility is deliberately not
// checked here: a window too short for a single match is a scheduling outcome
// (fatal TIME_OVERFLOW), not a malformed input.
func (e *Event) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("event name is required")
	}
	if e.MatchDurationSeconds <= 0 {
		return fmt.Errorf("match_duration_seconds must be positive, got %d", e.MatchDurationSeconds)
	}
	if e.RotationSeconds < 0 {
		return fmt.Errorf("rotation_seconds must not be negative, got %d", e.RotationSeconds)
	}
	if e.MinRestSeconds < 0 {
		return fmt.Errorf("min_rest_seconds must not be negative, got %d", e.MinRestSeconds)
	}
	if e.Cycles < 1 {
		return fmt.Errorf("cycles must be at least 1, got %d", e.Cycles)
	}
	if e.Strategy != StrategyTimeBoxed && e.Strategy != StrategyRoundRobin {
		return fmt.Errorf("unknown strategy: %q", e.Strategy)
	}
	if len(e.Areas) == 0 {
		return fmt.Errorf("at least one area is required")
	}

	seen := make(map[string]string)
	claim := func(kind, id string) error {
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("duplicate id %q used by both %s and %s", id, prev, kind)
		}
		seen[id] = kind
		return nil
	}

	for _, area := range e.Areas {
		if err := claim("area "+area.Name, area.ID); err != nil {
			return err
		}
		if len(area.Groups) == 0 {
			return fmt.Errorf("area %q has no groups", area.Name)
		}
		for _, group := range area.Groups {
			if err := claim("group "+group.Name, group.ID); err != nil {
				return err
			}
			for _, athlete := range group.Athletes {
				if athlete.Name == "" {
					return fmt.Errorf("group %q has an athlete with no name", group.Name)
				}
				if err := claim("athlete "+athlete.Name, athlete.ID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the event. The scheduling engine works on a
// clone so caller-owned data is never mutated.
func (e *Event) Clone() (*Event, error) {
	var out Event
	if err := deepcopy.Copy(&out, e); err != nil {
		return nil, fmt.Errorf("cloning event: %w", err)
	}
	return &out, nil
}
