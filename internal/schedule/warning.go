package schedule

// Kind classifies a warning.
type Kind string

const (
	KindTimeOverflow  Kind = "TIME_OVERFLOW"
	KindRestViolation Kind = "REST_VIOLATION"
	KindInfo          Kind = "INFO"
)

// Severity is the warning severity level.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Warning reports a scheduling problem. Only TIME_OVERFLOW at severity error
// is fatal; everything else accompanies a produced schedule.
type Warning struct {
	Kind       Kind     `json:"kind"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	EntityIDs  []string `json:"entity_ids,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Fatal reports whether the warning aborts the run.
func (w Warning) Fatal() bool {
	return w.Kind == KindTimeOverflow && w.Severity == SeverityError
}
