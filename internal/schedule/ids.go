package schedule

import (
	"fmt"

	"github.com/google/uuid"
)

// IDSource generates identifiers for entries and matches. The engine takes
// the source as a dependency so runs can be made reproducible: with the
// sequential source, identical inputs produce identical output.
type IDSource interface {
	Next(prefix string) string
}

// SequentialIDs issues monotonically increasing ids per prefix
// ("entry-1", "entry-2", ...). It is the default source.
type SequentialIDs struct {
	counts map[string]int
}

// NewSequentialIDs returns a fresh deterministic id source.
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{counts: make(map[string]int)}
}

func (s *SequentialIDs) Next(prefix string) string {
	s.counts[prefix]++
	return fmt.Sprintf("%s-%d", prefix, s.counts[prefix])
}

// RandomIDs issues globally unique ids. Output is not reproducible across
// runs; use only when schedules from separate runs must never collide.
type RandomIDs struct{}

func (RandomIDs) Next(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}
