package finding

import (
	"encoding/json"
	"maps"
	"slices"
)

// Set holds at most one finding per line. Adding a finding for a line that
// already has one replaces it.
type Set struct {
	byLine map[int]Finding
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{byLine: make(map[int]Finding)}
}

// Add stores f, replacing any finding already recorded for f.Line.
func (s *Set) Add(f Finding) {
	if s.byLine == nil {
		s.byLine = make(map[int]Finding)
	}
	s.byLine[f.Line] = f
}

// Get returns the finding recorded for line.
func (s *Set) Get(line int) (Finding, bool) {
	f, ok := s.byLine[line]
	return f, ok
}

// Has reports whether line carries a finding.
func (s *Set) Has(line int) bool {
	_, ok := s.byLine[line]
	return ok
}

// Remove deletes the finding for line and reports whether one existed.
func (s *Set) Remove(line int) bool {
	if _, ok := s.byLine[line]; !ok {
		return false
	}
	delete(s.byLine, line)
	return true
}

// RemoveFrom deletes every finding at or after line and returns how many
// were removed.
func (s *Set) RemoveFrom(line int) int {
	removed := 0
	for ln := range s.byLine {
		if ln >= line {
			delete(s.byLine, ln)
			removed++
		}
	}
	return removed
}

// Len returns the number of findings.
func (s *Set) Len() int {
	return len(s.byLine)
}

// All returns every finding in ascending line order.
func (s *Set) All() []Finding {
	return s.filter(func(Finding) bool { return true })
}

// Errors returns the Error findings in line order.
func (s *Set) Errors() []Finding { return s.Level(Error) }

// Warnings returns the Warning findings in line order.
func (s *Set) Warnings() []Finding { return s.Level(Warning) }

// Ignored returns the Ignored findings in line order.
func (s *Set) Ignored() []Finding { return s.Level(Ignored) }

// Level returns the findings at level in line order.
func (s *Set) Level(level Level) []Finding {
	return s.filter(func(f Finding) bool { return f.Level == level })
}

// Count returns the number of findings at level.
func (s *Set) Count(level Level) int {
	n := 0
	for _, f := range s.byLine {
		if f.Level == level {
			n++
		}
	}
	return n
}

// IsValid reports whether the set holds no Error findings.
func (s *Set) IsValid() bool {
	return s.Count(Error) == 0
}

// MarshalJSON encodes the set as a line ordered array.
func (s *Set) MarshalJSON() ([]byte, error) {
	all := s.All()
	if all == nil {
		all = []Finding{}
	}
	return json.Marshal(all)
}

func (s *Set) filter(keep func(Finding) bool) []Finding {
	var out []Finding
	for _, line := range slices.Sorted(maps.Keys(s.byLine)) {
		if f := s.byLine[line]; keep(f) {
			out = append(out, f)
		}
	}
	return out
}
