package binder

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/ccollicutt/sitelog/pkg/convert"
	"github.com/ccollicutt/sitelog/pkg/parser"
)

// Translation binds a parameter value to one canonical field.
type Translation struct {
	// Field is the canonical name. An empty Field converts the value but
	// binds nothing.
	Field     string
	Converter convert.Converter
}

// Rule maps every legacy spelling of a parameter onto its translations.
// The canonical spelling is listed last and is the one shown to operators.
type Rule struct {
	Names        []string
	Translations []Translation
}

// Collation folds three bound fields into one convert.Point.
type Collation struct {
	Parts [3]string
	Into  string
}

// SectionTable holds the translations for one kind of section.
type SectionTable struct {
	heading    parser.HeadingIndex
	entries    map[string][]Translation
	display    map[string]string
	expected   []string
	optional   map[string]bool
	collations []Collation
}

// SectionOption adjusts a SectionTable.
type SectionOption func(*SectionTable)

// Optional marks fields that are never reported missing.
func Optional(fields ...string) SectionOption {
	return func(t *SectionTable) {
		for _, f := range fields {
			t.optional[f] = true
		}
	}
}

// Collate folds parts into a single Point valued field.
func Collate(into string, x, y, z string) SectionOption {
	return func(t *SectionTable) {
		t.collations = append(t.collations, Collation{Parts: [3]string{x, y, z}, Into: into})
	}
}

// NewSectionTable builds the table for sections under heading.
func NewSectionTable(heading parser.HeadingIndex, rules []Rule, opts ...SectionOption) (*SectionTable, error) {
	t := &SectionTable{
		heading:  heading,
		entries:  make(map[string][]Translation),
		display:  make(map[string]string),
		optional: make(map[string]bool),
	}
	for i, r := range rules {
		if len(r.Names) == 0 || len(r.Translations) == 0 {
			return nil, fmt.Errorf("section %s: rule %d needs names and translations", heading, i)
		}
		for _, tr := range r.Translations {
			if tr.Converter == nil {
				return nil, fmt.Errorf("section %s: rule %q has no converter for %q", heading, r.Names[0], tr.Field)
			}
			if tr.Field != "" && !slices.Contains(t.expected, tr.Field) {
				t.expected = append(t.expected, tr.Field)
			}
		}
		for _, name := range r.Names {
			t.entries[parser.Normalize(name)] = r.Translations
			for _, tr := range r.Translations {
				if tr.Field != "" {
					t.display[tr.Field] = name
				}
			}
		}
	}
	for _, opt := range opts {
		opt(t)
	}
	for _, c := range t.collations {
		for _, part := range c.Parts {
			if !slices.Contains(t.expected, part) {
				return nil, fmt.Errorf("section %s: collation %s uses unknown field %q", heading, c.Into, part)
			}
		}
	}
	return t, nil
}

// Heading returns the heading the table applies to.
func (t *SectionTable) Heading() parser.HeadingIndex { return t.heading }

// Lookup returns the translations for a normalized parameter name.
func (t *SectionTable) Lookup(normalized string) ([]Translation, bool) {
	tr, ok := t.entries[normalized]
	return tr, ok
}

// Fields returns the canonical field names in declaration order.
func (t *SectionTable) Fields() []string { return slices.Clone(t.expected) }

// DisplayName is the canonical legacy spelling of field.
func (t *SectionTable) DisplayName(field string) string {
	if n, ok := t.display[field]; ok {
		return n
	}
	return field
}

// IsOptional reports whether field may be absent.
func (t *SectionTable) IsOptional(field string) bool { return t.optional[field] }

// Collations returns the point collations.
func (t *SectionTable) Collations() []Collation { return slices.Clone(t.collations) }

// Table is the immutable set of section tables a Binder works from.
type Table struct {
	sections map[parser.HeadingIndex]*SectionTable
}

// ErrDuplicateHeading is returned when two section tables share a heading.
var ErrDuplicateHeading = errors.New("duplicate heading")

// NewTable collects section tables.
func NewTable(sections ...*SectionTable) (*Table, error) {
	t := &Table{sections: make(map[parser.HeadingIndex]*SectionTable, len(sections))}
	for _, s := range sections {
		if _, dup := t.sections[s.heading]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateHeading, s.heading)
		}
		t.sections[s.heading] = s
	}
	return t, nil
}

// Section returns the table for heading.
func (t *Table) Section(heading parser.HeadingIndex) (*SectionTable, bool) {
	s, ok := t.sections[heading]
	return s, ok
}

// Headings returns every heading in document order.
func (t *Table) Headings() []parser.HeadingIndex {
	return slices.SortedFunc(maps.Keys(t.sections), func(a, b parser.HeadingIndex) int {
		if a.Section != b.Section {
			return a.Section - b.Section
		}
		return a.Subsection - b.Subsection
	})
}
