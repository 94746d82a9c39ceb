// Package parser reads legacy IGS site logs into a tree of sections and
// parameters, recording every anomaly as a line-addressed finding. It knows
// nothing about which fields a section should hold; that is the binder's job.
package parser

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/ccollicutt/sitelog/pkg/finding"
)

// Index identifies a section by its numbering, e.g. 8.1.2 is
// {Section: 8, Subsection: 1, Order: 2}. Zero means the component is absent,
// so a literal "4.0" is indistinguishable from "4".
type Index struct {
	Section    int `json:"section"`
	Subsection int `json:"subsection,omitempty"`
	Order      int `json:"order,omitempty"`
}

// String renders the index in document form without a trailing dot.
func (i Index) String() string {
	s := strconv.Itoa(i.Section)
	if i.Subsection != 0 {
		s += "." + strconv.Itoa(i.Subsection)
		if i.Order != 0 {
			s += "." + strconv.Itoa(i.Order)
		}
	}
	return s
}

// Heading returns the key used to select a translation table: the section
// and subsection for three-level entries, otherwise the section alone.
func (i Index) Heading() HeadingIndex {
	if i.Order != 0 {
		return HeadingIndex{Section: i.Section, Subsection: i.Subsection}
	}
	return HeadingIndex{Section: i.Section}
}

func (i Index) less(o Index) bool {
	if i.Section != o.Section {
		return i.Section < o.Section
	}
	if i.Subsection != o.Subsection {
		return i.Subsection < o.Subsection
	}
	return i.Order < o.Order
}

// HeadingIndex is a translation table key.
type HeadingIndex struct {
	Section    int
	Subsection int
}

// String renders the heading as "8.1" or "4".
func (h HeadingIndex) String() string {
	if h.Subsection != 0 {
		return fmt.Sprintf("%d.%d", h.Section, h.Subsection)
	}
	return strconv.Itoa(h.Section)
}

// NameMatch records whether the site name found in the document matched
// the caller's expectation.
type NameMatch int

const (
	// NameUnknown means no expected name was supplied or none was found.
	NameUnknown NameMatch = iota
	NameMatched
	NameMismatched
)

func (m NameMatch) String() string {
	switch m {
	case NameMatched:
		return "matched"
	case NameMismatched:
		return "mismatched"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m NameMatch) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// SiteLog is the result of parsing one document.
type SiteLog struct {
	// Lines are the document lines with any trailing carriage return removed.
	Lines []string

	// Sections holds the authoritative sections: non-example sections that
	// carry at least one real value. The first of any duplicates wins.
	Sections map[Index]*Section

	// SiteName is the expected name, or the name discovered in the preamble.
	SiteName  string
	NameMatch NameMatch

	// Graphic is the trailing antenna diagram, verbatim.
	Graphic string

	Findings *finding.Set

	// GraphicStart is the first line of the graphic region.
	GraphicStart int
}

// Ordered returns the authoritative sections sorted by index.
func (d *SiteLog) Ordered() []*Section {
	keys := slices.SortedFunc(maps.Keys(d.Sections), func(a, b Index) int {
		switch {
		case a.less(b):
			return -1
		case b.less(a):
			return 1
		}
		return 0
	})
	out := make([]*Section, 0, len(keys))
	for _, k := range keys {
		out = append(out, d.Sections[k])
	}
	return out
}

// Section returns the authoritative section at idx.
func (d *SiteLog) Section(idx Index) (*Section, bool) {
	s, ok := d.Sections[idx]
	return s, ok
}

// IsValid reports whether the document carries no Error findings.
func (d *SiteLog) IsValid() bool {
	return d.Findings.IsValid()
}

// AddFinding records f, replacing any finding already on that line.
func (d *SiteLog) AddFinding(f finding.Finding) {
	if f.Text == "" && f.Line >= 0 && f.Line < len(d.Lines) {
		f = f.On(d.Lines[f.Line])
	}
	d.Findings.Add(f)
}
