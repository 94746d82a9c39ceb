package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ccollicutt/sitelog/pkg/finding"
)

// sectionPattern matches a section header at the start of a trimmed line:
// the numbering (group 1) split into its components (2-4) and the free-text
// header (5). An x in place of a number marks a template example.
var sectionPattern = regexp.MustCompile(`^(([0-9]+)[.](?:([0-9xX]+)[.]?)?(?:([0-9xX]+)[.]?)?)\s*([\w\s().,-]+)?`)

// Section is one numbered block of a site log.
type Section struct {
	Index  Index
	Header string
	// Numbering is the index as written, e.g. "8.1.x".
	Numbering string
	// Line and LineEnd are the inclusive span of the section, ending at the
	// last line of its last parameter.
	Line    int
	LineEnd int
	// Example is set for template sections numbered with x placeholders.
	Example bool

	params map[string]*Parameter
	order  []string

	binding map[string]any
	keys    []string
	bound   map[string][]*Parameter
}

func newSection(line int, m []string) *Section {
	s := &Section{
		Numbering: strings.TrimSuffix(m[1], "."),
		Header:    strings.TrimSpace(m[5]),
		Line:      line,
		LineEnd:   line,
		params:    make(map[string]*Parameter),
	}
	s.Index.Section, _ = strconv.Atoi(m[2])
	var ok bool
	if m[3] != "" {
		if s.Index.Subsection, ok = atoi(m[3]); !ok {
			s.Example = true
		}
	}
	if m[4] != "" {
		if s.Index.Order, ok = atoi(m[4]); !ok {
			s.Example = true
		}
	}
	return s
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// IndexString is the index as shown in findings.
func (s *Section) IndexString() string {
	if s.Example {
		return s.Numbering
	}
	return s.Index.String()
}

// Heading returns the translation table key for the section.
func (s *Section) Heading() HeadingIndex {
	return s.Index.Heading()
}

// ContainsValues reports whether any parameter holds a real, non-placeholder
// value.
func (s *Section) ContainsValues() bool {
	for _, p := range s.params {
		if !p.IsEmpty() && !p.IsPlaceholder() {
			return true
		}
	}
	return false
}

// Parameters returns the parameters in document order.
func (s *Section) Parameters() []*Parameter {
	out := make([]*Parameter, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.params[k])
	}
	return out
}

// Parameter looks up a parameter by name; the name is normalized first.
func (s *Section) Parameter(name string) (*Parameter, bool) {
	p, ok := s.params[Normalize(name)]
	return p, ok
}

// Has reports whether a parameter with the normalized name exists.
func (s *Section) Has(normalized string) bool {
	_, ok := s.params[normalized]
	return ok
}

func (s *Section) hasBreaker() bool {
	for _, b := range sectionBreakers {
		if s.Has(b) {
			return true
		}
	}
	return false
}

// add registers p unless a parameter with the same normalized name exists,
// in which case the duplicate is reported and dropped.
func (s *Section) add(p *Parameter, doc *SiteLog) {
	key := p.NormalizedName()
	if _, dup := s.params[key]; dup {
		doc.AddFinding(finding.Errorf(p.Line, "Duplicate parameter: %s", p.Name).In(s.IndexString()).For(p.Name))
		return
	}
	p.section = s
	s.params[key] = p
	s.order = append(s.order, key)
	if p.LineEnd > s.LineEnd {
		s.LineEnd = p.LineEnd
	}
}

// Bind records value under a canonical field name for the parameter that
// produced it. A later bind of the same name overwrites the value.
func (s *Section) Bind(name string, p *Parameter, value any) {
	if s.binding == nil {
		s.binding = make(map[string]any)
		s.bound = make(map[string][]*Parameter)
	}
	if _, seen := s.binding[name]; !seen {
		s.keys = append(s.keys, name)
	}
	s.binding[name] = value
	s.bound[name] = append(s.bound[name], p)
}

// Collate folds the bindings of parts into a single binding called name.
// The parameters behind the parts are re-attributed to name.
func (s *Section) Collate(parts []string, name string, value any) {
	if s.binding == nil {
		s.binding = make(map[string]any)
		s.bound = make(map[string][]*Parameter)
	}
	if _, seen := s.binding[name]; !seen {
		s.keys = append(s.keys, name)
	}
	s.binding[name] = value
	for _, part := range parts {
		if ps := s.bound[part]; len(ps) > 0 {
			s.bound[name] = append(s.bound[name], ps...)
			delete(s.bound, part)
		}
	}
}

// ParamsFor returns the parameters bound to a canonical field name, falling
// back to a parameter whose own name normalizes to the same key.
func (s *Section) ParamsFor(name string) []*Parameter {
	if ps, ok := s.bound[name]; ok {
		return ps
	}
	if p, ok := s.params[Normalize(name)]; ok {
		return []*Parameter{p}
	}
	return nil
}

// Binding returns the bound values keyed by canonical field name. It is nil
// until the section has been bound.
func (s *Section) Binding() map[string]any {
	return s.binding
}

// BoundFields returns the canonical field names in the order they were
// first bound.
func (s *Section) BoundFields() []string {
	return append([]string(nil), s.keys...)
}

// Value returns a bound value.
func (s *Section) Value(name string) (any, bool) {
	v, ok := s.binding[name]
	return v, ok
}

// String renders the section header followed by its parameters.
func (s *Section) String() string {
	var b strings.Builder
	b.WriteString(s.IndexString())
	b.WriteByte(' ')
	b.WriteString(s.Header)
	if s.Example {
		b.WriteString(" (EXAMPLE)")
	}
	b.WriteByte('\n')
	for _, p := range s.Parameters() {
		b.WriteByte('\t')
		b.WriteString(p.String())
		b.WriteByte('\n')
	}
	return b.String()
}
