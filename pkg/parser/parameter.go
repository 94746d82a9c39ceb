package parser

import (
	"regexp"
	"strings"
)

var (
	// parameterPattern matches a whole "Name : Value" line.
	parameterPattern = regexp.MustCompile(`^\s*([\w\s/().,_<>+%-]+)\s*:\s*(.*)$`)
	// continuationPattern matches a nameless " : more text" line.
	continuationPattern = regexp.MustCompile(`^\s+:\s+(.*)`)
	// placeholderPattern matches bracketed template text such as (CCYY-MM-DD).
	placeholderPattern = regexp.MustCompile(`^\([^()]+\)$`)
)

// Parameter is one "Name : Value" entry, possibly continued over several
// physical lines.
type Parameter struct {
	// Name is the label as written, prefixed with "<sub-heading>::" when it
	// appears under a sub-heading.
	Name string
	// Line and LineEnd are the inclusive physical span.
	Line    int
	LineEnd int
	// Values holds one trimmed fragment per physical line.
	Values []string

	section *Section
	binding map[string]any
}

func newParameter(line int, name, value string) *Parameter {
	return &Parameter{
		Name:    name,
		Line:    line,
		LineEnd: line,
		Values:  []string{value},
	}
}

func (p *Parameter) appendValue(line int, value string) {
	p.LineEnd = line
	p.Values = append(p.Values, value)
}

// Value joins the fragments with newlines.
func (p *Parameter) Value() string {
	return strings.Join(p.Values, "\n")
}

// NormalizedName is the key the parameter is stored under.
func (p *Parameter) NormalizedName() string {
	return Normalize(p.Name)
}

// IsPlaceholder reports whether the value is bracketed template text.
func (p *Parameter) IsPlaceholder() bool {
	return placeholderPattern.MatchString(strings.ReplaceAll(p.Value(), "\n", ""))
}

// IsEmpty reports whether the value is blank.
func (p *Parameter) IsEmpty() bool {
	return strings.TrimSpace(p.Value()) == ""
}

// NumLines is the number of physical lines spanned.
func (p *Parameter) NumLines() int {
	return p.LineEnd - p.Line + 1
}

// Section returns the owning section.
func (p *Parameter) Section() *Section {
	return p.section
}

// Bind records a converted value on the parameter and its section.
func (p *Parameter) Bind(name string, value any) {
	if p.binding == nil {
		p.binding = make(map[string]any)
	}
	p.binding[name] = value
	if p.section != nil {
		p.section.Bind(name, p, value)
	}
}

// Binding returns the values bound from this parameter.
func (p *Parameter) Binding() map[string]any {
	return p.binding
}

func (p *Parameter) String() string {
	if p.IsPlaceholder() {
		return p.Name + " [PLACEHOLDER]: " + p.Value()
	}
	return p.Name + ": " + p.Value()
}
