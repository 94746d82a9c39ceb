package parser

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ccollicutt/sitelog/pkg/finding"
)

// LevelTrace is the slog level used for per-line parse decisions.
const LevelTrace = slog.Level(-8)

// Option configures a parse.
type Option func(*options)

type options struct {
	siteName string
	logger   *slog.Logger
}

// WithSiteName sets the expected site name (normally the 9 character ID).
// The preamble is checked against it and a mismatch is reported as an error.
func WithSiteName(name string) Option {
	return func(o *options) {
		o.siteName = strings.ToUpper(strings.TrimSpace(name))
	}
}

// WithLogger sets the logger for parse diagnostics. Nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Parse splits text on newlines and parses it.
func Parse(text string, opts ...Option) *SiteLog {
	return ParseLines(strings.Split(text, "\n"), opts...)
}

// ParseLines parses a document that is already split into lines. Malformed
// input never fails the parse; every anomaly becomes a finding.
func ParseLines(lines []string, opts ...Option) *SiteLog {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	doc := &SiteLog{
		Lines:    make([]string, len(lines)),
		Sections: make(map[Index]*Section),
		SiteName: o.siteName,
		Findings: finding.NewSet(),
	}
	for i, ln := range lines {
		doc.Lines[i] = strings.TrimRight(ln, "\r")
	}

	p := &docParser{
		doc:        doc,
		cur:        newCursor(doc.Lines),
		expected:   o.siteName,
		logger:     o.logger,
		lastIndent: -1,
	}
	p.run()
	return doc
}

// subHeading tracks the most recent sub-heading label and whether the
// lines below it are indented into it.
type subHeading struct {
	name   string
	active bool
}

type docParser struct {
	doc      *SiteLog
	cur      *cursor
	expected string
	logger   *slog.Logger

	sawSection   bool
	nameResolved bool
	graphicStart int

	lastIndent int
	sub        subHeading
}

func (p *docParser) run() {
	for {
		ln, ok := p.cur.Next()
		if !ok {
			break
		}
		p.visitLine(ln)
	}

	if p.doc.NameMatch == NameMismatched && p.expected != "" {
		p.doc.AddFinding(finding.Errorf(0, "Expected site name: %s", p.expected))
	}

	// Everything after the last structured line is the antenna graphic, so
	// warnings raised against it are noise.
	if n := p.doc.Findings.RemoveFrom(p.graphicStart); n > 0 {
		p.logger.Debug("dropped findings inside graphic", "from_line", p.graphicStart, "count", n)
	}
	p.doc.GraphicStart = p.graphicStart
	if p.graphicStart < len(p.doc.Lines) {
		p.doc.Graphic = trimBlankLines(p.doc.Lines[p.graphicStart:])
	}

	p.logger.Debug("parsed site log",
		"lines", len(p.doc.Lines),
		"sections", len(p.doc.Sections),
		"findings", p.doc.Findings.Len(),
		"site", p.doc.SiteName,
		"name_match", p.doc.NameMatch.String())
}

func (p *docParser) visitLine(ln Line) {
	text := strings.TrimSpace(ln.Text)
	if text == "" {
		return
	}

	if m := sectionPattern.FindStringSubmatch(text); m != nil {
		sec := newSection(ln.No, m)
		p.sawSection = true
		p.visitSection(sec, text[len(m[1]):])
		p.register(sec)
		p.sub = subHeading{}
		p.lastIndent = -1
		return
	}

	if p.sawSection && !ignoredLines[Normalize(text)] {
		p.doc.AddFinding(finding.Warnf(ln.No, "Unrecognized line"))
		return
	}

	p.preamble(ln.No, text)
}

// preamble handles lines before the first section and boilerplate lines
// between sections. The site name is resolved from the first line that
// identifies it.
func (p *docParser) preamble(no int, text string) {
	p.mark(no + 1)
	if p.nameResolved {
		return
	}

	upper := strings.ToUpper(text)
	first := strings.Fields(text)[0]

	if p.expected != "" {
		prefix := p.expected
		if len(prefix) > 4 {
			prefix = prefix[:4]
		}
		if strings.Contains(upper, p.expected) || strings.Contains(upper, prefix+" ") {
			p.nameResolved = true
			p.doc.NameMatch = NameMatched
			if token := strings.ToUpper(first); strings.Contains(token, p.expected) {
				p.doc.SiteName = token
			}
			p.logger.Debug("site name matched", "line", no+1, "site", p.doc.SiteName)
			return
		}
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "site") && strings.Contains(lower, "info") && (len(first) == 4 || len(first) == 9) {
		p.nameResolved = true
		if p.expected != "" {
			p.doc.NameMatch = NameMismatched
			p.doc.AddFinding(finding.Errorf(no, "Incorrect site name: %s", first))
		}
		p.doc.SiteName = strings.ToUpper(first)
		p.logger.Debug("site name discovered", "line", no+1, "site", p.doc.SiteName)
	}
}

// visitSection consumes the body of sec. The remainder of the header line
// is parsed first since it may carry an inline parameter.
func (p *docParser) visitSection(sec *Section, headerRest string) {
	p.visitSectionLine(sec, Line{No: sec.Line, Text: headerRest + " "}, true)

	for {
		next, ok := p.cur.Peek(0)
		if !ok || sectionPattern.MatchString(strings.TrimSpace(next.Text)) {
			return
		}
		if sec.hasBreaker() {
			return
		}
		p.cur.Next()
		p.visitSectionLine(sec, next, false)
	}
}

func (p *docParser) visitSectionLine(sec *Section, ln Line, header bool) {
	if strings.TrimSpace(ln.Text) == "" {
		return
	}

	if !header {
		p.trackIndent(ln.Text)
	}

	m := parameterPattern.FindStringSubmatch(ln.Text)
	if m == nil {
		if header {
			return
		}
		norm := Normalize(ln.Text)
		switch {
		case ignoredLines[norm]:
		case subHeadings[norm]:
			p.sub.name = strings.TrimSpace(ln.Text)
		default:
			p.doc.AddFinding(finding.Warnf(ln.No, "Unrecognized line").In(sec.IndexString()))
		}
		return
	}

	name := strings.TrimSpace(m[1])
	if p.sub.active && p.sub.name != "" {
		name = p.sub.name + "::" + name
	}
	param := newParameter(ln.No, name, strings.TrimSpace(m[2]))
	if param.IsPlaceholder() {
		p.doc.AddFinding(finding.Ignoref(ln.No, "Placeholder text").In(sec.IndexString()).For(name))
	}
	p.mark(ln.No + 1)

	// Collect continuation lines, looking past blank lines. The blank lines
	// scanned are consumed along with the continuations.
	ahead := 0
	for {
		next, ok := p.cur.Peek(ahead)
		if !ok {
			break
		}
		if strings.TrimSpace(next.Text) != "" {
			cm := continuationPattern.FindStringSubmatch(next.Text)
			if cm == nil {
				break
			}
			param.appendValue(next.No, strings.TrimSpace(cm[1]))
			p.mark(next.No + 1)
		}
		ahead++
	}
	p.cur.Skip(ahead)

	p.logger.Log(context.Background(), LevelTrace, "parameter",
		"section", sec.IndexString(), "name", param.Name, "line", param.Line+1, "lines", param.NumLines())
	sec.add(param, p.doc)
}

// trackIndent updates the sub-heading state from a body line's indentation:
// indenting activates the last sub-heading, outdenting clears it.
func (p *docParser) trackIndent(text string) {
	indent := countIndent(text)
	if p.lastIndent >= 0 {
		switch {
		case indent > p.lastIndent:
			p.sub.active = true
		case indent < p.lastIndent:
			p.sub = subHeading{}
		case !p.sub.active:
			p.sub.name = ""
		}
	}
	p.lastIndent = indent
}

// register adds a finished section to the document. Example sections are
// marked ignored, empty ones are dropped and duplicates are reported on
// every line of the later copy.
func (p *docParser) register(sec *Section) {
	idx := sec.IndexString()
	switch {
	case sec.Example:
		for l := sec.Line; l <= sec.LineEnd; l++ {
			p.doc.AddFinding(finding.Ignoref(l, "Placeholder text").In(idx))
		}
		p.logger.Debug("example section", "section", idx, "line", sec.Line+1)
	case !sec.ContainsValues():
		p.logger.Debug("section without values", "section", idx, "line", sec.Line+1)
	default:
		if _, dup := p.doc.Sections[sec.Index]; dup {
			for l := sec.Line; l <= sec.LineEnd; l++ {
				p.doc.AddFinding(finding.Errorf(l, "Duplicate section %s", idx).In(idx))
			}
			p.logger.Debug("duplicate section", "section", idx, "line", sec.Line+1)
			return
		}
		p.doc.Sections[sec.Index] = sec
		p.logger.Debug("section registered", "section", idx, "parameters", len(sec.order))
	}
}

// mark advances the start of the trailing graphic region.
func (p *docParser) mark(line int) {
	p.graphicStart = max(p.graphicStart, line)
}

func trimBlankLines(lines []string) string {
	begin, end := 0, len(lines)
	for begin < end && strings.TrimSpace(lines[begin]) == "" {
		begin++
	}
	for end > begin && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[begin:end], "\n")
}
