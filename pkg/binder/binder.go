// Package binder maps parsed site log parameters onto canonical typed
// fields using per-section translation tables, reporting conversion
// failures, unrecognized parameters and missing fields as findings.
package binder

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/ccollicutt/sitelog/pkg/convert"
	"github.com/ccollicutt/sitelog/pkg/finding"
	"github.com/ccollicutt/sitelog/pkg/parser"
)

// Outcomes passed to a Recorder.
const (
	OutcomeBound   = "bound"
	OutcomeWarning = "warning"
	OutcomeIgnored = "ignored"
	OutcomeFailed  = "failed"
)

// Recorder observes individual conversions.
type Recorder interface {
	ObserveConversion(kind convert.Kind, outcome string)
}

// Option configures a Binder.
type Option func(*Binder)

// WithLogger sets the logger. Nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(b *Binder) { b.logger = l }
}

// WithRecorder sets a conversion observer.
func WithRecorder(r Recorder) Option {
	return func(b *Binder) { b.recorder = r }
}

// Binder applies a Table to parsed site logs. It holds no per-document
// state and is safe for concurrent use.
type Binder struct {
	table    *Table
	logger   *slog.Logger
	recorder Recorder
}

// New returns a Binder for table.
func New(table *Table, opts ...Option) *Binder {
	b := &Binder{table: table}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.New(slog.DiscardHandler)
	}
	return b
}

// Stats summarizes one Bind call.
type Stats struct {
	Sections     int `json:"sections"`
	Unexpected   int `json:"unexpected_sections"`
	Fields       int `json:"fields"`
	Failed       int `json:"failed"`
	Ignored      int `json:"ignored"`
	Unrecognized int `json:"unrecognized"`
	Missing      int `json:"missing"`
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Sections += o.Sections
	s.Unexpected += o.Unexpected
	s.Fields += o.Fields
	s.Failed += o.Failed
	s.Ignored += o.Ignored
	s.Unrecognized += o.Unrecognized
	s.Missing += o.Missing
}

// Bind converts every parameter of every authoritative section of doc,
// storing values on the sections and findings on doc.
func (b *Binder) Bind(doc *parser.SiteLog) Stats {
	var stats Stats
	for _, sec := range doc.Ordered() {
		t, ok := b.table.Section(sec.Heading())
		if !ok {
			stats.Unexpected++
			for l := sec.Line; l <= sec.LineEnd; l++ {
				doc.AddFinding(finding.Warnf(l, "Unexpected section %s", sec.IndexString()).In(sec.IndexString()))
			}
			b.logger.Debug("unexpected section", "section", sec.IndexString(), "line", sec.Line+1)
			continue
		}
		stats.Sections++
		stats.Add(b.bindSection(doc, sec, t))
	}
	b.logger.Debug("bound site log", "site", doc.SiteName,
		"sections", stats.Sections, "fields", stats.Fields, "failed", stats.Failed, "missing", stats.Missing)
	return stats
}

// lookup finds translations for a parameter name, dropping "::" prefixes
// until one matches.
func lookup(t *SectionTable, p *parser.Parameter) ([]Translation, bool) {
	name := p.NormalizedName()
	for {
		if tr, ok := t.Lookup(name); ok {
			return tr, true
		}
		_, rest, found := strings.Cut(name, "::")
		if !found {
			return nil, false
		}
		name = rest
	}
}

func (b *Binder) bindSection(doc *parser.SiteLog, sec *parser.Section, t *SectionTable) Stats {
	var stats Stats
	idx := sec.IndexString()
	failed := make(map[string]bool)
	ignored := make(map[string]bool)

	for _, p := range sec.Parameters() {
		translations, ok := lookup(t, p)
		if !ok {
			stats.Unrecognized++
			doc.AddFinding(finding.Warnf(p.Line, "Unrecognized parameter: %s", p.Name).In(idx).For(p.Name))
			continue
		}

		raw := p.Value()
		if p.IsPlaceholder() {
			raw = ""
		}
		for _, tr := range translations {
			res, err := tr.Converter.Convert(raw)
			switch {
			case err != nil:
				failed[tr.Field] = true
				stats.Failed++
				msg := err.Error()
				var cerr *convert.Error
				if errors.As(err, &cerr) {
					msg = cerr.Message
				}
				for l := p.Line; l <= p.LineEnd; l++ {
					doc.AddFinding(finding.Errorf(l, "%s", msg).In(idx).For(p.Name))
				}
				b.observe(tr, OutcomeFailed)
				b.logger.Log(context.Background(), parser.LevelTrace, "conversion failed",
					"section", idx, "field", tr.Field, "line", p.Line+1, "error", msg)
			case res.Ignored:
				ignored[tr.Field] = true
				stats.Ignored++
				note := res.Note
				if note == "" {
					note = "Parameter is ignored"
				}
				doc.AddFinding(finding.Ignoref(p.Line, "%s", note).In(idx).For(p.Name))
				if tr.Field != "" {
					p.Bind(tr.Field, nil)
				}
				b.observe(tr, OutcomeIgnored)
			default:
				if tr.Field != "" {
					p.Bind(tr.Field, res.Value)
					stats.Fields++
				}
				outcome := OutcomeBound
				if res.Warning != "" {
					doc.AddFinding(finding.Warnf(p.Line, "%s", res.Warning).In(idx).For(p.Name))
					outcome = OutcomeWarning
				}
				b.observe(tr, outcome)
			}
		}
	}

	var missing []string
	for _, field := range t.Fields() {
		if len(sec.ParamsFor(field)) > 0 || failed[field] || ignored[field] || t.IsOptional(field) {
			continue
		}
		name := t.DisplayName(field)
		if !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
	}
	stats.Missing = len(missing)
	if len(missing) > 0 && !doc.Findings.Has(sec.Line) {
		slices.Sort(missing)
		doc.AddFinding(finding.Errorf(sec.Line, "Missing parameters:\n%s", strings.Join(missing, "\n")).In(idx))
	}

	if sec.Binding() != nil {
		for _, c := range t.Collations() {
			b.collate(sec, c)
		}
	}
	return stats
}

func (b *Binder) collate(sec *parser.Section, c Collation) {
	values := make([]any, len(c.Parts))
	found := false
	for i, part := range c.Parts {
		if v, ok := sec.Value(part); ok {
			values[i] = v
			found = true
		}
	}
	if !found {
		return
	}
	if pt, ok := convert.ToPoint(values); ok {
		sec.Collate(c.Parts[:], c.Into, pt)
		return
	}
	b.logger.Debug("incomplete collation", "section", sec.IndexString(), "field", c.Into)
}

func (b *Binder) observe(tr Translation, outcome string) {
	if b.recorder != nil {
		b.recorder.ObserveConversion(tr.Converter.Kind(), outcome)
	}
}
