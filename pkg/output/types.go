// Package output renders the results of a check run for people and
// machines.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/sitelog/pkg/binder"
	"github.com/ccollicutt/sitelog/pkg/checker"
	"github.com/ccollicutt/sitelog/pkg/finding"
	"github.com/ccollicutt/sitelog/pkg/parser"
)

// Report is the complete output of one check run.
type Report struct {
	// RunID identifies the run across report, logs and metrics.
	RunID uuid.UUID `json:"run_id"`

	Summary   Summary    `json:"summary"`
	Documents []Document `json:"documents"`
	Metadata  Metadata   `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	Documents int `json:"documents"`
	Valid     int `json:"valid"`
	Invalid   int `json:"invalid"`
	// Failed counts documents that could not be read.
	Failed int `json:"failed"`

	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Ignored  int `json:"ignored"`
}

// Document is the report for one site log.
type Document struct {
	Path         string            `json:"path"`
	SiteName     string            `json:"site_name,omitempty"`
	ExpectedName string            `json:"expected_name,omitempty"`
	NameMatch    *parser.NameMatch `json:"name_match,omitempty"`
	Valid        bool              `json:"valid"`
	// Error is set when the document could not be read.
	Error    string            `json:"error,omitempty"`
	Stats    binder.Stats      `json:"stats"`
	Findings []finding.Finding `json:"findings"`
	Sections []SectionValues   `json:"sections,omitempty"`
	Graphic  string            `json:"graphic,omitempty"`

	lines []string
}

// SectionValues holds the values bound for one section.
type SectionValues struct {
	Index  string         `json:"index"`
	Header string         `json:"header"`
	Fields []string       `json:"fields"`
	Values map[string]any `json:"values"`
}

// Metadata provides context about the run.
type Metadata struct {
	// ConfigFile is the configuration used, if any.
	ConfigFile string `json:"config_file,omitempty"`

	// Sources lists the files checked, in order.
	Sources []string `json:"sources"`

	CheckedAt time.Time     `json:"checked_at"`
	Duration  time.Duration `json:"duration"`
}

// NewReport creates a Report from a check run.
func NewReport(run *checker.Run, configFile string) *Report {
	report := &Report{
		RunID:     uuid.New(),
		Documents: make([]Document, 0, len(run.Results)),
		Metadata: Metadata{
			ConfigFile: configFile,
			Sources:    make([]string, 0, len(run.Results)),
			CheckedAt:  run.EndTime,
			Duration:   run.EndTime.Sub(run.StartTime),
		},
	}

	for _, res := range run.Results {
		report.Metadata.Sources = append(report.Metadata.Sources, res.Path)
		doc := NewDocument(res)
		report.Documents = append(report.Documents, doc)

		s := &report.Summary
		s.Documents++
		switch {
		case res.Err != nil:
			s.Failed++
		case doc.Valid:
			s.Valid++
		default:
			s.Invalid++
		}
		s.Errors += res.Count(finding.Error)
		s.Warnings += res.Count(finding.Warning)
		s.Ignored += res.Count(finding.Ignored)
	}
	return report
}

// NewDocument creates the report for one result.
func NewDocument(res *checker.Result) Document {
	doc := Document{
		Path:         res.Path,
		ExpectedName: res.ExpectedName,
		Valid:        res.Valid(),
		Stats:        res.Stats,
		Findings:     res.Findings(),
	}
	if res.Err != nil {
		doc.Error = res.Err.Error()
		return doc
	}
	if doc.Findings == nil {
		doc.Findings = []finding.Finding{}
	}

	log := res.Log
	doc.SiteName = log.SiteName
	doc.Graphic = log.Graphic
	doc.lines = log.Lines
	if res.ExpectedName != "" {
		m := log.NameMatch
		doc.NameMatch = &m
	}
	for _, sec := range log.Ordered() {
		if sec.Binding() == nil {
			continue
		}
		doc.Sections = append(doc.Sections, SectionValues{
			Index:  sec.IndexString(),
			Header: sec.Header,
			Fields: sec.BoundFields(),
			Values: sec.Binding(),
		})
	}
	return doc
}

// HasErrors reports whether any document is invalid or unreadable.
func (r *Report) HasErrors() bool {
	return r.Summary.Invalid > 0 || r.Summary.Failed > 0
}
