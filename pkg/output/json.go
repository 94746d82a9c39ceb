package output

import (
	"context"
	"encoding/json"
	"io"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the report as JSON. Bound values are only included when
// verbose.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		return encoder.Encode(struct {
			RunID   string  `json:"run_id"`
			Summary Summary `json:"summary"`
		}{report.RunID.String(), report.Summary})
	}

	if f.opts.Verbose {
		return encoder.Encode(report)
	}
	trimmed := *report
	trimmed.Documents = make([]Document, len(report.Documents))
	for i, doc := range report.Documents {
		doc.Sections = nil
		doc.Graphic = ""
		trimmed.Documents[i] = doc
	}
	return encoder.Encode(&trimmed)
}
