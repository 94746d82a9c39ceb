package output

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ccollicutt/sitelog/pkg/finding"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "SiteLog: %d documents checked, %d invalid, %d failed, %d errors\n",
		report.Summary.Documents,
		report.Summary.Invalid,
		report.Summary.Failed,
		report.Summary.Errors)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== Site Log Check Report ===")
	fmt.Fprintln(w)

	for i := range report.Documents {
		f.formatDocument(&report.Documents[i], w)
	}

	fmt.Fprintln(w, "---")
	s := report.Summary
	_, err := fmt.Fprintf(w, "Summary: %d documents checked, %d valid, %d invalid, %d failed (%d errors, %d warnings)\n",
		s.Documents, s.Valid, s.Invalid, s.Failed, s.Errors, s.Warnings)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Run: %s\n", report.RunID)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(time.Millisecond))
	}
	return err
}

func (f *TextFormatter) formatDocument(doc *Document, w io.Writer) {
	switch {
	case doc.Error != "":
		fmt.Fprintf(w, "[FAILED] %s\n  %s\n\n", doc.Path, doc.Error)
		return
	case doc.Valid:
		fmt.Fprintf(w, "[VALID] %s", doc.Path)
	default:
		fmt.Fprintf(w, "[INVALID] %s", doc.Path)
	}
	if doc.SiteName != "" {
		fmt.Fprintf(w, " (%s)", doc.SiteName)
	}
	fmt.Fprintln(w)

	st := doc.Stats
	fmt.Fprintf(w, "  %d sections, %d fields bound, %d failed, %d missing, %d unrecognized\n",
		st.Sections, st.Fields, st.Failed, st.Missing, st.Unrecognized)

	for _, fd := range doc.Findings {
		if fd.Level == finding.Ignored && !f.opts.Verbose {
			continue
		}
		fmt.Fprintf(w, "  %s\n", fd.Format(doc.lines))
	}

	if f.opts.Verbose {
		for _, sec := range doc.Sections {
			fmt.Fprintf(w, "  %s %s\n", sec.Index, sec.Header)
			for _, name := range sec.Fields {
				fmt.Fprintf(w, "    %-24s %s\n", name, formatValue(sec.Values[name]))
			}
		}
	}
	fmt.Fprintln(w)
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case time.Time:
		if v.IsZero() {
			return "-"
		}
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 {
			return v.Format(time.DateOnly)
		}
		return v.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}
