package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ccollicutt/sitelog/pkg/checker"
)

func TestNewTextFormatter(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewTextFormatter() returned nil")
	}
	if f.Name() != "text" {
		t.Errorf("Name() = %q, want %q", f.Name(), "text")
	}
}

func TestTextFormatter_Format_Empty(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := NewReport(&checker.Run{}, "")

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Site Log Check Report") {
		t.Error("Output missing header")
	}
	if !strings.Contains(output, "0 documents checked") {
		t.Error("Output missing summary")
	}
}

func TestTextFormatter_Format(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := NewReport(createTestRun(t), "")

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	output := buf.String()

	expected := []string{
		"[VALID] abcd00usa_20240101.log (ABCD00USA)",
		"[INVALID] abcd00usa_20231201.log",
		"[FAILED] gone.log",
		"[ERROR]: Missing parameters:",
		"Summary: 3 documents checked, 1 valid, 1 invalid, 1 failed (1 errors, 0 warnings)",
	}
	for _, e := range expected {
		if !strings.Contains(output, e) {
			t.Errorf("Output missing %q\n%s", e, output)
		}
	}

	if strings.Contains(output, "[IGNORED]") {
		t.Error("Ignored findings should only be shown when verbose")
	}
	if strings.Contains(output, "primary ") {
		t.Error("Bound values should only be shown when verbose")
	}
}

func TestTextFormatter_Format_Verbose(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Verbose: true})
	report := NewReport(createTestRun(t), "")

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	output := buf.String()

	for _, e := range []string{"[IGNORED]: Placeholder text", "13 More Information", "CDDIS", "Run: ", "Duration: 1.5s"} {
		if !strings.Contains(output, e) {
			t.Errorf("Verbose output missing %q", e)
		}
	}
}

func TestTextFormatter_Format_Quiet(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Quiet: true})
	report := NewReport(createTestRun(t), "")

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if strings.Count(output, "\n") != 1 {
		t.Errorf("Quiet output should be a single line, got:\n%s", output)
	}
	if !strings.Contains(output, "3 documents checked, 1 invalid, 1 failed, 1 errors") {
		t.Errorf("Quiet output = %q", output)
	}
}
