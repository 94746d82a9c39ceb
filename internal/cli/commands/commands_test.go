package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/sitelog/pkg/binder"
	"github.com/ccollicutt/sitelog/pkg/checker"
)

const validSiteLog = `     ABCD00USA Site Information Form (site log)

13.  More Information

     Primary Data Center      : CDDIS
     Secondary Data Center    : BKG
     URL for More Information : https://example.org/
     Site Map                 : (Y or URL)
     Site Diagram             : N
     Horizon Mask             : N
     Monument Description     : N
     Site Pictures            : N
     Additional Information   : (multiple lines)
`

const invalidSiteLog = `     ABCD00USA Site Information Form (site log)

13.  More Information

     Primary Data Center      : CDDIS
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// execute runs the commands under a root carrying the persistent
// --log-level flag, returning stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ExitCode = 0

	var logLevel string
	root := &cobra.Command{Use: "sitelog", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().StringVar(&logLevel, "log-level", DefaultLogLevel, "")
	root.AddCommand(NewCheckCommand(), NewInspectCommand(), NewValidateCommand(), NewWatchCommand(), NewVersionCommand())

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewCheckCommand(t *testing.T) {
	cmd := NewCheckCommand()

	if cmd.Use != "check [paths|globs...]" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	flags := []string{"config", "output", "site-name", "name-from-filename", "concurrency", "metrics-file", "verbose", "quiet"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestNewInspectCommand(t *testing.T) {
	cmd := NewInspectCommand()

	if cmd.Use != "inspect <site-log>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	for _, flag := range []string{"config", "output", "site-name", "bind"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	if cmd.Use != "validate <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	if !strings.Contains(cmd.Long, "Validate") {
		t.Error("Missing description in Long")
	}
}

func TestNewVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out != "sitelog "+Version+"\n" {
		t.Errorf("version output = %q", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"error", slog.LevelError, false},
		{"warn", slog.LevelWarn, false},
		{"INFO", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"trace", slog.Level(-8), false},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRunValidate_Success(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := writeFile(t, tmpDir, "abcd00usa_20240101.log", validSiteLog)

	configPath := writeFile(t, tmpDir, "config.yaml", `sources:
  - `+logPath+`
concurrency: 2
equipment:
  receivers: ["ACME GNSS 1"]
vocabularies:
  tectonic_plate:
    aliases:
      EU: ["Eurasia"]
`)

	out, err := execute(t, "validate", configPath)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	for _, e := range []string{"Configuration valid!", "Concurrency: 2", "tectonic_plate", "Site logs matched: 1"} {
		if !strings.Contains(out, e) {
			t.Errorf("Output missing %q\n%s", e, out)
		}
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	tests := map[string]string{
		"yaml":        "invalid: yaml: content",
		"concurrency": "concurrency: -1\n",
		"vocabulary":  "vocabularies:\n  colours:\n    aliases: {R: [red]}\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			configPath := writeFile(t, t.TempDir(), "invalid.yaml", content)
			if _, err := execute(t, "validate", configPath); err == nil {
				t.Error("Expected error for invalid config")
			}
		})
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	if _, err := execute(t, "validate", "/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestRunCheck_Valid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "abcd00usa_20240101.log", validSiteLog)

	out, err := execute(t, "check", "--name-from-filename", path)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if ExitCode != ExitValid {
		t.Errorf("ExitCode = %d, want %d\n%s", ExitCode, ExitValid, out)
	}
	if !strings.Contains(out, "[VALID] "+path+" (ABCD00USA)") {
		t.Errorf("Output missing valid document line:\n%s", out)
	}
}

func TestRunCheck_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "abcd00usa_20240101.log", validSiteLog)
	writeFile(t, dir, "abcd00usa_20231201.log", invalidSiteLog)

	out, err := execute(t, "check", "-q", dir)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if ExitCode != ExitInvalid {
		t.Errorf("ExitCode = %d, want %d", ExitCode, ExitInvalid)
	}
	if !strings.Contains(out, "2 documents checked, 1 invalid, 0 failed") {
		t.Errorf("Unexpected quiet output: %q", out)
	}
}

func TestRunCheck_UnreadableFile(t *testing.T) {
	_, err := execute(t, "check", filepath.Join(t.TempDir(), "gone.log"))
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if ExitCode != ExitFailure {
		t.Errorf("ExitCode = %d, want %d", ExitCode, ExitFailure)
	}
}

func TestRunCheck_NoSources(t *testing.T) {
	if _, err := execute(t, "check"); err == nil {
		t.Error("Expected error when nothing is given to check")
	}
}

func TestRunCheck_BadOutput(t *testing.T) {
	path := writeFile(t, t.TempDir(), "abcd.log", validSiteLog)
	if _, err := execute(t, "check", "-o", "xml", path); err == nil {
		t.Error("Expected error for unknown output format")
	}
}

func TestRunCheck_JSONWithMetrics(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "abcd00usa_20240101.log", validSiteLog)
	metricsPath := filepath.Join(dir, "sitelog.prom")

	out, err := execute(t, "check", "-o", "json", "--metrics-file", metricsPath, path)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}

	var report struct {
		RunID   string `json:"run_id"`
		Summary struct {
			Documents int `json:"documents"`
			Valid     int `json:"valid"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Output is not valid JSON: %v\n%s", err, out)
	}
	if report.RunID == "" || report.Summary.Documents != 1 || report.Summary.Valid != 1 {
		t.Errorf("Unexpected report: %+v", report)
	}

	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("Metrics file not written: %v", err)
	}
	if !strings.Contains(string(data), `sitelog_documents_total{result="valid"} 1`) {
		t.Errorf("Metrics missing document count:\n%s", data)
	}
}

func TestRunCheck_SourcesFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "abcd00usa_20231201.log", invalidSiteLog)
	configPath := writeFile(t, dir, "config.yaml", "sources:\n  - "+filepath.Join(dir, "*.log")+"\noutput:\n  format: json\n")

	out, err := execute(t, "check", "-c", configPath)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !json.Valid([]byte(out)) {
		t.Errorf("Configured json format not used:\n%s", out)
	}
	if ExitCode != ExitInvalid {
		t.Errorf("ExitCode = %d, want %d", ExitCode, ExitInvalid)
	}
}

func TestRunInspect_Text(t *testing.T) {
	path := writeFile(t, t.TempDir(), "abcd00usa_20240101.log", validSiteLog)

	out, err := execute(t, "inspect", "--bind", path)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	for _, e := range []string{"Site: ABCD00USA", "13 More Information", "primary = CDDIS", "[IGNORED]: Placeholder text"} {
		if !strings.Contains(out, e) {
			t.Errorf("Output missing %q\n%s", e, out)
		}
	}
}

func TestRunInspect_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "abcd00usa_20240101.log", invalidSiteLog)

	out, err := execute(t, "inspect", "-o", "json", "--bind", path)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}

	var doc struct {
		Valid    bool `json:"valid"`
		Sections []struct {
			Index      string             `json:"index"`
			Parameters []inspectParameter `json:"parameters"`
			Values     map[string]any     `json:"values"`
		} `json:"sections"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if doc.Valid {
		t.Error("document with missing parameters reported valid")
	}
	if len(doc.Sections) != 1 || doc.Sections[0].Index != "13" {
		t.Fatalf("Sections = %+v", doc.Sections)
	}
	if got := doc.Sections[0].Parameters[0].Name; got != "Primary Data Center" {
		t.Errorf("first parameter = %q", got)
	}
	if got := doc.Sections[0].Values["primary"]; got != "CDDIS" {
		t.Errorf("primary = %v, want CDDIS", got)
	}
}

func TestRunInspect_MissingFile(t *testing.T) {
	if _, err := execute(t, "inspect", "/nonexistent/site.log"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestStatusLine(t *testing.T) {
	res := &checker.Result{Path: "gone.log", Err: os.ErrNotExist}
	if got := statusLine(res); !strings.HasPrefix(got, "[FAILED] gone.log") {
		t.Errorf("statusLine() = %q", got)
	}
}

// syncBuffer guards a buffer shared with the watch loop.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchDir(t *testing.T) {
	dir := t.TempDir()
	l, err := binder.DefaultLookups()
	if err != nil {
		t.Fatal(err)
	}
	table, err := binder.DefaultTable(l)
	if err != nil {
		t.Fatal(err)
	}
	c := checker.New(table, checker.WithSiteNameFromFilename(true))

	ctx, cancel := context.WithCancel(context.Background())
	var out syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- watchDir(ctx, dir, c, &out, slog.New(slog.DiscardHandler))
	}()

	deadline := time.Now().Add(5 * time.Second)
	path := filepath.Join(dir, "abcd00usa_20240101.log")
	for !strings.Contains(out.String(), "[VALID] "+path) {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("no status line for %s, got:\n%s", path, out.String())
		}
		// Rewrite until the watcher has been registered and picks it up.
		writeFile(t, dir, "abcd00usa_20240101.log", validSiteLog)
		writeFile(t, dir, "notes.md", "ignored")
		time.Sleep(50 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watchDir() error = %v", err)
	}
	if strings.Contains(out.String(), "notes.md") {
		t.Error("non site log file was checked")
	}
}
