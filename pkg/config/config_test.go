package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccollicutt/sitelog/pkg/parser"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
sources:
  - logs/*.log
site_name_from_filename: true
concurrency: 8
equipment:
  antennas: ["CUSTOM_ANT"]
  satellite_systems:
    - name: GPS
      aliases: [NAVSTAR]
vocabularies:
  country:
    aliases:
      US: ["U.S.A."]
output:
  format: json
  verbose: true
`
	path := writeTempFile(t, "config.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Sources) != 1 {
		t.Errorf("Sources = %d, want 1", len(cfg.Sources))
	}
	if !cfg.SiteNameFromFilename {
		t.Error("SiteNameFromFilename = false, want true")
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", cfg.Concurrency)
	}
	if !cfg.Equipment.Builtin {
		t.Error("Equipment.Builtin should default to true")
	}
	if cfg.Output.Format != OutputJSON || !cfg.Output.Verbose {
		t.Errorf("Output = %+v", cfg.Output)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	content := `invalid: yaml: content: [`
	path := writeTempFile(t, "invalid.yaml", content)
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoadOrDefault_NoPath(t *testing.T) {
	cfg, err := LoadOrDefault(context.Background(), "")
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency = %d, want %d", cfg.Concurrency, DefaultConcurrency)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency = %d, want %d", cfg.Concurrency, DefaultConcurrency)
	}
	if cfg.Output.Format != OutputText {
		t.Errorf("Format = %q, want text", cfg.Output.Format)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate(DefaultConfig()) error = %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty source",
			mutate:  func(c *Config) { c.Sources = []string{"a.log", " "} },
			wantErr: "sources[1]",
		},
		{
			name:    "negative concurrency",
			mutate:  func(c *Config) { c.Concurrency = -1 },
			wantErr: "concurrency",
		},
		{
			name:    "bad format",
			mutate:  func(c *Config) { c.Output.Format = "xml" },
			wantErr: `output.format: invalid format "xml"`,
		},
		{
			name:    "empty antenna",
			mutate:  func(c *Config) { c.Equipment.Antennas = []string{"A", "B", "C", ""} },
			wantErr: "equipment.antennas[3]: empty model name",
		},
		{
			name:    "no builtin and no models",
			mutate:  func(c *Config) { c.Equipment.Builtin = false },
			wantErr: "equipment.builtin",
		},
		{
			name: "unknown vocabulary",
			mutate: func(c *Config) {
				c.Vocabularies = map[string]VocabularyConfig{"colours": {}}
			},
			wantErr: "vocabularies.colours: unknown vocabulary",
		},
		{
			name: "alias for unknown value",
			mutate: func(c *Config) {
				c.Vocabularies = map[string]VocabularyConfig{"tectonic_plate": {Aliases: map[string][]string{"XX": {"nowhere"}}}}
			},
			wantErr: "vocabularies.tectonic_plate",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Defaults(t *testing.T) {
	cfg := &Config{Equipment: EquipmentConfig{Builtin: true}}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Concurrency != DefaultConcurrency {
		t.Errorf("Concurrency = %d, want default", cfg.Concurrency)
	}
	if cfg.Output.Format != DefaultFormat {
		t.Errorf("Format = %q, want default", cfg.Output.Format)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvConcurrency, "2")
	t.Setenv(EnvOutputFormat, "json")
	t.Setenv(EnvMetricsFile, "/tmp/sitelog.prom")

	path := writeTempFile(t, "config.yaml", "concurrency: 16\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Concurrency != 2 {
		t.Errorf("Concurrency = %d, want 2", cfg.Concurrency)
	}
	if cfg.Output.Format != OutputJSON {
		t.Errorf("Format = %q, want json", cfg.Output.Format)
	}
	if cfg.Metrics.Textfile != "/tmp/sitelog.prom" {
		t.Errorf("Textfile = %q", cfg.Metrics.Textfile)
	}
}

func TestRegistry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Equipment.Antennas = []string{"CUSTOM_ANT"}
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("Registry() error = %v", err)
	}
	if _, ok := reg.Antennas().Find("custom_ant"); !ok {
		t.Error("configured antenna not registered")
	}
	if _, ok := reg.Antennas().Find("TRM59800.00"); !ok {
		t.Error("built-in antenna missing")
	}

	cfg.Equipment.Builtin = false
	reg, err = cfg.Registry()
	if err != nil {
		t.Fatalf("Registry() error = %v", err)
	}
	if _, ok := reg.Antennas().Find("TRM59800.00"); ok {
		t.Error("built-in antenna present with builtin disabled")
	}
}

func TestVocabularySet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Vocabularies = map[string]VocabularyConfig{
		"country": {Aliases: map[string][]string{"US": {"U.S.A."}}},
	}
	set, err := cfg.VocabularySet()
	if err != nil {
		t.Fatalf("VocabularySet() error = %v", err)
	}
	countries, ok := set.Get("country")
	if !ok {
		t.Fatal("country vocabulary missing")
	}
	if got, ok := countries.Match("u.s.a."); !ok || got != "US" {
		t.Errorf("Match(u.s.a.) = %q, %v, want US", got, ok)
	}

	cfg.Vocabularies = map[string]VocabularyConfig{"colours": {}}
	if _, err := cfg.VocabularySet(); err == nil {
		t.Error("expected error for unknown vocabulary")
	}
}

func TestTable_UsesVocabularyAliases(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Vocabularies = map[string]VocabularyConfig{
		"tectonic_plate": {Aliases: map[string][]string{"EU": {"Eurasia"}}},
	}
	table, err := cfg.Table()
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	section, ok := table.Section(parser.HeadingIndex{Section: 2})
	if !ok {
		t.Fatal("section 2 table missing")
	}
	tr, ok := section.Lookup(parser.Normalize("Tectonic Plate"))
	if !ok {
		t.Fatal("Tectonic Plate translation missing")
	}
	res, err := tr[0].Converter.Convert("Eurasia")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if res.Value != "EU" {
		t.Errorf("Value = %v, want EU", res.Value)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("TEST_METRICS_PATH", "/var/lib/node_exporter/sitelog.prom")

	tests := []struct {
		input string
		want  string
	}{
		{"${TEST_METRICS_PATH}", "/var/lib/node_exporter/sitelog.prom"},
		{"$TEST_METRICS_PATH", "/var/lib/node_exporter/sitelog.prom"},
		{"plain-value", "plain-value"},
		{"", ""},
		{"${NONEXISTENT_VAR}", ""},
	}

	for _, tt := range tests {
		got := expandEnvVar(tt.input)
		if got != tt.want {
			t.Errorf("expandEnvVar(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}
