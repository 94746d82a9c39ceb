package parser

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writeSiteLogTree lays out an archive of site logs the way stations
// submit them: one directory per network plus stray non-log files.
func writeSiteLogTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := []string{
		"igs/abmf00glp_20240101.log",
		"igs/algo00can_20231120.log",
		"igs/README.md",
		"euref/brux00bel_20220315.log",
		"euref/zimm.txt",
		"euref/archive/brux00bel_20100101.log",
	}
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("0.   Form\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestExpandGlobs(t *testing.T) {
	root := writeSiteLogTree(t)
	at := func(rel ...string) []string {
		out := make([]string, len(rel))
		for i, r := range rel {
			out[i] = filepath.Join(root, r)
		}
		return out
	}

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "single log",
			patterns: at("igs/algo00can_20231120.log"),
			want:     at("igs/algo00can_20231120.log"),
		},
		{
			name:     "pattern over one network",
			patterns: at("igs/*.log"),
			want:     at("igs/abmf00glp_20240101.log", "igs/algo00can_20231120.log"),
		},
		{
			name:     "directory skips non logs and subdirectories",
			patterns: at("euref"),
			want:     at("euref/brux00bel_20220315.log", "euref/zimm.txt"),
		},
		{
			name:     "same station twice",
			patterns: at("igs/abmf00glp_20240101.log", "igs/abmf*"),
			want:     at("igs/abmf00glp_20240101.log"),
		},
		{
			name:     "patterns across networks come back sorted",
			patterns: at("igs/algo*", "euref/*/brux*", "igs/abmf*"),
			want: at(
				"euref/archive/brux00bel_20100101.log",
				"igs/abmf00glp_20240101.log",
				"igs/algo00can_20231120.log",
			),
		},
		{
			name:     "unmatched pattern kept for the caller",
			patterns: at("igs/zzzz00usa_*.log"),
			want:     at("igs/zzzz00usa_*.log"),
		},
		{
			name:     "no patterns",
			patterns: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandGlobs(tt.patterns)
			if err != nil {
				t.Fatalf("ExpandGlobs() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandGlobs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpandGlobs_InvalidPattern(t *testing.T) {
	_, err := ExpandGlobs([]string{"logs/[abmf00glp.log"})
	if err == nil {
		t.Error("ExpandGlobs() expected error for malformed pattern")
	}
}

func TestIsSiteLogPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"ABMF00GLP_20240101.log", true},
		{"zimm.TXT", true},
		{"logs/algo.Log", true},
		{"README.md", false},
		{"brux00bel_20220315.log.gz", false},
		{"algo", false},
	}
	for _, tt := range tests {
		if got := IsSiteLogPath(tt.path); got != tt.want {
			t.Errorf("IsSiteLogPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
