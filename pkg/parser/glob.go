package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SiteLogExtensions are the file extensions picked up when a directory is
// given instead of a file.
var SiteLogExtensions = []string{".log", ".txt"}

// ExpandGlobs expands file paths, directories and glob patterns into a
// deduplicated, sorted list of site log paths. A directory contributes the
// site log files directly inside it. Patterns that match nothing are kept
// as-is so the caller reports a useful file-not-found error.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			add(pattern)
			continue
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || !info.IsDir() {
				add(match)
				continue
			}
			files, err := siteLogsIn(match)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				add(f)
			}
		}
	}

	sort.Strings(result)
	return result, nil
}

// IsSiteLogPath reports whether path has a site log extension.
func IsSiteLogPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SiteLogExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func siteLogsIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && IsSiteLogPath(e.Name()) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}
