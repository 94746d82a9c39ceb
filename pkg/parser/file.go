package parser

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

// maxLineSize bounds a single physical line.
const maxLineSize = 1024 * 1024

// ReadFile reads a site log into lines. Cancellation is checked between
// lines so very large inputs can be abandoned.
func ReadFile(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening site log %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}

// ParseFile reads and parses a site log.
func ParseFile(ctx context.Context, path string, opts ...Option) (*SiteLog, error) {
	lines, err := ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return ParseLines(lines, opts...), nil
}
