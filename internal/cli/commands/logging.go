package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/sitelog/pkg/parser"
)

// DefaultLogLevel is used when --log-level is not given.
const DefaultLogLevel = "warn"

// ParseLogLevel maps a --log-level value to a slog level. "trace" enables
// the per-line parser records.
func ParseLogLevel(s string) (slog.Level, error) {
	if strings.EqualFold(s, "trace") {
		return parser.LevelTrace, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q (error, warn, info, debug, trace)", s)
	}
	return l, nil
}

// newLogger builds the command's logger from the inherited --log-level flag,
// writing to the command's stderr.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level := DefaultLogLevel
	if f := cmd.Flags().Lookup("log-level"); f != nil {
		level = f.Value.String()
	}
	l, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: l})), nil
}
