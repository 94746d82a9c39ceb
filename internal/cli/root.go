// Package cli provides the command-line interface for sitelog.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/sitelog/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return commands.ExitFailure
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "sitelog",
		Short: "Check IGS site logs",
		Long: `sitelog parses IGS GNSS station site logs, the legacy fixed-width text
forms describing a station's monument, receivers, antennas and contacts.

Every line that needs attention is reported next to its line number:
  - Errors: values that could not be converted or required parameters missing
  - Warnings: unexpected sections or parameters, values that were reinterpreted
  - Ignored: template placeholders and example sections`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := commands.ParseLogLevel(logLevel)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", commands.DefaultLogLevel,
		"Log level (error, warn, info, debug, trace)")

	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewWatchCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
