package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/sitelog/pkg/checker"
	"github.com/ccollicutt/sitelog/pkg/config"
	"github.com/ccollicutt/sitelog/pkg/metrics"
	"github.com/ccollicutt/sitelog/pkg/output"
	"github.com/ccollicutt/sitelog/pkg/parser"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// Exit codes.
const (
	ExitValid   = 0
	ExitInvalid = 1
	ExitFailure = 2
)

// CheckOptions holds command-line options for the check command.
type CheckOptions struct {
	Config           string
	Output           string
	SiteName         string
	NameFromFilename bool
	Concurrency      int
	MetricsFile      string
	Verbose          bool
	Quiet            bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check [paths|globs...]",
		Short: "Check site logs for errors",
		Long: `Parse and bind IGS site logs, reporting every line that needs review.

Paths may be files, directories or glob patterns. Without arguments the
sources listed in the configuration file are checked.

Exit codes:
  0 - Every site log is valid
  1 - At least one site log has errors
  2 - Configuration or read error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Configuration file")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.SiteName, "site-name", "", "Expected site name for every document")
	cmd.Flags().BoolVar(&opts.NameFromFilename, "name-from-filename", false, "Derive the expected site name from each file name")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "Documents checked in parallel (default from config)")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include bound values and ignored findings")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(ctx, opts.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyCheckFlags(cmd, cfg, opts)

	patterns := args
	if len(patterns) == 0 {
		patterns = cfg.Sources
	}
	if len(patterns) == 0 {
		return errors.New("no site logs given and no sources configured")
	}
	files, err := parser.ExpandGlobs(patterns)
	if err != nil {
		return fmt.Errorf("expanding sources: %w", err)
	}

	formatter, err := output.NewFormatter(string(cfg.Output.Format), output.FormatOptions{
		Verbose: cfg.Output.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	table, err := cfg.Table()
	if err != nil {
		return fmt.Errorf("building translation table: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Textfile != "" {
		if m, err = metrics.New(); err != nil {
			return err
		}
	}

	checkerOpts := []checker.Option{
		checker.WithLogger(logger),
		checker.WithMetrics(m),
		checker.WithConcurrency(cfg.Concurrency),
		checker.WithSiteNameFromFilename(cfg.SiteNameFromFilename),
	}
	if opts.SiteName != "" {
		checkerOpts = append(checkerOpts, checker.WithSiteName(opts.SiteName))
	}
	c := checker.New(table, checkerOpts...)

	run, err := c.CheckFiles(ctx, files)
	if err != nil {
		return err
	}

	report := output.NewReport(run, opts.Config)
	logger.Info("check run finished",
		"run_id", report.RunID,
		"documents", report.Summary.Documents,
		"invalid", report.Summary.Invalid,
		"failed", report.Summary.Failed,
		"duration", report.Metadata.Duration)

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		return err
	}

	ExitCode = exitCodeFor(report)
	return nil
}

// applyCheckFlags lets explicitly set flags override the configuration.
func applyCheckFlags(cmd *cobra.Command, cfg *config.Config, opts *CheckOptions) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output.Format = config.OutputFormat(opts.Output)
	}
	if opts.Verbose {
		cfg.Output.Verbose = true
	}
	if opts.NameFromFilename {
		cfg.SiteNameFromFilename = true
	}
	if opts.Concurrency > 0 {
		cfg.Concurrency = opts.Concurrency
	}
	if opts.MetricsFile != "" {
		cfg.Metrics.Textfile = opts.MetricsFile
	}
}

func exitCodeFor(report *output.Report) int {
	switch {
	case report.Summary.Failed > 0:
		return ExitFailure
	case report.Summary.Invalid > 0:
		return ExitInvalid
	}
	return ExitValid
}
