package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/fsnotify.v1"

	"github.com/ccollicutt/sitelog/pkg/checker"
	"github.com/ccollicutt/sitelog/pkg/config"
	"github.com/ccollicutt/sitelog/pkg/finding"
	"github.com/ccollicutt/sitelog/pkg/parser"
)

// WatchOptions holds command-line options for the watch command.
type WatchOptions struct {
	Config           string
	NameFromFilename bool
	Initial          bool
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Re-check site logs as they change",
		Long: `Watch a directory and re-check every site log (.log or .txt) that is
created or written, printing one status line per document. Runs until
interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Configuration file")
	cmd.Flags().BoolVar(&opts.NameFromFilename, "name-from-filename", false, "Derive the expected site name from each file name")
	cmd.Flags().BoolVar(&opts.Initial, "initial", true, "Check existing site logs before watching")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, opts *WatchOptions) error {
	dir := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(ctx, opts.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	table, err := cfg.Table()
	if err != nil {
		return fmt.Errorf("building translation table: %w", err)
	}
	c := checker.New(table,
		checker.WithLogger(logger),
		checker.WithSiteNameFromFilename(opts.NameFromFilename || cfg.SiteNameFromFilename))

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	w := cmd.OutOrStdout()
	if opts.Initial {
		files, err := parser.ExpandGlobs([]string{dir})
		if err != nil {
			return err
		}
		run, err := c.CheckFiles(ctx, files)
		if err != nil {
			return err
		}
		for _, res := range run.Results {
			fmt.Fprintln(w, statusLine(res))
		}
	}

	return watchDir(ctx, dir, c, w, logger)
}

// watchDir re-checks site logs in dir on create and write events until ctx
// ends.
func watchDir(ctx context.Context, dir string, c *checker.Checker, w io.Writer, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}
	logger.Info("watching for site logs", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 || !parser.IsSiteLogPath(event.Name) {
				continue
			}
			logger.Debug("site log changed", "file", event.Name, "op", event.Op.String())

			res, err := c.CheckFile(ctx, filepath.Clean(event.Name))
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				// Removed or renamed before it could be read.
				logger.Warn("could not check site log", "file", event.Name, "error", err)
				continue
			}
			fmt.Fprintln(w, statusLine(res))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "error", err)
		}
	}
}

func statusLine(res *checker.Result) string {
	if res.Err != nil {
		return fmt.Sprintf("[FAILED] %s: %v", res.Path, res.Err)
	}
	status := "VALID"
	if !res.Valid() {
		status = "INVALID"
	}
	return fmt.Sprintf("[%s] %s site=%s errors=%d warnings=%d",
		status, res.Path, res.Log.SiteName, res.Count(finding.Error), res.Count(finding.Warning))
}
