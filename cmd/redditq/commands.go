package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/qepting91/reddit-query/internal/collector"
	"github.com/qepting91/reddit-query/internal/config"
	"github.com/qepting91/reddit-query/internal/dashboard"
	"github.com/qepting91/reddit-query/internal/domain"
	"github.com/qepting91/reddit-query/internal/ingest"
	"github.com/qepting91/reddit-query/internal/report"
	"github.com/qepting91/reddit-query/internal/storage"
	"github.com/spf13/cobra"
)

const usageMessage = "Please pass an argument for the subreddit to search."

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "redditq",
		Short:         "Query subreddit subscriber counts and hot post titles",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.AddCommand(
		newSubscribersCmd(out),
		newTopCmd(out),
		newChartCmd(out),
	)
	return root
}

func newSubscribersCmd(out io.Writer) *cobra.Command {
	var targets string

	cmd := &cobra.Command{
		Use:     "subscribers [subreddit]",
		Aliases: []string{"subs"},
		Short:   "Print the subscriber count of a subreddit (0 when unavailable)",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && targets == "" {
				fmt.Fprintln(out, usageMessage)
				return nil
			}

			runner, err := newRunner(out, false)
			if err != nil {
				return err
			}

			if targets != "" {
				subs, err := ingest.LoadTargets(targets)
				if err != nil {
					return fmt.Errorf("load targets: %w", err)
				}
				return runner.SubscribersBatch(cmd.Context(), subs)
			}
			return runner.Subscribers(cmd.Context(), args[0])
		},
	}
	cmd.Flags().StringVar(&targets, "targets", "", "CSV file of subreddit names to query in order")
	return cmd
}

func newTopCmd(out io.Writer) *cobra.Command {
	var (
		targets string
		limit   int
	)

	cmd := &cobra.Command{
		Use:     "top [subreddit]",
		Aliases: []string{"top-ten", "hot"},
		Short:   "Print the titles of the first hot posts of a subreddit (None when unavailable)",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && targets == "" {
				fmt.Fprintln(out, usageMessage)
				return nil
			}

			runner, err := newRunner(out, true)
			if err != nil {
				return err
			}
			if limit != 0 {
				runner.Limit = config.ClampLimit(limit)
			}

			if targets != "" {
				subs, err := ingest.LoadTargets(targets)
				if err != nil {
					return fmt.Errorf("load targets: %w", err)
				}
				return runner.TopBatch(cmd.Context(), subs)
			}
			return runner.Top(cmd.Context(), args[0])
		},
	}
	cmd.Flags().StringVar(&targets, "targets", "", "CSV file of subreddit names to query in order")
	cmd.Flags().IntVar(&limit, "limit", 0, "number of hot posts to read (default HOT_LIMIT or 10)")
	return cmd
}

func newChartCmd(out io.Writer) *cobra.Command {
	var history, dest string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render recorded subscriber counts as an HTML bar chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if history == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				history = cfg.HistoryFile
			}
			if history == "" {
				return fmt.Errorf("no history file: pass --history or set HISTORY_FILE")
			}

			records, err := storage.ReadRecords(history)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}

			var page bytes.Buffer
			if err := dashboard.RenderSubscribers(&page, records); err != nil {
				return err
			}

			if dir := filepath.Dir(dest); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			if err := os.WriteFile(dest, page.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write chart: %w", err)
			}
			fmt.Fprintln(out, dest)
			return nil
		},
	}
	cmd.Flags().StringVar(&history, "history", "", "NDJSON history file (default HISTORY_FILE)")
	cmd.Flags().StringVar(&dest, "out", "subscribers.html", "HTML file to write")
	return cmd
}

// loadConfig reads the environment and installs the JSON logger on stderr.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return cfg, nil
}

// newRunner builds the runner for one command. Only hot-post commands honour
// checker mode; subscriber counts always come from the configured collector.
func newRunner(out io.Writer, checker bool) (*report.Runner, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	var client domain.Collector
	if checker && cfg.Checker {
		client = collector.NewMockClient()
	} else {
		client, err = collector.NewCollector(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize collector: %w", err)
		}
	}
	slog.Debug("collector initialized", "mode", cfg.Mode, "checker", checker && cfg.Checker)

	runner := &report.Runner{Collector: client, Out: out, Limit: cfg.HotLimit}
	if cfg.HistoryFile != "" {
		runner.History = &storage.WriterService{FilePath: cfg.HistoryFile}
	}
	return runner, nil
}
