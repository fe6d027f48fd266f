package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/wordcrawl/internal/clock"
	"github.com/nao1215/wordcrawl/internal/config"
	"github.com/nao1215/wordcrawl/internal/crawler"
	"github.com/nao1215/wordcrawl/internal/database"
	"github.com/nao1215/wordcrawl/internal/log"
	"github.com/nao1215/wordcrawl/internal/metrics"
	"github.com/nao1215/wordcrawl/internal/profiler"
	"github.com/nao1215/wordcrawl/internal/report"
	"github.com/spf13/cobra"
)

// crawlOptions are the command line settings of a crawl that are not part of the config file.
type crawlOptions struct {
	markdown    bool
	text        bool
	metricsFile string
	save        bool
	dbDir       string
}

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [config-file]",
		Short: "Crawl from the configured start pages and rank the words found",
		Long: `Crawl visits every page reachable from the configured start pages, within the
depth budget and the time limit, and ranks the words found on them.

Pages are fetched in parallel, at most one fetch per CPU at a time. A URL is
visited at most once per crawl. Pages that fail to load are logged and skipped.

When the crawl finishes, wordcrawl writes:
- The result (JSON by default) to resultPath or standard output
- The profiling data of the crawl to profileOutputPath or standard output
- A copy of the ranking to the local run archive (see 'wordcrawl history')

When no config file is given, wordcrawl.json is looked up in the current
directory and then in the XDG config directory.

Examples:
  # Crawl with wordcrawl.json from the current directory
  wordcrawl crawl

  # Crawl with a specific config and a Markdown report
  wordcrawl crawl -m crawls/golang.json

  # Append the result to a file and export crawl counters
  wordcrawl crawl -o results.json --metrics-file /var/lib/node_exporter/wordcrawl.prom`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCrawlCmd,
	}

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Append the result to this file (overrides resultPath)")
	cmd.Flags().StringP("profile-output", "p", "",
		"Append profiling data to this file (overrides profileOutputPath)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the result as a Markdown report")
	cmd.Flags().BoolP("text", "t", false,
		"Output the result as plain text")
	cmd.MarkFlagsMutuallyExclusive("markdown", "text")
	cmd.Flags().String("metrics-file", "",
		"Write crawl counters to this file in the Prometheus text format")

	// Archive flags
	cmd.Flags().Bool("no-save", false,
		"Do not save the run to the local archive")
	cmd.Flags().String("db-dir", "",
		"Directory of the run archive (default: XDG data directory)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	var explicitPath string
	if len(args) > 0 {
		explicitPath = args[0]
	}
	cfg, err := loadConfig(explicitPath)
	if err != nil {
		return err
	}

	opts, err := buildCrawlOptions(cmd, cfg)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, opts, cmd.OutOrStdout(), logger)
}

// loadConfig finds and loads the configuration file.
func loadConfig(explicitPath string) (*config.Config, error) {
	path := config.FindConfigFile(explicitPath)
	if path == "" {
		if explicitPath != "" {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicitPath)
		}
		return nil, fmt.Errorf("%w (run 'wordcrawl init' to create %s)",
			config.ErrConfigNotFound, config.DefaultConfigFile)
	}
	return config.Load(path)
}

// buildCrawlOptions applies the command line flags to cfg and collects the rest.
func buildCrawlOptions(cmd *cobra.Command, cfg *config.Config) (crawlOptions, error) {
	var (
		opts crawlOptions
		err  error
	)

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return opts, err
	}
	if output != "" {
		cfg.ResultPath = output
	}

	profileOutput, err := cmd.Flags().GetString("profile-output")
	if err != nil {
		return opts, err
	}
	if profileOutput != "" {
		cfg.ProfileOutputPath = profileOutput
	}

	if opts.markdown, err = cmd.Flags().GetBool("markdown"); err != nil {
		return opts, err
	}
	if opts.text, err = cmd.Flags().GetBool("text"); err != nil {
		return opts, err
	}
	if opts.metricsFile, err = cmd.Flags().GetString("metrics-file"); err != nil {
		return opts, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return opts, err
	}
	opts.save = !noSave

	if opts.dbDir, err = cmd.Flags().GetString("db-dir"); err != nil {
		return opts, err
	}
	if opts.dbDir == "" {
		opts.dbDir = config.XDGDataDir()
	}

	return opts, nil
}

// runCrawl runs one crawl and writes its result, profile and metrics.
// An interrupted crawl still reports its partial result but is not archived.
func runCrawl(ctx context.Context, cfg *config.Config, opts crawlOptions, stdout io.Writer, logger *slog.Logger) error {
	prof := profiler.New(clock.NewSystem())
	recorder := metrics.NewRecorder()

	webCrawler, err := newWebCrawler(cfg, prof, recorder, logger)
	if err != nil {
		return err
	}

	implementation := implementationName(cfg)
	logger.Info("starting crawl",
		"startPages", cfg.StartPages,
		"implementation", implementation,
		"maxParallelism", webCrawler.MaxParallelism(),
		"maxDepth", cfg.MaxDepth,
		"timeout", cfg.Timeout(),
	)

	result, crawlErr := webCrawler.Crawl(ctx, cfg.StartPages)
	if crawlErr != nil {
		logger.Warn("crawl interrupted, reporting partial result", "error", crawlErr)
	}

	summary := &report.Summary{
		StartPages:     cfg.StartPages,
		Implementation: implementation,
		StartedAt:      prof.StartTime(),
		Result:         result,
	}

	if opts.save && crawlErr == nil {
		if err := saveRun(ctx, opts.dbDir, summary, logger); err != nil {
			// Archiving is best effort.
			logger.Error("failed to archive run", "error", err)
		}
	}

	if err := writeResult(cfg.ResultPath, stdout, opts, summary); err != nil {
		return err
	}
	if err := writeProfile(prof, cfg.ProfileOutputPath, stdout); err != nil {
		return err
	}
	if opts.metricsFile != "" {
		if err := ensureParentDir(opts.metricsFile); err != nil {
			return err
		}
		if err := recorder.WriteTextfile(opts.metricsFile); err != nil {
			return err
		}
	}

	if crawlErr != nil {
		return fmt.Errorf("crawl interrupted: %w", crawlErr)
	}
	return nil
}

// newWebCrawler builds the configured crawler with a profiled parser,
// and profiles the crawler itself.
func newWebCrawler(cfg *config.Config, prof *profiler.Profiler, recorder *metrics.Recorder, logger *slog.Logger) (crawler.WebCrawler, error) {
	ignoredWords, err := cfg.IgnoredWordPatterns()
	if err != nil {
		return nil, err
	}
	ignoredURLs, err := cfg.IgnoredURLPatterns()
	if err != nil {
		return nil, err
	}

	parser, err := profiler.Wrap(prof, crawler.ParserCapability(), crawler.PageParser(crawler.NewHTMLParser(
		crawler.WithUserAgent("wordcrawl/"+getVersion()),
		crawler.WithIgnoredWords(ignoredWords),
		crawler.WithHostHeaders(cfg.HostHeaders()),
	)))
	if err != nil {
		return nil, fmt.Errorf("failed to profile page parser: %w", err)
	}

	crawlOpts := []crawler.Option{
		crawler.WithTimeout(cfg.Timeout()),
		crawler.WithMaxDepth(cfg.MaxDepth),
		crawler.WithPopularWordCount(cfg.PopularWordCount),
		crawler.WithIgnoredURLs(ignoredURLs),
		crawler.WithParallelism(cfg.Parallelism),
		crawler.WithLogger(logger),
		crawler.WithMetrics(recorder),
	}

	var delegate crawler.WebCrawler
	if cfg.Sequential() {
		delegate, err = crawler.NewSequential(parser, crawlOpts...)
	} else {
		delegate, err = crawler.NewParallel(parser, crawlOpts...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create crawler: %w", err)
	}

	profiled, err := profiler.Wrap(prof, crawler.CrawlerCapability(), delegate)
	if err != nil {
		return nil, fmt.Errorf("failed to profile crawler: %w", err)
	}
	return profiled, nil
}

// implementationName returns the crawler selected by cfg.
func implementationName(cfg *config.Config) string {
	if cfg.Sequential() {
		return config.ImplementationSequential
	}
	return config.ImplementationParallel
}

// saveRun archives the summary and records the run ID in it.
func saveRun(ctx context.Context, dbDir string, summary *report.Summary, logger *slog.Logger) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, &database.Run{
		StartedAt:      summary.StartedAt,
		Implementation: summary.Implementation,
		StartPages:     summary.StartPages,
		URLsVisited:    summary.Result.URLsVisited,
		Elapsed:        summary.Result.Elapsed,
		Words:          summary.Result.WordCounts,
	})
	if err != nil {
		return err
	}

	summary.RunID = id
	logger.Info("run archived", "id", id, "db", db.Path())
	return nil
}

// newReportWriter returns the writer for the requested report format.
func newReportWriter(w io.Writer, opts crawlOptions) report.Writer {
	switch {
	case opts.markdown:
		return report.NewMarkdownWriter(w)
	case opts.text:
		return report.NewTextWriter(w)
	default:
		return report.NewJSONWriter(w)
	}
}

// writeResult appends the report to path, or writes it to stdout when path is empty.
func writeResult(path string, stdout io.Writer, opts crawlOptions, summary *report.Summary) (err error) {
	out := stdout
	if path != "" {
		f, openErr := openAppend(path)
		if openErr != nil {
			return fmt.Errorf("failed to open result file: %w", openErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("failed to close result file: %w", cerr))
			}
		}()
		out = f
	}

	if _, err := newReportWriter(out, opts).Write(summary); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

// writeProfile appends the profiling data to path, or writes it to stdout when path is empty.
func writeProfile(prof *profiler.Profiler, path string, stdout io.Writer) error {
	if path == "" {
		return prof.WriteData(stdout)
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}
	return prof.WriteFile(path)
}

// openAppend opens path for appending, creating it and its parent directories if needed.
func openAppend(path string) (*os.File, error) {
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // user-provided output path
}
