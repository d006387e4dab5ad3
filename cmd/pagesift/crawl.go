package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagesift/pagesift/internal/config"
	"github.com/pagesift/pagesift/internal/crawler"
	"github.com/pagesift/pagesift/internal/database"
	pslog "github.com/pagesift/pagesift/internal/log"
	"github.com/pagesift/pagesift/internal/model"
	"github.com/pagesift/pagesift/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <seed-url>",
		Short: "Crawl a site and extract content by tag/class selectors",
		Long: `Crawl performs a breadth-first crawl starting from the seed URL,
restricted to the seed's domain. Each fetched page is matched against the
configured selectors; the extracted text and the page's internal links are
recorded, and newly discovered same-domain links expand the crawl until the
page budget is exhausted.

The result is written as a pretty-printed JSON array: one object per page
with one key per selector tag plus a "links" key.

Examples:
  # Extract all h1 headings and intro paragraphs
  pagesift crawl --select h1 --select p.intro https://example.com

  # Limit the crawl to 10 pages and write to a custom path
  pagesift crawl -s h1 -p 10 -o headings.json https://example.com

  # Crawl four pages at a time
  pagesift crawl -s h1 --workers 4 https://example.com

Configuration file (.pagesift.yaml) example:
  selectors:
    h1:
    p: intro
  maxPages: 25
  crawlDelay: 1s`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	// Extraction flags
	cmd.Flags().StringArrayP("select", "s", nil,
		`Selector to extract, "tag" or "tag.class" (repeatable, ordered)`)

	// Crawl behavior flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of pages to fetch")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each request")
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Politeness delay between requests")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header to send")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Concurrent fetches (1 = strictly sequential)")

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"File path for the JSON result array")
	cmd.Flags().String("summary", "",
		"Optional file path for a Markdown run summary")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pagesift.yaml in current or home directory)")

	// History database
	cmd.Flags().Bool("no-db", false,
		"Skip recording the run in the crawl-history database")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Cancel the crawl on interrupt signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// buildConfig creates a Config by layering defaults, the optional config
// file, and CLI flags (flags win).
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.SeedURL = args[0]

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configPath

	// If the user explicitly specified a config file, error if not found.
	// Otherwise silently continue without one.
	foundPath := config.FindConfigFile(configPath)
	if foundPath != "" {
		file, err := config.LoadConfigFile(foundPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", foundPath, err)
		}
		file.Apply(cfg)
	} else if configPath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// applyFlags copies explicitly set flags onto cfg, overriding file values.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("select") {
		specs, err := flags.GetStringArray("select")
		if err != nil {
			return err
		}
		selectors, err := config.ParseSelectors(specs)
		if err != nil {
			return err
		}
		cfg.Selectors = selectors
	}

	if flags.Changed("max-pages") {
		v, err := flags.GetInt("max-pages")
		if err != nil {
			return err
		}
		cfg.MaxPages = v
	}

	if flags.Changed("timeout") {
		v, err := flags.GetDuration("timeout")
		if err != nil {
			return err
		}
		cfg.Timeout = v
	}

	if flags.Changed("delay") {
		v, err := flags.GetDuration("delay")
		if err != nil {
			return err
		}
		cfg.CrawlDelay = v
	}

	if flags.Changed("user-agent") {
		v, err := flags.GetString("user-agent")
		if err != nil {
			return err
		}
		cfg.UserAgent = v
	}

	if flags.Changed("max-body-size") {
		v, err := flags.GetInt64("max-body-size")
		if err != nil {
			return err
		}
		cfg.MaxBodySize = v
	}

	if flags.Changed("workers") {
		v, err := flags.GetInt("workers")
		if err != nil {
			return err
		}
		cfg.Workers = v
	}

	output, err := flags.GetString("output")
	if err != nil {
		return err
	}
	if output != "" {
		cfg.OutputFile = output
	}

	summary, err := flags.GetString("summary")
	if err != nil {
		return err
	}
	cfg.SummaryFile = summary

	noDB, err := flags.GetBool("no-db")
	if err != nil {
		return err
	}
	cfg.SaveToDB = !noDB

	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger based on verbosity setting.
// The handler is wrapped so URLs with embedded credentials are masked.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := pslog.NewRedactHandler(slog.NewTextHandler(os.Stderr, opts))
	return slog.New(handler)
}

// runCrawl executes the crawl and writes its outputs.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client := &http.Client{Timeout: cfg.Timeout}

	fetcher := crawler.NewFetcher(client,
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
	)

	spider := crawler.NewSpider(fetcher,
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithCrawlDelay(cfg.CrawlDelay),
		crawler.WithWorkers(cfg.Workers),
		crawler.WithLogger(logger),
	)

	fmt.Printf("Crawling %s (budget: %d pages)...\n", cfg.SeedURL, cfg.MaxPages)
	startTime := time.Now()

	crawl, err := spider.Crawl(ctx, cfg.SeedURL, cfg.Selectors)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Crawled %d pages in %s (%d fetch failures)\n",
		len(crawl.Pages), elapsed.Round(time.Millisecond), len(crawl.Failures))

	// The JSON sink is the crawl's deliverable: a write failure is the
	// run's terminal outcome. The optional Markdown summary is written in
	// the same pass through a MultiWriter.
	if err := writeReports(cfg, crawl); err != nil {
		return err
	}
	fmt.Printf("Results written to %s\n", cfg.OutputFile)
	if cfg.SummaryFile != "" {
		fmt.Printf("Summary written to %s\n", cfg.SummaryFile)
	}

	if cfg.SaveToDB {
		if err := saveCrawl(ctx, cfg, crawl, logger); err != nil {
			// History is best effort; the deliverable already exists.
			logger.Error("failed to save crawl to history database", "error", err)
		}
	}

	return nil
}

// writeReports writes the crawl to the JSON sink and, when configured, the
// Markdown summary, fanned out through a single MultiWriter pass.
func writeReports(cfg *config.Config, crawl *model.Crawl) error {
	files := make([]*os.File, 0, 2)
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()

	jsonFile, err := createReportFile(cfg.OutputFile)
	if err != nil {
		return err
	}
	files = append(files, jsonFile)
	writers := []report.Writer{report.NewJSONWriter(jsonFile)}

	if cfg.SummaryFile != "" {
		summaryFile, err := createReportFile(cfg.SummaryFile)
		if err != nil {
			return err
		}
		files = append(files, summaryFile)
		writers = append(writers, report.NewMarkdownWriter(summaryFile))
	}

	if _, err := report.NewMultiWriter(writers...).Write(crawl); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	for _, f := range files {
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to flush results: %w", err)
		}
	}
	files = nil

	return nil
}

// createReportFile creates (or truncates) a report destination, creating
// parent directories as needed.
func createReportFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644) //nolint:gosec // Crawl output is not sensitive
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// saveCrawl records the finished run in the crawl-history database.
func saveCrawl(ctx context.Context, cfg *config.Config, crawl *model.Crawl, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	runID, err := db.SaveCrawl(ctx, crawl)
	if err != nil {
		return err
	}

	logger.Info("crawl saved to history database", "runID", runID, "dir", cfg.DBDir)
	return nil
}
