package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagesift/pagesift/internal/config"
	"github.com/pagesift/pagesift/internal/database"
)

// NewRunsCmd creates the runs command.
func NewRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List past crawl runs from the history database",
		Long: `Runs lists recent crawl runs recorded in the local history database,
newest first: the seed URL, when the crawl ran, and how many pages it
fetched. Runs are recorded automatically unless a crawl used --no-db.

With --show, runs prints the stored per-page results of one run instead.`,
		Args: cobra.NoArgs,
		RunE: runRunsCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list")
	cmd.Flags().Int64("show", 0, "Show the stored pages of the run with this ID")

	return cmd
}

// runRunsCmd executes the runs command.
func runRunsCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}

	// Require the database to exist; listing should not create an empty one.
	db, err := database.Open(config.XDGDataDir(), database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no crawl history found (run a crawl first): %w", err)
	}
	defer db.Close()

	if showID > 0 {
		return showRun(cmd.Context(), db, cmd.OutOrStdout(), showID)
	}
	return listRuns(cmd.Context(), db, cmd.OutOrStdout(), limit)
}

// listRuns prints recent runs, newest first.
func listRuns(ctx context.Context, db *database.CrawlDB, out io.Writer, limit int) error {
	records, err := db.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No crawl runs recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "%-5s %-40s %-20s %8s %8s\n", "ID", "SEED", "STARTED", "PAGES", "FAILED")
	for _, r := range records {
		seed := r.Seed
		if len(seed) > 40 {
			seed = seed[:37] + "..."
		}
		fmt.Fprintf(out, "%-5d %-40s %-20s %8d %8d\n",
			r.ID,
			seed,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Pages,
			r.Failures,
		)
	}

	return nil
}

// showRun prints the stored per-page results of one run, in crawl order.
func showRun(ctx context.Context, db *database.CrawlDB, out io.Writer, runID int64) error {
	pages, err := db.GetRunPages(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load run %d: %w", runID, err)
	}

	if len(pages) == 0 {
		fmt.Fprintf(out, "No pages stored for run %d.\n", runID)
		return nil
	}

	for i, page := range pages {
		fmt.Fprintf(out, "%d. %s\n", i+1, page.URL)
		for _, field := range page.Fields {
			fmt.Fprintf(out, "   %s: %s\n", field.Name, strings.Join(field.Values, " | "))
		}
		fmt.Fprintf(out, "   links: %d\n", len(page.Links))
	}

	return nil
}
