package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for pagesift.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pagesift",
		Short: "Same-domain breadth-first web crawler and content extractor",
		Long: `pagesift crawls a website breadth-first starting from a seed URL,
staying within the seed's domain, and extracts text from each page by
tag/optional-class selectors. Results are written as a JSON array in
crawl order.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewRunsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
