package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/news-agent/internal/types"
)

var (
	crawlSite  string
	crawlLimit int
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl a news homepage and analyze its top stories",
	Long:  "Discovers article links on a news homepage, keeps the first articles with substantial text, and prints a brief for each.",
	RunE:  runCrawl,
}

func init() {
	crawlCmd.Flags().StringVarP(&crawlSite, "site", "s", "", "News homepage URL, e.g. https://bbc.com (required)")
	crawlCmd.Flags().IntVarP(&crawlLimit, "limit", "n", types.DefaultCrawlLimit, fmt.Sprintf("Maximum articles to analyze (1-%d)", types.MaxCrawlLimit))
	if err := crawlCmd.MarkFlagRequired("site"); err != nil {
		panic(fmt.Sprintf("failed to mark site flag as required: %v", err))
	}
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	req := types.CrawlRequest{SiteURL: crawlSite, Limit: crawlLimit}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid crawl request: %w", err)
	}

	a, err := newApp(cmd.Context(), cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Fprintf(cmd.ErrOrStderr(), "Crawling %s for top stories...\n", req.SiteURL)
	items, err := a.withProgress().Crawl(cmd.Context(), req)
	if err != nil {
		return err
	}
	a.printer.PrintCrawl(items)
	return nil
}
