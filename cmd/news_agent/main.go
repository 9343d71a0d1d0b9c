// Package main provides the entry point for the news agent CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "news_agent",
	Short: "News intelligence agent",
	Long: `News Agent fetches news articles and produces structured AI intelligence briefs.

Analyze a single URL, batch process a list of URLs, crawl a news homepage for its
top stories, or serve the same workflows over HTTP.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
