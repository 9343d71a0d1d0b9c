package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeURL string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fetch one article and print its intelligence brief",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeURL, "url", "u", "", "Article URL (required)")
	if err := analyzeCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context(), cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	item := a.withProgress().Single(cmd.Context(), analyzeURL)
	a.printer.PrintItem(item)
	if a.cfg.Verbose {
		a.printer.PrintArticleText(item.Record)
	}
	return nil
}
