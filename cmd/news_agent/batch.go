package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/news-agent/internal/observability"
	"github.com/jonathan/news-agent/internal/pipeline"
)

var batchFile string

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze every URL in a file, one per line",
	Long:  `Reads URLs one per line from --file (use "-" for stdin). Blank lines are ignored; a URL that fails to load is reported and the batch continues.`,
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", `File with one URL per line, or "-" for stdin (required)`)
	if err := batchCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
	rootCmd.AddCommand(batchCmd)
}

// readURLBlob reads the batch input from path, or from stdin when path is "-".
func readURLBlob(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read URL file %s: %w", path, err)
	}
	return string(data), nil
}

func runBatch(cmd *cobra.Command, _ []string) error {
	blob, err := readURLBlob(batchFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if len(pipeline.ParseURLList(blob)) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), observability.NoURLsMessage)
		return nil
	}

	a, err := newApp(cmd.Context(), cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	items := a.withProgress().Batch(cmd.Context(), blob)
	a.printer.PrintBatch(items)
	return nil
}
