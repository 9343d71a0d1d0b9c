// Package observability provides formatted terminal output for briefs and progress.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jonathan/news-agent/internal/pipeline"
	"github.com/jonathan/news-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 80
	// innerWidth is the printable width inside the borders
	innerWidth = boxWidth - 4
	// previewChars is how much article text PrintArticleText shows
	previewChars = 600
)

// Messages shown for the outcomes of a run.
const (
	BatchCompleteMessage = "Batch processing complete."
	NoArticlesMessage    = "No articles found (or site blocked scraping)."
	NoURLsMessage        = "No URLs provided."
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content.
// Long content lines are wrapped on word boundaries; widths are measured in terminal cells.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(runewidth.Truncate(title, innerWidth, "...")))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, innerWidth) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(wrapped))
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintItem outputs one article: its title, source, and either the load error or the brief.
func (p *Printer) PrintItem(item types.Item) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source: %s\n", item.Record.URL))

	if item.Failed() {
		sb.WriteString(fmt.Sprintf("\nFailed to load: %s", item.Record.Error))
		p.printBox(item.Record.DisplayTitle(), sb.String())
		return
	}

	if len(item.Record.Authors) > 0 {
		sb.WriteString(fmt.Sprintf("By: %s\n", strings.Join(item.Record.Authors, ", ")))
	}
	if item.Record.PublishDate != "" {
		sb.WriteString(fmt.Sprintf("Published: %s\n", item.Record.PublishDate))
	}
	if item.Analysis != nil {
		sb.WriteString("\n")
		sb.WriteString(item.Analysis.String())
	}

	p.printBox(item.Record.DisplayTitle(), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintArticleText outputs the beginning of a record's extracted text.
func (p *Printer) PrintArticleText(record types.ArticleRecord) {
	if !record.Success || record.Text == "" {
		return
	}
	text := record.Text
	if runewidth.StringWidth(text) > previewChars {
		text = runewidth.Truncate(text, previewChars, "...")
	}
	p.printBox("ORIGINAL TEXT", text)
}

// PrintBatch outputs every item followed by the completion line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintBatch(items []types.Item) {
	if len(items) == 0 {
		fmt.Fprintln(p.out, NoURLsMessage)
		return
	}
	for _, item := range items {
		p.PrintItem(item)
	}
	fmt.Fprintln(p.out, BatchCompleteMessage)
}

// PrintCrawl outputs the number of articles found and then each one.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintCrawl(items []types.Item) {
	if len(items) == 0 {
		fmt.Fprintln(p.out, NoArticlesMessage)
		return
	}
	fmt.Fprintf(p.out, "Found %d articles.\n", len(items))
	for _, item := range items {
		p.PrintItem(item)
	}
}

// PrintProgress outputs a one-line progress update.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(event pipeline.ProgressEvent) {
	fmt.Fprintf(p.out, "[%d/%d] %s: %s\n", event.Index, event.Total, event.URL, event.Message)
}

// pad right-fills s with spaces to innerWidth cells.
func pad(s string) string {
	return runewidth.FillRight(s, innerWidth)
}

// wrap splits line into chunks no wider than width cells, breaking on spaces when possible.
func wrap(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}

	var lines []string
	var current strings.Builder
	currentWidth := 0
	for _, word := range strings.Fields(line) {
		wordWidth := runewidth.StringWidth(word)
		for wordWidth > width {
			if currentWidth > 0 {
				lines = append(lines, current.String())
				current.Reset()
				currentWidth = 0
			}
			head := runewidth.Truncate(word, width, "")
			lines = append(lines, head)
			word = strings.TrimPrefix(word, head)
			wordWidth = runewidth.StringWidth(word)
		}
		if word == "" {
			continue
		}
		if currentWidth > 0 && currentWidth+1+wordWidth > width {
			lines = append(lines, current.String())
			current.Reset()
			currentWidth = 0
		}
		if currentWidth > 0 {
			current.WriteByte(' ')
			currentWidth++
		}
		current.WriteString(word)
		currentWidth += wordWidth
	}
	if currentWidth > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
