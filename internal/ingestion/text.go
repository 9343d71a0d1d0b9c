// Package ingestion turns a single article URL into a structured ArticleRecord.
package ingestion

import (
	"regexp"
	"strings"
)

var (
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00A0}\x{2009}\x{202F}]+`)
	excessiveBlanks = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes extracted article text: LF line endings, single spaces,
// no indentation, and at most one blank line between paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u200b", "")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		line = horizontalSpace.ReplaceAllString(line, " ")
		cleanedLines = append(cleanedLines, strings.TrimSpace(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = excessiveBlanks.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}
