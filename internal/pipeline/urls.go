package pipeline

import "strings"

// ParseURLList splits a newline separated blob into URLs.
// Lines are trimmed and blank lines dropped. Duplicates and order are kept,
// and nothing is validated here; bad URLs fail at fetch time.
func ParseURLList(blob string) []string {
	lines := strings.Split(strings.ReplaceAll(blob, "\r\n", "\n"), "\n")
	urls := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	return urls
}
