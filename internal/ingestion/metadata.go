package ingestion

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// metaAuthorSelectors are checked in order; every match contributes authors.
var metaAuthorSelectors = []string{
	"meta[name='author']",
	"meta[property='article:author']",
	"meta[name='byl']",
	"meta[name='parsely-author']",
	"meta[name='sailthru.author']",
}

// inlineAuthorSelectors are visible byline elements.
var inlineAuthorSelectors = []string{
	"[rel='author']",
	"[itemprop='author'] [itemprop='name']",
	".author-name",
	".byline__name",
}

// publishDateSelectors map a selector to the attribute holding the date.
var publishDateSelectors = []struct {
	selector string
	attr     string
}{
	{"meta[property='article:published_time']", "content"},
	{"meta[name='article:published_time']", "content"},
	{"meta[itemprop='datePublished']", "content"},
	{"meta[name='pubdate']", "content"},
	{"meta[name='publishdate']", "content"},
	{"meta[name='date']", "content"},
	{"meta[name='dc.date']", "content"},
	{"time[itemprop='datePublished']", "datetime"},
	{"time[datetime]", "datetime"},
}

// extractTitle prefers og:title, then the first h1, then <title>.
func extractTitle(doc *goquery.Document) string {
	if ogTitle, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
		if title := strings.TrimSpace(ogTitle); title != "" {
			return title
		}
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// extractAuthors collects author names from meta tags and bylines.
func extractAuthors(doc *goquery.Document) []string {
	var names []string
	for _, selector := range metaAuthorSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if content, ok := s.Attr("content"); ok {
				names = append(names, splitByline(content)...)
			}
		})
	}
	for _, selector := range inlineAuthorSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			names = append(names, splitByline(s.Text())...)
		})
	}
	return dedupeAuthors(names)
}

// splitByline turns "By Jane Doe, John Roe and Ann Poe" into individual names.
func splitByline(byline string) []string {
	byline = strings.Join(strings.Fields(byline), " ")
	lower := strings.ToLower(byline)
	if strings.HasPrefix(lower, "by ") {
		byline = byline[3:]
	}

	replacer := strings.NewReplacer(" and ", ",", " & ", ",", ";", ",", "|", ",")
	parts := strings.Split(replacer.Replace(byline), ",")

	names := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if !plausibleName(name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

// plausibleName rejects URLs, handles, and sentence-length strings.
func plausibleName(name string) bool {
	if name == "" || len(name) > 80 {
		return false
	}
	if strings.Contains(name, "://") || strings.HasPrefix(name, "@") {
		return false
	}
	return len(strings.Fields(name)) <= 6
}

// dedupeAuthors removes case-insensitive duplicates, keeping first-seen order.
func dedupeAuthors(names []string) []string {
	seen := make(map[string]bool, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, name)
	}
	return result
}

// extractPublishDate returns the first publish date found in the page, as written.
func extractPublishDate(doc *goquery.Document) string {
	for _, candidate := range publishDateSelectors {
		if value, ok := doc.Find(candidate.selector).First().Attr(candidate.attr); ok {
			if value = strings.TrimSpace(value); value != "" {
				return value
			}
		}
	}
	return ""
}

// formatPublishTime renders a parsed publish time in RFC3339.
func formatPublishTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
