package crawling

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractLinks extracts all same-site links from HTML content in document order.
// Hosts that differ only by a leading "www." count as the same site.
func ExtractLinks(htmlContent string, baseURL string) ([]string, error) {
	// Parse base URL
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, &LinkExtractionError{
			Message: "failed to parse base URL",
			Cause:   err,
		}
	}

	if base.Scheme == "" || base.Host == "" {
		return nil, &LinkExtractionError{
			Message: fmt.Sprintf("invalid base URL: %s (must have scheme and host)", baseURL),
		}
	}

	// Parse HTML
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, &LinkExtractionError{
			Message: "failed to parse HTML",
			Cause:   err,
		}
	}

	// <base href> changes how relative links resolve
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if baseHref, err := url.Parse(href); err == nil {
			base = base.ResolveReference(baseHref)
		}
	}

	// Track unique links in document order
	linkSet := make(map[string]bool)
	links := make([]string, 0)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		href = strings.TrimSpace(href)
		if !exists || href == "" {
			return
		}

		// Parse and resolve relative URLs
		linkURL, err := url.Parse(href)
		if err != nil {
			return
		}

		absoluteURL := base.ResolveReference(linkURL)

		// Only keep web links on the same site
		if absoluteURL.Scheme != "http" && absoluteURL.Scheme != "https" {
			return
		}
		if !sameSite(absoluteURL.Host, base.Host) {
			return
		}

		// Normalize: drop fragment and trailing slash
		absoluteURL.Fragment = ""
		urlString := strings.TrimSuffix(absoluteURL.String(), "/")

		if !linkSet[urlString] {
			linkSet[urlString] = true
			links = append(links, urlString)
		}
	})

	return links, nil
}

// sameSite compares hosts case-insensitively, ignoring a leading "www.".
func sameSite(a, b string) bool {
	normalize := func(host string) string {
		return strings.TrimPrefix(strings.ToLower(host), "www.")
	}
	return normalize(a) == normalize(b)
}
