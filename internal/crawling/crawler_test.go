package crawling

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/news-agent/internal/fetch"
	"github.com/jonathan/news-agent/internal/types"
)

// siteTransport serves canned pages by URL without touching the network.
type siteTransport struct {
	pages map[string]string
	err   error
}

func (s *siteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	body, ok := s.pages[req.URL.String()]
	status := http.StatusOK
	if !ok {
		status = http.StatusNotFound
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"text/html"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

// stubParser returns canned articles and counts calls per URL.
type stubParser struct {
	articles map[string]*types.Article
	errs     map[string]error
	calls    []string
}

func (s *stubParser) Parse(_ context.Context, url string) (*types.Article, error) {
	s.calls = append(s.calls, url)
	if err, ok := s.errs[url]; ok {
		return nil, err
	}
	if article, ok := s.articles[url]; ok {
		return article, nil
	}
	return nil, errors.New("not found")
}

func homepage(links ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body><nav><a href=\"/\">Home</a><a href=\"/world\">World</a></nav><main>")
	for _, link := range links {
		fmt.Fprintf(&sb, "<a href=%q>story</a>", link)
	}
	sb.WriteString("</main></body></html>")
	return sb.String()
}

func longText(n int) string {
	return strings.Repeat("a", n)
}

func newTestCrawler(transport http.RoundTripper, parser ArticleParser) *Crawler {
	return NewCrawler(parser, &CrawlerConfig{
		Options: &fetch.Options{Client: &http.Client{Transport: transport}},
	})
}

func TestCrawl_FiltersShortArticlesInDiscoveryOrder(t *testing.T) {
	site := "https://example.com"
	links := []string{
		"/news/story-one-1",
		"/news/story-two-2",
		"/news/story-three-3",
		"/news/story-four-4",
		"/news/story-five-5",
	}
	transport := &siteTransport{pages: map[string]string{site: homepage(links...)}}
	parser := &stubParser{articles: map[string]*types.Article{
		site + links[0]: {Title: "One", Text: longText(100)},
		site + links[1]: {Title: "Two", Text: longText(900)},
		site + links[2]: {Title: "Three", Text: longText(500)},
		site + links[3]: {Title: "Four", Text: longText(501)},
		site + links[4]: {Title: "Five", Text: longText(20)},
	}}

	records := newTestCrawler(transport, parser).Crawl(context.Background(), types.CrawlRequest{SiteURL: site, Limit: 3})

	require.Len(t, records, 2)
	assert.Equal(t, "Two", records[0].Title)
	assert.Equal(t, site+links[1], records[0].URL)
	assert.Equal(t, "Four", records[1].Title)
	for _, record := range records {
		assert.True(t, record.Success)
		assert.Greater(t, len(record.Text), MinArticleLength)
	}
	assert.Len(t, parser.calls, 5)
}

func TestCrawl_StopsAtLimit(t *testing.T) {
	site := "https://example.com"
	links := []string{"/news/a-b-1", "/news/a-b-2", "/news/a-b-3", "/news/a-b-4"}
	articles := make(map[string]*types.Article)
	for _, link := range links {
		articles[site+link] = &types.Article{Title: link, Text: longText(1000)}
	}
	transport := &siteTransport{pages: map[string]string{site: homepage(links...)}}
	parser := &stubParser{articles: articles}

	records := newTestCrawler(transport, parser).Crawl(context.Background(), types.CrawlRequest{SiteURL: site, Limit: 2})

	require.Len(t, records, 2)
	assert.Equal(t, "/news/a-b-1", records[0].Title)
	assert.Equal(t, "/news/a-b-2", records[1].Title)
	assert.Len(t, parser.calls, 2)
}

func TestCrawl_SkipsFailedCandidates(t *testing.T) {
	site := "https://example.com"
	links := []string{"/news/a-b-1", "/news/a-b-2", "/news/a-b-3"}
	transport := &siteTransport{pages: map[string]string{site: homepage(links...)}}
	parser := &stubParser{
		articles: map[string]*types.Article{
			site + links[1]: {Title: "ok", Text: longText(600)},
			site + links[2]: {Title: "ok too", Text: longText(600)},
		},
		errs: map[string]error{site + links[0]: errors.New("HTTP status 403")},
	}

	records := newTestCrawler(transport, parser).Crawl(context.Background(), types.CrawlRequest{SiteURL: site, Limit: 5})

	require.Len(t, records, 2)
	for _, record := range records {
		assert.True(t, record.Success)
		assert.Empty(t, record.Error)
	}
}

func TestCrawl_AllFilteredReturnsEmpty(t *testing.T) {
	site := "https://example.com"
	links := []string{"/news/a-b-1", "/news/a-b-2"}
	transport := &siteTransport{pages: map[string]string{site: homepage(links...)}}
	parser := &stubParser{articles: map[string]*types.Article{
		site + links[0]: {Text: longText(10)},
		site + links[1]: {Text: longText(500)},
	}}

	records := newTestCrawler(transport, parser).Crawl(context.Background(), types.CrawlRequest{SiteURL: site, Limit: 3})

	require.NotNil(t, records)
	assert.Empty(t, records)
}

func TestCrawl_NoCandidatesReturnsEmpty(t *testing.T) {
	site := "https://example.com"
	transport := &siteTransport{pages: map[string]string{site: homepage()}}
	parser := &stubParser{}

	records := newTestCrawler(transport, parser).Crawl(context.Background(), types.CrawlRequest{SiteURL: site, Limit: 3})

	assert.Empty(t, records)
	assert.Empty(t, parser.calls)
}

func TestCrawl_DiscoveryFailureReturnsSentinel(t *testing.T) {
	transport := &siteTransport{err: errors.New("connection reset by peer")}
	parser := &stubParser{}

	records := newTestCrawler(transport, parser).Crawl(context.Background(), types.CrawlRequest{SiteURL: "https://example.com", Limit: 3})

	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
	assert.True(t, strings.HasPrefix(records[0].Error, CrawlFailedPrefix))
	assert.Contains(t, records[0].Error, "connection reset by peer")
	assert.Empty(t, records[0].Text)
	assert.Empty(t, parser.calls)
}

func TestCrawl_BlockedHomepageReturnsSentinel(t *testing.T) {
	transport := &siteTransport{pages: map[string]string{}}

	records := newTestCrawler(transport, &stubParser{}).Crawl(context.Background(), types.CrawlRequest{SiteURL: "https://example.com", Limit: 3})

	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
	assert.Contains(t, records[0].Error, "404")
}

func TestCrawl_InvalidSiteURLReturnsSentinel(t *testing.T) {
	records := NewCrawler(&stubParser{}, nil).Crawl(context.Background(), types.CrawlRequest{SiteURL: "bbc", Limit: 3})

	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
	assert.Contains(t, records[0].Error, "invalid URL")
}

func TestCrawl_ZeroLimitUsesDefault(t *testing.T) {
	site := "https://example.com"
	links := []string{"/news/a-b-1", "/news/a-b-2", "/news/a-b-3", "/news/a-b-4"}
	articles := make(map[string]*types.Article)
	for _, link := range links {
		articles[site+link] = &types.Article{Text: longText(1000)}
	}
	transport := &siteTransport{pages: map[string]string{site: homepage(links...)}}

	records := newTestCrawler(transport, &stubParser{articles: articles}).Crawl(context.Background(), types.CrawlRequest{SiteURL: site})

	assert.Len(t, records, types.DefaultCrawlLimit)
}

func TestDiscover_MaxCandidates(t *testing.T) {
	site := "https://example.com"
	transport := &siteTransport{pages: map[string]string{site: homepage("/news/a-b-1", "/news/a-b-2", "/news/a-b-3")}}
	crawler := NewCrawler(&stubParser{}, &CrawlerConfig{
		Options:       &fetch.Options{Client: &http.Client{Transport: transport}},
		MaxCandidates: 2,
	})

	candidates, err := crawler.Discover(context.Background(), site)
	require.NoError(t, err)
	assert.Equal(t, []string{site + "/news/a-b-1", site + "/news/a-b-2"}, candidates)
}

func TestDiscover_ErrorType(t *testing.T) {
	transport := &siteTransport{err: errors.New("dial tcp: no such host")}

	_, err := newTestCrawler(transport, &stubParser{}).Discover(context.Background(), "https://example.com")

	var crawlErr *CrawlError
	require.ErrorAs(t, err, &crawlErr)
	var fetchErr *fetch.Error
	assert.ErrorAs(t, err, &fetchErr)
}

func TestPassesQualityFilter(t *testing.T) {
	assert.False(t, passesQualityFilter(longText(MinArticleLength)))
	assert.True(t, passesQualityFilter(longText(MinArticleLength+1)))
	// multi-byte characters are counted once
	assert.False(t, passesQualityFilter(strings.Repeat("é", MinArticleLength)))
}
