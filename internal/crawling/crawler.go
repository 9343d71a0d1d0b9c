package crawling

import (
	"context"
	"unicode/utf8"

	"github.com/jonathan/news-agent/internal/fetch"
	"github.com/jonathan/news-agent/internal/logger"
	"github.com/jonathan/news-agent/internal/types"
)

// MinArticleLength is the body length, in characters, an article must exceed to be kept.
// Shorter pages are navigation stubs, teasers, or extraction misses.
const MinArticleLength = 500

// CrawlFailedPrefix starts the error of the sentinel record returned when discovery fails.
const CrawlFailedPrefix = "Crawling failed: "

// ArticleParser downloads and parses one article page.
type ArticleParser interface {
	Parse(ctx context.Context, url string) (*types.Article, error)
}

// CrawlerConfig holds configuration for the crawler.
type CrawlerConfig struct {
	// Options are used for the homepage download.
	Options *fetch.Options
	// MaxCandidates caps how many discovered links are tried; 0 means no cap.
	MaxCandidates int
	Log           logger.Logger
}

// Crawler collects trending articles from a news homepage.
type Crawler struct {
	parser        ArticleParser
	options       *fetch.Options
	maxCandidates int
	log           logger.Logger
}

// NewCrawler creates a crawler that parses candidates with parser.
func NewCrawler(parser ArticleParser, config *CrawlerConfig) *Crawler {
	if config == nil {
		config = &CrawlerConfig{}
	}
	if config.Options == nil {
		config.Options = fetch.DefaultOptions()
	}
	if config.Log == nil {
		config.Log = logger.NewNop()
	}
	return &Crawler{
		parser:        parser,
		options:       config.Options,
		maxCandidates: config.MaxCandidates,
		log:           config.Log,
	}
}

// Discover downloads the homepage and returns candidate article links in page order.
// Nothing is remembered between calls.
func (c *Crawler) Discover(ctx context.Context, siteURL string) ([]string, error) {
	result, err := fetch.URL(ctx, siteURL, c.options)
	if err != nil {
		return nil, &CrawlError{Message: "failed to fetch homepage", Cause: err}
	}

	base := siteURL
	if result.FinalURL != "" {
		base = result.FinalURL
	}

	links, err := ExtractLinks(result.HTML, base)
	if err != nil {
		return nil, &CrawlError{Message: "failed to extract links", Cause: err}
	}

	candidates := FilterArticleLinks(links, base)
	if c.maxCandidates > 0 && len(candidates) > c.maxCandidates {
		candidates = candidates[:c.maxCandidates]
	}
	return candidates, nil
}

// Crawl returns up to req.Limit articles whose text is longer than MinArticleLength,
// in discovery order. Candidates that fail to download or parse are skipped.
//
// When discovery itself fails the result is a single failed record whose error starts
// with CrawlFailedPrefix. When discovery succeeds but nothing qualifies the result is
// empty.
func (c *Crawler) Crawl(ctx context.Context, req types.CrawlRequest) []types.ArticleRecord {
	req = req.WithDefaults()
	if req.Limit < 1 {
		req.Limit = types.DefaultCrawlLimit
	}
	log := c.log.With(logger.String("site", req.SiteURL))

	candidates, err := c.Discover(ctx, req.SiteURL)
	if err != nil {
		log.Warn("crawl discovery failed", logger.Error(err))
		return []types.ArticleRecord{{
			URL:     req.SiteURL,
			Success: false,
			Error:   CrawlFailedPrefix + err.Error(),
		}}
	}
	log.Info("discovered candidate articles", logger.Int("candidates", len(candidates)))

	records := make([]types.ArticleRecord, 0, req.Limit)
	for _, candidate := range candidates {
		if len(records) >= req.Limit {
			break
		}
		if ctx.Err() != nil {
			log.Warn("crawl cancelled", logger.Error(ctx.Err()))
			break
		}
		record, ok := c.tryCandidate(ctx, candidate)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	log.Info("crawl finished", logger.Int("accepted", len(records)), logger.Int("limit", req.Limit))
	return records
}

// tryCandidate fetches one candidate and applies the quality filter.
// ok is false when the candidate should be skipped.
func (c *Crawler) tryCandidate(ctx context.Context, link string) (types.ArticleRecord, bool) {
	article, err := c.parser.Parse(ctx, link)
	if err != nil {
		c.log.Debug("skipping candidate", logger.String("url", link), logger.Error(err))
		return types.ArticleRecord{}, false
	}
	if !passesQualityFilter(article.Text) {
		c.log.Debug("skipping short candidate", logger.String("url", link), logger.Int("chars", utf8.RuneCountInString(article.Text)))
		return types.ArticleRecord{}, false
	}
	return types.NewArticleRecord(link, article), true
}

// passesQualityFilter reports whether text is long enough to be a real article.
func passesQualityFilter(text string) bool {
	return utf8.RuneCountInString(text) > MinArticleLength
}
