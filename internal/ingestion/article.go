package ingestion

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/jonathan/news-agent/internal/fetch"
	"github.com/jonathan/news-agent/internal/logger"
	"github.com/jonathan/news-agent/internal/types"
)

// FetcherConfig holds configuration for the article fetcher.
type FetcherConfig struct {
	Options *fetch.Options
	// Renderer, when set, re-renders pages whose extracted text is too short.
	Renderer fetch.Renderer
	Log      logger.Logger
}

// Fetcher downloads and parses news articles.
type Fetcher struct {
	options  *fetch.Options
	renderer fetch.Renderer
	log      logger.Logger
}

// NewFetcher creates a new article fetcher.
func NewFetcher(config *FetcherConfig) *Fetcher {
	if config == nil {
		config = &FetcherConfig{}
	}
	if config.Options == nil {
		config.Options = fetch.DefaultOptions()
	}
	if config.Log == nil {
		config.Log = logger.NewNop()
	}
	return &Fetcher{
		options:  config.Options,
		renderer: config.Renderer,
		log:      config.Log,
	}
}

// Fetch produces exactly one record for url. Download and parse failures are
// converted into a failed record; Fetch itself never errors.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) types.ArticleRecord {
	article, err := f.Parse(ctx, urlStr)
	if err != nil {
		f.log.Warn("article fetch failed", logger.String("url", urlStr), logger.Error(err))
		return types.NewFailedRecord(urlStr, err)
	}
	f.log.Debug("article fetched",
		logger.String("url", urlStr),
		logger.Int("chars", len(article.Text)),
		logger.Int("authors", len(article.Authors)),
	)
	return types.NewArticleRecord(urlStr, article)
}

// Parse downloads url and extracts the article. A page with no body text is an error.
func (f *Fetcher) Parse(ctx context.Context, urlStr string) (*types.Article, error) {
	result, err := fetch.URL(ctx, urlStr, f.options)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	article, err := ParseHTML(result.HTML, urlStr)
	if err != nil && !errors.Is(err, ErrEmptyArticle) {
		return nil, err
	}

	if f.renderer != nil && (article == nil || fetch.ShouldUseBrowser(article.Text)) {
		article = f.rerender(ctx, urlStr, article)
	}

	if article == nil || article.Text == "" {
		return nil, ErrEmptyArticle
	}
	return article, nil
}

// rerender retries extraction on browser-rendered HTML, keeping the HTTP result on failure.
func (f *Fetcher) rerender(ctx context.Context, urlStr string, current *types.Article) *types.Article {
	f.log.Debug("content too short, rendering in browser", logger.String("url", urlStr))

	html, err := f.renderer.Render(ctx, urlStr)
	if err != nil {
		f.log.Debug("browser rendering failed, using HTTP content", logger.String("url", urlStr), logger.Error(err))
		return current
	}

	rendered, err := ParseHTML(html, urlStr)
	if err != nil {
		return current
	}
	if current != nil && len(rendered.Text) <= len(current.Text) {
		return current
	}
	return rendered
}

// ParseHTML extracts title, authors, publish date and body text from a page.
// Readability does main-content detection; selector-based extraction is the fallback.
func ParseHTML(html string, pageURL string) (*types.Article, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid page URL: %w", ErrParseFailed, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	article := &types.Article{
		URL:         pageURL,
		Title:       extractTitle(doc),
		Authors:     extractAuthors(doc),
		PublishDate: extractPublishDate(doc),
	}

	readable, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err == nil {
		article.Text = CleanText(readable.TextContent)
		if title := strings.TrimSpace(readable.Title); title != "" && article.Title == "" {
			article.Title = title
		}
		if len(article.Authors) == 0 && readable.Byline != "" {
			article.Authors = dedupeAuthors(splitByline(readable.Byline))
		}
		if article.PublishDate == "" {
			article.PublishDate = formatPublishTime(readable.PublishedTime)
		}
	}

	if article.Text == "" {
		text, extractErr := fetch.ExtractMainText(html, fetch.ArticleSelectors(), fetch.ArticleNoiseSelectors()...)
		if extractErr == nil {
			article.Text = CleanText(text)
		}
	}

	if article.Text == "" {
		return article, ErrEmptyArticle
	}
	return article, nil
}
