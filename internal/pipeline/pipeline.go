// Package pipeline provides the high-level orchestration for the three news workflows:
// a single article, a batch of URLs, and a homepage crawl.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/news-agent/internal/logger"
	"github.com/jonathan/news-agent/internal/types"
)

// Mode names a workflow.
type Mode string

// Workflow modes reported in progress events
const (
	ModeSingle Mode = "single"
	ModeBatch  Mode = "batch"
	ModeCrawl  Mode = "crawl"
)

// Fetcher turns one URL into a record. It must not return an error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) types.ArticleRecord
}

// Crawler collects articles from a homepage.
type Crawler interface {
	Crawl(ctx context.Context, req types.CrawlRequest) []types.ArticleRecord
}

// Analyzer produces a brief for article text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) types.AnalysisResult
}

// ProgressEvent represents a progress update after one item is finished
type ProgressEvent struct {
	Mode    Mode        `json:"mode"`
	RunID   string      `json:"run_id,omitempty"`
	Index   int         `json:"index"` // 1-based
	Total   int         `json:"total"`
	URL     string      `json:"url"`
	Message string      `json:"message"`
	Item    *types.Item `json:"item,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Config holds the collaborators of a pipeline.
type Config struct {
	Fetcher  Fetcher
	Crawler  Crawler
	Analyzer Analyzer
	Log      logger.Logger
	// OnProgress is optional.
	OnProgress ProgressCallback
}

// Pipeline runs items one after another. Nothing is processed concurrently.
type Pipeline struct {
	fetcher    Fetcher
	crawler    Crawler
	analyzer   Analyzer
	log        logger.Logger
	onProgress ProgressCallback
	runID      string
}

// New creates a pipeline from cfg.
func New(cfg *Config) *Pipeline {
	log := cfg.Log
	if log == nil {
		log = logger.NewNop()
	}
	return &Pipeline{
		fetcher:    cfg.Fetcher,
		crawler:    cfg.Crawler,
		analyzer:   cfg.Analyzer,
		log:        log,
		onProgress: cfg.OnProgress,
	}
}

// WithProgress returns a copy of p that reports to cb. The receiver is unchanged,
// so one pipeline can serve concurrent requests with their own callbacks.
func (p *Pipeline) WithProgress(cb ProgressCallback) *Pipeline {
	clone := *p
	clone.onProgress = cb
	return &clone
}

// WithRunID returns a copy of p that tags batch and crawl runs with id instead of
// generating a fresh uuid per run.
func (p *Pipeline) WithRunID(id string) *Pipeline {
	clone := *p
	clone.runID = id
	return &clone
}

// Single fetches url and, when the fetch succeeded, analyzes its text.
func (p *Pipeline) Single(ctx context.Context, url string) types.Item {
	item := p.single(ctx, url)
	p.emit(ProgressEvent{Mode: ModeSingle, Index: 1, Total: 1, URL: url, Message: statusMessage(item)}, &item)
	return item
}

// Batch runs Single over every URL in blob, in order. A failed URL yields a failed
// item and never stops the batch. Processing stops early only if ctx is done.
func (p *Pipeline) Batch(ctx context.Context, blob string) []types.Item {
	urls := ParseURLList(blob)
	runID := p.nextRunID()
	log := p.log.With(logger.String("run_id", runID), logger.String("mode", string(ModeBatch)))
	log.Info("batch started", logger.Int("urls", len(urls)))

	items := make([]types.Item, 0, len(urls))
	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			log.Warn("batch cancelled", logger.Int("processed", len(items)), logger.Error(err))
			break
		}
		item := p.single(ctx, url)
		items = append(items, item)
		p.emit(ProgressEvent{
			Mode:    ModeBatch,
			RunID:   runID,
			Index:   i + 1,
			Total:   len(urls),
			URL:     url,
			Message: statusMessage(item),
		}, &item)
	}

	log.Info("batch finished", logger.Int("items", len(items)))
	return items
}

// Crawl validates req, collects articles from the site and analyzes each one.
// Only an invalid request (no site, limit out of range) is returned as an error.
// A failed discovery, including a malformed site URL, arrives as a single failed item.
func (p *Pipeline) Crawl(ctx context.Context, req types.CrawlRequest) ([]types.Item, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	runID := p.nextRunID()
	log := p.log.With(logger.String("run_id", runID), logger.String("mode", string(ModeCrawl)))
	log.Info("crawl started", logger.String("site", req.SiteURL), logger.Int("limit", req.Limit))

	records := p.crawler.Crawl(ctx, req)
	items := make([]types.Item, 0, len(records))
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			log.Warn("crawl cancelled", logger.Int("processed", len(items)), logger.Error(err))
			break
		}
		item := p.analyzeRecord(ctx, record)
		items = append(items, item)
		p.emit(ProgressEvent{
			Mode:    ModeCrawl,
			RunID:   runID,
			Index:   i + 1,
			Total:   len(records),
			URL:     record.URL,
			Message: statusMessage(item),
		}, &item)
	}

	log.Info("crawl finished", logger.Int("items", len(items)))
	return items, nil
}

func (p *Pipeline) nextRunID() string {
	if p.runID != "" {
		return p.runID
	}
	return uuid.NewString()
}

func (p *Pipeline) single(ctx context.Context, url string) types.Item {
	return p.analyzeRecord(ctx, p.fetcher.Fetch(ctx, url))
}

// analyzeRecord attaches an analysis to successful records only.
func (p *Pipeline) analyzeRecord(ctx context.Context, record types.ArticleRecord) types.Item {
	if !record.Success {
		p.log.Debug("skipping analysis of failed record", logger.String("url", record.URL), logger.String("error", record.Error))
		return types.Item{Record: record}
	}
	analysis := p.analyzer.Analyze(ctx, record.Text)
	return types.Item{Record: record, Analysis: &analysis}
}

func (p *Pipeline) emit(event ProgressEvent, item *types.Item) {
	if p.onProgress == nil {
		return
	}
	event.Item = item
	p.onProgress(event)
}

func statusMessage(item types.Item) string {
	switch {
	case item.Failed():
		return fmt.Sprintf("failed to load: %s", item.Record.Error)
	case item.Analysis != nil && !item.Analysis.OK():
		return fmt.Sprintf("loaded %q, analysis failed", item.Record.DisplayTitle())
	default:
		return fmt.Sprintf("analyzed %q", item.Record.DisplayTitle())
	}
}
