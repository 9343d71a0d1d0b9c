package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/news-agent/internal/analysis"
	"github.com/jonathan/news-agent/internal/config"
	"github.com/jonathan/news-agent/internal/crawling"
	"github.com/jonathan/news-agent/internal/fetch"
	"github.com/jonathan/news-agent/internal/ingestion"
	"github.com/jonathan/news-agent/internal/llm"
	"github.com/jonathan/news-agent/internal/logger"
	"github.com/jonathan/news-agent/internal/observability"
	"github.com/jonathan/news-agent/internal/pipeline"
)

// app holds everything a command needs. The LLM client is built once and shared.
type app struct {
	cfg      config.Config
	log      logger.Logger
	client   llm.Client
	pipeline *pipeline.Pipeline
	printer  *observability.Printer
}

// newApp resolves configuration and wires the pipeline. Configuration errors,
// including a missing API key, are returned here before any work starts.
func newApp(ctx context.Context, cmd *cobra.Command, out io.Writer) (*app, error) {
	cfg, err := resolveConfig(cmd, flags, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	provider, err := llm.ParseProvider(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	llmConfig := llm.ConfigFor(provider)
	if cfg.Model != "" {
		llmConfig = llmConfig.WithModel(llm.TierLite, cfg.Model)
	}
	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	fetchOptions := &fetch.Options{
		Timeout:   cfg.Timeout(),
		UserAgent: cfg.UserAgent,
	}
	fetcherConfig := &ingestion.FetcherConfig{Options: fetchOptions, Log: log}
	if cfg.UseBrowser {
		fetcherConfig.Renderer = fetch.NewBrowserRenderer(log)
	}
	fetcher := ingestion.NewFetcher(fetcherConfig)

	p := pipeline.New(&pipeline.Config{
		Fetcher: fetcher,
		Crawler: crawling.NewCrawler(fetcher, &crawling.CrawlerConfig{
			Options:       fetchOptions,
			MaxCandidates: cfg.MaxCandidates,
			Log:           log,
		}),
		Analyzer: analysis.NewAnalyzer(client, &analysis.AnalyzerConfig{Log: log}),
		Log:      log,
	})

	log.Debug("news agent configured",
		logger.String("provider", string(provider)),
		logger.String("model", client.GetModel(llm.TierLite)),
		logger.Bool("use_browser", cfg.UseBrowser))

	return &app{
		cfg:      cfg,
		log:      log,
		client:   client,
		pipeline: p,
		printer:  observability.NewPrinter(out),
	}, nil
}

// withProgress returns the pipeline, printing progress lines when verbose.
func (a *app) withProgress() *pipeline.Pipeline {
	if !a.cfg.Verbose {
		return a.pipeline
	}
	return a.pipeline.WithProgress(a.printer.PrintProgress)
}

func (a *app) Close() {
	_ = a.client.Close()
	_ = a.log.Sync()
}
