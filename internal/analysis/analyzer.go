// Package analysis turns article text into a structured intelligence brief using one LLM call.
package analysis

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/news-agent/internal/llm"
	"github.com/jonathan/news-agent/internal/logger"
	"github.com/jonathan/news-agent/internal/prompts"
	"github.com/jonathan/news-agent/internal/types"
)

// MaxPromptChars is how many characters of article text are sent to the model.
// Anything after that is dropped silently.
const MaxPromptChars = 3500

const promptFile = "analysis.json"

// AnalyzerConfig holds configuration for the analyzer.
type AnalyzerConfig struct {
	// Tier selects the model; defaults to llm.TierLite.
	Tier llm.ModelTier
	Log  logger.Logger
}

// Analyzer produces briefs. It is safe to share; the client is only read.
type Analyzer struct {
	client llm.Client
	tier   llm.ModelTier
	system string
	log    logger.Logger
}

// NewAnalyzer creates an analyzer backed by client.
func NewAnalyzer(client llm.Client, config *AnalyzerConfig) *Analyzer {
	if config == nil {
		config = &AnalyzerConfig{}
	}
	if config.Tier == "" {
		config.Tier = llm.TierLite
	}
	if config.Log == nil {
		config.Log = logger.NewNop()
	}
	return &Analyzer{
		client: client,
		tier:   config.Tier,
		system: prompts.MustGet(promptFile, "system"),
		log:    config.Log,
	}
}

// Analyze returns a brief for text. It never returns an error: empty input and failed
// calls are reported through the result's Kind.
func (a *Analyzer) Analyze(ctx context.Context, text string) types.AnalysisResult {
	if strings.TrimSpace(text) == "" {
		return types.NewPreconditionFailure()
	}

	model := a.client.GetModel(a.tier)
	start := time.Now()
	response, err := a.client.Chat(ctx, a.system, BuildPrompt(text), a.tier)
	// The reply is returned as the model wrote it; only a blank reply is an error.
	if err == nil && strings.TrimSpace(response) == "" {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		a.log.Warn("analysis call failed",
			logger.String("model", model),
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err))
		return types.NewAnalysisFailure(&APICallError{Model: model, Cause: err})
	}

	a.log.Debug("analysis complete",
		logger.String("model", model),
		logger.Duration("elapsed", time.Since(start)),
		logger.Int("chars", utf8.RuneCountInString(response)))
	return types.NewAnalysis(response)
}

// BuildPrompt embeds the first MaxPromptChars characters of text in the analysis template.
func BuildPrompt(text string) string {
	template := prompts.MustGet(promptFile, "analyze-article")
	return prompts.Format(template, map[string]string{"Text": Truncate(text, MaxPromptChars)})
}

// Truncate returns at most n characters of text without splitting a character.
func Truncate(text string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}
