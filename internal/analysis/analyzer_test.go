package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/news-agent/internal/llm"
	"github.com/jonathan/news-agent/internal/types"
)

const sampleBrief = `### Executive Summary
The council approved the budget. Transit gets more funding. Taxes stay flat.

### Key Takeaways
- Budget passed 7-2
- Transit funding up 12%
- No new taxes

### Sentiment & Bias
**Sentiment:** Neutral
**Tone:** Professional`

// fakeClient records every call and returns a canned response.
type fakeClient struct {
	response string
	err      error
	calls    int
	system   string
	user     string
	tier     llm.ModelTier
}

func (f *fakeClient) Chat(_ context.Context, system, user string, tier llm.ModelTier) (string, error) {
	f.calls++
	f.system = system
	f.user = user
	f.tier = tier
	return f.response, f.err
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string { return "fake-" + string(tier) }

func (f *fakeClient) Close() error { return nil }

func TestAnalyze_EmptyTextMakesNoCall(t *testing.T) {
	for _, text := range []string{"", "   \n\t"} {
		client := &fakeClient{response: sampleBrief}
		result := NewAnalyzer(client, nil).Analyze(context.Background(), text)

		assert.Equal(t, 0, client.calls)
		assert.Equal(t, types.AnalysisPrecondition, result.Kind)
		assert.False(t, result.OK())
		assert.Equal(t, types.NoTextMessage, result.String())
		assert.ErrorIs(t, result.Err, types.ErrNoText)
	}
}

func TestAnalyze_Success(t *testing.T) {
	client := &fakeClient{response: sampleBrief}
	result := NewAnalyzer(client, nil).Analyze(context.Background(), "The city council met on Tuesday.")

	require.True(t, result.OK())
	assert.Equal(t, sampleBrief, result.Markdown)
	assert.Equal(t, sampleBrief, result.String())
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, llm.TierLite, client.tier)
	assert.Contains(t, client.system, "elite News Analyst")
	assert.Contains(t, client.user, "The city council met on Tuesday.")
}

func TestAnalyze_PromptStructure(t *testing.T) {
	client := &fakeClient{response: sampleBrief}
	NewAnalyzer(client, nil).Analyze(context.Background(), "Some text.")

	for _, section := range []string{
		"Output ONLY the following Markdown structure",
		"### Executive Summary",
		"3 sentences",
		"### Key Takeaways",
		"- (Bullet point 3)",
		"### Sentiment & Bias",
		"**Sentiment:** (Positive / Negative / Neutral)",
		"**Tone:** (Professional / Sensationalist / Opinionated)",
	} {
		assert.Contains(t, client.user, section)
	}
	assert.NotContains(t, client.user, "{{.Text}}")
}

func TestAnalyze_TruncatesLongText(t *testing.T) {
	head := strings.Repeat("a", MaxPromptChars)
	text := head + strings.Repeat("b", 2000)
	client := &fakeClient{response: sampleBrief}

	NewAnalyzer(client, nil).Analyze(context.Background(), text)

	assert.Contains(t, client.user, head)
	assert.NotContains(t, client.user, "b")
}

func TestAnalyze_CallFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("rate limit exceeded")}
	result := NewAnalyzer(client, nil).Analyze(context.Background(), "Some text.")

	assert.Equal(t, types.AnalysisCallFailed, result.Kind)
	assert.False(t, result.OK())
	assert.Equal(t, "AI Analysis Error: rate limit exceeded", result.String())

	var callErr *APICallError
	require.ErrorAs(t, result.Err, &callErr)
	assert.Equal(t, "fake-lite", callErr.Model)
}

func TestAnalyze_EmptyResponseIsFailure(t *testing.T) {
	client := &fakeClient{response: "  \n"}
	result := NewAnalyzer(client, nil).Analyze(context.Background(), "Some text.")

	assert.Equal(t, types.AnalysisCallFailed, result.Kind)
	assert.ErrorIs(t, result.Err, llm.ErrEmptyResponse)
	assert.True(t, strings.HasPrefix(result.String(), types.AnalysisErrorPrefix))
}

func TestAnalyze_ReturnsRawReply(t *testing.T) {
	raw := "```markdown\n" + sampleBrief + "\n```\n"
	client := &fakeClient{response: raw}
	result := NewAnalyzer(client, nil).Analyze(context.Background(), "Some text.")

	require.True(t, result.OK())
	assert.Equal(t, raw, result.Markdown)
}

func TestAnalyze_BlankReplyIsCallFailure(t *testing.T) {
	client := &fakeClient{response: " \n\t"}
	result := NewAnalyzer(client, nil).Analyze(context.Background(), "Some text.")

	assert.Equal(t, types.AnalysisCallFailed, result.Kind)
	assert.ErrorIs(t, result.Err, llm.ErrEmptyResponse)
}

func TestAnalyze_CustomTier(t *testing.T) {
	client := &fakeClient{response: sampleBrief}
	NewAnalyzer(client, &AnalyzerConfig{Tier: llm.TierStandard}).Analyze(context.Background(), "Some text.")

	assert.Equal(t, llm.TierStandard, client.tier)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "ab", Truncate("ab", 3))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "éé", Truncate("ééé", 2))

	long := strings.Repeat("ü", MaxPromptChars+10)
	assert.Equal(t, MaxPromptChars, utf8.RuneCountInString(Truncate(long, MaxPromptChars)))
}

func TestBuildPrompt_EmbedsTruncatedText(t *testing.T) {
	prompt := BuildPrompt(strings.Repeat("q", MaxPromptChars+1))
	assert.Equal(t, MaxPromptChars, strings.Count(prompt, "q"))
}
