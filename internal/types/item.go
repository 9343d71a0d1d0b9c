package types

// Item pairs one fetched record with its analysis.
// Analysis is nil when the fetch failed and the analyzer was never called.
type Item struct {
	Record   ArticleRecord   `json:"article"`
	Analysis *AnalysisResult `json:"analysis,omitempty"`
}

// Failed reports whether the item should be shown as a load failure.
func (i Item) Failed() bool {
	return !i.Record.Success
}
