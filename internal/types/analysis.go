package types

import "errors"

// AnalysisKind tags the branch an AnalysisResult took.
type AnalysisKind string

const (
	// AnalysisOK means the model produced a brief
	AnalysisOK AnalysisKind = "ok"
	// AnalysisPrecondition means the input text was empty and no call was made
	AnalysisPrecondition AnalysisKind = "precondition"
	// AnalysisCallFailed means the inference call returned an error
	AnalysisCallFailed AnalysisKind = "call_failed"
)

// AnalysisErrorPrefix starts the display text of every failed inference call.
const AnalysisErrorPrefix = "AI Analysis Error: "

// NoTextMessage is the display text of the empty-input precondition failure.
const NoTextMessage = "Error: No text provided for analysis."

// ErrNoText is the precondition failure for empty analyzer input.
var ErrNoText = errors.New("no text provided for analysis")

// AnalysisResult is the outcome of analyzing one article.
// Exactly one of Markdown and Err is set.
type AnalysisResult struct {
	Kind     AnalysisKind
	Markdown string
	Err      error
}

// NewAnalysis wraps a successful model response.
func NewAnalysis(markdown string) AnalysisResult {
	return AnalysisResult{Kind: AnalysisOK, Markdown: markdown}
}

// NewAnalysisFailure wraps an inference call failure.
func NewAnalysisFailure(err error) AnalysisResult {
	return AnalysisResult{Kind: AnalysisCallFailed, Err: err}
}

// NewPreconditionFailure is returned when there was nothing to analyze.
func NewPreconditionFailure() AnalysisResult {
	return AnalysisResult{Kind: AnalysisPrecondition, Err: ErrNoText}
}

// OK reports whether the result holds a brief.
func (a AnalysisResult) OK() bool {
	return a.Kind == AnalysisOK
}

// String returns the displayable text for either branch.
func (a AnalysisResult) String() string {
	switch a.Kind {
	case AnalysisOK:
		return a.Markdown
	case AnalysisPrecondition:
		return NoTextMessage
	default:
		if a.Err == nil {
			return AnalysisErrorPrefix + "unknown error"
		}
		return AnalysisErrorPrefix + a.Err.Error()
	}
}

// MarshalText lets results embed in JSON as their display string.
func (a AnalysisResult) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
