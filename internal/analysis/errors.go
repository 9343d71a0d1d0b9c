package analysis

// APICallError represents a failed inference call against Model.
// Its message is the cause's, so the displayed text matches what the provider reported.
type APICallError struct {
	Model string
	Cause error
}

func (e *APICallError) Error() string {
	return e.Cause.Error()
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}
