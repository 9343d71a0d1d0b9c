package ingestion

import "errors"

var (
	// ErrDownloadFailed is returned when the page could not be retrieved
	ErrDownloadFailed = errors.New("download failed")
	// ErrParseFailed is returned when the HTML could not be parsed
	ErrParseFailed = errors.New("parse failed")
	// ErrEmptyArticle is returned when extraction found no body text
	ErrEmptyArticle = errors.New("no article text could be extracted")
)
