// Package types provides type definitions for structured data used throughout the news agent.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Article is the parsed content of a single news page.
type Article struct {
	URL         string
	Title       string
	Authors     []string
	PublishDate string
	Text        string
}

// ArticleRecord is the outcome of fetching one URL.
// A successful record carries content and no error; a failed record carries
// only the URL and the error message.
type ArticleRecord struct {
	URL         string   `json:"url"`
	Success     bool     `json:"success"`
	Title       string   `json:"title,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	PublishDate string   `json:"publish_date,omitempty"`
	Text        string   `json:"text,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// NewArticleRecord builds a successful record from a parsed article.
// Authors is never nil so the list renders as empty rather than absent.
func NewArticleRecord(url string, article *Article) ArticleRecord {
	authors := article.Authors
	if authors == nil {
		authors = []string{}
	}
	return ArticleRecord{
		URL:         url,
		Success:     true,
		Title:       article.Title,
		Authors:     authors,
		PublishDate: article.PublishDate,
		Text:        article.Text,
	}
}

// NewFailedRecord builds a failure record for url. A nil err still yields a
// non-empty message.
func NewFailedRecord(url string, err error) ArticleRecord {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return ArticleRecord{
		URL:     url,
		Success: false,
		Error:   msg,
	}
}

// DisplayTitle returns the title, or "Unknown Title" when the page had none.
func (r ArticleRecord) DisplayTitle() string {
	if r.Title == "" {
		return "Unknown Title"
	}
	return r.Title
}
