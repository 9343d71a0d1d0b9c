package types

import "github.com/go-playground/validator/v10"

const (
	// DefaultCrawlLimit is the number of articles a crawl collects when no limit is given
	DefaultCrawlLimit = 3
	// MaxCrawlLimit is the largest limit a caller may request
	MaxCrawlLimit = 10
)

// CrawlRequest holds the parameters of one homepage crawl.
// SiteURL is only required here; a malformed site surfaces as a failed crawl record.
type CrawlRequest struct {
	SiteURL string `json:"site_url" validate:"required"`
	Limit   int    `json:"limit" validate:"min=1,max=10"`
}

// WithDefaults returns a copy with a zero limit replaced by DefaultCrawlLimit.
func (r CrawlRequest) WithDefaults() CrawlRequest {
	if r.Limit == 0 {
		r.Limit = DefaultCrawlLimit
	}
	return r
}

// Validate validates the CrawlRequest using the validator.
func (r *CrawlRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
