// Package core defines the pipeline interfaces for BookBind.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"
	"time"
)

// ExtractionRecord holds the readable-article data produced by the
// extraction stage. Fields are optional: an absent value is the empty
// string (or nil for times), and consumers must branch on presence
// rather than assume defaults.
type ExtractionRecord struct {
	Title       string
	Byline      string
	Content     string // cleaned article body HTML
	Excerpt     string
	SiteName    string
	Language    string
	Image       string
	Favicon     string
	TextLength  int
	PublishedAt *time.Time
	ModifiedAt  *time.Time
}

// Fetcher retrieves the raw page source for a URL.
// Implementations: direct HTTP GET, or a rendered-page fetch through a
// browser automation session.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Extractor turns raw page HTML into an ExtractionRecord.
// A (nil, nil) return means the page held no extractable article; this
// is a skip, not a failure.
type Extractor interface {
	Extract(rawHTML string, pageURL string) (*ExtractionRecord, error)
}

// Generator converts staged content and metadata artifacts into the
// final e-book file, returning the output path.
type Generator interface {
	Generate(ctx context.Context, contentPath, metadataPath, identity string) (string, error)
}
