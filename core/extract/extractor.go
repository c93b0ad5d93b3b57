// Package extract implements the Extractor interface by delegating DOM
// construction and readability analysis to go-readability. The original
// URL is passed through so relative links inside the article resolve
// correctly.
package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/bookbind/core"
)

var reWhitespace = regexp.MustCompile(`\s+`)

// ReadabilityExtractor extracts the readable article from raw page HTML.
type ReadabilityExtractor struct {
	log *zap.SugaredLogger
}

// New creates a ReadabilityExtractor.
func New(log *zap.SugaredLogger) *ReadabilityExtractor {
	return &ReadabilityExtractor{log: log}
}

// Extract runs readability analysis over rawHTML. A page with no
// extractable article yields (nil, nil): downstream stages are skipped
// for that document, but the run still counts as completed. The reason
// for the skip is logged so a parser failure and a genuinely empty page
// stay distinguishable in the run's output.
func (e *ReadabilityExtractor) Extract(rawHTML string, pageURL string) (*core.ExtractionRecord, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing page URL %s: %w", pageURL, err)
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsed)
	if err != nil {
		// Readability failing to find candidates is an unextractable
		// page, not a pipeline failure.
		e.log.Debugw("readability found no readable document", "url", pageURL, "error", err)
		return nil, nil
	}

	text := normalizeText(article.TextContent)
	if text == "" || strings.TrimSpace(article.Content) == "" {
		e.log.Debugw("page has no article content", "url", pageURL)
		return nil, nil
	}

	return &core.ExtractionRecord{
		Title:       article.Title,
		Byline:      article.Byline,
		Content:     article.Content,
		Excerpt:     article.Excerpt,
		SiteName:    article.SiteName,
		Language:    article.Language,
		Image:       article.Image,
		Favicon:     article.Favicon,
		TextLength:  textLength(article.Content, text),
		PublishedAt: article.PublishedTime,
		ModifiedAt:  article.ModifiedTime,
	}, nil
}

// textLength measures the article's visible text. The body HTML is
// re-parsed so markup never inflates the count; if parsing fails, the
// readability text is used as-is.
func textLength(bodyHTML, fallbackText string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(bodyHTML))
	if err != nil {
		return len(fallbackText)
	}
	return len(normalizeText(doc.Text()))
}

func normalizeText(text string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
}
