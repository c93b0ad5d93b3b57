package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// articleHTML builds a page with enough body text for readability to
// treat it as a real article.
func articleHTML() string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	b.WriteString(`<title>Tidal Power on the Bay of Fundy</title>`)
	b.WriteString(`<meta name="author" content="Jordan Smith">`)
	b.WriteString(`</head><body><nav><a href="/">home</a></nav><article>`)
	b.WriteString(`<h1>Tidal Power on the Bay of Fundy</h1>`)
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, `<p>Paragraph %d. The tides in the bay rise and fall by more than
sixteen metres twice a day, which makes the channel one of the most studied
candidates for tidal power generation anywhere in the world. Engineers have
been measuring flow rates at the narrows for decades, and every survey has
reached the same conclusion about the sheer quantity of moving water.</p>`, i)
	}
	b.WriteString(`</article><footer>about</footer></body></html>`)
	return b.String()
}

func newTestExtractor() *ReadabilityExtractor {
	return New(zap.NewNop().Sugar())
}

func TestExtract_Article(t *testing.T) {
	rec, err := newTestExtractor().Extract(articleHTML(), "https://example.com/articles/fundy")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Contains(t, rec.Title, "Tidal Power")
	assert.Contains(t, rec.Content, "sixteen metres")
	assert.Greater(t, rec.TextLength, 1000)
}

func TestExtract_EmptyPageIsSkipNotError(t *testing.T) {
	rec, err := newTestExtractor().Extract("<html><head><title>x</title></head><body></body></html>",
		"https://example.com/empty")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestExtract_SkipReasonIsLogged(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	e := New(zap.New(obs).Sugar())

	rec, err := e.Extract("<html><head><title>x</title></head><body></body></html>",
		"https://example.com/empty")
	require.NoError(t, err)
	require.Nil(t, rec)

	// The skip must be auditable: a log entry records why the page
	// produced no record, and whether readability itself failed.
	entries := logs.All()
	require.NotEmpty(t, entries, "skipping without a logged reason")
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Contains(t, entries[0].Message, "no")
	assert.Equal(t, "https://example.com/empty", entries[0].ContextMap()["url"])
}

func TestExtract_BadPageURL(t *testing.T) {
	_, err := newTestExtractor().Extract(articleHTML(), "://not-a-url")
	require.Error(t, err)
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "a b c", normalizeText("  a\n\tb   c\n"))
}
