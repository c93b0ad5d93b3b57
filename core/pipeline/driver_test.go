package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/bookbind/core"
	"github.com/gaurav-prasanna/bookbind/core/artifact"
	"github.com/gaurav-prasanna/bookbind/core/workspace"
)

// fakeFetcher counts fetches and fails for URLs containing failFor.
type fakeFetcher struct {
	calls   int
	html    string
	failFor string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.calls++
	if f.failFor != "" && strings.Contains(url, f.failFor) {
		return "", fmt.Errorf("%w: refused", core.ErrFetch)
	}
	return f.html, nil
}

// fakeExtractor returns a fixed record (nil simulates an unextractable page).
type fakeExtractor struct {
	rec *core.ExtractionRecord
}

func (e *fakeExtractor) Extract(rawHTML, pageURL string) (*core.ExtractionRecord, error) {
	return e.rec, nil
}

// fakeGenerator counts invocations.
type fakeGenerator struct {
	calls int
	err   error
}

func (g *fakeGenerator) Generate(ctx context.Context, contentPath, metadataPath, identity string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return filepath.Join("epubs", identity+".epub"), nil
}

func newTestDriver(t *testing.T, fetcher core.Fetcher, extractor core.Extractor, gen core.Generator) *Driver {
	t.Helper()
	base := t.TempDir()
	return &Driver{
		Fetcher:    fetcher,
		Extractor:  extractor,
		Artifacts:  artifact.NewWriter(),
		Generator:  gen,
		Workspaces: workspace.NewRoot(filepath.Join(base, "workspaces"), filepath.Join(base, "epubs")),
		Log:        zap.NewNop().Sugar(),
	}
}

func testRecord() *core.ExtractionRecord {
	return &core.ExtractionRecord{
		Title:   "A Title",
		Content: "<p>Body.</p>",
	}
}

func TestRun_FetchIsIdempotent(t *testing.T) {
	fetcher := &fakeFetcher{html: "<html><body>raw</body></html>"}
	gen := &fakeGenerator{}
	driver := newTestDriver(t, fetcher, &fakeExtractor{rec: testRecord()}, gen)
	ctx := context.Background()

	outcome, err := driver.Run(ctx, "https://example.com/articles/foo-bar")
	require.NoError(t, err)
	assert.Equal(t, OutcomeGenerated, outcome)

	ws, err := driver.Workspaces.Ensure("foo-bar")
	require.NoError(t, err)
	first, err := ws.Read(ws.RawPath())
	require.NoError(t, err)

	// Second run must not fetch again, yet must re-run extraction and
	// conversion against the cached raw content.
	outcome, err = driver.Run(ctx, "https://example.com/articles/foo-bar")
	require.NoError(t, err)
	assert.Equal(t, OutcomeGenerated, outcome)

	second, err := ws.Read(ws.RawPath())
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.calls, "raw artifact presence must skip the fetch")
	assert.Equal(t, first, second)
	assert.Equal(t, 2, gen.calls, "conversion re-runs on every invocation")
}

func TestRun_StagesArtifacts(t *testing.T) {
	driver := newTestDriver(t, &fakeFetcher{html: "<html>x</html>"}, &fakeExtractor{rec: testRecord()}, &fakeGenerator{})

	_, err := driver.Run(context.Background(), "https://example.com/articles/foo-bar")
	require.NoError(t, err)

	ws, err := driver.Workspaces.Ensure("foo-bar")
	require.NoError(t, err)
	assert.True(t, ws.Exists(ws.RawPath()))
	assert.True(t, ws.Exists(ws.ContentPath()))
	assert.True(t, ws.Exists(ws.MetadataPath()))
	assert.True(t, ws.Exists(ws.MetadataDumpPath()))
}

func TestRun_UnextractablePageIsSkip(t *testing.T) {
	gen := &fakeGenerator{}
	driver := newTestDriver(t, &fakeFetcher{html: "<html>x</html>"}, &fakeExtractor{rec: nil}, gen)

	outcome, err := driver.Run(context.Background(), "https://example.com/articles/foo-bar")
	require.NoError(t, err, "an unextractable page is a skip, not a failure")
	assert.Equal(t, OutcomeSkipped, outcome)

	ws, err := driver.Workspaces.Ensure("foo-bar")
	require.NoError(t, err)
	assert.False(t, ws.Exists(ws.ContentPath()), "no content artifact on skip")
	assert.False(t, ws.Exists(ws.MetadataPath()), "no metadata artifact on skip")
	assert.Equal(t, 0, gen.calls)
}

func TestRun_InvalidURL(t *testing.T) {
	driver := newTestDriver(t, &fakeFetcher{}, &fakeExtractor{}, &fakeGenerator{})

	outcome, err := driver.Run(context.Background(), "not a url")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidURL)
	assert.Equal(t, OutcomeFailed, outcome)
}

func TestRun_ErrorPathsNeverReportGenerated(t *testing.T) {
	fetcher := &fakeFetcher{failFor: "example.com"}
	driver := newTestDriver(t, fetcher, &fakeExtractor{rec: testRecord()}, &fakeGenerator{})

	outcome, err := driver.Run(context.Background(), "https://example.com/articles/foo-bar")
	require.Error(t, err)
	assert.Equal(t, OutcomeFailed, outcome)
	assert.NotEqual(t, OutcomeGenerated, outcome)
}

func TestRun_ConversionFailure(t *testing.T) {
	gen := &fakeGenerator{err: fmt.Errorf("%w: pandoc exploded", core.ErrConversion)}
	driver := newTestDriver(t, &fakeFetcher{html: "<html>x</html>"}, &fakeExtractor{rec: testRecord()}, gen)

	outcome, err := driver.Run(context.Background(), "https://example.com/articles/foo-bar")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConversion)
	assert.Equal(t, OutcomeFailed, outcome)

	// Cached raw content survives the conversion failure, so a re-run
	// needs no network.
	ws, err := driver.Workspaces.Ensure("foo-bar")
	require.NoError(t, err)
	assert.True(t, ws.Exists(ws.RawPath()))
}

func TestRunBatch_ContinuesPastFailures(t *testing.T) {
	fetcher := &fakeFetcher{html: "<html>x</html>", failFor: "broken"}
	gen := &fakeGenerator{}
	driver := newTestDriver(t, fetcher, &fakeExtractor{rec: testRecord()}, gen)

	summary := driver.RunBatch(context.Background(), []string{
		"https://example.com/articles/one",
		"https://example.com/articles/broken",
		"https://example.com/articles/three",
	})

	assert.Equal(t, Summary{Generated: 2, Skipped: 0, Failed: 1}, summary)
	assert.Equal(t, 2, gen.calls, "URLs after the failure must still be processed")
}

func TestRunBatch_CountsSkips(t *testing.T) {
	driver := newTestDriver(t, &fakeFetcher{html: "<html>x</html>"}, &fakeExtractor{rec: nil}, &fakeGenerator{})

	summary := driver.RunBatch(context.Background(), []string{
		"https://example.com/a",
		"https://example.com/b",
	})

	assert.Equal(t, Summary{Generated: 0, Skipped: 2, Failed: 0}, summary)
}

func TestRun_WorkspaceLayoutScenario(t *testing.T) {
	base := t.TempDir()
	driver := &Driver{
		Fetcher:    &fakeFetcher{html: "<html>x</html>"},
		Extractor:  &fakeExtractor{rec: testRecord()},
		Artifacts:  artifact.NewWriter(),
		Generator:  &fakeGenerator{},
		Workspaces: workspace.NewRoot(filepath.Join(base, "workspaces"), filepath.Join(base, "epubs")),
		Log:        zap.NewNop().Sugar(),
	}

	_, err := driver.Run(context.Background(), "https://example.com/articles/foo-bar")
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(base, "workspaces", "foo-bar"))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"document-raw.html", "extracted.html", "metadata.yaml", "metadata-full.yaml",
	}, names)
}
