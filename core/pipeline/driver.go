// Package pipeline sequences the ingestion stages for each URL:
// identity → workspace → fetch → extract → write artifacts → generate.
//
// Batch runs are strictly sequential. A failure in one document never
// stops the batch; the driver logs it and moves on. Stateful fetch
// resources (the browser automation session) are owned by the caller,
// which releases them once after the whole batch.
package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/gaurav-prasanna/bookbind/core"
	"github.com/gaurav-prasanna/bookbind/core/artifact"
	"github.com/gaurav-prasanna/bookbind/core/identity"
	"github.com/gaurav-prasanna/bookbind/core/workspace"
)

// Outcome reports how a document run ended. The zero value is
// OutcomeFailed so an outcome read off an error path can never be
// mistaken for success.
type Outcome int

const (
	// OutcomeFailed means the document did not complete; Run also
	// returns the error.
	OutcomeFailed Outcome = iota
	// OutcomeGenerated means an e-book file was produced.
	OutcomeGenerated
	// OutcomeSkipped means the page held no extractable article.
	OutcomeSkipped
)

// Summary aggregates the results of a batch run.
type Summary struct {
	Generated int
	Skipped   int
	Failed    int
}

// Driver wires the pipeline stages together.
type Driver struct {
	Fetcher    core.Fetcher
	Extractor  core.Extractor
	Artifacts  *artifact.Writer
	Generator  core.Generator
	Workspaces *workspace.Root
	Log        *zap.SugaredLogger
}

// Run processes a single URL through the full pipeline.
func (d *Driver) Run(ctx context.Context, rawURL string) (Outcome, error) {
	id, err := identity.FromURL(rawURL)
	if err != nil {
		return OutcomeFailed, err
	}

	ws, err := d.Workspaces.Ensure(id)
	if err != nil {
		return OutcomeFailed, err
	}

	rawHTML, err := d.fetchRaw(ctx, ws, rawURL)
	if err != nil {
		return OutcomeFailed, err
	}

	rec, err := d.Extractor.Extract(rawHTML, rawURL)
	if err != nil {
		return OutcomeFailed, err
	}
	if rec == nil {
		d.Log.Infow("no extractable article, skipping", "url", rawURL, "identity", id)
		return OutcomeSkipped, nil
	}

	if err := d.Artifacts.WriteContent(ws, rawURL, rec); err != nil {
		return OutcomeFailed, err
	}
	if err := d.Artifacts.WriteMetadata(ws, rec); err != nil {
		return OutcomeFailed, err
	}

	outPath, err := d.Generator.Generate(ctx, ws.ContentPath(), ws.MetadataPath(), id)
	if err != nil {
		return OutcomeFailed, err
	}

	d.Log.Infow("e-book generated", "url", rawURL, "identity", id, "output", outPath)
	return OutcomeGenerated, nil
}

// fetchRaw returns the raw page content for rawURL, fetching and
// persisting it unless the workspace already holds a raw artifact.
// Artifact presence is the only cache signal; staleness is ignored.
func (d *Driver) fetchRaw(ctx context.Context, ws *workspace.Workspace, rawURL string) (string, error) {
	if ws.Exists(ws.RawPath()) {
		d.Log.Infow("raw content cached, skipping fetch", "url", rawURL, "path", ws.RawPath())
		data, err := ws.Read(ws.RawPath())
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	rawHTML, err := d.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if err := ws.Write(ws.RawPath(), []byte(rawHTML)); err != nil {
		return "", err
	}
	return rawHTML, nil
}

// RunBatch processes urls sequentially. Per-URL failures are logged and
// counted, never propagated, so every URL gets its turn.
func (d *Driver) RunBatch(ctx context.Context, urls []string) Summary {
	var summary Summary
	for i, rawURL := range urls {
		d.Log.Infow("processing document", "url", rawURL, "n", i+1, "total", len(urls))

		outcome, err := d.Run(ctx, rawURL)
		if err != nil {
			d.Log.Errorw("document failed", "url", rawURL, "kind", errorKind(err), "error", err)
			summary.Failed++
			continue
		}
		if outcome == OutcomeSkipped {
			summary.Skipped++
			continue
		}
		summary.Generated++
	}
	return summary
}

// errorKind names the error class for log output.
func errorKind(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidURL):
		return "invalid-url"
	case errors.Is(err, core.ErrStorage):
		return "storage"
	case errors.Is(err, core.ErrFetch):
		return "fetch"
	case errors.Is(err, core.ErrConversion):
		return "conversion"
	default:
		return "other"
	}
}
