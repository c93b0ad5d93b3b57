// Package fetch implements the Fetcher strategies: a direct HTTP fetch
// and a rendered-page fetch through a shared browser automation session.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gaurav-prasanna/bookbind/core"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "BookBind/1.0 (https://github.com/gaurav-prasanna/bookbind)"
)

// DirectFetcher fetches web pages via a single HTTP GET. Stateless; one
// request per call, no retries.
type DirectFetcher struct {
	client *http.Client
}

// NewDirect creates a DirectFetcher with a sensible timeout.
func NewDirect() *DirectFetcher {
	return &DirectFetcher{
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// Fetch retrieves the raw HTML of the given URL.
func (f *DirectFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: creating request for %s: %v", core.ErrFetch, url, err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetching %s: %v", core.ErrFetch, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: unexpected status %d for %s", core.ErrFetch, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response body for %s: %v", core.ErrFetch, url, err)
	}

	return string(body), nil
}
