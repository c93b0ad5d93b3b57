package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/gaurav-prasanna/bookbind/core"
)

// Session is a long-lived browser automation handle bound to a Chrome
// user-data directory and profile. Starting a browser is expensive, so
// the session is started lazily on first use and reused across every
// URL in a batch run. At most one Session should exist per process; the
// caller that created it must Close it once the batch finishes, even
// when individual documents failed.
type Session struct {
	userDataDir string
	profileDir  string
	pageTimeout time.Duration

	started    bool
	browserCtx context.Context
	cancels    []context.CancelFunc
}

// NewSession creates an unstarted Session for the given Chrome
// user-data directory and profile directory name (e.g. "Default",
// "Profile 1").
func NewSession(userDataDir, profileDir string, pageTimeout time.Duration) *Session {
	return &Session{
		userDataDir: userDataDir,
		profileDir:  profileDir,
		pageTimeout: pageTimeout,
	}
}

// start launches the browser bound to the session's profile.
func (s *Session) start(ctx context.Context) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserDataDir(s.userDataDir),
		chromedp.Flag("profile-directory", s.profileDir),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	s.cancels = []context.CancelFunc{browserCancel, allocCancel}

	// Run with no actions forces the browser process to start now, so
	// startup failures surface here instead of on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		s.release()
		return fmt.Errorf("%w: starting browser session: %v", core.ErrFetch, err)
	}

	s.browserCtx = browserCtx
	s.started = true
	return nil
}

// Source navigates the session to url and returns the rendered page
// source. The session is started on the first call.
func (s *Session) Source(ctx context.Context, url string) (string, error) {
	if !s.started {
		if err := s.start(ctx); err != nil {
			return "", err
		}
	}

	taskCtx := s.browserCtx
	if s.pageTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(taskCtx, s.pageTimeout)
		defer cancel()
	}

	var html string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("%w: rendering %s: %v", core.ErrFetch, url, err)
	}
	return html, nil
}

// Close tears down the browser session. Safe to call multiple times and
// on a session that was never started.
func (s *Session) Close() {
	if !s.started {
		s.release()
		return
	}
	s.started = false
	s.release()
}

func (s *Session) release() {
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
	s.browserCtx = nil
}

// BrowserFetcher fetches pages through a shared automation Session,
// returning the rendered source after JavaScript execution.
type BrowserFetcher struct {
	session *Session
}

// NewBrowser creates a BrowserFetcher over an existing Session. The
// session's lifetime is owned by the caller, not the fetcher.
func NewBrowser(session *Session) *BrowserFetcher {
	return &BrowserFetcher{session: session}
}

// Fetch returns the rendered page source for url.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.session.Source(ctx, url)
}
