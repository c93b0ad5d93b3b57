package core

import "errors"

// Error kinds used across pipeline stages. Stage errors wrap one of
// these sentinels so the driver can classify failures with errors.Is.
// Every kind is fatal for the current document only; batch processing
// continues with the next URL.
var (
	// ErrInvalidURL means identity derivation was impossible for the URL.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrStorage means a workspace directory or artifact could not be
	// created or written.
	ErrStorage = errors.New("storage failure")

	// ErrFetch means network or browser automation failed to retrieve
	// the page. Raw content cached by a prior run is never invalidated.
	ErrFetch = errors.New("fetch failure")

	// ErrConversion means the external converter exited non-zero or
	// could not be invoked.
	ErrConversion = errors.New("conversion failure")
)
