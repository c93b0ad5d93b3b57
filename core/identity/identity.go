// Package identity derives a filesystem-safe document identity from a URL.
// The identity names the document's workspace directory and the output
// file stem, so it must be a single safe path segment on every supported
// filesystem.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/gaurav-prasanna/bookbind/core"
)

// FromURL derives the document identity for rawURL.
// It takes the last non-empty path segment and sanitizes it: whitespace
// and slash-like separators become underscores, '?' and ':' are removed.
// A URL with no usable path segment (bare domain, trailing slash) falls
// back to a hash of the full URL so the identity is never empty.
func FromURL(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", core.ErrInvalidURL, rawURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("%w: %s (must include scheme and host)", core.ErrInvalidURL, rawURL)
	}

	candidate := sanitize(lastSegment(parsed.Path))
	if candidate == "" {
		return hashFallback(rawURL), nil
	}
	return candidate, nil
}

// lastSegment returns the final non-empty path component.
func lastSegment(path string) string {
	segments := strings.Split(path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}

// sanitize makes a path segment safe as a single filename:
// whitespace and separators map to '_', '?' and ':' are dropped.
func sanitize(segment string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return '_'
		case r == '/' || r == '\\':
			return '_'
		case r == '?' || r == ':':
			return -1
		default:
			return r
		}
	}, segment)

	// All-underscore results carry no information; treat as empty so
	// the hash fallback applies.
	if strings.Trim(cleaned, "_") == "" {
		return ""
	}
	return cleaned
}

// hashFallback produces a deterministic identity for URLs whose path
// yields no usable segment.
func hashFallback(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return "page-" + hex.EncodeToString(sum[:])[:12]
}
