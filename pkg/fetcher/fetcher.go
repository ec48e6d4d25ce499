// Package fetcher defines the interface for page fetching and its two
// implementations: a static HTTP fetcher for server-rendered pages and a
// browser-backed fetcher for pages that load their content client-side.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves page content from a URL.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any resources (browser instances, etc.).
	Close() error

	// Type returns a string identifying the fetcher type (e.g., "static", "dynamic").
	Type() string
}

// Options controls fetching behavior.
type Options struct {
	UserAgent    string
	Timeout      time.Duration
	WaitDuration time.Duration // Settle time after load (dynamic fetchers)
	Headers      map[string]string
}

// Content represents fetched page data.
type Content struct {
	URL         string
	HTML        string
	Title       string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}

// ErrBrowserUnavailable is returned when no browser could be started.
var ErrBrowserUnavailable = errors.New("browser unavailable")

// StatusError reports a non-success HTTP status for a URL.
// Check with errors.As(err, &statusErr).
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// CheckStatus returns a *StatusError unless code is 2xx.
func CheckStatus(url string, code int) error {
	if code >= 200 && code < 300 {
		return nil
	}
	return &StatusError{URL: url, StatusCode: code}
}
