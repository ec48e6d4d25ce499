package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/galleryfetch/internal/logger"
	"github.com/jmylchreest/galleryfetch/pkg/fetcher"
)

// DefaultChunkSize bounds how much of a response is held in memory at once.
const DefaultChunkSize = 100_000

// ErrEmptyBody is returned when a successful response carries no bytes.
var ErrEmptyBody = errors.New("empty response body")

// Config holds configuration for the media client.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	ChunkSize int
	Headers   map[string]string
}

// Client downloads media files.
type Client struct {
	http   *http.Client
	config Config
}

// NewClient creates a media client. A nil httpClient gets a default one
// using cfg.Timeout.
func NewClient(httpClient *http.Client, cfg Config) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = fetcher.DefaultUserAgent
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{http: httpClient, config: cfg}
}

// Download fetches rawURL and streams the body to dest in ChunkSize
// pieces. A non-2xx status is a *fetcher.StatusError and creates no file.
// A failed or empty transfer removes the partial file.
func (c *Client) Download(ctx context.Context, rawURL, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := fetcher.CheckStatus(rawURL, resp.StatusCode); err != nil {
		return 0, err
	}

	f, err := os.Create(dest) //#nosec G304 -- dest is built from the run's own output directory
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dest, err)
	}

	buf := make([]byte, c.config.ChunkSize)
	n, copyErr := io.CopyBuffer(onlyWriter{f}, resp.Body, buf)
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		err = fmt.Errorf("write %s: %w", dest, copyErr)
	case closeErr != nil:
		err = fmt.Errorf("close %s: %w", dest, closeErr)
	case n == 0:
		err = fmt.Errorf("%s: %w", rawURL, ErrEmptyBody)
	}
	if err != nil {
		_ = os.Remove(dest)
		return 0, err
	}

	logger.Debug("media saved", "url", rawURL, "path", dest, "size", humanize.Bytes(uint64(n)))
	return n, nil
}

// onlyWriter hides ReadFrom so io.CopyBuffer actually uses the chunk buffer.
type onlyWriter struct {
	io.Writer
}
