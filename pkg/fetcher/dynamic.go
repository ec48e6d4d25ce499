package fetcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/jmylchreest/galleryfetch/internal/logger"
)

// DynamicConfig holds configuration for the browser-backed fetcher.
type DynamicConfig struct {
	BrowserPath   string // Explicit Chrome/Chromium binary
	UserAgent     string
	Timeout       time.Duration // Bound on a whole navigation, settle included
	Settle        time.Duration // Wait after load for client-side content
	Headful       bool          // Show the browser window
	Headers       map[string]string
	ScreenshotDir string // Save a screenshot here when a navigation fails
}

// Render defaults. The timeout covers the settle wait.
const (
	DefaultRenderTimeout = 30 * time.Second
	DefaultSettle        = 2 * time.Second
)

// DefaultDynamicConfig returns sensible defaults.
func DefaultDynamicConfig() DynamicConfig {
	return DynamicConfig{
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultRenderTimeout,
		Settle:    DefaultSettle,
	}
}

// DynamicFetcher renders pages in a single long-lived browser session.
// The session is started by NewDynamic and torn down once by Close; every
// Fetch navigates the same tab.
type DynamicFetcher struct {
	config        DynamicConfig
	cancelAlloc   context.CancelFunc
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	closeOnce     sync.Once
}

// NewDynamic starts a browser and returns a fetcher bound to it.
func NewDynamic(ctx context.Context, cfg DynamicConfig) (*DynamicFetcher, error) {
	defaults := DefaultDynamicConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.Settle < 0 {
		cfg.Settle = 0
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !cfg.Headful),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(cfg.UserAgent),
	)
	if chromePath := FindChromePath(cfg.BrowserPath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug("chromedp", "msg", fmt.Sprintf(format, args...))
		}),
	)

	// The first Run allocates the browser and ties it to browserCtx, so it
	// must not be given a context with a shorter lifetime.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("%w: %v", ErrBrowserUnavailable, err)
	}

	logger.Debug("browser session started",
		"headful", cfg.Headful,
		"timeout", cfg.Timeout,
		"settle", cfg.Settle)

	return &DynamicFetcher{
		config:        cfg,
		cancelAlloc:   cancelAlloc,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
	}, nil
}

// Fetch navigates the session tab to targetURL and returns the rendered HTML.
func (f *DynamicFetcher) Fetch(ctx context.Context, targetURL string, opts Options) (Content, error) {
	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = f.config.Timeout
	}
	settle := opts.WaitDuration
	if settle == 0 {
		settle = f.config.Settle
	}

	runCtx, cancel := context.WithTimeout(f.browserCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html, title string
	var actions []chromedp.Action

	if headers := mergeHeaders(f.config.Headers, opts.Headers); len(headers) > 0 {
		h := make(network.Headers, len(headers))
		for k, v := range headers {
			h[k] = v
		}
		actions = append(actions, network.Enable(), network.SetExtraHTTPHeaders(h))
	}

	actions = append(actions,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body"),
	)
	if settle > 0 {
		actions = append(actions, chromedp.Sleep(settle))
	}
	actions = append(actions,
		chromedp.OuterHTML("html", &html),
		chromedp.Title(&title),
	)

	logger.Debug("rendering page", "url", targetURL, "timeout", timeout, "settle", settle)

	if err := chromedp.Run(runCtx, actions...); err != nil {
		f.saveScreenshot()
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		return result, fmt.Errorf("render %s: %w", targetURL, err)
	}

	result.HTML = html
	result.Title = title
	result.StatusCode = 200 // chromedp doesn't easily expose status codes

	logger.Debug("render complete", "url", targetURL, "title", title, "html_size", len(html))
	return result, nil
}

// saveScreenshot captures the current tab into ScreenshotDir, if set.
func (f *DynamicFetcher) saveScreenshot() {
	if f.config.ScreenshotDir == "" {
		return
	}
	captureCtx, cancel := context.WithTimeout(f.browserCtx, 5*time.Second)
	defer cancel()

	var shot []byte
	if err := chromedp.Run(captureCtx, chromedp.CaptureScreenshot(&shot)); err != nil {
		logger.Debug("screenshot capture failed", "error", err)
		return
	}
	path, err := writeScreenshot(f.config.ScreenshotDir, shot)
	if err != nil {
		logger.Debug("screenshot write failed", "dir", f.config.ScreenshotDir, "error", err)
		return
	}
	logger.Info("debug screenshot saved", "path", path)
}

// writeScreenshot stores shot under dir, creating dir if needed.
func writeScreenshot(dir string, shot []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("galleryfetch-%d.png", time.Now().UnixNano()))
	if err := os.WriteFile(path, shot, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Close shuts the browser down. Safe to call more than once.
func (f *DynamicFetcher) Close() error {
	f.closeOnce.Do(func() {
		f.cancelBrowser()
		f.cancelAlloc()
		logger.Debug("browser session closed")
	})
	return nil
}

// Type returns the fetcher type.
func (f *DynamicFetcher) Type() string {
	return "dynamic"
}
