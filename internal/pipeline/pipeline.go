// Package pipeline drives a run: resolve gallery identifiers, render each
// gallery, pick its view, extract media and write files.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/jmylchreest/galleryfetch/internal/gallery"
	"github.com/jmylchreest/galleryfetch/internal/logger"
	"github.com/jmylchreest/galleryfetch/internal/media"
	"github.com/jmylchreest/galleryfetch/pkg/fetcher"
)

// ErrNoResults is returned when the search yields no galleries.
var ErrNoResults = errors.New("no galleries found")

// Downloader writes the media at a URL to a file.
type Downloader interface {
	Download(ctx context.Context, url, dest string) (int64, error)
}

// Runner executes runs. It is not safe for concurrent use: the renderer
// holds a single browser tab.
type Runner struct {
	search     fetcher.Fetcher
	renderer   fetcher.Fetcher
	downloader Downloader
	config     Config
}

// New creates a Runner. Search, renderer and downloader are required.
func New(opts ...Option) (*Runner, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case cfg.Search == nil:
		return nil, errors.New("pipeline: search fetcher is required")
	case cfg.Renderer == nil:
		return nil, errors.New("pipeline: renderer is required")
	case cfg.Downloader == nil:
		return nil, errors.New("pipeline: downloader is required")
	}

	return &Runner{
		search:     cfg.Search,
		renderer:   cfg.Renderer,
		downloader: cfg.Downloader,
		config:     cfg,
	}, nil
}

// Run downloads up to count galleries for phrase. The returned report
// covers everything done before an error, so it is non-nil even when err
// is not.
func (r *Runner) Run(ctx context.Context, phrase string, count int) (*Report, error) {
	report := &Report{
		Query:     phrase,
		Requested: count,
		StartedAt: time.Now(),
	}
	err := r.run(ctx, phrase, count, report)
	report.FinishedAt = time.Now()
	if err != nil {
		report.Error = err.Error()
	}
	return report, err
}

func (r *Runner) run(ctx context.Context, phrase string, count int, report *Report) error {
	if count < 1 {
		return nil
	}
	ids, err := gallery.Resolve(ctx, r.search, r.config.SearchURL, phrase)
	if err != nil {
		return err
	}
	report.Available = len(ids)
	if len(ids) == 0 {
		return fmt.Errorf("%w for %q", ErrNoResults, phrase)
	}
	if count < len(ids) {
		ids = ids[:count]
	}

	root := media.RootDir(r.config.OutputDir, phrase)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	report.OutputDir = root
	logger.Info("downloading galleries", "count", len(ids), "available", report.Available, "dir", root)

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		g, err := r.processGallery(ctx, root, i+1, id)
		if g != nil {
			report.Galleries = append(report.Galleries, *g)
		}
		if err != nil {
			return fmt.Errorf("gallery %03d (%s): %w", i+1, id, err)
		}
	}

	files, skipped, failed := report.Totals()
	logger.Info("run complete",
		"galleries", len(report.Galleries),
		"files", files,
		"skipped", skipped,
		"failed", failed)
	return nil
}

// processGallery renders one gallery and writes its media under root.
func (r *Runner) processGallery(ctx context.Context, root string, ordinal int, id string) (*GalleryReport, error) {
	log := logger.With("gallery", ordinal, "id", id)

	page, err := r.renderer.Fetch(ctx, r.config.URLs.GalleryURL(id), fetcher.Options{})
	if err != nil {
		return nil, err
	}

	view, err := gallery.SelectView(page.HTML, id, r.config.URLs)
	if err != nil {
		return nil, err
	}
	log.Debug("view selected", "view", view.Mode())

	html := page.HTML
	if grid, ok := view.(gallery.GridView); ok {
		gridPage, err := r.renderer.Fetch(ctx, grid.URL, fetcher.Options{})
		if err != nil {
			return nil, err
		}
		html = gridPage.HTML
	}

	ex, err := gallery.Extract(view, html)
	if err != nil {
		return nil, err
	}

	dir := media.GalleryDir(root, ordinal)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create gallery directory: %w", err)
	}

	g := &GalleryReport{Ordinal: ordinal, ID: id, View: view.Mode(), Dir: dir}
	for _, s := range ex.Skipped {
		log.Warn("could not find a link for gallery item", "item", s.Index, "reason", s.Reason)
		g.Skipped = append(g.Skipped, ItemIssue{Index: s.Index, Reason: s.Reason})
	}

	bar := r.progress(ordinal, len(ex.Items))
	defer func() { _ = bar.Finish() }()

	for _, item := range ex.Items {
		err := r.saveItem(ctx, log, g, item)
		_ = bar.Add(1)
		if err != nil {
			return g, err
		}
	}

	log.Info("gallery complete", "view", view.Mode(), "files", len(g.Files), "skipped", len(g.Skipped), "failed", len(g.Failed))
	return g, nil
}

// saveItem downloads one item into the gallery folder. Items with a
// disallowed extension are skipped without fetching. Fetch failures are
// recorded and tolerated unless FailFast is set; cancellation always stops.
func (r *Runner) saveItem(ctx context.Context, log *slog.Logger, g *GalleryReport, item gallery.Item) error {
	ext := media.Extension(item.URL)
	if !r.config.Extensions.Allows(ext) {
		reason := fmt.Sprintf("cannot use file type %q", ext)
		log.Warn("skipping item", "item", item.Index, "url", item.URL, "reason", reason)
		g.Skipped = append(g.Skipped, ItemIssue{Index: item.Index, URL: item.URL, Reason: reason})
		return nil
	}

	dest := filepath.Join(g.Dir, media.FileName(item.Index, ext))
	n, err := r.downloader.Download(ctx, item.URL, dest)
	if err != nil {
		if ctx.Err() != nil || r.config.FailFast {
			return err
		}
		log.Warn("download failed", "item", item.Index, "url", item.URL, "error", err)
		g.Failed = append(g.Failed, ItemIssue{Index: item.Index, URL: item.URL, Reason: err.Error()})
		return nil
	}

	g.Files = append(g.Files, FileReport{Index: item.Index, URL: item.URL, Path: dest, Bytes: n})
	return nil
}

// progress returns a bar for one gallery, or a silent one when no
// progress writer is configured.
func (r *Runner) progress(ordinal, total int) *progressbar.ProgressBar {
	w := r.config.Progress
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(fmt.Sprintf("gallery%03d", ordinal)),
		progressbar.OptionSetItsString("file"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionOnCompletion(func() { _, _ = fmt.Fprintln(w) }),
		progressbar.OptionSetVisibility(r.config.Progress != nil),
	)
}
