package pipeline

import (
	"io"

	"github.com/jmylchreest/galleryfetch/internal/gallery"
	"github.com/jmylchreest/galleryfetch/internal/media"
	"github.com/jmylchreest/galleryfetch/pkg/fetcher"
)

// Config holds Runner configuration.
type Config struct {
	Search     fetcher.Fetcher // Static fetcher for the search page
	Renderer   fetcher.Fetcher // Browser-backed fetcher for gallery pages
	Downloader Downloader

	SearchURL  string
	URLs       gallery.URLs
	OutputDir  string
	Extensions media.AllowSet
	FailFast   bool      // Abort the run on the first failed media fetch
	Progress   io.Writer // Progress bar destination; nil disables it
}

// DefaultConfig returns the Imgur endpoints and the default allow-set.
func DefaultConfig() Config {
	return Config{
		SearchURL: "https://imgur.com/search/score?q=",
		URLs: gallery.URLs{
			Gallery: "https://imgur.com/gallery/%s",
			Grid:    "https://imgur.com/a/%s?grid",
		},
		OutputDir:  ".",
		Extensions: media.NewAllowSet(),
	}
}

// Option configures a Runner.
type Option func(*Config)

// WithSearchFetcher sets the fetcher used for the search results page.
func WithSearchFetcher(f fetcher.Fetcher) Option {
	return func(c *Config) {
		c.Search = f
	}
}

// WithRenderer sets the fetcher used to render gallery pages.
func WithRenderer(f fetcher.Fetcher) Option {
	return func(c *Config) {
		c.Renderer = f
	}
}

// WithDownloader sets the media downloader.
func WithDownloader(d Downloader) Option {
	return func(c *Config) {
		c.Downloader = d
	}
}

// WithSearchURL sets the search endpoint template; tokens are appended.
func WithSearchURL(u string) Option {
	return func(c *Config) {
		c.SearchURL = u
	}
}

// WithGalleryURLs sets the gallery and grid page templates.
func WithGalleryURLs(galleryURL, gridURL string) Option {
	return func(c *Config) {
		c.URLs = gallery.URLs{Gallery: galleryURL, Grid: gridURL}
	}
}

// WithOutputDir sets the directory the run folder is created in.
func WithOutputDir(dir string) Option {
	return func(c *Config) {
		c.OutputDir = dir
	}
}

// WithExtensions replaces the allow-set of file extensions.
func WithExtensions(exts ...string) Option {
	return func(c *Config) {
		c.Extensions = media.NewAllowSet(exts...)
	}
}

// WithFailFast makes a failed media fetch abort the run.
func WithFailFast(enabled bool) Option {
	return func(c *Config) {
		c.FailFast = enabled
	}
}

// WithProgress draws a progress bar per gallery on w.
func WithProgress(w io.Writer) Option {
	return func(c *Config) {
		c.Progress = w
	}
}
