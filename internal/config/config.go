// Package config loads galleryfetch settings from viper (flags, the
// .galleryfetch.yaml file and GALLERYFETCH_ environment variables).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jmylchreest/galleryfetch/internal/media"
	"github.com/jmylchreest/galleryfetch/pkg/fetcher"
)

// Config holds all galleryfetch configuration.
type Config struct {
	MaxGalleries int               `mapstructure:"max_galleries" validate:"gte=1,lte=1000"`
	UserAgent    string            `mapstructure:"user_agent"`
	Headers      map[string]string `mapstructure:"headers"`

	Site     SiteConfig     `mapstructure:"site"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	Download DownloadConfig `mapstructure:"download"`
	Report   ReportConfig   `mapstructure:"report"`
}

// SiteConfig holds the endpoints of the media site.
type SiteConfig struct {
	SearchURL  string `mapstructure:"search_url" validate:"required,url"`
	GalleryURL string `mapstructure:"gallery_url" validate:"required,contains=%s"`
	GridURL    string `mapstructure:"grid_url" validate:"required,contains=%s"`
}

// BrowserConfig controls the rendering browser.
type BrowserConfig struct {
	Path          string        `mapstructure:"path"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Settle        time.Duration `mapstructure:"settle" validate:"gte=0"`
	Headful       bool          `mapstructure:"headful"`
	ScreenshotDir string        `mapstructure:"screenshot_dir"`
}

// DownloadConfig controls media downloads.
type DownloadConfig struct {
	OutputDir  string        `mapstructure:"output_dir" validate:"required"`
	ChunkSize  string        `mapstructure:"chunk_size" validate:"required"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	FailFast   bool          `mapstructure:"fail_fast"`
	Extensions []string      `mapstructure:"extensions" validate:"dive,required"`

	chunkBytes int
}

// ReportConfig selects where and how the run report is written.
type ReportConfig struct {
	Path    string `mapstructure:"path"`
	Format  string `mapstructure:"format" validate:"oneof=json jsonl yaml"`
	Compact bool   `mapstructure:"compact"` // Single-line JSON
}

// ChunkBytes is ChunkSize parsed into bytes. Valid after Load.
func (d DownloadConfig) ChunkBytes() int {
	return d.chunkBytes
}

// EnvPrefix is the prefix of environment variables read by BindEnv.
const EnvPrefix = "GALLERYFETCH"

// BindEnv makes v read GALLERYFETCH_ variables, with nested keys joined by
// underscores: download.fail_fast is GALLERYFETCH_DOWNLOAD_FAIL_FAST.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// SetDefaults registers default values on v. Every key gets one so that
// environment variables reach it through Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("max_galleries", 60)
	v.SetDefault("user_agent", fetcher.DefaultUserAgent)

	v.SetDefault("site.search_url", "https://imgur.com/search/score?q=")
	v.SetDefault("site.gallery_url", "https://imgur.com/gallery/%s")
	v.SetDefault("site.grid_url", "https://imgur.com/a/%s?grid")

	v.SetDefault("browser.path", "")
	v.SetDefault("browser.timeout", fetcher.DefaultRenderTimeout)
	v.SetDefault("browser.settle", fetcher.DefaultSettle)
	v.SetDefault("browser.headful", false)
	v.SetDefault("browser.screenshot_dir", "")

	v.SetDefault("download.output_dir", ".")
	v.SetDefault("download.chunk_size", "100KB")
	v.SetDefault("download.timeout", 5*time.Minute)
	v.SetDefault("download.fail_fast", false)
	v.SetDefault("download.extensions", media.DefaultExtensions)

	v.SetDefault("report.path", "")
	v.SetDefault("report.format", "json")
	v.SetDefault("report.compact", false)
}

// Load reads and validates configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	size, err := humanize.ParseBytes(strings.TrimSpace(cfg.Download.ChunkSize))
	if err != nil {
		return nil, fmt.Errorf("invalid download.chunk_size %q: %w", cfg.Download.ChunkSize, err)
	}
	if size == 0 || size > 64<<20 {
		return nil, fmt.Errorf("invalid download.chunk_size %q: must be between 1B and 64MiB", cfg.Download.ChunkSize)
	}
	cfg.Download.chunkBytes = int(size)

	return &cfg, nil
}
