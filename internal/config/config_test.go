package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MaxGalleries != 60 {
		t.Errorf("expected max_galleries 60, got %d", cfg.MaxGalleries)
	}
	if cfg.Site.SearchURL != "https://imgur.com/search/score?q=" {
		t.Errorf("unexpected search URL %q", cfg.Site.SearchURL)
	}
	if cfg.Site.GridURL != "https://imgur.com/a/%s?grid" {
		t.Errorf("unexpected grid URL %q", cfg.Site.GridURL)
	}
	if cfg.Download.ChunkBytes() != 100_000 {
		t.Errorf("expected 100KB chunk to be 100000 bytes, got %d", cfg.Download.ChunkBytes())
	}
	if cfg.Browser.Settle != 2*time.Second {
		t.Errorf("expected 2s settle, got %v", cfg.Browser.Settle)
	}
	if cfg.Browser.Timeout != 30*time.Second {
		t.Errorf("expected 30s render timeout, got %v", cfg.Browser.Timeout)
	}
	if cfg.Report.Compact {
		t.Error("report.compact should default to false")
	}
	if len(cfg.Download.Extensions) != 5 {
		t.Errorf("expected default extensions, got %v", cfg.Download.Extensions)
	}
	if cfg.Download.FailFast {
		t.Error("fail_fast should default to false")
	}
	if cfg.Report.Format != "json" {
		t.Errorf("expected json report format, got %q", cfg.Report.Format)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "galleryfetch.yaml")
	content := `
max_galleries: 10
download:
  chunk_size: 1MiB
  fail_fast: true
  extensions: [jpg, webm]
browser:
  settle: 500ms
headers:
  Accept-Language: en-GB
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error = %v", err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MaxGalleries != 10 {
		t.Errorf("expected 10, got %d", cfg.MaxGalleries)
	}
	if cfg.Download.ChunkBytes() != 1<<20 {
		t.Errorf("expected 1MiB, got %d", cfg.Download.ChunkBytes())
	}
	if !cfg.Download.FailFast {
		t.Error("expected fail_fast true")
	}
	if cfg.Browser.Settle != 500*time.Millisecond {
		t.Errorf("expected 500ms settle, got %v", cfg.Browser.Settle)
	}
	if strings.Join(cfg.Download.Extensions, ",") != "jpg,webm" {
		t.Errorf("unexpected extensions %v", cfg.Download.Extensions)
	}
	// viper lower-cases map keys
	if cfg.Headers["accept-language"] != "en-GB" {
		t.Errorf("expected header, got %v", cfg.Headers)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("GALLERYFETCH_MAX_GALLERIES", "7")
	t.Setenv("GALLERYFETCH_DOWNLOAD_FAIL_FAST", "true")
	t.Setenv("GALLERYFETCH_DOWNLOAD_OUTPUT_DIR", "/tmp/galleries")
	t.Setenv("GALLERYFETCH_BROWSER_SETTLE", "750ms")
	t.Setenv("GALLERYFETCH_REPORT_FORMAT", "yaml")
	t.Setenv("GALLERYFETCH_SITE_GRID_URL", "https://example.com/a/%s?grid")

	v := viper.New()
	BindEnv(v)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MaxGalleries != 7 {
		t.Errorf("expected 7, got %d", cfg.MaxGalleries)
	}
	if !cfg.Download.FailFast {
		t.Error("expected fail_fast from GALLERYFETCH_DOWNLOAD_FAIL_FAST")
	}
	if cfg.Download.OutputDir != "/tmp/galleries" {
		t.Errorf("unexpected output dir %q", cfg.Download.OutputDir)
	}
	if cfg.Browser.Settle != 750*time.Millisecond {
		t.Errorf("expected 750ms settle, got %v", cfg.Browser.Settle)
	}
	if cfg.Report.Format != "yaml" {
		t.Errorf("expected yaml report format, got %q", cfg.Report.Format)
	}
	if cfg.Site.GridURL != "https://example.com/a/%s?grid" {
		t.Errorf("unexpected grid URL %q", cfg.Site.GridURL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
		want string
	}{
		{"zero max galleries", "max_galleries", 0, "MaxGalleries"},
		{"grid url without placeholder", "site.grid_url", "https://imgur.com/a/grid", "GridURL"},
		{"bad search url", "site.search_url", "not a url", "SearchURL"},
		{"bad report format", "report.format", "xml", "Format"},
		{"bad chunk size", "download.chunk_size", "lots", "chunk_size"},
		{"zero chunk size", "download.chunk_size", "0B", "chunk_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.val)

			_, err := Load(v)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}
