// Package output writes run reports in JSON, JSONL or YAML.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/jmylchreest/galleryfetch/internal/pipeline"
)

// Format represents output format types.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Writer serialises a run report.
type Writer interface {
	Write(report *pipeline.Report) error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty bool
}

// WithPretty enables pretty-printing (JSON only).
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{pretty: true}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatJSON:
		return &JSONWriter{w: w, pretty: cfg.pretty}, nil
	case FormatJSONL:
		return &JSONLWriter{w: w}, nil
	case FormatYAML:
		return &YAMLWriter{w: w}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteFile writes report to path in the given format, replacing any
// existing file.
func WriteFile(path string, format Format, report *pipeline.Report, opts ...WriterOption) error {
	f, err := os.Create(path) //#nosec G304 -- CLI tool writes to user-specified report file
	if err != nil {
		return err
	}

	w, err := NewWriter(f, format, opts...)
	if err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Write(report); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
