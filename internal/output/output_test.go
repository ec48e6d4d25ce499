package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/galleryfetch/internal/pipeline"
)

func testReport() *pipeline.Report {
	return &pipeline.Report{
		Query:     "red panda",
		Requested: 2,
		Available: 5,
		OutputDir: "red_panda_galleries",
		StartedAt: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
		Galleries: []pipeline.GalleryReport{
			{
				Ordinal: 1, ID: "abc123", View: "normal", Dir: "red_panda_galleries/gallery001",
				Files: []pipeline.FileReport{{Index: 1, URL: "https://i.imgur.com/a.jpg", Path: "red_panda_galleries/gallery001/image001.jpg", Bytes: 10}},
			},
			{
				Ordinal: 2, ID: "def456", View: "grid", Dir: "red_panda_galleries/gallery002",
				Skipped: []pipeline.ItemIssue{{Index: 1, URL: "https://i.imgur.com/b.webm", Reason: "cannot use file type \"webm\""}},
			},
		},
	}
}

// --- NewWriter Factory Tests ---

func TestNewWriter_Formats(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatJSON, "*output.JSONWriter"},
		{FormatJSONL, "*output.JSONLWriter"},
		{FormatYAML, "*output.YAMLWriter"},
	}
	for _, tt := range tests {
		w, err := NewWriter(&bytes.Buffer{}, tt.format)
		if err != nil {
			t.Fatalf("NewWriter(%s) error = %v", tt.format, err)
		}
		if got := fmt.Sprintf("%T", w); got != tt.want {
			t.Errorf("NewWriter(%s) = %s, want %s", tt.format, got, tt.want)
		}
	}
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Format("xml"))
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

// --- JSONWriter Tests ---

func TestJSONWriter_RoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	w, _ := NewWriter(buf, FormatJSON)
	if err := w.Write(testReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got pipeline.Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Query != "red panda" || len(got.Galleries) != 2 {
		t.Errorf("unexpected report %+v", got)
	}
	if got.Galleries[1].Skipped[0].Index != 1 {
		t.Errorf("skipped items lost: %+v", got.Galleries[1])
	}
	if !strings.Contains(buf.String(), "\n  \"query\"") {
		t.Error("expected pretty-printed output by default")
	}
}

func TestJSONWriter_Compact(t *testing.T) {
	buf := &bytes.Buffer{}
	w, _ := NewWriter(buf, FormatJSON, WithPretty(false))
	_ = w.Write(testReport())

	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("compact JSON should be a single line, got %q", buf.String())
	}
}

// --- JSONLWriter Tests ---

func TestJSONLWriter_OneLinePerGallery(t *testing.T) {
	buf := &bytes.Buffer{}
	w, _ := NewWriter(buf, FormatJSONL)
	if err := w.Write(testReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("invalid JSON line: %v", err)
	}
	if rec["query"] != "red panda" || rec["id"] != "def456" || rec["view"] != "grid" {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestJSONLWriter_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	w, _ := NewWriter(buf, FormatJSONL)
	if err := w.Write(&pipeline.Report{Query: "x"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

// --- YAMLWriter Tests ---

func TestYAMLWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w, _ := NewWriter(buf, FormatYAML)
	if err := w.Write(testReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if got["query"] != "red panda" {
		t.Errorf("unexpected query %v", got["query"])
	}
	galleries, ok := got["galleries"].([]any)
	if !ok || len(galleries) != 2 {
		t.Errorf("expected 2 galleries, got %v", got["galleries"])
	}
}

// --- WriteFile Tests ---

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	if err := WriteFile(path, FormatYAML, testReport()); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "query: red panda") {
		t.Errorf("unexpected report file %q", data)
	}
}

func TestWriteFile_Compact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteFile(path, FormatJSON, testReport(), WithPretty(false)); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(data), "\n") != 1 || !strings.HasPrefix(string(data), `{"query":"red panda"`) {
		t.Errorf("expected single-line JSON, got %q", data)
	}
}

func TestWriteFile_BadFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	if err := WriteFile(path, Format("txt"), testReport()); err == nil {
		t.Fatal("expected error")
	}
}
