package output

import (
	"encoding/json"
	"io"

	"github.com/jmylchreest/galleryfetch/internal/pipeline"
)

// JSONWriter writes the whole report as one JSON document.
type JSONWriter struct {
	w      io.Writer
	pretty bool
}

// Write encodes report.
func (w *JSONWriter) Write(report *pipeline.Report) error {
	enc := json.NewEncoder(w.w)
	if w.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(report)
}

// JSONLWriter writes one JSON line per gallery, so a report can be
// appended to or streamed through line-oriented tools.
type JSONLWriter struct {
	w io.Writer
}

// jsonlRecord is a gallery tagged with the query it belongs to.
type jsonlRecord struct {
	Query string `json:"query"`
	pipeline.GalleryReport
}

// Write encodes each gallery of report on its own line.
func (w *JSONLWriter) Write(report *pipeline.Report) error {
	enc := json.NewEncoder(w.w)
	for _, g := range report.Galleries {
		if err := enc.Encode(jsonlRecord{Query: report.Query, GalleryReport: g}); err != nil {
			return err
		}
	}
	return nil
}
