package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/galleryfetch/internal/pipeline"
)

// YAMLWriter writes the report as a YAML document.
type YAMLWriter struct {
	w io.Writer
}

// Write encodes report.
func (w *YAMLWriter) Write(report *pipeline.Report) error {
	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)
	if err := encoder.Encode(report); err != nil {
		return err
	}
	return encoder.Close()
}
