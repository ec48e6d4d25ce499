package pipeline

import "time"

// Report summarises a run, including one that stopped early.
type Report struct {
	Query      string          `json:"query" yaml:"query"`
	Requested  int             `json:"requested" yaml:"requested"`
	Available  int             `json:"available" yaml:"available"`
	OutputDir  string          `json:"output_dir" yaml:"output_dir"`
	StartedAt  time.Time       `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time       `json:"finished_at" yaml:"finished_at"`
	Galleries  []GalleryReport `json:"galleries" yaml:"galleries"`
	Error      string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// GalleryReport is the outcome for one gallery.
type GalleryReport struct {
	Ordinal int          `json:"ordinal" yaml:"ordinal"`
	ID      string       `json:"id" yaml:"id"`
	View    string       `json:"view" yaml:"view"`
	Dir     string       `json:"dir" yaml:"dir"`
	Files   []FileReport `json:"files" yaml:"files"`
	Skipped []ItemIssue  `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Failed  []ItemIssue  `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// FileReport is one file written to disk.
type FileReport struct {
	Index int    `json:"index" yaml:"index"`
	URL   string `json:"url" yaml:"url"`
	Path  string `json:"path" yaml:"path"`
	Bytes int64  `json:"bytes" yaml:"bytes"`
}

// ItemIssue is an item that produced no file.
type ItemIssue struct {
	Index  int    `json:"index" yaml:"index"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
	Reason string `json:"reason" yaml:"reason"`
}

// Totals counts files, skipped and failed items across all galleries.
func (r *Report) Totals() (files, skipped, failed int) {
	for _, g := range r.Galleries {
		files += len(g.Files)
		skipped += len(g.Skipped)
		failed += len(g.Failed)
	}
	return files, skipped, failed
}
