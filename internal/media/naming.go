// Package media maps media URLs to files on disk and streams them there.
package media

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// DefaultExtensions is the set of file types that are written to disk.
var DefaultExtensions = []string{"jpg", "png", "jpeg", "gif", "mp4"}

// Extension returns the text after the final '.' of the URL path, in
// lower case. Query and fragment are ignored. Returns "" when the last
// path segment has no dot.
func Extension(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		p = p[i+1:]
	}
	i := strings.LastIndexByte(p, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(p[i+1:])
}

// AllowSet is a set of permitted extensions.
type AllowSet map[string]struct{}

// NewAllowSet builds a set from extensions, ignoring case and leading dots.
// An empty list yields DefaultExtensions.
func NewAllowSet(exts ...string) AllowSet {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	set := make(AllowSet, len(exts))
	for _, e := range exts {
		set[strings.ToLower(strings.TrimPrefix(e, "."))] = struct{}{}
	}
	return set
}

// Allows reports whether ext may be written.
func (s AllowSet) Allows(ext string) bool {
	_, ok := s[ext]
	return ok
}

// RootDir is the run's output directory: the phrase tokens joined with
// '_' plus a "_galleries" suffix, under base.
func RootDir(base, phrase string) string {
	return filepath.Join(base, strings.Join(strings.Fields(phrase), "_")+"_galleries")
}

// GalleryDir is the folder for the gallery at the one-based ordinal.
func GalleryDir(root string, ordinal int) string {
	return filepath.Join(root, fmt.Sprintf("gallery%03d", ordinal))
}

// FileName is the name for the item at the one-based index.
func FileName(index int, ext string) string {
	return fmt.Sprintf("image%03d.%s", index, ext)
}
