package gallery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// View is how a gallery's media must be enumerated. It is either GridView
// or NormalView.
type View interface {
	Mode() string
	isView()
}

// GridView is used when the default page truncates the gallery behind a
// "load all images" control. The grid page at URL lists every item.
type GridView struct {
	URL string
}

// NormalView is used when the rendered page already holds every item.
type NormalView struct{}

func (GridView) Mode() string   { return "grid" }
func (NormalView) Mode() string { return "normal" }

func (GridView) isView()   {}
func (NormalView) isView() {}

// URLs builds the two page addresses for a gallery identifier from the
// configured templates; each template holds a single %s.
type URLs struct {
	Gallery string // e.g. https://imgur.com/gallery/%s
	Grid    string // e.g. https://imgur.com/a/%s?grid
}

// GalleryURL returns the direct gallery page for id.
func (u URLs) GalleryURL(id string) string {
	return fmt.Sprintf(u.Gallery, id)
}

// GridURL returns the grid page for id.
func (u URLs) GridURL(id string) string {
	return fmt.Sprintf(u.Grid, id)
}

// SelectView inspects a rendered gallery page and picks the view. The
// presence of the load-all control is the only input.
func SelectView(html, id string, urls URLs) (View, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse gallery page: %w", err)
	}
	if doc.Find(LoadAllSelector).Length() > 0 {
		return GridView{URL: urls.GridURL(id)}, nil
	}
	return NormalView{}, nil
}
