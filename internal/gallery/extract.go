package gallery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Item is one media URL. Index is the one-based position of the source
// element on the page; skipped elements leave gaps.
type Item struct {
	Index int
	URL   string
}

// Skip records an element that yielded no usable URL.
type Skip struct {
	Index  int
	Reason string
}

// Extraction is the ordered result of enumerating a gallery page.
type Extraction struct {
	Items   []Item
	Skipped []Skip
}

// ExtractGrid enumerates a grid page. Each grid image's data-href is a
// scheme-less path such as "//i.imgur.com/abc.jpg/"; it is trimmed of
// slashes and given an https scheme.
func ExtractGrid(html string) (Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Extraction{}, fmt.Errorf("parse grid page: %w", err)
	}

	var ex Extraction
	doc.Find(GridItemSelector).Each(func(i int, s *goquery.Selection) {
		href, ok := s.Attr("data-href")
		clean := strings.Trim(strings.TrimSpace(href), "/")
		if !ok || clean == "" {
			ex.Skipped = append(ex.Skipped, Skip{Index: i + 1, Reason: "grid image without data-href"})
			return
		}
		ex.Items = append(ex.Items, Item{Index: i + 1, URL: "https://" + clean})
	})
	return ex, nil
}

// ExtractNormal enumerates a fully rendered gallery page. Each content
// element yields its src, or failing that its content attribute.
func ExtractNormal(html string) (Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Extraction{}, fmt.Errorf("parse gallery page: %w", err)
	}

	var ex Extraction
	doc.Find(ContentSelector).Each(func(i int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			ex.Items = append(ex.Items, Item{Index: i + 1, URL: absolute(src)})
			return
		}
		if content, ok := s.Attr("content"); ok && content != "" {
			ex.Items = append(ex.Items, Item{Index: i + 1, URL: absolute(content)})
			return
		}
		ex.Skipped = append(ex.Skipped, Skip{Index: i + 1, Reason: "no src or content attribute"})
	})
	return ex, nil
}

// absolute gives protocol-relative URLs an https scheme.
func absolute(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}

// Extract dispatches on the view. html must be the page the view refers
// to: the grid page for GridView, the gallery page for NormalView.
func Extract(view View, html string) (Extraction, error) {
	switch view.(type) {
	case GridView:
		return ExtractGrid(html)
	case NormalView:
		return ExtractNormal(html)
	default:
		return Extraction{}, fmt.Errorf("unknown view %T", view)
	}
}
