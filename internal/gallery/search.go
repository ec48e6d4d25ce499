// Package gallery turns search-result and gallery pages into gallery
// identifiers and ordered media URLs. It works on HTML only; fetching and
// rendering are left to a fetcher.Fetcher.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/galleryfetch/internal/logger"
	"github.com/jmylchreest/galleryfetch/pkg/fetcher"
)

// Markup the site uses for search results and gallery pages.
const (
	ResultSelector   = ".image-list-link"
	LoadAllSelector  = "a[class*='post-loadall']"
	GridItemSelector = ".post-grid-image"
	ContentSelector  = "[itemprop='contentURL']"
)

var (
	// ErrEmptyQuery is returned for a phrase with no tokens.
	ErrEmptyQuery = errors.New("empty search query")
	// ErrMalformedResult is returned when a result link carries no identifier.
	ErrMalformedResult = errors.New("search result without gallery identifier")
)

// Tokens splits a phrase on any run of whitespace.
func Tokens(phrase string) []string {
	return strings.Fields(phrase)
}

// SearchURL appends the phrase tokens, joined with '+', to the search
// endpoint template. Tokens are query-escaped; plain words are unchanged.
func SearchURL(endpoint, phrase string) (string, error) {
	tokens := Tokens(phrase)
	if len(tokens) == 0 {
		return "", ErrEmptyQuery
	}
	escaped := make([]string, len(tokens))
	for i, tok := range tokens {
		escaped[i] = url.QueryEscape(tok)
	}
	return endpoint + strings.Join(escaped, "+"), nil
}

// ParseResults returns one identifier per result link, in document order.
// Duplicates are kept.
func ParseResults(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}

	var ids []string
	var parseErr error
	doc.Find(ResultSelector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		id := identifier(href)
		if id == "" {
			parseErr = fmt.Errorf("%w: result %d has href %q", ErrMalformedResult, i+1, href)
			return false
		}
		ids = append(ids, id)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return ids, nil
}

// identifier returns the second path segment of a result href, so
// "/gallery/abc123" and "https://imgur.com/gallery/abc123" both yield
// "abc123".
func identifier(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// Resolve fetches the search page for phrase and returns its gallery
// identifiers. Non-success statuses surface as *fetcher.StatusError.
func Resolve(ctx context.Context, f fetcher.Fetcher, endpoint, phrase string) ([]string, error) {
	searchURL, err := SearchURL(endpoint, phrase)
	if err != nil {
		return nil, err
	}

	logger.Debug("fetching search results", "url", searchURL, "fetcher", f.Type())
	content, err := f.Fetch(ctx, searchURL, fetcher.Options{})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", phrase, err)
	}
	if err := fetcher.CheckStatus(searchURL, content.StatusCode); err != nil {
		return nil, err
	}

	ids, err := ParseResults(content.HTML)
	if err != nil {
		return nil, err
	}
	logger.Info("search resolved", "query", phrase, "galleries", len(ids))
	return ids, nil
}
