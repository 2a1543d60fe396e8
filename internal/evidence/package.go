// Package evidence merges fetched pages and search hits into the uniform
// evidence record set consumed by scoring.
package evidence

import (
	"strings"
	"unicode/utf8"

	"github.com/sells-group/founder-scout/internal/model"
	"github.com/sells-group/founder-scout/pkg/serp"
)

// Snippet caps keep the prompt payload bounded. The primary profile gets
// more room than supplementary sources.
const (
	primarySnippetChars   = 1600
	secondarySnippetChars = 1200
)

// PageEvidence pairs a fetched URL with its extraction outcome.
type PageEvidence struct {
	URL  string
	Page model.PageResult
}

// Package merges the three evidence origins into one ordered, deduplicated
// list: the primary profile first, then discovered pages, then raw search
// hits. Duplicate URLs (by normalized form) keep their first occurrence, so
// a search hit never shadows a fetched page. Packaging is idempotent: the
// same inputs always produce the same items in the same order.
func Package(primary PageEvidence, discovered []PageEvidence, hits []serp.Result) []model.EvidenceItem {
	seen := make(map[string]struct{})
	var items []model.EvidenceItem

	add := func(item model.EvidenceItem) {
		key := NormalizeURL(item.SourceURL)
		if key == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		items = append(items, item)
	}

	if primary.Page.OK() && primary.Page.Text != "" {
		add(model.EvidenceItem{
			SourceURL:     primary.URL,
			Origin:        model.OriginPrimaryProfile,
			Title:         pageTitle(primary.Page, "Primary profile"),
			Snippet:       snippet(primary.Page.Text, primarySnippetChars),
			Domain:        serp.DomainOf(primary.URL),
			ExtractedText: primary.Page.Text,
		})
	}

	for _, d := range discovered {
		if !d.Page.OK() || d.Page.Text == "" {
			continue
		}
		add(model.EvidenceItem{
			SourceURL:     d.URL,
			Origin:        model.OriginDiscoveredPage,
			Title:         pageTitle(d.Page, "Fetched page"),
			Snippet:       snippet(d.Page.Text, secondarySnippetChars),
			Domain:        serp.DomainOf(d.URL),
			ExtractedText: d.Page.Text,
		})
	}

	for _, h := range hits {
		add(model.EvidenceItem{
			SourceURL: h.Link,
			Origin:    model.OriginSearchResult,
			Title:     h.Title,
			Snippet:   snippet(h.Snippet, secondarySnippetChars),
			Domain:    h.Domain,
			Query:     h.Query,
		})
	}

	return items
}

func pageTitle(p model.PageResult, fallback string) string {
	if p.Title != "" {
		return p.Title
	}
	return fallback
}

// snippet flattens newlines and truncates to at most max bytes, backing off
// to a rune boundary so the cut never produces invalid UTF-8.
func snippet(text string, max int) string {
	flat := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if len(flat) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(flat[cut]) {
			cut--
		}
		flat = flat[:cut]
	}
	return flat
}
