package model

// Origin classifies where an evidence item came from.
type Origin string

const (
	// OriginPrimaryProfile marks the profile URL the run was started with.
	OriginPrimaryProfile Origin = "primary_profile"
	// OriginDiscoveredPage marks a page found by secondary discovery and fetched.
	OriginDiscoveredPage Origin = "discovered_page"
	// OriginSearchResult marks a raw search hit that was not fetched.
	OriginSearchResult Origin = "search_result"
)

// EvidenceItem is a single normalized piece of evidence about a person.
// Items are immutable once packaged; the packager guarantees at most one
// item per normalized URL within a run.
type EvidenceItem struct {
	SourceURL     string `json:"source_url"`
	Origin        Origin `json:"origin"`
	Title         string `json:"title"`
	Snippet       string `json:"snippet"`
	Domain        string `json:"domain"`
	ExtractedText string `json:"extracted_text,omitempty"`
	Query         string `json:"query,omitempty"`
}

// PageResult is the outcome of fetching and extracting a single URL.
// A failed fetch is data, not an error: Status carries the outcome and
// Reason explains failures.
type PageResult struct {
	Status string `json:"status"` // "ok" or "failed"
	Text   string `json:"text"`
	Title  string `json:"title,omitempty"`
	Reason string `json:"reason,omitempty"`
}

const (
	// PageOK indicates the page was fetched and text was extracted.
	PageOK = "ok"
	// PageFailed indicates the fetch or extraction failed.
	PageFailed = "failed"
)

// OK reports whether the fetch produced usable text.
func (p PageResult) OK() bool { return p.Status == PageOK }
