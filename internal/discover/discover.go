// Package discover decides when a primary profile needs supplementary
// sources and runs the bounded secondary searches that find them.
package discover

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/founder-scout/internal/config"
	"github.com/sells-group/founder-scout/internal/evidence"
	"github.com/sells-group/founder-scout/internal/model"
	"github.com/sells-group/founder-scout/pkg/serp"
)

// Discoverer issues bounded secondary searches through the search provider.
// Search failures degrade to partial results; they never fail the run.
type Discoverer struct {
	search serp.Client
	cfg    config.ScoutConfig
}

// New creates a Discoverer.
func New(search serp.Client, cfg config.ScoutConfig) *Discoverer {
	return &Discoverer{search: search, cfg: cfg}
}

// Thin reports whether the primary profile text is too short to stand alone.
func (d *Discoverer) Thin(primaryText string) bool {
	return len(primaryText) < d.cfg.ThinProfileChars
}

// Discover returns candidate personal-source results for a thin profile.
// It issues at most PerProfileQueries discovery queries, each requesting
// ResultsPerQuery results, concurrently. Candidates already seen (including
// the primary profile URL) are dropped. A profile that is not thin yields
// no candidates and no queries.
func (d *Discoverer) Discover(ctx context.Context, profileURL, nameGuess, primaryText string, trace *model.RunTrace) []serp.Result {
	if !d.Thin(primaryText) {
		trace.Append("discovery_skipped", "reason", "primary_profile_sufficient")
		return nil
	}

	queries := renderQueries(discoveryQueries, nameGuess, d.cfg.PerProfileQueries)
	results := d.runQueries(ctx, queries, "serp_discovery", trace)

	deduped := dedupeAgainst(results, profileURL)
	trace.Append("discovery_aggregate", "total_results", strconv.Itoa(len(deduped)))
	return deduped
}

// EntrepreneurEvidence searches for founder and startup press about the
// person. Same bounds and degradation behavior as Discover.
func (d *Discoverer) EntrepreneurEvidence(ctx context.Context, nameGuess string, trace *model.RunTrace) []serp.Result {
	queries := renderQueries(entrepreneurQueries, nameGuess, d.cfg.PerProfileQueries)
	results := d.runQueries(ctx, queries, "serp_search", trace)

	deduped := dedupeAgainst(results, "")
	trace.Append("entrepreneur_aggregate", "total_results", strconv.Itoa(len(deduped)))
	return deduped
}

// runQueries fans the queries out concurrently and merges results in query
// order. Individual query failures are logged and recorded, leaving the
// other queries' results intact.
func (d *Discoverer) runQueries(ctx context.Context, queries []string, action string, trace *model.RunTrace) []serp.Result {
	perQuery := make([][]serp.Result, len(queries))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for i, q := range queries {
		i, q := i, q
		trace.Append(action, "query", q)
		g.Go(func() error {
			res, err := d.search.Search(gCtx, q, d.cfg.ResultsPerQuery)
			if err != nil {
				zap.L().Warn("discover: search failed",
					zap.String("query", q),
					zap.Error(err),
				)
				mu.Lock()
				trace.Append("search_error", "query", q, "error", err.Error())
				mu.Unlock()
				return nil
			}
			perQuery[i] = res
			return nil
		})
	}
	_ = g.Wait()

	var merged []serp.Result
	for _, res := range perQuery {
		merged = append(merged, res...)
	}
	return merged
}

// dedupeAgainst removes results with empty or repeated links, plus any that
// normalize to the excluded URL.
func dedupeAgainst(results []serp.Result, exclude string) []serp.Result {
	seen := make(map[string]struct{})
	if exclude != "" {
		seen[evidence.NormalizeURL(exclude)] = struct{}{}
	}

	var out []serp.Result
	for _, r := range results {
		if r.Link == "" {
			continue
		}
		key := evidence.NormalizeURL(r.Link)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
