package scoring

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/sells-group/founder-scout/internal/config"
	"github.com/sells-group/founder-scout/internal/discover"
	"github.com/sells-group/founder-scout/internal/evidence"
	"github.com/sells-group/founder-scout/internal/model"
	"github.com/sells-group/founder-scout/pkg/serp"
)

// PageFetcher retrieves a URL and extracts visible text.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) model.PageResult
}

// SourceDiscoverer runs the bounded secondary searches.
type SourceDiscoverer interface {
	Discover(ctx context.Context, profileURL, nameGuess, primaryText string, trace *model.RunTrace) []serp.Result
	EntrepreneurEvidence(ctx context.Context, nameGuess string, trace *model.RunTrace) []serp.Result
}

// Runner drives one full profile run: fetch, discover, package, score.
// Each step is sequential and blocking; a run can be aborted between steps
// through the context. Retries never re-issue fetch or search calls — they
// live inside the orchestrator's completion call only.
type Runner struct {
	fetcher PageFetcher
	disc    SourceDiscoverer
	orch    *Orchestrator
	cfg     config.ScoutConfig
}

// NewRunner wires the pipeline components together.
func NewRunner(fetcher PageFetcher, disc SourceDiscoverer, orch *Orchestrator, cfg config.ScoutConfig) *Runner {
	return &Runner{fetcher: fetcher, disc: disc, orch: orch, cfg: cfg}
}

// Run scores one profile URL. The returned trace always reflects progress
// up to the point of success or failure — partial progress is never
// discarded, and a typed error plus the trace is the failure contract.
func (r *Runner) Run(ctx context.Context, profileURL string) (*model.ScoreResult, model.RunTrace, error) {
	trace := model.NewRunTrace(profileURL)
	log := zap.L().With(zap.String("profile", profileURL), zap.String("run_id", trace.RunID))

	nameGuess := discover.NameFromProfileURL(profileURL)
	if nameGuess == "" {
		nameGuess = discover.FallbackName(profileURL)
	}
	trace.Append("name_guess", "name", nameGuess)

	// Step 1: primary profile fetch.
	trace.Append("fetch_profile", "url", profileURL)
	primary := r.fetcher.Fetch(ctx, profileURL)
	trace.Append("fetch_profile_result",
		"status", primary.Status,
		"reason", primary.Reason,
		"text_len", strconv.Itoa(len(primary.Text)),
	)

	if err := ctx.Err(); err != nil {
		return nil, trace.Snapshot(), err
	}

	// Step 2: conditional discovery plus entrepreneur-press searches.
	candidates := r.disc.Discover(ctx, profileURL, nameGuess, primary.Text, trace)
	discovered := r.fetchCandidates(ctx, candidates, trace)
	hits := r.disc.EntrepreneurEvidence(ctx, nameGuess, trace)

	if err := ctx.Err(); err != nil {
		return nil, trace.Snapshot(), err
	}

	// Step 3: package.
	items := evidence.Package(
		evidence.PageEvidence{URL: profileURL, Page: primary},
		discovered,
		hits,
	)
	trace.Append("evidence_packaged", "items", strconv.Itoa(len(items)))
	log.Info("evidence collected",
		zap.Int("items", len(items)),
		zap.Int("discovered_pages", len(discovered)),
		zap.Int("search_hits", len(hits)),
	)

	// Step 4: score.
	result, err := r.orch.Score(ctx, profileURL, nameGuess, items, trace)
	if err != nil {
		return nil, trace.Snapshot(), err
	}

	result.ProfileURL = profileURL
	result.NameGuess = nameGuess
	return result, trace.Snapshot(), nil
}

// fetchCandidates fetches discovered candidate pages, keeping ones with
// enough text to be worth assessing. Fetch attempts and kept pages are both
// bounded so a noisy discovery pass cannot stall the run.
func (r *Runner) fetchCandidates(ctx context.Context, candidates []serp.Result, trace *model.RunTrace) []evidence.PageEvidence {
	var kept []evidence.PageEvidence

	attempts := 0
	for _, c := range candidates {
		if len(kept) >= r.cfg.MaxFetchedSources || attempts >= r.cfg.MaxFetchAttempts {
			break
		}
		if ctx.Err() != nil {
			break
		}
		attempts++

		page := r.fetcher.Fetch(ctx, c.Link)
		trace.Append("fetch_candidate",
			"url", c.Link,
			"status", page.Status,
			"text_len", strconv.Itoa(len(page.Text)),
		)
		if !page.OK() || len(page.Text) < r.cfg.ThinProfileChars {
			continue
		}
		kept = append(kept, evidence.PageEvidence{URL: c.Link, Page: page})
	}

	trace.Append("personal_sources_used", "count", strconv.Itoa(len(kept)))
	return kept
}
