// Package scoring builds the rubric prompt from packaged evidence, drives
// the completion service with retry and format fallback, and enforces the
// confidence-gating rules on the parsed response.
package scoring

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/founder-scout/internal/config"
	"github.com/sells-group/founder-scout/internal/evidence"
	"github.com/sells-group/founder-scout/internal/model"
	"github.com/sells-group/founder-scout/internal/resilience"
	"github.com/sells-group/founder-scout/pkg/openai"
)

// maxCompletionTokens bounds the scoring response.
const maxCompletionTokens = 2048

// llmScore is the wire shape of the model's scoring response. FinalScore is
// parsed but never trusted; the orchestrator recomputes it.
type llmScore struct {
	SourceConfidenceAssessments   []model.SourceAssessment `json:"source_confidence_assessments"`
	HighConfidenceSourcesUsed     []string                 `json:"high_confidence_sources_used"`
	EntrepreneurialScore          float64                  `json:"entrepreneurial_score"`
	ContrarianMultiplier          float64                  `json:"contrarian_multiplier"`
	FinalScore                    float64                  `json:"final_score"`
	EntrepreneurialEvidencePoints []string                 `json:"entrepreneurial_evidence_points"`
	ContrarianEvidencePoints      []string                 `json:"contrarian_evidence_points"`
	Summary                       string                   `json:"summary"`
	Confidence                    float64                  `json:"confidence"`
}

// Orchestrator scores packaged evidence through the completion service.
type Orchestrator struct {
	llm   openai.Client
	cfg   config.OpenAIConfig
	retry resilience.RetryConfig
}

// NewOrchestrator creates an Orchestrator. The retry budget comes from
// openai.max_attempts; backoff shape uses the package defaults.
func NewOrchestrator(llm openai.Client, cfg config.OpenAIConfig) *Orchestrator {
	retry := resilience.DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}
	retry.ShouldRetry = Retryable
	return &Orchestrator{llm: llm, cfg: cfg, retry: retry}
}

// Score runs the scoring contract for one profile. Zero evidence items
// short-circuit with ErrNoEvidence before any completion call. Failures
// come back as *ProviderError with the raw provider payload attached; the
// trace records every attempt, fallback, and raw response either way.
func (o *Orchestrator) Score(ctx context.Context, profileURL, nameGuess string, items []model.EvidenceItem, trace *model.RunTrace) (*model.ScoreResult, error) {
	log := zap.L().With(zap.String("profile", profileURL), zap.String("phase", "scoring"))
	trace.PromptVersion = PromptVersion()

	if len(items) == 0 {
		trace.Append("scoring_short_circuit", "reason", "no_evidence")
		return nil, ErrNoEvidence
	}

	prompt, err := BuildPrompt(profileURL, nameGuess, items)
	if err != nil {
		return nil, err
	}
	trace.Append("prompt_built",
		"evidence_items", strconv.Itoa(len(items)),
		"prompt_version", trace.PromptVersion,
	)

	resp, err := o.complete(ctx, prompt, true, trace)
	if err != nil && isFormatRejection(err) {
		log.Info("structured response format rejected, falling back to text")
		trace.Append("format_fallback", "mode", "text")
		resp, err = o.complete(ctx, prompt, false, trace)
	}
	if err != nil {
		provErr := MapError(err)
		trace.Append("scoring_failed",
			"kind", string(provErr.Kind),
			"error", provErr.Message,
		)
		return nil, provErr
	}

	trace.Append("model_response", "raw", resp.Content)
	resp.Usage.LogCost(o.cfg.Model, "scoring")

	recovered, stage, err := Recover(resp.Content)
	if err != nil {
		trace.Append("parse_failed", "error", err.Error())
		return nil, err
	}
	trace.Append("response_parsed", "stage", stage)

	var parsed llmScore
	if err := json.Unmarshal([]byte(recovered), &parsed); err != nil {
		trace.Append("parse_failed", "error", err.Error())
		return nil, &ProviderError{
			Kind:    KindMalformedResponse,
			Message: "model response JSON does not match the scoring contract: " + err.Error(),
			Raw:     resp.Content,
			Err:     err,
		}
	}

	result := o.enforce(parsed, items, trace)
	log.Info("scoring complete",
		zap.Float64("entrepreneurial_score", result.EntrepreneurialScore),
		zap.Float64("contrarian_multiplier", result.ContrarianMultiplier),
		zap.Float64("final_score", result.FinalScore),
		zap.Int("high_confidence_sources", len(result.HighConfidenceSourcesUsed)),
	)
	return result, nil
}

// complete issues one completion request with retry on transient failures.
func (o *Orchestrator) complete(ctx context.Context, prompt string, jsonMode bool, trace *model.RunTrace) (*openai.CompletionResponse, error) {
	attempts := 0
	cfg := o.retry
	cfg.OnRetry = func(attempt int, err error) {
		trace.Append("completion_retry",
			"attempt", strconv.Itoa(attempt),
			"error", err.Error(),
		)
		resilience.RetryLogger("openai", "complete")(attempt, err)
	}

	start := time.Now()
	resp, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (*openai.CompletionResponse, error) {
		attempts++
		return o.llm.Complete(ctx, openai.CompletionRequest{
			Model:       o.cfg.Model,
			System:      systemPrompt,
			User:        prompt,
			Temperature: openai.EffectiveTemperature(o.cfg.Model, o.cfg.Temperature),
			MaxTokens:   maxCompletionTokens,
			JSONMode:    jsonMode,
		})
	})
	trace.Append("completion_call",
		"json_mode", strconv.FormatBool(jsonMode),
		"attempts", strconv.Itoa(attempts),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
		"ok", strconv.FormatBool(err == nil),
	)
	return resp, err
}

// enforce applies the hard invariants to the parsed response: clamped
// ranges, full assessment coverage, the confidence gate on evidence points,
// and the recomputed final score.
func (o *Orchestrator) enforce(parsed llmScore, items []model.EvidenceItem, trace *model.RunTrace) *model.ScoreResult {
	assessments := reconcileAssessments(parsed.SourceConfidenceAssessments, items)

	// The high-confidence set is derived, never taken from the model.
	var highConfidence []string
	for _, a := range assessments {
		if a.Confidence >= model.HighConfidenceThreshold {
			highConfidence = append(highConfidence, a.Source)
		}
	}

	entPoints := filterPoints(parsed.EntrepreneurialEvidencePoints, assessments)
	conPoints := filterPoints(parsed.ContrarianEvidencePoints, assessments)
	if dropped := len(parsed.EntrepreneurialEvidencePoints) - len(entPoints) +
		len(parsed.ContrarianEvidencePoints) - len(conPoints); dropped > 0 {
		trace.Append("low_confidence_points_dropped", "count", strconv.Itoa(dropped))
	}

	result := &model.ScoreResult{
		EntrepreneurialScore:          parsed.EntrepreneurialScore,
		ContrarianMultiplier:          parsed.ContrarianMultiplier,
		EntrepreneurialEvidencePoints: entPoints,
		ContrarianEvidencePoints:      conPoints,
		Summary:                       parsed.Summary,
		ModelConfidence:               parsed.Confidence,
		SourceConfidenceAssessments:   assessments,
		HighConfidenceSourcesUsed:     highConfidence,
	}
	result.ClampScores()
	return result
}

// reconcileAssessments guarantees exactly one assessment per evidence item,
// in evidence order. Model assessments are matched by normalized URL; items
// the model skipped get a zero-confidence placeholder, and assessments for
// unknown sources are discarded.
func reconcileAssessments(fromModel []model.SourceAssessment, items []model.EvidenceItem) []model.SourceAssessment {
	byKey := make(map[string]model.SourceAssessment, len(fromModel))
	for _, a := range fromModel {
		key := evidence.NormalizeURL(a.Source)
		if _, dup := byKey[key]; !dup {
			a.Confidence = clamp01(a.Confidence)
			byKey[key] = a
		}
	}

	out := make([]model.SourceAssessment, 0, len(items))
	for _, item := range items {
		if a, ok := byKey[evidence.NormalizeURL(item.SourceURL)]; ok {
			a.Source = item.SourceURL
			out = append(out, a)
			continue
		}
		out = append(out, model.SourceAssessment{
			Source:     item.SourceURL,
			Confidence: 0,
			Reasoning:  "not assessed by model",
		})
	}
	return out
}

// filterPoints drops evidence points that cite a low-confidence source. A
// point cites a source when the point text contains the source's URL, or
// its bare domain when no high-confidence source shares that domain.
// Points with no recognizable citation are kept: the rubric asks the model
// to self-filter, and this gate only enforces the cases it can attribute.
func filterPoints(points []string, assessments []model.SourceAssessment) []string {
	var lowKeys, lowDomains []string
	highDomains := make(map[string]struct{})
	for _, a := range assessments {
		key := evidence.NormalizeURL(a.Source)
		if a.Confidence >= model.HighConfidenceThreshold {
			highDomains[domainOf(key)] = struct{}{}
			continue
		}
		if key != "" {
			lowKeys = append(lowKeys, key)
			lowDomains = append(lowDomains, domainOf(key))
		}
	}
	if len(lowKeys) == 0 {
		return points
	}

	out := make([]string, 0, len(points))
	for _, p := range points {
		lower := strings.ToLower(p)
		citesLow := false
		for _, key := range lowKeys {
			if strings.Contains(lower, key) {
				citesLow = true
				break
			}
		}
		if !citesLow {
			for _, dom := range lowDomains {
				if _, shared := highDomains[dom]; shared || dom == "" {
					continue
				}
				if strings.Contains(lower, dom) {
					citesLow = true
					break
				}
			}
		}
		if !citesLow {
			out = append(out, p)
		}
	}
	return out
}

// domainOf returns the host part of a normalized URL key.
func domainOf(key string) string {
	if i := strings.IndexByte(key, '/'); i >= 0 {
		return key[:i]
	}
	return key
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
