package model

import "math"

// Score bounds enforced on every ScoreResult.
const (
	MaxEntrepreneurialScore = 4.0
	MinContrarianMultiplier = 1.0
	MaxContrarianMultiplier = 1.5
	// HighConfidenceThreshold is the minimum per-source confidence for a
	// source to count toward evidence points.
	HighConfidenceThreshold = 0.5
)

// SourceAssessment is the model's identity-confidence judgment for one
// evidence item. Assessments come only from the completion service; the
// orchestrator never fabricates confidence above zero.
type SourceAssessment struct {
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// ScoreResult aggregates the scored output for one profile run.
type ScoreResult struct {
	ProfileURL string `json:"profile_url"`
	NameGuess  string `json:"name_guess"`

	EntrepreneurialScore float64 `json:"entrepreneurial_score"`
	ContrarianMultiplier float64 `json:"contrarian_multiplier"`
	// FinalScore is always recomputed with ComputeFinalScore; a final_score
	// field returned by the model is ignored.
	FinalScore float64 `json:"final_score"`

	EntrepreneurialEvidencePoints []string `json:"entrepreneurial_evidence_points"`
	ContrarianEvidencePoints      []string `json:"contrarian_evidence_points"`

	Summary         string  `json:"summary"`
	ModelConfidence float64 `json:"confidence"`

	SourceConfidenceAssessments []SourceAssessment `json:"source_confidence_assessments"`
	HighConfidenceSourcesUsed   []string           `json:"high_confidence_sources_used"`
}

// ComputeFinalScore derives the final score from the two sub-scores:
// round(min(4.0, entrepreneurial * multiplier), 2). This is the only place
// the formula lives.
func ComputeFinalScore(entrepreneurial, multiplier float64) float64 {
	s := entrepreneurial * multiplier
	if s > MaxEntrepreneurialScore {
		s = MaxEntrepreneurialScore
	}
	return math.Round(s*100) / 100
}

// ClampScores forces the sub-scores and confidence into their documented
// ranges and recomputes FinalScore.
func (r *ScoreResult) ClampScores() {
	r.EntrepreneurialScore = clamp(r.EntrepreneurialScore, 0, MaxEntrepreneurialScore)
	r.ContrarianMultiplier = clamp(r.ContrarianMultiplier, MinContrarianMultiplier, MaxContrarianMultiplier)
	r.ModelConfidence = clamp(r.ModelConfidence, 0, 1)
	r.FinalScore = ComputeFinalScore(r.EntrepreneurialScore, r.ContrarianMultiplier)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
