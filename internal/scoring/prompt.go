package scoring

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/founder-scout/internal/model"
)

// The rubric lives outside the orchestrator as a versioned template
// resource so it can change without touching scoring logic.
//
//go:embed prompts/founder_scoring_prompt.md
var promptTemplate string

// systemPrompt frames the completion request. The JSON-only instruction is
// repeated here for models running without structured response support.
const systemPrompt = "You are an expert talent researcher. Respond with strict JSON only. Return a JSON object, no prose."

// PromptVersion identifies the embedded rubric template. It is stamped on
// every RunTrace so a stored result can be tied back to the exact rubric
// that produced it.
func PromptVersion() string {
	sum := sha256.Sum256([]byte(promptTemplate))
	return hex.EncodeToString(sum[:])[:12]
}

// evidencePayload is the JSON shape substituted into the prompt.
type evidencePayload struct {
	Evidence []model.EvidenceItem `json:"evidence"`
}

// BuildPrompt renders the rubric template for one run. Evidence is
// JSON-encoded before substitution, and substitution is a single
// literal-token replacement pass, so braces or placeholder-like text inside
// the evidence are inert data rather than template syntax.
func BuildPrompt(profileURL, nameGuess string, items []model.EvidenceItem) (string, error) {
	evidenceJSON, err := json.Marshal(evidencePayload{Evidence: items})
	if err != nil {
		return "", eris.Wrap(err, "scoring: marshal evidence payload")
	}

	r := strings.NewReplacer(
		"{profile_url}", profileURL,
		"{name_guess}", nameGuess,
		"{evidence_json}", string(evidenceJSON),
	)
	return r.Replace(promptTemplate), nil
}
