package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	sdk "github.com/sashabaranov/go-openai"

	"github.com/sells-group/founder-scout/internal/resilience"
)

// ErrNoEvidence is returned when zero evidence items reach scoring. The run
// short-circuits before any completion call is made.
var ErrNoEvidence = eris.New("scoring: no evidence available")

// ErrorKind is the user-facing taxonomy for scoring failures.
type ErrorKind string

const (
	KindAuth              ErrorKind = "provider_auth"
	KindRateLimited       ErrorKind = "provider_rate_limited"
	KindContentRejected   ErrorKind = "provider_content_rejected"
	KindContextLength     ErrorKind = "provider_context_length"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindUnknown           ErrorKind = "provider_unknown"
)

// ProviderError is a scoring failure mapped onto the taxonomy. Raw carries
// the provider payload (or model response) verbatim for diagnosis; it is
// never suppressed into a generic message.
type ProviderError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Raw        string
	Err        error
}

func (e *ProviderError) Error() string {
	base := string(e.Kind)
	if e.StatusCode > 0 {
		base += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Message != "" {
		base += ": " + e.Message
	}
	return base
}

func (e *ProviderError) Unwrap() error { return e.Err }

// signature matches a provider failure by status code and/or a lowercase
// message substring. Zero status means any status; empty substring means
// any message. The table is ordered: first match wins.
type signature struct {
	status int
	substr string
	kind   ErrorKind
}

var signatures = []signature{
	{status: 401, kind: KindAuth},
	{status: 403, kind: KindAuth},
	{substr: "invalid api key", kind: KindAuth},
	{substr: "incorrect api key", kind: KindAuth},
	{substr: "authentication", kind: KindAuth},
	{status: 429, kind: KindRateLimited},
	{substr: "rate limit", kind: KindRateLimited},
	{substr: "quota", kind: KindRateLimited},
	{substr: "context_length_exceeded", kind: KindContextLength},
	{substr: "maximum context length", kind: KindContextLength},
	{substr: "content_policy", kind: KindContentRejected},
	{substr: "content policy", kind: KindContentRejected},
	{substr: "content management policy", kind: KindContentRejected},
}

// Classify walks an error's cause chain looking for recognized provider
// signatures and maps the failure onto the taxonomy. SDK errors are often
// buried inside generic wrappers, so both the typed API error and the
// flattened message text are inspected.
func Classify(err error) (ErrorKind, int, string) {
	if err == nil {
		return KindUnknown, 0, ""
	}

	status := 0
	message := err.Error()

	var apiErr *sdk.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatusCode
		if apiErr.Message != "" {
			message = apiErr.Message
		}
	} else {
		var reqErr *sdk.RequestError
		if errors.As(err, &reqErr) {
			status = reqErr.HTTPStatusCode
		}
	}

	lower := strings.ToLower(message)
	for _, sig := range signatures {
		if sig.status != 0 && sig.status != status {
			continue
		}
		if sig.substr != "" && !strings.Contains(lower, sig.substr) {
			continue
		}
		return sig.kind, status, message
	}

	return KindUnknown, status, message
}

// MapError converts a completion failure into a *ProviderError using the
// signature table. The original error stays in the chain.
func MapError(err error) *ProviderError {
	kind, status, message := Classify(err)
	return &ProviderError{
		Kind:       kind,
		StatusCode: status,
		Message:    message,
		Err:        err,
	}
}

// Retryable reports whether a completion failure is transient: rate limits,
// timeouts, network-level failures, and 5xx-class server errors. Auth and
// content-policy failures are never retried.
func Retryable(err error) bool {
	kind, status, _ := Classify(err)
	switch kind {
	case KindAuth, KindContentRejected, KindContextLength:
		return false
	case KindRateLimited:
		return true
	}
	if status >= 500 {
		return true
	}
	return resilience.IsTransient(err)
}

// isFormatRejection reports whether the provider rejected the structured
// json_object response format, which triggers the plain-text fallback.
func isFormatRejection(err error) bool {
	if err == nil {
		return false
	}
	_, status, message := Classify(err)
	return status == 400 && strings.Contains(strings.ToLower(message), "response_format")
}
