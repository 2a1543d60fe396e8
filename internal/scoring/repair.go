package scoring

import (
	"encoding/json"
	"strings"
)

// Recover extracts a JSON object from a raw model response, trying
// progressively more forgiving stages: strict parse, code-fence/prose
// stripping, then bracket-balanced truncation repair. Each stage is a pure
// function. Returns the recovered JSON, the stage that succeeded, and an
// error when every stage fails.
func Recover(raw string) (string, string, error) {
	if js, ok := parseStrict(raw); ok {
		return js, "strict", nil
	}
	if js, ok := parseFenced(raw); ok {
		return js, "fence_stripped", nil
	}
	if js, ok := repairTruncated(raw); ok {
		return js, "truncation_repair", nil
	}
	return "", "", &ProviderError{
		Kind:    KindMalformedResponse,
		Message: "no parseable JSON object in model response",
		Raw:     raw,
	}
}

// parseStrict accepts the input only if it is already a valid JSON object.
func parseStrict(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") || !json.Valid([]byte(trimmed)) {
		return "", false
	}
	return trimmed, true
}

// parseFenced strips code fences and surrounding prose by slicing from the
// first '{' to the last '}', then validates.
func parseFenced(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	candidate := raw[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", false
	}
	return candidate, true
}

// repairTruncated handles responses cut off mid-object: it scans from the
// first '{' tracking string and escape state, trims any dangling partial
// token, and appends the closing brackets still open at end of input.
func repairTruncated(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	if start < 0 {
		return "", false
	}
	s := raw[start:]

	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return "", false
			}
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) == 0 && !inString {
		// Balanced but parseStrict/parseFenced rejected it: not repairable here.
		return "", false
	}

	// Close an unterminated string, then drop a trailing partial pair
	// (e.g. `"summary": "cut off` keeps the closed string; `"summary":`
	// or a dangling comma must go).
	if inString {
		s += `"`
	}
	s = strings.TrimRight(s, " \t\n\r")
	s = strings.TrimSuffix(s, ",")
	if strings.HasSuffix(strings.TrimRight(s, " \t\n\r"), ":") {
		// Value never started: trim back through the orphaned key.
		if cut := strings.LastIndex(s, ","); cut >= 0 {
			s = s[:cut]
		}
	}

	// Append closers innermost-first.
	for i := len(stack) - 1; i >= 0; i-- {
		s += string(stack[i])
	}

	if !json.Valid([]byte(s)) {
		return "", false
	}
	return s, true
}
