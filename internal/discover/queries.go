package discover

import (
	"strings"
	"unicode"
)

// entrepreneurQueries find founder/startup press about the person. The
// {name} placeholder is replaced with the name guess.
var entrepreneurQueries = []string{
	"{name} founder cofounder startup venture round site:linkedin.com OR site:crunchbase.com OR site:angel.co",
	"{name} CEO CTO founder raised seed series A site:techcrunch.com OR site:crunchbase.com",
	"{name} YC Y Combinator accelerator Techstars site:yc.com OR site:news.ycombinator.com",
	"{name} stealth startup site:linkedin.com/in OR site:twitter.com OR site:x.com",
	"{name} dropout OR left college OR left university OR leave of absence",
	"{name} quant OR trading to startup OR founder OR switched fields",
}

// discoveryQueries find the person's own writing and personal pages, used
// when the primary profile is too thin to stand alone.
var discoveryQueries = []string{
	"{name} blog OR newsletter OR substack OR medium site:substack.com OR site:medium.com OR site:mirror.xyz OR site:github.io OR site:notion.site",
	"{name} personal website OR portfolio OR about me",
	"{name} site:github.io OR site:dev.to",
	"{name} site:x.com OR site:twitter.com",
}

func renderQueries(templates []string, name string, max int) []string {
	if max > len(templates) {
		max = len(templates)
	}
	out := make([]string, 0, max)
	for _, t := range templates[:max] {
		out = append(out, strings.ReplaceAll(t, "{name}", name))
	}
	return out
}

// NameFromProfileURL guesses a person's name from a LinkedIn profile URL
// slug. Encoded spaces, hyphens, and underscores become spaces, tokens
// containing digits are dropped, and the remaining words are capitalized.
// Returns an empty string when the URL has no recognizable slug.
func NameFromProfileURL(profileURL string) string {
	const marker = "linkedin.com/in/"
	idx := strings.Index(profileURL, marker)
	if idx < 0 {
		return ""
	}

	slug := strings.Trim(profileURL[idx+len(marker):], "/")
	if q := strings.IndexByte(slug, '?'); q >= 0 {
		slug = slug[:q]
	}

	r := strings.NewReplacer("%20", " ", "-", " ", "_", " ")
	slug = r.Replace(slug)

	var words []string
	for _, tok := range strings.Fields(slug) {
		if strings.ContainsFunc(tok, unicode.IsDigit) {
			continue
		}
		words = append(words, capitalize(tok))
	}
	return strings.Join(words, " ")
}

// FallbackName derives a name guess from the last path segment of any URL,
// for profiles that are not LinkedIn-shaped.
func FallbackName(profileURL string) string {
	trimmed := strings.Trim(profileURL, "/")
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return strings.TrimSpace(strings.ReplaceAll(trimmed, "-", " "))
}

// SanitizeProfileURLs filters pasted free text down to LinkedIn profile
// URLs, one per line, preserving first-seen order and dropping duplicates.
func SanitizeProfileURLs(text string) []string {
	seen := make(map[string]struct{})
	var urls []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, "linkedin.com/in/") {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		urls = append(urls, line)
	}
	return urls
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
