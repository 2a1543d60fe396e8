package evidence

import (
	"net/url"
	"strings"
)

// NormalizeURL reduces a URL to its deduplication key: lowercase host with
// any www. prefix and default port removed, query string and fragment
// dropped, trailing slash trimmed. The scheme is discarded entirely so the
// http and https forms of a page collapse to the same key. Unparseable
// input falls back to the trimmed raw string.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.TrimRight(strings.ToLower(raw), "/")
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimSuffix(host, ":80")
	host = strings.TrimSuffix(host, ":443")

	path := strings.TrimRight(u.Path, "/")

	return host + path
}
