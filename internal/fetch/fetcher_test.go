package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/founder-scout/internal/config"
)

func newTestFetcher(token string) *Fetcher {
	return New(
		config.FetchConfig{TimeoutSecs: 5},
		config.LinkedInConfig{SessionToken: token, UserAgent: "test-agent/1.0"},
	)
}

func TestFetch_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`<html><head><title>About Jane</title></head><body><p>Jane founded Acme.</p></body></html>`))
	}))
	defer srv.Close()

	f := newTestFetcher("")
	page := f.Fetch(context.Background(), srv.URL)

	require.True(t, page.OK())
	assert.Equal(t, "About Jane", page.Title)
	assert.Contains(t, page.Text, "Jane founded Acme.")
	assert.Empty(t, page.Reason)
}

func TestFetch_NonOKStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher("")
	page := f.Fetch(context.Background(), srv.URL)

	assert.False(t, page.OK())
	assert.Equal(t, "http_status_404", page.Reason)
}

func TestFetch_NetworkFailure(t *testing.T) {
	t.Parallel()

	f := newTestFetcher("")
	page := f.Fetch(context.Background(), "http://127.0.0.1:1")

	assert.False(t, page.OK())
	assert.Contains(t, page.Reason, "request_error")
}

func TestFetch_BadURL(t *testing.T) {
	t.Parallel()

	f := newTestFetcher("")
	page := f.Fetch(context.Background(), "http://bad url with spaces")

	assert.False(t, page.OK())
	assert.Contains(t, page.Reason, "bad_url")
}

func TestFetch_SessionCookieOnlyForLinkedIn(t *testing.T) {
	t.Parallel()

	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("li_at"); err == nil {
			gotCookie = c.Value
		}
		_, _ = w.Write([]byte(`<body>ok page content</body>`))
	}))
	defer srv.Close()

	f := newTestFetcher("secret-token")
	_ = f.Fetch(context.Background(), srv.URL)
	assert.Empty(t, gotCookie, "non-linkedin URL must not receive the session cookie")
}

func TestFetch_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	f := New(config.FetchConfig{}, config.LinkedInConfig{UserAgent: "t"})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	page := f.Fetch(ctx, srv.URL)
	assert.False(t, page.OK())
	assert.Contains(t, page.Reason, "request_error")
}
