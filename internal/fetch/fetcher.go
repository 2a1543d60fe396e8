// Package fetch retrieves web pages and extracts their visible text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/founder-scout/internal/config"
	"github.com/sells-group/founder-scout/internal/model"
)

// maxBodyBytes limits the amount of HTML downloaded per page.
const maxBodyBytes = 512 * 1024 // 512 KB

// Fetcher retrieves a URL and extracts visible text. Failures are captured
// in the returned PageResult rather than raised: a dead link degrades the
// evidence set, it does not abort the run.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	sessionToken string
}

// New creates a Fetcher. The LinkedIn session token, when set, is sent as
// the li_at cookie on linkedin.com requests so authenticated profile HTML
// is returned instead of the login wall.
func New(fetchCfg config.FetchConfig, liCfg config.LinkedInConfig) *Fetcher {
	timeout := 15 * time.Second
	if fetchCfg.TimeoutSecs > 0 {
		timeout = time.Duration(fetchCfg.TimeoutSecs) * time.Second
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		userAgent:    liCfg.UserAgent,
		sessionToken: liCfg.SessionToken,
	}
}

// Fetch downloads targetURL and returns a PageResult. It never returns an
// error: network failures, non-200 statuses, and markup problems all come
// back as Status=failed with a reason string.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) model.PageResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return failed(fmt.Sprintf("bad_url:%v", err))
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if f.sessionToken != "" && strings.Contains(strings.ToLower(targetURL), "linkedin.com") {
		req.AddCookie(&http.Cookie{Name: "li_at", Value: f.sessionToken})
	}

	resp, err := f.client.Do(req)
	if err != nil {
		zap.L().Debug("fetch: request failed", zap.String("url", targetURL), zap.Error(err))
		return failed(fmt.Sprintf("request_error:%v", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return failed(fmt.Sprintf("http_status_%d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return failed(fmt.Sprintf("read_error:%v", err))
	}
	if len(body) == 0 {
		return failed("empty_body")
	}

	raw := string(body)
	return model.PageResult{
		Status: model.PageOK,
		Text:   ExtractText(raw),
		Title:  ExtractTitle(raw),
	}
}

func failed(reason string) model.PageResult {
	return model.PageResult{Status: model.PageFailed, Reason: reason}
}
