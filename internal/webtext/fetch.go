// Package webtext fetches investor and client web pages and reduces them to
// plain text for LLM extraction. Fetch failures are a data-unavailable
// condition, not an error: every public entry point degrades to nil/empty
// instead of propagating network problems to the screening pipeline.
package webtext

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/evolute-hq/invscreen/internal/config"
)

// maxBodyBytes caps how much of a response body is read before stripping.
const maxBodyBytes = 512 * 1024

// Page is one fetched page reduced to plain text. HTML keeps the raw markup
// of the page for link discovery; it is never sent to the LLM.
type Page struct {
	URL   string
	Title string
	Text  string
	HTML  string
}

// Fetcher fetches pages with a hard per-request timeout and a polite
// per-run rate limit.
type Fetcher struct {
	client  *http.Client
	cfg     config.FetchConfig
	limiter *rate.Limiter
}

// NewFetcher creates a Fetcher from config, filling zero values with the
// defaults config.Load would have applied.
func NewFetcher(cfg config.FetchConfig) *Fetcher {
	if cfg.TimeoutSecs <= 0 {
		cfg.TimeoutSecs = 12
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (compatible; EvoluteBot/1.0)"
	}
	if cfg.MaxContentChars <= 0 {
		cfg.MaxContentChars = 15000
	}
	if cfg.MinPageChars <= 0 {
		cfg.MinPageChars = 200
	}
	if cfg.SubpageBatchSize < 1 {
		cfg.SubpageBatchSize = 5
	}
	if cfg.MaxDiscoveredPages < 1 {
		cfg.MaxDiscoveredPages = 10
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 4
	}

	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
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
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.SubpageBatchSize),
	}
}

// Fetch retrieves a URL and converts it to plain text. Returns nil on
// network failure, non-success status, or timeout, never an error.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) *Page {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		zap.L().Debug("webtext: bad url", zap.String("url", rawURL), zap.Error(err))
		return nil
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		zap.L().Debug("webtext: fetch failed", zap.String("url", rawURL), zap.Error(err))
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		zap.L().Debug("webtext: non-success status",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
		)
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		zap.L().Debug("webtext: read body failed", zap.String("url", rawURL), zap.Error(err))
		return nil
	}

	html := string(body)
	text := StripHTML(html)
	if len(text) > f.cfg.MaxContentChars && f.cfg.MaxContentChars > 0 {
		text = text[:f.cfg.MaxContentChars]
	}

	return &Page{
		URL:   rawURL,
		Title: extractTitle(html),
		Text:  text,
		HTML:  html,
	}
}

// Resolve takes a bare hostname or URL and tries "https://" then
// "https://www." prefixed variants, returning the first page that yields
// content together with the URL that worked. Returns nil when no variant
// responds.
func (f *Fetcher) Resolve(ctx context.Context, website string) (*Page, string) {
	website = strings.TrimSpace(website)
	if website == "" {
		return nil, ""
	}

	var candidates []string
	if strings.HasPrefix(website, "http://") || strings.HasPrefix(website, "https://") {
		candidates = []string{website}
	} else {
		candidates = []string{"https://" + website, "https://www." + website}
	}

	for _, c := range candidates {
		if page := f.Fetch(ctx, c); page != nil && page.Text != "" {
			return page, c
		}
	}
	return nil, ""
}
