package webtext

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"
)

var hrefRe = regexp.MustCompile(`(?i)href=["']([^"']+)["']`)

// assetExtensions are path suffixes that never hold analyzable text.
var assetExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp", ".ico",
	".css", ".js", ".pdf", ".zip", ".mp4",
}

// usefulPathParts is the allow-list of path substrings worth analyzing on a
// client company site.
var usefulPathParts = []string{
	"about", "team", "product", "solution", "service", "technolog",
	"portfolio", "case", "customer", "partner", "industr", "application",
	"material", "feature", "platform", "pricing", "company",
}

// DiscoverPages parses anchor hrefs out of homepage markup and returns
// same-host page URLs matching the allow-list, capped at the configured
// maximum. Relative hrefs resolve against baseURL.
func (f *Fetcher) DiscoverPages(baseURL, html string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	maxPages := f.cfg.MaxDiscoveredPages
	seen := make(map[string]bool)
	var urls []string

	for _, m := range hrefRe.FindAllStringSubmatch(html, -1) {
		href := m[1]

		var full *url.URL
		switch {
		case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
			full, err = url.Parse(href)
		case strings.HasPrefix(href, "/"):
			full, err = url.Parse(base.Scheme + "://" + base.Host + href)
		default:
			continue
		}
		if err != nil || full.Hostname() != base.Hostname() {
			continue
		}

		path := strings.ToLower(full.Path)
		if isAsset(path) || !isUsefulPath(path) {
			continue
		}

		clean := full.Scheme + "://" + full.Host + full.Path
		if seen[clean] {
			continue
		}
		seen[clean] = true
		urls = append(urls, clean)
		if len(urls) >= maxPages {
			break
		}
	}
	return urls
}

// FetchAll fetches the given URLs concurrently, dropping failures and pages
// below the minimum text length. Order of the input is preserved.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []*Page {
	pages := make([]*Page, len(urls))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(f.cfg.MaxDiscoveredPages)

	for i, u := range urls {
		g.Go(func() error {
			page := f.Fetch(gCtx, u)
			if page != nil && len(page.Text) >= f.cfg.MinPageChars {
				pages[i] = page
			}
			return nil
		})
	}
	_ = g.Wait()

	var kept []*Page
	for _, p := range pages {
		if p != nil {
			kept = append(kept, p)
		}
	}
	return kept
}

func isAsset(path string) bool {
	for _, ext := range assetExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func isUsefulPath(path string) bool {
	if path == "/" || path == "" {
		return true
	}
	for _, part := range usefulPathParts {
		if strings.Contains(path, part) {
			return true
		}
	}
	return false
}
