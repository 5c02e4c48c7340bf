package webtext

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// investorPaths are the likely subpages of an investor site, probed blindly
// rather than discovered: fund sites are small and follow strong naming
// conventions, so probing a fixed list beats parsing every homepage link.
var investorPaths = []string{
	"/about",
	"/team",
	"/thesis",
	"/portfolio",
	"/investments",
	"/focus",
	"/approach",
	"/strategy",
	"/companies",
}

// ProbeSubpages fetches the fixed investor path list under baseURL in
// concurrent batches, keeping only pages whose extracted text meets the
// minimum length. Unreachable or placeholder pages are silently dropped.
// Results preserve the order of investorPaths.
func (f *Fetcher) ProbeSubpages(ctx context.Context, baseURL string) []*Page {
	base := strings.TrimRight(baseURL, "/")

	pages := make([]*Page, len(investorPaths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(f.cfg.SubpageBatchSize)

	for i, p := range investorPaths {
		g.Go(func() error {
			page := f.Fetch(gCtx, base+p)
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

	zap.L().Debug("webtext: subpage probe complete",
		zap.String("base", base),
		zap.Int("kept", len(kept)),
	)
	return kept
}
