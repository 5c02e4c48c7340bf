// Package screen is the orchestrator: it walks the investor list one entry
// at a time, drives the fetch/extract/score steps per investor, and emits
// progress events. Results are emitted in input order, one per investor,
// exactly once; streaming consumers rely on that.
package screen

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evolute-hq/invscreen/internal/config"
	"github.com/evolute-hq/invscreen/internal/enrich"
	"github.com/evolute-hq/invscreen/internal/model"
	"github.com/evolute-hq/invscreen/internal/normalize"
	"github.com/evolute-hq/invscreen/internal/sanity"
	"github.com/evolute-hq/invscreen/internal/verdict"
	"github.com/evolute-hq/invscreen/internal/webtext"
)

// Screener runs screening passes over investor lists. Safe for concurrent
// use; all per-investor state is local to one Run call.
type Screener struct {
	fetcher  *webtext.Fetcher
	enricher *enrich.Enricher
	cfg      config.ScreenConfig
}

// New creates a Screener. Zero config values fall back to workable caps.
func New(fetcher *webtext.Fetcher, enricher *enrich.Enricher, cfg config.ScreenConfig) *Screener {
	if cfg.SubpageCharsPerPage <= 0 {
		cfg.SubpageCharsPerPage = 4000
	}
	if cfg.SubpageTotalChars <= 0 {
		cfg.SubpageTotalChars = 24000
	}
	return &Screener{fetcher: fetcher, enricher: enricher, cfg: cfg}
}

// Run screens every investor sequentially and emits events to sink. The
// caller-supplied profile, when non-nil, skips the on-demand client
// profiling step. Per-investor failures degrade to needs-review results and
// never abort the run.
func (s *Screener) Run(ctx context.Context, criteria model.ClientCriteria, investors []model.InvestorInput, profile *model.ClientProfile, sink model.EventSink) ([]model.ScreeningResult, model.Summary) {
	runID := uuid.NewString()
	total := len(investors)

	zap.L().Info("screening run started",
		zap.String("run_id", runID),
		zap.String("client", criteria.ClientName),
		zap.Int("investors", total),
	)

	sink.Emit(model.Event{Type: model.EventStart, RunID: runID, Total: total})

	if profile == nil {
		profile = s.profileClient(ctx, criteria)
	}

	results := make([]model.ScreeningResult, 0, total)
	for i, inv := range investors {
		sink.Emit(model.Event{
			Type:     model.EventProgress,
			RunID:    runID,
			Current:  i + 1,
			Total:    total,
			Investor: inv.Name,
		})

		res := s.screenOne(ctx, criteria, profile, inv)
		results = append(results, res)

		idx := i
		sink.Emit(model.Event{
			Type:     model.EventResult,
			RunID:    runID,
			Index:    &idx,
			Investor: inv.Name,
			Result:   &res,
		})
	}

	summary := model.Summarize(results)
	sink.Emit(model.Event{
		Type:    model.EventComplete,
		RunID:   runID,
		Results: results,
		Summary: &summary,
	})

	zap.L().Info("screening run complete",
		zap.String("run_id", runID),
		zap.Int("qualified", summary.Qualified),
		zap.Int("disqualified", summary.Disqualified),
		zap.Int("needs_review", summary.NeedsReview),
	)
	return results, summary
}

// profileClient computes the client profile on demand from the client's
// website. Returns nil when no website was given or profiling fails; scoring
// works without a profile, just without the thematic fit bonus.
func (s *Screener) profileClient(ctx context.Context, criteria model.ClientCriteria) *model.ClientProfile {
	if strings.TrimSpace(criteria.ClientWebsite) == "" {
		return nil
	}
	page, _ := s.fetcher.Resolve(ctx, criteria.ClientWebsite)
	if page == nil {
		zap.L().Warn("client website unreachable, scoring without profile",
			zap.String("website", criteria.ClientWebsite))
		return nil
	}
	return s.enricher.ProfileClient(ctx, criteria.ClientName, page.Text)
}

// screenOne runs the per-investor state machine: fetch homepage, extract,
// check verdict clarity, optionally re-extract with subpage context, then
// sanity-check and score.
func (s *Screener) screenOne(ctx context.Context, criteria model.ClientCriteria, profile *model.ClientProfile, inv model.InvestorInput) model.ScreeningResult {
	page, resolvedURL := s.fetcher.Resolve(ctx, inv.Website)
	if resolvedURL != "" {
		inv.Website = resolvedURL
	}

	var rec *model.EnrichmentData
	if page != nil {
		rec = s.enricher.ExtractInvestor(ctx, inv.Name, page.Text)

		// Second pass with subpage context when the homepage alone did not
		// settle the verdict. The re-extraction fully replaces pass one.
		if !verdictClear(rec) {
			subpages := s.fetcher.ProbeSubpages(ctx, resolvedURL)
			if len(subpages) > 0 {
				combined := s.combineText(page, subpages)
				if second := s.enricher.ExtractInvestor(ctx, inv.Name, combined); second != nil {
					rec = second
				}
			}
		}
	}

	var warning string
	if rec != nil {
		normalize.Enrichment(rec)
		report := sanity.Apply(rec)
		if !report.Valid {
			warning = report.Joined()
			zap.L().Warn("enrichment failed sanity check",
				zap.String("investor", inv.Name),
				zap.String("warnings", warning),
			)
		}
		if rec.Description == "" && page != nil {
			rec.Description = s.enricher.Describe(ctx, inv.Name, page.Text)
		}
	}

	fit := verdict.FitFunc(nil)
	if profile != nil && rec != nil {
		fit = func(ctx context.Context) *enrich.FitResult {
			return s.enricher.AssessFit(ctx, profile, rec, inv.Name)
		}
	}

	return verdict.Decide(ctx, inv, rec, criteria, warning, fit)
}

// verdictClear reports whether the first-pass enrichment already settles the
// verdict, making the subpage pass unnecessary.
func verdictClear(rec *model.EnrichmentData) bool {
	if rec == nil {
		return false
	}
	if rec.NoLongerInvesting || !rec.IsActualInvestor || rec.GeographicRestrictions != "" {
		return true
	}
	checkPresent := rec.CheckSizeMin != nil || rec.CheckSizeMax != nil
	return checkPresent && len(rec.Stages) > 0 && len(rec.Sectors) > 0
}

// combineText builds the second-pass extraction context: homepage text plus
// subpage texts, each capped per page and the whole capped in total.
func (s *Screener) combineText(home *webtext.Page, subpages []*webtext.Page) string {
	var b strings.Builder
	b.WriteString(home.Text)

	for _, p := range subpages {
		if b.Len() >= s.cfg.SubpageTotalChars {
			break
		}
		text := p.Text
		if len(text) > s.cfg.SubpageCharsPerPage {
			text = text[:s.cfg.SubpageCharsPerPage]
		}
		remaining := s.cfg.SubpageTotalChars - b.Len()
		if len(text) > remaining {
			text = text[:remaining]
		}
		b.WriteString("\n\n## ")
		b.WriteString(p.URL)
		b.WriteString("\n")
		b.WriteString(text)
	}
	return b.String()
}
