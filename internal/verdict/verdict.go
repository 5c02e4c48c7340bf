// Package verdict is the deterministic decision procedure that turns one
// investor's enrichment record plus the client's criteria into a final
// verdict, score, and reasoning string. It is an ordered list of guard rules
// evaluated in sequence; later rules run only when earlier ones do not fire,
// and that order is part of the contract.
package verdict

import (
	"context"
	"fmt"
	"strings"

	"github.com/evolute-hq/invscreen/internal/enrich"
	"github.com/evolute-hq/invscreen/internal/model"
	"github.com/evolute-hq/invscreen/internal/normalize"
)

// checkSizeFloorFactor disqualifies investors whose minimum ticket is far
// above the client's raise. 1.5 leaves room for investors that stretch down.
const checkSizeFloorFactor = 1.5

// FitFunc lazily produces the qualitative fit assessment. The engine invokes
// it only when the earlier guard rules have not already decided, so callers
// do not pay for an LLM call on investors that disqualify outright. A nil
// func or nil result is treated as a low-confidence non-match.
type FitFunc func(ctx context.Context) *enrich.FitResult

// Decide runs the rule sequence for one investor. warning carries the sanity
// validator's joined warning text, empty when the record was clean.
func Decide(ctx context.Context, inv model.InvestorInput, e *model.EnrichmentData, c model.ClientCriteria, warning string, assess FitFunc) model.ScreeningResult {
	res := model.ScreeningResult{
		InvestorName:  inv.Name,
		Website:       inv.Website,
		HQ:            inv.HQ,
		IndustryFocus: industryFocus(e),
	}
	if e != nil {
		res.CheckSizeMin = e.CheckSizeMin
		res.CheckSizeMax = e.CheckSizeMax
	}

	// Rule 1: nothing to judge.
	if e == nil {
		res.Verdict = model.NeedsReview("website unavailable")
		res.Score = 5
		res.Reasoning = "Website could not be fetched or contained no usable text."
		return res
	}

	// Rule 2: fund is closed.
	if e.NoLongerInvesting {
		res.Verdict = model.VerdictDisqualified
		res.Score = 1
		res.Reasoning = "No longer making new investments."
		return res
	}

	// Rule 3: not a check-writing investor.
	if !e.IsActualInvestor {
		res.Verdict = model.VerdictDisqualified
		res.Score = 1
		res.Reasoning = fmt.Sprintf("Not an investment organization (%s).", e.OrganizationType)
		return res
	}

	var reasons []string
	secondaryGeo := false

	// Rule 4: geographic restriction decision table.
	geo := evalGeography(c.GeoFocus, e.GeographicRestrictions, e.GeographicExceptions)
	if geo.disqualify {
		res.Verdict = model.VerdictDisqualified
		res.Score = 1
		res.Reasoning = capitalize(geo.note) + "."
		return res
	}
	if geo.secondary {
		secondaryGeo = true
	}
	if geo.note != "" {
		reasons = append(reasons, capitalize(geo.note))
	}

	// Rule 5: hardware client vs software-only investor.
	if c.IsHardware && e.SoftwareOnly {
		res.Verdict = model.VerdictDisqualified
		res.Score = 1
		res.Reasoning = "Invests in software companies only; client builds hardware."
		return res
	}

	// Rule 6: minimum ticket far above the raise.
	if e.CheckSizeMin != nil && c.CheckSize > 0 &&
		float64(*e.CheckSizeMin) > checkSizeFloorFactor*float64(c.CheckSize) {
		res.Verdict = model.VerdictDisqualified
		res.Score = 1
		res.Reasoning = fmt.Sprintf("Minimum ticket %s is well above the %s raise.",
			normalize.EURCompact(*e.CheckSizeMin), normalize.EURCompact(c.CheckSize))
		return res
	}

	hasCheckInfo := e.CheckSizeMin != nil || e.CheckSizeMax != nil

	// Rule 7: declared stages with no overlap, and no ticket data to judge by.
	stageOverlap := stagesOverlap(c.Stages, e.Stages)
	if !hasCheckInfo && len(e.Stages) > 0 && len(c.Stages) > 0 && !stageOverlap {
		res.Verdict = model.VerdictDisqualified
		res.Score = 1
		res.Reasoning = fmt.Sprintf("Invests at %s; client is raising at %s.",
			strings.Join(e.Stages, ", "), strings.Join(c.Stages, ", "))
		return res
	}

	// Rule 8: score accumulation.
	score := 5

	if hasCheckInfo {
		inBand := e.CheckSizeMin != nil && e.CheckSizeMax != nil &&
			c.CheckSize >= *e.CheckSizeMin && c.CheckSize <= *e.CheckSizeMax
		if inBand {
			score += 2
			reasons = append(reasons, fmt.Sprintf("Target raise %s sits within the %s ticket range",
				normalize.EURCompact(c.CheckSize),
				normalize.TicketRange(e.CheckSizeMin, e.CheckSizeMax)))
		} else {
			reasons = append(reasons, fmt.Sprintf("Ticket range %s against a %s target raise",
				normalize.TicketRange(e.CheckSizeMin, e.CheckSizeMax),
				normalize.EURCompact(c.CheckSize)))
		}
	}

	var fit *enrich.FitResult
	if assess != nil {
		fit = assess(ctx)
	}
	switch {
	case fit == nil:
		reasons = append(reasons, "Thematic fit could not be assessed")
	case fit.Match:
		switch fit.Confidence {
		case "high":
			score += 3
		case "medium":
			score += 2
		default:
			score++
		}
		reasons = append(reasons, fmt.Sprintf("Thematic fit (%s confidence): %s", fit.Confidence, fit.Rationale))
	case fit.Confidence == "high":
		res.Verdict = model.VerdictDisqualified
		res.Score = 2
		res.Reasoning = joinReasons(append(reasons, "Clear thematic mismatch: "+fit.Rationale))
		return res
	default:
		reasons = append(reasons, fmt.Sprintf("Possible thematic mismatch (%s confidence): %s", fit.Confidence, fit.Rationale))
	}

	if stageOverlap {
		score++
		reasons = append(reasons, "Stage focus matches the raise")
	}

	if e.InvestmentThesis != "" {
		reasons = append(reasons, "Thesis: "+e.InvestmentThesis)
	}

	score = clamp(score, 1, 10)

	// Rule 9: final verdict selection.
	res.Score = score
	res.Reasoning = joinReasons(reasons)

	if warning != "" && score < 9 {
		if score <= 3 {
			res.Verdict = model.VerdictDisqualified
		} else {
			res.Verdict = model.NeedsReview("conflicting information on site")
		}
		res.Reasoning = joinReasons(append(reasons, "Data quality: "+warning))
		return res
	}

	switch {
	case score >= 7:
		switch {
		case e.CheckSizeMax != nil && *e.CheckSizeMax >= c.CheckSize && !secondaryGeo:
			res.Verdict = model.VerdictQualifiedLead
		case e.CheckSizeMax != nil || secondaryGeo:
			res.Verdict = model.VerdictQualifiedCoLead
		default:
			res.Verdict = model.VerdictQualified
		}
	case score <= 3:
		res.Verdict = model.VerdictDisqualified
	default:
		res.Verdict = model.NeedsReview(reviewReason(e, hasCheckInfo))
	}
	return res
}

// reviewReason names the data dimension that kept the score in the middle
// band.
func reviewReason(e *model.EnrichmentData, hasCheckInfo bool) string {
	switch {
	case !hasCheckInfo:
		return "check size unknown"
	case len(e.Stages) == 0:
		return "stage focus unclear"
	case len(e.Sectors) == 0:
		return "sector focus unclear"
	default:
		return "borderline fit"
	}
}

// industryFocus labels the investor's sector focus for the result row.
func industryFocus(e *model.EnrichmentData) string {
	if e == nil || len(e.Sectors) == 0 {
		return "unknown"
	}
	return strings.Join(normalize.Sectors(e.Sectors), ", ")
}

// stagesOverlap reports whether any client stage appears in the investor's
// stage list after normalization.
func stagesOverlap(client, investor []string) bool {
	inv := make(map[string]struct{}, len(investor))
	for _, s := range normalize.Stages(investor) {
		inv[s] = struct{}{}
	}
	for _, s := range normalize.Stages(client) {
		if _, ok := inv[s]; ok {
			return true
		}
	}
	return false
}

func joinReasons(reasons []string) string {
	if len(reasons) == 0 {
		return "Insufficient signals either way."
	}
	joined := strings.Join(reasons, ". ")
	if !strings.HasSuffix(joined, ".") {
		joined += "."
	}
	return joined
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
