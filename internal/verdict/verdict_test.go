package verdict

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evolute-hq/invscreen/internal/enrich"
	"github.com/evolute-hq/invscreen/internal/model"
)

func i64(v int64) *int64 { return &v }

func baseCriteria() model.ClientCriteria {
	return model.ClientCriteria{
		ClientName: "Helix Bio",
		Sectors:    []string{"climate"},
		CheckSize:  5_000_000,
		Stages:     []string{"Seed"},
		GeoFocus:   []string{"europe"},
	}
}

func goodEnrichment() *model.EnrichmentData {
	return &model.EnrichmentData{
		Sectors:          []string{"climate"},
		CheckSizeMin:     i64(1_000_000),
		CheckSizeMax:     i64(10_000_000),
		Stages:           []string{"Seed"},
		IsActualInvestor: true,
		OrganizationType: model.OrgVC,
	}
}

func fitHigh(match bool) FitFunc {
	return func(context.Context) *enrich.FitResult {
		return &enrich.FitResult{Match: match, Confidence: "high", Rationale: "sector alignment"}
	}
}

func runDecide(t *testing.T, e *model.EnrichmentData, c model.ClientCriteria, warning string, fit FitFunc) model.ScreeningResult {
	t.Helper()
	return Decide(context.Background(), model.InvestorInput{Name: "Acme Ventures"}, e, c, warning, fit)
}

func TestDecide_NoEnrichment(t *testing.T) {
	t.Parallel()
	res := runDecide(t, nil, baseCriteria(), "", nil)

	assert.Equal(t, model.NeedsReview("website unavailable"), res.Verdict)
	assert.Equal(t, 5, res.Score)
	assert.Equal(t, "unknown", res.IndustryFocus)
	assert.Nil(t, res.CheckSizeMin)
}

func TestDecide_NoLongerInvesting(t *testing.T) {
	t.Parallel()
	// Must disqualify regardless of how good every other field looks.
	e := goodEnrichment()
	e.NoLongerInvesting = true

	res := runDecide(t, e, baseCriteria(), "", fitHigh(true))
	assert.Equal(t, model.VerdictDisqualified, res.Verdict)
	assert.Equal(t, 1, res.Score)
}

func TestDecide_NotAnInvestor(t *testing.T) {
	t.Parallel()
	e := goodEnrichment()
	e.IsActualInvestor = false
	e.OrganizationType = model.OrgCoWorking

	res := runDecide(t, e, baseCriteria(), "", nil)
	assert.Equal(t, model.VerdictDisqualified, res.Verdict)
	assert.Equal(t, 1, res.Score)
	assert.Contains(t, res.Reasoning, model.OrgCoWorking)
}

func TestDecide_GeographyUKClientSubRegionOnly(t *testing.T) {
	t.Parallel()
	e := goodEnrichment()
	e.GeographicRestrictions = "DACH only"

	c := baseCriteria()
	c.GeoFocus = []string{"uk"}

	res := runDecide(t, e, c, "", fitHigh(true))
	assert.Equal(t, model.VerdictDisqualified, res.Verdict)
}

func TestDecide_GeographyGermanClientUKOnly(t *testing.T) {
	t.Parallel()
	e := goodEnrichment()
	e.GeographicRestrictions = "UK only"

	c := baseCriteria()
	c.GeoFocus = []string{"germany"}

	res := runDecide(t, e, c, "", fitHigh(true))
	assert.Equal(t, model.VerdictDisqualified, res.Verdict)
}

func TestDecide_GeographyGermanClientDACH(t *testing.T) {
	t.Parallel()
	e := goodEnrichment()
	e.GeographicRestrictions = "DACH only"

	c := baseCriteria()
	c.GeoFocus = []string{"germany"}

	res := runDecide(t, e, c, "", fitHigh(true))
	assert.Equal(t, model.VerdictQualifiedLead, res.Verdict)
}

func TestDecide_GeographyExceptionsDowngradeToCoLead(t *testing.T) {
	t.Parallel()
	e := goodEnrichment()
	e.GeographicRestrictions = "UK only"
	e.GeographicExceptions = true

	c := baseCriteria()
	c.GeoFocus = []string{"germany"}

	res := runDecide(t, e, c, "", fitHigh(true))
	assert.Equal(t, model.VerdictQualifiedCoLead, res.Verdict)
}

func TestDecide_HardwareMismatch(t *testing.T) {
	t.Parallel()
	e := goodEnrichment()
	e.SoftwareOnly = true

	c := baseCriteria()
	c.IsHardware = true

	res := runDecide(t, e, c, "", nil)
	assert.Equal(t, model.VerdictDisqualified, res.Verdict)
}

func TestDecide_MinTicketTooHigh(t *testing.T) {
	t.Parallel()
	e := goodEnrichment()
	e.CheckSizeMin = i64(10_000_000) // 2x the 5M raise
	e.CheckSizeMax = i64(50_000_000)

	res := runDecide(t, e, baseCriteria(), "", nil)
	assert.Equal(t, model.VerdictDisqualified, res.Verdict)
	assert.Contains(t, res.Reasoning, "€10M")
}

func TestDecide_StageMismatchWithoutCheckInfo(t *testing.T) {
	t.Parallel()
	e := goodEnrichment()
	e.CheckSizeMin = nil
	e.CheckSizeMax = nil
	e.Stages = []string{"Growth"}

	res := runDecide(t, e, baseCriteria(), "", nil)
	assert.Equal(t, model.VerdictDisqualified, res.Verdict)
}

func TestDecide_StageMismatchToleratedWithCheckInfo(t *testing.T) {
	t.Parallel()
	e := goodEnrichment()
	e.Stages = []string{"Growth"}

	res := runDecide(t, e, baseCriteria(), "", fitHigh(true))
	assert.NotEqual(t, model.VerdictDisqualified, res.Verdict)
}

func TestDecide_Lead(t *testing.T) {
	t.Parallel()
	// In-band raise, high-confidence match, stage overlap: 5+2+3+1 clamped.
	res := runDecide(t, goodEnrichment(), baseCriteria(), "", fitHigh(true))

	assert.Equal(t, model.VerdictQualifiedLead, res.Verdict)
	assert.GreaterOrEqual(t, res.Score, 7)
	assert.Equal(t, 10, res.Score)
	assert.Contains(t, res.Reasoning, "€1M–€10M")
}

func TestDecide_CoLeadWhenMaxBelowRaise(t *testing.T) {
	t.Parallel()
	e := goodEnrichment()
	e.CheckSizeMax = i64(2_000_000)

	res := runDecide(t, e, baseCriteria(), "", fitHigh(true))
	assert.Equal(t, model.VerdictQualifiedCoLead, res.Verdict)
	assert.Contains(t, res.Reasoning, "€1M–€2M")
}

func TestDecide_PlainQualifiedWithoutCheckInfo(t *testing.T) {
	t.Parallel()
	e := goodEnrichment()
	e.CheckSizeMin = nil
	e.CheckSizeMax = nil

	// 5 + 3 (high match) + 1 (stage) = 9.
	res := runDecide(t, e, baseCriteria(), "", fitHigh(true))
	assert.Equal(t, model.VerdictQualified, res.Verdict)
	assert.Equal(t, 9, res.Score)
}

func TestDecide_HighConfidenceMismatchDisqualifies(t *testing.T) {
	t.Parallel()
	res := runDecide(t, goodEnrichment(), baseCriteria(), "", fitHigh(false))

	assert.Equal(t, model.VerdictDisqualified, res.Verdict)
	assert.Contains(t, res.Reasoning, "mismatch")
}

func TestDecide_LowConfidenceMismatchNotesOnly(t *testing.T) {
	t.Parallel()
	fit := func(context.Context) *enrich.FitResult {
		return &enrich.FitResult{Match: false, Confidence: "low", Rationale: "thesis unclear"}
	}

	res := runDecide(t, goodEnrichment(), baseCriteria(), "", fit)
	assert.NotEqual(t, model.VerdictDisqualified, res.Verdict)
	assert.Contains(t, res.Reasoning, "mismatch")
}

func TestDecide_WarningForcesReview(t *testing.T) {
	t.Parallel()
	e := goodEnrichment()
	e.CheckSizeMax = i64(2_000_000)
	fit := func(context.Context) *enrich.FitResult {
		return &enrich.FitResult{Match: true, Confidence: "medium", Rationale: "some overlap"}
	}

	// 5 + 2 (medium match) + 1 (stage) = 8, under the warning override cap.
	res := runDecide(t, e, baseCriteria(), "check size range looks implausible", fit)
	assert.Equal(t, model.NeedsReview("conflicting information on site"), res.Verdict)
	assert.Contains(t, res.Reasoning, "Data quality")
}

func TestDecide_ReviewReasonNamesMissingDimension(t *testing.T) {
	t.Parallel()
	e := goodEnrichment()
	e.CheckSizeMin = nil
	e.CheckSizeMax = nil

	// No fit assessor: 5 + 1 (stage) = 6, middle band.
	res := runDecide(t, e, baseCriteria(), "", nil)
	assert.Equal(t, model.NeedsReview("check size unknown"), res.Verdict)
	assert.Equal(t, 6, res.Score)
}

func TestDecide_ScoreClamped(t *testing.T) {
	t.Parallel()
	res := runDecide(t, goodEnrichment(), baseCriteria(), "", fitHigh(true))
	assert.LessOrEqual(t, res.Score, 10)
	assert.GreaterOrEqual(t, res.Score, 1)
}

func TestDecide_IndustryFocusFromSectors(t *testing.T) {
	t.Parallel()
	e := goodEnrichment()
	e.Sectors = []string{"CleanTech", "deep tech"}

	res := runDecide(t, e, baseCriteria(), "", fitHigh(true))
	assert.Equal(t, "climate, deeptech", res.IndustryFocus)
}

func TestClassifyClient(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		tags []string
		want geoClass
	}{
		{"uk", []string{"uk"}, geoUK},
		{"uk wins over europe", []string{"europe", "uk"}, geoUK},
		{"country implies europe", []string{"germany"}, geoEurope},
		{"usa", []string{"usa"}, geoUSA},
		{"unspecified", nil, geoOther},
		{"unknown tag", []string{"mars"}, geoOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, classifyClient(tt.tags))
		})
	}
}

func TestEvalGeography(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		client      []string
		restriction string
		exceptions  bool
		disqualify  bool
		secondary   bool
	}{
		{"empty restriction", []string{"uk"}, "", false, false, false},
		{"global", []string{"uk"}, "invests globally", false, false, false},
		{"uk client covered", []string{"uk"}, "UK and Ireland only", false, false, false},
		{"uk client europe-only", []string{"uk"}, "European companies only", false, false, true},
		{"uk client dach", []string{"uk"}, "DACH only", false, true, false},
		{"german client dach", []string{"germany"}, "DACH only", false, false, false},
		{"broad europe client dach", []string{"europe"}, "DACH only", false, false, true},
		{"german client uk-only", []string{"germany"}, "UK only", false, true, false},
		{"german client france-only", []string{"germany"}, "France only", false, true, false},
		{"french client france-only", []string{"france"}, "Exclusively France", false, false, false},
		{"european client asia", []string{"europe"}, "Asia only", false, true, false},
		{"exceptions soften", []string{"germany"}, "UK only", true, false, true},
		{"soft wording softens", []string{"germany"}, "primarily the UK", false, false, true},
		{"usa client europe-only", []string{"usa"}, "European investments only", false, true, false},
		{"unspecified client", nil, "DACH only", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := evalGeography(tt.client, tt.restriction, tt.exceptions)
			assert.Equal(t, tt.disqualify, out.disqualify, "disqualify")
			assert.Equal(t, tt.secondary, out.secondary, "secondary")
		})
	}
}
