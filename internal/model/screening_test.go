package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSectors(t *testing.T) {
	t.Parallel()
	c := ClientCriteria{
		Sectors:       []string{"climate", "deeptech"},
		CustomSectors: []string{"ocean robotics"},
	}
	assert.Equal(t, []string{"climate", "deeptech", "ocean robotics"}, c.AllSectors())
}

func TestNeedsReview(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Needs review: check size unknown", NeedsReview("check size unknown"))
	assert.Equal(t, "Needs review", NeedsReview(""))
}

func TestVerdictPredicates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		verdict     string
		needsReview bool
		qualified   bool
	}{
		{VerdictDisqualified, false, false},
		{VerdictQualified, false, true},
		{VerdictQualifiedLead, false, true},
		{VerdictQualifiedCoLead, false, true},
		{NeedsReview("website unavailable"), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.verdict, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.needsReview, IsNeedsReview(tt.verdict))
			assert.Equal(t, tt.qualified, IsQualified(tt.verdict))
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	results := []ScreeningResult{
		{Verdict: VerdictQualifiedLead},
		{Verdict: VerdictQualified},
		{Verdict: VerdictDisqualified},
		{Verdict: NeedsReview("stage focus unclear")},
	}

	s := Summarize(results)
	assert.Equal(t, Summary{Qualified: 2, Disqualified: 1, NeedsReview: 1, Total: 4}, s)
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestExtendedProfileSimplify(t *testing.T) {
	t.Parallel()
	p := &ExtendedProfile{
		CompanyName:         "Helix Bio",
		OneLiner:            "Engineered proteins for industry.",
		Sector:              "Biotech",
		InvestorFitKeywords: []string{"biotech", "synbio"},
	}
	p.Technology.Core = "directed evolution"
	p.Product.Type = "Platform"
	p.BusinessModel.Type = "B2B"
	p.BusinessModel.RevenueModel = "licensing"
	p.TargetMarket.Industries = []string{"pharma", "materials"}

	s := p.Simplify()
	require.NotNil(t, s)
	assert.Equal(t, "Helix Bio", s.CompanyName)
	assert.Equal(t, "Engineered proteins for industry.", s.Description)
	assert.Equal(t, "directed evolution", s.Technology)
	assert.Equal(t, "B2B licensing", s.BusinessModel)
	assert.Equal(t, "pharma, materials", s.TargetMarket)
}

func TestExtendedProfileSimplify_Nil(t *testing.T) {
	t.Parallel()
	var p *ExtendedProfile
	assert.Nil(t, p.Simplify())
}
