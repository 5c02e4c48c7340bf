package model

import "strings"

// ClientCriteria describes the fundraising client one screening run serves.
// Supplied once per run and never mutated.
type ClientCriteria struct {
	ClientName    string   `json:"clientName"`
	ClientWebsite string   `json:"clientWebsite,omitempty"`
	Sectors       []string `json:"sectors"`
	CustomSectors []string `json:"customSectors,omitempty"`
	CheckSize     int64    `json:"checkSize"`
	Stages        []string `json:"stages"`
	GeoFocus      []string `json:"geoFocus"`
	IsHardware    bool     `json:"isHardware"`
}

// AllSectors returns predefined and custom sector tags combined.
func (c ClientCriteria) AllSectors() []string {
	out := make([]string, 0, len(c.Sectors)+len(c.CustomSectors))
	out = append(out, c.Sectors...)
	out = append(out, c.CustomSectors...)
	return out
}

// InvestorInput is one row of the investor list, the unit of work for the
// screening orchestrator.
type InvestorInput struct {
	Name    string `json:"name"`
	Website string `json:"website,omitempty"`
	HQ      string `json:"hq,omitempty"`
}

// Organization types an investor website can resolve to. Anything that is
// not a check-writing investor (hubs, co-working spaces, grant bodies)
// disqualifies in the verdict engine.
const (
	OrgVC           = "vc"
	OrgCVC          = "cvc"
	OrgPE           = "pe"
	OrgAngel        = "angel"
	OrgFamilyOffice = "family-office"
	OrgAccelerator  = "accelerator"
	OrgIncubator    = "incubator"
	OrgHub          = "hub"
	OrgCoWorking    = "co-working"
	OrgGrant        = "grant"
	OrgGovernment   = "government"
	OrgNonProfit    = "non-profit"
	OrgUnknown      = "unknown"
)

// EnrichmentData is the structured record extracted from an investor's
// website text. It lives only for the duration of one investor's scoring.
// Check-size bounds are whole currency units (no minor units), nil when
// unknown or cleared by the sanity validator.
type EnrichmentData struct {
	Sectors                []string `json:"sectors"`
	CheckSizeMin           *int64   `json:"checkSizeMin"`
	CheckSizeMax           *int64   `json:"checkSizeMax"`
	Stages                 []string `json:"stages"`
	GeoFocus               []string `json:"geoFocus"`
	InvestmentThesis       string   `json:"investmentThesis,omitempty"`
	NoLongerInvesting      bool     `json:"noLongerInvesting"`
	SoftwareOnly           bool     `json:"softwareOnly"`
	IsActualInvestor       bool     `json:"isActualInvestor"`
	OrganizationType       string   `json:"organizationType"`
	GeographicRestrictions string   `json:"geographicRestrictions,omitempty"`
	GeographicExceptions   bool     `json:"geographicExceptions"`
	Description            string   `json:"description,omitempty"`
}

// ClientProfile is the simple business profile used during scoring. Derived
// either from a caller-supplied extended profile or computed on demand from
// the client's website. Scoring works without it.
type ClientProfile struct {
	CompanyName   string   `json:"companyName"`
	Description   string   `json:"description,omitempty"`
	Sector        string   `json:"sector,omitempty"`
	Technology    string   `json:"technology,omitempty"`
	ProductType   string   `json:"productType,omitempty"`
	BusinessModel string   `json:"businessModel,omitempty"`
	TargetMarket  string   `json:"targetMarket,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
}

// Verdict tags. "Needs review" verdicts carry a sub-reason suffix built by
// NeedsReview.
const (
	VerdictDisqualified    = "Disqualified"
	VerdictQualified       = "Qualified"
	VerdictQualifiedLead   = "Qualified: Lead"
	VerdictQualifiedCoLead = "Qualified: Co-lead"

	needsReviewPrefix = "Needs review"
)

// NeedsReview builds a "Needs review: <reason>" verdict tag.
func NeedsReview(reason string) string {
	if reason == "" {
		return needsReviewPrefix
	}
	return needsReviewPrefix + ": " + reason
}

// IsNeedsReview reports whether a verdict tag is a needs-review variant.
func IsNeedsReview(verdict string) bool {
	return strings.HasPrefix(verdict, needsReviewPrefix)
}

// IsQualified reports whether a verdict tag is qualified (any variant).
func IsQualified(verdict string) bool {
	return strings.HasPrefix(verdict, VerdictQualified)
}

// ScreeningResult is the per-investor outcome of one run. Created once,
// never mutated, not persisted.
type ScreeningResult struct {
	InvestorName  string `json:"investorName"`
	Website       string `json:"website,omitempty"`
	HQ            string `json:"hq,omitempty"`
	Verdict       string `json:"verdict"`
	Score         int    `json:"score"`
	Reasoning     string `json:"reasoning"`
	IndustryFocus string `json:"industryFocus"`
	CheckSizeMin  *int64 `json:"checkSizeMin"`
	CheckSizeMax  *int64 `json:"checkSizeMax"`
}

// Summary tallies verdicts across one run.
type Summary struct {
	Qualified    int `json:"qualified"`
	Disqualified int `json:"disqualified"`
	NeedsReview  int `json:"needsReview"`
	Total        int `json:"total"`
}

// Summarize tallies a result list into a Summary.
func Summarize(results []ScreeningResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Verdict == VerdictDisqualified:
			s.Disqualified++
		case IsQualified(r.Verdict):
			s.Qualified++
		default:
			s.NeedsReview++
		}
	}
	return s
}
