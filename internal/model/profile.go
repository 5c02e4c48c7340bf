package model

import "strings"

// ExtendedProfile is the full client business profile produced by the
// client-website analysis path. The screening run only needs the simplified
// ClientProfile; the extended form is what the analysis endpoint returns to
// callers so they can review and re-submit it with later runs.
type ExtendedProfile struct {
	CompanyName string   `json:"companyName"`
	OneLiner    string   `json:"oneLiner,omitempty"`
	Sector      string   `json:"sector,omitempty"`
	SubSectors  []string `json:"subSectors,omitempty"`

	Technology struct {
		Core            string   `json:"core,omitempty"`
		Description     string   `json:"description,omitempty"`
		Differentiators []string `json:"differentiators,omitempty"`
	} `json:"technology"`

	Product struct {
		Type        string   `json:"type,omitempty"`
		Offerings   []string `json:"offerings,omitempty"`
		Description string   `json:"description,omitempty"`
	} `json:"product"`

	BusinessModel struct {
		Type         string `json:"type,omitempty"`
		RevenueModel string `json:"revenueModel,omitempty"`
		Description  string `json:"description,omitempty"`
	} `json:"businessModel"`

	TargetMarket struct {
		Industries      []string `json:"industries,omitempty"`
		CustomerProfile string   `json:"customerProfile,omitempty"`
		GeographicFocus string   `json:"geographicFocus,omitempty"`
	} `json:"targetMarket"`

	Stage struct {
		Estimated string   `json:"estimated,omitempty"`
		Signals   []string `json:"signals,omitempty"`
	} `json:"stage"`

	InvestorFitKeywords []string `json:"investorFitKeywords,omitempty"`
}

// Simplify collapses an extended profile into the flat ClientProfile the
// verdict engine and fit assessor consume.
func (p *ExtendedProfile) Simplify() *ClientProfile {
	if p == nil {
		return nil
	}
	desc := p.OneLiner
	if desc == "" {
		desc = p.Product.Description
	}
	return &ClientProfile{
		CompanyName:   p.CompanyName,
		Description:   desc,
		Sector:        p.Sector,
		Technology:    p.Technology.Core,
		ProductType:   p.Product.Type,
		BusinessModel: strings.TrimSpace(p.BusinessModel.Type + " " + p.BusinessModel.RevenueModel),
		TargetMarket:  strings.Join(p.TargetMarket.Industries, ", "),
		Keywords:      p.InvestorFitKeywords,
	}
}
