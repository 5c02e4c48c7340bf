package enrich

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/evolute-hq/invscreen/internal/model"
)

// minPlausibleCheck is the parse-time floor for check-size values; anything
// below it is noise (a year, a percentage, a team size) and is coerced to
// null before the sanity validator ever sees it.
const minPlausibleCheck = 1_000

// cleanJSON strips markdown code fences and isolates the first JSON object
// in a model response.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	// Find first { and last }.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

// enrichmentWire mirrors the JSON schema embedded in extractPrompt. Check
// sizes arrive as floats because models emit them either way.
type enrichmentWire struct {
	Sectors                []string `json:"sectors"`
	CheckSizeMin           *float64 `json:"checkSizeMin"`
	CheckSizeMax           *float64 `json:"checkSizeMax"`
	Stages                 []string `json:"stages"`
	GeoFocus               []string `json:"geoFocus"`
	InvestmentThesis       string   `json:"investmentThesis"`
	NoLongerInvesting      bool     `json:"noLongerInvesting"`
	SoftwareOnly           bool     `json:"softwareOnly"`
	IsActualInvestor       bool     `json:"isActualInvestor"`
	OrganizationType       string   `json:"organizationType"`
	GeographicRestrictions string   `json:"geographicRestrictions"`
	GeographicExceptions   bool     `json:"geographicExceptions"`
	Description            string   `json:"description"`
}

// parseEnrichment parses a model response into EnrichmentData. Returns nil
// when no JSON object can be parsed; callers treat that as insufficient
// data, not a fatal error.
func parseEnrichment(text string) *model.EnrichmentData {
	cleaned := cleanJSON(text)
	if cleaned == "" {
		return nil
	}

	var w enrichmentWire
	if err := json.Unmarshal([]byte(cleaned), &w); err != nil {
		zap.L().Warn("enrich: unparseable enrichment JSON", zap.Error(err))
		return nil
	}

	e := &model.EnrichmentData{
		Sectors:                w.Sectors,
		CheckSizeMin:           coerceCheck(w.CheckSizeMin),
		CheckSizeMax:           coerceCheck(w.CheckSizeMax),
		Stages:                 w.Stages,
		GeoFocus:               w.GeoFocus,
		InvestmentThesis:       w.InvestmentThesis,
		NoLongerInvesting:      w.NoLongerInvesting,
		SoftwareOnly:           w.SoftwareOnly,
		IsActualInvestor:       w.IsActualInvestor,
		OrganizationType:       w.OrganizationType,
		GeographicRestrictions: strings.TrimSpace(w.GeographicRestrictions),
		GeographicExceptions:   w.GeographicExceptions,
		Description:            w.Description,
	}
	if e.OrganizationType == "" {
		e.OrganizationType = model.OrgUnknown
	}
	return e
}

// coerceCheck converts a wire check-size value, dropping values below the
// plausibility floor.
func coerceCheck(v *float64) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	if n < minPlausibleCheck {
		return nil
	}
	return &n
}

// parseProfile parses a model response into a simple client profile.
func parseProfile(text string) *model.ClientProfile {
	cleaned := cleanJSON(text)
	if cleaned == "" {
		return nil
	}

	var p model.ClientProfile
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		zap.L().Warn("enrich: unparseable profile JSON", zap.Error(err))
		return nil
	}
	if p.CompanyName == "" && p.Description == "" && p.Sector == "" {
		return nil
	}
	return &p
}

// parseExtendedProfile parses a model response into the extended profile.
func parseExtendedProfile(text string) *model.ExtendedProfile {
	cleaned := cleanJSON(text)
	if cleaned == "" {
		return nil
	}

	var p model.ExtendedProfile
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		zap.L().Warn("enrich: unparseable extended profile JSON", zap.Error(err))
		return nil
	}
	if p.CompanyName == "" && p.Sector == "" {
		return nil
	}
	return &p
}

// FitResult is the qualitative match judgment between one client and one
// investor.
type FitResult struct {
	Match      bool   `json:"match"`
	Confidence string `json:"confidence"` // "high", "medium", "low"
	Rationale  string `json:"rationale"`
}

// parseFit parses a model response into a FitResult. Returns nil on parse
// failure; callers degrade to a low-confidence non-match.
func parseFit(text string) *FitResult {
	cleaned := cleanJSON(text)
	if cleaned == "" {
		return nil
	}

	var f FitResult
	if err := json.Unmarshal([]byte(cleaned), &f); err != nil {
		zap.L().Warn("enrich: unparseable fit JSON", zap.Error(err))
		return nil
	}
	switch f.Confidence {
	case "high", "medium", "low":
	default:
		f.Confidence = "low"
	}
	return &f
}
