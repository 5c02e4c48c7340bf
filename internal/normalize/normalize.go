// Package normalize folds the free-form sector and stage vocabulary coming
// back from LLM extraction into canonical tags, and formats currency amounts
// for display. Scoring logic assumes canonical tags, so NormalizeEnrichment
// must run on every enrichment record before it reaches the verdict engine.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/evolute-hq/invscreen/internal/model"
)

// sectorAliases maps folded (lowercase, space-collapsed) synonyms to the
// canonical sector tag. Canonical tags are lowercase.
var sectorAliases = map[string]string{
	"climate":                 "climate",
	"climate tech":            "climate",
	"climatetech":             "climate",
	"cleantech":               "climate",
	"clean tech":              "climate",
	"clean energy":            "climate",
	"greentech":               "climate",
	"sustainability":          "climate",
	"fintech":                 "fintech",
	"financial technology":    "fintech",
	"financial services":      "fintech",
	"insurtech":               "fintech",
	"health":                  "health",
	"healthtech":              "health",
	"health tech":             "health",
	"healthcare":              "health",
	"digital health":          "health",
	"medtech":                 "health",
	"biotech":                 "biotech",
	"life sciences":           "biotech",
	"deeptech":                "deeptech",
	"deep tech":               "deeptech",
	"hardware":                "deeptech",
	"ai":                      "ai",
	"artificial intelligence": "ai",
	"machine learning":        "ai",
	"ml":                      "ai",
	"saas":                    "saas",
	"software as a service":   "saas",
	"b2b saas":                "saas",
	"enterprise software":     "saas",
	"cybersecurity":           "security",
	"cyber security":          "security",
	"security":                "security",
	"infosec":                 "security",
	"mobility":                "mobility",
	"transportation":          "mobility",
	"logistics":               "mobility",
	"agtech":                  "agtech",
	"agritech":                "agtech",
	"agriculture":             "agtech",
	"foodtech":                "foodtech",
	"food tech":               "foodtech",
	"edtech":                  "edtech",
	"education":               "edtech",
	"proptech":                "proptech",
	"real estate":             "proptech",
	"consumer":                "consumer",
	"d2c":                     "consumer",
	"e-commerce":              "consumer",
	"ecommerce":               "consumer",
	"spacetech":               "space",
	"space":                   "space",
	"space tech":              "space",
	"web3":                    "web3",
	"crypto":                  "web3",
	"blockchain":              "web3",
}

// stageAliases maps folded synonyms to the canonical funding-stage tag.
// Canonical stage tags are title-cased as displayed to users.
var stageAliases = map[string]string{
	"pre seed":       "Pre-seed",
	"preseed":        "Pre-seed",
	"angel":          "Pre-seed",
	"seed":           "Seed",
	"seed stage":     "Seed",
	"early seed":     "Seed",
	"late seed":      "Seed",
	"series a":       "Series A",
	"a round":        "Series A",
	"early stage":    "Series A",
	"series b":       "Series B",
	"b round":        "Series B",
	"series c":       "Series C",
	"c round":        "Series C",
	"series d":       "Growth",
	"growth":         "Growth",
	"growth stage":   "Growth",
	"growth equity":  "Growth",
	"late stage":     "Growth",
	"expansion":      "Growth",
	"pre ipo":        "Growth",
	"venture":        "Venture",
	"all stages":     "All stages",
	"stage agnostic": "All stages",
}

// fold lowercases, trims, and collapses hyphens/underscores to spaces so
// "Series-A", "series_a" and "Series A" all hit the same alias key.
func fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Sector returns the canonical sector tag for a free-form sector string.
// Unrecognized input passes through lower-cased.
func Sector(s string) string {
	folded := fold(s)
	if canonical, ok := sectorAliases[folded]; ok {
		return canonical
	}
	return folded
}

// Stage returns the canonical stage tag for a free-form stage string.
// Idempotent: canonical tags map to themselves. Unrecognized input passes
// through lower-cased.
func Stage(s string) string {
	folded := fold(s)
	if canonical, ok := stageAliases[folded]; ok {
		return canonical
	}
	return folded
}

// Sectors normalizes and deduplicates a sector tag list, preserving order.
func Sectors(tags []string) []string {
	return dedupe(tags, Sector)
}

// Stages normalizes and deduplicates a stage tag list, preserving order.
func Stages(tags []string) []string {
	return dedupe(tags, Stage)
}

func dedupe(tags []string, norm func(string) string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, t := range tags {
		n := norm(t)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// Enrichment normalizes an enrichment record's sector and stage tags in
// place. Must run before sanity validation and scoring.
func Enrichment(e *model.EnrichmentData) {
	if e == nil {
		return
	}
	e.Sectors = Sectors(e.Sectors)
	e.Stages = Stages(e.Stages)
	e.OrganizationType = fold(e.OrganizationType)
}

// printer renders grouped digits for currency display ("5,000,000").
var printer = message.NewPrinter(language.BritishEnglish)

// EUR formats a whole-unit euro amount with grouping separators.
func EUR(amount int64) string {
	return printer.Sprintf("€%d", amount)
}

// EURCompact formats a euro amount in the compact form used in reasoning
// strings: "€2.5M", "€750K", "€900".
func EURCompact(amount int64) string {
	switch {
	case amount >= 1_000_000:
		return trimZero(fmt.Sprintf("€%.1fM", float64(amount)/1_000_000))
	case amount >= 1_000:
		return fmt.Sprintf("€%dK", amount/1_000)
	default:
		return fmt.Sprintf("€%d", amount)
	}
}

// TicketRange renders a check-size band for display: "€1M–€2M",
// "€500K+", "up to €2M", or "unknown" when both bounds are absent.
func TicketRange(min, max *int64) string {
	switch {
	case min != nil && max != nil:
		return EURCompact(*min) + "–" + EURCompact(*max)
	case min != nil:
		return EURCompact(*min) + "+"
	case max != nil:
		return "up to " + EURCompact(*max)
	default:
		return "unknown"
	}
}

// trimZero drops a trailing ".0" from compact amounts ("€1.0M" → "€1M").
func trimZero(s string) string {
	return strings.Replace(s, ".0M", "M", 1)
}

// Date formats a timestamp for display on results and progress logs.
func Date(t time.Time) string {
	return t.Format("2 Jan 2006")
}
