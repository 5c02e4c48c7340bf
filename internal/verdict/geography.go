package verdict

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var regionsYAML []byte

// regionTable is the geography vocabulary loaded from regions.yaml. The
// substring lists are configuration data, not code, so the decision table can
// be extended without touching the rule logic.
type regionTable struct {
	UKMarkers          []string            `yaml:"uk_markers"`
	USMarkers          []string            `yaml:"us_markers"`
	EuropeMarkers      []string            `yaml:"europe_markers"`
	GlobalMarkers      []string            `yaml:"global_markers"`
	HardMarkers        []string            `yaml:"hard_markers"`
	NonEuropeanMarkers []string            `yaml:"non_european_markers"`
	SubRegions         map[string][]string `yaml:"sub_regions"`
	EuropeanCountries  []string            `yaml:"european_countries"`
}

var regions = mustLoadRegions()

func mustLoadRegions() regionTable {
	var t regionTable
	if err := yaml.Unmarshal(regionsYAML, &t); err != nil {
		panic(fmt.Sprintf("verdict: parse embedded regions.yaml: %v", err))
	}
	return t
}

// Client geography classes. A client's geoFocus set resolves to exactly one.
type geoClass int

const (
	geoOther geoClass = iota
	geoUK
	geoEurope
	geoUSA
)

// geoOutcome is the result of applying the restriction decision table.
type geoOutcome struct {
	disqualify bool
	secondary  bool
	note       string
}

// classifyClient resolves a client's geography tags to a single class. UK
// wins over Europe when both are present because UK coverage is the stricter
// question post-Brexit.
func classifyClient(tags []string) geoClass {
	europe := false
	usa := false
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		switch {
		case t == "uk" || t == "united kingdom":
			return geoUK
		case t == "europe" || isEuropeanCountry(t):
			europe = true
		case t == "usa" || t == "us" || t == "united states":
			usa = true
		}
	}
	if europe {
		return geoEurope
	}
	if usa {
		return geoUSA
	}
	return geoOther
}

func isEuropeanCountry(tag string) bool {
	for _, c := range regions.EuropeanCountries {
		if tag == c {
			return true
		}
	}
	return false
}

// normalizeText lowercases and collapses punctuation so marker terms match on
// word boundaries.
func normalizeText(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return " " + strings.Join(strings.Fields(b.String()), " ") + " "
}

// containsAny reports whether any marker term appears as a whole word in the
// pre-normalized text.
func containsAny(norm string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(norm, " "+t+" ") {
			return true
		}
	}
	return false
}

// evalGeography applies the restriction decision table. An empty restriction
// string means no geographic effect. Exception wording and soft restriction
// wording both downgrade a disqualification to a secondary-geography flag.
func evalGeography(clientTags []string, restriction string, exceptions bool) geoOutcome {
	restriction = strings.TrimSpace(restriction)
	if restriction == "" {
		return geoOutcome{}
	}

	norm := normalizeText(restriction)
	class := classifyClient(clientTags)

	if containsAny(norm, regions.GlobalMarkers) {
		return geoOutcome{note: "invests globally"}
	}

	coversUK := containsAny(norm, regions.UKMarkers)
	coversEurope := containsAny(norm, regions.EuropeMarkers)
	coversUS := containsAny(norm, regions.USMarkers)
	hard := containsAny(norm, regions.HardMarkers)

	out := decide(class, clientTags, norm, coversUK, coversEurope, coversUS)
	if out.disqualify && (exceptions || !hard) {
		out.disqualify = false
		out.secondary = true
		if exceptions {
			out.note += " but states exceptions to its focus"
		}
	}
	return out
}

func decide(class geoClass, clientTags []string, norm string, coversUK, coversEurope, coversUS bool) geoOutcome {
	switch class {
	case geoUK:
		switch {
		case coversUK:
			return geoOutcome{note: "geographic focus covers the UK"}
		case coversEurope:
			return geoOutcome{secondary: true, note: "European focus, UK coverage unclear"}
		default:
			return geoOutcome{disqualify: true, note: "geographic restriction excludes the UK: " + strings.TrimSpace(norm)}
		}

	case geoEurope:
		if region, members := matchedSubRegion(norm); region != "" {
			if tagsOverlap(clientTags, members) {
				return geoOutcome{note: "geographic focus (" + region + ") covers the client's market"}
			}
			if hasTag(clientTags, "europe") {
				return geoOutcome{secondary: true, note: "focus limited to " + region + " within Europe"}
			}
			return geoOutcome{disqualify: true, note: "focus limited to " + region + ", outside the client's market"}
		}
		if coversEurope {
			return geoOutcome{note: "geographic focus covers Europe"}
		}
		if country := matchedCountry(norm); country != "" {
			if hasTag(clientTags, country) {
				return geoOutcome{note: "geographic focus covers " + country}
			}
			if hasTag(clientTags, "europe") {
				return geoOutcome{secondary: true, note: "focus limited to " + country}
			}
			return geoOutcome{disqualify: true, note: "focus limited to " + country + ", outside the client's market"}
		}
		if coversUK {
			return geoOutcome{disqualify: true, note: "UK-only focus does not cover the client's market"}
		}
		if coversUS || containsAny(norm, regions.NonEuropeanMarkers) {
			return geoOutcome{disqualify: true, note: "non-European geographic focus"}
		}
		return geoOutcome{secondary: true, note: "geographic restriction unclear: " + strings.TrimSpace(norm)}

	case geoUSA:
		switch {
		case coversUS:
			return geoOutcome{note: "geographic focus covers the USA"}
		case coversEurope || coversUK:
			return geoOutcome{disqualify: true, note: "European geographic focus does not cover the USA"}
		default:
			return geoOutcome{secondary: true, note: "geographic restriction unclear: " + strings.TrimSpace(norm)}
		}

	default:
		// Client geography unspecified: restriction is context only.
		return geoOutcome{note: "notes a geographic focus: " + strings.TrimSpace(norm)}
	}
}

// matchedSubRegion returns the first sub-region marker present in the text
// and its member countries. Keys are scanned in sorted order so the outcome
// is reproducible.
func matchedSubRegion(norm string) (string, []string) {
	keys := make([]string, 0, len(regions.SubRegions))
	for region := range regions.SubRegions {
		keys = append(keys, region)
	}
	sort.Strings(keys)
	for _, region := range keys {
		if strings.Contains(norm, " "+region+" ") {
			return region, regions.SubRegions[region]
		}
	}
	return "", nil
}

// matchedCountry returns the first European country named in the text.
func matchedCountry(norm string) string {
	for _, c := range regions.EuropeanCountries {
		if strings.Contains(norm, " "+c+" ") {
			return c
		}
	}
	return ""
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(strings.TrimSpace(t), want) {
			return true
		}
	}
	return false
}

func tagsOverlap(tags, members []string) bool {
	for _, m := range members {
		if hasTag(tags, m) {
			return true
		}
	}
	return false
}
