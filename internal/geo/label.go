package geo

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/miru4128/gaayatri-project/internal/textmatch"
)

// DefaultLabel is used whenever no Indian region can be determined.
const DefaultLabel = "India"

var (
	indiaKeywords = map[string]bool{
		"india":             true,
		"in":                true,
		"ind":               true,
		"bharat":            true,
		"republic of india": true,
	}

	countryKeys  = []string{"country", "country_name", "countryName", "country_code", "countryCode"}
	stateKeys    = []string{"state", "state_name", "region", "region_name", "province"}
	districtKeys = []string{"district", "city", "city_name", "locality", "town"}

	nonLetters = regexp.MustCompile(`[^A-Za-z,\s]`)
	spaces     = regexp.MustCompile(`\s+`)
	titleCaser = cases.Title(language.Und)
)

// Place is the parsed geo lookup result.
type Place struct {
	Country  string
	State    string
	District string
}

// IsRegionHint reports whether label carries more than the default.
func IsRegionHint(label string) bool {
	label = strings.TrimSpace(label)
	return label != "" && !strings.EqualFold(label, "unknown") && label != DefaultLabel
}

// ParsePayload extracts a Place from a decoded lookup response: an object
// with any of the alias keys, a list of such objects (the first with a
// country wins) or a "district, state, country" string.
func ParsePayload(payload any) Place {
	switch v := payload.(type) {
	case map[string]any:
		return Place{
			Country:  firstMatch(v, countryKeys),
			State:    firstMatch(v, stateKeys),
			District: firstMatch(v, districtKeys),
		}
	case []any:
		for _, item := range v {
			if p := ParsePayload(item); p.Country != "" {
				return p
			}
		}
	case string:
		var pieces []string
		for _, p := range strings.Split(cleanFragment(v), ",") {
			if p = strings.TrimSpace(p); p != "" {
				pieces = append(pieces, p)
			}
		}
		n := len(pieces)
		switch {
		case n >= 3:
			return Place{District: pieces[n-3], State: pieces[n-2], Country: pieces[n-1]}
		case n == 2:
			return Place{State: pieces[0], Country: pieces[1]}
		case n == 1:
			return Place{Country: pieces[0]}
		}
	}
	return Place{}
}

// FormatLabel renders "<district>, <state>, India" for Indian places and
// DefaultLabel for everything else.
func FormatLabel(p Place) string {
	if !indiaKeywords[strings.ToLower(strings.TrimSpace(p.Country))] {
		return DefaultLabel
	}
	var parts []string
	seen := make(map[string]bool)
	for _, part := range []string{p.District, p.State, "India"} {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		if part != "India" && indiaKeywords[strings.ToLower(part)] {
			continue
		}
		seen[part] = true
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

func firstMatch(data map[string]any, keys []string) string {
	for _, key := range keys {
		value, ok := data[key]
		if !ok {
			continue
		}
		s, ok := value.(string)
		if !ok {
			continue
		}
		if cleaned := cleanFragment(s); cleaned != "" {
			return cleaned
		}
	}
	return ""
}

// cleanFragment strips IP addresses, digits and punctuation other than
// commas, then title-cases what is left.
func cleanFragment(value string) string {
	if value == "" || value == "unknown" {
		return ""
	}
	text := textmatch.RedactIP(value)
	text = nonLetters.ReplaceAllString(text, " ")
	text = strings.TrimSpace(spaces.ReplaceAllString(text, " "))
	return titleCaser.String(text)
}
