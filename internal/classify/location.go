package classify

import (
	"regexp"
	"strings"
)

// stateEntry pairs an abbreviation with the full state name. Kept as a slice
// so fallback scanning is deterministic (maps iterate in random order).
type stateEntry struct {
	abbrev string
	name   string
}

var usStates = []stateEntry{
	{"AL", "Alabama"}, {"AK", "Alaska"}, {"AZ", "Arizona"}, {"AR", "Arkansas"},
	{"CA", "California"}, {"CO", "Colorado"}, {"CT", "Connecticut"}, {"DE", "Delaware"},
	{"FL", "Florida"}, {"GA", "Georgia"}, {"HI", "Hawaii"}, {"ID", "Idaho"},
	{"IL", "Illinois"}, {"IN", "Indiana"}, {"IA", "Iowa"}, {"KS", "Kansas"},
	{"KY", "Kentucky"}, {"LA", "Louisiana"}, {"ME", "Maine"}, {"MD", "Maryland"},
	{"MA", "Massachusetts"}, {"MI", "Michigan"}, {"MN", "Minnesota"}, {"MS", "Mississippi"},
	{"MO", "Missouri"}, {"MT", "Montana"}, {"NE", "Nebraska"}, {"NV", "Nevada"},
	{"NH", "New Hampshire"}, {"NJ", "New Jersey"}, {"NM", "New Mexico"}, {"NY", "New York"},
	{"NC", "North Carolina"}, {"ND", "North Dakota"}, {"OH", "Ohio"}, {"OK", "Oklahoma"},
	{"OR", "Oregon"}, {"PA", "Pennsylvania"}, {"RI", "Rhode Island"}, {"SC", "South Carolina"},
	{"SD", "South Dakota"}, {"TN", "Tennessee"}, {"TX", "Texas"}, {"UT", "Utah"},
	{"VT", "Vermont"}, {"VA", "Virginia"}, {"WA", "Washington"}, {"WV", "West Virginia"},
	{"WI", "Wisconsin"}, {"WY", "Wyoming"}, {"DC", "District of Columbia"},
}

var stateByAbbrev = func() map[string]string {
	m := make(map[string]string, len(usStates))
	for _, s := range usStates {
		m[s.abbrev] = s.name
	}
	return m
}()

// knownStateWords is every full name and abbreviation, lowercased, used to
// reject state names posing as cities.
var knownStateWords = func() map[string]bool {
	m := make(map[string]bool, len(usStates)*2)
	for _, s := range usStates {
		m[strings.ToLower(s.name)] = true
		m[strings.ToLower(s.abbrev)] = true
	}
	return m
}()

var trailingAbbrevRe = regexp.MustCompile(`,\s*([A-Z]{2})\b`)

// StateName resolves a two-letter code to the full name, or "" if unknown.
func StateName(code string) string {
	return stateByAbbrev[strings.ToUpper(code)]
}

// NormalizeState extracts a full US state name from a location string like
// "San Francisco, CA" or "Austin, Texas". It prefers a trailing ", XX"
// abbreviation, then scans for full names as substrings and abbreviations as
// whole words. Returns "" when nothing matches.
func NormalizeState(location string) string {
	if location == "" {
		return ""
	}
	if m := trailingAbbrevRe.FindStringSubmatch(location); m != nil {
		if name, ok := stateByAbbrev[m[1]]; ok {
			return name
		}
	}
	low := strings.ToLower(location)
	for _, s := range usStates {
		if strings.Contains(low, strings.ToLower(s.name)) {
			return s.name
		}
	}
	// Abbreviations match whole words only; bare substrings would turn
	// "Remote" into Missouri.
	words := strings.FieldsFunc(low, func(r rune) bool {
		return !('a' <= r && r <= 'z')
	})
	for _, s := range usStates {
		ab := strings.ToLower(s.abbrev)
		for _, w := range words {
			if w == ab {
				return s.name
			}
		}
	}
	return ""
}

// ExtractCity returns the text before the first comma, trimmed. State names,
// state abbreviations, "united states" and "remote" are not cities.
func ExtractCity(location string) string {
	if location == "" {
		return ""
	}
	city := strings.TrimSpace(strings.SplitN(location, ",", 2)[0])
	low := strings.ToLower(city)
	if city == "" || knownStateWords[low] || low == "united states" || low == "remote" {
		return ""
	}
	return city
}
