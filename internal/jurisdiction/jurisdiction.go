// Package jurisdiction maps free-text jurisdiction names to canonical codes.
package jurisdiction

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// aliases maps folded alias forms to canonical codes. Abbreviations map
// to themselves so already-canonical input passes through.
var aliases = map[string]string{
	// US states, full names
	"california": "CA",
	"colorado":   "CO",
	"illinois":   "IL",
	"texas":      "TX",
	"utah":       "UT",

	// US states, abbreviations (canonical)
	"ca": "CA",
	"co": "CO",
	"il": "IL",
	"tx": "TX",
	"ut": "UT",

	// Cities
	"new york city": "NYC",
	"nyc":           "NYC",

	// Federal / international
	"united states":  "US",
	"us":             "US",
	"federal":        "US",
	"us-federal":     "US",
	"european union": "EU",
	"eu":             "EU",
}

var folder = cases.Fold()

// Normalize resolves a jurisdiction name or alias to its canonical code.
// Matching is case-insensitive and ignores surrounding whitespace. The
// second return is false when the input is not recognized; callers treat
// that as "no match", not an error.
func Normalize(input string) (string, bool) {
	code, ok := aliases[folder.String(strings.TrimSpace(input))]
	return code, ok
}

// NormalizeAll resolves a list of jurisdiction names, silently dropping
// entries that are not recognized. Order of recognized entries is kept.
func NormalizeAll(inputs []string) []string {
	codes := make([]string, 0, len(inputs))
	for _, input := range inputs {
		if code, ok := Normalize(input); ok {
			codes = append(codes, code)
		}
	}
	return codes
}

// ValidCodes returns the sorted set of canonical jurisdiction codes.
func ValidCodes() []string {
	seen := make(map[string]struct{}, len(aliases))
	codes := make([]string, 0, len(aliases))
	for _, code := range aliases {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
