// Package gazetteer holds the closed lookup tables the extractors resolve
// names against: city names to location codes and airline name variants to
// canonical airline ids. The tables are built once at init and only exposed
// through read accessors.
package gazetteer

import (
	"sort"
	"strings"
)

// Code is a three-letter location code from the closed set below.
type Code string

// String implements fmt.Stringer.
func (c Code) String() string { return string(c) }

var cityCodes = map[string]Code{
	"lahore":          "LHE",
	"karachi":         "KHI",
	"islamabad":       "ISB",
	"rawalpindi":      "ISB", // shares the ISB airport
	"multan":          "MUX",
	"peshawar":        "PEW",
	"quetta":          "UET",
	"faisalabad":      "LYP",
	"sialkot":         "SKT",
	"skardu":          "KDU",
	"gilgit":          "GIL",
	"sukkur":          "SKZ",
	"gwadar":          "GWD",
	"turbat":          "TUK",
	"bahawalpur":      "BHV",
	"dera ghazi khan": "DEA",
	"chitral":         "CJL",
	"panjgur":         "PJG",
	"moenjodaro":      "MJD",
	"parachinar":      "PAJ",
	"zhob":            "PZH",
	"dalbandin":       "DBA",
	"muzaffarabad":    "MFG",
	"rahim yar khan":  "RYK",
	"nawabshah":       "WNS",
}

var (
	codeSet       map[Code]struct{}
	namesByLength []string
	namesByCode   map[Code][]string
)

func init() {
	codeSet = make(map[Code]struct{}, len(cityCodes))
	namesByCode = make(map[Code][]string, len(cityCodes))
	namesByLength = make([]string, 0, len(cityCodes))
	for name, code := range cityCodes {
		codeSet[code] = struct{}{}
		namesByCode[code] = append(namesByCode[code], name)
		namesByLength = append(namesByLength, name)
	}
	for _, names := range namesByCode {
		sort.Strings(names)
	}
	sort.Slice(namesByLength, func(i, j int) bool {
		if len(namesByLength[i]) != len(namesByLength[j]) {
			return len(namesByLength[i]) > len(namesByLength[j])
		}
		return namesByLength[i] < namesByLength[j]
	})
}

// LookupCity resolves a lower- or mixed-case city name to its code.
func LookupCity(name string) (Code, bool) {
	code, ok := cityCodes[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

// IsCode reports whether s (case-insensitive) is a member of the code set.
func IsCode(s string) bool {
	_, ok := codeSet[Code(strings.ToUpper(strings.TrimSpace(s)))]
	return ok
}

// CityNames returns every known city name, longest first. The slice is a
// copy and may be modified by the caller.
func CityNames() []string {
	out := make([]string, len(namesByLength))
	copy(out, namesByLength)
	return out
}

// Codes returns the sorted code set.
func Codes() []Code {
	out := make([]Code, 0, len(codeSet))
	for code := range codeSet {
		out = append(out, code)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CityName returns the canonical display name for a code. Codes shared by
// several names resolve to the alphabetically first one.
func CityName(code Code) string {
	names := namesByCode[code]
	if len(names) == 0 {
		return ""
	}
	return names[0]
}
