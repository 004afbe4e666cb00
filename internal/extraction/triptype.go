package extraction

import (
	"regexp"
	"strings"

	"github.com/wolfman30/flight-intent/internal/gazetteer"
)

var (
	returnKeywords = []string{
		"return", "round trip", "round-trip", "roundtrip", "two way", "two-way",
		"return ticket", "return flight", "both ways",
	}

	returnPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:and\s+)?(?:then\s+)?\bback\s+to\s+\w+`),
		regexp.MustCompile(`(?:and\s+)?(?:then\s+)?(?:come\s+)?\bback\s+(?:to\s+)?\w+`),
		regexp.MustCompile(`\bbetween\s+\S+(?:\s+\S+)?\s+and\s+\S*(?:\d|today|tomorrow)`),
		regexp.MustCompile(`(?:from\s+)?\w+\s+to\s+\w+\s+and\s+(?:then\s+)?(?:back\s+to|return\s+to)\s+\w+`),
		regexp.MustCompile(`(?:from\s+)?\w+\s+to\s+\w+.*?(?:and\s+)?(?:then\s+)?\b(?:back|return)\b`),
		regexp.MustCompile(`\b(?:go|travel|fly)\s+.*?(?:and\s+)?(?:then\s+)?(?:come\s+)?\bback\b`),
		regexp.MustCompile(`\b(?:trip|journey)\s+(?:from\s+)?\w+\s+to\s+\w+\s+and\s+back\b`),
	}

	betweenPattern = regexp.MustCompile(`\bbetween\s+\w+.*?\band\s+\w+`)

	returnTemporal = []string{
		"and back", "then back", "return on", "coming back on",
		"back on", "go and come back", "there and back",
	}

	dateRangePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:from\s+)?\b\d+(?:st|nd|rd|th)?\s+.*?\b(?:to|and|until)\s+\d+(?:st|nd|rd|th)\b`),
		regexp.MustCompile(`(?:on\s+)?\b\d+(?:st|nd|rd|th)?\s+.*?(?:and\s+back\s+on|and\s+return\s+on)\s+\d+(?:st|nd|rd|th)?\b`),
	}

	cityConnectors = []string{"and then to", "and back to", "then to", "then back"}

	looseReturnChecks = []*regexp.Regexp{
		regexp.MustCompile(`\bgo\b.*\bback\b`),
		regexp.MustCompile(`\bthere\b.*\bback\b`),
		regexp.MustCompile(`\bfly\b.*\breturn\b`),
	}
)

func tripTypeCascade() Cascade[FlightType] {
	return Cascade[FlightType]{
		{Name: "keyword", Run: returnIf(func(s string) bool { return containsAny(s, returnKeywords) })},
		{Name: "pattern", Run: returnIf(func(s string) bool { return matchesAny(s, returnPatterns) })},
		{Name: "between", Run: returnIf(func(s string) bool { return strings.Contains(s, "between") && betweenPattern.MatchString(s) })},
		{Name: "temporal", Run: returnIf(func(s string) bool { return containsAny(s, returnTemporal) })},
		{Name: "date_range", Run: returnIf(func(s string) bool { return matchesAny(s, dateRangePatterns) })},
		{Name: "city_repeat", Run: returnIf(cityRepeat)},
		{Name: "loose", Run: returnIf(func(s string) bool { return matchesAny(s, looseReturnChecks) })},
	}
}

func returnIf(pred func(string) bool) func(string) (FlightType, bool) {
	return func(text string) (FlightType, bool) {
		if pred(strings.ToLower(text)) {
			return Return, true
		}
		return "", false
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// cityRepeat fires when a city is named twice, or when two distinct cities
// are joined by a connector that implies a further leg.
func cityRepeat(lower string) bool {
	mentioned := 0
	for _, name := range gazetteer.CityNames() {
		switch n := countWord(lower, name); {
		case n > 1:
			return true
		case n == 1:
			mentioned++
		}
	}
	return mentioned >= 2 && containsAny(lower, cityConnectors)
}

// ClassifyTripType reports return only on positive evidence; everything else
// is one_way.
func (e *Extractor) ClassifyTripType(text string) (FlightType, string) {
	if t, stage, ok := e.tripType.Run(text); ok {
		return t, stage
	}
	return OneWay, "default"
}
