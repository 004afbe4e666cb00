package extraction

import (
	"regexp"
	"strings"

	"github.com/wolfman30/flight-intent/internal/gazetteer"
)

var (
	// carrierWords make a lowercase two-letter code count as an airline.
	carrierWords = []string{"flight", "flights", "airline", "airlines", "airways", "carrier"}

	flightContext = []string{"flight", "airline", "airways", "fly with", "book with", "travel with", "prefer", "carrier"}
	routeOnly     = regexp.MustCompile(`.+ to .+$`)
)

// matchAirline finds the longest airline variant in text. It does not apply
// the route-only guard, so modification spans can use it on fragments.
func matchAirline(text string) (string, bool) {
	lower := strings.ToLower(text)
	sameWidth := len(lower) == len(text)

	for _, v := range gazetteer.AirlineVariants() {
		for from := 0; ; {
			idx := indexWord(lower, v.Text, from)
			if idx < 0 {
				break
			}
			from = idx + len(v.Text)
			if len(v.Text) > 2 {
				return v.Airline, true
			}
			if sameWidth && text[idx:from] == strings.ToUpper(v.Text) {
				return v.Airline, true
			}
			if nextToCarrierWord(lower, idx, from) {
				return v.Airline, true
			}
		}
	}
	return "", false
}

func nextToCarrierWord(lower string, start, end int) bool {
	before := strings.Fields(lower[:start])
	after := strings.Fields(lower[end:])
	if len(before) > 0 && contains(carrierWords, strings.Trim(before[len(before)-1], ".,;:!?")) {
		return true
	}
	return len(after) > 0 && contains(carrierWords, strings.Trim(after[0], ".,;:!?"))
}

// ExtractAirline returns the canonical airline id named in text, or nil.
// Plain route requests ("karachi to dubai") without any flight or carrier
// wording never yield an airline.
func (e *Extractor) ExtractAirline(text string) *string {
	airline, ok := matchAirline(text)
	if !ok {
		return nil
	}
	lower := strings.ToLower(text)
	if routeOnly.MatchString(lower) && !containsAny(lower, flightContext) {
		return nil
	}
	return &airline
}
