package extraction

import (
	"regexp"
	"strings"

	"github.com/wolfman30/flight-intent/internal/gazetteer"
)

// Domain identifies the extractor asking for its span.
type Domain int

const (
	DomainLocation Domain = iota
	DomainTripType
	DomainCabinClass
	DomainDates
	DomainPassengers
	DomainAirline
)

func (d Domain) String() string {
	switch d {
	case DomainLocation:
		return "location"
	case DomainTripType:
		return "trip_type"
	case DomainCabinClass:
		return "cabin_class"
	case DomainDates:
		return "dates"
	case DomainPassengers:
		return "passengers"
	case DomainAirline:
		return "airline"
	}
	return "unknown"
}

// Segments is an utterance split into the full text and the candidate
// new-information span that follows a standalone "now".
type Segments struct {
	Full  string
	Span  string
	Split bool
}

var nowToken = regexp.MustCompile(`(?i)(?:^|\s)now(?:[^\p{L}]|$)`)

// Segment looks for the first standalone "now" in a follow-up utterance.
// Non-follow-up turns are never split, and an empty remainder leaves the
// whole utterance in play.
func Segment(text string, followUp bool) Segments {
	seg := Segments{Full: text, Span: text}
	if !followUp {
		return seg
	}
	loc := nowToken.FindStringIndex(text)
	if loc == nil {
		return seg
	}
	// The match may include one trailing non-letter; cut right after "now".
	cut := strings.Index(strings.ToLower(text[loc[0]:]), "now") + loc[0] + len("now")
	span := strings.TrimSpace(strings.TrimLeft(text[cut:], " ,.:;!-"))
	if span == "" {
		return seg
	}
	seg.Span = span
	seg.Split = true
	return seg
}

// UsesSpan reports whether the extractor for d should read the new span
// rather than the full utterance.
func (s Segments) UsesSpan(d Domain) bool {
	return s.Split && mentionsDomain(d, s.Span)
}

// SpanFor returns the text the extractor for d should read.
func (s Segments) SpanFor(d Domain) string {
	if s.UsesSpan(d) {
		return s.Span
	}
	return s.Full
}

var (
	tripWords = []string{
		"return", "returning", "round trip", "round-trip", "roundtrip", "one way", "one-way",
		"oneway", "two way", "two-way", "both ways", "back", "single",
	}
	cabinWords = []string{"class", "cabin", "seat", "seats", "seating"}
	dateWords  = []string{
		"today", "tomorrow", "tonight", "date", "dates", "week", "weekend",
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
		"january", "february", "march", "april", "may", "june", "july", "august",
		"september", "october", "november", "december",
		"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
	}
	passengerWords = []string{
		"adult", "adults", "child", "children", "kid", "kids", "infant", "infants", "baby", "babies",
		"newborn", "people", "person", "persons", "passenger", "passengers", "traveller", "travellers",
		"traveler", "travelers", "family", "wife", "husband", "spouse", "partner", "friend", "friends",
		"son", "sons", "daughter", "daughters", "parents", "mother", "father", "mom", "dad",
		"couple", "couples", "group", "alone", "myself", "solo", "of us", "year old", "years old",
		"month old", "months old", "few", "several",
	}
	airlineWords = []string{"airline", "airlines", "airways", "carrier"}

	datePhrasePattern = regexp.MustCompile(`\b\d{1,2}(?:st|nd|rd|th)\b|\b\d{4}-\d{1,2}-\d{1,2}\b|\b\d{1,2}/\d{1,2}/\d{4}\b|\bin\s+\S+\s+(?:days?|weeks?)\b`)
)

func mentionsDomain(d Domain, span string) bool {
	lower := strings.ToLower(span)
	switch d {
	case DomainLocation:
		for _, name := range gazetteer.CityNames() {
			if containsWord(lower, name) {
				return true
			}
		}
		for _, tok := range tokenize(lower) {
			if len(tok.text) == 3 && gazetteer.IsCode(tok.text) {
				return true
			}
		}
		return false
	case DomainTripType:
		return containsAnyWord(lower, tripWords)
	case DomainCabinClass:
		if containsAnyWord(lower, cabinWords) {
			return true
		}
		for _, kw := range classKeywords {
			if containsWord(lower, kw.phrase) {
				return true
			}
		}
		return false
	case DomainDates:
		return containsAnyWord(lower, dateWords) || datePhrasePattern.MatchString(lower)
	case DomainPassengers:
		return containsAnyWord(lower, passengerWords)
	case DomainAirline:
		if containsAnyWord(lower, airlineWords) {
			return true
		}
		_, found := matchAirline(span)
		return found
	}
	return false
}
