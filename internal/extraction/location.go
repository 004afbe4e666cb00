package extraction

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/wolfman30/flight-intent/internal/gazetteer"
)

const (
	entityFuzzyFloor = 85
	tokenFuzzyFloor  = 90
)

var (
	upperCode = regexp.MustCompile(`\b[A-Z]{3}\b`)

	fromCues = []string{"from", "leaving", "departing", "starting"}
	toCues   = []string{"to", "towards", "arriving", "destination"}
	goCues   = []string{"to", "towards", "arriving", "destination", "going", "want to go"}
)

type cityHit struct {
	code  gazetteer.Code
	start int
}

func (e *Extractor) locationCascade() Cascade[[]cityHit] {
	return Cascade[[]cityHit]{
		{Name: "direct", Run: directCityHits},
		{Name: "entity_fuzzy", Run: e.entityCityHits},
		{Name: "token_fuzzy", Run: e.tokenCityHits},
	}
}

// directCityHits finds upper-case location codes and whole-word city names,
// longest names first. Matched names are blanked so a shorter name cannot
// match inside a longer one.
func directCityHits(text string) ([]cityHit, bool) {
	var hits []cityHit
	for _, loc := range upperCode.FindAllStringIndex(text, -1) {
		code := text[loc[0]:loc[1]]
		if gazetteer.IsCode(code) {
			hits = append(hits, cityHit{code: gazetteer.Code(code), start: loc[0]})
		}
	}

	working := []byte(strings.ToLower(text))
	for _, name := range gazetteer.CityNames() {
		idx := indexWord(string(working), name, 0)
		if idx < 0 {
			continue
		}
		code, _ := gazetteer.LookupCity(name)
		hits = append(hits, cityHit{code: code, start: idx})
		for i := idx; i < idx+len(name); i++ {
			working[i] = ' '
		}
	}
	return hits, len(hits) > 0
}

func (e *Extractor) entityCityHits(text string) ([]cityHit, bool) {
	if e.ner == nil {
		return nil, false
	}
	names := gazetteer.CityNames()
	var hits []cityHit
	for _, ent := range e.ner.Entities(text) {
		if !ent.IsLocation() {
			continue
		}
		candidate := strings.ToLower(ent.Text)
		best, score := e.fuzzy.ExtractOne(candidate, names)
		for _, word := range strings.Fields(candidate) {
			if w, s := e.fuzzy.ExtractOne(word, names); s > score {
				best, score = w, s
			}
		}
		if score > entityFuzzyFloor {
			code, _ := gazetteer.LookupCity(best)
			hits = append(hits, cityHit{code: code, start: ent.Start})
		}
	}
	return hits, len(hits) > 0
}

func (e *Extractor) tokenCityHits(text string) ([]cityHit, bool) {
	names := gazetteer.CityNames()
	var hits []cityHit
	for _, tok := range whitespaceTokens(text) {
		if len(tok.text) == 3 && gazetteer.IsCode(tok.text) {
			hits = append(hits, cityHit{code: gazetteer.Code(strings.ToUpper(tok.text)), start: tok.start})
			continue
		}
		best, score := e.fuzzy.ExtractOne(strings.ToLower(tok.text), names)
		if score > tokenFuzzyFloor {
			code, _ := gazetteer.LookupCity(best)
			hits = append(hits, cityHit{code: code, start: tok.start})
		}
	}
	return hits, len(hits) > 0
}

// whitespaceTokens splits on whitespace and trims surrounding punctuation,
// keeping byte offsets into text.
func whitespaceTokens(text string) []token {
	var out []token
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		raw := text[start:end]
		trimmed := strings.TrimLeftFunc(raw, isPunct)
		offset := start + len(raw) - len(trimmed)
		trimmed = strings.TrimRightFunc(trimmed, isPunct)
		if trimmed != "" {
			out = append(out, token{text: trimmed, start: offset})
		}
		start = -1
	}
	for i, r := range text {
		if unicode.IsSpace(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(text))
	return out
}

func isPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// dedupeHits orders hits by position and keeps the earliest mention of each
// code.
func dedupeHits(hits []cityHit) []cityHit {
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].start < hits[j].start })
	seen := make(map[gazetteer.Code]bool, len(hits))
	out := hits[:0:0]
	for _, h := range hits {
		if seen[h.code] {
			continue
		}
		seen[h.code] = true
		out = append(out, h)
	}
	return out
}

// ExtractLocations returns the origin and destination codes found in text
// and the name of the cascade stage that found the cities.
func (e *Extractor) ExtractLocations(text string) (source, destination *gazetteer.Code, stage string) {
	hits, stage, ok := e.locations.Run(text)
	if !ok {
		return nil, nil, ""
	}
	src, dst := assignDirections(strings.ToLower(text), dedupeHits(hits))
	return src, dst, stage
}

type cue struct {
	start  int
	source bool
}

func directionalCues(lower string) []cue {
	var cues []cue
	for _, tok := range tokenize(lower) {
		switch {
		case contains(fromCues, tok.text):
			cues = append(cues, cue{start: tok.start, source: true})
		case contains(toCues, tok.text):
			cues = append(cues, cue{start: tok.start})
		}
	}
	return cues
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// assignDirections maps ordered city hits onto source and destination.
// A cue claims the first city after it as long as no other cue sits in
// between; without cues a lone city is a destination when the text talks
// about going somewhere, and two or more cities are read in order.
func assignDirections(lower string, hits []cityHit) (*gazetteer.Code, *gazetteer.Code) {
	if len(hits) == 0 {
		return nil, nil
	}
	var source, destination *gazetteer.Code
	cues := directionalCues(lower)
	for i, c := range cues {
		limit := len(lower)
		if i+1 < len(cues) {
			limit = cues[i+1].start
		}
		for _, h := range hits {
			if h.start <= c.start || h.start >= limit {
				continue
			}
			code := h.code
			if c.source && source == nil {
				source = &code
			} else if !c.source && destination == nil {
				destination = &code
			}
			break
		}
	}

	switch {
	case source == nil && destination == nil:
		if len(hits) == 1 {
			code := hits[0].code
			if containsAnyWord(lower, goCues) {
				destination = &code
			} else {
				source = &code
			}
		} else {
			first, second := hits[0].code, hits[1].code
			source, destination = &first, &second
		}
	case source != nil && destination == nil && len(hits) > 1:
		destination = otherThan(hits, *source)
	case destination != nil && source == nil && len(hits) > 1:
		source = otherThan(hits, *destination)
	}

	if source != nil && destination != nil && *source == *destination {
		if len(hits) > 1 {
			first, second := hits[0].code, hits[1].code
			source, destination = &first, &second
		} else {
			destination = nil
		}
	}
	return source, destination
}

func otherThan(hits []cityHit, code gazetteer.Code) *gazetteer.Code {
	for _, h := range hits {
		if h.code != code {
			c := h.code
			return &c
		}
	}
	return nil
}
