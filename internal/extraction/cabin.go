package extraction

import (
	"regexp"
	"sort"
	"strings"
)

const classFuzzyFloor = 75

type classKeyword struct {
	phrase string
	class  CabinClass
}

var classVariants = []struct {
	class    CabinClass
	variants []string
}{
	{First, []string{"first class", "first-class", "firstclass", "1st class", "first", "f class"}},
	{Business, []string{
		"business class", "business-class", "businessclass", "biz class", "business",
		"c class", "club class", "executive class", "executive", "j class",
	}},
	{PremiumEconomy, []string{
		"premium economy", "premium-economy", "premiumeconomy", "premium eco",
		"premium", "w class", "comfort plus", "economy plus", "economy+",
		"extra comfort", "preferred seating", "premium seating",
	}},
	{Economy, []string{
		"economy class", "economy-class", "economyclass", "eco class", "economy",
		"y class", "coach", "main cabin", "standard", "regular", "basic economy",
	}},
}

// classKeywords is every variant, longest first.
var classKeywords []classKeyword

// classTerms is every variant in declaration order, used as fuzzy choices.
var classTerms []string

func init() {
	for _, cv := range classVariants {
		for _, v := range cv.variants {
			classKeywords = append(classKeywords, classKeyword{phrase: v, class: cv.class})
			classTerms = append(classTerms, v)
		}
	}
	sort.SliceStable(classKeywords, func(i, j int) bool {
		return len(classKeywords[i].phrase) > len(classKeywords[j].phrase)
	})
}

type classHint struct {
	class CabinClass
	words []string
}

var (
	classIndicators = []string{"class", "cabin", "seat", "seating", "service"}

	luxuryHints = []classHint{
		{Business, []string{"professional", "corporate", "executive", "business trip", "work travel"}},
		{First, []string{"luxury", "luxurious", "premium service", "finest", "exclusive", "vip"}},
		{PremiumEconomy, []string{"comfortable", "extra space", "more room", "upgrade", "better seat"}},
	}

	contextHints = []classHint{
		{First, []string{"expensive", "costly", "luxury", "premium service", "champagne", "lie flat"}},
		{Business, []string{"work", "corporate", "meeting", "conference", "professional", "lounge access"}},
		{PremiumEconomy, []string{"upgrade", "extra legroom", "more space", "comfortable", "priority boarding"}},
	}

	flightWords = []string{"flight", "flights", "fly", "flying", "travel", "travelling", "traveling", "ticket", "tickets", "book", "booking", "reserve"}

	classTemplates = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:in|book|reserve|want|need|prefer)\s+(\w+(?:\s+\w+)?)\s+class\b`),
		regexp.MustCompile(`\b(\w+(?:\s+\w+)?)\s+class\s+(?:seat|ticket|flight|fare)\b`),
		regexp.MustCompile(`\b(?:fly|travel)\s+(\w+(?:\s+\w+)?)\s+class\b`),
		regexp.MustCompile(`\b(\w+(?:\s+\w+)?)\s+class\s+(?:flight|ticket|booking)\b`),
		regexp.MustCompile(`\b(first|business|economy|premium)\s+(?:class\s+)?(?:seat|ticket|flight|cabin)\b`),
		regexp.MustCompile(`\b(?:seat|ticket|flight|cabin)\s+(?:in\s+)?(\w+(?:\s+\w+)?)\s+class\b`),
	}

	fuzzyClassStems = []string{"class", "eco", "biz", "prem", "first", "bus"}

	classCodePattern = regexp.MustCompile(`\b([fjcwy])\s+class\b`)
	classCodes       = map[string]CabinClass{"f": First, "j": Business, "c": Business, "w": PremiumEconomy, "y": Economy}

	// "first" on its own is often ordinal rather than a cabin.
	ordinalFirst = regexp.MustCompile(`\bthe\s+first\b|\bfirst\s+(?:of|week|day|time|thing|leg|half)\b`)
)

func (e *Extractor) cabinCascade() Cascade[CabinClass] {
	return Cascade[CabinClass]{
		{Name: "dictionary", Run: lowered(dictionaryClass)},
		{Name: "context_window", Run: lowered(contextWindowClass)},
		{Name: "luxury", Run: lowered(hintClass(luxuryHints, false))},
		{Name: "template", Run: lowered(templateClass)},
		{Name: "fuzzy", Run: lowered(e.fuzzyClass)},
		{Name: "context_clue", Run: lowered(hintClass(contextHints, true))},
		{Name: "class_code", Run: lowered(classCodeClass)},
	}
}

func lowered[T any](fn func(string) (T, bool)) func(string) (T, bool) {
	return func(text string) (T, bool) { return fn(strings.ToLower(text)) }
}

func dictionaryClass(lower string) (CabinClass, bool) {
	for _, kw := range classKeywords {
		idx := indexWord(lower, kw.phrase, 0)
		if idx < 0 {
			continue
		}
		if kw.phrase == "first" && ordinalAt(lower, idx) {
			continue
		}
		return kw.class, true
	}
	return "", false
}

func contextWindowClass(lower string) (CabinClass, bool) {
	tokens := tokenize(lower)
	for i, tok := range tokens {
		if !contains(classIndicators, tok.text) {
			continue
		}
		lo, hi := max(0, i-2), min(len(tokens), i+3)
		words := make([]string, 0, hi-lo)
		for _, t := range tokens[lo:hi] {
			words = append(words, t.text)
		}
		window := strings.Join(words, " ")
		for _, kw := range classKeywords {
			if strings.Contains(window, kw.phrase) {
				return kw.class, true
			}
		}
	}
	return "", false
}

func hintClass(hints []classHint, needFlightWord bool) func(string) (CabinClass, bool) {
	return func(lower string) (CabinClass, bool) {
		if needFlightWord && !containsAnyWord(lower, flightWords) {
			return "", false
		}
		for _, h := range hints {
			if containsAnyWord(lower, h.words) {
				return h.class, true
			}
		}
		return "", false
	}
}

// ordinalAt reports whether the "first" starting at idx reads as an ordinal.
func ordinalAt(lower string, idx int) bool {
	return ordinalFirst.MatchString(lower[max(0, idx-4):min(len(lower), idx+12)])
}

func templateClass(lower string) (CabinClass, bool) {
	for _, re := range classTemplates {
		for _, m := range re.FindAllStringSubmatchIndex(lower, -1) {
			phrase := strings.TrimSpace(lower[m[2]:m[3]])
			if phrase == "" {
				continue
			}
			if strings.HasPrefix(phrase, "first") && ordinalAt(lower, m[2]) {
				continue
			}
			for _, cv := range classVariants {
				for _, v := range cv.variants {
					if v == phrase || strings.HasPrefix(v, phrase) {
						return cv.class, true
					}
				}
			}
		}
	}
	return "", false
}

func (e *Extractor) fuzzyClass(lower string) (CabinClass, bool) {
	for _, tok := range tokenize(lower) {
		if len(tok.text) <= 3 || tok.text == "class" || tok.text == "classes" {
			continue
		}
		// Exact variants were already judged by the dictionary stage.
		if contains(classTerms, tok.text) {
			continue
		}
		if !containsAny(tok.text, fuzzyClassStems) {
			continue
		}
		best, score := e.fuzzy.ExtractOne(tok.text, classTerms)
		if score <= classFuzzyFloor {
			continue
		}
		for _, cv := range classVariants {
			if contains(cv.variants, best) {
				return cv.class, true
			}
		}
	}
	return "", false
}

func classCodeClass(lower string) (CabinClass, bool) {
	m := classCodePattern.FindStringSubmatch(lower)
	if m == nil {
		return "", false
	}
	class, ok := classCodes[m[1]]
	return class, ok
}

// ExtractCabinClass returns the cabin named or implied by text, economy when
// nothing points elsewhere. It holds no state between calls.
func (e *Extractor) ExtractCabinClass(text string) (CabinClass, string) {
	if c, stage, ok := e.cabin.Run(text); ok {
		return c, stage
	}
	return Economy, "default"
}
