package extraction

import (
	"regexp"
	"strings"
)

// Passenger strategy names reported in PassengerResult.Source.
const (
	PassengerSourceLLM      = "llm"
	PassengerSourceFallback = "fallback"
	PassengerSourceCarried  = "carried_over"
)

// PassengerResult is the passenger breakdown and how it was obtained.
type PassengerResult struct {
	Passengers Passengers
	Source     string
	// Detected is true when the text talks about who is travelling.
	Detected bool
	// LLMErr is the failure that sent the request to the fallback, if any.
	LLMErr error
}

func countPattern(words string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + numberPattern + `\s+(?:` + words + `)\b`)
}

var (
	adultCounts  = countPattern(`adults?|grown[- ]?ups?|men|women|seniors?|elders?`)
	childCounts  = countPattern(`children|child|kids?|sons?|daughters?|boys?|girls?|teenagers?|teens?`)
	infantCounts = countPattern(`infants?|babies|baby|newborns?`)
	totalCounts  = countPattern(`people|persons?|passengers?|travell?ers?|pax|seats|tickets`)
	ofUsCount    = regexp.MustCompile(`\b(?:the\s+|all\s+)?` + numberPattern + `\s+of\s+us\b`)
	groupCount   = regexp.MustCompile(`\bgroup\s+of\s+` + numberPattern + `\b`)
	familyCount  = regexp.MustCompile(`\bfamily\s+of\s+` + numberPattern + `\b`)
	friendCount  = regexp.MustCompile(`\bwith\s+(?:my\s+)?` + numberPattern + `\s+(?:friends?|colleagues?|buddies)\b`)
	coupleCount  = regexp.MustCompile(`\b` + numberPattern + `\s+couples\b`)

	ageYears  = regexp.MustCompile(`(?:\b` + numberPattern + `\s+)?\b(\d{1,3})\s*[- ]?(?:years?|yrs?)[- ]?olds?\b`)
	ageMonths = regexp.MustCompile(`(?:\b` + numberPattern + `\s+)?\b(\d{1,2})\s*[- ]?months?[- ]?(?:olds?|baby|infant)\b`)

	spouse        = regexp.MustCompile(`\b(?:my|with|and|our)\s+(?:wife|husband|spouse|partner|fianc[eé]e?|girlfriend|boyfriend)\b`)
	bothParents   = regexp.MustCompile(`\b(?:my|our|with)\s+parents\b`)
	oneParent     = regexp.MustCompile(`\b(?:my|our|with)\s+(?:mother|father|mom|mum|dad|mommy|daddy)\b`)
	singleFriend  = regexp.MustCompile(`\b(?:with|and)\s+(?:a|my|one)\s+(?:friend|colleague|buddy)\b`)
	singleChild   = regexp.MustCompile(`\b(?:a|an|my|our|one)\s+(?:son|daughter|child|kid|boy|girl|teenager)\b`)
	singleInfant  = regexp.MustCompile(`\b(?:a|an|my|our|one)\s+(?:baby|infant|newborn)\b`)
	aCouple       = regexp.MustCompile(`\b(?:as|we(?:'re| are))\s+a\s+couple\b`)
	coupleOf      = regexp.MustCompile(`\ba\s+couple\s+of\s+(?:people|us|adults|travell?ers|friends)\b`)
	fewPeople     = regexp.MustCompile(`\b(?:a\s+)?few\s+(?:people|of\s+us|persons|adults|friends|travell?ers)\b`)
	severalPeople = regexp.MustCompile(`\bseveral\s+(?:people|of\s+us|persons|adults|friends|travell?ers)\b`)
)

// hasPassengerLanguage reports whether text says anything about who travels.
func hasPassengerLanguage(text string) bool {
	return containsAnyWord(strings.ToLower(text), passengerWords)
}

// sumCounts adds up every count captured by re.
func sumCounts(re *regexp.Regexp, lower string) int {
	total := 0
	for _, m := range re.FindAllStringSubmatch(lower, -1) {
		if n, ok := parseCount(m[1]); ok {
			total += n
		}
	}
	return total
}

func maxCount(re *regexp.Regexp, lower string) int {
	best := 0
	for _, m := range re.FindAllStringSubmatch(lower, -1) {
		if n, ok := parseCount(m[1]); ok && n > best {
			best = n
		}
	}
	return best
}

// FallbackPassengers is the deterministic passenger strategy. Rules apply in
// a fixed order: explicit counts, ages, single role mentions, relationships,
// family and group sizes, then validation.
func FallbackPassengers(text string) Passengers {
	lower := strings.ToLower(text)

	adults := sumCounts(adultCounts, lower)
	children := sumCounts(childCounts, lower)
	infants := sumCounts(infantCounts, lower)
	explicitAdults := adults > 0

	// Ages decide the band regardless of the noun that follows them.
	var ageAdults, ageChildren, ageInfants int
	for _, m := range ageYears.FindAllStringSubmatch(lower, -1) {
		count := 1
		if n, ok := parseCount(m[1]); ok {
			count = n
		}
		switch age := atoi(m[2]); {
		case age < 2:
			ageInfants += count
		case age < 18:
			ageChildren += count
		default:
			ageAdults += count
		}
	}
	for _, m := range ageMonths.FindAllStringSubmatch(lower, -1) {
		count := 1
		if n, ok := parseCount(m[1]); ok {
			count = n
		}
		if atoi(m[2]) < 24 {
			ageInfants += count
		} else {
			ageChildren += count
		}
	}
	adults = max(adults, ageAdults)
	children = max(children, ageChildren)
	infants = max(infants, ageInfants)

	children = max(children, len(singleChild.FindAllString(lower, -1)))
	infants = max(infants, len(singleInfant.FindAllString(lower, -1)))

	// Companions are counted on top of the speaker.
	companions := 0
	if spouse.MatchString(lower) {
		companions++
	}
	if bothParents.MatchString(lower) {
		companions += 2
	} else {
		companions += len(oneParent.FindAllString(lower, -1))
	}
	if n := sumCounts(friendCount, lower); n > 0 {
		companions += n
	} else if singleFriend.MatchString(lower) {
		companions++
	}
	if companions > 0 {
		adults = max(adults, 1+companions)
	}
	if n := sumCounts(coupleCount, lower); n > 0 {
		adults = max(adults, 2*n)
	} else if aCouple.MatchString(lower) || coupleOf.MatchString(lower) {
		adults = max(adults, 2)
	}

	if size := maxCount(familyCount, lower); size > 0 {
		if explicitAdults {
			children = max(children, size-adults-infants)
		} else {
			remaining := size - children - infants
			if remaining > 0 {
				a := min(2, remaining)
				adults = max(adults, a)
				children = max(children, size-a-infants)
			}
		}
	}

	total := max(sumCounts(totalCounts, lower), maxCount(ofUsCount, lower), maxCount(groupCount, lower))
	switch {
	case severalPeople.MatchString(lower):
		total = max(total, 4)
	case fewPeople.MatchString(lower):
		total = max(total, 3)
	}
	if total > adults+children+infants {
		adults = total - children - infants
	}

	return Passengers{
		Adults:   uint(max(adults, 0)),
		Children: uint(max(children, 0)),
		Infants:  uint(max(infants, 0)),
	}.Validate()
}
