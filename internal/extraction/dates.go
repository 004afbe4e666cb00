package extraction

import (
	"regexp"
	"strings"
)

type datePair struct {
	departure *Date
	ret       *Date
}

var (
	agePhrases = []*regexp.Regexp{
		regexp.MustCompile(`\b\d+\s*[- ]?(?:years?|yrs?)[- ]?olds?\b`),
		regexp.MustCompile(`\b\d+\s*[- ]?months?[- ]?olds?\b`),
		regexp.MustCompile(`\b\d+\s*[- ]?months?\s+(?:baby|babies|infant|infants)\b`),
		regexp.MustCompile(`\baged?\s+\d+\b`),
	}
	ordinalOf = regexp.MustCompile(`(\d+)(st|nd|rd|th)\s+of\s+`)
	ageLike   = regexp.MustCompile(`\d+.*?\b(?:years?|yrs?|old|months?)\b`)

	relativeWeekday = regexp.MustCompile(`\b(?:next|this)\s+(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b|\b(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\s+next\b`)

	betweenDates = regexp.MustCompile(`\bbetween\s+(.+?)\s+and\s+(.+?)(?:[,.;!?]|$)`)

	datePairPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(day after tomorrow|tomorrow|today)\b.*?\b(?:and\s+(?:then\s+)?|then\s+)\b.*?\b(day after tomorrow|tomorrow|today)\b`),
		regexp.MustCompile(`\bon\s+([^,]+?)\s+and\s+(?:then\s+)?(?:on\s+)?([^,]+?)(?:,|$)`),
		regexp.MustCompile(`\b(\d+(?:st|nd|rd|th)?(?:\s+[a-z]+)?)\s+(?:and\s+(?:then\s+)?|then\s+|to\s+|until\s+|till\s+)(?:on\s+)?(\d+(?:st|nd|rd|th)?(?:\s+[a-z]+)?)`),
	}

	returnIndicators = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:come\s+back|coming\s+back|returning|return|back)\b.*?\b(?:on|by|to)\s+([^,.;]+)`),
		regexp.MustCompile(`\b(?:must\s+on|need\s+to\s+(?:come\s+)?back.*?\bon)\s+([^,.;]+)`),
	}
	departureIndicators = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:departing|departure|depart|leaving|leave|going|travelling|traveling|travel|flying|fly)\b.*?\bon\s+([^,.;]+)`),
		regexp.MustCompile(`\bon\s+([^,.;]+?)\s+.*?\b(?:going|travel|depart|leave)`),
	}

	returnLeadIns = []string{"come back ", "coming back ", "return ", "returning ", "back ", "must "}
)

// normalizeDateText lower-cases text, drops age phrases that would read as
// dates, and rewrites "15th of december" as "15th december".
func normalizeDateText(text string) string {
	lower := strings.ToLower(text)
	for _, re := range agePhrases {
		lower = re.ReplaceAllString(lower, " ")
	}
	lower = ordinalOf.ReplaceAllString(lower, "$1$2 ")
	return strings.TrimSpace(lower)
}

func (e *Extractor) today() Date {
	return DateOf(e.now())
}

func (e *Extractor) maxYear() int {
	return e.now().Year() + maxYearsAhead
}

func (e *Extractor) oneWayDateCascade() Cascade[datePair] {
	return Cascade[datePair]{
		{Name: "literal", Run: e.literalDeparture},
		{Name: "relative_weekday", Run: e.relativeWeekdayDeparture},
		{Name: "calendar_scan", Run: e.scannedDeparture},
		{Name: "calendar_parser", Run: e.parsedDeparture},
	}
}

func (e *Extractor) returnDateCascade() Cascade[datePair] {
	return Cascade[datePair]{
		{Name: "between", Run: e.betweenDates},
		{Name: "date_pair", Run: e.pairedDates},
		{Name: "indicator", Run: e.indicatorDates},
		{Name: "literal_context", Run: e.literalContextDates},
		{Name: "whole_text", Run: e.wholeTextDeparture},
	}
}

func (e *Extractor) literalDeparture(lower string) (datePair, bool) {
	for _, lit := range []string{"day after tomorrow", "tomorrow", "today"} {
		if containsWord(lower, lit) {
			d := e.today().AddDays(literalOffset(lit))
			return datePair{departure: &d}, true
		}
	}
	return datePair{}, false
}

func (e *Extractor) relativeWeekdayDeparture(lower string) (datePair, bool) {
	for _, loc := range relativeWeekday.FindAllStringIndex(lower, -1) {
		phrases := scanDatePhrases(lower[loc[0]:loc[1]], e.today())
		if len(phrases) == 0 {
			continue
		}
		if d, ok := phrases[0].resolve(e.today(), e.maxYear()); ok {
			return datePair{departure: &d}, true
		}
	}
	return datePair{}, false
}

func (e *Extractor) scannedDeparture(lower string) (datePair, bool) {
	for _, p := range scanDatePhrases(lower, e.today()) {
		if d, ok := p.resolve(e.today(), e.maxYear()); ok {
			return datePair{departure: &d}, true
		}
	}
	return datePair{}, false
}

func (e *Extractor) parsedDeparture(lower string) (datePair, bool) {
	if e.calendar == nil {
		return datePair{}, false
	}
	t, ok := e.calendar.Parse(lower, e.now())
	if !ok || t.Year() > e.maxYear() {
		return datePair{}, false
	}
	d := DateOf(t)
	return datePair{departure: &d}, true
}

// firstPhrase returns the first date expression inside s, if any.
func (e *Extractor) firstPhrase(s string) (datePhrase, bool) {
	phrases := scanDatePhrases(s, e.today())
	if len(phrases) == 0 {
		return datePhrase{}, false
	}
	return phrases[0], true
}

func (e *Extractor) resolveCaptures(a, b string) (datePair, bool) {
	if ageLike.MatchString(a) || ageLike.MatchString(b) {
		return datePair{}, false
	}
	dep, okA := e.firstPhrase(a)
	ret, okB := e.firstPhrase(b)
	if !okA || !okB {
		return datePair{}, false
	}
	d, r := resolvePair(&dep, &ret, e.today(), e.maxYear())
	if d == nil || r == nil {
		return datePair{}, false
	}
	return datePair{departure: d, ret: r}, true
}

func (e *Extractor) betweenDates(lower string) (datePair, bool) {
	for _, m := range betweenDates.FindAllStringSubmatch(lower, -1) {
		if pair, ok := e.resolveCaptures(m[1], m[2]); ok {
			return pair, true
		}
	}
	return datePair{}, false
}

func (e *Extractor) pairedDates(lower string) (datePair, bool) {
	for _, re := range datePairPatterns {
		for _, m := range re.FindAllStringSubmatch(lower, -1) {
			if pair, ok := e.resolveCaptures(m[1], m[2]); ok {
				return pair, true
			}
		}
	}
	return datePair{}, false
}

// indicatorDates assigns phrases anchored by return words to the return
// slot and phrases anchored by departure words to the departure slot. A
// phrase claimed by the return side is not reused for departure.
func (e *Extractor) indicatorDates(lower string) (datePair, bool) {
	var dep, ret *datePhrase
	claimed := -1
	for _, re := range returnIndicators {
		for _, m := range re.FindAllStringSubmatchIndex(lower, -1) {
			if p, ok := e.firstPhrase(lower[m[2]:m[3]]); ok && !ageLike.MatchString(lower[m[2]:m[3]]) {
				claimed = m[2] + p.start
				ret = &p
				break
			}
		}
		if ret != nil {
			break
		}
	}
	for _, re := range departureIndicators {
		for _, m := range re.FindAllStringSubmatchIndex(lower, -1) {
			p, ok := e.firstPhrase(lower[m[2]:m[3]])
			if !ok || m[2]+p.start == claimed || ageLike.MatchString(lower[m[2]:m[3]]) {
				continue
			}
			dep = &p
			break
		}
		if dep != nil {
			break
		}
	}
	d, r := resolvePair(dep, ret, e.today(), e.maxYear())
	if d == nil && r == nil {
		return datePair{}, false
	}
	return datePair{departure: d, ret: r}, true
}

func (e *Extractor) literalContextDates(lower string) (datePair, bool) {
	var pair datePair
	working := lower
	for _, lit := range []string{"day after tomorrow", "tomorrow", "today"} {
		idx := indexWord(working, lit, 0)
		if idx < 0 {
			continue
		}
		d := e.today().AddDays(literalOffset(lit))
		isReturn := false
		for _, lead := range returnLeadIns {
			if strings.HasSuffix(working[:idx], lead) {
				isReturn = true
				break
			}
		}
		if isReturn && pair.ret == nil {
			pair.ret = &d
		} else if !isReturn && pair.departure == nil {
			pair.departure = &d
		}
		working = working[:idx] + strings.Repeat(" ", len(lit)) + working[idx+len(lit):]
	}
	return pair, pair.departure != nil || pair.ret != nil
}

func (e *Extractor) wholeTextDeparture(lower string) (datePair, bool) {
	if pair, ok := e.scannedDeparture(lower); ok {
		return pair, true
	}
	return e.parsedDeparture(lower)
}

// ExtractDates returns the departure date and, for return trips, the return
// date. Either may be nil when the text does not say.
func (e *Extractor) ExtractDates(text string, flightType FlightType) (departure, ret *Date, stage string) {
	lower := normalizeDateText(text)
	cascade := e.oneWayDates
	if flightType == Return {
		cascade = e.returnDates
	}
	pair, stage, ok := cascade.Run(lower)
	if !ok {
		return nil, nil, ""
	}
	if flightType != Return {
		pair.ret = nil
	}
	return pair.departure, pair.ret, stage
}
