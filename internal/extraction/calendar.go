package extraction

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

type phraseKind int

const (
	phraseExact    phraseKind = iota // fully determined at scan time
	phraseDayMonth                   // day and month, year optional
	phraseDay                        // bare ordinal day
	phraseWeekday                    // weekday name, resolved against an anchor
)

// datePhrase is one date expression found in text. Phrases that lack a year
// or month are resolved later against an anchor date.
type datePhrase struct {
	start, end int
	kind       phraseKind

	date    Date // phraseExact
	day     int
	month   time.Month
	year    int // 0 when not written
	weekday time.Weekday
	strict  bool // weekday must fall after the anchor, not on it
}

const monthAlternation = `(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)`

var (
	isoDate      = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	slashDate    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	dayMonthDate = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?` + monthAlternation + `\b(?:,?\s+(\d{4})\b)?`)
	monthDayDate = regexp.MustCompile(`\b` + monthAlternation + `\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s+(\d{4})\b)?`)
	ordinalDay   = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)\b`)
	inPeriod     = regexp.MustCompile(`\bin\s+` + `(\d{1,3}|a|an|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)` + `\s+(days?|weeks?)\b`)
	nextWeek     = regexp.MustCompile(`\bnext\s+week\b`)
	weekdayDate  = regexp.MustCompile(`\b(?:(next|this|coming)\s+)?(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b(\s+next\b)?`)
	literalDate  = regexp.MustCompile(`\b(day after tomorrow|tomorrow|today|tonight)\b`)

	monthNames = map[string]time.Month{
		"january":   time.January,
		"jan":       time.January,
		"february":  time.February,
		"feb":       time.February,
		"march":     time.March,
		"mar":       time.March,
		"april":     time.April,
		"apr":       time.April,
		"may":       time.May,
		"june":      time.June,
		"jun":       time.June,
		"july":      time.July,
		"jul":       time.July,
		"august":    time.August,
		"aug":       time.August,
		"september": time.September,
		"sept":      time.September,
		"sep":       time.September,
		"october":   time.October,
		"oct":       time.October,
		"november":  time.November,
		"nov":       time.November,
		"december":  time.December,
		"dec":       time.December,
	}

	weekdays = map[string]time.Weekday{
		"sunday":    time.Sunday,
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
	}
)

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// literalOffset maps the special literals to day offsets from today.
func literalOffset(lit string) int {
	switch lit {
	case "day after tomorrow":
		return 2
	case "tomorrow":
		return 1
	}
	return 0
}

// scanDatePhrases returns the non-overlapping date expressions in lower,
// in text order. Where candidates overlap the longer one wins.
func scanDatePhrases(lower string, today Date) []datePhrase {
	var found []datePhrase
	add := func(loc []int, p datePhrase) {
		p.start, p.end = loc[0], loc[1]
		found = append(found, p)
	}

	for _, m := range isoDate.FindAllStringSubmatchIndex(lower, -1) {
		y, mo, d := atoi(lower[m[2]:m[3]]), atoi(lower[m[4]:m[5]]), atoi(lower[m[6]:m[7]])
		if date, ok := validDate(y, time.Month(mo), d); ok {
			add(m, datePhrase{kind: phraseExact, date: date})
		}
	}
	for _, m := range slashDate.FindAllStringSubmatchIndex(lower, -1) {
		d, mo, y := atoi(lower[m[2]:m[3]]), atoi(lower[m[4]:m[5]]), atoi(lower[m[6]:m[7]])
		if date, ok := validDate(y, time.Month(mo), d); ok {
			add(m, datePhrase{kind: phraseExact, date: date})
		}
	}
	for _, m := range dayMonthDate.FindAllStringSubmatchIndex(lower, -1) {
		p := datePhrase{kind: phraseDayMonth, day: atoi(lower[m[2]:m[3]]), month: monthNames[lower[m[4]:m[5]]]}
		if m[6] >= 0 {
			p.year = atoi(lower[m[6]:m[7]])
		}
		add(m, p)
	}
	for _, m := range monthDayDate.FindAllStringSubmatchIndex(lower, -1) {
		p := datePhrase{kind: phraseDayMonth, month: monthNames[lower[m[2]:m[3]]], day: atoi(lower[m[4]:m[5]])}
		if m[6] >= 0 {
			p.year = atoi(lower[m[6]:m[7]])
		}
		add(m, p)
	}
	for _, m := range ordinalDay.FindAllStringSubmatchIndex(lower, -1) {
		add(m, datePhrase{kind: phraseDay, day: atoi(lower[m[2]:m[3]])})
	}
	for _, m := range inPeriod.FindAllStringSubmatchIndex(lower, -1) {
		n, ok := parseCount(lower[m[2]:m[3]])
		if !ok {
			n = 1
		}
		if strings.HasPrefix(lower[m[4]:m[5]], "week") {
			n *= 7
		}
		add(m, datePhrase{kind: phraseExact, date: today.AddDays(n)})
	}
	for _, m := range nextWeek.FindAllStringIndex(lower, -1) {
		add(m, datePhrase{kind: phraseExact, date: today.AddDays(7)})
	}
	for _, m := range weekdayDate.FindAllStringSubmatchIndex(lower, -1) {
		p := datePhrase{kind: phraseWeekday, weekday: weekdays[lower[m[4]:m[5]]]}
		p.strict = (m[2] >= 0 && lower[m[2]:m[3]] == "next") || m[6] >= 0
		add(m, p)
	}
	for _, m := range literalDate.FindAllStringSubmatchIndex(lower, -1) {
		add(m, datePhrase{kind: phraseExact, date: today.AddDays(literalOffset(lower[m[2]:m[3]]))})
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].start != found[j].start {
			return found[i].start < found[j].start
		}
		return found[i].end-found[i].start > found[j].end-found[j].start
	})
	out := found[:0:0]
	lastEnd := -1
	for _, p := range found {
		if p.start < lastEnd {
			continue
		}
		out = append(out, p)
		lastEnd = p.end
	}
	return out
}

func validDate(y int, m time.Month, d int) (Date, bool) {
	if m < time.January || m > time.December || d < 1 || d > 31 || y < 1 {
		return Date{}, false
	}
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if t.Month() != m || t.Day() != d {
		return Date{}, false
	}
	return DateOf(t), true
}

// resolve turns p into a calendar date on or after anchor. maxYear bounds
// the result; anything later is rejected.
func (p datePhrase) resolve(anchor Date, maxYear int) (Date, bool) {
	var (
		d  Date
		ok bool
	)
	switch p.kind {
	case phraseExact:
		d, ok = p.date, true
	case phraseWeekday:
		diff := (int(p.weekday) - int(anchor.Time().Weekday()) + 7) % 7
		if diff == 0 && p.strict {
			diff = 7
		}
		d, ok = anchor.AddDays(diff), true
	case phraseDayMonth:
		if p.year != 0 {
			d, ok = validDate(p.year, p.month, p.day)
			break
		}
		for y := anchor.Year; y <= anchor.Year+1 && !ok; y++ {
			if d, ok = validDate(y, p.month, p.day); ok && d.Before(anchor) {
				ok = false
			}
		}
	case phraseDay:
		y, m := anchor.Year, anchor.Month
		for i := 0; i < 3 && !ok; i++ {
			if d, ok = validDate(y, m, p.day); ok && d.Before(anchor) {
				ok = false
			}
			if m++; m > time.December {
				m, y = time.January, y+1
			}
		}
	}
	if !ok || d.Year > maxYear {
		return Date{}, false
	}
	return d, true
}

// borrowMonth lets a bare day take the month and year written on the other
// side of a pair ("between 10th and 15th december").
func borrowMonth(bare *datePhrase, other datePhrase) {
	if bare.kind != phraseDay {
		return
	}
	switch other.kind {
	case phraseDayMonth:
		bare.kind, bare.month, bare.year = phraseDayMonth, other.month, other.year
	case phraseExact:
		bare.kind, bare.month, bare.year = phraseDayMonth, other.date.Month, other.date.Year
	}
}

// resolvePair resolves a departure/return pair. Either side may be nil.
// The return side is resolved relative to the departure so it never lands
// before it.
func resolvePair(dep, ret *datePhrase, today Date, maxYear int) (*Date, *Date) {
	if dep != nil && ret != nil {
		d, r := *dep, *ret
		borrowMonth(&d, r)
		borrowMonth(&r, d)
		dep, ret = &d, &r
	}
	var depDate, retDate *Date
	anchor := today
	if dep != nil {
		if d, ok := dep.resolve(today, maxYear); ok {
			depDate = &d
			anchor = d
		}
	}
	if ret != nil {
		if r, ok := ret.resolve(anchor, maxYear); ok {
			retDate = &r
		}
	}
	return depDate, retDate
}
