package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeCalendar struct {
	at time.Time
	ok bool
}

func (f fakeCalendar) Parse(string, time.Time) (time.Time, bool) { return f.at, f.ok }

func TestExtractDatesOneWay(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		input string
		want  *Date
		stage string
	}{
		{"fly tomorrow", date(2024, time.November, 21), "literal"},
		{"the day after tomorrow please", date(2024, time.November, 22), "literal"},
		{"leaving today", date(2024, time.November, 20), "literal"},
		{"next friday", date(2024, time.November, 22), "relative_weekday"},
		{"next wednesday", date(2024, time.November, 27), "relative_weekday"},
		{"this wednesday", date(2024, time.November, 20), "relative_weekday"},
		{"friday next", date(2024, time.November, 22), "relative_weekday"},
		{"on 15th of December", date(2024, time.December, 15), "calendar_scan"},
		{"on December 3rd", date(2024, time.December, 3), "calendar_scan"},
		{"on the 5th", date(2024, time.December, 5), "calendar_scan"},
		{"january 3", date(2025, time.January, 3), "calendar_scan"},
		{"in 3 days", date(2024, time.November, 23), "calendar_scan"},
		{"in two weeks", date(2024, time.December, 4), "calendar_scan"},
		{"next week", date(2024, time.November, 27), "calendar_scan"},
		{"on 2025-03-01", date(2025, time.March, 1), "calendar_scan"},
		{"on 7/1/2025", date(2025, time.January, 7), "calendar_scan"},
		{"my 10 year old son and I travel on 12th december", date(2024, time.December, 12), "calendar_scan"},
		{"on 2026-02-01", date(2026, time.February, 1), "calendar_scan"},
		{"on 2030-01-05", nil, ""},
		{"whenever", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dep, ret, stage := e.ExtractDates(tt.input, OneWay)
			assert.Equal(t, tt.want, dep)
			assert.Nil(t, ret)
			assert.Equal(t, tt.stage, stage)
		})
	}
}

func TestExtractDatesReturn(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		input string
		dep   *Date
		ret   *Date
		stage string
	}{
		{"round trip between 10th and 15th december", date(2024, time.December, 10), date(2024, time.December, 15), "between"},
		{"between december 28 and january 4", date(2024, time.December, 28), date(2025, time.January, 4), "between"},
		{"leaving on 3rd december and returning on 9th december", date(2024, time.December, 3), date(2024, time.December, 9), "date_pair"},
		{"go today and come back tomorrow", date(2024, time.November, 20), date(2024, time.November, 21), "date_pair"},
		{"depart on 5th december, come back by 12th december", date(2024, time.December, 5), date(2024, time.December, 12), "indicator"},
		{"back tomorrow, leaving today", date(2024, time.November, 20), date(2024, time.November, 21), "literal_context"},
		{"round trip to karachi next week", date(2024, time.November, 27), nil, "whole_text"},
		{"round trip", nil, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			dep, ret, stage := e.ExtractDates(tt.input, Return)
			assert.Equal(t, tt.dep, dep)
			assert.Equal(t, tt.ret, ret)
			assert.Equal(t, tt.stage, stage)
		})
	}
}

func TestExtractDatesCalendarParserFallback(t *testing.T) {
	e := newTestExtractor(WithCalendarParser(fakeCalendar{at: time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC), ok: true}))
	dep, _, stage := e.ExtractDates("around christmas", OneWay)
	assert.Equal(t, date(2024, time.December, 25), dep)
	assert.Equal(t, "calendar_parser", stage)

	far := newTestExtractor(WithCalendarParser(fakeCalendar{at: time.Date(2031, time.January, 1, 0, 0, 0, 0, time.UTC), ok: true}))
	dep, _, stage = far.ExtractDates("around christmas", OneWay)
	assert.Nil(t, dep)
	assert.Empty(t, stage)
}

func TestNormalizeDateText(t *testing.T) {
	assert.Equal(t, "15th december", normalizeDateText("15th of December"))
	assert.NotContains(t, normalizeDateText("with my 18 months old baby"), "18")
	assert.NotContains(t, normalizeDateText("a 7-year-old"), "7")
}

func TestResolveRejectsFarFuture(t *testing.T) {
	today := DateOf(fixedNow)
	p := datePhrase{kind: phraseDayMonth, day: 1, month: time.March, year: 2027}
	_, ok := p.resolve(today, today.Year+maxYearsAhead)
	assert.False(t, ok)

	p.year = 2026
	d, ok := p.resolve(today, today.Year+maxYearsAhead)
	assert.True(t, ok)
	assert.Equal(t, Date{Year: 2026, Month: time.March, Day: 1}, d)
}

func TestScanDatePhrasesLongestWins(t *testing.T) {
	phrases := scanDatePhrases("15th december 2025", DateOf(fixedNow))
	if assert.Len(t, phrases, 1) {
		assert.Equal(t, phraseDayMonth, phrases[0].kind)
		assert.Equal(t, 2025, phrases[0].year)
	}
}
