package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCabinClass(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		input string
		want  CabinClass
		stage string
	}{
		{"Business class flight to Dubai", Business, "dictionary"},
		{"premium economy please", PremiumEconomy, "dictionary"},
		{"FIRST CLASS to Karachi", First, "dictionary"},
		{"economy", Economy, "dictionary"},
		{"fly on the first of december", Economy, "default"},
		{"book me the first flight from Karachi to Lahore", Economy, "default"},
		{"a luxury trip to karachi", First, "luxury"},
		{"i need a seat in prem class", PremiumEconomy, "template"},
		{"busines seats please", Business, "fuzzy"},
		{"a flight for a work conference", Business, "context_clue"},
		{"to karachi", Economy, "default"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, stage := e.ExtractCabinClass(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.stage, stage)
		})
	}
}

func TestExtractCabinClassIsIdempotent(t *testing.T) {
	e := newTestExtractor()
	for _, input := range []string{"business class", "a luxury trip", "busines seats", "nothing here"} {
		first, firstStage := e.ExtractCabinClass(input)
		second, secondStage := e.ExtractCabinClass(input)
		assert.Equal(t, first, second, input)
		assert.Equal(t, firstStage, secondStage, input)
	}
}

func TestClassCodeStage(t *testing.T) {
	stage, ok := newTestExtractor().cabin.Stage("class_code")
	assert.True(t, ok)

	got, hit := stage.Run("book me y class")
	assert.True(t, hit)
	assert.Equal(t, Economy, got)

	got, hit = stage.Run("J class")
	assert.True(t, hit)
	assert.Equal(t, Business, got)

	_, hit = stage.Run("class act")
	assert.False(t, hit)
}

func TestClassKeywordsLongestFirst(t *testing.T) {
	for i := 1; i < len(classKeywords); i++ {
		assert.GreaterOrEqual(t, len(classKeywords[i-1].phrase), len(classKeywords[i].phrase))
	}
}
