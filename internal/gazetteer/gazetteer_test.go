package gazetteer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCity(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Code
		ok   bool
	}{
		{"simple", "lahore", "LHE", true},
		{"mixed case", "Karachi", "KHI", true},
		{"shared airport", "rawalpindi", "ISB", true},
		{"multiword", "Dera Ghazi Khan", "DEA", true},
		{"unknown", "dubai", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LookupCity(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCityNamesLongestFirst(t *testing.T) {
	names := CityNames()
	require.Len(t, names, 25)
	for i := 1; i < len(names); i++ {
		assert.GreaterOrEqual(t, len(names[i-1]), len(names[i]))
	}

	names[0] = "mutated"
	assert.NotEqual(t, "mutated", CityNames()[0])
}

func TestCodes(t *testing.T) {
	codes := Codes()
	assert.Len(t, codes, 24)
	assert.True(t, IsCode("isb"))
	assert.True(t, IsCode("KHI"))
	assert.False(t, IsCode("DXB"))
	assert.Equal(t, "islamabad", CityName("ISB"))
	assert.Equal(t, "", CityName("DXB"))
}

func TestAirlineVariants(t *testing.T) {
	variants := AirlineVariants()
	require.NotEmpty(t, variants)
	for i := 1; i < len(variants); i++ {
		assert.GreaterOrEqual(t, len(variants[i-1].Text), len(variants[i].Text))
	}
	assert.True(t, IsAirline("emirates"))
	assert.False(t, IsAirline("pan_am"))
	assert.Equal(t, "Qatar Airways", AirlineDisplayName("qatar_airways"))
	assert.Equal(t, "Pia", AirlineDisplayName("pia"))
}
