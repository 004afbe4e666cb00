package extraction

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassengersValidate(t *testing.T) {
	tests := []struct {
		in   Passengers
		want Passengers
	}{
		{Passengers{}, Passengers{Adults: 1}},
		{Passengers{Children: 2}, Passengers{Adults: 1, Children: 2}},
		{Passengers{Infants: 1}, Passengers{Adults: 1, Infants: 1}},
		{Passengers{Adults: 3, Children: 1}, Passengers{Adults: 3, Children: 1}},
	}
	for _, tt := range tests {
		got := tt.in.Validate()
		assert.Equal(t, tt.want, got)
		assert.GreaterOrEqual(t, got.Adults, uint(1))
	}
	assert.Equal(t, uint(4), Passengers{Adults: 2, Children: 1, Infants: 1}.Total())
}

func TestSlotRecordNormalize(t *testing.T) {
	r := SlotRecord{
		Source:        code("LHE"),
		Destination:   code("LHE"),
		DepartureDate: date(2024, time.December, 1),
		ReturnDate:    date(2024, time.December, 9),
		Airline:       ptr("not_an_airline"),
	}
	r.Normalize()

	assert.Equal(t, OneWay, r.FlightType)
	assert.Equal(t, Economy, r.FlightClass)
	assert.Equal(t, Passengers{Adults: 1}, r.Passengers)
	assert.Nil(t, r.Destination)
	assert.Nil(t, r.ReturnDate)
	assert.Nil(t, r.Airline)
	assert.Equal(t, date(2024, time.December, 1), r.DepartureDate)
}

func TestSlotRecordCloneIsDeep(t *testing.T) {
	r := NewSlotRecord()
	r.Source = code("KHI")
	r.DepartureDate = date(2024, time.December, 1)

	c := r.Clone()
	*c.Source = "LHE"
	c.DepartureDate.Day = 2

	assert.Equal(t, code("KHI"), r.Source)
	assert.Equal(t, 1, r.DepartureDate.Day)
}

func TestSlotRecordJSON(t *testing.T) {
	r := NewSlotRecord()
	r.Source = code("LHE")
	r.FlightType = Return
	r.DepartureDate = date(2024, time.December, 10)
	r.ReturnDate = date(2024, time.December, 15)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"source": "LHE",
		"destination": null,
		"flight_type": "return",
		"flight_class": "economy",
		"departure_date": "2024-12-10",
		"return_date": "2024-12-15",
		"passengers": {"adults": 1, "children": 0, "infants": 0},
		"airline": null
	}`, string(b))

	var back SlotRecord
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, r, back)
}

func TestDateUnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"10/12/2024"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20241210`), &d))
}

func TestDateArithmetic(t *testing.T) {
	d := Date{Year: 2024, Month: time.December, Day: 30}
	assert.Equal(t, Date{Year: 2025, Month: time.January, Day: 2}, d.AddDays(3))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.Before(d))
	assert.Equal(t, "2024-12-30", d.String())
}

func TestFieldSet(t *testing.T) {
	s := FieldSet(0).Add(FieldAirline).Add(FieldSource)
	assert.True(t, s.Has(FieldSource))
	assert.False(t, s.Has(FieldDestination))
	assert.Equal(t, []Field{FieldSource, FieldAirline}, s.Fields())

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["source","airline"]`, string(b))

	var back FieldSet
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, s, back)
}
