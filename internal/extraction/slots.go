package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/flight-intent/internal/gazetteer"
)

// FlightType is the trip shape.
type FlightType string

const (
	OneWay FlightType = "one_way"
	Return FlightType = "return"
)

// Valid reports whether t is a known flight type.
func (t FlightType) Valid() bool {
	return t == OneWay || t == Return
}

// CabinClass is the canonical cabin name.
type CabinClass string

const (
	Economy        CabinClass = "economy"
	PremiumEconomy CabinClass = "premium_economy"
	Business       CabinClass = "business"
	First          CabinClass = "first"
)

// Valid reports whether c is one of the four canonical classes.
func (c CabinClass) Valid() bool {
	switch c {
	case Economy, PremiumEconomy, Business, First:
		return true
	}
	return false
}

// Label renders the class for humans ("premium economy").
func (c CabinClass) Label() string {
	return strings.ReplaceAll(string(c), "_", " ")
}

// Date is a calendar date without time or zone. It marshals as YYYY-MM-DD.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("extraction: invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC on d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("extraction: date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Passengers is the traveller breakdown by age band.
type Passengers struct {
	Adults   uint `json:"adults"`
	Children uint `json:"children"`
	Infants  uint `json:"infants"`
}

// Total is the number of travellers.
func (p Passengers) Total() uint {
	return p.Adults + p.Children + p.Infants
}

// Validate applies the shared passenger rules: dependents always travel with
// at least one adult and an empty party is a single adult.
func (p Passengers) Validate() Passengers {
	if p.Adults == 0 {
		p.Adults = 1
	}
	return p
}

// SlotRecord is the booking intent assembled from one or more turns.
type SlotRecord struct {
	Source        *gazetteer.Code `json:"source"`
	Destination   *gazetteer.Code `json:"destination"`
	FlightType    FlightType      `json:"flight_type"`
	FlightClass   CabinClass      `json:"flight_class"`
	DepartureDate *Date           `json:"departure_date"`
	ReturnDate    *Date           `json:"return_date"`
	Passengers    Passengers      `json:"passengers"`
	Airline       *string         `json:"airline"`
}

// NewSlotRecord returns an empty record carrying the documented defaults.
func NewSlotRecord() SlotRecord {
	return SlotRecord{
		FlightType:  OneWay,
		FlightClass: Economy,
		Passengers:  Passengers{Adults: 1},
	}
}

// Normalize enforces the record invariants in place.
func (r *SlotRecord) Normalize() {
	if !r.FlightType.Valid() {
		r.FlightType = OneWay
	}
	if !r.FlightClass.Valid() {
		r.FlightClass = Economy
	}
	r.Passengers = r.Passengers.Validate()
	if r.FlightType != Return {
		r.ReturnDate = nil
	}
	if r.Source != nil && r.Destination != nil && *r.Source == *r.Destination {
		r.Destination = nil
	}
	if r.Airline != nil && !gazetteer.IsAirline(*r.Airline) {
		r.Airline = nil
	}
}

// Clone returns a deep copy of r.
func (r SlotRecord) Clone() SlotRecord {
	out := r
	out.Source = clonePtr(r.Source)
	out.Destination = clonePtr(r.Destination)
	out.DepartureDate = clonePtr(r.DepartureDate)
	out.ReturnDate = clonePtr(r.ReturnDate)
	out.Airline = clonePtr(r.Airline)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Field names one slot of the record.
type Field string

const (
	FieldSource        Field = "source"
	FieldDestination   Field = "destination"
	FieldFlightType    Field = "flight_type"
	FieldFlightClass   Field = "flight_class"
	FieldDepartureDate Field = "departure_date"
	FieldReturnDate    Field = "return_date"
	FieldPassengers    Field = "passengers"
	FieldAirline       Field = "airline"
)

var allFields = []Field{
	FieldSource, FieldDestination, FieldFlightType, FieldFlightClass,
	FieldDepartureDate, FieldReturnDate, FieldPassengers, FieldAirline,
}

// FieldSet is a small set of fields. It marshals as a JSON array in record
// order.
type FieldSet uint16

func fieldBit(f Field) FieldSet {
	for i, candidate := range allFields {
		if candidate == f {
			return 1 << i
		}
	}
	return 0
}

// Add returns s with f included.
func (s FieldSet) Add(f Field) FieldSet { return s | fieldBit(f) }

// Has reports whether f is in s.
func (s FieldSet) Has(f Field) bool {
	bit := fieldBit(f)
	return bit != 0 && s&bit != 0
}

// Fields lists the members of s in record order.
func (s FieldSet) Fields() []Field {
	out := make([]Field, 0, len(allFields))
	for _, f := range allFields {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s FieldSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Fields())
}

func (s *FieldSet) UnmarshalJSON(b []byte) error {
	var fields []Field
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	var out FieldSet
	for _, f := range fields {
		out = out.Add(f)
	}
	*s = out
	return nil
}
