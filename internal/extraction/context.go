package extraction

import (
	"fmt"
	"strings"

	"github.com/wolfman30/flight-intent/internal/gazetteer"
)

// ContextualQuery restates prior as a plain-English request and appends the
// new utterance after a "Now" marker, so a follow-up such as "make it
// business" can be read against what the traveller already said.
func ContextualQuery(prior SlotRecord, utterance string) string {
	var parts []string

	switch {
	case prior.Source != nil && prior.Destination != nil:
		parts = append(parts, fmt.Sprintf("travel from %s to %s", *prior.Source, *prior.Destination))
	case prior.Source != nil:
		parts = append(parts, fmt.Sprintf("travel from %s", *prior.Source))
	case prior.Destination != nil:
		parts = append(parts, fmt.Sprintf("go to %s", *prior.Destination))
	}

	var party []string
	party = appendCount(party, prior.Passengers.Adults, "adult", "adults")
	party = appendCount(party, prior.Passengers.Children, "child", "children")
	party = appendCount(party, prior.Passengers.Infants, "infant", "infants")
	if len(party) > 0 {
		parts = append(parts, "with "+strings.Join(party, " and "))
	}

	if prior.DepartureDate != nil {
		parts = append(parts, "departing on "+prior.DepartureDate.String())
	}
	if prior.ReturnDate != nil {
		parts = append(parts, "returning on "+prior.ReturnDate.String())
	}
	if prior.FlightClass.Valid() {
		parts = append(parts, "in "+prior.FlightClass.Label()+" class")
	}
	switch prior.FlightType {
	case Return:
		parts = append(parts, "round trip")
	case OneWay:
		parts = append(parts, "one way")
	}
	if prior.Airline != nil {
		parts = append(parts, "with "+gazetteer.AirlineDisplayName(*prior.Airline))
	}

	if len(parts) == 0 {
		return utterance
	}
	return strings.Join(parts, " ") + ". Now " + utterance
}

func appendCount(parts []string, n uint, one, many string) []string {
	switch n {
	case 0:
		return parts
	case 1:
		return append(parts, "1 "+one)
	default:
		return append(parts, fmt.Sprintf("%d %s", n, many))
	}
}

// Merge overlays the detected fields of fresh onto prior. Fields outside
// detected keep the prior value, so a slot the new turn did not find is
// never erased.
func Merge(prior, fresh SlotRecord, detected FieldSet) SlotRecord {
	out := prior.Clone()
	if detected.Has(FieldSource) && fresh.Source != nil {
		out.Source = clonePtr(fresh.Source)
	}
	if detected.Has(FieldDestination) && fresh.Destination != nil {
		out.Destination = clonePtr(fresh.Destination)
	}
	if detected.Has(FieldFlightType) && fresh.FlightType.Valid() {
		out.FlightType = fresh.FlightType
	}
	if detected.Has(FieldFlightClass) && fresh.FlightClass.Valid() {
		out.FlightClass = fresh.FlightClass
	}
	if detected.Has(FieldDepartureDate) && fresh.DepartureDate != nil {
		out.DepartureDate = clonePtr(fresh.DepartureDate)
	}
	if detected.Has(FieldReturnDate) && fresh.ReturnDate != nil {
		out.ReturnDate = clonePtr(fresh.ReturnDate)
	}
	if detected.Has(FieldPassengers) {
		out.Passengers = fresh.Passengers.Validate()
	}
	if detected.Has(FieldAirline) && fresh.Airline != nil {
		out.Airline = clonePtr(fresh.Airline)
	}
	return out
}

// fillOpenSide handles a bare city answering the one open direction: with
// the origin already known and no directional word in text, a lone city is
// the destination, and the other way round.
func fillOpenSide(prior SlotRecord, text string, src, dst *gazetteer.Code) (*gazetteer.Code, *gazetteer.Code) {
	if len(directionalCues(strings.ToLower(text))) > 0 {
		return src, dst
	}
	switch {
	case src != nil && dst == nil && prior.Source != nil && prior.Destination == nil && *src != *prior.Source:
		return nil, src
	case dst != nil && src == nil && prior.Destination != nil && prior.Source == nil && *dst != *prior.Destination:
		return dst, nil
	}
	return src, dst
}

// resolveSameCity clears the carried side when a freshly extracted city
// collides with the one kept from an earlier turn.
func resolveSameCity(r *SlotRecord, detected FieldSet) {
	if r.Source == nil || r.Destination == nil || *r.Source != *r.Destination {
		return
	}
	if detected.Has(FieldDestination) && !detected.Has(FieldSource) {
		r.Source = nil
		return
	}
	r.Destination = nil
}

// ChangedFields lists the slots whose value differs between before and after.
func ChangedFields(before, after SlotRecord) FieldSet {
	var out FieldSet
	mark := func(f Field, differs bool) {
		if differs {
			out = out.Add(f)
		}
	}
	mark(FieldSource, !samePtr(before.Source, after.Source))
	mark(FieldDestination, !samePtr(before.Destination, after.Destination))
	mark(FieldFlightType, before.FlightType != after.FlightType)
	mark(FieldFlightClass, before.FlightClass != after.FlightClass)
	mark(FieldDepartureDate, !samePtr(before.DepartureDate, after.DepartureDate))
	mark(FieldReturnDate, !samePtr(before.ReturnDate, after.ReturnDate))
	mark(FieldPassengers, before.Passengers != after.Passengers)
	mark(FieldAirline, !samePtr(before.Airline, after.Airline))
	return out
}

func samePtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
