package conversation

import (
	"fmt"
	"strings"

	"github.com/wolfman30/flight-intent/internal/extraction"
	"github.com/wolfman30/flight-intent/internal/gazetteer"
)

const (
	welcomeMessage  = "Hello! I'm your travel assistant. Tell me about your trip: where are you flying from and to, and when?"
	noChangeMessage = "Sure, what would you like to change?"
)

// ConfirmationSummary renders a complete record as the question put to the
// traveller before searching.
func ConfirmationSummary(r extraction.SlotRecord) string {
	var parts []string

	trip := "one-way"
	if r.FlightType == extraction.Return {
		trip = "round-trip"
	}
	if r.Source != nil && r.Destination != nil {
		parts = append(parts, fmt.Sprintf("%s from %s to %s", trip, cityLabel(r.Source), cityLabel(r.Destination)))
	}
	if r.DepartureDate != nil {
		parts = append(parts, "on "+r.DepartureDate.String())
	}
	if r.ReturnDate != nil {
		parts = append(parts, "returning "+r.ReturnDate.String())
	}
	parts = append(parts, fmt.Sprintf("in %s class %s", r.FlightClass.Label(), passengerText(r.Passengers)))

	airline := ""
	if r.Airline != nil {
		airline = " with " + gazetteer.AirlineDisplayName(*r.Airline)
	}
	return "Perfect! I have " + strings.Join(parts, ", ") + airline + ". Shall I search for flights?"
}

func passengerText(p extraction.Passengers) string {
	total := p.Total()
	switch {
	case total == 1:
		return "for 1 person"
	case p.Children > 0 || p.Infants > 0:
		text := fmt.Sprintf("for %d passengers (%s", total, plural(p.Adults, "adult", "adults"))
		if p.Children > 0 {
			text += ", " + plural(p.Children, "child", "children")
		}
		if p.Infants > 0 {
			text += ", " + plural(p.Infants, "infant", "infants")
		}
		return text + ")"
	default:
		return fmt.Sprintf("for %d adults", p.Adults)
	}
}

func plural(n uint, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

func cityLabel(c *gazetteer.Code) string {
	if name := gazetteer.CityName(*c); name != "" {
		return fmt.Sprintf("%s (%s)", titleCase(name), *c)
	}
	return c.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ChangeSummary renders the changed slots as "field: old → new" lines, in
// record order.
func ChangeSummary(before, after extraction.SlotRecord, changed extraction.FieldSet) []string {
	var changes []string
	for _, f := range changed.Fields() {
		var oldVal, newVal string
		switch f {
		case extraction.FieldSource:
			oldVal, newVal = ptrText(before.Source), ptrText(after.Source)
		case extraction.FieldDestination:
			oldVal, newVal = ptrText(before.Destination), ptrText(after.Destination)
		case extraction.FieldFlightType:
			oldVal, newVal = string(before.FlightType), string(after.FlightType)
		case extraction.FieldFlightClass:
			oldVal, newVal = string(before.FlightClass), string(after.FlightClass)
		case extraction.FieldDepartureDate:
			oldVal, newVal = ptrText(before.DepartureDate), ptrText(after.DepartureDate)
		case extraction.FieldReturnDate:
			oldVal, newVal = ptrText(before.ReturnDate), ptrText(after.ReturnDate)
		case extraction.FieldPassengers:
			oldVal, newVal = fmt.Sprint(before.Passengers.Total()), fmt.Sprint(after.Passengers.Total())
		case extraction.FieldAirline:
			oldVal, newVal = ptrText(before.Airline), ptrText(after.Airline)
		}
		changes = append(changes, fmt.Sprintf("%s: %s → %s", f, oldVal, newVal))
	}
	return changes
}

func ptrText[T any](p *T) string {
	if p == nil {
		return "not set"
	}
	return fmt.Sprint(*p)
}

// guidance asks for what is still missing. The first turn of a sparse
// request gets a fuller prompt.
func guidance(missing []extraction.MissingField, initial bool) string {
	if len(missing) == 0 {
		return ""
	}
	if initial {
		return "I'd love to help you find a flight. " + missing[0].Prompt()
	}
	prompts := make([]string, 0, len(missing))
	for _, m := range missing {
		prompts = append(prompts, m.Prompt())
	}
	return "Got it. " + strings.Join(prompts, " ")
}
