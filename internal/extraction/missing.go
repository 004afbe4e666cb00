package extraction

// MissingField names information still needed before an intent can be
// confirmed.
type MissingField string

const (
	MissingDepartureCity   MissingField = "departure_city"
	MissingDestinationCity MissingField = "destination_city"
	MissingDepartureDate   MissingField = "departure_date"
	MissingReturnDate      MissingField = "return_date"
)

// MissingFields lists what r still lacks, in asking order. The return date
// is only required for return trips.
func MissingFields(r SlotRecord) []MissingField {
	missing := []MissingField{}
	if r.Source == nil {
		missing = append(missing, MissingDepartureCity)
	}
	if r.Destination == nil {
		missing = append(missing, MissingDestinationCity)
	}
	if r.DepartureDate == nil {
		missing = append(missing, MissingDepartureDate)
	}
	if r.FlightType == Return && r.ReturnDate == nil {
		missing = append(missing, MissingReturnDate)
	}
	return missing
}

// Prompt is the question to ask for the field.
func (m MissingField) Prompt() string {
	switch m {
	case MissingDepartureCity:
		return "Which city are you flying from?"
	case MissingDestinationCity:
		return "Where would you like to fly to?"
	case MissingDepartureDate:
		return "When would you like to depart?"
	case MissingReturnDate:
		return "When would you like to return?"
	}
	return ""
}
