package extraction

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/flight-intent/internal/gazetteer"
	"github.com/wolfman30/flight-intent/internal/llm"
	"github.com/wolfman30/flight-intent/pkg/logging"
)

// fixedNow is a Wednesday.
var fixedNow = time.Date(2024, time.November, 20, 9, 30, 0, 0, time.UTC)

func newTestExtractor(opts ...Option) *Extractor {
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithCalendarParser(nil),
		WithLogger(logging.Discard()),
	}
	return New(append(base, opts...)...)
}

func code(c string) *gazetteer.Code {
	v := gazetteer.Code(c)
	return &v
}

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) *Date {
	v := Date{Year: y, Month: m, Day: d}
	return &v
}

func TestExtractEndToEnd(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name  string
		input string
		check func(t *testing.T, r Result)
	}{
		{
			name:  "single city after to is the destination",
			input: "I want to go to Multan",
			check: func(t *testing.T, r Result) {
				assert.Nil(t, r.Record.Source)
				assert.Equal(t, code("MUX"), r.Record.Destination)
			},
		},
		{
			name:  "two cities without cues keep text order",
			input: "Karachi Lahore",
			check: func(t *testing.T, r Result) {
				assert.Equal(t, code("KHI"), r.Record.Source)
				assert.Equal(t, code("LHE"), r.Record.Destination)
			},
		},
		{
			name:  "round trip between two days",
			input: "round trip from Lahore to Karachi between 10th and 15th December",
			check: func(t *testing.T, r Result) {
				assert.Equal(t, Return, r.Record.FlightType)
				assert.Equal(t, date(2024, time.December, 10), r.Record.DepartureDate)
				assert.Equal(t, date(2024, time.December, 15), r.Record.ReturnDate)
				assert.Empty(t, r.Missing)
			},
		},
		{
			name:  "no passenger language is one adult",
			input: "fly from Lahore to Karachi tomorrow",
			check: func(t *testing.T, r Result) {
				assert.Equal(t, Passengers{Adults: 1}, r.Record.Passengers)
				assert.False(t, r.Detected.Has(FieldPassengers))
				assert.Equal(t, PassengerSourceFallback, r.PassengerSource)
			},
		},
		{
			name:  "dependents get an adult",
			input: "2 kids and 1 infant will travel",
			check: func(t *testing.T, r Result) {
				assert.Equal(t, Passengers{Adults: 1, Children: 2, Infants: 1}, r.Record.Passengers)
			},
		},
		{
			name:  "spouse counts as an adult",
			input: "I want to travel with my wife and our 3 children",
			check: func(t *testing.T, r Result) {
				assert.Equal(t, Passengers{Adults: 2, Children: 3}, r.Record.Passengers)
				assert.True(t, r.Detected.Has(FieldPassengers))
			},
		},
		{
			name:  "unknown destination stays empty",
			input: "Business class flight to Dubai next week for 2 people",
			check: func(t *testing.T, r Result) {
				assert.Equal(t, Business, r.Record.FlightClass)
				assert.Nil(t, r.Record.Destination)
				assert.Equal(t, OneWay, r.Record.FlightType)
				assert.Equal(t, Passengers{Adults: 2}, r.Record.Passengers)
				assert.Equal(t, date(2024, time.November, 27), r.Record.DepartureDate)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := e.Extract(context.Background(), tt.input)
			require.NoError(t, err)
			tt.check(t, r)
		})
	}
}

func TestExtractSourceNeverEqualsDestination(t *testing.T) {
	e := newTestExtractor()
	for _, input := range []string{
		"Lahore Karachi",
		"from Islamabad to Rawalpindi",
		"LHE to LHE",
		"from karachi to karachi",
	} {
		r, err := e.Extract(context.Background(), input)
		require.NoError(t, err)
		if r.Record.Source != nil && r.Record.Destination != nil {
			assert.NotEqual(t, *r.Record.Source, *r.Record.Destination, input)
		}
	}
}

func TestExtractDefaultsAndStrategies(t *testing.T) {
	e := newTestExtractor()
	r, err := e.Extract(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, NewSlotRecord(), r.Record)
	assert.Equal(t, FieldSet(0), r.Detected)
	assert.Equal(t, "default", r.Strategies[FieldFlightType])
	assert.Equal(t, "default", r.Strategies[FieldFlightClass])
	assert.Equal(t, []MissingField{MissingDepartureCity, MissingDestinationCity, MissingDepartureDate}, r.Missing)
	assert.False(t, r.Complete())
}

func TestExtractTurnModificationChangesOnlyClass(t *testing.T) {
	e := newTestExtractor()
	first, err := e.Extract(context.Background(), "fly from Lahore to Karachi on 10th December with my wife")
	require.NoError(t, err)
	require.Equal(t, code("LHE"), first.Record.Source)
	require.Equal(t, code("KHI"), first.Record.Destination)
	require.Equal(t, Economy, first.Record.FlightClass)

	prior := first.Record
	next, err := e.ExtractTurn(context.Background(), "actually make it business now", ConversationContext{Prior: &prior, Modification: true})
	require.NoError(t, err)

	want := first.Record.Clone()
	want.FlightClass = Business
	assert.Equal(t, want, next.Record)
	assert.Equal(t, FieldSet(0).Add(FieldFlightClass), next.Detected)
	assert.Equal(t, "dictionary", next.Strategies[FieldFlightClass])
	assert.Equal(t, "carried_over", next.Strategies[FieldSource])
	assert.Equal(t, PassengerSourceCarried, next.PassengerSource)
	assert.Equal(t, FieldSet(0).Add(FieldFlightClass), next.Changed)

	// The prior is not modified.
	assert.Equal(t, Economy, prior.FlightClass)
}

func TestExtractTurnFillsOpenDestination(t *testing.T) {
	e := newTestExtractor()
	prior := NewSlotRecord()
	prior.Source = code("LHE")

	r, err := e.ExtractTurn(context.Background(), "Karachi", ConversationContext{Prior: &prior})
	require.NoError(t, err)
	assert.Equal(t, code("LHE"), r.Record.Source)
	assert.Equal(t, code("KHI"), r.Record.Destination)
	assert.Equal(t, []MissingField{MissingDepartureDate}, r.Missing)
}

func TestExtractTurnDestinationCollidingWithCarriedSource(t *testing.T) {
	e := newTestExtractor()
	prior := NewSlotRecord()
	prior.Source = code("LHE")
	prior.Destination = code("KHI")

	r, err := e.ExtractTurn(context.Background(), "change the destination to Lahore", ConversationContext{Prior: &prior, Modification: true})
	require.NoError(t, err)
	assert.Nil(t, r.Record.Source)
	assert.Equal(t, code("LHE"), r.Record.Destination)
	assert.Contains(t, r.Missing, MissingDepartureCity)
}

func TestExtractTurnSwitchToReturnTrip(t *testing.T) {
	e := newTestExtractor()
	prior := NewSlotRecord()
	prior.Source = code("LHE")
	prior.Destination = code("KHI")
	prior.DepartureDate = date(2024, time.December, 10)

	r, err := e.ExtractTurn(context.Background(), "make it a round trip, returning on 15th december", ConversationContext{Prior: &prior})
	require.NoError(t, err)
	assert.Equal(t, Return, r.Record.FlightType)
	assert.Equal(t, date(2024, time.December, 10), r.Record.DepartureDate)
	assert.Equal(t, date(2024, time.December, 15), r.Record.ReturnDate)
	assert.True(t, r.Complete())
}

func TestExtractTurnZeroPriorReadsWholeUtterance(t *testing.T) {
	e := newTestExtractor()

	r, err := e.ExtractTurn(context.Background(), "from Lahore to Karachi tomorrow business class", ConversationContext{Prior: &SlotRecord{}})
	require.NoError(t, err)
	assert.Equal(t, code("LHE"), r.Record.Source)
	assert.Equal(t, code("KHI"), r.Record.Destination)
	assert.Equal(t, Business, r.Record.FlightClass)
	assert.Equal(t, date(2024, time.November, 21), r.Record.DepartureDate)
	assert.NotEqual(t, "carried_over", r.Strategies[FieldSource])
	assert.Equal(t, FieldSet(0), r.Changed)
}

func TestExtractTurnEmptyUtteranceCarriesEverything(t *testing.T) {
	e := newTestExtractor()
	prior := NewSlotRecord()
	prior.Source = code("PEW")
	prior.FlightClass = First

	r, err := e.ExtractTurn(context.Background(), "", ConversationContext{Prior: &prior})
	require.NoError(t, err)
	assert.Equal(t, prior, r.Record)
	assert.Equal(t, FieldSet(0), r.Detected)
}

func TestExtractCancelledContext(t *testing.T) {
	e := newTestExtractor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, "fly to karachi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestExtractUsesLLMForPassengers(t *testing.T) {
	client := llm.ClientFunc(func(context.Context, llm.Request) (llm.Response, error) {
		return llm.Response{Text: `{"adults": 3, "children": 0, "infants": 1}`}, nil
	})
	e := newTestExtractor(WithLLM(client, "test-model", time.Second))

	r, err := e.Extract(context.Background(), "three of us and a baby to Quetta")
	require.NoError(t, err)
	assert.Equal(t, Passengers{Adults: 3, Infants: 1}, r.Record.Passengers)
	assert.Equal(t, PassengerSourceLLM, r.PassengerSource)
	assert.Equal(t, code("UET"), r.Record.Destination)
}

type recordingObserver struct {
	mu         sync.Mutex
	strategies map[string]string
	sources    []string
	durations  int
}

func (o *recordingObserver) ObserveStrategy(field, strategy string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.strategies == nil {
		o.strategies = map[string]string{}
	}
	o.strategies[field] = strategy
}

func (o *recordingObserver) ObservePassengerSource(source string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sources = append(o.sources, source)
}

func (o *recordingObserver) ObserveDuration(time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.durations++
}

func TestExtractReportsToObserver(t *testing.T) {
	obs := &recordingObserver{}
	e := newTestExtractor(WithObserver(obs))

	_, err := e.Extract(context.Background(), "from Lahore to Karachi in business class")
	require.NoError(t, err)

	assert.Equal(t, "direct", obs.strategies["source"])
	assert.Equal(t, "direct", obs.strategies["destination"])
	assert.Equal(t, "dictionary", obs.strategies["flight_class"])
	assert.Equal(t, []string{PassengerSourceFallback}, obs.sources)
	assert.Equal(t, 1, obs.durations)
}
