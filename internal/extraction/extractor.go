// Package extraction turns free-form travel requests into booking-intent
// slot records. Each slot has its own cascade of strategies; the Extractor
// runs them in a fixed order and merges follow-up turns into prior state.
package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/wolfman30/flight-intent/internal/llm"
	"github.com/wolfman30/flight-intent/internal/nlp"
	"github.com/wolfman30/flight-intent/pkg/logging"
)

var extractionTracer = otel.Tracer("flightintent.extraction")

const (
	// maxYearsAhead bounds how far in the future a parsed date may fall.
	maxYearsAhead = 2

	defaultLLMTimeout = 5 * time.Second

	strategyDefault = "default"
	strategyCarried = "carried_over"
)

// EntityRecognizer tags named entities with byte offsets.
type EntityRecognizer interface {
	Entities(text string) []nlp.Entity
}

// FuzzyMatcher returns the closest choice to query and a 0-100 score.
type FuzzyMatcher interface {
	ExtractOne(query string, choices []string) (string, int)
}

// CalendarParser resolves a free-form date expression relative to now.
type CalendarParser interface {
	Parse(text string, now time.Time) (time.Time, bool)
}

// Observer receives per-turn extraction telemetry.
type Observer interface {
	ObserveStrategy(field, strategy string)
	ObservePassengerSource(source string)
	ObserveDuration(d time.Duration)
}

// ConversationContext is the state a follow-up turn is interpreted against.
type ConversationContext struct {
	Prior *SlotRecord
	// Modification marks a turn meant to change slots that are already
	// filled. Such turns report which slots actually changed.
	Modification bool
}

// Result is the outcome of one extraction turn.
type Result struct {
	Record          SlotRecord       `json:"record"`
	Detected        FieldSet         `json:"detected"`
	Strategies      map[Field]string `json:"strategies"`
	Missing         []MissingField   `json:"missing"`
	PassengerSource string           `json:"passenger_source"`
	// Changed is only filled on modification turns.
	Changed         FieldSet         `json:"changed"`
}

// Complete reports whether nothing required is missing.
func (r Result) Complete() bool {
	return len(r.Missing) == 0
}

// Extractor runs the slot cascades. It is safe for concurrent use once built.
type Extractor struct {
	ner        EntityRecognizer
	fuzzy      FuzzyMatcher
	calendar   CalendarParser
	llm        llm.Client
	llmModel   string
	llmTimeout time.Duration
	now        func() time.Time
	logger     *logging.Logger
	observer   Observer

	locations   Cascade[[]cityHit]
	tripType    Cascade[FlightType]
	cabin       Cascade[CabinClass]
	oneWayDates Cascade[datePair]
	returnDates Cascade[datePair]
}

type Option func(*Extractor)

// WithEntityRecognizer enables the entity-driven location stage.
func WithEntityRecognizer(r EntityRecognizer) Option {
	return func(e *Extractor) {
		e.ner = r
	}
}

func WithFuzzyMatcher(m FuzzyMatcher) Option {
	return func(e *Extractor) {
		if m != nil {
			e.fuzzy = m
		}
	}
}

// WithCalendarParser replaces the last-resort date parser. Passing nil
// disables that stage.
func WithCalendarParser(p CalendarParser) Option {
	return func(e *Extractor) {
		e.calendar = p
	}
}

// WithLLM sets the client used for passenger extraction. A non-positive
// timeout keeps the default.
func WithLLM(client llm.Client, model string, timeout time.Duration) Option {
	return func(e *Extractor) {
		e.llm = client
		e.llmModel = model
		if timeout > 0 {
			e.llmTimeout = timeout
		}
	}
}

// WithClock fixes "today" for relative dates.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

func WithLogger(logger *logging.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithObserver(o Observer) Option {
	return func(e *Extractor) {
		e.observer = o
	}
}

// New builds an Extractor. Without options it uses Levenshtein fuzzy
// matching, the natural-language calendar parser, no entity recognizer and
// the deterministic passenger rules only.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		fuzzy:      nlp.Levenshtein{},
		calendar:   nlp.NewWhenParser(),
		llmTimeout: defaultLLMTimeout,
		now:        time.Now,
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.locations = e.locationCascade()
	e.tripType = tripTypeCascade()
	e.cabin = e.cabinCascade()
	e.oneWayDates = e.oneWayDateCascade()
	e.returnDates = e.returnDateCascade()
	return e
}

// Extract interprets a single utterance with no prior state.
func (e *Extractor) Extract(ctx context.Context, utterance string) (Result, error) {
	return e.ExtractTurn(ctx, utterance, ConversationContext{})
}

// ExtractTurn interprets utterance against cc. With a prior record the
// utterance is restated after the prior context, only the domains the new
// text talks about are re-extracted, and everything else is carried over.
// The only error returned is the caller's context error.
func (e *Extractor) ExtractTurn(ctx context.Context, utterance string, cc ConversationContext) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("extraction: turn cancelled: %w", err)
	}
	started := time.Now()
	ctx, span := extractionTracer.Start(ctx, "extraction.turn")
	defer span.End()

	followUp := cc.Prior != nil
	text := utterance
	if followUp {
		text = ContextualQuery(*cc.Prior, utterance)
	}
	seg := Segment(text, followUp)

	blank := strings.TrimSpace(utterance) == ""

	// textFor returns the text a domain should be extracted from, or false
	// when the prior value is carried over. Without a split the whole text is
	// the span for every domain.
	textFor := func(d Domain) (string, bool) {
		if followUp && blank {
			return "", false
		}
		if !seg.Split {
			return seg.Full, true
		}
		if seg.UsesSpan(d) {
			return seg.Span, true
		}
		return "", false
	}

	res := Result{Strategies: make(map[Field]string, len(allFields))}
	var fresh SlotRecord

	var passengers PassengerResult
	passengerText, passengersFresh := textFor(DomainPassengers)
	g, gctx := errgroup.WithContext(ctx)
	if passengersFresh {
		g.Go(func() error {
			var err error
			passengers, err = e.ExtractPassengers(gctx, passengerText)
			return err
		})
	}

	if t, ok := textFor(DomainLocation); ok {
		src, dst, stage := e.ExtractLocations(t)
		if followUp {
			src, dst = fillOpenSide(*cc.Prior, t, src, dst)
		}
		if src != nil {
			fresh.Source = src
			res.Detected = res.Detected.Add(FieldSource)
			res.Strategies[FieldSource] = stage
		}
		if dst != nil {
			fresh.Destination = dst
			res.Detected = res.Detected.Add(FieldDestination)
			res.Strategies[FieldDestination] = stage
		}
	}

	if t, ok := textFor(DomainTripType); ok {
		ft, stage := e.ClassifyTripType(t)
		if stage != strategyDefault {
			fresh.FlightType = ft
			res.Detected = res.Detected.Add(FieldFlightType)
			res.Strategies[FieldFlightType] = stage
		} else if !followUp {
			res.Strategies[FieldFlightType] = stage
		}
	}

	if t, ok := textFor(DomainCabinClass); ok {
		class, stage := e.ExtractCabinClass(t)
		if stage != strategyDefault {
			fresh.FlightClass = class
			res.Detected = res.Detected.Add(FieldFlightClass)
			res.Strategies[FieldFlightClass] = stage
		} else if !followUp {
			res.Strategies[FieldFlightClass] = stage
		}
	}

	flightType := OneWay
	if followUp {
		flightType = cc.Prior.FlightType
	}
	if res.Detected.Has(FieldFlightType) {
		flightType = fresh.FlightType
	}

	if t, ok := textFor(DomainDates); ok {
		dep, ret, stage := e.ExtractDates(t, flightType)
		if dep != nil {
			fresh.DepartureDate = dep
			res.Detected = res.Detected.Add(FieldDepartureDate)
			res.Strategies[FieldDepartureDate] = stage
		}
		if ret != nil {
			fresh.ReturnDate = ret
			res.Detected = res.Detected.Add(FieldReturnDate)
			res.Strategies[FieldReturnDate] = stage
		}
	}

	if t, ok := textFor(DomainAirline); ok {
		if airline := e.ExtractAirline(t); airline != nil {
			fresh.Airline = airline
			res.Detected = res.Detected.Add(FieldAirline)
			res.Strategies[FieldAirline] = "variant"
		}
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return Result{}, fmt.Errorf("extraction: turn cancelled: %w", err)
	}
	if passengersFresh {
		fresh.Passengers = passengers.Passengers
		res.PassengerSource = passengers.Source
		if passengers.Detected {
			res.Detected = res.Detected.Add(FieldPassengers)
		}
		if passengers.Detected || !followUp {
			res.Strategies[FieldPassengers] = passengers.Source
		}
	} else {
		res.PassengerSource = PassengerSourceCarried
	}

	prior := NewSlotRecord()
	if followUp {
		prior = cc.Prior.Clone()
		for _, f := range allFields {
			if _, ok := res.Strategies[f]; !ok {
				res.Strategies[f] = strategyCarried
			}
		}
	}
	res.Record = Merge(prior, fresh, res.Detected)
	if !followUp {
		res.Record.Passengers = fresh.Passengers
	}
	resolveSameCity(&res.Record, res.Detected)
	res.Record.Normalize()
	res.Missing = MissingFields(res.Record)
	if followUp && cc.Modification {
		res.Changed = ChangedFields(*cc.Prior, res.Record)
	}

	for f, s := range res.Strategies {
		e.observe(func(o Observer) { o.ObserveStrategy(string(f), s) })
	}
	e.observe(func(o Observer) {
		o.ObservePassengerSource(res.PassengerSource)
		o.ObserveDuration(time.Since(started))
	})

	span.SetAttributes(
		attribute.Bool("extraction.follow_up", followUp),
		attribute.Bool("extraction.split", seg.Split),
		attribute.Int("extraction.missing", len(res.Missing)),
		attribute.String("extraction.passenger_source", res.PassengerSource),
	)
	e.logger.Debug("extraction turn complete",
		"follow_up", followUp,
		"split", seg.Split,
		"detected", res.Detected.Fields(),
		"missing", res.Missing,
		"passenger_source", res.PassengerSource,
	)
	return res, nil
}

func (e *Extractor) observe(fn func(Observer)) {
	if e.observer != nil {
		fn(e.observer)
	}
}
