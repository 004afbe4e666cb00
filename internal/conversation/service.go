package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/flight-intent/internal/archive"
	"github.com/wolfman30/flight-intent/internal/extraction"
	"github.com/wolfman30/flight-intent/internal/observability/metrics"
	"github.com/wolfman30/flight-intent/pkg/logging"
)

var serviceTracer = otel.Tracer("flightintent.conversation")

// maxHistory bounds the transcript kept with each session.
const maxHistory = 40

// Extractor is the slice of the extraction engine the service needs.
type Extractor interface {
	ExtractTurn(ctx context.Context, utterance string, cc extraction.ConversationContext) (extraction.Result, error)
}

// IntentService is the Service implementation backed by the extraction
// engine and a StateStore.
type IntentService struct {
	extractor Extractor
	store     StateStore
	archiver  archive.Archiver
	metrics   *metrics.ConversationMetrics
	logger    *logging.Logger
	now       func() time.Time
	newID     func() string

	// TODO: evict entries once their session's TTL has lapsed.
	locks sync.Map // session id -> *sync.Mutex
}

type ServiceOption func(*IntentService)

// WithArchiver stores every intent the traveller confirms.
func WithArchiver(a archive.Archiver) ServiceOption {
	return func(s *IntentService) {
		s.archiver = a
	}
}

func WithMetrics(m *metrics.ConversationMetrics) ServiceOption {
	return func(s *IntentService) {
		s.metrics = m
	}
}

func WithServiceLogger(logger *logging.Logger) ServiceOption {
	return func(s *IntentService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *IntentService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how new session ids are minted.
func WithIDGenerator(gen func() string) ServiceOption {
	return func(s *IntentService) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func NewService(extractor Extractor, store StateStore, opts ...ServiceOption) *IntentService {
	if extractor == nil {
		panic("conversation: extractor cannot be nil")
	}
	if store == nil {
		panic("conversation: state store cannot be nil")
	}
	s := &IntentService{
		extractor: extractor,
		store:     store,
		logger:    logging.Default(),
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Service = (*IntentService)(nil)

func (s *IntentService) lockFor(id string) *sync.Mutex {
	lockAny, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return lockAny.(*sync.Mutex)
}

// Start opens a new session and greets the traveller.
func (s *IntentService) Start(ctx context.Context) (*Reply, error) {
	now := s.now()
	session := &Session{ID: s.newID(), CreatedAt: now, UpdatedAt: now}
	session.History = append(session.History, Message{Role: RoleAssistant, Text: welcomeMessage, At: now})
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Info("session started", "session_id", session.ID)
	s.metrics.ObserveTurn(string(ResponseWelcome))
	return &Reply{
		SessionID: session.ID,
		Type:      ResponseWelcome,
		Message:   welcomeMessage,
		Missing:   []extraction.MissingField{},
		Timestamp: now,
	}, nil
}

func (s *IntentService) Get(ctx context.Context, id string) (*Session, error) {
	session, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Restart clears the slot record and transcript but keeps the session id.
func (s *IntentService) Restart(ctx context.Context, id string) (*Reply, error) {
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.restart(ctx, session)
}

func (s *IntentService) restart(ctx context.Context, session *Session) (*Reply, error) {
	now := s.now()
	fresh := &Session{
		ID:        session.ID,
		CreatedAt: session.CreatedAt,
		UpdatedAt: now,
		History:   []Message{{Role: RoleAssistant, Text: welcomeMessage, At: now}},
	}
	if err := s.save(ctx, fresh); err != nil {
		return nil, err
	}
	s.metrics.ObserveRestart()
	s.logger.Info("session restarted", "session_id", session.ID)
	return &Reply{
		SessionID: session.ID,
		Type:      ResponseWelcome,
		Message:   welcomeMessage,
		Missing:   []extraction.MissingField{},
		Timestamp: now,
	}, nil
}

func (s *IntentService) Delete(ctx context.Context, id string) error {
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		s.metrics.ObserveStoreError("delete")
		return err
	}
	return nil
}

// Turn processes one traveller message. Turns on the same session are
// serialised.
func (s *IntentService) Turn(ctx context.Context, id, text string) (*Reply, error) {
	ctx, span := serviceTracer.Start(ctx, "conversation.turn")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", id))

	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.store.Load(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			s.metrics.ObserveStoreError("load")
		}
		return nil, err
	}

	intent := DetectIntent(text, session.AwaitingConfirmation)
	span.SetAttributes(attribute.String("conversation.intent", string(intent)))
	if intent == IntentRestart {
		return s.restart(ctx, session)
	}

	now := s.now()
	session.History = append(session.History, Message{Role: RoleUser, Text: text, At: now})
	session.Turns++

	var reply *Reply
	if intent == IntentConfirm && session.Record != nil && len(extraction.MissingFields(*session.Record)) == 0 {
		reply, err = s.confirm(ctx, session)
	} else {
		reply, err = s.extract(ctx, session, text, intent)
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	reply.SessionID = session.ID
	reply.Timestamp = now

	session.History = append(session.History, Message{Role: RoleAssistant, Text: reply.Message, At: now})
	if len(session.History) > maxHistory {
		session.History = session.History[len(session.History)-maxHistory:]
	}
	session.UpdatedAt = now
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	s.metrics.ObserveTurn(string(reply.Type))
	s.logger.Debug("conversation turn",
		"session_id", session.ID,
		"intent", intent,
		"response_type", reply.Type,
		"missing", reply.Missing,
	)
	return reply, nil
}

func (s *IntentService) extract(ctx context.Context, session *Session, text string, intent Intent) (*Reply, error) {
	modification := intent == IntentModify || intent == IntentDecline
	res, err := s.extractor.ExtractTurn(ctx, text, extraction.ConversationContext{
		Prior:        session.Record,
		Modification: modification,
	})
	if err != nil {
		return nil, fmt.Errorf("conversation: extract turn: %w", err)
	}

	prior := session.Record
	record := res.Record
	session.Record = &record
	session.Confirmed = false
	complete := res.Complete()
	session.AwaitingConfirmation = complete

	reply := &Reply{Record: &record, Missing: res.Missing, Result: &res}
	switch {
	case modification && prior != nil:
		reply.Type = ResponseModification
		reply.Changes = ChangeSummary(*prior, record, res.Changed)
		reply.Message = modificationMessage(reply.Changes, record, res.Missing)
	case complete:
		reply.Type = ResponseConfirmation
		reply.Message = ConfirmationSummary(record)
	case len(res.Missing) <= 2:
		reply.Type = ResponseGatheringInfo
		reply.Message = guidance(res.Missing, false)
	default:
		reply.Type = ResponseInitialGuidance
		reply.Message = guidance(res.Missing, true)
	}
	return reply, nil
}

func modificationMessage(changes []string, record extraction.SlotRecord, missing []extraction.MissingField) string {
	if len(changes) == 0 {
		return noChangeMessage
	}
	msg := "Updated " + strings.Join(changes, "; ") + "."
	if len(missing) == 0 {
		return msg + " " + ConfirmationSummary(record)
	}
	return msg + " " + guidance(missing, false)
}

func (s *IntentService) confirm(ctx context.Context, session *Session) (*Reply, error) {
	record := session.Record.Clone()
	if s.archiver != nil {
		in := archive.NewIntent(session.ID, record, session.Turns, s.now())
		if err := s.archiver.Archive(ctx, in); err != nil {
			s.metrics.ObserveStoreError("archive")
			s.logger.Warn("failed to archive confirmed intent", "session_id", session.ID, "error", err)
		}
	}
	session.Confirmed = true
	session.AwaitingConfirmation = false
	s.logger.Info("intent confirmed", "session_id", session.ID, "turns", session.Turns)
	return &Reply{
		Type:    ResponseConfirmed,
		Message: "Great, searching for flights " + routeText(record) + " now.",
		Record:  &record,
		Missing: []extraction.MissingField{},
	}, nil
}

func routeText(r extraction.SlotRecord) string {
	return fmt.Sprintf("from %s to %s on %s", cityLabel(r.Source), cityLabel(r.Destination), r.DepartureDate)
}

func (s *IntentService) save(ctx context.Context, session *Session) error {
	if err := s.store.Save(ctx, session); err != nil {
		s.metrics.ObserveStoreError("save")
		return err
	}
	return nil
}
