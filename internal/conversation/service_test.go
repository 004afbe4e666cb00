package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/flight-intent/internal/archive"
	"github.com/wolfman30/flight-intent/internal/extraction"
	"github.com/wolfman30/flight-intent/internal/gazetteer"
	"github.com/wolfman30/flight-intent/internal/observability/metrics"
	"github.com/wolfman30/flight-intent/pkg/logging"
)

var testNow = time.Date(2024, time.November, 20, 9, 30, 0, 0, time.UTC)

func newTestExtractor() *extraction.Extractor {
	return extraction.New(
		extraction.WithClock(func() time.Time { return testNow }),
		extraction.WithCalendarParser(nil),
		extraction.WithLogger(logging.Discard()),
	)
}

type recordingArchiver struct {
	mu      sync.Mutex
	intents []archive.Intent
	err     error
}

func (a *recordingArchiver) Archive(_ context.Context, in archive.Intent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.intents = append(a.intents, in)
	return a.err
}

func newTestService(t *testing.T, opts ...ServiceOption) (*IntentService, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore(0)
	var n int
	base := []ServiceOption{
		WithServiceClock(func() time.Time { return testNow }),
		WithServiceLogger(logging.Discard()),
		WithMetrics(metrics.NewConversationMetrics(prometheus.NewRegistry())),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("sess-%d", n)
		}),
	}
	return NewService(newTestExtractor(), store, append(base, opts...)...), store
}

func TestServiceConversationFlow(t *testing.T) {
	arch := &recordingArchiver{}
	svc, store := newTestService(t, WithArchiver(arch))
	ctx := context.Background()

	start, err := svc.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", start.SessionID)
	assert.Equal(t, ResponseWelcome, start.Type)

	reply, err := svc.Turn(ctx, "sess-1", "fly from Lahore to Karachi on 10th December")
	require.NoError(t, err)
	assert.Equal(t, ResponseConfirmation, reply.Type)
	assert.Empty(t, reply.Missing)
	assert.Contains(t, reply.Message, "one-way from Lahore (LHE) to Karachi (KHI), on 2024-12-10")

	reply, err = svc.Turn(ctx, "sess-1", "actually make it business now")
	require.NoError(t, err)
	assert.Equal(t, ResponseModification, reply.Type)
	assert.Equal(t, []string{"flight_class: economy → business"}, reply.Changes)
	assert.Equal(t, extraction.Business, reply.Record.FlightClass)
	assert.Equal(t, gazetteer.Code("LHE"), *reply.Record.Source)

	reply, err = svc.Turn(ctx, "sess-1", "yes, go ahead")
	require.NoError(t, err)
	assert.Equal(t, ResponseConfirmed, reply.Type)
	require.Len(t, arch.intents, 1)
	assert.Equal(t, "sess-1", arch.intents[0].SessionID)
	assert.Equal(t, extraction.Business, arch.intents[0].Record.FlightClass)
	assert.Equal(t, 3, arch.intents[0].Turns)

	session, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, session.Confirmed)
	assert.False(t, session.AwaitingConfirmation)
	assert.Len(t, session.History, 7)
}

func TestServiceResponseTypes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want ResponseType
	}{
		{"nothing known", "hello there", ResponseInitialGuidance},
		{"destination only", "I want to go to Multan", ResponseGatheringInfo},
		{"return trip missing return date", "round trip from Lahore to Karachi on 10th December", ResponseGatheringInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			start, err := svc.Start(context.Background())
			require.NoError(t, err)
			reply, err := svc.Turn(context.Background(), start.SessionID, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, reply.Type)
		})
	}
}

func TestServiceYesWithoutCompleteRecordIsNotConfirmation(t *testing.T) {
	arch := &recordingArchiver{}
	svc, _ := newTestService(t, WithArchiver(arch))
	start, err := svc.Start(context.Background())
	require.NoError(t, err)

	reply, err := svc.Turn(context.Background(), start.SessionID, "yes")
	require.NoError(t, err)
	assert.Equal(t, ResponseInitialGuidance, reply.Type)
	assert.Empty(t, arch.intents)
}

func TestServiceArchiveFailureStillConfirms(t *testing.T) {
	arch := &recordingArchiver{err: errors.New("db down")}
	svc, _ := newTestService(t, WithArchiver(arch))
	ctx := context.Background()
	start, err := svc.Start(ctx)
	require.NoError(t, err)

	_, err = svc.Turn(ctx, start.SessionID, "Lahore to Karachi on 10th December")
	require.NoError(t, err)
	reply, err := svc.Turn(ctx, start.SessionID, "ok")
	require.NoError(t, err)
	assert.Equal(t, ResponseConfirmed, reply.Type)
	assert.Len(t, arch.intents, 1)
}

func TestServiceRestart(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	start, err := svc.Start(ctx)
	require.NoError(t, err)
	_, err = svc.Turn(ctx, start.SessionID, "fly from Lahore to Karachi")
	require.NoError(t, err)

	reply, err := svc.Turn(ctx, start.SessionID, "start over")
	require.NoError(t, err)
	assert.Equal(t, ResponseWelcome, reply.Type)

	session, err := store.Load(ctx, start.SessionID)
	require.NoError(t, err)
	assert.Nil(t, session.Record)
	assert.Zero(t, session.Turns)

	_, err = svc.Turn(ctx, start.SessionID, "from Quetta")
	require.NoError(t, err)
	reply, err = svc.Restart(ctx, start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, start.SessionID, reply.SessionID)
}

func TestServiceUnknownSession(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Turn(context.Background(), "nope", "hello")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.Restart(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestServiceSerialisesTurnsPerSession(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	start, err := svc.Start(ctx)
	require.NoError(t, err)

	const turns = 12
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Turn(ctx, start.SessionID, "to Karachi")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	session, err := store.Load(ctx, start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, turns, session.Turns)
}

func TestServiceDelete(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	start, err := svc.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, start.SessionID))
	_, err = store.Load(ctx, start.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
