package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/flight-intent/internal/config"
	"github.com/wolfman30/flight-intent/pkg/logging"
)

func TestSetupMetricsExposesMetrics(t *testing.T) {
	m := setupMetrics()
	if m.handler == nil || m.extraction == nil || m.conversation == nil {
		t.Fatalf("expected metrics to be wired")
	}

	m.conversation.ObserveTurn("confirmation")
	m.extraction.ObservePassengerSource("rules")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	m.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"flightintent_conversation_turns_total",
		"flightintent_extraction_passenger_source_total",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %s to be exported", want)
		}
	}
}

func TestReadinessChecks(t *testing.T) {
	if checks := readinessChecks(nil, nil); len(checks) != 0 {
		t.Fatalf("expected no checks without backing services, got %d", len(checks))
	}

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	checks := readinessChecks(client, nil)
	check, ok := checks["redis"]
	if !ok {
		t.Fatalf("expected redis check")
	}
	if err := check(context.Background()); err != nil {
		t.Fatalf("expected redis ready: %v", err)
	}
	mr.Close()
	if err := check(context.Background()); err == nil {
		t.Fatalf("expected redis check to fail once stopped")
	}
}

func TestBuildArchiverDisabled(t *testing.T) {
	archiver, err := buildArchiver(context.Background(), &appconfig.Config{}, nil, logging.New("error"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if archiver != nil {
		t.Fatalf("expected no archiver, got %T", archiver)
	}
}
