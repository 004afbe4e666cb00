package extraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/flight-intent/internal/llm"
)

func TestFallbackPassengers(t *testing.T) {
	tests := []struct {
		input string
		want  Passengers
	}{
		{"", Passengers{Adults: 1}},
		{"fly to karachi", Passengers{Adults: 1}},
		{"2 kids and 1 infant will travel", Passengers{Adults: 1, Children: 2, Infants: 1}},
		{"I want to travel with my wife and our 3 children", Passengers{Adults: 2, Children: 3}},
		{"2 adults and 1 baby", Passengers{Adults: 2, Infants: 1}},
		{"two adults and three kids", Passengers{Adults: 2, Children: 3}},
		{"family of 4", Passengers{Adults: 2, Children: 2}},
		{"family of 5 with 3 adults", Passengers{Adults: 3, Children: 2}},
		{"me and my parents", Passengers{Adults: 3}},
		{"with my mother", Passengers{Adults: 2}},
		{"with 2 friends", Passengers{Adults: 3}},
		{"me and my friend want to go to Lahore", Passengers{Adults: 2}},
		{"two couples", Passengers{Adults: 4}},
		{"2 20 year old children", Passengers{Adults: 2}},
		{"my 5 year old and 18 month old", Passengers{Adults: 1, Children: 1, Infants: 1}},
		{"a baby and my son", Passengers{Adults: 1, Children: 1, Infants: 1}},
		{"3 people including 1 child", Passengers{Adults: 2, Children: 1}},
		{"a few people", Passengers{Adults: 3}},
		{"several of us", Passengers{Adults: 4}},
		{"a couple of people", Passengers{Adults: 2}},
		{"group of 6", Passengers{Adults: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, FallbackPassengers(tt.input))
		})
	}
}

func TestExtractPassengersWithoutLLM(t *testing.T) {
	e := newTestExtractor()
	res, err := e.ExtractPassengers(context.Background(), "with my wife")
	require.NoError(t, err)
	assert.Equal(t, Passengers{Adults: 2}, res.Passengers)
	assert.Equal(t, PassengerSourceFallback, res.Source)
	assert.True(t, res.Detected)
	assert.NoError(t, res.LLMErr)
}

func TestExtractPassengersLLM(t *testing.T) {
	var got llm.Request
	client := llm.ClientFunc(func(_ context.Context, req llm.Request) (llm.Response, error) {
		got = req
		return llm.Response{Text: "```json\n{'adults': 2, 'children': 1, infants: 0,}\n```"}, nil
	})
	e := newTestExtractor(WithLLM(client, "llama-test", time.Second))

	res, err := e.ExtractPassengers(context.Background(), "me, my wife and our son")
	require.NoError(t, err)
	assert.Equal(t, Passengers{Adults: 2, Children: 1}, res.Passengers)
	assert.Equal(t, PassengerSourceLLM, res.Source)

	assert.Equal(t, "llama-test", got.Model)
	assert.Equal(t, int32(150), got.MaxTokens)
	assert.InDelta(t, 0.1, got.Temperature, 1e-6)
	assert.InDelta(t, 0.9, got.TopP, 1e-6)
	require.Len(t, got.Messages, 1)
	assert.Contains(t, got.Messages[0].Content, "me, my wife and our son")
}

func TestExtractPassengersLLMClampsAndValidates(t *testing.T) {
	client := llm.ClientFunc(func(context.Context, llm.Request) (llm.Response, error) {
		return llm.Response{Text: `{"adults": -1, "children": 2, "infants": 0}`}, nil
	})
	e := newTestExtractor(WithLLM(client, "m", time.Second))

	res, err := e.ExtractPassengers(context.Background(), "2 kids")
	require.NoError(t, err)
	assert.Equal(t, Passengers{Adults: 1, Children: 2}, res.Passengers)
}

func TestExtractPassengersFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		client  llm.ClientFunc
		timeout time.Duration
		check   func(t *testing.T, err error)
	}{
		{
			name: "transport error",
			client: func(context.Context, llm.Request) (llm.Response, error) {
				return llm.Response{}, errors.New("connection reset")
			},
			timeout: time.Second,
			check:   func(t *testing.T, err error) { assert.ErrorContains(t, err, "connection reset") },
		},
		{
			name: "malformed reply",
			client: func(context.Context, llm.Request) (llm.Response, error) {
				return llm.Response{Text: "I think there are two adults"}, nil
			},
			timeout: time.Second,
			check:   func(t *testing.T, err error) { assert.ErrorIs(t, err, llm.ErrMalformedResponse) },
		},
		{
			name: "timeout",
			client: func(ctx context.Context, _ llm.Request) (llm.Response, error) {
				<-ctx.Done()
				return llm.Response{}, ctx.Err()
			},
			timeout: 20 * time.Millisecond,
			check:   func(t *testing.T, err error) { assert.ErrorIs(t, err, context.DeadlineExceeded) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestExtractor(WithLLM(tt.client, "m", tt.timeout))
			res, err := e.ExtractPassengers(context.Background(), "2 adults and 1 child")
			require.NoError(t, err)
			assert.Equal(t, Passengers{Adults: 2, Children: 1}, res.Passengers)
			assert.Equal(t, PassengerSourceFallback, res.Source)
			tt.check(t, res.LLMErr)
		})
	}
}

func TestExtractPassengersCallerCancelled(t *testing.T) {
	client := llm.ClientFunc(func(ctx context.Context, _ llm.Request) (llm.Response, error) {
		<-ctx.Done()
		return llm.Response{}, ctx.Err()
	})
	e := newTestExtractor(WithLLM(client, "m", time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.ExtractPassengers(ctx, "2 adults")
	assert.ErrorIs(t, err, context.Canceled)
}
