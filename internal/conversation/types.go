// Package conversation drives multi-turn booking-intent sessions on top of
// the extraction engine.
package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/wolfman30/flight-intent/internal/extraction"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("conversation: session not found")

// Service describes how the conversation engine should behave.
type Service interface {
	Start(ctx context.Context) (*Reply, error)
	Turn(ctx context.Context, sessionID, text string) (*Reply, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	Restart(ctx context.Context, sessionID string) (*Reply, error)
	Delete(ctx context.Context, sessionID string) error
}

// Role identifies who sent a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single line of the session transcript.
type Message struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Session is the persisted state of one traveller conversation. Record is
// nil until the first turn has been extracted.
type Session struct {
	ID                   string                 `json:"id"`
	Record               *extraction.SlotRecord `json:"record"`
	History              []Message              `json:"history"`
	AwaitingConfirmation bool                   `json:"awaiting_confirmation"`
	Confirmed            bool                   `json:"confirmed"`
	Turns                int                    `json:"turns"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.Record != nil {
		rec := s.Record.Clone()
		out.Record = &rec
	}
	out.History = append([]Message(nil), s.History...)
	return &out
}

// ResponseType classifies an assistant reply.
type ResponseType string

const (
	ResponseWelcome         ResponseType = "welcome"
	ResponseInitialGuidance ResponseType = "initial_guidance"
	ResponseGatheringInfo   ResponseType = "gathering_info"
	ResponseConfirmation    ResponseType = "confirmation"
	ResponseModification    ResponseType = "modification"
	ResponseConfirmed       ResponseType = "confirmed"
)

// Reply is what the service returns for each turn.
type Reply struct {
	SessionID string                    `json:"session_id"`
	Type      ResponseType              `json:"type"`
	Message   string                    `json:"message"`
	Record    *extraction.SlotRecord    `json:"record,omitempty"`
	Missing   []extraction.MissingField `json:"missing"`
	Changes   []string                  `json:"changes,omitempty"`
	Result    *extraction.Result        `json:"result,omitempty"`
	Timestamp time.Time                 `json:"timestamp"`
}
