// Package webchat exposes conversation sessions over a websocket so browser
// clients get replies pushed as soon as each turn is extracted.
package webchat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/websocket"

	"github.com/wolfman30/flight-intent/internal/conversation"
	"github.com/wolfman30/flight-intent/internal/extraction"
	"github.com/wolfman30/flight-intent/pkg/logging"
)

const turnTimeout = 30 * time.Second

// InboundMessage is what the client sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "restart", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what we send to the client.
type OutboundMessage struct {
	Type         string                    `json:"type"` // "session", "history", "typing", "message", "pong", "error"
	SessionID    string                    `json:"session_id,omitempty"`
	Text         string                    `json:"text,omitempty"`
	ResponseType conversation.ResponseType `json:"response_type,omitempty"`
	Record       *extraction.SlotRecord    `json:"record,omitempty"`
	Missing      []extraction.MissingField `json:"missing,omitempty"`
	Changes      []string                  `json:"changes,omitempty"`
	Messages     []HistoryMessage          `json:"messages,omitempty"`
	Timestamp    string                    `json:"timestamp,omitempty"`
}

// HistoryMessage is a simplified transcript line.
type HistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Handler manages chat connections.
type Handler struct {
	service conversation.Service
	logger  *logging.Logger
}

func NewHandler(service conversation.Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// HandleWebSocket upgrades to WebSocket. ?session=<id> resumes an existing
// session; otherwise a new one is started.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	// The server's read/write timeouts outlive the hijack.
	_ = conn.SetDeadline(time.Time{})
	ctx := r.Context()
	sessionID, ok := h.attach(ctx, conn, r.URL.Query().Get("session"))
	if !ok {
		return
	}
	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		switch msg.Type {
		case "ping":
			h.send(conn, OutboundMessage{Type: "pong"})
		case "restart":
			reply, err := h.service.Restart(ctx, sessionID)
			h.sendReply(conn, reply, err)
		case "message":
			if strings.TrimSpace(msg.Text) == "" {
				continue
			}
			h.send(conn, OutboundMessage{Type: "typing"})
			turnCtx, cancel := context.WithTimeout(ctx, turnTimeout)
			reply, err := h.service.Turn(turnCtx, sessionID, msg.Text)
			cancel()
			h.sendReply(conn, reply, err)
		}
	}
}

// attach resumes sessionID when it exists and starts a new session
// otherwise. It reports false if the connection should be dropped.
func (h *Handler) attach(ctx context.Context, conn *websocket.Conn, sessionID string) (string, bool) {
	if sessionID != "" {
		session, err := h.service.Get(ctx, sessionID)
		switch {
		case err == nil:
			h.send(conn, OutboundMessage{Type: "session", SessionID: session.ID})
			h.send(conn, OutboundMessage{Type: "history", Messages: history(session.History)})
			return session.ID, true
		case !errors.Is(err, conversation.ErrSessionNotFound):
			h.logger.Error("webchat: failed to load session", "session_id", sessionID, "error", err)
			h.send(conn, OutboundMessage{Type: "error", Text: "Sorry, something went wrong. Please try again."})
			return "", false
		}
	}

	reply, err := h.service.Start(ctx)
	if err != nil {
		h.logger.Error("webchat: failed to start session", "error", err)
		h.send(conn, OutboundMessage{Type: "error", Text: "Sorry, something went wrong. Please try again."})
		return "", false
	}
	h.send(conn, OutboundMessage{Type: "session", SessionID: reply.SessionID})
	h.sendReply(conn, reply, nil)
	return reply.SessionID, true
}

func (h *Handler) sendReply(conn *websocket.Conn, reply *conversation.Reply, err error) {
	if err != nil {
		h.logger.Error("webchat: turn failed", "error", err)
		h.send(conn, OutboundMessage{Type: "error", Text: "Sorry, something went wrong. Please try again."})
		return
	}
	h.send(conn, OutboundMessage{
		Type:         "message",
		SessionID:    reply.SessionID,
		Text:         reply.Message,
		ResponseType: reply.Type,
		Record:       reply.Record,
		Missing:      reply.Missing,
		Changes:      reply.Changes,
		Timestamp:    reply.Timestamp.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) send(conn *websocket.Conn, msg OutboundMessage) {
	if err := websocket.JSON.Send(conn, msg); err != nil {
		h.logger.Debug("webchat: send failed", "type", msg.Type, "error", err)
	}
}

func history(msgs []conversation.Message) []HistoryMessage {
	out := make([]HistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, HistoryMessage{
			Role:      string(m.Role),
			Text:      m.Text,
			Timestamp: m.At.UTC().Format(time.RFC3339),
		})
	}
	return out
}
