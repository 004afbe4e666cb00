package webchat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/flight-intent/internal/conversation"
	"github.com/wolfman30/flight-intent/internal/extraction"
	"github.com/wolfman30/flight-intent/internal/gazetteer"
	"github.com/wolfman30/flight-intent/pkg/logging"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	now := time.Date(2024, time.November, 20, 9, 30, 0, 0, time.UTC)
	extractor := extraction.New(
		extraction.WithClock(func() time.Time { return now }),
		extraction.WithCalendarParser(nil),
		extraction.WithLogger(logging.Discard()),
	)
	svc := conversation.NewService(extractor, conversation.NewMemoryStore(0),
		conversation.WithServiceLogger(logging.Discard()),
		conversation.WithServiceClock(func() time.Time { return now }),
	)
	srv := httptest.NewServer(http.HandlerFunc(NewHandler(svc, logging.Discard()).HandleWebSocket))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/chat" + query
	conn, err := websocket.Dial(url, "", srv.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func receive(t *testing.T, conn *websocket.Conn) OutboundMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg OutboundMessage
	require.NoError(t, websocket.JSON.Receive(conn, &msg))
	return msg
}

func TestWebSocketConversation(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv, "")

	session := receive(t, conn)
	require.Equal(t, "session", session.Type)
	require.NotEmpty(t, session.SessionID)

	welcome := receive(t, conn)
	assert.Equal(t, conversation.ResponseWelcome, welcome.ResponseType)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "ping"}))
	assert.Equal(t, "pong", receive(t, conn).Type)

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "from Lahore to Karachi on 10th December"}))
	assert.Equal(t, "typing", receive(t, conn).Type)
	reply := receive(t, conn)
	assert.Equal(t, "message", reply.Type)
	assert.Equal(t, conversation.ResponseConfirmation, reply.ResponseType)
	require.NotNil(t, reply.Record)
	assert.Equal(t, gazetteer.Code("LHE"), *reply.Record.Source)

	// Reconnecting with the id resumes the same session.
	again := dial(t, srv, "?session="+session.SessionID)
	assert.Equal(t, session.SessionID, receive(t, again).SessionID)
	hist := receive(t, again)
	assert.Equal(t, "history", hist.Type)
	assert.Len(t, hist.Messages, 3)

	require.NoError(t, websocket.JSON.Send(again, InboundMessage{Type: "restart"}))
	restarted := receive(t, again)
	assert.Equal(t, conversation.ResponseWelcome, restarted.ResponseType)
}

func TestWebSocketUnknownSessionStartsFresh(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv, "?session=does-not-exist")

	msg := receive(t, conn)
	assert.Equal(t, "session", msg.Type)
	assert.NotEqual(t, "does-not-exist", msg.SessionID)
}
