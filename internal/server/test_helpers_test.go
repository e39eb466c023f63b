package server

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/twentyone/blackjack"
	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/pacing"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// newTestServer serves a server whose first session deals cards in order
func newTestServer(t *testing.T, cards []string, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	all := []Option{WithDelays(pacing.Delays{}), WithSeed(1)}
	if len(cards) > 0 {
		deck := blackjack.NewStackedDeck(blackjack.MustParseCards(cards...)...)
		all = append(all, WithSessionOptions(game.WithDeck(deck)))
	}
	all = append(all, opts...)

	srv := NewServer(testLogger(), all...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

type testClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, ts *httptest.Server, query string) *testClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &testClient{t: t, conn: conn}
}

func (c *testClient) sendRaw(raw string) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteMessage(websocket.TextMessage, []byte(raw)))
}

func (c *testClient) send(msgType MessageType, data any) {
	c.t.Helper()
	msg, err := NewMessage(msgType, data, time.Now())
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteJSON(msg))
}

func (c *testClient) read() Message {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg Message
	require.NoError(c.t, c.conn.ReadJSON(&msg))
	return msg
}

// readUntil returns every message up to and including the first of type want
func (c *testClient) readUntil(want MessageType) []Message {
	c.t.Helper()
	var msgs []Message
	for {
		msg := c.read()
		msgs = append(msgs, msg)
		if msg.Type == want {
			return msgs
		}
	}
}

func (c *testClient) state() StateData {
	c.t.Helper()
	msgs := c.readUntil(MessageTypeState)
	return decode[StateData](c.t, msgs[len(msgs)-1])
}

func decode[T any](t *testing.T, msg Message) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(msg.Data, &v))
	return v
}

func ofType(msgs []Message, msgType MessageType) []Message {
	var out []Message
	for _, m := range msgs {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}
