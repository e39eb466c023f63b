package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/pacing"
	"github.com/lox/twentyone/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerHealth(t *testing.T) {
	t.Parallel()
	srv := NewServer(testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestServerRules(t *testing.T) {
	t.Parallel()
	rules := game.Rules{MinBet: 25, BetStep: 5, StartingBankroll: 250, DealerStandsOn: 17}
	srv := NewServer(testLogger(), WithRules(rules), WithDelays(pacing.DefaultDelays()))

	req := httptest.NewRequest(http.MethodGet, "/rules", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var data RulesData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Equal(t, 25, data.MinBet)
	assert.Equal(t, 5, data.BetStep)
	assert.Equal(t, 250, data.StartingBankroll)
	assert.Equal(t, 1.0, data.RevealDelay)
	assert.Equal(t, 1.5, data.HitDelay)
}

func TestInitialState(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, nil)
	client := dial(t, ts, "")

	state := client.state()
	_, err := uuid.Parse(state.SessionID)
	require.NoError(t, err)
	assert.Equal(t, game.Betting, state.View.Phase)
	assert.Equal(t, 500, state.View.Bankroll)
	assert.Equal(t, 100, state.View.Bet)
	assert.Equal(t, "Place your bet (Minimum $100). You have $500.", state.View.Message)
}

func TestPlayRound(t *testing.T) {
	t.Parallel()
	// Player 10 + 7, dealer 6 + hole 5, dealer draws 2, 3, 4 to 20.
	_, ts := newTestServer(t, []string{"Tc", "6d", "7h", "5s", "2c", "3d", "4h"})
	client := dial(t, ts, "")
	client.state()

	client.send(MessageTypeBet, BetData{Delta: 100})
	assert.Equal(t, 200, client.state().View.Bet)

	client.send(MessageTypeDeal, nil)
	msgs := client.readUntil(MessageTypeState)
	events := ofType(msgs, MessageTypeEvent)
	require.Len(t, events, 5)
	assert.Equal(t, game.EventTypeRoundStart, decode[EventData](t, events[0]).Event)

	hole := decode[EventData](t, events[4])
	assert.Equal(t, game.SeatDealer, hole.Seat)
	assert.True(t, hole.FaceDown)
	assert.False(t, hole.Card.Valid(), "hole card must not be sent")
	assert.NotContains(t, string(events[4].Data), "5s")
	assert.Equal(t, "Dealer takes a card face down", hole.Text)
	assert.Equal(t, "You draw [Tc] (10)", decode[EventData](t, events[1]).Text)

	view := decode[StateData](t, msgs[len(msgs)-1]).View
	assert.Equal(t, game.PlayerTurn, view.Phase)
	assert.Equal(t, 17, view.PlayerValue)
	assert.Equal(t, "6 + ?", view.DealerScore())

	client.send(MessageTypeStand, nil)
	msgs = client.readUntil(MessageTypeState) // Player stands
	assert.Equal(t, game.DealerTurn, decode[StateData](t, msgs[len(msgs)-1]).View.Phase)

	msgs = client.readUntil(MessageTypeState)
	steps := ofType(msgs, MessageTypeStep)
	require.Len(t, steps, 5)
	kinds := make([]game.StepKind, len(steps))
	for i, m := range steps {
		kinds[i] = decode[StepData](t, m).Step.Kind
	}
	assert.Equal(t, []game.StepKind{game.StepReveal, game.StepHit, game.StepHit, game.StepHit, game.StepSettle}, kinds)

	reveal := decode[StepData](t, steps[0])
	assert.Equal(t, "5s", reveal.Step.Card.String())
	assert.Equal(t, 11, reveal.Step.DealerValue)

	final := decode[StateData](t, msgs[len(msgs)-1]).View
	assert.Equal(t, game.Settled, final.Phase)
	assert.Equal(t, game.DealerWin, final.Outcome)
	assert.Equal(t, 300, final.Bankroll)
	assert.Equal(t, "LOSS! Dealer wins. You lost $200.", final.Message)

	var settled []EventData
	for _, m := range ofType(msgs, MessageTypeEvent) {
		if e := decode[EventData](t, m); e.Event == game.EventTypeRoundSettled {
			settled = append(settled, e)
		}
	}
	require.Len(t, settled, 1)
	assert.Equal(t, -200, settled[0].Record.Delta)
}

func TestBlackjackPlaysDealerImmediately(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, []string{"Ah", "9c", "Kd", "8s"})
	client := dial(t, ts, "")
	client.state()

	client.send(MessageTypeDeal, nil)
	assert.Equal(t, game.DealerTurn, client.state().View.Phase)

	final := client.state().View
	assert.Equal(t, game.PlayerBlackjack, final.Outcome)
	assert.Equal(t, 600, final.Bankroll)
}

func TestErrors(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, nil)
	client := dial(t, ts, "")
	client.state()

	tests := []struct {
		name string
		send func()
		code string
	}{
		{"hit before deal", func() { client.send(MessageTypeHit, nil) }, CodeInvalidTransition},
		{"stand before deal", func() { client.send(MessageTypeStand, nil) }, CodeInvalidTransition},
		{"unknown type", func() { client.send("split", nil) }, CodeInvalidMessage},
		{"bad bet payload", func() { client.sendRaw(`{"type":"bet","data":{"delta":"lots"}}`) }, CodeInvalidMessage},
		{"missing bet payload", func() { client.sendRaw(`{"type":"bet"}`) }, CodeInvalidMessage},
	}

	for _, tt := range tests {
		tt.send()
		msg := client.read()
		require.Equal(t, MessageTypeError, msg.Type, tt.name)
		assert.Equal(t, tt.code, decode[ErrorData](t, msg).Code, tt.name)
	}
}

func TestSessionOverAndReset(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, []string{"Tc", "Td", "7h", "Ks"}, WithSessionOptions(game.WithBankroll(100)))
	client := dial(t, ts, "")
	assert.Equal(t, 100, client.state().View.Bankroll)

	client.send(MessageTypeDeal, nil)
	client.state()
	client.send(MessageTypeStand, nil)
	client.state()
	final := client.state().View
	assert.True(t, final.Over)
	assert.Equal(t, 0, final.Bankroll)

	client.send(MessageTypeDeal, nil)
	msg := client.read()
	require.Equal(t, MessageTypeError, msg.Type)
	assert.Equal(t, CodeSessionOver, decode[ErrorData](t, msg).Code)

	client.send(MessageTypeReset, nil)
	view := client.state().View
	assert.False(t, view.Over)
	assert.Equal(t, 500, view.Bankroll)
	assert.Equal(t, game.Betting, view.Phase)
}

func TestPersistsRounds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st, err := store.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.SaveBankroll(ctx, "alice", 800))

	_, ts := newTestServer(t, []string{"Tc", "6d", "Th", "Ts", "Kc"}, WithStore(st))
	client := dial(t, ts, "?player=alice")
	state := client.state()
	assert.Equal(t, 800, state.View.Bankroll, "stored bankroll is resumed")

	client.send(MessageTypeDeal, nil)
	client.state()
	client.send(MessageTypeStand, nil)
	client.state()
	final := client.state().View
	assert.Equal(t, game.DealerBust, final.Outcome)

	rounds, err := st.Rounds(ctx, state.SessionID)
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	assert.Equal(t, game.DealerBust, rounds[0].Outcome)
	assert.Equal(t, 900, rounds[0].BankrollAfter)

	bankroll, ok, err := st.Bankroll(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 900, bankroll)
}

func TestResetBankroll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st, err := store.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	_, ts := newTestServer(t, nil, WithStore(st))

	tests := []struct {
		name  string
		query string
		reset ResetData
		want  int
	}{
		{"anonymous picks a bankroll", "", ResetData{Bankroll: 1000}, 1000},
		{"anonymous default", "", ResetData{}, 500},
		{"named player is capped", "?player=mallory", ResetData{Bankroll: 1_000_000}, 500},
		{"named player may start lower", "?player=mallory", ResetData{Bankroll: 200}, 200},
	}

	for _, tt := range tests {
		client := dial(t, ts, tt.query)
		client.state()
		client.send(MessageTypeReset, tt.reset)
		assert.Equal(t, tt.want, client.state().View.Bankroll, tt.name)
	}
}

func TestDealerStepsArePaced(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	_, ts := newTestServer(t, []string{"Tc", "6d", "8h", "Ts", "Kc"},
		WithClock(mClock), WithDelays(pacing.DefaultDelays()))
	client := dial(t, ts, "")
	client.state()

	client.send(MessageTypeDeal, nil)
	client.state()
	client.send(MessageTypeStand, nil)
	client.state()

	next := func(want game.StepKind) {
		t.Helper()
		msgs := client.readUntil(MessageTypeStep)
		assert.Equal(t, want, decode[StepData](t, msgs[len(msgs)-1]).Step.Kind)
	}
	advance := func(d time.Duration) {
		t.Helper()
		require.Eventually(t, func() bool {
			next, ok := mClock.Peek()
			return ok && next == d
		}, 5*time.Second, time.Millisecond)
		mClock.Advance(d).MustWait(ctx)
	}

	next(game.StepReveal)
	advance(time.Second)
	next(game.StepHit)
	advance(1500 * time.Millisecond)
	next(game.StepSettle)

	final := client.state().View
	assert.Equal(t, game.DealerBust, final.Outcome)
}

func TestShutdownClosesConnections(t *testing.T) {
	t.Parallel()
	srv, ts := newTestServer(t, nil)
	client := dial(t, ts, "")
	client.state()

	require.Eventually(t, func() bool { return srv.ConnectionCount() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, srv.Shutdown(context.Background()))
	require.Eventually(t, func() bool { return srv.ConnectionCount() == 0 }, time.Second, 5*time.Millisecond)

	require.NoError(t, client.conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := client.conn.ReadMessage()
	assert.Error(t, err)
}
