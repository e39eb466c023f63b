package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/pacing"
	"github.com/lox/twentyone/internal/randutil"
)

// Connection is one client and the session it plays. All session calls
// happen on the read goroutine.
type Connection struct {
	id      string
	player  string
	conn    *websocket.Conn
	send    chan *Message
	server  *Server
	session *game.Session
	history *game.HistoryRecorder
	pacer   *pacing.Pacer
	logger  *log.Logger
	ctx     context.Context
	cancel  context.CancelFunc

	closeOnce    sync.Once
	reportedErrs int
}

func (s *Server) newConnection(ws *websocket.Conn, player string) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()
	logger := s.logger.WithPrefix("conn").With("session", id)

	bankroll := s.rules.StartingBankroll
	if s.store != nil && player != "" {
		stored, ok, err := s.store.Bankroll(ctx, player)
		switch {
		case err != nil:
			logger.Warn("Failed to load bankroll", "player", player, "error", err)
		case ok && stored >= s.rules.MinBet:
			bankroll = stored
			logger.Info("Resuming bankroll", "player", player, "bankroll", bankroll)
		}
	}

	seed, n := s.nextSeed()
	opts := []game.SessionOption{
		game.WithRules(s.rules),
		game.WithBankroll(bankroll),
		game.WithLogger(logger),
		game.WithClock(s.clock),
	}
	opts = append(opts, s.sessionOpts...)
	session := game.NewSession(randutil.New(randutil.Derive(seed, n)), opts...)

	var writer game.HistoryWriter
	if s.store != nil {
		writer = s.store.Writer(ctx, id, player)
	}

	c := &Connection{
		id:      id,
		player:  player,
		conn:    ws,
		send:    make(chan *Message, 256),
		server:  s,
		session: session,
		history: game.NewHistoryRecorder(writer),
		pacer:   pacing.New(s.clock, s.delays),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
	session.Events().Subscribe(c.history)
	session.Events().Subscribe(c)
	return c
}

// SessionID returns the id sent to the client in every state message
func (c *Connection) SessionID() string {
	return c.id
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Start begins handling the connection and sends the initial state
func (c *Connection) Start() {
	c.sendState()
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close() // Ignore close errors
		return ErrConnectionClosed
	}
}

// OnEvent forwards session events to the client
func (c *Connection) OnEvent(event game.GameEvent) {
	_ = c.emit(MessageTypeEvent, EventDataFromGame(event))
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		c.handleMessage(&msg)
		if c.ctx.Err() != nil {
			return
		}
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				_ = c.Close()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeBet:
		var data BetData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(CodeInvalidMessage, "Failed to parse bet data")
			return
		}
		c.handleBet(data)

	case MessageTypeDeal:
		c.handleDeal()

	case MessageTypeHit:
		c.handleHit()

	case MessageTypeStand:
		c.handleStand()

	case MessageTypeReset:
		var data ResetData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				c.sendError(CodeInvalidMessage, "Failed to parse reset data")
				return
			}
		}
		c.handleReset(data)

	default:
		c.sendError(CodeInvalidMessage, "Unknown message type: "+msg.Type.String())
	}

	c.logHistoryErrors()
}

func (c *Connection) handleBet(data BetData) {
	if _, err := c.session.PlaceBet(data.Delta); err != nil {
		c.sendSessionError(err)
		return
	}
	c.sendState()
}

func (c *Connection) handleDeal() {
	view, err := c.session.Deal()
	if err != nil {
		c.sendSessionError(err)
		return
	}
	c.sendState()
	if view.Phase == game.DealerTurn {
		c.playDealer()
	}
}

func (c *Connection) handleHit() {
	if _, err := c.session.Hit(); err != nil {
		c.sendSessionError(err)
		return
	}
	c.sendState()
}

func (c *Connection) handleStand() {
	if _, err := c.session.Stand(); err != nil {
		c.sendSessionError(err)
		return
	}
	c.sendState()
	c.playDealer()
}

func (c *Connection) handleReset(data ResetData) {
	bankroll := data.Bankroll
	if bankroll <= 0 {
		bankroll = c.server.rules.StartingBankroll
	}
	// Named players never reset above the table default
	if c.player != "" && bankroll > c.server.rules.StartingBankroll {
		c.logger.Warn("Capping requested reset bankroll", "requested", bankroll, "player", c.player)
		bankroll = c.server.rules.StartingBankroll
	}
	c.logger.Info("Session reset", "bankroll", bankroll)
	c.session.Reset(bankroll)
	c.sendState()
}

// playDealer streams the dealer's turn one paced step at a time
func (c *Connection) playDealer() {
	err := c.pacer.Run(c.ctx, c.session.DealerTurn(), func(step game.Step) error {
		return c.emit(MessageTypeStep, StepData{Step: step, View: c.session.View()})
	})
	if err != nil {
		c.logger.Debug("Dealer turn interrupted", "error", err)
		return
	}
	c.sendState()
}

func (c *Connection) logHistoryErrors() {
	errs := c.history.Errors()
	for _, err := range errs[c.reportedErrs:] {
		c.logger.Error("Failed to persist round", "error", err)
	}
	c.reportedErrs = len(errs)
}

func (c *Connection) sendState() {
	_ = c.emit(MessageTypeState, StateData{SessionID: c.id, View: c.session.View()})
}

func (c *Connection) sendSessionError(err error) {
	c.logger.Debug("Rejected command", "error", err, "phase", c.session.Phase())
	c.sendError(ErrorCode(err), err.Error())
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	_ = c.emit(MessageTypeError, ErrorData{Code: code, Message: message}) // Ignore send errors during error handling
}

func (c *Connection) emit(messageType MessageType, data any) error {
	msg, err := NewMessage(messageType, data, c.server.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create message", "type", messageType, "error", err)
		return err
	}
	return c.SendMessage(msg)
}
