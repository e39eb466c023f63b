package game

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/twentyone/blackjack"
)

// SessionOption configures a Session during creation.
type SessionOption func(*sessionConfig)

// sessionConfig holds all configuration for creating a session.
type sessionConfig struct {
	rules    Rules
	bankroll *int            // If nil, uses rules.StartingBankroll
	deck     *blackjack.Deck // If provided, overrides the RNG for deck creation
	bus      EventBus
	logger   *log.Logger
	clock    quartz.Clock
}

// WithRules sets the table rules. Default is DefaultRules().
func WithRules(rules Rules) SessionOption {
	return func(c *sessionConfig) {
		c.rules = rules
	}
}

// WithBankroll overrides the starting bankroll from the rules.
func WithBankroll(bankroll int) SessionOption {
	return func(c *sessionConfig) {
		c.bankroll = &bankroll
	}
}

// WithDeck sets a specific deck, typically a stacked one for tests.
func WithDeck(deck *blackjack.Deck) SessionOption {
	return func(c *sessionConfig) {
		c.deck = deck
	}
}

// WithEventBus publishes session events on bus.
func WithEventBus(bus EventBus) SessionOption {
	return func(c *sessionConfig) {
		c.bus = bus
	}
}

// WithLogger sets the session logger. Default discards output.
func WithLogger(logger *log.Logger) SessionOption {
	return func(c *sessionConfig) {
		c.logger = logger
	}
}

// WithClock sets the clock used to timestamp events.
func WithClock(clock quartz.Clock) SessionOption {
	return func(c *sessionConfig) {
		c.clock = clock
	}
}

func defaultSessionConfig() *sessionConfig {
	return &sessionConfig{
		rules:  DefaultRules(),
		bus:    NewEventBus(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		clock:  quartz.NewReal(),
	}
}
