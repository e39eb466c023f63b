package server

import (
	"github.com/coder/quartz"
	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/pacing"
	"github.com/lox/twentyone/internal/store"
)

// Option configures a Server
type Option func(*Server)

// WithRules sets the table rules for every session
func WithRules(rules game.Rules) Option {
	return func(s *Server) { s.rules = rules }
}

// WithDelays sets the dealer pacing
func WithDelays(delays pacing.Delays) Option {
	return func(s *Server) { s.delays = delays }
}

// WithClock sets the clock used for pacing and timestamps
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// WithStore persists settled rounds and bankrolls
func WithStore(st *store.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithSeed makes session decks reproducible. Connection n is seeded with
// randutil.Derive(seed, n).
func WithSeed(seed int64) Option {
	return func(s *Server) { s.seed = seed }
}

// WithSessionOptions appends options to every session the server creates
func WithSessionOptions(opts ...game.SessionOption) Option {
	return func(s *Server) { s.sessionOpts = append(s.sessionOpts, opts...) }
}
