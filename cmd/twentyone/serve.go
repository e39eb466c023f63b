package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/lox/twentyone/cmd/twentyone/shared"
	"github.com/lox/twentyone/internal/randutil"
	"github.com/lox/twentyone/internal/server"
	"github.com/lox/twentyone/internal/store"
)

// ServeCmd runs the websocket server. Flags override the config file.
type ServeCmd struct {
	Addr     string `help:"Server address" env:"TWENTYONE_ADDR"`
	Database string `help:"Database DSN: a sqlite file, :memory: or a postgres:// URL" env:"TWENTYONE_DATABASE"`
	Seed     *int64 `help:"Deterministic RNG seed for the server (optional)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	logger := shared.SetupLogger(g.LogLevel(cfg))

	delays, err := cfg.Delays()
	if err != nil {
		return err
	}

	addr := cfg.Server.Address
	if c.Addr != "" {
		addr = c.Addr
	}
	dsn := cfg.Server.Database
	if c.Database != "" {
		dsn = c.Database
	}

	seed, explicit := randutil.Seed(c.Seed)
	if explicit {
		logger.Info("Using deterministic seed", "seed", seed)
	} else {
		logger.Info("Using random seed", "seed", seed)
	}

	rules := cfg.Rules()
	opts := []server.Option{
		server.WithRules(rules),
		server.WithDelays(delays),
		server.WithSeed(seed),
	}

	// Setup graceful shutdown
	ctx := shared.SetupSignalHandlerWithLogger(logger)

	if dsn != "" {
		st, err := store.Open(ctx, dsn)
		if err != nil {
			return err
		}
		defer func() {
			if err := st.Close(); err != nil {
				logger.Error("Failed to close store", "error", err)
			}
		}()
		logger.Info("Persisting rounds", "dialect", st.Dialect())
		opts = append(opts, server.WithStore(st))
	}

	s := server.NewServer(logger, opts...)

	logger.Info("Starting twentyone server",
		"address", addr,
		"min_bet", rules.MinBet,
		"starting_bankroll", rules.StartingBankroll,
		"dealer_stands_on", rules.DealerStandsOn,
		"reveal_delay", delays.Reveal,
		"hit_delay", delays.Hit)

	// Start server in background
	serverErr := make(chan error, 1)
	go func() {
		if err := s.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for shutdown or error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
