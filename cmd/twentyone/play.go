package main

import (
	"fmt"

	"github.com/lox/twentyone/cmd/twentyone/shared"
	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/randutil"
	"github.com/lox/twentyone/internal/tui"
)

// PlayCmd runs the interactive terminal game
type PlayCmd struct {
	Seed    *int64 `help:"Deterministic RNG seed (optional)"`
	NoColor bool   `name:"no-color" help:"Disable colours"`
	LogFile string `type:"path" help:"Write debug logs to this file"`
	History string `type:"path" help:"Save settled rounds as JSON when the game ends"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	delays, err := cfg.Delays()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs only go to a file
	logger, closeLog, err := shared.SetupFileLogger(c.LogFile, g.LogLevel(cfg))
	if err != nil {
		return err
	}
	defer func() {
		if err := closeLog(); err != nil {
			fmt.Printf("failed to close log file: %v\n", err)
		}
	}()

	if c.NoColor {
		tui.DisableColor()
	}

	seed, _ := randutil.Seed(c.Seed)
	logger.Info("Starting game", "seed", seed)

	session := game.NewSession(randutil.New(seed),
		game.WithRules(cfg.Rules()),
		game.WithLogger(logger))
	history := game.NewHistoryRecorder(nil)
	session.Events().Subscribe(history)

	model := tui.NewModel(session, delays, logger)
	if err := tui.Run(shared.SetupSignalHandler(), model); err != nil {
		return err
	}

	fmt.Printf("Played %d rounds, net %+d. Final bankroll: $%d\n",
		len(history.Records()), history.Net(), session.Bankroll())

	if c.History != "" {
		if err := history.WriteJSON(c.History); err != nil {
			return err
		}
		fmt.Printf("Saved history to %s\n", c.History)
	}
	return nil
}
