package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/lox/twentyone/cmd/twentyone/shared"
	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/randutil"
	"github.com/lox/twentyone/internal/simulator"
)

// SimulateCmd plays many rounds with an automated strategy and reports the
// expected result per unit bet
type SimulateCmd struct {
	Rounds   int    `short:"n" default:"100000" help:"Number of rounds to play"`
	Workers  int    `short:"w" help:"Parallel workers (default: number of CPUs)"`
	Strategy string `short:"s" default:"basic" enum:"basic,dealer,never-bust,random" help:"Playing strategy (${enum})"`
	Seed     *int64 `help:"Deterministic RNG seed (optional)"`
	Report   string `type:"path" help:"Write a JSON report to this file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.LoadConfig()
	if err != nil {
		return err
	}
	logger := shared.SetupLogger(g.LogLevel(cfg))

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	seed, _ := randutil.Seed(c.Seed)

	sim := simulator.New(simulator.Config{
		Rounds:   c.Rounds,
		Workers:  workers,
		Strategy: c.Strategy,
		Seed:     seed,
		Rules:    cfg.Rules(),
		Logger:   logger,
	})

	ctx := shared.SetupSignalHandlerWithLogger(logger)
	result, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	printResults(result)

	if c.Report != "" {
		if err := result.WriteReport(c.Report); err != nil {
			return err
		}
		logger.Info("Wrote report", "path", c.Report)
	}
	return nil
}

func printResults(r *simulator.Result) {
	stats := r.Stats
	low, high := stats.ConfidenceInterval95()
	roundsPerSec := float64(stats.Rounds) / r.Duration.Seconds()

	fmt.Printf("\n=== FINAL RESULTS: %s strategy ===\n", r.Strategy)
	fmt.Printf("Rounds played: %d (%d workers, seed %d)\n", stats.Rounds, r.Workers, r.Seed)
	fmt.Printf("Total time: %v\n", r.Duration.Round(time.Millisecond))
	fmt.Printf("Performance: %.1f rounds/sec\n", roundsPerSec)
	if r.Resets > 0 {
		fmt.Printf("Bankroll resets: %d\n", r.Resets)
	}

	fmt.Printf("\n=== STATISTICAL RESULTS ===\n")
	fmt.Printf("Mean: %.4f units/round\n", stats.Mean())
	fmt.Printf("Std Dev: %.4f units\n", stats.StdDev())
	fmt.Printf("Std Error: %.4f units\n", stats.StdError())
	fmt.Printf("95%% CI: [%.4f, %.4f] units/round\n", low, high)
	fmt.Printf("Win rate: %.2f%%\n", stats.WinRate()*100)

	fmt.Printf("\n=== OUTCOMES ===\n")
	for _, outcome := range game.Outcomes {
		n := stats.Outcomes[outcome]
		fmt.Printf("%-18s %8d (%.2f%%)\n", outcome, n, pct(n, stats.Rounds))
	}
	fmt.Printf("Wins: %d  Losses: %d  Pushes: %d\n", stats.Wins, stats.Losses, stats.Pushes)
	fmt.Printf("Most cards in a player hand: %d\n", stats.MaxCards)
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
