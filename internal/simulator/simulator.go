package simulator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/twentyone/internal/fileutil"
	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/randutil"
	"github.com/lox/twentyone/internal/statistics"
	"github.com/lox/twentyone/internal/strategy"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds   int
	Workers  int
	Strategy string
	Seed     int64
	Rules    game.Rules
	Logger   *log.Logger
}

// Result is the aggregate of every worker's rounds
type Result struct {
	Strategy string
	Seed     int64
	Workers  int
	Resets   int // Sessions restarted after running out of money
	Duration time.Duration
	Stats    *statistics.Statistics
}

// Simulator runs blackjack rounds with an automated player
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Rules == (game.Rules{}) {
		config.Rules = game.DefaultRules()
	}
	logger := config.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Simulator{config: config, logger: logger.WithPrefix("simulator")}
}

type workerResult struct {
	stats  statistics.Statistics
	resets int
}

// Run plays the configured number of rounds split across the workers.
// Worker i is seeded with randutil.Derive(Seed, i) so a run is reproducible
// for a given seed and worker count.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if s.config.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", s.config.Rounds)
	}
	if err := s.config.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	if _, err := strategy.New(s.config.Strategy, randutil.New(s.config.Seed), s.strategyOptions()...); err != nil {
		return nil, err
	}

	start := time.Now()
	results := make([]workerResult, s.config.Workers)

	g, ctx := errgroup.WithContext(ctx)
	for i := range s.config.Workers {
		rounds := s.config.Rounds / s.config.Workers
		if i < s.config.Rounds%s.config.Workers {
			rounds++
		}
		seed := randutil.Derive(s.config.Seed, i)

		g.Go(func() error {
			res, err := s.runWorker(ctx, seed, rounds)
			if err != nil {
				return fmt.Errorf("worker %d: %w", i, err)
			}
			results[i] = res
			s.logger.Debug("Worker finished", "worker", i, "rounds", rounds, "seed", seed, "resets", res.resets)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		Strategy: s.config.Strategy,
		Seed:     s.config.Seed,
		Workers:  s.config.Workers,
		Stats:    &statistics.Statistics{},
	}
	for i := range results {
		result.Stats.Merge(&results[i].stats)
		result.Resets += results[i].resets
	}
	result.Duration = time.Since(start)

	if err := result.Stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Info("Simulation complete",
		"strategy", result.Strategy,
		"rounds", result.Stats.Rounds,
		"mean", result.Stats.Mean(),
		"duration", result.Duration)

	return result, nil
}

func (s *Simulator) runWorker(ctx context.Context, seed int64, rounds int) (workerResult, error) {
	var res workerResult

	strat, err := strategy.New(s.config.Strategy, randutil.New(randutil.Derive(seed, 0)), s.strategyOptions()...)
	if err != nil {
		return res, err
	}
	session := game.NewSession(randutil.New(seed), game.WithRules(s.config.Rules))

	for round := range rounds {
		if round%256 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		if session.Over() {
			session.Reset(s.config.Rules.StartingBankroll)
			res.resets++
		}

		result, err := playRound(session, strat)
		if err != nil {
			return res, fmt.Errorf("round %d: %w", round+1, err)
		}
		result.Seed = seed
		res.stats.Add(result)
	}
	return res, nil
}

func (s *Simulator) strategyOptions() []strategy.Option {
	return []strategy.Option{strategy.WithDealerStandsOn(s.config.Rules.DealerStandsOn)}
}

// playRound deals one round and lets strat play the player's hand
func playRound(session *game.Session, strat strategy.Strategy) (statistics.RoundResult, error) {
	bet := session.CurrentBet()
	view, err := session.Deal()
	if err != nil {
		return statistics.RoundResult{}, err
	}

	for view.Phase == game.PlayerTurn {
		decision := strat.Decide(session.Round().Player, view.DealerCards[0])
		switch decision.Action {
		case strategy.Hit:
			view, err = session.Hit()
		default:
			view, err = session.Stand()
		}
		if err != nil {
			return statistics.RoundResult{}, err
		}
	}

	if view.Phase == game.DealerTurn {
		view = session.PlayDealer()
	}
	if view.Phase != game.Settled {
		return statistics.RoundResult{}, fmt.Errorf("round ended in phase %s", view.Phase)
	}

	return statistics.RoundResult{
		Units:   float64(view.Outcome.Delta(bet)) / float64(bet),
		Outcome: view.Outcome,
		Cards:   len(view.PlayerCards),
	}, nil
}

// Report is the JSON summary written after a run
type Report struct {
	Strategy    string               `json:"strategy"`
	Seed        int64                `json:"seed"`
	Workers     int                  `json:"workers"`
	Rounds      int                  `json:"rounds"`
	Resets      int                  `json:"resets"`
	Mean        float64              `json:"mean"`
	StdDev      float64              `json:"stdDev"`
	StdError    float64              `json:"stdError"`
	CI95        [2]float64           `json:"ci95"`
	Median      float64              `json:"median"`
	WinRate     float64              `json:"winRate"`
	Wins        int                  `json:"wins"`
	Losses      int                  `json:"losses"`
	Pushes      int                  `json:"pushes"`
	Blackjacks  int                  `json:"blackjacks"`
	PlayerBusts int                  `json:"playerBusts"`
	DealerBusts int                  `json:"dealerBusts"`
	Outcomes    map[game.Outcome]int `json:"outcomes"`
	DurationMS  int64                `json:"durationMs"`
}

// Report summarizes the result
func (r *Result) Report() Report {
	low, high := r.Stats.ConfidenceInterval95()
	return Report{
		Strategy:    r.Strategy,
		Seed:        r.Seed,
		Workers:     r.Workers,
		Rounds:      r.Stats.Rounds,
		Resets:      r.Resets,
		Mean:        r.Stats.Mean(),
		StdDev:      r.Stats.StdDev(),
		StdError:    r.Stats.StdError(),
		CI95:        [2]float64{low, high},
		Median:      r.Stats.Median(),
		WinRate:     r.Stats.WinRate(),
		Wins:        r.Stats.Wins,
		Losses:      r.Stats.Losses,
		Pushes:      r.Stats.Pushes,
		Blackjacks:  r.Stats.Blackjacks,
		PlayerBusts: r.Stats.PlayerBusts,
		DealerBusts: r.Stats.DealerBusts,
		Outcomes:    r.Stats.Outcomes,
		DurationMS:  r.Duration.Milliseconds(),
	}
}

// WriteReport saves the report as JSON, replacing path atomically
func (r *Result) WriteReport(path string) error {
	if err := fileutil.WriteJSON(path, r.Report(), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
