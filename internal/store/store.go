// Package store persists settled rounds and player bankrolls. SQLite is the
// default backend; a postgres:// DSN selects Postgres through the pgx driver.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lox/twentyone/blackjack"
	"github.com/lox/twentyone/internal/game"
	_ "modernc.org/sqlite"
)

//go:embed schema/*.sql
var schemas embed.FS

// Dialect names the SQL backend
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func (d Dialect) driver() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

// DialectFor picks the backend for a DSN
func DialectFor(dsn string) Dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return Postgres
	}
	return SQLite
}

// Store persists game history
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to dsn and applies the embedded schema. Anything that is not
// a Postgres URL is treated as a SQLite path, including ":memory:".
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	dialect := DialectFor(dsn)

	db, err := sql.Open(dialect.driver(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", dialect, err)
	}
	if dialect == SQLite {
		// One connection keeps ":memory:" databases shared and serializes writers.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", dialect, err)
	}

	s := &Store{db: db, dialect: dialect}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema, err := schemas.ReadFile("schema/" + string(s.dialect) + ".sql")
	if err != nil {
		return err
	}
	if s.dialect == SQLite {
		if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
			return err
		}
	}
	_, err = s.db.ExecContext(ctx, string(schema))
	return err
}

// Close closes the database handle
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Dialect reports the backend in use
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// rebind rewrites ? placeholders to $n for Postgres
func (s *Store) rebind(query string) string {
	if s.dialect != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// SaveRound appends a settled round to a session's history
func (s *Store) SaveRound(ctx context.Context, sessionID string, rec game.RoundRecord) error {
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}
	settledAt := rec.SettledAt
	if settledAt.IsZero() {
		settledAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO rounds (
		  session_id, round, bet, outcome, delta,
		  bankroll_before, bankroll_after,
		  player_cards, dealer_cards, player_value, dealer_value,
		  settled_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		sessionID, rec.Round, rec.Bet, rec.Outcome.String(), rec.Delta,
		rec.BankrollBefore, rec.BankrollAfter,
		rec.PlayerCards.String(), rec.DealerCards.String(), rec.PlayerValue, rec.DealerValue,
		toMillis(settledAt),
	)
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}
	return nil
}

// Rounds returns a session's settled rounds in the order they were saved.
// Round numbers restart when a session is reset, so they are not unique.
func (s *Store) Rounds(ctx context.Context, sessionID string) ([]game.RoundRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT round, bet, outcome, delta, bankroll_before, bankroll_after,
		       player_cards, dealer_cards, player_value, dealer_value, settled_at
		  FROM rounds
		 WHERE session_id = ?
		 ORDER BY id`), sessionID)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer rows.Close()

	var records []game.RoundRecord
	for rows.Next() {
		var (
			rec                      game.RoundRecord
			outcome                  string
			playerCards, dealerCards string
			settledAt                int64
		)
		if err := rows.Scan(&rec.Round, &rec.Bet, &outcome, &rec.Delta,
			&rec.BankrollBefore, &rec.BankrollAfter,
			&playerCards, &dealerCards, &rec.PlayerValue, &rec.DealerValue, &settledAt); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		if err := rec.Outcome.UnmarshalText([]byte(outcome)); err != nil {
			return nil, fmt.Errorf("round %d: %w", rec.Round, err)
		}
		if rec.PlayerCards, err = parseHand(playerCards); err != nil {
			return nil, fmt.Errorf("round %d player cards: %w", rec.Round, err)
		}
		if rec.DealerCards, err = parseHand(dealerCards); err != nil {
			return nil, fmt.Errorf("round %d dealer cards: %w", rec.Round, err)
		}
		rec.SettledAt = fromMillis(settledAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func parseHand(s string) (blackjack.Hand, error) {
	cards, err := blackjack.ParseCards(strings.Fields(s)...)
	if err != nil {
		return nil, err
	}
	return blackjack.Hand(cards), nil
}

// SaveBankroll records the latest bankroll for a player
func (s *Store) SaveBankroll(ctx context.Context, player string, bankroll int) error {
	if player == "" {
		return fmt.Errorf("player is required")
	}
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO bankrolls (player, bankroll, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (player) DO UPDATE
		  SET bankroll = excluded.bankroll,
		      updated_at = excluded.updated_at`),
		player, bankroll, toMillis(time.Now()))
	if err != nil {
		return fmt.Errorf("upsert bankroll: %w", err)
	}
	return nil
}

// Bankroll returns the stored bankroll for a player. ok is false when the
// player has never been saved.
func (s *Store) Bankroll(ctx context.Context, player string) (bankroll int, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, s.rebind(`SELECT bankroll FROM bankrolls WHERE player = ?`), player).Scan(&bankroll)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query bankroll: %w", err)
	}
	return bankroll, true, nil
}

// Writer adapts the store to a session's history recorder. Every round is
// saved under sessionID and the bankroll under player.
func (s *Store) Writer(ctx context.Context, sessionID, player string) game.HistoryWriter {
	return &sessionWriter{ctx: ctx, store: s, sessionID: sessionID, player: player}
}

type sessionWriter struct {
	ctx       context.Context
	store     *Store
	sessionID string
	player    string
}

func (w *sessionWriter) WriteRound(rec game.RoundRecord) error {
	if err := w.store.SaveRound(w.ctx, w.sessionID, rec); err != nil {
		return err
	}
	if w.player == "" {
		return nil
	}
	return w.store.SaveBankroll(w.ctx, w.player, rec.BankrollAfter)
}
