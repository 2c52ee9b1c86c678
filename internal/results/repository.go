package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/park285/cheese-checkers/internal/checkers"
)

// Repository stores finished games. Save is an upsert keyed by Record.ID; a
// session that is reset produces several records under one GameID.
type Repository interface {
	Save(ctx context.Context, r *Record) error
	// Get returns the newest record of a game.
	Get(ctx context.Context, gameID string) (*Record, error)
	// Recent lists the newest results first; an empty player lists everyone.
	Recent(ctx context.Context, player string, limit int) ([]*Record, error)
	Close() error
}

// Schema creates the results table when missing.
const Schema = `CREATE TABLE IF NOT EXISTS checkers_games (
    id            UUID PRIMARY KEY,
    game_id       TEXT NOT NULL,
    player1_name  TEXT NOT NULL,
    player2_name  TEXT NOT NULL,
    winner        SMALLINT NOT NULL,
    reason        TEXT NOT NULL,
    board_size    SMALLINT NOT NULL,
    moves         JSONB NOT NULL,
    pdn           TEXT NOT NULL,
    player1_ms    BIGINT NOT NULL,
    player2_ms    BIGINT NOT NULL,
    started_at    TIMESTAMPTZ NOT NULL,
    ended_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS checkers_games_game_id_idx ON checkers_games (game_id, ended_at DESC)`

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(databaseURL string) (*PostgresRepository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *PostgresRepository) Save(ctx context.Context, rec *Record) error {
	if r == nil || r.db == nil || rec == nil {
		return nil
	}
	if rec.ID == "" {
		return ErrMissingID
	}
	moves, err := json.Marshal(rec.Moves)
	if err != nil {
		return err
	}
	q := `INSERT INTO checkers_games (
        id, game_id, player1_name, player2_name, winner, reason, board_size,
        moves, pdn, player1_ms, player2_ms, started_at, ended_at
      ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13
      ) ON CONFLICT (id) DO UPDATE SET
        game_id=EXCLUDED.game_id,
        player1_name=EXCLUDED.player1_name,
        player2_name=EXCLUDED.player2_name,
        winner=EXCLUDED.winner,
        reason=EXCLUDED.reason,
        board_size=EXCLUDED.board_size,
        moves=EXCLUDED.moves,
        pdn=EXCLUDED.pdn,
        player1_ms=EXCLUDED.player1_ms,
        player2_ms=EXCLUDED.player2_ms,
        started_at=EXCLUDED.started_at,
        ended_at=EXCLUDED.ended_at`
	_, err = r.db.ExecContext(ctx, q,
		rec.ID, rec.GameID,
		rec.Player1, rec.Player2,
		int(rec.Winner), rec.Reason, rec.BoardSize,
		string(moves), rec.PDN(),
		rec.Player1Time.Milliseconds(), rec.Player2Time.Milliseconds(),
		rec.StartedAt, rec.EndedAt,
	)
	return err
}

const selectColumns = `id, game_id, player1_name, player2_name, winner, reason, board_size,
        moves, player1_ms, player2_ms, started_at, ended_at`

func (r *PostgresRepository) Get(ctx context.Context, gameID string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM checkers_games
        WHERE game_id=$1 ORDER BY ended_at DESC LIMIT 1`, gameID)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (r *PostgresRepository) Recent(ctx context.Context, player string, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 10
	}
	var (
		rows *sql.Rows
		err  error
	)
	if p := strings.TrimSpace(player); p != "" {
		rows, err = r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM checkers_games
            WHERE player1_name=$1 OR player2_name=$1 ORDER BY ended_at DESC LIMIT $2`, p, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM checkers_games
            ORDER BY ended_at DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*Record, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*Record, error) {
	var (
		rec    Record
		winner int
		moves  []byte
		p1ms   int64
		p2ms   int64
	)
	if err := s.Scan(&rec.ID, &rec.GameID, &rec.Player1, &rec.Player2, &winner, &rec.Reason,
		&rec.BoardSize, &moves, &p1ms, &p2ms, &rec.StartedAt, &rec.EndedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(moves, &rec.Moves); err != nil {
		return nil, fmt.Errorf("decode moves: %w", err)
	}
	rec.Winner = checkers.PlayerID(winner)
	rec.Player1Time = time.Duration(p1ms) * time.Millisecond
	rec.Player2Time = time.Duration(p2ms) * time.Millisecond
	return &rec, nil
}
