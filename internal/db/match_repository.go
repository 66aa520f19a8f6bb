package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/typeroyale/internal/game/room"
	"github.com/udisondev/typeroyale/internal/protocol"
)

// MatchRepository stores finished match results.
type MatchRepository struct {
	pool *pgxpool.Pool
}

// NewMatchRepository creates a repository over the given pool.
func NewMatchRepository(pool *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{pool: pool}
}

// Recordable reports whether the result is worth persisting. Only
// natural endings count; disconnect and idle teardowns are noise.
func Recordable(res room.Result) bool {
	return res.Reason == protocol.ReasonHeartsDepleted || res.Reason == protocol.ReasonDraw
}

// SaveResult inserts one match outcome. For a draw both player ids are
// stored as NULL.
func (r *MatchRepository) SaveResult(ctx context.Context, res room.Result) error {
	var winner, loser *string
	if res.WinnerID != "" {
		winner = &res.WinnerID
	}
	if res.LoserID != "" {
		loser = &res.LoserID
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO matches (room_id, winner_id, loser_id, reason, winner_kills, loser_kills, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		res.RoomID, winner, loser, res.Reason,
		res.Kills[res.WinnerID], res.Kills[res.LoserID], res.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting match %s: %w", res.RoomID, err)
	}
	return nil
}

// RecentByPlayer returns the most recent results a player appears in.
func (r *MatchRepository) RecentByPlayer(ctx context.Context, playerID string, limit int) ([]MatchRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT room_id, COALESCE(winner_id, ''), COALESCE(loser_id, ''), reason, winner_kills, loser_kills, ended_at
		 FROM matches
		 WHERE winner_id = $1 OR loser_id = $1
		 ORDER BY ended_at DESC
		 LIMIT $2`,
		playerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying matches for %q: %w", playerID, err)
	}
	defer rows.Close()

	var out []MatchRecord
	for rows.Next() {
		var m MatchRecord
		if err := rows.Scan(&m.RoomID, &m.WinnerID, &m.LoserID, &m.Reason, &m.WinnerKills, &m.LoserKills, &m.EndedAt); err != nil {
			return nil, fmt.Errorf("scanning match row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MatchRecord is one persisted match outcome.
type MatchRecord struct {
	RoomID      string
	WinnerID    string
	LoserID     string
	Reason      string
	WinnerKills int
	LoserKills  int
	EndedAt     time.Time
}
