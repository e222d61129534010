// Package archive keeps finished games in SQLite and derives a leaderboard.
package archive

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Tydestiny/Incan-Gold/internal/game"
	"github.com/Tydestiny/Incan-Gold/internal/models"
)

//go:embed schema.sql
var schema string

// writeTimeout bounds a single archive write triggered by an event
const writeTimeout = 5 * time.Second

// Game is one finished game
type Game struct {
	ID         string
	Room       string
	Rounds     int
	WinnerID   string
	WinnerName string
	FinishedAt time.Time
	Players    []models.Player
}

// Standing is one row of the leaderboard
type Standing struct {
	Name          string `json:"name"`
	Games         int    `json:"games"`
	Wins          int    `json:"wins"`
	TotalTreasure int    `json:"totalTreasure"`
	BestTreasure  int    `json:"bestTreasure"`
}

// Store persists finished games in SQLite
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens the archive at path and applies the schema
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordGame inserts a finished game and its final standings
func (s *Store) RecordGame(ctx context.Context, g Game) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(g.Room) == "" {
		return "", fmt.Errorf("room is required")
	}
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if g.FinishedAt.IsZero() {
		g.FinishedAt = s.now()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO games (id, room, rounds, winner_id, winner_name, finished_at) VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.Room, g.Rounds, g.WinnerID, g.WinnerName, g.FinishedAt.UTC().UnixMilli(),
	); err != nil {
		return "", fmt.Errorf("insert game: %w", err)
	}
	for seat, p := range g.Players {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO game_players (game_id, seat, player_id, name, automated, treasure, won) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			g.ID, seat, p.ID, p.Name, p.Automated, p.Treasure, p.ID == g.WinnerID,
		); err != nil {
			return "", fmt.Errorf("insert player %s: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return g.ID, nil
}

// Leaderboard aggregates standings by player name, most wins first
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]Standing, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT name, COUNT(*), SUM(won), SUM(treasure), MAX(treasure)
		   FROM game_players
		  GROUP BY name
		  ORDER BY SUM(won) DESC, SUM(treasure) DESC, name ASC
		  LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []Standing
	for rows.Next() {
		var st Standing
		if err := rows.Scan(&st.Name, &st.Games, &st.Wins, &st.TotalTreasure, &st.BestTreasure); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// CountGames returns how many games have been archived
func (s *Store) CountGames(ctx context.Context) (int, error) {
	var n int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count games: %w", err)
	}
	return n, nil
}

// Notify implements game.Notifier by archiving every finished game
func (s *Store) Notify(ev game.Event) {
	if ev.Kind != game.EventGameFinished {
		return
	}
	p, ok := ev.Payload.(game.GameFinishedPayload)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	id, err := s.RecordGame(ctx, Game{
		Room:       ev.Room,
		Rounds:     p.Rounds,
		WinnerID:   p.WinnerID,
		WinnerName: p.WinnerName,
		Players:    p.Standings,
	})
	if err != nil {
		log.Printf("archive: recording game in %s: %v", ev.Room, err)
		return
	}
	log.Printf("archive: game %s from room %s recorded", id, ev.Room)
}
