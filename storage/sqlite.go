// Package storage persists autoplay results in SQLite, using the pure-Go
// modernc.org/sqlite driver.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

var ErrClosed = errors.New("storage: store is closed")

type Store struct {
	db *sql.DB
}

// GameRecord is the outcome of one finished autoplay game.
type GameRecord struct {
	ID        int64
	GameID    string
	Profile   string
	Seed      int64
	Pieces    int
	Lines     int
	Attack    int
	Downstack int
	ToppedOut bool
	// FinalBoard is the board's String() form; BoardHash its fingerprint.
	FinalBoard string
	BoardHash  uint64
	CreatedAt  time.Time
}

// Open creates or opens the database at dbPath, creating parent
// directories and the schema as needed. ":memory:" opens a private
// in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// Autoplay workers write concurrently; sqlite serializes writers anyway
	// and a single connection keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL UNIQUE,
			profile TEXT NOT NULL DEFAULT '',
			seed INTEGER NOT NULL DEFAULT 0,
			pieces INTEGER NOT NULL,
			lines INTEGER NOT NULL,
			attack INTEGER NOT NULL,
			downstack INTEGER NOT NULL,
			topped_out INTEGER NOT NULL DEFAULT 0,
			final_board TEXT NOT NULL DEFAULT '',
			board_hash TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_games_profile ON games(profile);
		CREATE INDEX IF NOT EXISTS idx_games_attack ON games(attack DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// SaveGame inserts a record and returns its row ID.
func (s *Store) SaveGame(ctx context.Context, r GameRecord) (int64, error) {
	if s.db == nil {
		return 0, ErrClosed
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO games (game_id, profile, seed, pieces, lines, attack,
			downstack, topped_out, final_board, board_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Profile, r.Seed, r.Pieces, r.Lines, r.Attack,
		r.Downstack, r.ToppedOut, r.FinalBoard, fmt.Sprintf("%016x", r.BoardHash),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save game: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const selectGames = `SELECT id, game_id, profile, seed, pieces, lines, attack,
	downstack, topped_out, final_board, board_hash, created_at FROM games`

// RecentGames returns the last limit games, newest first.
func (s *Store) RecentGames(ctx context.Context, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.query(ctx, selectGames+` ORDER BY id DESC LIMIT ?`, limit)
}

// TopGames returns the games with the most attack, optionally restricted
// to one profile.
func (s *Store) TopGames(ctx context.Context, profile string, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	if profile == "" {
		return s.query(ctx, selectGames+` ORDER BY attack DESC, id ASC LIMIT ?`, limit)
	}
	return s.query(ctx, selectGames+` WHERE profile = ? ORDER BY attack DESC, id ASC LIMIT ?`,
		profile, limit)
}

func (s *Store) CountGames(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM games").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count games: %w", err)
	}
	return n, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]GameRecord, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}
	defer rows.Close()

	var records []GameRecord
	for rows.Next() {
		var r GameRecord
		var hash string
		var createdAt any
		if err := rows.Scan(&r.ID, &r.GameID, &r.Profile, &r.Seed, &r.Pieces,
			&r.Lines, &r.Attack, &r.Downstack, &r.ToppedOut, &r.FinalBoard,
			&hash, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		fmt.Sscanf(hash, "%x", &r.BoardHash)

		switch v := createdAt.(type) {
		case time.Time:
			r.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				r.CreatedAt = parsed
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}
