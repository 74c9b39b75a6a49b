// Package storage provides an SQLite ledger of decided matches.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// The ledger is write-mostly; nothing in it is ever loaded back into a live world.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/netpong/internal/multiplayer"
)

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for the outcome ledger.
type Store struct {
	db *sql.DB
}

// OutcomeEntry is one recorded match outcome.
type OutcomeEntry struct {
	ID           int64
	MatchID      string
	Winner       multiplayer.Outcome
	TotalPlayers uint32
	Ticks        uint64
	BallSpeed    float32
	DecidedAt    time.Time
}

// OutcomeStats aggregates the ledger.
type OutcomeStats struct {
	Matches      int
	Player1Wins  int
	Player2Wins  int
	LongestRally uint64 // Most ticks before a decision
	LastDecided  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

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

// migrate creates the database schema if it doesn't exist.
// A match can appear more than once when a later tick overwrites its winner.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS outcomes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL,
			winner INTEGER NOT NULL,
			total_players INTEGER NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			ball_speed REAL NOT NULL DEFAULT 0,
			decided_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_outcomes_match_id ON outcomes(match_id);
		CREATE INDEX IF NOT EXISTS idx_outcomes_decided_at ON outcomes(decided_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveOutcome implements multiplayer.OutcomeRecorder.
func (s *Store) SaveOutcome(record multiplayer.OutcomeRecord) error {
	if !record.Winner.Decided() {
		return fmt.Errorf("storage: refusing to save undecided match %q", record.MatchID)
	}

	decidedAt := record.DecidedAt
	if decidedAt.IsZero() {
		decidedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO outcomes (match_id, winner, total_players, ticks, ball_speed, decided_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.MatchID,
		int64(record.Winner),
		int64(record.TotalPlayers),
		int64(record.Ticks),
		float64(record.BallSpeed),
		decidedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save outcome: %w", err)
	}
	return nil
}

// Ensure Store implements OutcomeRecorder
var _ multiplayer.OutcomeRecorder = (*Store)(nil)

// RecentOutcomes returns the latest outcomes, newest first.
func (s *Store) RecentOutcomes(limit int) ([]OutcomeEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, match_id, winner, total_players, ticks, ball_speed, decided_at
		 FROM outcomes
		 ORDER BY decided_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query outcomes: %w", err)
	}
	defer rows.Close()

	var entries []OutcomeEntry
	for rows.Next() {
		var (
			entry     OutcomeEntry
			winner    int64
			players   int64
			ticks     int64
			speed     float64
			decidedAt any
		)
		if err := rows.Scan(&entry.ID, &entry.MatchID, &winner, &players, &ticks, &speed, &decidedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		entry.Winner = multiplayer.Outcome(winner)
		entry.TotalPlayers = uint32(players)
		entry.Ticks = uint64(ticks)
		entry.BallSpeed = float32(speed)
		entry.DecidedAt = parseTime(decidedAt)

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// Stats returns win counts over the whole ledger.
func (s *Store) Stats() (*OutcomeStats, error) {
	stats := &OutcomeStats{}

	var longest int64
	var lastDecided any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(MAX(ticks), 0),
		        MAX(decided_at)
		 FROM outcomes`,
		int64(multiplayer.OutcomePlayer1),
		int64(multiplayer.OutcomePlayer2),
	).Scan(&stats.Matches, &stats.Player1Wins, &stats.Player2Wins, &longest, &lastDecided)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get outcome stats: %w", err)
	}

	stats.LongestRally = uint64(longest)
	stats.LastDecided = parseTime(lastDecided)
	return stats, nil
}

// parseTime reads a DATETIME column, which the driver may hand back as
// either a time.Time or its text form.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	case []byte:
		return parseTime(string(t))
	}
	return time.Time{}
}
