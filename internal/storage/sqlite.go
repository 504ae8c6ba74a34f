// Package storage persists finished runs in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound is returned when a run id is not stored.
var ErrNotFound = errors.New("storage: run not found")

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// Run is one finished game session.
type Run struct {
	ID        string // session run id
	GameID    string
	Score     int
	Level     int
	Elapsed   float64 // seconds of simulated play
	Outcome   string  // "won" or "lost"
	Seed      int64
	CreatedAt time.Time
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	Runs       int
	Wins       int
	HighScore  int
	AvgScore   float64
	TotalTime  float64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

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

	store := &Store{db: db, logger: logger}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	logger.Debug("database ready", "path", dbPath)
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			level INTEGER NOT NULL DEFAULT 0,
			elapsed REAL NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_game_id ON runs(game_id);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(game_id, score DESC);
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

// SaveRun records a finished run. A run without an id gets a new one.
// Saving the same id twice keeps the first record.
func (s *Store) SaveRun(r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	res, err := s.db.Exec(
		`INSERT OR IGNORE INTO runs (id, game_id, score, level, elapsed, outcome, seed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.GameID, r.Score, r.Level, r.Elapsed, r.Outcome, r.Seed,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.logger.Debug("run already stored", "run", r.ID)
	}
	return r.ID, nil
}

// Run loads one run by id.
func (s *Store) Run(id string) (Run, error) {
	row := s.db.QueryRow(
		`SELECT id, game_id, score, level, elapsed, outcome, seed, created_at
		 FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

// TopRuns retrieves the best runs for a game, highest score first.
func (s *Store) TopRuns(gameID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, game_id, score, level, elapsed, outcome, seed, created_at
		 FROM runs
		 WHERE game_id = ?
		 ORDER BY score DESC, elapsed ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// BestScore returns the highest score for a game, or 0 if none exist.
func (s *Store) BestScore(gameID string) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM runs WHERE game_id = ?", gameID).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	return int(best.Int64), nil
}

// ClearRuns deletes every run for a game.
func (s *Store) ClearRuns(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM runs WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// Stats retrieves aggregated statistics for every game that has runs.
func (s *Store) Stats() (map[string]GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), SUM(outcome = 'won'), MAX(score), AVG(score), SUM(elapsed), MAX(created_at)
		 FROM runs
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]GameStats)
	for rows.Next() {
		var st GameStats
		var last any
		if err := rows.Scan(&st.GameID, &st.Runs, &st.Wins, &st.HighScore, &st.AvgScore, &st.TotalTime, &last); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(last)
		stats[st.GameID] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var created any
	err := row.Scan(&r.ID, &r.GameID, &r.Score, &r.Level, &r.Elapsed, &r.Outcome, &r.Seed, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("storage: cannot scan run: %w", err)
	}
	r.CreatedAt = parseTime(created)
	return r, nil
}

// parseTime handles both driver-parsed times and raw DATETIME text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
