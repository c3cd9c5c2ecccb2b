// Package storage provides SQLite-based persistence for runs and the best score.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/shapedash/internal/game"
)

// Store manages the SQLite database connection. It implements
// game.ProgressStore and game.RunRecorder and is safe for use by
// concurrent SSH sessions.
type Store struct {
	db *sql.DB

	mu   sync.Mutex
	best int
}

// RunEntry represents a single finished run.
type RunEntry struct {
	ID        int64
	Shape     string
	Score     int
	Distance  float64
	Cause     string
	Seed      int64
	Ticks     int
	CreatedAt time.Time
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

	best, err := store.Best()
	if err != nil {
		db.Close()
		return nil, err
	}
	store.best = best

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			shape TEXT NOT NULL,
			score INTEGER NOT NULL,
			distance REAL NOT NULL DEFAULT 0,
			cause TEXT NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_shape ON runs(shape);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(score DESC);

		CREATE TABLE IF NOT EXISTS best_score (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			score INTEGER NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
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

// SaveRun records a finished run and returns the ID of the inserted record.
func (s *Store) SaveRun(run game.RunRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (shape, score, distance, cause, seed, ticks)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.Shape, run.Score, run.Distance, run.Cause, run.Seed, run.Ticks,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecordRun implements game.RunRecorder.
func (s *Store) RecordRun(run game.RunRecord) error {
	_, err := s.SaveRun(run)
	return err
}

// TopRuns retrieves the best N runs, optionally filtered by shape.
// An empty shape matches every run.
func (s *Store) TopRuns(shape string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, shape, score, distance, cause, seed, ticks, created_at
		 FROM runs
		 WHERE ? = '' OR shape = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		shape, shape, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Shape, &e.Score, &e.Distance, &e.Cause, &e.Seed, &e.Ticks, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// ClearRuns deletes the run history. The best score is kept.
func (s *Store) ClearRuns() error {
	_, err := s.db.Exec("DELETE FROM runs")
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// Best reads the persisted best score. Returns 0 if none was stored.
func (s *Store) Best() (int, error) {
	var best int
	err := s.db.QueryRow("SELECT score FROM best_score WHERE id = 1").Scan(&best)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: cannot read best score: %w", err)
	}
	return best, nil
}

// BestScore implements game.ProgressStore.
func (s *Store) BestScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.best
}

// UpdateBest stores score if it is greater than the persisted best.
func (s *Store) UpdateBest(score int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if score <= s.best {
		return false, nil
	}
	result, err := s.db.Exec(
		`INSERT INTO best_score (id, score) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET score = excluded.score, updated_at = CURRENT_TIMESTAMP
		 WHERE excluded.score > best_score.score`,
		score,
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot update best score: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot read update result: %w", err)
	}
	if n == 0 {
		// Another process stored a higher best.
		best, err := s.Best()
		if err != nil {
			return false, err
		}
		s.best = best
		return false, nil
	}
	s.best = score
	return true, nil
}

// ResetBest clears the persisted best score. Only an explicit user action calls it.
func (s *Store) ResetBest() error {
	if _, err := s.db.Exec("DELETE FROM best_score"); err != nil {
		return fmt.Errorf("storage: cannot reset best score: %w", err)
	}
	s.mu.Lock()
	s.best = 0
	s.mu.Unlock()
	return nil
}

// ShapeStats contains aggregated statistics for one shape.
type ShapeStats struct {
	Shape      string
	Runs       int
	HighScore  int
	AvgScore   float64
	Deaths     map[string]int
	LastPlayed time.Time
}

// StatsByShape retrieves statistics for every shape that has been played.
func (s *Store) StatsByShape() (map[string]*ShapeStats, error) {
	rows, err := s.db.Query(
		`SELECT shape, COUNT(*), MAX(score), AVG(score), MAX(created_at)
		 FROM runs
		 GROUP BY shape`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get shape stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ShapeStats)
	for rows.Next() {
		st := &ShapeStats{Deaths: make(map[string]int)}
		var lastPlayed any
		if err := rows.Scan(&st.Shape, &st.Runs, &st.HighScore, &st.AvgScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.Shape] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	causes, err := s.db.Query(`SELECT shape, cause, COUNT(*) FROM runs GROUP BY shape, cause`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get death causes: %w", err)
	}
	defer causes.Close()
	for causes.Next() {
		var shape, cause string
		var n int
		if err := causes.Scan(&shape, &cause, &n); err != nil {
			return nil, fmt.Errorf("storage: cannot scan cause row: %w", err)
		}
		if st, ok := stats[shape]; ok {
			st.Deaths[cause] = n
		}
	}

	return stats, causes.Err()
}

// parseTime handles both time.Time and string datetime columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

var (
	_ game.ProgressStore = (*Store)(nil)
	_ game.RunRecorder   = (*Store)(nil)
)
