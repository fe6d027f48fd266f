package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/wordcrawl/internal/crawler"
)

// FileName is the name of the database file inside the database directory.
const FileName = "wordcrawl.db"

// storedTimeFormat is fixed-width so that timestamps sort as text.
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// RunDB stores finished crawl runs in SQLite.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the run archive in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file; mode=rwc creates it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// Path returns the database file path.
func (rdb *RunDB) Path() string {
	return rdb.dbPath
}

func (rdb *RunDB) createTables() error {
	schema := `
	-- One row per finished crawl
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		implementation TEXT NOT NULL,
		start_pages TEXT NOT NULL,
		urls_visited INTEGER NOT NULL,
		elapsed_ms INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

	-- The ranking of each run, one row per word
	CREATE TABLE IF NOT EXISTS run_words (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		rank INTEGER NOT NULL,
		word TEXT NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (run_id, rank)
	);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// Run is an archived crawl.
type Run struct {
	// ID is a UUID assigned by SaveRun when empty.
	ID             string
	StartedAt      time.Time
	Implementation string
	StartPages     []string
	URLsVisited    int
	Elapsed        time.Duration
	Words          crawler.RankedWords
}

// RunMetadata is a run without its ranking, for listings.
type RunMetadata struct {
	ID             string
	StartedAt      time.Time
	Implementation string
	StartPages     []string
	URLsVisited    int
	Elapsed        time.Duration
	WordCount      int
}

// SaveRun stores run and its ranking in a single transaction and returns its ID.
func (rdb *RunDB) SaveRun(ctx context.Context, run *Run) (id string, err error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	pagesJSON, err := json.Marshal(run.StartPages)
	if err != nil {
		return "", fmt.Errorf("failed to serialize start pages: %w", err)
	}

	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, started_at, implementation, start_pages, urls_visited, elapsed_ms)
	VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(storedTimeFormat),
		run.Implementation,
		string(pagesJSON),
		run.URLsVisited,
		run.Elapsed.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_words (run_id, rank, word, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare word insert: %w", err)
	}
	defer stmt.Close()

	for i, wc := range run.Words {
		if _, err = stmt.ExecContext(ctx, run.ID, i+1, wc.Word, wc.Count); err != nil {
			return "", fmt.Errorf("failed to insert word %q: %w", wc.Word, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return run.ID, nil
}

// ListRuns returns up to limit runs, newest first. A limit of zero or less returns all runs.
func (rdb *RunDB) ListRuns(ctx context.Context, limit int) ([]RunMetadata, error) {
	query := `
	SELECT r.id, r.started_at, r.implementation, r.start_pages, r.urls_visited, r.elapsed_ms,
		(SELECT COUNT(*) FROM run_words w WHERE w.run_id = r.id)
	FROM runs r
	ORDER BY r.started_at DESC, r.id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunMetadata
	for rows.Next() {
		var (
			meta      RunMetadata
			startedAt string
			pages     string
			elapsedMS int64
		)
		if err := rows.Scan(&meta.ID, &startedAt, &meta.Implementation, &pages, &meta.URLsVisited, &elapsedMS, &meta.WordCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		meta.StartedAt = parseTimestamp(startedAt)
		meta.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		if err := json.Unmarshal([]byte(pages), &meta.StartPages); err != nil {
			return nil, fmt.Errorf("failed to decode start pages of run %s: %w", meta.ID, err)
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

// GetRun returns the run whose ID is id or starts with id.
func (rdb *RunDB) GetRun(ctx context.Context, id string) (*Run, error) {
	fullID, err := rdb.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		run       Run
		startedAt string
		pages     string
		elapsedMS int64
	)
	err = rdb.db.QueryRowContext(ctx, `
	SELECT id, started_at, implementation, start_pages, urls_visited, elapsed_ms
	FROM runs WHERE id = ?`, fullID).
		Scan(&run.ID, &startedAt, &run.Implementation, &pages, &run.URLsVisited, &elapsedMS)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", fullID, err)
	}
	run.StartedAt = parseTimestamp(startedAt)
	run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	if err := json.Unmarshal([]byte(pages), &run.StartPages); err != nil {
		return nil, fmt.Errorf("failed to decode start pages of run %s: %w", fullID, err)
	}

	rows, err := rdb.db.QueryContext(ctx, `SELECT word, count FROM run_words WHERE run_id = ? ORDER BY rank`, fullID)
	if err != nil {
		return nil, fmt.Errorf("failed to query words of run %s: %w", fullID, err)
	}
	defer rows.Close()

	run.Words = crawler.RankedWords{}
	for rows.Next() {
		var wc crawler.WordCount
		if err := rows.Scan(&wc.Word, &wc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		run.Words = append(run.Words, wc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &run, nil
}

// DeleteRun removes a run and its ranking.
func (rdb *RunDB) DeleteRun(ctx context.Context, id string) error {
	fullID, err := rdb.resolveID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := rdb.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, fullID); err != nil {
		return fmt.Errorf("failed to delete run %s: %w", fullID, err)
	}
	return nil
}

// resolveID expands a unique ID prefix to the full run ID.
func (rdb *RunDB) resolveID(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrRunNotFound
	}

	// LIKE wildcards in the prefix are matched literally. An exact match sorts first.
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(id)
	rows, err := rdb.db.QueryContext(ctx,
		`SELECT id FROM runs WHERE id LIKE ? ESCAPE '\' ORDER BY length(id), id LIMIT 2`, escaped+"%")
	if err != nil {
		return "", fmt.Errorf("failed to look up run %s: %w", id, err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var match string
		if err := rows.Scan(&match); err != nil {
			return "", fmt.Errorf("failed to scan run id: %w", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return matches[0], nil
	default:
		if matches[0] == id {
			return id, nil
		}
		return "", fmt.Errorf("%w: %s", ErrAmbiguousRunID, id)
	}
}

// timestampFormats contains the timestamp formats that SQLite may return.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp parses a stored timestamp, returning the zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
