// Package history keeps a journal of the moves autofolder performed, stored
// in a SQLite database inside the vault's .autofolder directory.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aidanlsb/autofolder/internal/config"
	"github.com/aidanlsb/autofolder/internal/paths"
	"github.com/aidanlsb/autofolder/internal/sqlutil"
)

// DBFile is the journal file name inside config.DataDir.
const DBFile = "history.db"

// SchemaVersion is the current journal schema version.
const SchemaVersion = 1

// Trigger names what started a move.
type Trigger string

const (
	TriggerAuto   Trigger = "auto"
	TriggerManual Trigger = "manual"
)

// Entry is one recorded move.
type Entry struct {
	ID      int64     `json:"id"`
	At      time.Time `json:"at"`
	Trigger Trigger   `json:"trigger"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	Source  string    `json:"source"`
	Link    string    `json:"link,omitempty"`
}

// Journal is the move journal of one vault.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal of the vault at vaultPath.
func Open(vaultPath string) (*Journal, error) {
	dir := filepath.Join(vaultPath, config.DataDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", config.DataDir, err)
	}
	return OpenPath(filepath.Join(dir, DBFile))
}

// OpenPath opens or creates a journal database at path.
func OpenPath(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	// A single connection serializes writers from the watcher and the CLI.
	db.SetMaxOpenConns(1)

	j := &Journal{db: db}
	if err := j.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) initialize() error {
	schema := `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS moves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			moved_at INTEGER NOT NULL,
			trigger_kind TEXT NOT NULL,
			from_path TEXT NOT NULL,
			to_path TEXT NOT NULL,
			source_path TEXT NOT NULL,
			link TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_moves_moved_at ON moves(moved_at);
		CREATE INDEX IF NOT EXISTS idx_moves_to_path ON moves(to_path);
	`
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	_, err := j.db.Exec(
		`INSERT INTO meta (key, value) VALUES ('version', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		fmt.Sprintf("%d", SchemaVersion),
	)
	if err != nil {
		return fmt.Errorf("failed to record journal version: %w", err)
	}
	return nil
}

// Close closes the journal.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends a move to the journal. A zero At is set to now.
func (j *Journal) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	e.At = e.At.UTC()

	res, err := j.db.ExecContext(ctx,
		`INSERT INTO moves (moved_at, trigger_kind, from_path, to_path, source_path, link)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.At.UnixMilli(), string(e.Trigger), e.From, e.To, e.Source, e.Link,
	)
	if err != nil {
		return e, fmt.Errorf("failed to record move: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		e.ID = id
	}
	return e, nil
}

// List returns up to limit entries, newest first. A limit <= 0 returns all.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	return j.query(ctx, "", nil, limit)
}

// ListForNotes returns moves whose origin or destination is one of notes,
// newest first.
func (j *Journal) ListForNotes(ctx context.Context, notes []string, limit int) ([]Entry, error) {
	normalized := make([]string, 0, len(notes))
	for _, n := range notes {
		normalized = append(normalized, paths.Normalize(n))
	}
	ph, args := sqlutil.InClauseArgs(normalized)
	where := fmt.Sprintf("WHERE from_path IN (%s) OR to_path IN (%s)", ph, ph)
	return j.query(ctx, where, append(args, args...), limit)
}

func (j *Journal) query(ctx context.Context, where string, args []any, limit int) ([]Entry, error) {
	query := `SELECT id, moved_at, trigger_kind, from_path, to_path, source_path, link
		FROM moves ` + where + ` ORDER BY moved_at DESC, id DESC`
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	entries, err := sqlutil.ScanRows(rows, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e       Entry
		movedAt int64
		trigger string
	)
	if err := rows.Scan(&e.ID, &movedAt, &trigger, &e.From, &e.To, &e.Source, &e.Link); err != nil {
		return e, err
	}
	e.At = time.UnixMilli(movedAt).UTC()
	e.Trigger = Trigger(trigger)
	return e, nil
}
