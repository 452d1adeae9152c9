// Package tray persists saved texts ("snippets") and the last comparison in a small SQLite database.
//
// The snippet list behaves like a bounded, newest-first shelf: adding a text that is already saved fails with ErrDuplicate, and once MaxSnippets are stored the oldest is
// dropped.
package tray

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/codalotl/textdiff/internal/simplelogger"
)

// MaxSnippets is the number of snippets kept.
const MaxSnippets = 20

// PreviewRunes is the length at which Snippet.Preview truncates.
const PreviewRunes = 100

var (
	ErrEmpty     = errors.New("tray: text is empty")
	ErrDuplicate = errors.New("tray: text is already saved")
	ErrNotFound  = errors.New("tray: no such snippet")
)

// Schema creates the tray tables. It is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS snippets (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	text       TEXT    NOT NULL UNIQUE,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS state (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// Snippet is a saved text.
type Snippet struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Preview returns the first PreviewRunes runes of the text, followed by "..." if it was cut.
func (s Snippet) Preview() string {
	return Truncate(s.Text, PreviewRunes)
}

// Truncate returns the first n runes of text, followed by "..." if text was longer.
func Truncate(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}

// Store is a tray database. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
	log func(format string, args ...any)
}

// Open opens (creating if needed) the tray database at path. path may be ":memory:", which keeps the tray for the life of the Store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("tray: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("tray: open: %w", err)
	}
	// Each connection to ":memory:" is a separate database; one writer suffices for a local CLI anyway.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		Schema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("tray: init: %w", err)
		}
	}

	return &Store{db: db, now: time.Now, log: simplelogger.For("tray")}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add saves text, trimmed of surrounding whitespace, as the newest snippet. It returns ErrEmpty for blank text and ErrDuplicate if the trimmed text is already saved. Snippets
// beyond MaxSnippets are removed, oldest first.
func (s *Store) Add(ctx context.Context, text string) (Snippet, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Snippet{}, ErrEmpty
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snippet{}, fmt.Errorf("tray: add: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM snippets WHERE text = ?`, text).Scan(&exists)
	switch {
	case err == nil:
		return Snippet{}, ErrDuplicate
	case !errors.Is(err, sql.ErrNoRows):
		return Snippet{}, fmt.Errorf("tray: add: %w", err)
	}

	created := s.now().UTC()
	res, err := tx.ExecContext(ctx, `INSERT INTO snippets (text, created_at) VALUES (?, ?)`, text, created.UnixMilli())
	if err != nil {
		return Snippet{}, fmt.Errorf("tray: add: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Snippet{}, fmt.Errorf("tray: add: %w", err)
	}

	trimmed, err := tx.ExecContext(ctx, `
		DELETE FROM snippets WHERE id NOT IN (
			SELECT id FROM snippets ORDER BY created_at DESC, id DESC LIMIT ?
		)`, MaxSnippets)
	if err != nil {
		return Snippet{}, fmt.Errorf("tray: trim: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Snippet{}, fmt.Errorf("tray: add: %w", err)
	}
	if n, _ := trimmed.RowsAffected(); n > 0 {
		s.log("dropped %d oldest snippet(s)", n)
	}
	s.log("added snippet %d (%d bytes)", id, len(text))

	return Snippet{ID: id, Text: text, CreatedAt: time.UnixMilli(created.UnixMilli()).UTC()}, nil
}

// List returns all snippets, newest first.
func (s *Store) List(ctx context.Context) ([]Snippet, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, text, created_at FROM snippets ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("tray: list: %w", err)
	}
	defer rows.Close()

	var out []Snippet
	for rows.Next() {
		sn, err := scanSnippet(rows)
		if err != nil {
			return nil, fmt.Errorf("tray: list: %w", err)
		}
		out = append(out, sn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tray: list: %w", err)
	}
	return out, nil
}

// Get returns the snippet with id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (Snippet, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, text, created_at FROM snippets WHERE id = ?`, id)
	sn, err := scanSnippet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snippet{}, ErrNotFound
	}
	if err != nil {
		return Snippet{}, fmt.Errorf("tray: get %d: %w", id, err)
	}
	return sn, nil
}

// Remove deletes the snippet with id, or returns ErrNotFound.
func (s *Store) Remove(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snippets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("tray: remove %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("tray: remove %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	s.log("removed snippet %d", id)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnippet(sc scanner) (Snippet, error) {
	var sn Snippet
	var created int64
	if err := sc.Scan(&sn.ID, &sn.Text, &created); err != nil {
		return Snippet{}, err
	}
	sn.CreatedAt = time.UnixMilli(created).UTC()
	return sn, nil
}
