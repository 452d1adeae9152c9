package tray

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/codalotl/textdiff/internal/textdiff"
)

// LastKey is the state key holding the most recent comparison.
const LastKey = "last"

// Session is the most recent comparison: both texts and the options used.
type Session struct {
	OldText string          `json:"old_text"`
	NewText string          `json:"new_text"`
	Config  textdiff.Config `json:"config"`
}

// SaveState stores value under key, replacing any previous value.
func (s *Store) SaveState(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("tray: save state %q: %w", key, err)
	}
	return nil
}

// LoadState returns the value stored under key. ok is false if nothing is stored.
func (s *Store) LoadState(ctx context.Context, key string) (value []byte, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("tray: load state %q: %w", key, err)
	}
	return value, true, nil
}

// SaveSession stores sess as the last comparison.
func (s *Store) SaveSession(ctx context.Context, sess Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("tray: encode session: %w", err)
	}
	return s.SaveState(ctx, LastKey, b)
}

// LoadSession returns the last comparison. ok is false if none was saved.
func (s *Store) LoadSession(ctx context.Context) (sess Session, ok bool, err error) {
	b, ok, err := s.LoadState(ctx, LastKey)
	if err != nil || !ok {
		return Session{}, ok, err
	}
	if err := json.Unmarshal(b, &sess); err != nil {
		return Session{}, false, fmt.Errorf("tray: decode session: %w", err)
	}
	return sess, true, nil
}
