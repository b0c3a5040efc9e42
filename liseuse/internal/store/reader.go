package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Reader is a registered user of the library, keyed by the identity the
// transport layer tags intents with.
type Reader struct {
	ID        string `json:"id"`
	Handle    string `json:"handle,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// EnsureReader creates the reader on first contact or refreshes the display
// attributes of an existing one. Empty incoming attributes never overwrite
// stored ones: callers that only know the reader's id (tool surfaces,
// navigation) must not erase what registration recorded. Returns true if
// the row was created. The upsert itself is atomic; the created flag is
// informational only.
func (s *Store) EnsureReader(ctx context.Context, r *Reader) (bool, error) {
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().Unix()
	}

	existing, err := s.GetReader(ctx, r.ID)
	if err != nil {
		return false, err
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO readers (id, handle, first_name, last_name, created_at)
		VALUES (?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			handle     = CASE WHEN excluded.handle     <> '' THEN excluded.handle     ELSE handle     END,
			first_name = CASE WHEN excluded.first_name <> '' THEN excluded.first_name ELSE first_name END,
			last_name  = CASE WHEN excluded.last_name  <> '' THEN excluded.last_name  ELSE last_name  END`,
		r.ID, r.Handle, r.FirstName, r.LastName, r.CreatedAt)
	if err != nil {
		return false, err
	}
	return existing == nil, nil
}

// GetReader returns a reader by id, or nil if absent.
func (s *Store) GetReader(ctx context.Context, id string) (*Reader, error) {
	r := &Reader{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, handle, first_name, last_name, created_at
		FROM readers WHERE id = ?`, id).
		Scan(&r.ID, &r.Handle, &r.FirstName, &r.LastName, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}
