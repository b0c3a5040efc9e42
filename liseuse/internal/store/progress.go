package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hazyhaar/liseuse/dbopen"
)

// Progress is a reader's current position within a book. LastPage is
// 0-indexed.
type Progress struct {
	ReaderID  string `json:"reader_id"`
	BookID    string `json:"book_id"`
	LastPage  int    `json:"last_page"`
	UpdatedAt int64  `json:"updated_at"`
}

// GetOrCreateProgress returns the reader's progress row for a book,
// creating it at page 0 if missing. The INSERT .. ON CONFLICT DO NOTHING
// makes concurrent first-opens by the same reader converge on one row.
func (s *Store) GetOrCreateProgress(ctx context.Context, readerID, bookID string) (*Progress, error) {
	now := time.Now().Unix()
	if _, err := dbopen.Exec(ctx, s.DB, `
		INSERT INTO progress (reader_id, book_id, last_page, updated_at)
		VALUES (?,?,0,?)
		ON CONFLICT(reader_id, book_id) DO NOTHING`,
		readerID, bookID, now); err != nil {
		return nil, err
	}

	p := &Progress{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT reader_id, book_id, last_page, updated_at
		FROM progress WHERE reader_id = ? AND book_id = ?`,
		readerID, bookID).
		Scan(&p.ReaderID, &p.BookID, &p.LastPage, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Advance moves the reader's position by delta (-1 or +1), clamped to
// [0, page_count-1], and returns the new 0-indexed page. The clamp and the
// increment happen inside one UPDATE statement: concurrent turns from the
// same reader serialize on the row and never lose an increment. Busy
// conflicts are retried through dbopen.RunTx.
// The second return is false when no progress row exists.
func (s *Store) Advance(ctx context.Context, readerID, bookID string, delta int) (int, bool, error) {
	var (
		newPage int
		found   bool
	)
	err := dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		found = false
		err := tx.QueryRowContext(ctx, `
			UPDATE progress
			SET last_page = MAX(0, MIN(
				last_page + ?,
				(SELECT page_count - 1 FROM books WHERE id = progress.book_id)
			)),
			    updated_at = ?
			WHERE reader_id = ? AND book_id = ?
			RETURNING last_page`,
			delta, time.Now().Unix(), readerID, bookID).Scan(&newPage)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return newPage, found, nil
}

// SetPage sets the reader's position to an absolute 0-indexed page, clamped
// to the book's page range. Creates the progress row if missing.
func (s *Store) SetPage(ctx context.Context, readerID, bookID string, page int) (int, error) {
	now := time.Now().Unix()
	var newPage int
	err := dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `
			INSERT INTO progress (reader_id, book_id, last_page, updated_at)
			VALUES (?, ?, MAX(0, MIN(?, (SELECT page_count - 1 FROM books WHERE id = ?))), ?)
			ON CONFLICT(reader_id, book_id) DO UPDATE SET
				last_page  = excluded.last_page,
				updated_at = excluded.updated_at
			RETURNING last_page`,
			readerID, bookID, page, bookID, now).Scan(&newPage)
	})
	if err != nil {
		return 0, err
	}
	return newPage, nil
}
