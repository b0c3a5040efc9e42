package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/hazyhaar/liseuse/dbopen"
)

// Book is one ingested source file.
type Book struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	PageCount    int    `json:"page_count"`
	SourceFormat string `json:"source_format,omitempty"`
	CreatedAt    int64  `json:"created_at"`
}

// CreateBookWithPages inserts a book and all of its pages in a single
// transaction, retried on SQLITE_BUSY. Page positions are assigned
// 1..len(pages) in slice order. If a book with the same title already
// exists, nothing is written and ErrDuplicateTitle is returned.
func (s *Store) CreateBookWithPages(ctx context.Context, b *Book, pages []string) error {
	if b.CreatedAt == 0 {
		b.CreatedAt = time.Now().Unix()
	}
	b.PageCount = len(pages)

	return dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO books (id, title, page_count, source_format, created_at)
			VALUES (?,?,?,?,?)`,
			b.ID, b.Title, b.PageCount, b.SourceFormat, b.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateTitle
			}
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO book_pages (book_id, position, text) VALUES (?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, text := range pages {
			if _, err := stmt.ExecContext(ctx, b.ID, i+1, text); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetBook returns a book by id, or nil if absent.
func (s *Store) GetBook(ctx context.Context, id string) (*Book, error) {
	return s.scanBook(s.DB.QueryRowContext(ctx, `
		SELECT id, title, page_count, source_format, created_at
		FROM books WHERE id = ?`, id))
}

// GetBookByTitle returns a book by its unique title, or nil if absent.
func (s *Store) GetBookByTitle(ctx context.Context, title string) (*Book, error) {
	return s.scanBook(s.DB.QueryRowContext(ctx, `
		SELECT id, title, page_count, source_format, created_at
		FROM books WHERE title = ?`, title))
}

func (s *Store) scanBook(row *sql.Row) (*Book, error) {
	b := &Book{}
	err := row.Scan(&b.ID, &b.Title, &b.PageCount, &b.SourceFormat, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooks returns all books ordered by title.
func (s *Store) ListBooks(ctx context.Context) ([]*Book, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, title, page_count, source_format, created_at
		FROM books ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		b := &Book{}
		if err := rows.Scan(&b.ID, &b.Title, &b.PageCount, &b.SourceFormat, &b.CreatedAt); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// GetPageText returns the text of the page at the 0-indexed pageIndex.
// The second return is false if the book or page does not exist.
func (s *Store) GetPageText(ctx context.Context, bookID string, pageIndex int) (string, bool, error) {
	var text string
	err := s.DB.QueryRowContext(ctx, `
		SELECT text FROM book_pages WHERE book_id = ? AND position = ?`,
		bookID, pageIndex+1).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// isUniqueViolation reports whether err is an SQLite UNIQUE constraint
// failure. modernc.org/sqlite surfaces these as text, not typed errors.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
