package store

import (
	"context"
	"time"
)

// Bookmark is a saved (reader, book, page) reference.
type Bookmark struct {
	ID        string `json:"id"`
	ReaderID  string `json:"reader_id"`
	BookID    string `json:"book_id"`
	PageIndex int    `json:"page_index"`
	CreatedAt int64  `json:"created_at"`
}

// BookmarkEntry is a bookmark joined with a snippet of its page, for
// listing.
type BookmarkEntry struct {
	ID        string `json:"id"`
	PageIndex int    `json:"page_index"`
	Preview   string `json:"preview"`
}

// AddBookmark stores a bookmark. Duplicate page bookmarks are allowed;
// callers dedupe if they care.
func (s *Store) AddBookmark(ctx context.Context, b *Bookmark) error {
	if b.CreatedAt == 0 {
		b.CreatedAt = time.Now().Unix()
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO bookmarks (id, reader_id, book_id, page_index, created_at)
		VALUES (?,?,?,?,?)`,
		b.ID, b.ReaderID, b.BookID, b.PageIndex, b.CreatedAt)
	return err
}

// GetBookmark returns a bookmark by id scoped to its owner, or nil if the
// id is unknown or belongs to another reader.
func (s *Store) GetBookmark(ctx context.Context, readerID, bookmarkID string) (*Bookmark, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, reader_id, book_id, page_index, created_at
		FROM bookmarks WHERE id = ? AND reader_id = ?`, bookmarkID, readerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	b := &Bookmark{}
	if err := rows.Scan(&b.ID, &b.ReaderID, &b.BookID, &b.PageIndex, &b.CreatedAt); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBookmark removes a bookmark owned by readerID. Returns false if no
// such bookmark exists for that reader.
func (s *Store) DeleteBookmark(ctx context.Context, readerID, bookmarkID string) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `
		DELETE FROM bookmarks WHERE id = ? AND reader_id = ?`, bookmarkID, readerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListBookmarks returns the reader's bookmarks for a book ordered by page,
// each with a preview cut from the bookmarked page's text.
func (s *Store) ListBookmarks(ctx context.Context, readerID, bookID string, previewLen int) ([]*BookmarkEntry, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT b.id, b.page_index, COALESCE(SUBSTR(p.text, 1, ?), '')
		FROM bookmarks b
		LEFT JOIN book_pages p ON p.book_id = b.book_id AND p.position = b.page_index + 1
		WHERE b.reader_id = ? AND b.book_id = ?
		ORDER BY b.page_index, b.created_at`,
		previewLen, readerID, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*BookmarkEntry
	for rows.Next() {
		e := &BookmarkEntry{}
		if err := rows.Scan(&e.ID, &e.PageIndex, &e.Preview); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
