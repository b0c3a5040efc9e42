// Package store provides the SQLite persistence layer for the liseuse
// library: books, their fixed-size pages, readers, reading progress, and
// bookmarks.
package store

import (
	"database/sql"
	"errors"

	"github.com/hazyhaar/liseuse/dbopen"
)

// ErrDuplicateTitle is returned when inserting a book whose title already
// exists. The UNIQUE constraint on books.title is the authoritative guard:
// two concurrent ingestions of the same title cannot both commit.
var ErrDuplicateTitle = errors.New("store: book with this title already exists")

// Store is the library database handle.
type Store struct {
	DB *sql.DB
}

// Open opens (or creates) the library SQLite database at path, applies the
// production pragmas and the schema.
func Open(path string, opts ...dbopen.Option) (*Store, error) {
	allOpts := append([]dbopen.Option{
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(Schema),
	}, opts...)

	db, err := dbopen.Open(path, allOpts...)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}
