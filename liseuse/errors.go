package liseuse

import "errors"

// ErrBookNotFound is returned when a book id or title is unknown.
var ErrBookNotFound = errors.New("liseuse: book not found")

// ErrPageNotFound is returned when a page index has no row. With intact
// invariants (positions 1..N contiguous, progress clamped) this indicates
// a corrupted store, not a user mistake.
var ErrPageNotFound = errors.New("liseuse: page not found")

// ErrBookmarkNotFound is returned when a bookmark id is unknown or owned
// by another reader. Removal of an absent bookmark surfaces this rather
// than succeeding silently: callers re-render their bookmark list and
// need to know the id was stale.
var ErrBookmarkNotFound = errors.New("liseuse: bookmark not found")

// ErrReaderNotFound is returned when a reader id has never been registered.
var ErrReaderNotFound = errors.New("liseuse: reader not found")
