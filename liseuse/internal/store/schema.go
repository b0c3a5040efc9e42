package store

// Schema contains the complete DDL for the library tables.
const Schema = `
-- Books: one row per ingested source file. Immutable once created;
-- a book and all its pages are written in a single transaction.
CREATE TABLE IF NOT EXISTS books (
    id            TEXT PRIMARY KEY,
    title         TEXT NOT NULL UNIQUE,
    page_count    INTEGER NOT NULL,
    source_format TEXT NOT NULL DEFAULT '',
    created_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_books_title ON books(title);

-- Pages: ordered fixed-size slices of a book's text, positions 1..N
-- contiguous. Never mutated or deleted individually.
CREATE TABLE IF NOT EXISTS book_pages (
    book_id  TEXT NOT NULL,
    position INTEGER NOT NULL,
    text     TEXT NOT NULL,
    PRIMARY KEY (book_id, position),
    FOREIGN KEY (book_id) REFERENCES books(id) ON DELETE CASCADE
);

-- Readers: created on first contact, keyed by the platform identity the
-- transport hands us.
CREATE TABLE IF NOT EXISTS readers (
    id         TEXT PRIMARY KEY,
    handle     TEXT NOT NULL DEFAULT '',
    first_name TEXT NOT NULL DEFAULT '',
    last_name  TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

-- Progress: at most one position per (reader, book). last_page is
-- 0-indexed and always within [0, page_count).
CREATE TABLE IF NOT EXISTS progress (
    reader_id  TEXT NOT NULL,
    book_id    TEXT NOT NULL,
    last_page  INTEGER NOT NULL DEFAULT 0,
    updated_at INTEGER NOT NULL,
    PRIMARY KEY (reader_id, book_id),
    FOREIGN KEY (reader_id) REFERENCES readers(id) ON DELETE CASCADE,
    FOREIGN KEY (book_id)   REFERENCES books(id)   ON DELETE CASCADE
);

-- Bookmarks: many per (reader, book), duplicates on the same page allowed.
CREATE TABLE IF NOT EXISTS bookmarks (
    id         TEXT PRIMARY KEY,
    reader_id  TEXT NOT NULL,
    book_id    TEXT NOT NULL,
    page_index INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (reader_id) REFERENCES readers(id) ON DELETE CASCADE,
    FOREIGN KEY (book_id)   REFERENCES books(id)   ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_bookmarks_reader_book ON bookmarks(reader_id, book_id, page_index);
`
