package liseuse

import (
	"context"
	"fmt"

	"github.com/hazyhaar/liseuse/liseuse/internal/store"
	"github.com/hazyhaar/liseuse/observability"
)

// View is one rendered page of a book for one reader: the text plus
// everything a client needs to draw navigation controls.
type View struct {
	BookID       string `json:"book_id"`
	Title        string `json:"title"`
	PageText     string `json:"page_text"`
	PageIndex    int    `json:"page_index"`
	PageCount    int    `json:"page_count"`
	CanGoBack    bool   `json:"can_go_back"`
	CanGoForward bool   `json:"can_go_forward"`
}

// EnsureReader registers a reader on first contact or refreshes the display
// attributes of a known one.
func (svc *Service) EnsureReader(ctx context.Context, r *store.Reader) error {
	created, err := svc.store.EnsureReader(ctx, r)
	if err != nil {
		return fmt.Errorf("ensure reader: %w", err)
	}
	if created {
		svc.logger.Info("reader registered", "reader_id", r.ID, "handle", r.Handle)
		svc.logEvent(ctx, observability.BusinessEvent{
			EventType:  "reader_registered",
			EntityType: "reader",
			EntityID:   r.ID,
			ReaderID:   r.ID,
			Action:     "register",
			Success:    true,
		})
	}
	return nil
}

// requireReader rejects operations for ids that were never registered,
// before they surface as foreign-key failures on the progress table.
func (svc *Service) requireReader(ctx context.Context, readerID string) error {
	r, err := svc.store.GetReader(ctx, readerID)
	if err != nil {
		return fmt.Errorf("get reader: %w", err)
	}
	if r == nil {
		return ErrReaderNotFound
	}
	return nil
}

// Books lists the library, ordered by title.
func (svc *Service) Books(ctx context.Context) ([]*store.Book, error) {
	return svc.store.ListBooks(ctx)
}

// Open resumes a book at the reader's saved page, or at page 0 on first
// open. The progress row is created here; every later navigation assumes
// it exists.
func (svc *Service) Open(ctx context.Context, readerID, bookID string) (*View, error) {
	if err := svc.requireReader(ctx, readerID); err != nil {
		return nil, err
	}
	book, err := svc.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	prog, err := svc.store.GetOrCreateProgress(ctx, readerID, bookID)
	if err != nil {
		return nil, fmt.Errorf("progress: %w", err)
	}
	svc.logEvent(ctx, observability.BusinessEvent{
		EventType:  "book_opened",
		EntityType: "book",
		EntityID:   bookID,
		ReaderID:   readerID,
		Action:     "open",
		Success:    true,
	})
	return svc.render(ctx, book, prog.LastPage)
}

// OpenByTitle resolves a title to a book and opens it.
func (svc *Service) OpenByTitle(ctx context.Context, readerID, title string) (*View, error) {
	book, err := svc.store.GetBookByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("get book by title: %w", err)
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	return svc.Open(ctx, readerID, book.ID)
}

// Forward moves the reader one page ahead, clamped at the last page.
func (svc *Service) Forward(ctx context.Context, readerID, bookID string) (*View, error) {
	return svc.advance(ctx, readerID, bookID, +1)
}

// Backward moves the reader one page back, clamped at page 0.
func (svc *Service) Backward(ctx context.Context, readerID, bookID string) (*View, error) {
	return svc.advance(ctx, readerID, bookID, -1)
}

func (svc *Service) advance(ctx context.Context, readerID, bookID string, delta int) (*View, error) {
	if err := svc.requireReader(ctx, readerID); err != nil {
		return nil, err
	}
	book, err := svc.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	page, ok, err := svc.store.Advance(ctx, readerID, bookID, delta)
	if err != nil {
		return nil, fmt.Errorf("advance: %w", err)
	}
	if !ok {
		// Navigating a never-opened book: start it, then move.
		if _, err := svc.store.GetOrCreateProgress(ctx, readerID, bookID); err != nil {
			return nil, fmt.Errorf("progress: %w", err)
		}
		page, _, err = svc.store.Advance(ctx, readerID, bookID, delta)
		if err != nil {
			return nil, fmt.Errorf("advance: %w", err)
		}
	}
	svc.logEvent(ctx, observability.BusinessEvent{
		EventType:  "page_turned",
		EntityType: "book",
		EntityID:   bookID,
		ReaderID:   readerID,
		Action:     "navigate",
		Details:    fmt.Sprintf(`{"delta":%d,"page":%d}`, delta, page),
		Success:    true,
	})
	return svc.render(ctx, book, page)
}

// JumpToPage sets the reader's position directly, clamped to the book's
// page range.
func (svc *Service) JumpToPage(ctx context.Context, readerID, bookID string, pageIndex int) (*View, error) {
	if err := svc.requireReader(ctx, readerID); err != nil {
		return nil, err
	}
	book, err := svc.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	page, err := svc.store.SetPage(ctx, readerID, bookID, pageIndex)
	if err != nil {
		return nil, fmt.Errorf("set page: %w", err)
	}
	return svc.render(ctx, book, page)
}

// JumpToBookmark moves the reader to a saved bookmark's page. The bookmark
// must belong to the reader; anyone else's id yields ErrBookmarkNotFound.
func (svc *Service) JumpToBookmark(ctx context.Context, readerID, bookmarkID string) (*View, error) {
	bm, err := svc.store.GetBookmark(ctx, readerID, bookmarkID)
	if err != nil {
		return nil, fmt.Errorf("get bookmark: %w", err)
	}
	if bm == nil {
		return nil, ErrBookmarkNotFound
	}
	view, err := svc.JumpToPage(ctx, readerID, bm.BookID, bm.PageIndex)
	if err != nil {
		return nil, err
	}
	svc.logEvent(ctx, observability.BusinessEvent{
		EventType:  "bookmark_followed",
		EntityType: "bookmark",
		EntityID:   bm.ID,
		ReaderID:   readerID,
		Action:     "jump",
		Success:    true,
	})
	return view, nil
}

// BookmarkCurrentPage saves the reader's current page in a book. Returns
// the new bookmark id.
func (svc *Service) BookmarkCurrentPage(ctx context.Context, readerID, bookID string) (string, error) {
	if err := svc.requireReader(ctx, readerID); err != nil {
		return "", err
	}
	book, err := svc.store.GetBook(ctx, bookID)
	if err != nil {
		return "", fmt.Errorf("get book: %w", err)
	}
	if book == nil {
		return "", ErrBookNotFound
	}
	prog, err := svc.store.GetOrCreateProgress(ctx, readerID, bookID)
	if err != nil {
		return "", fmt.Errorf("progress: %w", err)
	}
	bm := &store.Bookmark{
		ID:        svc.newID(),
		ReaderID:  readerID,
		BookID:    bookID,
		PageIndex: prog.LastPage,
	}
	if err := svc.store.AddBookmark(ctx, bm); err != nil {
		return "", fmt.Errorf("add bookmark: %w", err)
	}
	svc.logEvent(ctx, observability.BusinessEvent{
		EventType:  "bookmark_added",
		EntityType: "bookmark",
		EntityID:   bm.ID,
		ReaderID:   readerID,
		Action:     "add",
		Details:    fmt.Sprintf(`{"book_id":%q,"page":%d}`, bookID, bm.PageIndex),
		Success:    true,
	})
	return bm.ID, nil
}

// Bookmarks lists the reader's bookmarks in a book, each with a short text
// preview of its page.
func (svc *Service) Bookmarks(ctx context.Context, readerID, bookID string) ([]*store.BookmarkEntry, error) {
	return svc.store.ListBookmarks(ctx, readerID, bookID, svc.config.PreviewLen)
}

// RemoveBookmark deletes a bookmark owned by the reader. A stale or foreign
// id yields ErrBookmarkNotFound.
func (svc *Service) RemoveBookmark(ctx context.Context, readerID, bookmarkID string) error {
	deleted, err := svc.store.DeleteBookmark(ctx, readerID, bookmarkID)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	if !deleted {
		return ErrBookmarkNotFound
	}
	svc.logEvent(ctx, observability.BusinessEvent{
		EventType:  "bookmark_removed",
		EntityType: "bookmark",
		EntityID:   bookmarkID,
		ReaderID:   readerID,
		Action:     "remove",
		Success:    true,
	})
	return nil
}

func (svc *Service) render(ctx context.Context, book *store.Book, pageIndex int) (*View, error) {
	text, ok, err := svc.store.GetPageText(ctx, book.ID, pageIndex)
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	if !ok {
		return nil, ErrPageNotFound
	}
	return &View{
		BookID:       book.ID,
		Title:        book.Title,
		PageText:     text,
		PageIndex:    pageIndex,
		PageCount:    book.PageCount,
		CanGoBack:    pageIndex > 0,
		CanGoForward: pageIndex < book.PageCount-1,
	}, nil
}
