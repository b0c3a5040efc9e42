package store

import (
	"context"
	"sync"
	"testing"
)

func progressFixture(t *testing.T) *Store {
	t.Helper()
	s := testStore(t)
	seedBook(t, s, "bk_1", "Sample", []string{"p0", "p1", "p2", "p3", "p4"})
	seedReader(t, s, "rd_1")
	return s
}

func TestGetOrCreateProgress(t *testing.T) {
	s := progressFixture(t)
	ctx := context.Background()

	p, err := s.GetOrCreateProgress(ctx, "rd_1", "bk_1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.LastPage != 0 {
		t.Errorf("LastPage: got %d, want 0", p.LastPage)
	}

	// Second call returns the same row, not a reset.
	if _, err := s.SetPage(ctx, "rd_1", "bk_1", 3); err != nil {
		t.Fatalf("set: %v", err)
	}
	p, err = s.GetOrCreateProgress(ctx, "rd_1", "bk_1")
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if p.LastPage != 3 {
		t.Errorf("LastPage after set: got %d, want 3", p.LastPage)
	}
}

func TestAdvanceClamping(t *testing.T) {
	s := progressFixture(t)
	ctx := context.Background()

	if _, err := s.GetOrCreateProgress(ctx, "rd_1", "bk_1"); err != nil {
		t.Fatal(err)
	}

	// Backward at page 0 stays at 0, repeatedly.
	for range 3 {
		page, ok, err := s.Advance(ctx, "rd_1", "bk_1", -1)
		if err != nil {
			t.Fatalf("advance -1: %v", err)
		}
		if !ok {
			t.Fatal("advance -1: no row")
		}
		if page != 0 {
			t.Errorf("backward at start: got %d, want 0", page)
		}
	}

	// Forward walks to the last page and stops there.
	want := []int{1, 2, 3, 4, 4, 4}
	for i, w := range want {
		page, ok, err := s.Advance(ctx, "rd_1", "bk_1", +1)
		if err != nil {
			t.Fatalf("advance +1 (%d): %v", i, err)
		}
		if !ok {
			t.Fatal("advance +1: no row")
		}
		if page != w {
			t.Errorf("forward %d: got %d, want %d", i, page, w)
		}
	}
}

func TestAdvanceWithoutRow(t *testing.T) {
	s := progressFixture(t)

	_, ok, err := s.Advance(context.Background(), "rd_1", "bk_1", +1)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if ok {
		t.Error("advance without progress row: ok = true")
	}
}

func TestConcurrentAdvanceLosesNoUpdates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	pages := make([]string, 12)
	for i := range pages {
		pages[i] = "p"
	}
	seedBook(t, s, "bk_1", "Long", pages)
	seedReader(t, s, "rd_1")
	if _, err := s.GetOrCreateProgress(ctx, "rd_1", "bk_1"); err != nil {
		t.Fatal(err)
	}

	const turns = 10
	var wg sync.WaitGroup
	errs := make(chan error, turns)
	for range turns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := s.Advance(ctx, "rd_1", "bk_1", +1); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent advance: %v", err)
	}

	p, err := s.GetOrCreateProgress(ctx, "rd_1", "bk_1")
	if err != nil {
		t.Fatal(err)
	}
	if p.LastPage != turns {
		t.Errorf("final page: got %d, want %d", p.LastPage, turns)
	}
}

func TestSetPageClamps(t *testing.T) {
	s := progressFixture(t)
	ctx := context.Background()

	page, err := s.SetPage(ctx, "rd_1", "bk_1", 99)
	if err != nil {
		t.Fatalf("set high: %v", err)
	}
	if page != 4 {
		t.Errorf("set 99: got %d, want 4", page)
	}

	page, err = s.SetPage(ctx, "rd_1", "bk_1", -7)
	if err != nil {
		t.Fatalf("set low: %v", err)
	}
	if page != 0 {
		t.Errorf("set -7: got %d, want 0", page)
	}
}

func TestBookmarkLifecycle(t *testing.T) {
	s := progressFixture(t)
	ctx := context.Background()

	bm := &Bookmark{ID: "bm_1", ReaderID: "rd_1", BookID: "bk_1", PageIndex: 2}
	if err := s.AddBookmark(ctx, bm); err != nil {
		t.Fatalf("add: %v", err)
	}

	entries, err := s.ListBookmarks(ctx, "rd_1", "bk_1", 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("list: got %d entries, want 1", len(entries))
	}
	if entries[0].PageIndex != 2 {
		t.Errorf("PageIndex: got %d, want 2", entries[0].PageIndex)
	}
	if entries[0].Preview != "p2" {
		t.Errorf("Preview: got %q, want %q", entries[0].Preview, "p2")
	}

	// Duplicates on the same page are allowed.
	if err := s.AddBookmark(ctx, &Bookmark{ID: "bm_2", ReaderID: "rd_1", BookID: "bk_1", PageIndex: 2}); err != nil {
		t.Fatalf("add duplicate page: %v", err)
	}
	entries, _ = s.ListBookmarks(ctx, "rd_1", "bk_1", 20)
	if len(entries) != 2 {
		t.Fatalf("list after dup: got %d, want 2", len(entries))
	}

	deleted, err := s.DeleteBookmark(ctx, "rd_1", "bm_1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Error("delete: got false")
	}

	deleted, err = s.DeleteBookmark(ctx, "rd_1", "bm_1")
	if err != nil {
		t.Fatalf("delete again: %v", err)
	}
	if deleted {
		t.Error("delete absent: got true")
	}

	entries, _ = s.ListBookmarks(ctx, "rd_1", "bk_1", 20)
	if len(entries) != 1 {
		t.Errorf("list after delete: got %d, want 1", len(entries))
	}
}

func TestBookmarkOwnership(t *testing.T) {
	s := progressFixture(t)
	ctx := context.Background()
	seedReader(t, s, "rd_2")

	if err := s.AddBookmark(ctx, &Bookmark{ID: "bm_1", ReaderID: "rd_1", BookID: "bk_1", PageIndex: 1}); err != nil {
		t.Fatal(err)
	}

	// Another reader cannot see or delete it.
	if got, _ := s.GetBookmark(ctx, "rd_2", "bm_1"); got != nil {
		t.Error("foreign reader fetched bookmark")
	}
	if deleted, _ := s.DeleteBookmark(ctx, "rd_2", "bm_1"); deleted {
		t.Error("foreign reader deleted bookmark")
	}

	got, err := s.GetBookmark(ctx, "rd_1", "bm_1")
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if got == nil || got.PageIndex != 1 {
		t.Errorf("owner get: %+v", got)
	}
}
