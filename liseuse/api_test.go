package liseuse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hazyhaar/liseuse/liseuse/internal/store"
)

func apiRequest(t *testing.T, h http.Handler, method, path, readerID string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if readerID != "" {
		req.Header.Set("X-Reader-ID", readerID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAPIReadingFlow(t *testing.T) {
	svc, bookID := seedService(t)
	h := svc.Routes()

	rec := apiRequest(t, h, "GET", "/api/books", "", "")
	if rec.Code != 200 {
		t.Fatalf("list books: status %d", rec.Code)
	}
	var books []store.Book
	if err := json.Unmarshal(rec.Body.Bytes(), &books); err != nil {
		t.Fatalf("list books: %v", err)
	}
	if len(books) != 1 || books[0].ID != bookID {
		t.Fatalf("list books: got %+v", books)
	}

	rec = apiRequest(t, h, "POST", "/api/books/"+bookID+"/open", "rd_1", "")
	if rec.Code != 200 {
		t.Fatalf("open: status %d body %s", rec.Code, rec.Body)
	}
	var view View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("open: %v", err)
	}
	if view.PageIndex != 0 || view.CanGoBack {
		t.Errorf("open: got %+v", view)
	}

	rec = apiRequest(t, h, "POST", "/api/books/"+bookID+"/forward", "rd_1", "")
	if rec.Code != 200 {
		t.Fatalf("forward: status %d", rec.Code)
	}
	json.Unmarshal(rec.Body.Bytes(), &view)
	if view.PageIndex != 1 {
		t.Errorf("forward: got page %d, want 1", view.PageIndex)
	}

	rec = apiRequest(t, h, "POST", "/api/books/"+bookID+"/bookmarks", "rd_1", "")
	if rec.Code != 201 {
		t.Fatalf("add bookmark: status %d", rec.Code)
	}
	var created map[string]string
	json.Unmarshal(rec.Body.Bytes(), &created)

	rec = apiRequest(t, h, "GET", "/api/books/"+bookID+"/bookmarks", "rd_1", "")
	if rec.Code != 200 {
		t.Fatalf("list bookmarks: status %d", rec.Code)
	}

	rec = apiRequest(t, h, "DELETE", "/api/bookmarks/"+created["id"], "rd_1", "")
	if rec.Code != 200 {
		t.Fatalf("delete bookmark: status %d", rec.Code)
	}
	rec = apiRequest(t, h, "DELETE", "/api/bookmarks/"+created["id"], "rd_1", "")
	if rec.Code != 404 {
		t.Errorf("delete stale bookmark: status %d, want 404", rec.Code)
	}
}

func TestAPIRequiresReader(t *testing.T) {
	svc, bookID := seedService(t)
	h := svc.Routes()

	rec := apiRequest(t, h, "POST", "/api/books/"+bookID+"/open", "", "")
	if rec.Code != 401 {
		t.Errorf("open without reader: status %d, want 401", rec.Code)
	}
}

func TestAPIUnknownBook(t *testing.T) {
	svc, _ := seedService(t)
	h := svc.Routes()

	rec := apiRequest(t, h, "POST", "/api/books/bk_missing/open", "rd_1", "")
	if rec.Code != 404 {
		t.Errorf("open unknown book: status %d, want 404", rec.Code)
	}
}

func TestAPIRegisterReader(t *testing.T) {
	svc, _ := seedService(t)
	h := svc.Routes()

	rec := apiRequest(t, h, "POST", "/api/readers", "", `{"id":"rd_9","handle":"leo"}`)
	if rec.Code != 200 {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body)
	}
	reader, err := svc.store.GetReader(context.Background(), "rd_9")
	if err != nil || reader == nil {
		t.Fatalf("reader not stored: %v %v", reader, err)
	}
	if reader.Handle != "leo" {
		t.Errorf("Handle: got %q", reader.Handle)
	}

	rec = apiRequest(t, h, "POST", "/api/readers", "", `{}`)
	if rec.Code != 400 {
		t.Errorf("register without id: status %d, want 400", rec.Code)
	}
}
