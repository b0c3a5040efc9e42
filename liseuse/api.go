package liseuse

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/liseuse/kit"
	"github.com/hazyhaar/liseuse/liseuse/internal/store"
)

// Routes returns the HTTP API. Reader identity comes from the X-Reader-ID
// header; routes that act on a reader's state reject requests without it.
func (svc *Service) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(readerIdentity)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Get("/api/books", func(w http.ResponseWriter, r *http.Request) {
		books, err := svc.Books(r.Context())
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, books)
	})

	r.Post("/api/books", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Path string `json:"path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, 400, err)
			return
		}
		if req.Path == "" {
			writeJSON(w, 400, map[string]string{"error": "path is required"})
			return
		}
		id, err := svc.Ingest(r.Context(), req.Path)
		if err != nil {
			writeError(w, 422, err)
			return
		}
		writeJSON(w, 201, map[string]string{"id": id})
	})

	r.Post("/api/readers", func(w http.ResponseWriter, r *http.Request) {
		var req store.Reader
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, 400, err)
			return
		}
		if req.ID == "" {
			req.ID = kit.GetReaderID(r.Context())
		}
		if req.ID == "" {
			writeJSON(w, 400, map[string]string{"error": "reader id is required"})
			return
		}
		if err := svc.EnsureReader(r.Context(), &req); err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, req)
	})

	// Reader-scoped navigation.
	r.Group(func(r chi.Router) {
		r.Use(requireReader)

		r.Post("/api/books/{bookID}/open", func(w http.ResponseWriter, r *http.Request) {
			view, err := svc.Open(r.Context(), kit.GetReaderID(r.Context()), chi.URLParam(r, "bookID"))
			respondView(w, view, err)
		})

		r.Post("/api/books/{bookID}/forward", func(w http.ResponseWriter, r *http.Request) {
			view, err := svc.Forward(r.Context(), kit.GetReaderID(r.Context()), chi.URLParam(r, "bookID"))
			respondView(w, view, err)
		})

		r.Post("/api/books/{bookID}/backward", func(w http.ResponseWriter, r *http.Request) {
			view, err := svc.Backward(r.Context(), kit.GetReaderID(r.Context()), chi.URLParam(r, "bookID"))
			respondView(w, view, err)
		})

		r.Post("/api/books/{bookID}/page/{index}", func(w http.ResponseWriter, r *http.Request) {
			idx := chiInt(r, "index")
			view, err := svc.JumpToPage(r.Context(), kit.GetReaderID(r.Context()), chi.URLParam(r, "bookID"), idx)
			respondView(w, view, err)
		})

		r.Post("/api/books/{bookID}/bookmarks", func(w http.ResponseWriter, r *http.Request) {
			id, err := svc.BookmarkCurrentPage(r.Context(), kit.GetReaderID(r.Context()), chi.URLParam(r, "bookID"))
			if err != nil {
				writeError(w, statusFor(err), err)
				return
			}
			writeJSON(w, 201, map[string]string{"id": id})
		})

		r.Get("/api/books/{bookID}/bookmarks", func(w http.ResponseWriter, r *http.Request) {
			marks, err := svc.Bookmarks(r.Context(), kit.GetReaderID(r.Context()), chi.URLParam(r, "bookID"))
			if err != nil {
				writeError(w, 500, err)
				return
			}
			writeJSON(w, 200, marks)
		})

		r.Post("/api/bookmarks/{bookmarkID}/open", func(w http.ResponseWriter, r *http.Request) {
			view, err := svc.JumpToBookmark(r.Context(), kit.GetReaderID(r.Context()), chi.URLParam(r, "bookmarkID"))
			respondView(w, view, err)
		})

		r.Delete("/api/bookmarks/{bookmarkID}", func(w http.ResponseWriter, r *http.Request) {
			if err := svc.RemoveBookmark(r.Context(), kit.GetReaderID(r.Context()), chi.URLParam(r, "bookmarkID")); err != nil {
				writeError(w, statusFor(err), err)
				return
			}
			writeJSON(w, 200, map[string]string{"status": "deleted"})
		})
	})

	return r
}

// readerIdentity copies the X-Reader-ID header into the request context.
func readerIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-Reader-ID"); id != "" {
			r = r.WithContext(kit.WithReaderID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func requireReader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if kit.GetReaderID(r.Context()) == "" {
			writeJSON(w, 401, map[string]string{"error": "X-Reader-ID header is required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respondView(w http.ResponseWriter, view *View, err error) {
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, 200, view)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBookNotFound),
		errors.Is(err, ErrBookmarkNotFound),
		errors.Is(err, ErrReaderNotFound),
		errors.Is(err, ErrPageNotFound):
		return 404
	default:
		return 500
	}
}

func chiInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(chi.URLParam(r, key))
	if err != nil {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
