package liseuse

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hazyhaar/liseuse/chunk"
	"github.com/hazyhaar/liseuse/docpipe"
	"github.com/hazyhaar/liseuse/liseuse/internal/store"
	"github.com/hazyhaar/liseuse/observability"
)

// inflightTitles serializes concurrent ingestions of the same title within
// this process. The UNIQUE constraint on books.title is the real guarantee;
// this guard just avoids doing duplicate extraction work.
type inflightTitles struct {
	mu     sync.Mutex
	titles map[string]struct{}
}

func (g *inflightTitles) init() {
	g.titles = make(map[string]struct{})
}

// acquire returns false if the title is already being ingested.
func (g *inflightTitles) acquire(title string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.titles[title]; busy {
		return false
	}
	g.titles[title] = struct{}{}
	return true
}

func (g *inflightTitles) release(title string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.titles, title)
}

// Ingest extracts a document from path, splits it into pages, and stores
// the result as a book. Returns the book id. If a book with the same title
// already exists (stored earlier or ingested concurrently), the existing
// book's id is returned instead of an error.
func (svc *Service) Ingest(ctx context.Context, path string) (string, error) {
	title := docpipe.TitleFromPath(path)

	// Fast path: already in the library.
	if existing, err := svc.store.GetBookByTitle(ctx, title); err != nil {
		return "", fmt.Errorf("lookup title: %w", err)
	} else if existing != nil {
		svc.logger.Debug("ingest: title already stored", "title", title, "book_id", existing.ID)
		return existing.ID, nil
	}

	if !svc.inflight.acquire(title) {
		return "", fmt.Errorf("liseuse: ingestion of %q already in progress", title)
	}
	defer svc.inflight.release(title)

	extractCtx, cancel := context.WithTimeout(ctx, svc.config.ExtractTimeout)
	doc, err := svc.pipeline.Extract(extractCtx, path)
	cancel()
	if err != nil {
		svc.logEvent(ctx, observability.BusinessEvent{
			EventType:  "book_ingested",
			EntityType: "book",
			Action:     "ingest",
			Details:    fmt.Sprintf(`{"path":%q}`, path),
			Success:    false,
		})
		return "", err
	}

	pages := chunk.Pages(doc.Text, svc.config.PageSize)
	book := &store.Book{
		ID:           svc.newID(),
		Title:        doc.Title,
		SourceFormat: string(doc.Format),
	}
	if err := svc.store.CreateBookWithPages(ctx, book, pages); err != nil {
		if errors.Is(err, store.ErrDuplicateTitle) {
			// Lost the race to another writer. Surface its book.
			existing, lerr := svc.store.GetBookByTitle(ctx, title)
			if lerr != nil {
				return "", fmt.Errorf("lookup after duplicate: %w", lerr)
			}
			if existing != nil {
				return existing.ID, nil
			}
		}
		return "", fmt.Errorf("store book: %w", err)
	}

	svc.logger.Info("ingest: book stored",
		"book_id", book.ID, "title", book.Title,
		"pages", book.PageCount, "format", book.SourceFormat)
	svc.logEvent(ctx, observability.BusinessEvent{
		EventType:  "book_ingested",
		EntityType: "book",
		EntityID:   book.ID,
		Action:     "ingest",
		Details:    fmt.Sprintf(`{"title":%q,"pages":%d}`, book.Title, book.PageCount),
		Success:    true,
	})
	return book.ID, nil
}

// IngestReport summarizes a directory scan.
type IngestReport struct {
	Ingested []string          // book ids stored or found
	Skipped  []string          // files with unrecognized extensions
	Failed   map[string]string // path -> error text
}

// IngestDir scans dir for supported documents and ingests them
// concurrently. A failing file is reported but does not abort the batch.
func (svc *Service) IngestDir(ctx context.Context, dir string) (*IngestReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read library dir: %w", err)
	}

	report := &IngestReport{Failed: make(map[string]string)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(svc.config.IngestWorkers)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if _, err := svc.pipeline.Detect(path); err != nil {
			mu.Lock()
			report.Skipped = append(report.Skipped, path)
			mu.Unlock()
			continue
		}
		g.Go(func() error {
			id, err := svc.Ingest(gctx, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				svc.logger.Warn("ingest: file failed", "path", path, "error", err)
				report.Failed[path] = err.Error()
				return nil
			}
			report.Ingested = append(report.Ingested, id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	sort.Strings(report.Ingested)
	sort.Strings(report.Skipped)
	return report, nil
}
