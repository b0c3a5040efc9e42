// Package liseuse implements a paginated reading service: documents are
// ingested from files, split into fixed-size pages, and read through a
// per-reader navigator that persists progress and bookmarks.
//
// Usage:
//
//	st, _ := store.Open("db/liseuse.db")
//	svc, _ := liseuse.New(st, nil, slog.Default())
//	bookID, _ := svc.Ingest(ctx, "library/war_and_peace.pdf")
//	view, _ := svc.Open(ctx, readerID, bookID)
package liseuse

import (
	"context"
	"log/slog"

	"github.com/hazyhaar/liseuse/dbopen"
	"github.com/hazyhaar/liseuse/docpipe"
	"github.com/hazyhaar/liseuse/idgen"
	"github.com/hazyhaar/liseuse/liseuse/internal/store"
	"github.com/hazyhaar/liseuse/observability"
)

// Service is the main liseuse orchestrator.
type Service struct {
	store    *store.Store
	pipeline *docpipe.Pipeline
	logger   *slog.Logger
	config   *Config
	newID    func() string
	events   *observability.EventLogger // optional — business event trail

	inflight inflightTitles // dedup guard for concurrent ingestion of the same title
}

// New creates a liseuse Service.
func New(st *store.Store, cfg *Config, logger *slog.Logger, opts ...ServiceOption) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	svc := &Service{
		store:  st,
		logger: logger,
		config: cfg,
		newID:  idgen.New,
	}
	svc.inflight.init()

	for _, opt := range opts {
		opt(svc)
	}

	if svc.pipeline == nil {
		svc.pipeline = docpipe.New(docpipe.Config{
			MaxFileSize: cfg.MaxFileBytes(),
			Logger:      logger,
		})
	}

	return svc, nil
}

// ServiceOption configures a Service during creation.
type ServiceOption func(*Service)

// WithPipeline overrides the document extraction pipeline.
func WithPipeline(p *docpipe.Pipeline) ServiceOption {
	return func(svc *Service) { svc.pipeline = p }
}

// WithEvents sets the business event logger for data-modifying operations.
func WithEvents(e *observability.EventLogger) ServiceOption {
	return func(svc *Service) { svc.events = e }
}

// WithNewID overrides the id generator. Use in tests for deterministic ids.
func WithNewID(fn func() string) ServiceOption {
	return func(svc *Service) { svc.newID = fn }
}

// OpenStore opens the liseuse database and applies the schema.
func OpenStore(path string, opts ...dbopen.Option) (*store.Store, error) {
	return store.Open(path, opts...)
}

// Store exposes the underlying store for admin operations.
func (svc *Service) Store() *store.Store {
	return svc.store
}

// Close shuts down the service.
func (svc *Service) Close() error {
	svc.logger.Info("liseuse: closed")
	return nil
}

func (svc *Service) logEvent(ctx context.Context, ev observability.BusinessEvent) {
	if svc.events == nil {
		return
	}
	ev.ServiceName = "liseuse"
	svc.events.LogEvent(ctx, ev)
}
