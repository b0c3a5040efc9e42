package liseuse

import (
	"io"
	"log/slog"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/liseuse/dbopen"
	"github.com/hazyhaar/liseuse/liseuse/internal/store"
)

func testService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	db := dbopen.OpenMemory(t, dbopen.WithSchema(store.Schema))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := New(&store.Store{DB: db}, nil, logger, opts...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg.PageSize = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero page_size accepted")
	}

	cfg = DefaultConfig()
	cfg.MCP.Transport = "quic"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown mcp transport accepted")
	}
}
