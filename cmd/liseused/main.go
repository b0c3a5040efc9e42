// Command liseused serves the reading service over HTTP and, optionally,
// MCP stdio. On startup it scans the library directory and ingests any
// document it does not already hold.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/liseuse/dbopen"
	"github.com/hazyhaar/liseuse/liseuse"
	"github.com/hazyhaar/liseuse/observability"
)

func main() {
	cfgPath := env("CONFIG", "")
	logLevel := env("LOG_LEVEL", "info")

	// Logging.
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	cfg := liseuse.DefaultConfig()
	if cfgPath != "" {
		var err error
		cfg, err = liseuse.LoadConfig(cfgPath)
		if err != nil {
			slog.Error("config", "error", err)
			os.Exit(1)
		}
	}
	if v := env("LISTEN", ""); v != "" {
		cfg.Listen = v
	}
	if v := env("DB_PATH", ""); v != "" {
		cfg.DBPath = v
	}
	if v := env("LIBRARY_DIR", ""); v != "" {
		cfg.LibraryDir = v
	}
	if v := env("MCP_TRANSPORT", ""); v != "" {
		cfg.MCP.Enabled = true
		cfg.MCP.Transport = v
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Store.
	st, err := liseuse.OpenStore(cfg.DBPath, dbopen.WithMkdirAll())
	if err != nil {
		slog.Error("store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// Business event trail lives in the same database.
	events := observability.NewEventLogger(st.DB)
	if err := events.Init(); err != nil {
		slog.Error("events init", "error", err)
		os.Exit(1)
	}

	// Periodic retention sweep over the event trail.
	if cfg.EventRetention > 0 {
		retention := time.Duration(cfg.EventRetention) * 24 * time.Hour
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := events.Cleanup(ctx, retention); err != nil {
						slog.Warn("event cleanup", "error", err)
					}
				}
			}
		}()
	}

	svc, err := liseuse.New(st, cfg, logger, liseuse.WithEvents(events))
	if err != nil {
		slog.Error("service", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	// Boot-time library scan.
	if cfg.LibraryDir != "" {
		if _, err := os.Stat(cfg.LibraryDir); err == nil {
			report, err := svc.IngestDir(ctx, cfg.LibraryDir)
			if err != nil {
				slog.Error("library scan", "error", err)
				os.Exit(1)
			}
			slog.Info("library scanned",
				"ingested", len(report.Ingested),
				"skipped", len(report.Skipped),
				"failed", len(report.Failed))
		} else {
			slog.Warn("library dir missing, skipping scan", "dir", cfg.LibraryDir)
		}
	}

	// Optional MCP stdio.
	if cfg.MCP.Enabled && cfg.MCP.Transport == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "liseuse",
			Version: "1.0.0",
		}, nil)
		svc.RegisterMCP(mcpSrv)
		go func() {
			if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil {
				slog.Error("mcp stdio", "error", err)
			}
		}()
		slog.Info("mcp stdio started")
	}

	// HTTP server.
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           svc.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
