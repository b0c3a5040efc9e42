package liseuse

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hazyhaar/liseuse/chunk"
)

// Config holds the full liseuse configuration.
type Config struct {
	Listen         string        `yaml:"listen"`
	DBPath         string        `yaml:"db_path"`
	LibraryDir     string        `yaml:"library_dir"` // scanned for documents at startup
	PageSize       int           `yaml:"page_size"`   // characters per page
	PreviewLen     int           `yaml:"preview_len"` // bookmark preview length, characters
	MaxFileMB      int           `yaml:"max_file_mb"`
	IngestWorkers  int           `yaml:"ingest_workers"`  // concurrent extractions during a directory scan
	ExtractTimeout time.Duration `yaml:"extract_timeout"` // per-file extraction budget
	EventRetention int           `yaml:"event_retention"` // days of business events to keep, 0 = forever
	MCP            MCPConfig     `yaml:"mcp"`
}

// MCPConfig configures the MCP tool surface.
type MCPConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Transport string `yaml:"transport"` // stdio | http
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:         ":8086",
		DBPath:         "db/liseuse.db",
		LibraryDir:     "library",
		PageSize:       chunk.DefaultPageSize,
		PreviewLen:     100,
		MaxFileMB:      100,
		IngestWorkers:  4,
		ExtractTimeout: time.Minute,
	}
}

// LoadConfig reads and parses a YAML config file. Returns DefaultConfig merged with the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be > 0")
	}
	if c.PreviewLen <= 0 {
		return fmt.Errorf("preview_len must be > 0")
	}
	if c.MaxFileMB <= 0 {
		return fmt.Errorf("max_file_mb must be > 0")
	}
	if c.IngestWorkers <= 0 {
		return fmt.Errorf("ingest_workers must be > 0")
	}
	switch c.MCP.Transport {
	case "", "stdio", "http":
	default:
		return fmt.Errorf("unsupported mcp transport %q (use stdio or http)", c.MCP.Transport)
	}
	return nil
}

func (c *Config) defaults() {
	if c.Listen == "" {
		c.Listen = ":8086"
	}
	if c.DBPath == "" {
		c.DBPath = "db/liseuse.db"
	}
	if c.PageSize <= 0 {
		c.PageSize = chunk.DefaultPageSize
	}
	if c.PreviewLen <= 0 {
		c.PreviewLen = 100
	}
	if c.MaxFileMB <= 0 {
		c.MaxFileMB = 100
	}
	if c.IngestWorkers <= 0 {
		c.IngestWorkers = 4
	}
	if c.ExtractTimeout <= 0 {
		c.ExtractTimeout = time.Minute
	}
}

// MaxFileBytes returns max file size in bytes.
func (c *Config) MaxFileBytes() int64 { return int64(c.MaxFileMB) * 1024 * 1024 }
