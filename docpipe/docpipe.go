// Package docpipe extracts plain text from book source files.
//
// Supported formats:
//   - .pdf — PDF text extraction via pdfcpu, pages concatenated in order
//   - .txt — UTF-8 plain text (passthrough with encoding validation)
//
// Usage:
//
//	pipe := docpipe.New(docpipe.Config{})
//	doc, err := pipe.Extract(ctx, "/library/war_and_peace.pdf")
//	fmt.Println(doc.Title, len(doc.Text), "chars")
//
// Adding a source kind is a new extractor function plus a Detect case,
// not a conditional inside an existing one.
package docpipe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Pipeline is the document extraction engine.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// Detect returns the document format based on file extension.
// Unrecognized extensions return ErrUnsupportedFormat; batch callers
// treat that as "skip", not as a failure.
func (p *Pipeline) Detect(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return FormatPDF, nil
	case ".txt", ".text":
		return FormatTXT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Extract reads a source file and returns its full text. All extraction
// failures are *ExtractError so batch ingestion can tell a bad file from
// an infrastructure problem.
func (p *Pipeline) Extract(ctx context.Context, path string) (*Document, error) {
	format, err := p.Detect(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &ExtractError{Path: path, Format: format, Err: err}
	}
	if info.Size() > p.cfg.MaxFileSize {
		return nil, &ExtractError{Path: path, Format: format,
			Err: fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), p.cfg.MaxFileSize)}
	}

	p.logger.Debug("extracting document", "path", path, "format", format)

	var (
		text        string
		sourcePages int
	)
	switch format {
	case FormatPDF:
		text, sourcePages, err = extractPDF(ctx, path)
	case FormatTXT:
		text, err = extractText(path)
	default:
		return nil, fmt.Errorf("no extractor for format: %s", format)
	}

	if err != nil {
		return nil, &ExtractError{Path: path, Format: format, Err: err}
	}

	return &Document{
		Path:        path,
		Format:      format,
		Title:       TitleFromPath(path),
		Text:        text,
		SourcePages: sourcePages,
	}, nil
}

// TitleFromPath derives a book title from a source filename: the base name
// with the extension stripped.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SupportedExtensions returns the recognized source file extensions.
func SupportedExtensions() []string {
	return []string{".pdf", ".txt", ".text"}
}
