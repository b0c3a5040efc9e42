package liseuse

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/liseuse/kit"
	"github.com/hazyhaar/liseuse/liseuse/internal/store"
)

// RegisterMCP registers all liseuse tools on an MCP server.
func (svc *Service) RegisterMCP(srv *mcp.Server) {
	svc.registerListBooks(srv)
	svc.registerIngest(srv)
	svc.registerOpenBook(srv)
	svc.registerTurnPage(srv)
	svc.registerAddBookmark(srv)
	svc.registerListBookmarks(srv)
	svc.registerOpenBookmark(srv)
	svc.registerRemoveBookmark(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func decodeInto[T any](r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	var p T
	if len(r.Params.Arguments) > 0 {
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
	}
	return &kit.MCPDecodeResult{
		Request: &p,
		EnrichCtx: func(ctx context.Context) context.Context {
			return kit.WithTransport(ctx, "mcp")
		},
	}, nil
}

func (svc *Service) registerListBooks(srv *mcp.Server) {
	type req struct{}

	tool := &mcp.Tool{
		Name:        "liseuse_list_books",
		Description: "List all books in the library with their page counts",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return svc.Books(ctx)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeInto[req])
}

func (svc *Service) registerIngest(srv *mcp.Server) {
	type req struct {
		Path string `json:"path"`
	}

	tool := &mcp.Tool{
		Name:        "liseuse_ingest",
		Description: "Ingest a document file (PDF or plain text) into the library",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "Path to the document file"},
		}, []string{"path"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		id, err := svc.Ingest(ctx, p.Path)
		if err != nil {
			return nil, err
		}
		return map[string]string{"book_id": id}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeInto[req])
}

func (svc *Service) registerOpenBook(srv *mcp.Server) {
	type req struct {
		ReaderID string `json:"reader_id"`
		BookID   string `json:"book_id"`
		Title    string `json:"title"`
	}

	tool := &mcp.Tool{
		Name:        "liseuse_open_book",
		Description: "Open a book at the reader's saved position (by id or title)",
		InputSchema: inputSchema(map[string]any{
			"reader_id": map[string]any{"type": "string", "description": "Reader ID"},
			"book_id":   map[string]any{"type": "string", "description": "Book ID"},
			"title":     map[string]any{"type": "string", "description": "Book title, used when book_id is empty"},
		}, []string{"reader_id"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		if err := svc.EnsureReader(ctx, &store.Reader{ID: p.ReaderID}); err != nil {
			return nil, err
		}
		if p.BookID != "" {
			return svc.Open(ctx, p.ReaderID, p.BookID)
		}
		return svc.OpenByTitle(ctx, p.ReaderID, p.Title)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeInto[req])
}

func (svc *Service) registerTurnPage(srv *mcp.Server) {
	type req struct {
		ReaderID  string `json:"reader_id"`
		BookID    string `json:"book_id"`
		Direction string `json:"direction"`
	}

	tool := &mcp.Tool{
		Name:        "liseuse_turn_page",
		Description: "Turn one page forward or backward in a book",
		InputSchema: inputSchema(map[string]any{
			"reader_id": map[string]any{"type": "string", "description": "Reader ID"},
			"book_id":   map[string]any{"type": "string", "description": "Book ID"},
			"direction": map[string]any{"type": "string", "description": "forward or backward"},
		}, []string{"reader_id", "book_id", "direction"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		if p.Direction == "backward" {
			return svc.Backward(ctx, p.ReaderID, p.BookID)
		}
		return svc.Forward(ctx, p.ReaderID, p.BookID)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeInto[req])
}

func (svc *Service) registerAddBookmark(srv *mcp.Server) {
	type req struct {
		ReaderID string `json:"reader_id"`
		BookID   string `json:"book_id"`
	}

	tool := &mcp.Tool{
		Name:        "liseuse_add_bookmark",
		Description: "Bookmark the reader's current page in a book",
		InputSchema: inputSchema(map[string]any{
			"reader_id": map[string]any{"type": "string", "description": "Reader ID"},
			"book_id":   map[string]any{"type": "string", "description": "Book ID"},
		}, []string{"reader_id", "book_id"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		id, err := svc.BookmarkCurrentPage(ctx, p.ReaderID, p.BookID)
		if err != nil {
			return nil, err
		}
		return map[string]string{"bookmark_id": id}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeInto[req])
}

func (svc *Service) registerListBookmarks(srv *mcp.Server) {
	type req struct {
		ReaderID string `json:"reader_id"`
		BookID   string `json:"book_id"`
	}

	tool := &mcp.Tool{
		Name:        "liseuse_list_bookmarks",
		Description: "List the reader's bookmarks in a book, each with a text preview",
		InputSchema: inputSchema(map[string]any{
			"reader_id": map[string]any{"type": "string", "description": "Reader ID"},
			"book_id":   map[string]any{"type": "string", "description": "Book ID"},
		}, []string{"reader_id", "book_id"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return svc.Bookmarks(ctx, p.ReaderID, p.BookID)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeInto[req])
}

func (svc *Service) registerOpenBookmark(srv *mcp.Server) {
	type req struct {
		ReaderID   string `json:"reader_id"`
		BookmarkID string `json:"bookmark_id"`
	}

	tool := &mcp.Tool{
		Name:        "liseuse_open_bookmark",
		Description: "Jump to a bookmarked page",
		InputSchema: inputSchema(map[string]any{
			"reader_id":   map[string]any{"type": "string", "description": "Reader ID"},
			"bookmark_id": map[string]any{"type": "string", "description": "Bookmark ID"},
		}, []string{"reader_id", "bookmark_id"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return svc.JumpToBookmark(ctx, p.ReaderID, p.BookmarkID)
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeInto[req])
}

func (svc *Service) registerRemoveBookmark(srv *mcp.Server) {
	type req struct {
		ReaderID   string `json:"reader_id"`
		BookmarkID string `json:"bookmark_id"`
	}

	tool := &mcp.Tool{
		Name:        "liseuse_remove_bookmark",
		Description: "Delete one of the reader's bookmarks",
		InputSchema: inputSchema(map[string]any{
			"reader_id":   map[string]any{"type": "string", "description": "Reader ID"},
			"bookmark_id": map[string]any{"type": "string", "description": "Bookmark ID"},
		}, []string{"reader_id", "bookmark_id"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		if err := svc.RemoveBookmark(ctx, p.ReaderID, p.BookmarkID); err != nil {
			return nil, err
		}
		return map[string]string{"status": "deleted"}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decodeInto[req])
}
