// Package mcpserver exposes bookmarking as MCP tools so an assistant can
// capture and replay moments on the user's behalf.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrSnakeDoc/timemark/internal/domain"
	"github.com/MrSnakeDoc/timemark/internal/logger"
	"github.com/MrSnakeDoc/timemark/internal/probe"
	"github.com/MrSnakeDoc/timemark/internal/version"
)

// ErrNoMedia is returned by save_bookmark when nothing is playing.
var ErrNoMedia = errors.New("no media detected in the active tab")

// Backend is the message contract as seen by the tools.
type Backend interface {
	CurrentMedia(ctx context.Context, tabID string) (*domain.MediaSnapshot, error)
	SaveBookmark(ctx context.Context, b domain.Candidate) (string, error)
	Bookmarks(ctx context.Context) ([]domain.Bookmark, error)
	DeleteBookmark(ctx context.Context, id string) error
	OpenBookmark(ctx context.Context, id string) (probe.Tab, error)
}

const defaultListLimit = 20

// New builds an MCP server with every timemark tool registered.
func New(backend Backend, log logger.Logger) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "timemark", Version: version.Version}, nil)
	t := &tools{backend: backend, logger: log}
	t.register(srv)
	return srv
}

// Run serves the tools over stdio until the client disconnects or ctx ends.
func Run(ctx context.Context, backend Backend, log logger.Logger) error {
	log.Info("MCP server listening on stdio")
	return New(backend, log).Run(ctx, &mcp.StdioTransport{})
}

type tools struct {
	backend Backend
	logger  logger.Logger
}

type (
	mediaArgs struct {
		TabID string `json:"tab_id"`
	}
	saveArgs struct {
		Note  string `json:"note"`
		TabID string `json:"tab_id"`
	}
	listArgs struct {
		Limit int `json:"limit"`
	}
	idArgs struct {
		ID string `json:"id"`
	}
)

type (
	mediaResult struct {
		Media *domain.MediaSnapshot `json:"media"`
	}
	savedResult struct {
		ID       string           `json:"id"`
		Bookmark domain.Candidate `json:"bookmark"`
	}
	listResult struct {
		Bookmarks []bookmarkView `json:"bookmarks"`
		Total     int            `json:"total"`
	}
	bookmarkView struct {
		domain.Bookmark
		PlaybackURL string `json:"playbackUrl"`
	}
	deletedResult struct {
		Deleted string `json:"deleted"`
	}
)

func (t *tools) register(srv *mcp.Server) {
	tabID := map[string]any{"type": "string", "description": "Browser tab id; defaults to the active tab"}

	addTool(srv, t.logger, &mcp.Tool{
		Name:        "get_current_media",
		Description: "Report what the browser tab is playing on YouTube or Spotify: title, url, position and duration in seconds.",
		InputSchema: inputSchema(map[string]any{"tab_id": tabID}, nil),
	}, t.currentMedia)

	addTool(srv, t.logger, &mcp.Tool{
		Name:        "save_bookmark",
		Description: "Bookmark the current playback position of the active tab with an optional note.",
		InputSchema: inputSchema(map[string]any{
			"note":   map[string]any{"type": "string", "description": "Annotation stored with the bookmark"},
			"tab_id": tabID,
		}, nil),
	}, t.save)

	addTool(srv, t.logger, &mcp.Tool{
		Name:        "list_bookmarks",
		Description: "List saved bookmarks, newest first.",
		InputSchema: inputSchema(map[string]any{
			"limit": map[string]any{"type": "integer", "minimum": 0, "description": "Maximum bookmarks to return (default 20, 0 for all)"},
		}, nil),
	}, t.list)

	addTool(srv, t.logger, &mcp.Tool{
		Name:        "delete_bookmark",
		Description: "Delete a bookmark by id. Deleting an unknown id succeeds.",
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "string", "description": "Bookmark id"},
		}, []string{"id"}),
	}, t.delete)

	addTool(srv, t.logger, &mcp.Tool{
		Name:        "open_bookmark",
		Description: "Open a bookmark in a new browser tab at its saved position.",
		InputSchema: inputSchema(map[string]any{
			"id": map[string]any{"type": "string", "description": "Bookmark id"},
		}, []string{"id"}),
	}, t.open)
}

func (t *tools) currentMedia(ctx context.Context, args mediaArgs) (any, error) {
	snap, err := t.backend.CurrentMedia(ctx, args.TabID)
	if err != nil {
		return nil, err
	}
	if !snap.Valid() {
		snap = nil
	}
	return mediaResult{Media: snap}, nil
}

func (t *tools) save(ctx context.Context, args saveArgs) (any, error) {
	snap, err := t.backend.CurrentMedia(ctx, args.TabID)
	if err != nil {
		return nil, err
	}
	if !snap.Valid() {
		return nil, ErrNoMedia
	}

	c := domain.NewCandidate(snap, args.Note)
	id, err := t.backend.SaveBookmark(ctx, c)
	if err != nil {
		return nil, err
	}
	return savedResult{ID: id, Bookmark: c}, nil
}

func (t *tools) list(ctx context.Context, args listArgs) (any, error) {
	if args.Limit < 0 {
		return nil, fmt.Errorf("limit must be >= 0, got %d", args.Limit)
	}
	limit := args.Limit
	if limit == 0 {
		limit = defaultListLimit
	}

	all, err := t.backend.Bookmarks(ctx)
	if err != nil {
		return nil, err
	}

	res := listResult{Bookmarks: []bookmarkView{}, Total: len(all)}
	for i := range all {
		if len(res.Bookmarks) == limit {
			break
		}
		res.Bookmarks = append(res.Bookmarks, bookmarkView{Bookmark: all[i], PlaybackURL: all[i].PlaybackURL()})
	}
	return res, nil
}

func (t *tools) delete(ctx context.Context, args idArgs) (any, error) {
	if args.ID == "" {
		return nil, errors.New("id is required")
	}
	if err := t.backend.DeleteBookmark(ctx, args.ID); err != nil {
		return nil, err
	}
	return deletedResult{Deleted: args.ID}, nil
}

func (t *tools) open(ctx context.Context, args idArgs) (any, error) {
	if args.ID == "" {
		return nil, errors.New("id is required")
	}
	return t.backend.OpenBookmark(ctx, args.ID)
}

// addTool decodes the arguments into A, runs fn and answers with its JSON.
// Failures become tool errors so the model can read them.
func addTool[A any](srv *mcp.Server, log logger.Logger, tool *mcp.Tool, fn func(context.Context, A) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args A
		if raw := req.Params.Arguments; len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("invalid arguments: %w", err))
				return &res, nil
			}
		}

		out, err := fn(ctx, args)
		if err != nil {
			log.Debug("tool failed", logger.String("tool", tool.Name), logger.Error(err))
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}

		data, err := json.Marshal(out)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
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
