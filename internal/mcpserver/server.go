// Package mcpserver exposes a search controller as MCP tools. search_users
// is the submit event and search_users_more the end-of-list event; both
// share the one controller of the server process.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lox/ghsearch/internal/output"
	"github.com/lox/ghsearch/internal/search"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const (
	ToolSearch = "search_users"
	ToolMore   = "search_users_more"
)

type Server struct {
	ctrl *search.Controller
	srv  *server.MCPServer
	log  *zap.Logger
}

// PageResult is the JSON payload returned by both tools. Items holds only
// the users added by the call.
type PageResult struct {
	Query      string                `json:"query"`
	Page       int                   `json:"page"`
	TotalCount int                   `json:"total_count"`
	Fetched    int                   `json:"fetched"`
	HasMore    bool                  `json:"has_more"`
	Items      []output.SearchResult `json:"items"`
}

func New(ctrl *search.Controller, version string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{ctrl: ctrl, log: log.Named("mcp")}
	s.srv = server.NewMCPServer("ghsearch", version, server.WithToolCapabilities(false))

	s.srv.AddTool(mcp.NewTool(ToolSearch,
		mcp.WithDescription("Start a new GitHub user search. Returns the first page and discards results of any previous search."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("GitHub user search query, for example 'tom in:login followers:>100'"),
		),
	), s.handleSearch)

	s.srv.AddTool(mcp.NewTool(ToolMore,
		mcp.WithDescription("Load the next page of the current search. Returns only the newly added users; has_more is false once every result has been fetched."),
	), s.handleMore)

	return s
}

func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.srv)
}

func (s *Server) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r := s.ctrl.StartSearch(query)
	if r == nil {
		return mcp.NewToolResultError(search.ErrEmptyQuery.Error()), nil
	}
	if err := s.ctrl.Execute(ctx, r); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	return s.result(s.ctrl.Snapshot(), 0)
}

func (s *Server) handleMore(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	before := s.ctrl.Snapshot()
	switch {
	case before.Query == "":
		return mcp.NewToolResultError(fmt.Sprintf("no active search; call %s first", ToolSearch)), nil
	case before.IsLoading():
		return mcp.NewToolResultError("a page is already loading"), nil
	}

	r := s.ctrl.LoadMore()
	if r == nil {
		return s.result(before, len(before.Items))
	}
	if err := s.ctrl.Execute(ctx, r); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading page %d failed: %v", r.Tag.Page, err)), nil
	}

	return s.result(s.ctrl.Snapshot(), len(before.Items))
}

func (s *Server) result(snap search.Snapshot, from int) (*mcp.CallToolResult, error) {
	all := output.NewSearchResults(snap).Items
	if from > len(all) {
		from = len(all)
	}
	payload := PageResult{
		Query:      snap.Query,
		Page:       snap.Page,
		TotalCount: snap.TotalCount,
		Fetched:    len(all),
		HasMore:    snap.HasMore,
		Items:      all[from:],
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	s.log.Debug("tool result", zap.String("query", snap.Query), zap.Int("page", snap.Page), zap.Int("items", len(payload.Items)))
	return mcp.NewToolResultText(string(data)), nil
}
