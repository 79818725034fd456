// Package mcp exposes the drafting operations as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/thomas-vilte/issuemate/internal/i18n"
	"github.com/thomas-vilte/issuemate/internal/logger"
	"github.com/thomas-vilte/issuemate/internal/models"
	"github.com/thomas-vilte/issuemate/internal/reference"
)

type DraftGenerator interface {
	Generate(ctx context.Context, userText string) (*models.IssueDraft, error)
}

type DraftRefiner interface {
	Refine(ctx context.Context, originalText string, current models.IssueDraft, modification string) (*models.IssueDraft, error)
}

// Server wraps the drafting layer and exposes it as MCP tools.
type Server struct {
	generator DraftGenerator
	refiner   DraftRefiner
	ref       *reference.Data
	t         *i18n.Translations
	version   string
}

func NewServer(generator DraftGenerator, refiner DraftRefiner, ref *reference.Data, t *i18n.Translations, version string) *Server {
	if ref == nil {
		ref = reference.New(nil, nil)
	}
	return &Server{
		generator: generator,
		refiner:   refiner,
		ref:       ref,
		t:         t,
		version:   version,
	}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("issuemate", s.version, server.WithToolCapabilities(true))

	srv.AddTool(s.listRepositoriesTool())
	srv.AddTool(s.listAssigneesTool())
	srv.AddTool(s.generateDraftTool())
	srv.AddTool(s.refineDraftTool())

	return srv
}

// ServeStdio blocks until ctx is cancelled or the input stream closes.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.MCPServer()).Listen(ctx, in, out)
}

func (s *Server) listRepositoriesTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("list_repositories",
		mcp.WithDescription("List the repositories issues can be filed against. Returns a JSON array of {url, description}."),
	)
	return tool, func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(s.ref.Repositories())
	}
}

func (s *Server) listAssigneesTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("list_assignees",
		mcp.WithDescription("List the people issues can be assigned to. Returns a JSON array of {displayName, githubUsername}."),
	)
	return tool, func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(s.ref.Assignees())
	}
}

func (s *Server) generateDraftTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("generate_draft",
		mcp.WithDescription("Turn a free-text problem report into a structured issue draft {repo_url, assignee_username, title, body}."),
		mcp.WithString("user_request", mcp.Required(), mcp.Description("Free-text description of the problem")),
	)
	return tool, s.handleGenerateDraft
}

func (s *Server) handleGenerateDraft(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("user_request")
	if err != nil || text == "" {
		return mcp.NewToolResultError("missing required parameter: user_request"), nil
	}

	draft, err := s.generator.Generate(ctx, text)
	if err != nil {
		logger.FromContext(ctx).Error("mcp generate_draft failed", "error", err)
		return mcp.NewToolResultError(s.t.ErrorMessage(err)), nil
	}
	return jsonResult(draft)
}

func (s *Server) refineDraftTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("refine_draft",
		mcp.WithDescription("Apply a modification to an existing issue draft and return the updated draft."),
		mcp.WithString("original_request", mcp.Description("The text the draft was generated from")),
		mcp.WithString("current_draft", mcp.Required(), mcp.Description("The current draft as a JSON object")),
		mcp.WithString("modification_request", mcp.Required(), mcp.Description("What to change")),
	)
	return tool, s.handleRefineDraft
}

func (s *Server) handleRefineDraft(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawDraft, err := request.RequireString("current_draft")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: current_draft"), nil
	}
	modification, err := request.RequireString("modification_request")
	if err != nil || modification == "" {
		return mcp.NewToolResultError("missing required parameter: modification_request"), nil
	}

	var current models.IssueDraft
	if err := json.Unmarshal([]byte(rawDraft), &current); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("current_draft is not a valid draft: %v", err)), nil
	}

	draft, err := s.refiner.Refine(ctx, request.GetString("original_request", ""), current, modification)
	if err != nil {
		logger.FromContext(ctx).Error("mcp refine_draft failed", "error", err)
		return mcp.NewToolResultError(s.t.ErrorMessage(err)), nil
	}
	return jsonResult(draft)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
