package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"full-text query; quoted phrases and AND/OR/NOT are supported"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10, max 100)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags"`
	Score       float64  `json:"score"`
}

// GetPromptInput is the input schema for the get_prompt tool.
type GetPromptInput struct {
	ID string `json:"id" jsonschema:"the prompt id"`
}

// GetPromptOutput is the output schema for the get_prompt tool.
type GetPromptOutput struct {
	Prompt domain.Prompt `json:"prompt"`
}

// RenderInput is the input schema for the render_prompt tool.
type RenderInput struct {
	ID        string            `json:"id" jsonschema:"the prompt id"`
	Variables map[string]string `json:"variables,omitempty" jsonschema:"values for the prompt's {{NAME}} placeholders"`
}

// RenderOutput is the output schema for the render_prompt tool.
type RenderOutput struct {
	ID       string `json:"id"`
	Rendered string `json:"rendered"`
}

// RefreshInput is the input schema for the refresh_prompts tool.
type RefreshInput struct{}

// RefreshOutput is the output schema for the refresh_prompts tool.
type RefreshOutput struct {
	Source      string `json:"source"`
	PromptCount int    `json:"prompt_count"`
	Warning     string `json:"warning,omitempty"`
	Throttled   bool   `json:"throttled,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_prompts",
		Description: "Search the prompt library by keyword, ranked by relevance",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_prompt",
		Description: "Get a prompt's template, metadata and variables by id",
	}, s.handleGetPromptTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "render_prompt",
		Description: "Fill a prompt's placeholders and return the finished text",
	}, s.handleRender)

	if s.ports.Registry != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "refresh_prompts",
			Description: "Fetch the latest prompts from the jeffreysprompts.com registry",
		}, s.handleRefresh)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	key := strconv.Itoa(limit) + "\x00" + input.Query
	results, ok := s.searches.Get(key)
	if !ok {
		var err error
		results, err = s.ports.Prompts.Search(ctx, input.Query, limit)
		if err != nil {
			return nil, SearchOutput{}, err
		}
		s.searches.Add(key, results)
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		p := &results[i].Prompt
		output.Results[i] = SearchResultOutput{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Category:    p.Category,
			Tags:        p.Tags,
			Score:       results[i].Score,
		}
	}

	return nil, output, nil
}

// handleGetPromptTool returns one prompt.
func (s *Server) handleGetPromptTool(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetPromptInput,
) (*mcp.CallToolResult, GetPromptOutput, error) {
	prompt, err := s.ports.Prompts.Get(ctx, input.ID)
	if err != nil {
		return nil, GetPromptOutput{}, err
	}
	return nil, GetPromptOutput{Prompt: *prompt}, nil
}

// handleRender renders a prompt with the given values.
func (s *Server) handleRender(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RenderInput,
) (*mcp.CallToolResult, RenderOutput, error) {
	rendered, err := s.ports.Prompts.Render(ctx, input.ID, input.Variables)
	if err != nil {
		return nil, RenderOutput{}, err
	}
	return nil, RenderOutput{ID: input.ID, Rendered: rendered}, nil
}

// handleRefresh syncs the registry into the store, drops cached searches
// and re-registers the prompts. Calls closer together than refreshInterval
// are answered from the local snapshot.
func (s *Server) handleRefresh(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ RefreshInput,
) (*mcp.CallToolResult, RefreshOutput, error) {
	if s.ports.Registry == nil {
		return nil, RefreshOutput{}, errors.New("registry not configured")
	}

	r := s.refreshes.Reserve()
	if delay := r.Delay(); delay > 0 {
		r.Cancel()
		return s.throttledRefresh(ctx, delay)
	}

	report, err := s.ports.Registry.Sync(ctx)
	if err != nil {
		return nil, RefreshOutput{}, err
	}
	s.searches.Purge()
	if _, err := s.registerPrompts(ctx); err != nil {
		return nil, RefreshOutput{}, err
	}

	return nil, RefreshOutput{
		Source:      report.Source.String(),
		PromptCount: report.PromptCount,
		Warning:     report.Warning,
	}, nil
}

// throttledRefresh answers a refresh that arrived too soon with what the
// registry already has locally, without touching the network.
func (s *Server) throttledRefresh(ctx context.Context, wait time.Duration) (*mcp.CallToolResult, RefreshOutput, error) {
	loaded, err := s.ports.Registry.Load(ctx)
	if err != nil {
		return nil, RefreshOutput{}, err
	}
	return nil, RefreshOutput{
		Source:      loaded.Source.String(),
		PromptCount: len(loaded.Prompts),
		Warning:     fmt.Sprintf("refresh throttled; next registry fetch allowed in %s", wait.Round(time.Second)),
		Throttled:   true,
	}, nil
}
