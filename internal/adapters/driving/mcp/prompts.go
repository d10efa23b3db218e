package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// registerPrompts exposes every stored prompt as an MCP prompt named by its
// id, with one argument per variable. Prompts that disappeared since the
// last registration are removed. Returns the number registered.
func (s *Server) registerPrompts(ctx context.Context) (int, error) {
	prompts, err := s.ports.Prompts.List(ctx, domain.ListFilter{})
	if err != nil {
		return 0, fmt.Errorf("listing prompts: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := make(map[string]struct{}, len(prompts))
	for i := range prompts {
		current[prompts[i].ID] = struct{}{}
	}
	var stale []string
	for name := range s.registered {
		if _, ok := current[name]; !ok {
			stale = append(stale, name)
		}
	}
	if len(stale) > 0 {
		s.server.RemovePrompts(stale...)
	}

	for i := range prompts {
		s.server.AddPrompt(toMCPPrompt(&prompts[i]), s.handleGetPrompt)
	}
	s.registered = current
	return len(prompts), nil
}

// toMCPPrompt describes a prompt and its variables.
func toMCPPrompt(p *domain.Prompt) *mcp.Prompt {
	args := make([]*mcp.PromptArgument, 0, len(p.Variables))
	for _, v := range p.Variables {
		args = append(args, &mcp.PromptArgument{
			Name:        v.Name,
			Description: v.Description,
			Required:    v.Required && v.Default == "",
		})
	}

	description := p.Description
	if description == "" {
		description = p.Preview(120)
	}
	return &mcp.Prompt{
		Name:        p.ID,
		Title:       p.Title,
		Description: description,
		Arguments:   args,
	}
}

// handleGetPrompt renders a prompt with the caller's arguments.
func (s *Server) handleGetPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	id := req.Params.Name
	prompt, err := s.ports.Prompts.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rendered, err := s.ports.Prompts.Render(ctx, id, req.Params.Arguments)
	if err != nil {
		return nil, err
	}

	return &mcp.GetPromptResult{
		Description: prompt.Title,
		Messages: []*mcp.PromptMessage{{
			Role:    "user",
			Content: &mcp.TextContent{Text: rendered},
		}},
	}, nil
}
