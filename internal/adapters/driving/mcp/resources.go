package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for jfp resources.
	uriScheme = "jfp://"
)

// promptInfo is one entry of the prompt list resource.
type promptInfo struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags"`
	URI         string   `json:"uri"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource listing every prompt.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "prompts",
		Name:        "prompts",
		Description: "List of all stored prompts",
		MIMEType:    "application/json",
	}, s.handlePromptsResource)

	// Template for a single prompt's template text.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "prompts/{promptId}",
		Name:        "prompt-content",
		Description: "Template text of a specific prompt",
		MIMEType:    "text/plain",
	}, s.handlePromptContentResource)
}

// handlePromptsResource returns the prompt list.
func (s *Server) handlePromptsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	prompts, err := s.ports.Prompts.List(ctx, domain.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing prompts: %w", err)
	}

	infos := make([]promptInfo, len(prompts))
	for i := range prompts {
		infos[i] = promptInfo{
			ID:          prompts[i].ID,
			Title:       prompts[i].Title,
			Description: prompts[i].Description,
			Category:    prompts[i].Category,
			Tags:        prompts[i].Tags,
			URI:         uriScheme + "prompts/" + prompts[i].ID,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling prompts: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handlePromptContentResource returns one prompt's template.
func (s *Server) handlePromptContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract promptId from URI: jfp://prompts/{promptId}
	id := extractPromptID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	prompt, err := s.ports.Prompts.Get(ctx, id)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     prompt.Content,
		}},
	}, nil
}

// extractPromptID extracts the prompt ID from a URI like jfp://prompts/{promptId}.
func extractPromptID(uri string) string {
	const prefix = uriScheme + "prompts/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
