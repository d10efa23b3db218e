package mcp

import (
	"github.com/jeffreysprompts/jfp/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Prompts provides listing, search and rendering.
	Prompts driving.PromptService

	// Registry refreshes prompts from the remote registry. Optional; the
	// refresh tool is only offered when it is set.
	Registry driving.RegistryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Prompts == nil {
		return ErrMissingPromptService
	}
	return nil
}
