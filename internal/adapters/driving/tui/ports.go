// Package tui provides the interactive prompt picker for jfp.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/jeffreysprompts/jfp/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Prompts provides listing and search.
	Prompts driving.PromptService

	// Actions copies prompts and opens them in the browser.
	Actions driving.PromptActionService

	// Registry reports where the library came from. Optional.
	Registry driving.RegistryService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(prompts driving.PromptService, actions driving.PromptActionService) *Ports {
	return &Ports{
		Prompts: prompts,
		Actions: actions,
	}
}

// WithRegistry sets the optional registry port.
func (p *Ports) WithRegistry(registry driving.RegistryService) *Ports {
	p.Registry = registry
	return p
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Prompts == nil {
		return ErrMissingPromptService
	}
	if p.Actions == nil {
		return ErrMissingActionService
	}
	return nil
}
