package domain

import (
	"fmt"
	"strings"
)

// Bundle is a named, ordered selection of prompts.
type Bundle struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	Featured    bool   `json:"featured" yaml:"featured"`

	// PromptIDs lists member prompts in display order.
	PromptIDs []string `json:"prompt_ids" yaml:"prompts"`
}

// Validate checks that the bundle has an id, a title and at least one
// distinct member.
func (b *Bundle) Validate() error {
	switch {
	case strings.TrimSpace(b.ID) == "":
		return fmt.Errorf("%w: bundle id is required", ErrInvalidInput)
	case strings.TrimSpace(b.Title) == "":
		return fmt.Errorf("%w: bundle %q has no title", ErrInvalidInput, b.ID)
	case len(b.PromptIDs) == 0:
		return fmt.Errorf("%w: bundle %q has no prompts", ErrInvalidInput, b.ID)
	}
	seen := make(map[string]struct{}, len(b.PromptIDs))
	for _, id := range b.PromptIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: bundle %q lists an empty prompt id", ErrInvalidInput, b.ID)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: bundle %q lists %q twice", ErrInvalidInput, b.ID, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// BundleSummary is one row of the bundle listing. PromptCount counts only
// members present in the prompt store.
type BundleSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
	Author      string `json:"author,omitempty"`
	Featured    bool   `json:"featured"`
	PromptCount int    `json:"prompt_count"`
}

// ResolvedBundle is a bundle with its members loaded from the prompt store.
type ResolvedBundle struct {
	Bundle
	Prompts []Prompt `json:"prompts"`

	// Missing lists member ids with no stored prompt.
	Missing []string `json:"missing,omitempty"`
}

// Summary returns the listing row for a resolved bundle.
func (r *ResolvedBundle) Summary() BundleSummary {
	return BundleSummary{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Version:     r.Version,
		Author:      r.Author,
		Featured:    r.Featured,
		PromptCount: len(r.Prompts),
	}
}
