package driving

import (
	"context"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// PromptService provides prompt browsing and retrieval to external actors.
type PromptService interface {
	// EnsureSeeded loads the bundled prompts when the store is empty.
	// Returns the number of prompts written.
	EnsureSeeded(ctx context.Context) (int, error)

	// List returns prompts matching the filter, ordered by title.
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Prompt, error)

	// Get returns one prompt or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Prompt, error)

	// Search ranks prompts for a query. Limit must be in [1, 100].
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)

	// Suggest finds prompts for a free-text task description.
	Suggest(ctx context.Context, task string, limit int) ([]domain.Suggestion, error)

	// Random picks one prompt matching the filter, or domain.ErrNoPrompts.
	Random(ctx context.Context, filter domain.ListFilter) (*domain.Prompt, error)

	// Categories returns category counts.
	Categories(ctx context.Context) ([]domain.Count, error)

	// Tags returns tag counts.
	Tags(ctx context.Context) ([]domain.Count, error)

	// Count returns the number of stored prompts.
	Count(ctx context.Context) (int, error)

	// Render fills a prompt's placeholders.
	Render(ctx context.Context, id string, values map[string]string) (string, error)

	// AddLocal stores a user-authored prompt and returns it as saved.
	AddLocal(ctx context.Context, prompt domain.Prompt) (*domain.Prompt, error)

	// Delete removes a prompt.
	Delete(ctx context.Context, id string) error
}
