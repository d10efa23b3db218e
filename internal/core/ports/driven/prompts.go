package driven

import (
	"context"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// PromptStore persists prompts together with their tags, variables and
// full-text index entry. The store is the single writer of prompt state.
type PromptStore interface {
	// Upsert replaces the prompt and all of its dependent rows in one transaction.
	Upsert(ctx context.Context, prompt *domain.Prompt) error

	// BulkUpsert applies Upsert to every prompt in a single transaction.
	// Either all prompts are written or none are.
	BulkUpsert(ctx context.Context, prompts []domain.Prompt) error

	// Get returns the prompt with tags and variables.
	// The boolean is false when no prompt has that id.
	Get(ctx context.Context, id string) (*domain.Prompt, bool, error)

	// List returns prompts matching every set filter field, ordered by title.
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Prompt, error)

	// Delete removes one prompt and its dependent rows.
	// Returns domain.ErrNotFound if the id is unknown.
	Delete(ctx context.Context, id string) error

	// Reset removes every prompt. Metadata is kept.
	Reset(ctx context.Context) error

	// Count returns the number of stored prompts.
	Count(ctx context.Context) (int, error)

	// CategoryCounts returns categories sorted by name. Prompts without a
	// category are not counted.
	CategoryCounts(ctx context.Context) ([]domain.Count, error)

	// TagCounts returns tags sorted by count descending, then name ascending.
	TagCounts(ctx context.Context) ([]domain.Count, error)

	// Search ranks prompts against a full-text query. Higher scores are more
	// relevant. Returns *domain.SearchSyntaxError when the query cannot be parsed.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)

	// GetMeta reads a bookkeeping value. The boolean is false when unset.
	GetMeta(ctx context.Context, key string) (string, bool, error)

	// SetMeta writes a bookkeeping value, replacing any previous one.
	SetMeta(ctx context.Context, key, value string) error

	// IntegrityCheck reports whether the on-disk structure is consistent.
	IntegrityCheck(ctx context.Context) (bool, error)

	// Path returns the backing file, or an empty string for in-memory stores.
	Path() string
}

// PromptStoreMaintainer is implemented by stores that support maintenance
// operations. Callers type-assert for it.
type PromptStoreMaintainer interface {
	// Checkpoint folds the write-ahead log back into the main file.
	Checkpoint(ctx context.Context) error
}
