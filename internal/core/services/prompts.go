package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driven"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driving"
	"github.com/jeffreysprompts/jfp/internal/logger"
)

// Ensure PromptService implements the interface.
var _ driving.PromptService = (*PromptService)(nil)

// PromptService provides prompt browsing, search and rendering over a PromptStore.
type PromptService struct {
	store   driven.PromptStore
	bundled driven.BundledSource
	now     func() time.Time
	pick    func(n int) int
}

// NewPromptService creates a new prompt service.
// The bundled source is optional; without it EnsureSeeded is a no-op.
func NewPromptService(store driven.PromptStore, bundled driven.BundledSource) *PromptService {
	return &PromptService{
		store:   store,
		bundled: bundled,
		now:     time.Now,
		pick:    rand.IntN,
	}
}

// EnsureSeeded writes the bundled prompts when the store is empty.
func (s *PromptService) EnsureSeeded(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, domain.ErrStoreUnavailable
	}
	if s.bundled == nil {
		return 0, nil
	}

	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting prompts: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	prompts := s.bundled.Prompts()
	logger.Debug("seeding empty store with %d bundled prompts", len(prompts))
	if err := s.store.BulkUpsert(ctx, prompts); err != nil {
		return 0, fmt.Errorf("seeding bundled prompts: %w", err)
	}
	return len(prompts), nil
}

// List returns prompts matching the filter.
func (s *PromptService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Prompt, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	return s.store.List(ctx, filter)
}

// Get returns a prompt by ID.
func (s *PromptService) Get(ctx context.Context, id string) (*domain.Prompt, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	p, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting prompt %q: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("prompt %q: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// Search ranks prompts for query. A query the full-text engine cannot parse
// is retried once as a literal phrase.
func (s *PromptService) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if !domain.ValidSearchLimit(limit) {
		return nil, fmt.Errorf("%w: limit must be between %d and %d",
			domain.ErrInvalidInput, domain.MinSearchLimit, domain.MaxSearchLimit)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}

	logger.Section("Search")
	logger.Debug("Query: %q, limit %d", query, limit)

	results, err := s.store.Search(ctx, query, limit)
	if domain.IsSearchSyntax(err) {
		literal := domain.LiteralPhrase(query)
		logger.Debug("query syntax rejected (%v), retrying as %s", err, literal)
		results, err = s.store.Search(ctx, literal, limit)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("%d results", len(results))
	return results, nil
}

// Suggest matches any word of a task description and normalises relevance
// against the best hit.
func (s *PromptService) Suggest(ctx context.Context, task string, limit int) ([]domain.Suggestion, error) {
	query := domain.AnyWordQuery(task)
	if query == "" {
		if !domain.ValidSearchLimit(limit) {
			return nil, fmt.Errorf("%w: limit must be between %d and %d",
				domain.ErrInvalidInput, domain.MinSearchLimit, domain.MaxSearchLimit)
		}
		return []domain.Suggestion{}, nil
	}

	results, err := s.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	suggestions := make([]domain.Suggestion, len(results))
	if len(results) == 0 {
		return suggestions, nil
	}
	best := results[0].Score
	for i, r := range results {
		relevance := 1.0
		if best > 0 {
			relevance = r.Score / best
		}
		suggestions[i] = domain.Suggestion{Prompt: r.Prompt, Relevance: relevance}
	}
	return suggestions, nil
}

// Random picks one prompt matching the filter.
func (s *PromptService) Random(ctx context.Context, filter domain.ListFilter) (*domain.Prompt, error) {
	prompts, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(prompts) == 0 {
		return nil, domain.ErrNoPrompts
	}
	p := prompts[s.pick(len(prompts))]
	return &p, nil
}

// Categories returns category counts sorted by name.
func (s *PromptService) Categories(ctx context.Context) ([]domain.Count, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	return s.store.CategoryCounts(ctx)
}

// Tags returns tag counts, most used first.
func (s *PromptService) Tags(ctx context.Context) ([]domain.Count, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	return s.store.TagCounts(ctx)
}

// Count returns the number of stored prompts.
func (s *PromptService) Count(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, domain.ErrStoreUnavailable
	}
	return s.store.Count(ctx)
}

// Render fills the placeholders of a stored prompt. Values win over variable
// defaults; placeholders with neither stay in the output.
func (s *PromptService) Render(ctx context.Context, id string, values map[string]string) (string, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if missing := p.MissingRequired(values); len(missing) > 0 {
		logger.Debug("rendering %s without required variables %v", id, missing)
	}
	return p.Render(values), nil
}

// AddLocal stores a user-authored prompt. A missing ID is generated and
// SavedAt defaults to the current time.
func (s *PromptService) AddLocal(ctx context.Context, prompt domain.Prompt) (*domain.Prompt, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}

	prompt.ID = strings.TrimSpace(prompt.ID)
	if prompt.ID == "" {
		prompt.ID = "local-" + uuid.NewString()
	}
	prompt.IsLocal = true
	if prompt.SavedAt == "" {
		prompt.SavedAt = s.now().UTC().Format(time.RFC3339)
	}
	prompt.Tags = prompt.NormalizedTags()
	for i := range prompt.Variables {
		prompt.Variables[i].Type = domain.ParseVariableType(string(prompt.Variables[i].Type))
	}

	if err := prompt.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Upsert(ctx, &prompt); err != nil {
		return nil, err
	}
	logger.Debug("stored local prompt %s", prompt.ID)
	return &prompt, nil
}

// Delete removes a prompt.
func (s *PromptService) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return domain.ErrStoreUnavailable
	}
	return s.store.Delete(ctx, id)
}
