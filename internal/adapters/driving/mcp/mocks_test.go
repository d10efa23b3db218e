package mcp

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeffreysprompts/jfp/internal/adapters/driven/storage/memory"
	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driving"
	"github.com/jeffreysprompts/jfp/internal/core/services"
)

// countingPrompts wraps a prompt service and counts searches.
type countingPrompts struct {
	driving.PromptService
	searches atomic.Int32
}

func (c *countingPrompts) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	c.searches.Add(1)
	return c.PromptService.Search(ctx, query, limit)
}

// mockRegistryService syncs a fixed prompt set into a store.
type mockRegistryService struct {
	store   *memory.PromptStore
	prompts []domain.Prompt
	err     error
	syncs   int
}

func (m *mockRegistryService) Load(context.Context) (*domain.LoadResult, error) {
	return &domain.LoadResult{Prompts: m.prompts, Source: domain.SourceCache}, nil
}

func (m *mockRegistryService) Refresh(context.Context) (*domain.LoadResult, error) {
	return &domain.LoadResult{Prompts: m.prompts, Source: domain.SourceRemote}, m.err
}

func (m *mockRegistryService) Sync(ctx context.Context) (*domain.SyncReport, error) {
	m.syncs++
	if m.err != nil {
		return nil, m.err
	}
	if err := m.store.Reset(ctx); err != nil {
		return nil, err
	}
	if err := m.store.BulkUpsert(ctx, m.prompts); err != nil {
		return nil, err
	}
	return &domain.SyncReport{Source: domain.SourceRemote, PromptCount: len(m.prompts)}, nil
}

func (m *mockRegistryService) CacheStatus() domain.CacheStatus {
	return domain.CacheFresh
}

func (m *mockRegistryService) Status(context.Context) (*domain.StatusReport, error) {
	return &domain.StatusReport{}, nil
}

func testPrompts() []domain.Prompt {
	return []domain.Prompt{
		{
			ID:          "code-review",
			Title:       "Code Review",
			Description: "Review code for bugs",
			Category:    "review",
			Tags:        []string{"review", "quality"},
			Content:     "Review this {{LANGUAGE}} code:\n{{CODE}}",
			Variables: []domain.Variable{
				{Name: "CODE", Type: domain.VariableMultiline, Required: true, Description: "code to review"},
				{Name: "LANGUAGE", Type: domain.VariableText, Default: "Go"},
			},
		},
		{
			ID:       "write-tests",
			Title:    "Write Tests",
			Category: "testing",
			Tags:     []string{"testing"},
			Content:  "Write unit tests for the code below, focusing on edge cases.",
		},
	}
}

// newTestServer builds a server over an in-memory store holding testPrompts.
func newTestServer(t *testing.T) (*Server, *countingPrompts, *memory.PromptStore) {
	t.Helper()
	store := memory.NewPromptStore()
	require.NoError(t, store.BulkUpsert(context.Background(), testPrompts()))

	prompts := &countingPrompts{PromptService: services.NewPromptService(store, nil)}
	server, err := NewServer(context.Background(), &Ports{Prompts: prompts})
	require.NoError(t, err)
	return server, prompts, store
}
