package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// Per-field scores for a term match. Title matches that start the title get
// an extra bonus.
const (
	scoreTitle       = 10.0
	scoreTitlePrefix = 5.0
	scoreID          = 8.0
	scoreDescription = 5.0
	scoreCategory    = 3.0
	scoreTag         = 2.0
	scoreContent     = 1.0
)

// PromptStore is an in-memory implementation of driven.PromptStore.
// Search uses fixed per-field term scores instead of BM25.
type PromptStore struct {
	mu      sync.RWMutex
	prompts map[string]domain.Prompt
	meta    map[string]string
}

// NewPromptStore creates a new in-memory prompt store.
func NewPromptStore() *PromptStore {
	return &PromptStore{
		prompts: make(map[string]domain.Prompt),
		meta:    make(map[string]string),
	}
}

// Upsert stores or replaces a prompt.
func (s *PromptStore) Upsert(ctx context.Context, prompt *domain.Prompt) error {
	if prompt == nil {
		return &domain.StoreWriteError{Op: "upsert prompt", Err: domain.ErrInvalidInput}
	}
	return s.BulkUpsert(ctx, []domain.Prompt{*prompt})
}

// BulkUpsert validates every prompt before writing any of them.
func (s *PromptStore) BulkUpsert(_ context.Context, prompts []domain.Prompt) error {
	for i := range prompts {
		if err := prompts[i].Validate(); err != nil {
			return &domain.StoreWriteError{Op: "validating prompt", ID: prompts[i].ID, Err: err}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range prompts {
		s.prompts[prompts[i].ID] = clonePrompt(prompts[i])
	}
	return nil
}

// Get retrieves a prompt by ID.
func (s *PromptStore) Get(_ context.Context, id string) (*domain.Prompt, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prompts[id]
	if !ok {
		return nil, false, nil
	}
	c := clonePrompt(p)
	return &c, true, nil
}

// List returns matching prompts ordered by title.
func (s *PromptStore) List(_ context.Context, filter domain.ListFilter) ([]domain.Prompt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Prompt, 0, len(s.prompts))
	for _, p := range s.prompts {
		if p.Matches(filter) {
			out = append(out, clonePrompt(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete removes a prompt.
func (s *PromptStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.prompts[id]; !ok {
		return fmt.Errorf("prompt %q: %w", id, domain.ErrNotFound)
	}
	delete(s.prompts, id)
	return nil
}

// Reset removes every prompt.
func (s *PromptStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = make(map[string]domain.Prompt)
	return nil
}

// Count returns the number of prompts.
func (s *PromptStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.prompts), nil
}

// CategoryCounts returns categories sorted by name.
func (s *PromptStore) CategoryCounts(_ context.Context) ([]domain.Count, error) {
	s.mu.RLock()
	counts := make(map[string]int)
	for _, p := range s.prompts {
		if p.Category != "" {
			counts[p.Category]++
		}
	}
	s.mu.RUnlock()

	out := toCounts(counts)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// TagCounts returns tags by count descending, then name.
func (s *PromptStore) TagCounts(_ context.Context) ([]domain.Count, error) {
	s.mu.RLock()
	counts := make(map[string]int)
	for _, p := range s.prompts {
		for _, tag := range p.NormalizedTags() {
			counts[tag]++
		}
	}
	s.mu.RUnlock()

	out := toCounts(counts)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Search scores every prompt against the query terms.
// Unbalanced double quotes are rejected like the SQLite store rejects them.
func (s *PromptStore) Search(_ context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if !domain.ValidSearchLimit(limit) {
		return nil, fmt.Errorf("%w: search limit %d outside [%d, %d]",
			domain.ErrInvalidInput, limit, domain.MinSearchLimit, domain.MaxSearchLimit)
	}
	if strings.Count(query, `"`)%2 != 0 {
		return nil, &domain.SearchSyntaxError{Query: query, Err: errors.New("unterminated string")}
	}

	terms := queryTerms(query)
	if len(terms) == 0 {
		return []domain.SearchResult{}, nil
	}

	s.mu.RLock()
	results := make([]domain.SearchResult, 0)
	for _, p := range s.prompts {
		if score := scorePrompt(&p, terms); score > 0 {
			results = append(results, domain.SearchResult{Prompt: clonePrompt(p), Score: score})
		}
	}
	s.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Prompt.ID < results[j].Prompt.ID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// GetMeta reads a bookkeeping value.
func (s *PromptStore) GetMeta(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.meta[key]
	return v, ok, nil
}

// SetMeta writes a bookkeeping value.
func (s *PromptStore) SetMeta(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta[key] = value
	return nil
}

// IntegrityCheck always succeeds.
func (s *PromptStore) IntegrityCheck(_ context.Context) (bool, error) {
	return true, nil
}

// Path returns an empty string; nothing is persisted.
func (s *PromptStore) Path() string {
	return ""
}

// queryTerms lowercases the query and drops quotes and boolean operators.
func queryTerms(query string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ReplaceAll(query, `"`, " ")) {
		switch w {
		case "AND", "OR", "NOT":
			continue
		}
		terms = append(terms, strings.ToLower(w))
	}
	return terms
}

func scorePrompt(p *domain.Prompt, terms []string) float64 {
	title := strings.ToLower(p.Title)
	id := strings.ToLower(p.ID)
	description := strings.ToLower(p.Description)
	category := strings.ToLower(p.Category)
	content := strings.ToLower(p.Content)

	var score float64
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += scoreTitle
			if strings.HasPrefix(title, term) {
				score += scoreTitlePrefix
			}
		}
		if strings.Contains(id, term) {
			score += scoreID
		}
		if strings.Contains(description, term) {
			score += scoreDescription
		}
		if strings.Contains(category, term) {
			score += scoreCategory
		}
		for _, tag := range p.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				score += scoreTag
				break
			}
		}
		if strings.Contains(content, term) {
			score += scoreContent
		}
	}
	return score
}

func toCounts(m map[string]int) []domain.Count {
	out := make([]domain.Count, 0, len(m))
	for name, n := range m {
		out = append(out, domain.Count{Name: name, Count: n})
	}
	return out
}

// clonePrompt copies slices so callers cannot mutate stored state.
func clonePrompt(p domain.Prompt) domain.Prompt {
	p.Tags = append([]string{}, p.NormalizedTags()...)
	if p.Variables != nil {
		p.Variables = append([]domain.Variable(nil), p.Variables...)
	}
	return p
}
