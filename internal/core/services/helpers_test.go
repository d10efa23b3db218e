package services

import (
	"context"
	"sync"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driven"
)

// fakeBundled is a fixed BundledSource.
type fakeBundled []domain.Prompt

func (b fakeBundled) Prompts() []domain.Prompt {
	return append([]domain.Prompt(nil), b...)
}

// fakeClient is a scripted RegistryClient.
type fakeClient struct {
	mu       sync.Mutex
	url      string
	result   *driven.RemoteFetch
	err      error
	gotETags []string
}

func (c *fakeClient) Fetch(_ context.Context, etag string) (*driven.RemoteFetch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gotETags = append(c.gotETags, etag)
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

func (c *fakeClient) URL() string {
	if c.url == "" {
		return "https://registry.test/prompts"
	}
	return c.url
}

func testPrompts() []domain.Prompt {
	return []domain.Prompt{
		{
			ID:          "code-review",
			Title:       "Code Review",
			Description: "Review code for bugs",
			Category:    "review",
			Tags:        []string{"review", "quality"},
			Featured:    true,
			Content:     "Review this code:\n{{CODE}}",
			Variables: []domain.Variable{
				{Name: "CODE", Type: domain.VariableMultiline, Required: true},
			},
		},
		{
			ID:       "debug",
			Title:    "Debug Helper",
			Category: "debugging",
			Tags:     []string{"debugging"},
			Content:  "Find the bug in {{CODE}}. Tried: {{ATTEMPTS}}",
			Variables: []domain.Variable{
				{Name: "CODE", Type: domain.VariableMultiline, Required: true},
				{Name: "ATTEMPTS", Type: domain.VariableText, Default: "Nothing yet."},
			},
		},
		{
			ID:       "write-tests",
			Title:    "Write Tests",
			Category: "testing",
			Tags:     []string{"testing", "quality"},
			Content:  "Write unit tests for the code below, focusing on edge cases.",
		},
	}
}
