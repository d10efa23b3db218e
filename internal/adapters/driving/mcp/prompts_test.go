package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

func TestToMCPPrompt(t *testing.T) {
	p := testPrompts()[0]

	got := toMCPPrompt(&p)

	assert.Equal(t, "code-review", got.Name)
	assert.Equal(t, "Code Review", got.Title)
	assert.Equal(t, "Review code for bugs", got.Description)
	require.Len(t, got.Arguments, 2)
	assert.Equal(t, "CODE", got.Arguments[0].Name)
	assert.True(t, got.Arguments[0].Required)
	assert.Equal(t, "code to review", got.Arguments[0].Description)
	assert.Equal(t, "LANGUAGE", got.Arguments[1].Name)
	assert.False(t, got.Arguments[1].Required, "a variable with a default is optional")
}

func TestToMCPPrompt_DescriptionFallsBackToContent(t *testing.T) {
	p := domain.Prompt{ID: "x", Title: "X", Content: "First line\nsecond line"}

	assert.Equal(t, "First line", toMCPPrompt(&p).Description)
}

func TestServer_handleGetPrompt(t *testing.T) {
	ctx := context.Background()
	server, _, _ := newTestServer(t)

	t.Run("renders with arguments", func(t *testing.T) {
		req := &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{
			Name:      "code-review",
			Arguments: map[string]string{"CODE": "fmt.Println()", "LANGUAGE": "Rust"},
		}}

		result, err := server.handleGetPrompt(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, "Code Review", result.Description)
		require.Len(t, result.Messages, 1)
		assert.Equal(t, mcp.Role("user"), result.Messages[0].Role)
		text, ok := result.Messages[0].Content.(*mcp.TextContent)
		require.True(t, ok)
		assert.Equal(t, "Review this Rust code:\nfmt.Println()", text.Text)
	})

	t.Run("unknown prompt fails", func(t *testing.T) {
		req := &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{Name: "missing"}}

		_, err := server.handleGetPrompt(ctx, req)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
