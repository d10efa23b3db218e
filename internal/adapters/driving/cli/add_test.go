package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

func TestAddCmd_YAML(t *testing.T) {
	env := newTestEnv(t)
	path := writeFile(t, env.dir, "standup.yaml", `id: standup
title: Standup Notes
category: writing
tags: [daily]
content: Summarise {{NOTES}}
variables:
  - name: NOTES
    type: multiline
    required: true
`)

	out, err := execute(t, "add", path, "--tag", "team")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Standup Notes (standup)")

	out, err = execute(t, "show", "standup", "--json")
	require.NoError(t, err)

	var got domain.Prompt
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.IsLocal)
	assert.NotEmpty(t, got.SavedAt)
	assert.Equal(t, []string{"daily", "team"}, got.Tags)
	require.Len(t, got.Variables, 1)
	assert.Equal(t, domain.VariableMultiline, got.Variables[0].Type)

	out, err = execute(t, "search", "standup", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "standup"`)
}

func TestAddCmd_MarkdownWithGeneratedID(t *testing.T) {
	env := newTestEnv(t)
	path := writeFile(t, env.dir, "refactor.md", "# Refactor Plan\n\nPlan a refactor of {{MODULE}}.\n")

	out, err := execute(t, "add", path, "-c", "planning", "--json")
	require.NoError(t, err)

	var got domain.Prompt
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, strings.HasPrefix(got.ID, "local-"), got.ID)
	assert.Equal(t, "Refactor Plan", got.Title)
	assert.Equal(t, "planning", got.Category)
	assert.Equal(t, "Plan a refactor of {{MODULE}}.", got.Content)
}

func TestAddCmd_Errors(t *testing.T) {
	env := newTestEnv(t)
	noTitle := writeFile(t, env.dir, "bad.json", `{"id": "x", "content": "body"}`)
	unknown := writeFile(t, env.dir, "prompt.txt", "hello")

	_, err := execute(t, "add", noTitle)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute(t, "add", unknown)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseMarkdownPrompt(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    domain.Prompt
		wantErr bool
	}{
		{
			name: "front matter title wins over heading",
			text: "---\nid: a\ntitle: From Front\ntags: [x]\n---\n# Heading\n\nBody\n",
			want: domain.Prompt{ID: "a", Title: "From Front", Tags: []string{"x"}, Content: "# Heading\n\nBody"},
		},
		{
			name: "heading becomes title",
			text: "# Heading\r\n\r\nBody text\r\n",
			want: domain.Prompt{Title: "Heading", Content: "Body text"},
		},
		{
			name: "plain body",
			text: "Just a body",
			want: domain.Prompt{Content: "Just a body"},
		},
		{
			name:    "unterminated front matter",
			text:    "---\nid: a\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Prompt
			err := parseMarkdownPrompt(tt.text, &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
