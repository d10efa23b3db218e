package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundle_Validate(t *testing.T) {
	tests := []struct {
		name    string
		bundle  Bundle
		wantErr string
	}{
		{
			name:   "valid",
			bundle: Bundle{ID: "starter", Title: "Starter", PromptIDs: []string{"a", "b"}},
		},
		{
			name:    "missing id",
			bundle:  Bundle{Title: "Starter", PromptIDs: []string{"a"}},
			wantErr: "bundle id is required",
		},
		{
			name:    "missing title",
			bundle:  Bundle{ID: "starter", PromptIDs: []string{"a"}},
			wantErr: `bundle "starter" has no title`,
		},
		{
			name:    "no members",
			bundle:  Bundle{ID: "starter", Title: "Starter"},
			wantErr: `bundle "starter" has no prompts`,
		},
		{
			name:    "blank member",
			bundle:  Bundle{ID: "starter", Title: "Starter", PromptIDs: []string{"a", " "}},
			wantErr: "empty prompt id",
		},
		{
			name:    "duplicate member",
			bundle:  Bundle{ID: "starter", Title: "Starter", PromptIDs: []string{"a", "a"}},
			wantErr: `lists "a" twice`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bundle.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolvedBundle_Summary(t *testing.T) {
	r := ResolvedBundle{
		Bundle: Bundle{
			ID:          "starter",
			Title:       "Starter",
			Description: "First steps",
			Featured:    true,
			PromptIDs:   []string{"a", "b", "gone"},
		},
		Prompts: []Prompt{{ID: "a"}, {ID: "b"}},
		Missing: []string{"gone"},
	}

	assert.Equal(t, BundleSummary{
		ID:          "starter",
		Title:       "Starter",
		Description: "First steps",
		Featured:    true,
		PromptCount: 2,
	}, r.Summary())
}
