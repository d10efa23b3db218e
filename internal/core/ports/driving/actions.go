package driving

import (
	"context"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// PromptActionService provides desktop actions on prompts.
// This is used by TUI and CLI adapters.
type PromptActionService interface {
	// CopyToClipboard copies text to the system clipboard.
	CopyToClipboard(ctx context.Context, text string) error

	// OpenPrompt opens the prompt's page on the registry website.
	OpenPrompt(ctx context.Context, prompt *domain.Prompt) error

	// PromptURL returns the web address for a prompt.
	PromptURL(prompt *domain.Prompt) string
}
