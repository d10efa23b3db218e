package driving

import "context"

// BackupService exports and imports the full prompt set as JSON lines.
type BackupService interface {
	// Export writes every prompt to path and returns the count written.
	// The destination is replaced atomically.
	Export(ctx context.Context, path string) (int, error)

	// Import reads prompts from path and applies them in one transaction.
	Import(ctx context.Context, path string) (int, error)
}
