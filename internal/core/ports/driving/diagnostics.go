package driving

import (
	"context"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// DiagnosticsService runs health checks over the local installation.
type DiagnosticsService interface {
	// Run performs every check. With fix set, repairable problems are repaired.
	Run(ctx context.Context, fix bool) []domain.Check
}
