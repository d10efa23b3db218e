package driving

import (
	"context"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// RegistryService coordinates the remote registry, the on-disk cache and the
// bundled fallback.
type RegistryService interface {
	// Load returns the cached snapshot or the bundled set. It never
	// performs network I/O.
	Load(ctx context.Context) (*domain.LoadResult, error)

	// Refresh always attempts one remote fetch and degrades to the cache or
	// the bundled set on failure.
	Refresh(ctx context.Context) (*domain.LoadResult, error)

	// Sync refreshes and writes the result into the prompt store.
	Sync(ctx context.Context) (*domain.SyncReport, error)

	// CacheStatus reports whether the snapshot is missing, fresh or stale.
	CacheStatus() domain.CacheStatus

	// Status describes the store and cache.
	Status(ctx context.Context) (*domain.StatusReport, error)
}
