package driving

import (
	"context"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// BundleService lists prompt bundles and resolves their members.
type BundleService interface {
	// List returns every bundle in definition order.
	List(ctx context.Context) ([]domain.BundleSummary, error)

	// Get resolves one bundle's members or returns domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.ResolvedBundle, error)
}
