package driven

import (
	"context"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// RemoteFetch is the outcome of one registry request.
type RemoteFetch struct {
	// NotModified is true for a 304 response. Prompts is then nil.
	NotModified bool

	Prompts []domain.Prompt
	ETag    string
	Version string
}

// RegistryClient fetches the full prompt set from the remote registry.
type RegistryClient interface {
	// Fetch performs one GET. A non-empty etag is sent as If-None-Match.
	// Any failure is returned as *domain.RegistryFetchError.
	Fetch(ctx context.Context, etag string) (*RemoteFetch, error)

	// URL returns the endpoint being fetched.
	URL() string
}

// RegistryCache is the on-disk registry snapshot and its metadata sidecar.
type RegistryCache interface {
	// Exists reports whether a snapshot file is present.
	Exists() bool

	// Load reads the snapshot. Returns os.ErrNotExist (wrapped) when absent.
	Load() ([]domain.Prompt, error)

	// Meta reads the sidecar. The boolean is false when the sidecar is
	// missing or unreadable; callers then treat the snapshot as stale.
	Meta() (domain.CacheMeta, bool)

	// Save atomically replaces the snapshot and then the sidecar.
	Save(prompts []domain.Prompt, meta domain.CacheMeta) error

	// Touch rewrites only the sidecar's fetched_at.
	Touch(fetchedAt string) error

	// Path returns the snapshot file path.
	Path() string
}

// BundledSource provides the prompts compiled into the binary.
type BundledSource interface {
	Prompts() []domain.Prompt
}

// BundleSource provides the prompt bundles compiled into the binary.
type BundleSource interface {
	Bundles() []domain.Bundle
}
