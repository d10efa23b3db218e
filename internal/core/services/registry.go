package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driven"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driving"
	"github.com/jeffreysprompts/jfp/internal/logger"
)

// Ensure RegistryService implements the interface.
var _ driving.RegistryService = (*RegistryService)(nil)

// RegistryService chooses between the remote registry, the on-disk snapshot
// and the bundled prompts using stale-while-revalidate.
type RegistryService struct {
	client  driven.RegistryClient
	cache   driven.RegistryCache
	bundled driven.BundledSource
	store   driven.PromptStore
	ttl     time.Duration
	now     func() time.Time
}

// NewRegistryService creates a new registry service.
func NewRegistryService(
	client driven.RegistryClient,
	cache driven.RegistryCache,
	bundled driven.BundledSource,
) *RegistryService {
	return &RegistryService{
		client:  client,
		cache:   cache,
		bundled: bundled,
		ttl:     domain.DefaultCacheTTL,
		now:     time.Now,
	}
}

// SetStore sets the prompt store used by Sync and Status.
func (s *RegistryService) SetStore(store driven.PromptStore) {
	s.store = store
}

// SetTTL sets how long a snapshot stays fresh. Non-positive values are ignored.
func (s *RegistryService) SetTTL(ttl time.Duration) {
	if ttl > 0 {
		s.ttl = ttl
	}
}

// Load returns the snapshot with its staleness, or the bundled prompts when
// there is no usable snapshot. It never touches the network.
func (s *RegistryService) Load(_ context.Context) (*domain.LoadResult, error) {
	if !s.cache.Exists() {
		return s.bundledResult(nil), nil
	}

	prompts, err := s.cache.Load()
	if err != nil {
		logger.Warn("registry cache unreadable, using bundled prompts: %v", err)
		return s.bundledResult(err), nil
	}

	return &domain.LoadResult{
		Prompts: prompts,
		Source:  domain.SourceCache,
		Stale:   s.isStale(),
	}, nil
}

// Refresh performs one conditional fetch and settles on exactly one of:
// new remote data, the restamped snapshot, or a degraded fallback.
func (s *RegistryService) Refresh(ctx context.Context) (*domain.LoadResult, error) {
	hasCache := s.cache.Exists()

	var etag string
	if hasCache {
		if meta, ok := s.cache.Meta(); ok {
			etag = meta.ETag
		}
	}

	logger.Section("Registry Refresh")
	logger.Debug("URL: %s, cached: %v, etag: %q", s.client.URL(), hasCache, etag)

	fetched, err := s.client.Fetch(ctx, etag)
	if err != nil {
		return s.degrade(hasCache, err), nil
	}

	if fetched.NotModified {
		if !hasCache {
			logger.Debug("not modified without a snapshot, loading locally")
			return s.Load(ctx)
		}
		prompts, err := s.cache.Load()
		if err != nil {
			logger.Warn("registry cache unreadable after 304, using bundled prompts: %v", err)
			return s.bundledResult(err), nil
		}
		result := &domain.LoadResult{Prompts: prompts, Source: domain.SourceCache}
		if err := s.cache.Touch(s.stamp()); err != nil {
			logger.Warn("restamping registry cache: %v", err)
			result.Warning = err
		}
		logger.Debug("not modified, %d cached prompts", len(prompts))
		return result, nil
	}

	result := &domain.LoadResult{Prompts: fetched.Prompts, Source: domain.SourceRemote}
	meta := domain.NewCacheMeta(fetched.Version, fetched.ETag, len(fetched.Prompts), s.now())
	if err := s.cache.Save(fetched.Prompts, meta); err != nil {
		logger.Warn("writing registry cache: %v", err)
		result.Warning = err
	}
	logger.Debug("fetched %d prompts (version %q)", len(fetched.Prompts), fetched.Version)
	return result, nil
}

// degrade answers a failed fetch from the snapshot, marked stale, or from
// the bundled prompts. The fetch error travels as the result's Warning.
func (s *RegistryService) degrade(hasCache bool, fetchErr error) *domain.LoadResult {
	logger.Warn("registry fetch failed: %v", fetchErr)
	if hasCache {
		prompts, err := s.cache.Load()
		if err == nil {
			return &domain.LoadResult{
				Prompts: prompts,
				Source:  domain.SourceCache,
				Stale:   true,
				Warning: fetchErr,
			}
		}
		logger.Warn("registry cache unreadable: %v", err)
	}
	return s.bundledResult(fetchErr)
}

// Sync refreshes and writes the resulting prompts into the store.
// A bundled fallback is not written over a populated store.
func (s *RegistryService) Sync(ctx context.Context) (*domain.SyncReport, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}

	result, err := s.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	apply := true
	if result.Source == domain.SourceBundled {
		n, err := s.store.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("counting prompts: %w", err)
		}
		apply = n == 0
	}
	if apply {
		if err := s.store.BulkUpsert(ctx, result.Prompts); err != nil {
			return nil, fmt.Errorf("applying %d prompts: %w", len(result.Prompts), err)
		}
	}

	syncedAt := s.stamp()
	if err := s.store.SetMeta(ctx, domain.MetaLastSync, syncedAt); err != nil {
		return nil, err
	}

	report := &domain.SyncReport{
		Source:      result.Source,
		Stale:       result.Stale,
		PromptCount: len(result.Prompts),
		SyncedAt:    syncedAt,
	}
	if result.Warning != nil {
		report.Warning = result.Warning.Error()
	}
	return report, nil
}

// CacheStatus classifies the snapshot. A missing sidecar counts as stale.
func (s *RegistryService) CacheStatus() domain.CacheStatus {
	if !s.cache.Exists() {
		return domain.CacheMissing
	}
	if s.isStale() {
		return domain.CacheStale
	}
	return domain.CacheFresh
}

// Status describes the store and the registry snapshot.
func (s *RegistryService) Status(ctx context.Context) (*domain.StatusReport, error) {
	report := &domain.StatusReport{
		RegistryURL: s.client.URL(),
		CachePath:   s.cache.Path(),
		Cache:       s.CacheStatus(),
	}
	if meta, ok := s.cache.Meta(); ok {
		report.CacheMeta = &meta
	}

	if s.store == nil {
		return report, nil
	}

	report.DatabasePath = s.store.Path()
	if report.DatabasePath != "" {
		_, err := os.Stat(report.DatabasePath)
		report.DatabaseExists = err == nil
	}

	n, err := s.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting prompts: %w", err)
	}
	report.PromptCount = n

	for key, dst := range map[string]*string{
		domain.MetaSchemaVersion: &report.SchemaVersion,
		domain.MetaLastSync:      &report.LastSync,
		domain.MetaDataVersion:   &report.DataVersion,
	} {
		value, ok, err := s.store.GetMeta(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			*dst = value
		}
	}
	return report, nil
}

func (s *RegistryService) isStale() bool {
	meta, ok := s.cache.Meta()
	return !ok || meta.IsStale(s.now(), s.ttl)
}

func (s *RegistryService) bundledResult(warning error) *domain.LoadResult {
	var prompts []domain.Prompt
	if s.bundled != nil {
		prompts = s.bundled.Prompts()
	}
	return &domain.LoadResult{
		Prompts: prompts,
		Source:  domain.SourceBundled,
		Warning: warning,
	}
}

func (s *RegistryService) stamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
