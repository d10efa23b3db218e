package services

import (
	"context"
	"fmt"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driven"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driving"
	"github.com/jeffreysprompts/jfp/internal/logger"
)

// Ensure BundleService implements the interface.
var _ driving.BundleService = (*BundleService)(nil)

// BundleService resolves bundle definitions against the prompt store.
type BundleService struct {
	source driven.BundleSource
	store  driven.PromptStore
}

// NewBundleService creates a bundle service.
func NewBundleService(source driven.BundleSource, store driven.PromptStore) *BundleService {
	return &BundleService{source: source, store: store}
}

// List returns every bundle with the number of members currently stored.
func (s *BundleService) List(ctx context.Context) ([]domain.BundleSummary, error) {
	if s.source == nil {
		return []domain.BundleSummary{}, nil
	}
	bundles := s.source.Bundles()
	out := make([]domain.BundleSummary, 0, len(bundles))
	for _, b := range bundles {
		resolved, err := s.resolve(ctx, b)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved.Summary())
	}
	return out, nil
}

// Get resolves a bundle's members in definition order. Members missing
// from the store are skipped and reported in Missing.
func (s *BundleService) Get(ctx context.Context, id string) (*domain.ResolvedBundle, error) {
	if s.source != nil {
		for _, b := range s.source.Bundles() {
			if b.ID == id {
				return s.resolve(ctx, b)
			}
		}
	}
	return nil, fmt.Errorf("bundle %q: %w", id, domain.ErrNotFound)
}

func (s *BundleService) resolve(ctx context.Context, b domain.Bundle) (*domain.ResolvedBundle, error) {
	if s.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	out := &domain.ResolvedBundle{Bundle: b, Prompts: make([]domain.Prompt, 0, len(b.PromptIDs))}
	for _, pid := range b.PromptIDs {
		p, ok, err := s.store.Get(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("resolving bundle %q: %w", b.ID, err)
		}
		if !ok {
			out.Missing = append(out.Missing, pid)
			continue
		}
		out.Prompts = append(out.Prompts, *p)
	}
	if len(out.Missing) > 0 {
		logger.Debug("bundle %s: %d members not in store: %v", b.ID, len(out.Missing), out.Missing)
	}
	return out, nil
}
