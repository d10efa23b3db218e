package registry

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driven"
)

//go:embed bundles.yaml
var bundlesYAML []byte

// Ensure Bundles implements the interface.
var _ driven.BundleSource = (*Bundles)(nil)

// Bundles serves the bundle definitions compiled into the binary.
type Bundles struct {
	bundles []domain.Bundle
}

// NewBundles parses the embedded bundle definitions.
func NewBundles() (*Bundles, error) {
	bundles, err := parseBundles(bundlesYAML)
	if err != nil {
		return nil, err
	}
	return &Bundles{bundles: bundles}, nil
}

// MustBundles is NewBundles for program start-up.
func MustBundles() *Bundles {
	b, err := NewBundles()
	if err != nil {
		panic(err)
	}
	return b
}

// Bundles returns a copy of the bundle definitions.
func (b *Bundles) Bundles() []domain.Bundle {
	out := make([]domain.Bundle, len(b.bundles))
	for i, bundle := range b.bundles {
		bundle.PromptIDs = append([]string(nil), bundle.PromptIDs...)
		out[i] = bundle
	}
	return out
}

func parseBundles(data []byte) ([]domain.Bundle, error) {
	var bundles []domain.Bundle
	if err := yaml.Unmarshal(data, &bundles); err != nil {
		return nil, fmt.Errorf("parsing bundles: %w", err)
	}
	seen := make(map[string]struct{}, len(bundles))
	for i := range bundles {
		if err := bundles[i].Validate(); err != nil {
			return nil, fmt.Errorf("bundle %d: %w", i, err)
		}
		if _, ok := seen[bundles[i].ID]; ok {
			return nil, fmt.Errorf("%w: duplicate bundle id %q", domain.ErrInvalidInput, bundles[i].ID)
		}
		seen[bundles[i].ID] = struct{}{}
	}
	return bundles, nil
}
