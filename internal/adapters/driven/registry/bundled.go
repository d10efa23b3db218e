package registry

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driven"
)

//go:embed bundled.yaml
var bundledYAML []byte

// Ensure Bundled implements the interface.
var _ driven.BundledSource = (*Bundled)(nil)

// Bundled serves the prompt set compiled into the binary.
type Bundled struct {
	prompts []domain.Prompt
}

// NewBundled parses the embedded prompt set.
func NewBundled() (*Bundled, error) {
	prompts, err := parseBundled(bundledYAML)
	if err != nil {
		return nil, err
	}
	return &Bundled{prompts: prompts}, nil
}

// MustBundled is NewBundled for program start-up; the embedded data is fixed
// at build time and covered by tests.
func MustBundled() *Bundled {
	b, err := NewBundled()
	if err != nil {
		panic(err)
	}
	return b
}

// Prompts returns a copy of the bundled prompts.
func (b *Bundled) Prompts() []domain.Prompt {
	out := make([]domain.Prompt, len(b.prompts))
	for i, p := range b.prompts {
		p.Tags = append([]string(nil), p.Tags...)
		p.Variables = append([]domain.Variable(nil), p.Variables...)
		out[i] = p
	}
	return out
}

func parseBundled(data []byte) ([]domain.Prompt, error) {
	var prompts []domain.Prompt
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("parsing bundled prompts: %w", err)
	}
	for i := range prompts {
		for j := range prompts[i].Variables {
			v := &prompts[i].Variables[j]
			v.Type = domain.ParseVariableType(string(v.Type))
		}
		if err := prompts[i].Validate(); err != nil {
			return nil, fmt.Errorf("bundled prompt %d: %w", i, err)
		}
	}
	return prompts, nil
}
