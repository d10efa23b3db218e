package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Prompt is a template document with named placeholder variables.
// The ID is the primary key and never changes once created.
type Prompt struct {
	// ID uniquely identifies the prompt (e.g. "code-review").
	ID string `json:"id" yaml:"id"`

	// Title is the human-readable name. Required.
	Title string `json:"title" yaml:"title"`

	// Content is the template body. Required. May contain {{NAME}} placeholders.
	Content string `json:"content" yaml:"content"`

	// Description is an optional one-line summary.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Category groups related prompts (e.g. "debugging").
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// Tags are free-form labels kept in insertion order.
	Tags []string `json:"tags" yaml:"tags"`

	// Variables describes the placeholders in Content, in display order.
	Variables []Variable `json:"variables,omitempty" yaml:"variables,omitempty"`

	// Featured marks curated prompts.
	Featured bool `json:"featured" yaml:"featured"`

	// Version is the prompt's own revision string.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Author credits the prompt's creator.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// SavedAt is the RFC 3339 time a local prompt was authored, if known.
	SavedAt string `json:"saved_at,omitempty" yaml:"saved_at,omitempty"`

	// IsLocal is true for user-authored prompts, false for registry prompts.
	IsLocal bool `json:"is_local" yaml:"is_local"`
}

// Variable describes one placeholder in a prompt template.
type Variable struct {
	Name        string       `json:"name" yaml:"name"`
	Type        VariableType `json:"type" yaml:"type"`
	Required    bool         `json:"required" yaml:"required"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Default     string       `json:"default,omitempty" yaml:"default,omitempty"`
}

// VariableType is the closed set of variable input kinds.
type VariableType string

// Variable types.
const (
	VariableText      VariableType = "text"
	VariableMultiline VariableType = "multiline"
	VariableFile      VariableType = "file"
	VariablePath      VariableType = "path"
	VariableSelect    VariableType = "select"
)

// ParseVariableType maps a stored string onto a VariableType.
// Unknown values become VariableText.
func ParseVariableType(s string) VariableType {
	switch VariableType(strings.ToLower(strings.TrimSpace(s))) {
	case VariableMultiline:
		return VariableMultiline
	case VariableFile:
		return VariableFile
	case VariablePath:
		return VariablePath
	case VariableSelect:
		return VariableSelect
	default:
		return VariableText
	}
}

// String returns the string representation.
func (t VariableType) String() string {
	return string(t)
}

// UnmarshalJSON decodes a variable type, defaulting unknown values to text.
func (t *VariableType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("variable type: %w", err)
	}
	*t = ParseVariableType(s)
	return nil
}

// placeholderPattern matches {{NAME}} tokens. Names are letters, digits and underscores.
var placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

// Validate checks the required fields of a prompt.
func (p *Prompt) Validate() error {
	switch {
	case strings.TrimSpace(p.ID) == "":
		return fmt.Errorf("%w: prompt id is required", ErrInvalidInput)
	case strings.TrimSpace(p.Title) == "":
		return fmt.Errorf("%w: prompt %q has no title", ErrInvalidInput, p.ID)
	case strings.TrimSpace(p.Content) == "":
		return fmt.Errorf("%w: prompt %q has no content", ErrInvalidInput, p.ID)
	}
	for _, v := range p.Variables {
		if strings.TrimSpace(v.Name) == "" {
			return fmt.Errorf("%w: prompt %q has an unnamed variable", ErrInvalidInput, p.ID)
		}
	}
	return nil
}

// NormalizedTags returns the tags trimmed, without empties or duplicates,
// in first-seen order.
func (p *Prompt) NormalizedTags() []string {
	seen := make(map[string]struct{}, len(p.Tags))
	out := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// TagsText is the space-joined tag list used for full-text matching.
// Always derived from NormalizedTags.
func (p *Prompt) TagsText() string {
	return strings.Join(p.NormalizedTags(), " ")
}

// HasTag reports whether the prompt carries exactly the given tag.
func (p *Prompt) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.TrimSpace(t) == tag {
			return true
		}
	}
	return false
}

// MatchesCategory reports whether the prompt is in exactly the given category.
func (p *Prompt) MatchesCategory(category string) bool {
	return p.Category != "" && p.Category == category
}

// Matches reports whether the prompt satisfies every predicate in the filter.
func (p *Prompt) Matches(f ListFilter) bool {
	if f.Category != "" && !p.MatchesCategory(f.Category) {
		return false
	}
	if f.Tag != "" && !p.HasTag(f.Tag) {
		return false
	}
	if f.FeaturedOnly && !p.Featured {
		return false
	}
	return true
}

// Placeholders returns the distinct placeholder names in Content in order of appearance.
func (p *Prompt) Placeholders() []string {
	matches := placeholderPattern.FindAllStringSubmatch(p.Content, -1)
	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}

// Variable returns the variable with the given name.
func (p *Prompt) Variable(name string) (Variable, bool) {
	for _, v := range p.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// Render substitutes every known placeholder. Values take precedence over
// variable defaults; placeholders with neither are left intact.
func (p *Prompt) Render(values map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(p.Content, func(token string) string {
		name := token[2 : len(token)-2]
		if v, ok := values[name]; ok {
			return v
		}
		if v, ok := p.Variable(name); ok && v.Default != "" {
			return v.Default
		}
		return token
	})
}

// MissingRequired returns the names of required variables that have neither a
// value nor a default.
func (p *Prompt) MissingRequired(values map[string]string) []string {
	var missing []string
	for _, v := range p.Variables {
		if !v.Required || v.Default != "" {
			continue
		}
		if _, ok := values[v.Name]; !ok {
			missing = append(missing, v.Name)
		}
	}
	return missing
}

// Preview returns the first line of the description or content, cut to max runes.
func (p *Prompt) Preview(maxRunes int) string {
	text := p.Description
	if text == "" {
		text = p.Content
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if maxRunes > 3 && len(runes) > maxRunes {
		return string(runes[:maxRunes-3]) + "..."
	}
	return text
}
