package domain

import "strings"

// Search limits.
const (
	MinSearchLimit     = 1
	MaxSearchLimit     = 100
	DefaultSearchLimit = 10
)

// ListFilter narrows a listing. Empty fields do not filter; all set fields must match.
type ListFilter struct {
	Category     string
	Tag          string
	FeaturedOnly bool
}

// SearchResult represents a single search hit.
type SearchResult struct {
	// Prompt is the matched prompt with tags populated.
	Prompt Prompt `json:"prompt"`

	// Score is the relevance score. Higher is more relevant.
	Score float64 `json:"score"`
}

// Suggestion is a search hit with relevance normalised to [0, 1] against the best hit.
type Suggestion struct {
	Prompt    Prompt  `json:"prompt"`
	Relevance float64 `json:"relevance"`
}

// Count pairs a category or tag name with the number of prompts carrying it.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ValidSearchLimit reports whether limit lies in [MinSearchLimit, MaxSearchLimit].
func ValidSearchLimit(limit int) bool {
	return limit >= MinSearchLimit && limit <= MaxSearchLimit
}

// LiteralPhrase wraps a query as a single quoted phrase so the full-text
// engine treats every character literally. Embedded quotes are doubled.
func LiteralPhrase(query string) string {
	return `"` + strings.ReplaceAll(query, `"`, `""`) + `"`
}

// AnyWordQuery quotes each word of free text and joins them with OR,
// so a match on any word counts.
func AnyWordQuery(text string) string {
	words := strings.Fields(text)
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, `"`)
		if w == "" {
			continue
		}
		quoted = append(quoted, LiteralPhrase(w))
	}
	return strings.Join(quoted, " OR ")
}
