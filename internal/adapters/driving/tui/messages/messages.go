// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// SearchCompleted carries the results of one query back to the picker.
// Seq identifies the request so answers to superseded queries can be dropped.
type SearchCompleted struct {
	Seq     int
	Query   string
	Results []domain.SearchResult
	Err     error
}

// Stale reports whether a newer query was issued after this one.
func (m SearchCompleted) Stale(latest int) bool {
	return m.Seq != latest
}

// LibraryDescribed carries the size of the prompt library and, when a
// registry is wired, the state of its snapshot. Total is -1 when unknown.
type LibraryDescribed struct {
	Total    int
	Cache    domain.CacheStatus
	HasCache bool
}

// PromptCopied signals the clipboard copy of a prompt finished.
type PromptCopied struct {
	Prompt domain.Prompt
	Err    error
}

// PromptOpened signals the browser was asked to open a prompt's page.
type PromptOpened struct {
	Prompt domain.Prompt
	URL    string
	Err    error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
