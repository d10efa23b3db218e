// Package status renders the picker's bottom line: what the result list
// shows, where the library came from and the keys that act on it.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeffreysprompts/jfp/internal/adapters/driving/tui/keymap"
	"github.com/jeffreysprompts/jfp/internal/adapters/driving/tui/styles"
	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// State is what the left side of the bar currently reports.
type State string

// Picker states.
const (
	StateLoading   State = "loading"
	StateSearching State = "searching"
	StateResults   State = "results"
	StateError     State = "error"
	StateNotice    State = "notice"
)

// Bar summarises the picker's results and library.
type Bar struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	width  int

	state   State
	message string

	// query and matches describe the list currently shown.
	query   string
	matches int

	// total and cache describe the whole library; total is -1 until known.
	total int
	cache domain.CacheStatus
	known bool
}

// NewBar creates a status bar.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, width: 80, state: StateLoading, total: -1}
}

// Searching marks a query as in flight.
func (s *Bar) Searching() {
	s.state = StateSearching
}

// ShowResults records the list shown for query.
func (s *Bar) ShowResults(query string, matches int) {
	s.state = StateResults
	s.message = ""
	s.query = strings.TrimSpace(query)
	s.matches = matches
}

// ShowError reports a failure. The previous results stay on screen.
func (s *Bar) ShowError(err error) {
	s.state = StateError
	s.message = err.Error()
}

// ShowNotice reports a completed action such as opening a prompt.
func (s *Bar) ShowNotice(msg string) {
	s.state = StateNotice
	s.message = msg
}

// SetLibrary records the library size and the state of the registry
// snapshot it was loaded from. A negative total is treated as unknown.
func (s *Bar) SetLibrary(total int, cache domain.CacheStatus, known bool) {
	s.total = total
	s.cache = cache
	s.known = known
}

// State returns what the bar currently reports.
func (s *Bar) State() State {
	return s.state
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// View renders the bar padded to its width.
func (s *Bar) View() string {
	left := s.summary()
	if origin := s.origin(); origin != "" {
		left += " " + s.styles.Muted.Render(origin)
	}
	right := s.hints()

	padding := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (s *Bar) summary() string {
	switch s.state {
	case StateLoading:
		return s.styles.Muted.Render("Loading prompts...")
	case StateSearching:
		return s.styles.Muted.Render("Searching...")
	case StateError:
		return s.styles.Error.Render("Error: " + s.message)
	case StateNotice:
		return s.styles.Success.Render(s.message)
	}

	if s.query == "" {
		if s.matches == 0 {
			return s.styles.Muted.Render("No prompts")
		}
		return s.styles.Normal.Render(plural(s.matches, "prompt"))
	}
	if s.matches == 0 {
		return s.styles.Muted.Render(fmt.Sprintf("No prompts match %q", s.query))
	}
	if s.total > 0 {
		return s.styles.Normal.Render(fmt.Sprintf("%d of %d match %q", s.matches, s.total, s.query))
	}
	return s.styles.Normal.Render(fmt.Sprintf("%s for %q", plural(s.matches, "match"), s.query))
}

// origin names where the library came from: the registry snapshot, marked
// when stale, or the bundled set when there is no snapshot.
func (s *Bar) origin() string {
	if !s.known {
		return ""
	}
	switch s.cache {
	case domain.CacheFresh:
		return "[registry]"
	case domain.CacheStale:
		return "[registry, stale]"
	default:
		return "[bundled]"
	}
}

func (s *Bar) hints() string {
	var bindings []key.Binding
	if s.matches > 0 && s.state != StateLoading {
		bindings = s.keymap.ResultsHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	if strings.HasSuffix(noun, "ch") {
		return fmt.Sprintf("%d %ses", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
