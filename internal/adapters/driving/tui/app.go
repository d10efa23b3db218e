package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeffreysprompts/jfp/internal/adapters/driving/tui/components/input"
	"github.com/jeffreysprompts/jfp/internal/adapters/driving/tui/components/list"
	"github.com/jeffreysprompts/jfp/internal/adapters/driving/tui/components/status"
	"github.com/jeffreysprompts/jfp/internal/adapters/driving/tui/keymap"
	"github.com/jeffreysprompts/jfp/internal/adapters/driving/tui/messages"
	"github.com/jeffreysprompts/jfp/internal/adapters/driving/tui/styles"
	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// pickerLimit is the number of results fetched per query.
const pickerLimit = 50

// chromeHeight is the number of lines used by the input, spacing and status bar.
const chromeHeight = 4

// previewHeight is the maximum number of template lines in the preview pane.
const previewHeight = 12

// App is the prompt picker following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	input   *input.QueryInput
	results *list.ResultList
	status  *status.Bar

	// seq numbers queries so results of superseded ones are dropped.
	seq int

	// preview shows the selected template below the list.
	preview bool

	// outcome is the message printed after the picker exits.
	outcome string

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its first window size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new picker with the given ports.
func NewApp(ports *Ports) (*App, error) {
	return NewAppWithStyles(ports, nil)
}

// NewAppWithStyles creates a picker rendering with the given styles.
func NewAppWithStyles(ports *Ports, s *styles.Styles) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if s == nil {
		s = styles.DefaultStyles()
	}

	km := keymap.DefaultKeyMap()
	return &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  s,
		keymap:  km,
		input:   input.NewQueryInput(s),
		results: list.NewResultList(s),
		status:  status.NewBar(s, km),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model. It lists every prompt before the first keystroke.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("jfp"),
		a.describeLibrary(),
		a.search(""),
	)
}

// describeLibrary counts the stored prompts and reads the registry snapshot
// state for the status bar.
func (a *App) describeLibrary() tea.Cmd {
	prompts, registry, ctx := a.ports.Prompts, a.ports.Registry, a.ctx
	return func() tea.Msg {
		msg := messages.LibraryDescribed{Total: -1}
		if n, err := prompts.Count(ctx); err == nil {
			msg.Total = n
		}
		if registry != nil {
			msg.Cache = registry.CacheStatus()
			msg.HasCache = true
		}
		return msg
	}
}

// search issues a query. An empty query lists all prompts by title.
func (a *App) search(query string) tea.Cmd {
	a.seq++
	seq := a.seq
	a.status.Searching()

	prompts := a.ports.Prompts
	ctx := a.ctx
	return func() tea.Msg {
		if strings.TrimSpace(query) == "" {
			all, err := prompts.List(ctx, domain.ListFilter{})
			results := make([]domain.SearchResult, len(all))
			for i := range all {
				results[i] = domain.SearchResult{Prompt: all[i]}
			}
			return messages.SearchCompleted{Seq: seq, Query: query, Results: results, Err: err}
		}
		results, err := prompts.Search(ctx, query, pickerLimit)
		return messages.SearchCompleted{Seq: seq, Query: query, Results: results, Err: err}
	}
}

// copySelected renders the prompt with its defaults and copies the text.
func (a *App) copySelected(p domain.Prompt) tea.Cmd {
	prompts, actions, ctx := a.ports.Prompts, a.ports.Actions, a.ctx
	return func() tea.Msg {
		text, err := prompts.Render(ctx, p.ID, nil)
		if err == nil {
			err = actions.CopyToClipboard(ctx, text)
		}
		return messages.PromptCopied{Prompt: p, Err: err}
	}
}

// openSelected opens the prompt's page in the browser.
func (a *App) openSelected(p domain.Prompt) tea.Cmd {
	actions, ctx := a.ports.Actions, a.ctx
	return func() tea.Msg {
		err := actions.OpenPrompt(ctx, &p)
		return messages.PromptOpened{Prompt: p, URL: actions.PromptURL(&p), Err: err}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.SearchCompleted:
		if msg.Stale(a.seq) {
			return a, nil
		}
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.err = nil
		a.results.SetResults(msg.Results)
		a.status.ShowResults(msg.Query, len(msg.Results))
		return a, nil

	case messages.LibraryDescribed:
		a.status.SetLibrary(msg.Total, msg.Cache, msg.HasCache)
		return a, nil

	case messages.PromptCopied:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.outcome = fmt.Sprintf("Copied %s (%s) to the clipboard.", msg.Prompt.Title, msg.Prompt.ID)
		return a, tea.Quit

	case messages.PromptOpened:
		if msg.Err != nil {
			a.setError(msg.Err)
			return a, nil
		}
		a.status.ShowNotice("Opened " + msg.URL)
		return a, nil

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	_, cmd, _ := a.input.Update(msg)
	return a, cmd
}

// handleKey routes picker bindings; everything else edits the query.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keymap.Up):
		a.results.MoveUp()
		return a, nil
	case key.Matches(msg, a.keymap.Down):
		a.results.MoveDown()
		return a, nil
	case key.Matches(msg, a.keymap.Copy):
		if p := a.results.SelectedPrompt(); p != nil {
			return a, a.copySelected(*p)
		}
		return a, nil
	case key.Matches(msg, a.keymap.Open):
		if p := a.results.SelectedPrompt(); p != nil {
			return a, a.openSelected(*p)
		}
		return a, nil
	case key.Matches(msg, a.keymap.Preview):
		a.preview = !a.preview
		a.layout()
		return a, nil
	case key.Matches(msg, a.keymap.Clear):
		a.input.Reset()
		return a, a.search("")
	}

	_, cmd, changed := a.input.Update(msg)
	if changed {
		return a, tea.Batch(cmd, a.search(a.input.Value()))
	}
	return a, cmd
}

func (a *App) setError(err error) {
	a.err = err
	a.status.ShowError(err)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	parts := []string{a.input.View(), "", a.results.View()}
	if a.preview {
		if p := a.results.SelectedPrompt(); p != nil {
			parts = append(parts, "", a.viewPreview(p))
		}
	}
	body := lipgloss.JoinVertical(lipgloss.Left, parts...)

	gap := a.height - lipgloss.Height(body) - 1
	if gap > 0 {
		body += strings.Repeat("\n", gap)
	}
	return body + "\n" + a.status.View()
}

// viewPreview renders the head of the selected template.
func (a *App) viewPreview(p *domain.Prompt) string {
	lines := strings.Split(p.Content, "\n")
	if len(lines) > previewHeight {
		lines = append(lines[:previewHeight], "...")
	}
	header := a.styles.Title.Render(p.Title)
	if len(p.Tags) > 0 {
		header += " " + a.styles.Tag.Render(strings.Join(p.Tags, ", "))
	}
	body := a.styles.Normal.Render(strings.Join(lines, "\n"))
	return a.styles.Border.Width(max(a.width-4, 20)).Render(header + "\n\n" + body)
}

// layout sizes the components for the current terminal.
func (a *App) layout() {
	listHeight := a.height - chromeHeight
	if a.preview {
		listHeight -= previewHeight + 5
	}
	a.input.SetWidth(a.width)
	a.results.SetDimensions(a.width, max(listHeight, 2))
	a.status.SetWidth(a.width)
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.layout()
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.input.Value()
}

// Results returns the current results.
func (a *App) Results() []domain.SearchResult {
	return a.results.Results()
}

// SelectedIndex returns the currently selected result index.
func (a *App) SelectedIndex() int {
	return a.results.Selected()
}

// Previewing reports whether the preview pane is shown.
func (a *App) Previewing() bool {
	return a.preview
}

// Outcome returns the message to print once the picker exits, or "" when
// the user quit without acting.
func (a *App) Outcome() string {
	return a.outcome
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}
