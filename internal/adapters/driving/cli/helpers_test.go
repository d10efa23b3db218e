package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/jeffreysprompts/jfp/internal/adapters/driven/config/file"
	"github.com/jeffreysprompts/jfp/internal/adapters/driven/registry"
	"github.com/jeffreysprompts/jfp/internal/adapters/driven/storage/sqlite"
	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/services"
)

// fakeBundled is a fixed BundledSource.
type fakeBundled []domain.Prompt

func (b fakeBundled) Prompts() []domain.Prompt {
	return append([]domain.Prompt(nil), b...)
}

// fakeActions records clipboard and browser actions instead of running tools.
type fakeActions struct {
	mu      sync.Mutex
	copied  []string
	opened  []string
	copyErr error
}

func (a *fakeActions) CopyToClipboard(_ context.Context, text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.copyErr != nil {
		return a.copyErr
	}
	a.copied = append(a.copied, text)
	return nil
}

func (a *fakeActions) OpenPrompt(_ context.Context, prompt *domain.Prompt) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.opened = append(a.opened, prompt.ID)
	return nil
}

func (a *fakeActions) PromptURL(prompt *domain.Prompt) string {
	return "https://jeffreysprompts.com/prompts/" + prompt.ID
}

func (a *fakeActions) ClipboardTool() (string, error) { return "pbcopy", nil }

func (a *fakeActions) BrowserOpener() (string, error) { return "open", nil }

func cliPrompts() []domain.Prompt {
	return []domain.Prompt{
		{
			ID:          "code-review",
			Title:       "Code Review",
			Description: "Review code for bugs and style",
			Category:    "review",
			Tags:        []string{"review", "quality"},
			Featured:    true,
			Content:     "Review this {{LANGUAGE}} code:\n{{CODE}}",
			Variables: []domain.Variable{
				{Name: "CODE", Type: domain.VariableMultiline, Required: true, Description: "code to review"},
				{Name: "LANGUAGE", Type: domain.VariableText, Default: "Go"},
			},
		},
		{
			ID:       "debug",
			Title:    "Debug Helper",
			Category: "debugging",
			Tags:     []string{"debugging"},
			Content:  "Find the bug. Tried: {{ATTEMPTS}}",
			Variables: []domain.Variable{
				{Name: "ATTEMPTS", Type: domain.VariableText, Default: "nothing yet"},
			},
		},
		{
			ID:       "write-tests",
			Title:    "Write Tests",
			Category: "testing",
			Tags:     []string{"testing", "quality"},
			Content:  "Write unit tests for the code below, focusing on edge cases.",
		},
	}
}

// fakeBundles is a fixed BundleSource.
type fakeBundles []domain.Bundle

func (b fakeBundles) Bundles() []domain.Bundle {
	return append([]domain.Bundle(nil), b...)
}

func cliBundles() fakeBundles {
	return fakeBundles{
		{
			ID:          "starter",
			Title:       "Starter Kit",
			Description: "Review then debug",
			Featured:    true,
			PromptIDs:   []string{"code-review", "debug"},
		},
		{ID: "testing", Title: "Testing", PromptIDs: []string{"write-tests", "fuzzing"}},
	}
}

// testEnv is a fully wired command layer over a temporary data directory.
type testEnv struct {
	dir      string
	store    *sqlite.Store
	actions  *fakeActions
	registry *services.RegistryService
	config   string

	mu      sync.Mutex
	handler http.HandlerFunc
	hits    int
}

// setHandler replaces the fake registry's behaviour.
func (e *testEnv) setHandler(h http.HandlerFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handler = h
}

func (e *testEnv) registryHits() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hits
}

// newTestEnv wires real services over a temporary SQLite store, a fake
// registry and recorded desktop actions. The store starts empty and is
// seeded from cliPrompts on first use.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	resetFlags(t)

	dir := t.TempDir()
	env := &testEnv{
		dir:     dir,
		actions: &fakeActions{},
		config:  filepath.Join(dir, "config.toml"),
		handler: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.mu.Lock()
		env.hits++
		h := env.handler
		env.mu.Unlock()
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	store, err := sqlite.NewStore(filepath.Join(dir, "jfp.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	env.store = store

	bundled := fakeBundled(cliPrompts())
	cache := registry.NewFileCache(filepath.Join(dir, "cache", "registry.json"), filepath.Join(dir, "cache", "registry.meta.json"))

	reg := services.NewRegistryService(registry.NewClient(srv.URL, "test"), cache, bundled)
	reg.SetStore(store)
	env.registry = reg

	configStore, err := file.NewConfigStore(env.config)
	require.NoError(t, err)

	diagnostics := services.NewDiagnosticsService(store, bundled, dir)
	diagnostics.SetRegistry(reg)
	diagnostics.SetTools(env.actions)

	SetServices(Services{
		Prompts:     services.NewPromptService(store, bundled),
		Registry:    reg,
		Backup:      services.NewBackupService(store),
		Actions:     env.actions,
		Settings:    services.NewSettingsService(configStore),
		Diagnostics: diagnostics,
		Bundles:     services.NewBundleService(cliBundles(), store),
	})
	return env
}

// resetFlags restores every flag and package default so tests do not leak
// state into each other through the shared command tree.
func resetFlags(t *testing.T) {
	t.Helper()

	var visit func(c *cobra.Command)
	visit = func(c *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				if sv, ok := f.Value.(pflag.SliceValue); ok {
					_ = sv.Replace(nil)
				} else {
					_ = f.Value.Set(f.DefValue)
				}
				f.Changed = false
			})
		}
		for _, sub := range c.Commands() {
			visit(sub)
		}
	}
	visit(rootCmd)

	SetOptions(Options{AutoRefresh: false, JSON: false, Color: false})
	SetStoreError(nil)
	t.Cleanup(func() {
		SetServices(Services{})
		SetStoreError(nil)
		SetOptions(Options{AutoRefresh: true, Color: true})
	})
}

// execute runs the root command with args and returns everything written
// to stdout. Stderr is discarded.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := executeWithInput(t, "", args...)
	return stdout, err
}

// executeWithInput runs the root command with stdin set to input and
// returns stdout and stderr separately.
func executeWithInput(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(os.Stdout)
		rootCmd.SetErr(os.Stderr)
		rootCmd.SetIn(os.Stdin)
	}()

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeFile creates a file under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
