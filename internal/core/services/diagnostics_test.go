package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffreysprompts/jfp/internal/adapters/driven/storage/memory"
	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

type fakeTools struct {
	clipboard string
	browser   string
}

func (f fakeTools) ClipboardTool() (string, error) {
	if f.clipboard == "" {
		return "", errors.New("no clipboard utility found")
	}
	return f.clipboard, nil
}

func (f fakeTools) BrowserOpener() (string, error) {
	if f.browser == "" {
		return "", errors.New("xdg-open not found")
	}
	return f.browser, nil
}

func checkByName(t *testing.T, checks []domain.Check, name string) domain.Check {
	t.Helper()
	for _, c := range checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no check named %q", name)
	return domain.Check{}
}

func TestDiagnosticsService_Healthy(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPromptStore()
	require.NoError(t, store.BulkUpsert(ctx, testPrompts()))

	service := NewDiagnosticsService(store, fakeBundled(testPrompts()), t.TempDir())
	service.SetTools(fakeTools{clipboard: "pbcopy", browser: "open"})

	checks := service.Run(ctx, false)
	assert.True(t, domain.Healthy(checks))
	assert.Equal(t, domain.CheckPass, checkByName(t, checks, "Database").Status)
	assert.Equal(t, "3 prompts", checkByName(t, checks, "Database").Message)
	assert.Equal(t, domain.CheckPass, checkByName(t, checks, "Clipboard").Status)
}

func TestDiagnosticsService_Problems(t *testing.T) {
	ctx := context.Background()
	missing := filepath.Join(t.TempDir(), "absent")

	service := NewDiagnosticsService(memory.NewPromptStore(), nil, missing)
	service.SetTools(fakeTools{})
	service.SetRegistry(newRegistryFixture(t).service)

	checks := service.Run(ctx, false)
	assert.False(t, domain.Healthy(checks))
	assert.Equal(t, domain.CheckWarn, checkByName(t, checks, "Database").Status)
	assert.Equal(t, domain.CheckFail, checkByName(t, checks, "Bundled Prompts").Status)
	assert.Equal(t, domain.CheckFail, checkByName(t, checks, "Data Directory").Status)
	assert.Equal(t, domain.CheckWarn, checkByName(t, checks, "Registry Cache").Status)
	assert.Equal(t, domain.CheckWarn, checkByName(t, checks, "Clipboard").Status)
	assert.Equal(t, domain.CheckWarn, checkByName(t, checks, "Browser Opener").Status)
}

func TestDiagnosticsService_FixCreatesDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	service := NewDiagnosticsService(memory.NewPromptStore(), fakeBundled(testPrompts()), dir)

	checks := service.Run(context.Background(), true)
	assert.Equal(t, domain.CheckPass, checkByName(t, checks, "Data Directory").Status)
	_, err := os.Stat(dir)
	assert.NoError(t, err)
}

func TestDiagnosticsService_NoStore(t *testing.T) {
	checks := NewDiagnosticsService(nil, fakeBundled(testPrompts())).Run(context.Background(), false)
	assert.Equal(t, domain.CheckFail, checkByName(t, checks, "Database").Status)
}
