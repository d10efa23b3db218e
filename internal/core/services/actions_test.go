package services

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

type recordedCommand struct {
	args  []string
	stdin string
	wait  bool
}

func newTestActionService(goos string, available ...string) (*PromptActionService, *[]recordedCommand) {
	var calls []recordedCommand
	installed := make(map[string]bool)
	for _, name := range available {
		installed[name] = true
	}
	s := NewPromptActionService()
	s.goos = goos
	s.lookPath = func(file string) (string, error) {
		if installed[file] {
			return "/usr/bin/" + file, nil
		}
		return "", exec.ErrNotFound
	}
	s.run = func(cmd *exec.Cmd, wait bool) error {
		rec := recordedCommand{args: cmd.Args, wait: wait}
		if cmd.Stdin != nil {
			data, _ := io.ReadAll(cmd.Stdin)
			rec.stdin = string(data)
		}
		calls = append(calls, rec)
		return nil
	}
	return s, &calls
}

func TestPromptActionService_PromptURL(t *testing.T) {
	s := NewPromptActionService()
	assert.Equal(t, "https://jeffreysprompts.com/prompts/code-review",
		s.PromptURL(&domain.Prompt{ID: "code-review"}))
	assert.Equal(t, "https://jeffreysprompts.com/prompts/a%20b",
		s.PromptURL(&domain.Prompt{ID: "a b"}))
}

func TestPromptActionService_CopyToClipboard(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		available []string
		wantArgs  []string
		wantErr   bool
	}{
		{name: "darwin", goos: osDarwin, wantArgs: []string{"pbcopy"}},
		{name: "linux xclip", goos: osLinux, available: []string{"xclip", "xsel"},
			wantArgs: []string{"xclip", "-selection", "clipboard"}},
		{name: "linux xsel", goos: osLinux, available: []string{"xsel"},
			wantArgs: []string{"xsel", "--clipboard", "--input"}},
		{name: "linux wayland", goos: osLinux, available: []string{"wl-copy", "xclip"},
			wantArgs: []string{"wl-copy"}},
		{name: "linux none", goos: osLinux, wantErr: true},
		{name: "windows", goos: osWindows, wantArgs: []string{"cmd", "/c", "clip"}},
		{name: "unsupported", goos: "plan9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, calls := newTestActionService(tt.goos, tt.available...)
			err := s.CopyToClipboard(context.Background(), "hello")
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, *calls)
				return
			}
			require.NoError(t, err)
			require.Len(t, *calls, 1)
			assert.Equal(t, tt.wantArgs, (*calls)[0].args)
			assert.Equal(t, "hello", (*calls)[0].stdin)
			assert.True(t, (*calls)[0].wait)
		})
	}
}

func TestPromptActionService_OpenPrompt(t *testing.T) {
	s, calls := newTestActionService(osLinux, "xdg-open")

	require.NoError(t, s.OpenPrompt(context.Background(), &domain.Prompt{ID: "debug"}))
	require.Len(t, *calls, 1)
	assert.Equal(t, []string{"xdg-open", "https://jeffreysprompts.com/prompts/debug"}, (*calls)[0].args)
	assert.False(t, (*calls)[0].wait)

	assert.ErrorIs(t, s.OpenPrompt(context.Background(), nil), domain.ErrInvalidInput)
}

func TestPromptActionService_RunFailure(t *testing.T) {
	s, _ := newTestActionService(osDarwin)
	s.run = func(*exec.Cmd, bool) error { return errors.New("exit status 1") }

	err := s.CopyToClipboard(context.Background(), "x")
	assert.ErrorContains(t, err, "pbcopy")
}

func TestPromptActionService_Tools(t *testing.T) {
	s, _ := newTestActionService(osLinux, "xsel")
	name, err := s.ClipboardTool()
	require.NoError(t, err)
	assert.Equal(t, "xsel", name)

	_, err = s.BrowserOpener()
	assert.Error(t, err)

	s, _ = newTestActionService(osDarwin)
	name, err = s.BrowserOpener()
	require.NoError(t, err)
	assert.Equal(t, "open", name)
}
