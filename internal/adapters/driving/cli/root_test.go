package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// runExecute calls Execute with args and captures both streams.
func runExecute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(os.Stdout)
		rootCmd.SetErr(os.Stderr)
	}()

	code = Execute()
	return code, out.String(), errOut.String()
}

func TestExecute_Success(t *testing.T) {
	newTestEnv(t)

	code, stdout, stderr := runExecute(t, "show", "debug", "--raw")

	assert.Equal(t, 0, code)
	assert.Equal(t, "Find the bug. Tried: {{ATTEMPTS}}\n", stdout)
	assert.Empty(t, stderr)
}

func TestExecute_ErrorOnStderr(t *testing.T) {
	newTestEnv(t)

	code, stdout, stderr := runExecute(t, "show", "missing")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error:")
	assert.Contains(t, stderr, "missing")
}

func TestExecute_JSONError(t *testing.T) {
	newTestEnv(t)

	code, stdout, stderr := runExecute(t, "show", "missing", "--json")

	assert.Equal(t, 1, code)
	assert.Empty(t, stderr)

	var got errorOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "not_found", got.Error)
	assert.Contains(t, got.Message, "missing")
}

func TestExecute_JSONDefaultFromConfig(t *testing.T) {
	newTestEnv(t)
	SetOptions(Options{JSON: true})

	code, stdout, _ := runExecute(t, "show", "missing")

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, `"error": "not_found"`)
}

func TestExecute_StoreUnavailable(t *testing.T) {
	newTestEnv(t)
	SetServices(Services{})
	SetStoreError(&domain.StoreOpenError{Path: "/nowhere/jfp.db", Err: assert.AnError})

	code, _, stderr := runExecute(t, "list")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "opening prompt store at /nowhere/jfp.db")
}

func TestExecute_UnknownCommand(t *testing.T) {
	resetFlags(t)

	code, _, stderr := runExecute(t, "frobnicate")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown command")
}

func TestInteractiveCmd_RequiresTerminal(t *testing.T) {
	newTestEnv(t)

	_, err := execute(t, "interactive")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOpenCmd(t *testing.T) {
	env := newTestEnv(t)

	out, err := execute(t, "open", "code-review")

	require.NoError(t, err)
	assert.Equal(t, "Opened https://jeffreysprompts.com/prompts/code-review\n", out)
	assert.Equal(t, []string{"code-review"}, env.actions.opened)
}

func TestOpenCmd_JSON(t *testing.T) {
	newTestEnv(t)

	out, err := execute(t, "open", "debug", "--json")
	require.NoError(t, err)

	var got openOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, openOutput{ID: "debug", URL: "https://jeffreysprompts.com/prompts/debug", Opened: true}, got)
}

func TestOpenCmd_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := execute(t, "open", "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, env.actions.opened)
}
