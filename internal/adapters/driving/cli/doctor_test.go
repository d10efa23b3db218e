package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/services"
)

func TestDoctorCmd_Healthy(t *testing.T) {
	newTestEnv(t)
	_, err := execute(t, "list")
	require.NoError(t, err)

	out, err := execute(t, "doctor")

	require.NoError(t, err)
	assert.Contains(t, out, "jfp doctor")
	assert.Contains(t, out, "[+] Database: 3 prompts")
	assert.Contains(t, out, "[+] Clipboard: pbcopy")
	assert.Contains(t, out, "[~] Registry Cache: missing")
	assert.Contains(t, out, "fix: run jfp refresh")
	assert.Contains(t, out, "All checks passed.")
}

func TestDoctorCmd_StoreFailure(t *testing.T) {
	resetFlags(t)
	SetServices(Services{Diagnostics: services.NewDiagnosticsService(nil, fakeBundled(cliPrompts()))})
	SetStoreError(&domain.StoreOpenError{Path: "/data/jfp.db", Err: errors.New("database is locked")})

	out, err := execute(t, "doctor", "--json")

	var exit *exitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 1, exit.code)

	var got doctorOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.Healthy)
	require.NotEmpty(t, got.Checks)
	assert.Equal(t, "Database", got.Checks[0].Name)
	assert.Equal(t, domain.CheckFail, got.Checks[0].Status)
	assert.Contains(t, got.Checks[0].Message, "database is locked")
	assert.Equal(t, "remove the database file and run jfp refresh", got.Checks[0].Fix)
}
