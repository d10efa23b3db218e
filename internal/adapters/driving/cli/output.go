package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jeffreysprompts/jfp/internal/adapters/driving/tui/styles"
	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driving"
	"github.com/jeffreysprompts/jfp/internal/logger"
)

// errorOutput is the JSON shape of a failed command.
type errorOutput struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// jsonOutput reports whether the command should print JSON. It is on with
// --json, with output.json set, or when stdout is redirected to a file or pipe.
func jsonOutput(cmd *cobra.Command) bool {
	if flagJSON || jsonDefault {
		return true
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && !term.IsTerminal(int(f.Fd()))
}

// ui returns the styles for human output.
func ui(cmd *cobra.Command) *styles.Styles {
	if flagNoColor || !colorDefault || os.Getenv("NO_COLOR") != "" || !isTerminal(cmd.OutOrStdout()) {
		return styles.PlainStyles()
	}
	return styles.DefaultStyles()
}

// writeJSON prints v as indented JSON on stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// reportError prints a failed command's error. JSON mode writes an error
// object to stdout so callers parsing stdout always receive JSON.
func reportError(cmd *cobra.Command, err error) {
	if jsonOutput(cmd) {
		data, marshalErr := json.MarshalIndent(errorOutput{
			Error:   domain.ErrorCode(err),
			Message: err.Error(),
		}, "", "  ")
		if marshalErr == nil {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return
		}
	}
	fmt.Fprintln(cmd.ErrOrStderr(), ui(cmd).Error.Render("Error: "+err.Error()))
}

// preparePrompts returns the prompt service after an optional auto refresh
// and first-run seeding. Refresh problems are logged and never fail the command.
func preparePrompts(cmd *cobra.Command) (driving.PromptService, error) {
	if promptService == nil {
		if storeErr != nil {
			return nil, storeErr
		}
		return nil, errors.New("prompt service not configured")
	}

	ctx := cmd.Context()
	if autoRefresh && registryService != nil {
		switch status := registryService.CacheStatus(); status {
		case domain.CacheStale, domain.CacheMissing:
			logger.Debug("registry cache is %s, refreshing", status)
			report, err := registryService.Sync(ctx)
			switch {
			case err != nil:
				logger.Warn("auto refresh failed: %v", err)
			case report.Warning != "":
				logger.Warn("auto refresh: %s", report.Warning)
			default:
				logger.Debug("auto refresh stored %d prompts from %s", report.PromptCount, report.Source)
			}
		}
	}

	n, err := promptService.EnsureSeeded(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		logger.Info("seeded %d bundled prompts", n)
	}
	return promptService, nil
}
