// Package cli implements the jfp command-line interface on cobra.
// Commands are thin glue over the driving ports; all behaviour lives in
// the core services.
package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeffreysprompts/jfp/internal/core/ports/driving"
	"github.com/jeffreysprompts/jfp/internal/logger"
)

// version is set at build time through SetVersion.
var version = "dev"

// Services injected by main.
var (
	promptService      driving.PromptService
	registryService    driving.RegistryService
	backupService      driving.BackupService
	actionService      driving.PromptActionService
	settingsService    driving.SettingsService
	diagnosticsService driving.DiagnosticsService
	bundleService      driving.BundleService

	// storeErr is the reason the prompt store could not be opened, if any.
	storeErr error
)

// Defaults taken from the loaded configuration.
var (
	autoRefresh  = true
	jsonDefault  bool
	colorDefault = true
)

// Global flags.
var (
	flagJSON    bool
	flagNoColor bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "jfp",
	Short: "Browse, search and render curated prompts",
	Long: `jfp is a command-line client for the JeffreysPrompts registry.

Prompts are stored locally in a searchable database, refreshed from the
remote registry when the cache goes stale, and fall back to a bundled set
when offline. Every command supports --json for use by coding agents.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagVerbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable coloured output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log diagnostics to stderr")
}

// Services groups the core services the commands run against.
type Services struct {
	Prompts     driving.PromptService
	Registry    driving.RegistryService
	Backup      driving.BackupService
	Actions     driving.PromptActionService
	Settings    driving.SettingsService
	Diagnostics driving.DiagnosticsService
	Bundles     driving.BundleService
}

// SetServices injects the services used by all commands.
func SetServices(s Services) {
	promptService = s.Prompts
	registryService = s.Registry
	backupService = s.Backup
	actionService = s.Actions
	settingsService = s.Settings
	diagnosticsService = s.Diagnostics
	bundleService = s.Bundles
}

// SetStoreError records why the prompt store is unavailable. Commands that
// need the store report it instead of a generic error.
func SetStoreError(err error) {
	storeErr = err
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Options carries configuration defaults into the command layer.
type Options struct {
	AutoRefresh bool
	JSON        bool
	Color       bool
}

// SetOptions applies configuration defaults.
func SetOptions(o Options) {
	autoRefresh = o.AutoRefresh
	jsonDefault = o.JSON
	colorDefault = o.Color
}

// exitError ends a command with a status code after its output was written.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return "command failed"
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}

	reportError(rootCmd, err)
	return 1
}
