// Command jfp browses, searches and renders prompts from the JeffreysPrompts
// registry.
package main

import (
	"fmt"
	"os"

	"github.com/jeffreysprompts/jfp/internal/adapters/driven/config/file"
	"github.com/jeffreysprompts/jfp/internal/adapters/driven/registry"
	"github.com/jeffreysprompts/jfp/internal/adapters/driven/storage/sqlite"
	"github.com/jeffreysprompts/jfp/internal/adapters/driving/cli"
	"github.com/jeffreysprompts/jfp/internal/config"
	"github.com/jeffreysprompts/jfp/internal/core/services"
	"github.com/jeffreysprompts/jfp/internal/logger"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	paths, err := config.DefaultPaths()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	for _, dir := range paths.Dirs() {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
	}

	settings, err := config.Load(paths)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	logger.SetVerbose(settings.Log.Verbose)
	if settings.Log.File != "" {
		if err := logger.SetLogFile(settings.Log.File); err != nil {
			fmt.Fprintln(os.Stderr, "Warning:", err)
		}
	}
	defer logger.Close()

	bundled := registry.MustBundled()
	actions := services.NewPromptActionService()

	reg := services.NewRegistryService(
		registry.NewClient(settings.Registry.URL, version, registry.WithTimeout(settings.Timeout())),
		registry.NewFileCache(paths.RegistryCachePath, paths.RegistryMetaPath),
		bundled,
	)
	reg.SetTTL(settings.CacheTTL())

	configStore, err := file.NewConfigStore(paths.ConfigFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	svc := cli.Services{
		Registry: reg,
		Actions:  actions,
		Settings: services.NewSettingsService(configStore),
	}

	store, err := sqlite.NewStore(paths.DatabasePath)
	if err != nil {
		// Commands that need the store report this; status and doctor still run.
		logger.Warn("prompt store unavailable: %v", err)
		cli.SetStoreError(err)
		diagnostics := services.NewDiagnosticsService(nil, bundled, paths.Dirs()...)
		diagnostics.SetRegistry(reg)
		diagnostics.SetTools(actions)
		svc.Diagnostics = diagnostics
	} else {
		defer store.Close()
		reg.SetStore(store)
		diagnostics := services.NewDiagnosticsService(store, bundled, paths.Dirs()...)
		diagnostics.SetRegistry(reg)
		diagnostics.SetTools(actions)
		svc.Prompts = services.NewPromptService(store, bundled)
		svc.Backup = services.NewBackupService(store)
		svc.Bundles = services.NewBundleService(registry.MustBundles(), store)
		svc.Diagnostics = diagnostics
	}

	cli.SetServices(svc)
	cli.SetOptions(cli.Options{
		AutoRefresh: settings.Registry.AutoRefresh,
		JSON:        settings.Output.JSON,
		Color:       settings.Output.Color,
	})
	cli.SetVersion(version)

	return cli.Execute()
}
