package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and registry cache status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the latest prompts from the registry",
	Long: `Fetches the registry, updates the local cache and stores the prompts.

The request is conditional: an unchanged registry only renews the cache
timestamp. When the registry cannot be reached the cached or bundled
prompts are used and a warning is printed.`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(refreshCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if registryService == nil {
		return errors.New("registry service not configured")
	}

	report, err := registryService.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading status: %w", err)
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd, report)
	}

	st := ui(cmd)
	cmd.Println(st.Title.Render("jfp Status"))
	cmd.Println()

	cmd.Println(st.Title.Render("Database"))
	cmd.Printf("  Path:           %s\n", report.DatabasePath)
	cmd.Printf("  Exists:         %s\n", yesNo(report.DatabaseExists))
	cmd.Printf("  Prompts:        %d\n", report.PromptCount)
	if report.SchemaVersion != "" {
		cmd.Printf("  Schema version: %s\n", report.SchemaVersion)
	}
	if report.LastSync != "" {
		cmd.Printf("  Last sync:      %s\n", report.LastSync)
	}
	if storeErr != nil {
		cmd.Printf("  Error:          %s\n", st.Error.Render(storeErr.Error()))
	}
	cmd.Println()

	cmd.Println(st.Title.Render("Registry cache"))
	cmd.Printf("  URL:            %s\n", report.RegistryURL)
	cmd.Printf("  Path:           %s\n", report.CachePath)
	cmd.Printf("  State:          %s\n", cacheStateLabel(st.Success.Render, st.Warning.Render, report.Cache))
	if report.CacheMeta != nil {
		cmd.Printf("  Fetched at:     %s\n", report.CacheMeta.FetchedAt)
		cmd.Printf("  Cached prompts: %d\n", report.CacheMeta.PromptCount)
		if report.CacheMeta.Version != "" {
			cmd.Printf("  Data version:   %s\n", report.CacheMeta.Version)
		}
	}

	if report.Cache != domain.CacheFresh {
		cmd.Println()
		cmd.Println(st.Muted.Render("Tip: Run 'jfp refresh' to fetch the latest prompts."))
	}
	return nil
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	if storeErr != nil {
		return storeErr
	}
	if registryService == nil {
		return errors.New("registry service not configured")
	}

	report, err := registryService.Sync(cmd.Context())
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd, report)
	}

	st := ui(cmd)
	if report.Warning != "" {
		cmd.PrintErrln(st.Warning.Render("Warning: " + report.Warning))
	}
	switch report.Source {
	case domain.SourceRemote:
		cmd.Println(st.Success.Render(fmt.Sprintf("Refreshed %d prompts from the registry.", report.PromptCount)))
	case domain.SourceCache:
		if report.Stale {
			cmd.Printf("Registry unreachable; using %d cached prompts.\n", report.PromptCount)
		} else {
			cmd.Printf("Registry unchanged; %d prompts up to date.\n", report.PromptCount)
		}
	default:
		cmd.Printf("Using %d bundled prompts.\n", report.PromptCount)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func cacheStateLabel(good, bad func(...string) string, status domain.CacheStatus) string {
	if status == domain.CacheFresh {
		return good(status.String())
	}
	return bad(status.String())
}
