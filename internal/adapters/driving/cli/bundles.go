package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driving"
)

var bundlesCmd = &cobra.Command{
	Use:   "bundles",
	Short: "List prompt bundles",
	Args:  cobra.NoArgs,
	RunE:  runBundles,
}

var bundleCmd = &cobra.Command{
	Use:   "bundle <id>",
	Short: "Show the prompts in a bundle",
	Args:  cobra.ExactArgs(1),
	RunE:  runBundle,
}

func init() {
	rootCmd.AddCommand(bundlesCmd)
	rootCmd.AddCommand(bundleCmd)
}

// bundlesOutput is the JSON shape of bundles.
type bundlesOutput struct {
	Bundles []domain.BundleSummary `json:"bundles"`
	Count   int                    `json:"count"`
}

// prepareBundles seeds the store like every prompt command, then returns
// the bundle service.
func prepareBundles(cmd *cobra.Command) (driving.BundleService, error) {
	if _, err := preparePrompts(cmd); err != nil {
		return nil, err
	}
	if bundleService == nil {
		return nil, errors.New("bundle service not configured")
	}
	return bundleService, nil
}

func runBundles(cmd *cobra.Command, _ []string) error {
	svc, err := prepareBundles(cmd)
	if err != nil {
		return err
	}

	bundles, err := svc.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing bundles: %w", err)
	}
	if jsonOutput(cmd) {
		return writeJSON(cmd, bundlesOutput{Bundles: bundles, Count: len(bundles)})
	}

	if len(bundles) == 0 {
		cmd.Println("No bundles available.")
		return nil
	}

	st := ui(cmd)
	for _, b := range bundles {
		line := "  " + st.ID.Render(b.ID) + "  " + st.Title.Render(b.Title) +
			"  " + st.Muted.Render(fmt.Sprintf("(%d prompts)", b.PromptCount))
		if b.Featured {
			line += " " + st.Warning.Render("*")
		}
		cmd.Println(line)
		if b.Description != "" {
			cmd.Println("      " + st.Muted.Render(b.Description))
		}
	}
	cmd.Println()
	cmd.Println(st.Muted.Render("Use 'jfp bundle <id>' to see a bundle's prompts."))
	return nil
}

func runBundle(cmd *cobra.Command, args []string) error {
	svc, err := prepareBundles(cmd)
	if err != nil {
		return err
	}

	bundle, err := svc.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return writeJSON(cmd, bundle)
	}

	st := ui(cmd)
	cmd.Println(st.Title.Render(bundle.Title) + "  " + st.ID.Render(bundle.ID))
	if bundle.Description != "" {
		cmd.Println(bundle.Description)
	}
	cmd.Println()
	for i := range bundle.Prompts {
		printPromptLine(cmd, st, &bundle.Prompts[i])
	}
	if len(bundle.Missing) > 0 {
		cmd.Println(st.Warning.Render(fmt.Sprintf("Not in the local store: %v", bundle.Missing)))
	}
	cmd.Println()
	cmd.Println(st.Muted.Render(fmt.Sprintf("%d prompts. Use 'jfp show <id>' to view one.", len(bundle.Prompts))))
	return nil
}
