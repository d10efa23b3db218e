package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the local installation",
	Long: `Checks the prompt database, the bundled prompts, the data directories,
the registry cache and the clipboard and browser helpers.

With --fix, repairable problems are repaired: missing directories are
created and the database write-ahead log is checkpointed. The command
exits with status 1 when any check fails.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "repair problems where possible")
	rootCmd.AddCommand(doctorCmd)
}

// doctorOutput is the JSON shape of doctor.
type doctorOutput struct {
	Healthy bool           `json:"healthy"`
	Checks  []domain.Check `json:"checks"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	if diagnosticsService == nil {
		return errors.New("diagnostics service not configured")
	}

	checks := diagnosticsService.Run(cmd.Context(), doctorFix)
	if storeErr != nil {
		for i := range checks {
			if checks[i].Name == "Database" && checks[i].Status == domain.CheckFail {
				checks[i].Message = storeErr.Error()
				checks[i].Fix = "remove the database file and run jfp refresh"
			}
		}
	}
	healthy := domain.Healthy(checks)

	if jsonOutput(cmd) {
		if err := writeJSON(cmd, doctorOutput{Healthy: healthy, Checks: checks}); err != nil {
			return err
		}
	} else {
		printChecks(cmd, checks, healthy)
	}

	if !healthy {
		return &exitError{code: 1}
	}
	return nil
}

func printChecks(cmd *cobra.Command, checks []domain.Check, healthy bool) {
	st := ui(cmd)
	cmd.Println(st.Title.Render("jfp doctor"))
	cmd.Println()
	for _, c := range checks {
		marker := "[" + c.Status.Symbol() + "]"
		switch c.Status {
		case domain.CheckPass:
			marker = st.Success.Render(marker)
		case domain.CheckWarn:
			marker = st.Warning.Render(marker)
		default:
			marker = st.Error.Render(marker)
		}
		cmd.Printf("  %s %s: %s\n", marker, c.Name, c.Message)
		if c.Fix != "" && c.Status != domain.CheckPass {
			cmd.Printf("      %s\n", st.Muted.Render("fix: "+c.Fix))
		}
	}
	cmd.Println()
	if healthy {
		cmd.Println(st.Success.Render("All checks passed."))
	} else {
		cmd.Println(st.Error.Render("Some checks failed."))
	}
}
