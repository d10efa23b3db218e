package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a prompt on jeffreysprompts.com",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
}

// openOutput is the JSON shape of open.
type openOutput struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Opened bool   `json:"opened"`
}

func runOpen(cmd *cobra.Command, args []string) error {
	svc, err := preparePrompts(cmd)
	if err != nil {
		return err
	}
	if actionService == nil {
		return errors.New("action service not configured")
	}

	prompt, err := svc.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	url := actionService.PromptURL(prompt)

	if err := actionService.OpenPrompt(cmd.Context(), prompt); err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd, openOutput{ID: prompt.ID, URL: url, Opened: true})
	}
	cmd.Printf("Opened %s\n", url)
	return nil
}
