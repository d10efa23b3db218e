package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeffreysprompts/jfp/internal/adapters/driving/tui"
	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i"},
	Short:   "Pick a prompt with fuzzy search",
	Long: `Opens a full-screen picker. Type to search, move with the arrow keys,
press enter to copy the selected prompt to the clipboard, ctrl+o to open it
on the website, tab to preview the template and esc to quit.`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	if jsonOutput(cmd) || !isTerminal(cmd.OutOrStdout()) {
		return fmt.Errorf("%w: the picker needs a terminal; use search or list instead", domain.ErrInvalidInput)
	}
	svc, err := preparePrompts(cmd)
	if err != nil {
		return err
	}
	if actionService == nil {
		return errors.New("action service not configured")
	}

	app, err := tui.NewApp(tui.NewPorts(svc, actionService).WithRegistry(registryService))
	if err != nil {
		return err
	}
	app.WithContext(cmd.Context())

	program := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running picker: %w", err)
	}

	if outcome := app.Outcome(); outcome != "" {
		cmd.Println(ui(cmd).Success.Render(outcome))
	}
	return nil
}
