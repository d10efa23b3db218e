package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or import every prompt as JSON lines",
	Long: `Backs up the whole prompt set, local prompts included, to a JSON Lines
file: one metadata header followed by one prompt per line. Import applies
all records in a single transaction; a malformed line aborts it.`,
}

var backupExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write every prompt to a backup file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupExport,
}

var backupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore prompts from a backup file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupImport,
}

func init() {
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupImportCmd)
	rootCmd.AddCommand(backupCmd)
}

// backupOutput is the JSON shape of both backup subcommands.
type backupOutput struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

func requireBackup() error {
	if storeErr != nil {
		return storeErr
	}
	if backupService == nil {
		return errors.New("backup service not configured")
	}
	return nil
}

func runBackupExport(cmd *cobra.Command, args []string) error {
	if err := requireBackup(); err != nil {
		return err
	}
	if _, err := preparePrompts(cmd); err != nil {
		return err
	}

	n, err := backupService.Export(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd, backupOutput{Path: args[0], Count: n})
	}
	cmd.Println(ui(cmd).Success.Render(fmt.Sprintf("Exported %d prompts to %s", n, args[0])))
	return nil
}

func runBackupImport(cmd *cobra.Command, args []string) error {
	if err := requireBackup(); err != nil {
		return err
	}

	n, err := backupService.Import(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd, backupOutput{Path: args[0], Count: n})
	}
	cmd.Println(ui(cmd).Success.Render(fmt.Sprintf("Imported %d prompts from %s", n, args[0])))
	return nil
}
