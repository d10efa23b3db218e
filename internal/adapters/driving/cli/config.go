package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
	Long: `Reads and writes settings in config.toml. Values are typed: true and
false are booleans, whole numbers are integers, other numbers are floats,
and anything else is text. Environment variables such as
JFP_REGISTRY_CACHE_TTL override the file.

Settings:
  registry.url           registry endpoint
  registry.cache_ttl     seconds before the cache is stale
  registry.timeout_ms    request timeout in milliseconds
  registry.auto_refresh  refresh a stale cache before read commands
  output.json            always print JSON
  output.color           colour human output
  log.file               rotating debug log file
  log.verbose            always log to stderr`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every setting with its effective value",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Restore a setting, or all settings, to the default",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigReset,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// settingOutput is the JSON shape of get and set.
type settingOutput struct {
	Key   string             `json:"key"`
	Value domain.ConfigValue `json:"value"`
}

func requireSettings() error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	settings := settingsService.List()
	if jsonOutput(cmd) {
		return writeJSON(cmd, struct {
			Settings []domain.Setting `json:"settings"`
			Path     string           `json:"path"`
		}{settings, settingsService.Path()})
	}

	st := ui(cmd)
	width := 0
	for _, s := range settings {
		width = max(width, len(s.Key))
	}
	for _, s := range settings {
		line := "  " + st.ID.Render(s.Key) + strings.Repeat(" ", width-len(s.Key)) + "  " + s.Value.String()
		if s.Default {
			line += " " + st.Muted.Render("(default)")
		}
		cmd.Println(line)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	value, err := settingsService.Get(args[0])
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return writeJSON(cmd, settingOutput{Key: args[0], Value: value})
	}
	cmd.Println(value.String())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	value, err := settingsService.Set(args[0], args[1])
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return writeJSON(cmd, settingOutput{Key: args[0], Value: value})
	}
	cmd.Printf("%s = %s\n", args[0], value.String())
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	key := ""
	if len(args) == 1 {
		key = args[0]
	}
	if err := settingsService.Reset(key); err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd, struct {
			Reset string `json:"reset"`
		}{resetLabel(key)})
	}
	cmd.Printf("Reset %s to default.\n", resetLabel(key))
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return writeJSON(cmd, struct {
			Path string `json:"path"`
		}{settingsService.Path()})
	}
	cmd.Println(settingsService.Path())
	return nil
}

func resetLabel(key string) string {
	if key == "" {
		return "all settings"
	}
	return key
}
