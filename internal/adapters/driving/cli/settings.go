package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// settingsKeys are the keys the CLI reads. Other keys can still be
// stored and retrieved by name.
var settingsKeys = []string{"ai.model", "ai.batch_size", "output.default", "defaults.verbose"}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage persistent defaults",
	Long: `View and change persistent defaults stored in ~/.cbwg/config.toml.

Known keys:
  ai.model         default model for --ai runs
  ai.batch_size    default words per AI request
  output.default   default output name when -o is not given
  defaults.verbose enable verbose logging by default`,
	RunE: runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settings == nil {
		return errors.New("settings store unavailable")
	}

	cmd.Printf("Settings file: %s\n\n", settings.Path())
	for _, key := range settingsKeys {
		if val, ok := settings.Get(key); ok {
			cmd.Printf("  %s = %v\n", key, val)
		} else {
			cmd.Printf("  %s = (not set)\n", key)
		}
	}
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if settings == nil {
		return errors.New("settings store unavailable")
	}

	val, ok := settings.Get(args[0])
	if !ok {
		return fmt.Errorf("setting %q is not set", args[0])
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settings == nil {
		return errors.New("settings store unavailable")
	}

	if err := settings.Set(args[0], parseSettingValue(args[1])); err != nil {
		return fmt.Errorf("save setting %s: %w", args[0], err)
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

// parseSettingValue stores integers and booleans typed so the typed
// getters see them; everything else stays a string.
func parseSettingValue(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
