package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/autofolder/internal/config"
	"github.com/aidanlsb/autofolder/internal/ui"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the vault's settings",
	Long: `Show the settings stored in .autofolder/settings.yaml.

auto_move (default: on) controls whether 'autofolder watch' moves new notes.
The manual 'autofolder move' ignores it.`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting and save it immediately",
	Long: `Change a setting and save it immediately.

Keys:
  auto-move   on|off

Examples:
  autofolder settings set auto-move off`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	vaultPath := getVaultPath()
	settings, err := config.LoadSettings(vaultPath)
	if err != nil {
		return handleError(ErrConfigInvalid, err, "Fix or delete "+config.SettingsPath(vaultPath))
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"auto_move": settings.IsAutoMoveEnabled(),
			"path":      config.SettingsPath(vaultPath),
		}, nil)
		return nil
	}

	fmt.Println(ui.Header("Settings"))
	fmt.Printf("  auto_move: %s\n", onOff(settings.IsAutoMoveEnabled()))
	fmt.Println(ui.Hint("  " + config.SettingsPath(vaultPath)))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(strings.TrimSpace(args[0]))
	if key != "auto-move" && key != "auto_move" {
		return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("unknown setting: %s", args[0]), "Available: auto-move")
	}
	enabled, err := parseToggle(args[1])
	if err != nil {
		return handleError(ErrInvalidInput, err, "Use on or off")
	}

	vaultPath := getVaultPath()
	settings, err := config.LoadSettings(vaultPath)
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}
	settings.SetAutoMove(enabled)
	if err := config.SaveSettings(vaultPath, settings); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}
	log.Info("setting changed", "key", "auto_move", "value", enabled)

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"auto_move": enabled,
			"path":      config.SettingsPath(vaultPath),
		}, nil)
		return nil
	}
	fmt.Println(ui.Successf("auto_move is now %s", onOff(enabled)))
	return nil
}

func parseToggle(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "yes", "1", "enable", "enabled":
		return true, nil
	case "off", "false", "no", "0", "disable", "disabled":
		return false, nil
	}
	return false, fmt.Errorf("invalid value %q", v)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
