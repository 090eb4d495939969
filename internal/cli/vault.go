package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/autofolder/internal/config"
	"github.com/aidanlsb/autofolder/internal/ui"
)

type vaultContext struct {
	cfg        *config.Config
	state      *config.State
	configPath string
	statePath  string
}

// vaultRow is one configured vault together with its on-disk status.
type vaultRow struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	IsDefault bool   `json:"is_default"`
	IsActive  bool   `json:"is_active"`
	Exists    bool   `json:"exists"`
	// AutoMove is nil when the vault is missing or its settings are unreadable.
	AutoMove *bool `json:"auto_move,omitempty"`
}

type currentVaultInfo struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	Source        string `json:"source"`
	ActiveMissing bool   `json:"active_missing"`
	Exists        bool   `json:"exists"`
	AutoMove      *bool  `json:"auto_move,omitempty"`
}

func loadVaultContext() (*vaultContext, error) {
	cfg, cfgPath, err := loadGlobalConfigWithPath()
	if err != nil {
		return nil, err
	}

	sp := config.ResolveStatePath(statePathFlag, cfgPath, cfg)
	state, err := config.LoadState(sp)
	if err != nil {
		return nil, err
	}
	return &vaultContext{cfg: cfg, state: state, configPath: cfgPath, statePath: sp}, nil
}

// vaultStatus reports whether path is a directory and, if so, its effective
// auto_move setting.
func vaultStatus(path string) (bool, *bool) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false, nil
	}
	settings, err := config.LoadSettings(path)
	if err != nil {
		log.Warn("unreadable vault settings", "vault", path, "error", err)
		return true, nil
	}
	enabled := settings.IsAutoMoveEnabled()
	return true, &enabled
}

func activeVaultName(state *config.State) string {
	if state == nil {
		return ""
	}
	return strings.TrimSpace(state.ActiveVault)
}

func vaultRows(cfg *config.Config, state *config.State) (rows []vaultRow, defaultName, activeName string, activeMissing bool) {
	vaults := cfg.ListVaults()
	defaultName = strings.TrimSpace(cfg.DefaultVault)
	activeName = activeVaultName(state)

	names := make([]string, 0, len(vaults))
	for name := range vaults {
		names = append(names, name)
	}
	sort.Strings(names)

	rows = make([]vaultRow, 0, len(names))
	for _, name := range names {
		row := vaultRow{
			Name:      name,
			Path:      vaults[name],
			IsDefault: name == defaultName,
			IsActive:  name == activeName,
		}
		row.Exists, row.AutoMove = vaultStatus(row.Path)
		rows = append(rows, row)
	}

	_, configured := vaults[activeName]
	activeMissing = activeName != "" && !configured
	return rows, defaultName, activeName, activeMissing
}

// resolveCurrentVault picks the vault commands run against when no --vault or
// --vault-path is given: the state's active vault, else the default.
func resolveCurrentVault(cfg *config.Config, state *config.State) (*currentVaultInfo, error) {
	activeName := activeVaultName(state)
	current := &currentVaultInfo{Name: activeName, Source: "active_vault"}

	path, err := cfg.GetVaultPath(activeName)
	if activeName == "" || err != nil {
		current.Name = strings.TrimSpace(cfg.DefaultVault)
		current.Source = "default_vault"
		if activeName != "" {
			current.Source = "default_vault_fallback"
			current.ActiveMissing = true
		}
		path, err = cfg.GetDefaultVaultPath()
		if err != nil {
			if activeName != "" {
				return nil, fmt.Errorf("active vault '%s' not found in config and no default vault configured", activeName)
			}
			return nil, err
		}
	}

	current.Path = path
	current.Exists, current.AutoMove = vaultStatus(path)
	return current, nil
}

func describeVault(exists bool, autoMove *bool) string {
	switch {
	case !exists:
		return ui.Warning("missing")
	case autoMove == nil:
		return ui.Warning("settings unreadable")
	default:
		return "auto-move " + onOff(*autoMove)
	}
}

func runVaultList(cmd *cobra.Command, args []string) error {
	ctx, err := loadVaultContext()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}

	rows, defaultName, activeName, activeMissing := vaultRows(ctx.cfg, ctx.state)
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"config_path":    ctx.configPath,
			"state_path":     ctx.statePath,
			"default_vault":  defaultName,
			"active_vault":   activeName,
			"active_missing": activeMissing,
			"vaults":         rows,
		}, &Meta{Count: len(rows)})
		return nil
	}

	if len(rows) == 0 {
		fmt.Println(ui.Info("No vaults configured."))
		fmt.Println(ui.Hint("Register one with: autofolder vault add <name> <path>"))
		fmt.Println(ui.Hint("config: " + ctx.configPath))
		return nil
	}

	fmt.Println(ui.Header("Vaults") + " " + ui.Count(len(rows), "vault", "vaults"))
	for _, row := range rows {
		marks := ""
		if row.IsActive {
			marks += ">"
		}
		if row.IsDefault {
			marks += "*"
		}
		fmt.Printf("%-2s %-12s %s  %s\n", marks, row.Name, ui.FilePath(row.Path), describeVault(row.Exists, row.AutoMove))
	}
	fmt.Println(ui.Hint("> active (state.toml), * default (config.toml)"))
	if activeMissing {
		fmt.Println(ui.Warning(fmt.Sprintf("active vault '%s' in state is not configured", activeName)))
	}
	return nil
}

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "List, select and register vaults",
	Long: `List, select and register the vaults autofolder works on.

Commands run against --vault-path, then --vault, then the active vault from
state.toml, then default_vault from config.toml.`,
	Args: cobra.NoArgs,
	RunE: runVaultList,
}

var vaultListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured vaults with their auto-move status",
	Args:  cobra.NoArgs,
	RunE:  runVaultList,
}

var vaultCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show which vault commands run against",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadVaultContext()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		current, err := resolveCurrentVault(ctx.cfg, ctx.state)
		if err != nil {
			return handleError(ErrVaultNotSpecified, err, "Use 'autofolder vault use <name>' or 'autofolder vault add <name> <path>'")
		}

		if isJSONOutput() {
			outputSuccess(current, nil)
			return nil
		}

		fmt.Printf("%s %s\n", ui.Header(current.Name), ui.FilePath(current.Path))
		fmt.Printf("  %s\n", describeVault(current.Exists, current.AutoMove))
		fmt.Println(ui.Hint("from " + current.Source))
		return nil
	},
}

var vaultUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the active vault in state.toml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		ctx, err := loadVaultContext()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		path, err := ctx.cfg.GetVaultPath(name)
		if err != nil {
			return handleError(ErrVaultNotFound, err, "Run 'autofolder vault list' to see configured vaults")
		}

		ctx.state.ActiveVault = name
		if err := config.SaveState(ctx.statePath, ctx.state); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"active_vault": name,
				"path":         path,
				"state_path":   ctx.statePath,
			}, nil)
			return nil
		}

		fmt.Println(ui.Successf("Active vault: %s %s", name, ui.FilePath(path)))
		fmt.Println(ui.Hint("state: " + ctx.statePath))
		return nil
	},
}

var (
	vaultAddReplace bool
	vaultAddDefault bool
)

var vaultAddCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Register a vault directory in config.toml",
	Args:  cobra.ExactArgs(2),
	RunE:  runVaultAdd,
}

func runVaultAdd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	if name == "" {
		return handleErrorMsg(ErrMissingArgument, "vault name is required", "")
	}

	absPath, err := filepath.Abs(strings.TrimSpace(args[1]))
	if err != nil {
		return handleError(ErrInvalidInput, fmt.Errorf("failed to resolve vault path: %w", err), "")
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return handleErrorMsg(ErrVaultNotFound, fmt.Sprintf("vault path does not exist: %s", absPath), "")
		}
		return handleError(ErrFileReadError, err, "")
	}
	if !info.IsDir() {
		return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("vault path must be a directory: %s", absPath), "")
	}

	ctx, err := loadVaultContext()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}
	if ctx.cfg.Vaults == nil {
		ctx.cfg.Vaults = make(map[string]string)
	}

	prevPath, existed := ctx.cfg.Vaults[name]
	if existed && !vaultAddReplace {
		return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("vault '%s' already exists (%s)", name, prevPath), "Use --replace to update the path")
	}
	ctx.cfg.Vaults[name] = absPath
	if vaultAddDefault || strings.TrimSpace(ctx.cfg.DefaultVault) == "" {
		ctx.cfg.DefaultVault = name
	}

	if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"name":          name,
			"path":          absPath,
			"replaced":      existed,
			"default_vault": ctx.cfg.DefaultVault,
			"config_path":   ctx.configPath,
		}, nil)
		return nil
	}

	verb := "Added"
	if existed {
		verb = "Updated"
	}
	fmt.Println(ui.Successf("%s vault %s %s", verb, name, ui.FilePath(absPath)))
	if ctx.cfg.DefaultVault == name {
		fmt.Println(ui.Info("default vault"))
	}
	fmt.Println(ui.Hint("config: " + ctx.configPath))
	return nil
}

func init() {
	vaultAddCmd.Flags().BoolVar(&vaultAddReplace, "replace", false, "Replace the path of an existing vault")
	vaultAddCmd.Flags().BoolVar(&vaultAddDefault, "default", false, "Also make it the default vault")
	vaultCmd.AddCommand(vaultAddCmd)
	vaultCmd.AddCommand(vaultListCmd)
	vaultCmd.AddCommand(vaultCurrentCmd)
	vaultCmd.AddCommand(vaultUseCmd)
	rootCmd.AddCommand(vaultCmd)
}
