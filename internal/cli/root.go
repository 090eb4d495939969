// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/autofolder/internal/config"
	"github.com/aidanlsb/autofolder/internal/logger"
)

var (
	// Global flags
	vaultName     string // Named vault from config
	vaultPathFlag string // Explicit path (rare)
	configPath    string
	statePathFlag string
	logLevelFlag  string

	// Resolved values
	resolvedVaultPath  string
	resolvedConfigPath string
	resolvedStatePath  string
	cfg                *config.Config

	log       = logger.Discard()
	logCloser io.Closer
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "autofolder",
	Short: "Autofolder - file new notes next to the note that links to them",
	Long: `Autofolder keeps a markdown vault tidy. When you create a note B and another
note A already links to it with [[B]], B is moved into a folder named after A,
right next to A:

  notes/A.md  links to [[B]]
  B.md        is moved to notes/A/B.md

Run 'autofolder watch' to do this automatically as notes are created, or
'autofolder move <note>' to do it once.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip vault resolution for commands that don't need it
		switch cmd.Name() {
		case "vault", "completion", "help", "version":
			return nil
		}
		if cmd.Parent() != nil && (cmd.Parent().Name() == "completion" || cmd.Parent().Name() == "vault") {
			return nil
		}

		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return handleError(ErrConfigInvalid, fmt.Errorf("failed to load config: %w", err), "")
		}
		if cfg == nil {
			cfg = &config.Config{}
		}
		resolvedStatePath = config.ResolveStatePath(statePathFlag, resolvedConfigPath, cfg)

		if err := setupLogging(cfg.Log); err != nil {
			return handleError(ErrConfigInvalid, err, "Check the [log] section of config.toml")
		}

		// Resolve vault path: explicit path > named vault > active state > default
		if vaultPathFlag != "" {
			resolvedVaultPath = vaultPathFlag
		} else if vaultName != "" {
			resolvedVaultPath, err = cfg.GetVaultPath(vaultName)
			if err != nil {
				return handleErrorMsg(ErrVaultNotFound, fmt.Sprintf("vault '%s' not found", vaultName), "Run 'autofolder vault list' to see configured vaults")
			}
		} else {
			state, stateErr := config.LoadState(resolvedStatePath)
			if stateErr != nil {
				return handleError(ErrConfigInvalid, fmt.Errorf("failed to load state: %w", stateErr), "")
			}

			activeVaultName := strings.TrimSpace(state.ActiveVault)
			if activeVaultName != "" {
				resolvedVaultPath, err = cfg.GetVaultPath(activeVaultName)
				if err != nil {
					resolvedVaultPath, err = cfg.GetDefaultVaultPath()
					if err != nil {
						return handleErrorMsg(ErrVaultNotSpecified,
							fmt.Sprintf("active vault '%s' not found in config and no default vault configured", activeVaultName),
							"Run 'autofolder vault use <name>' or set default_vault in config.toml")
					}
					log.Warn("active vault not found in config, falling back to default", "vault", activeVaultName)
				}
			} else {
				resolvedVaultPath, err = cfg.GetDefaultVaultPath()
				if err != nil {
					return handleErrorMsg(ErrVaultNotSpecified, `no vault specified

Either:
  1. Use --vault <name> (from config)
  2. Use --vault-path /path/to/vault
  3. Run 'autofolder vault use <name>' to set active_vault in state.toml
  4. Set default_vault in ~/.config/autofolder/config.toml`, "")
				}
			}
		}

		info, err := os.Stat(resolvedVaultPath)
		if err != nil {
			if os.IsNotExist(err) {
				return handleErrorMsg(ErrVaultNotFound, fmt.Sprintf("vault not found: %s", resolvedVaultPath), "")
			}
			return handleError(ErrFileReadError, err, "")
		}
		if !info.IsDir() {
			return handleErrorMsg(ErrVaultNotFound, fmt.Sprintf("vault path is not a directory: %s", resolvedVaultPath), "")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLogging()
	},
}

// Execute runs the CLI.
func Execute() error {
	defer closeLogging()
	err := rootCmd.Execute()
	if printableError(err) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&vaultName, "vault", "v", "", "Named vault from config")
	rootCmd.PersistentFlags().StringVar(&vaultPathFlag, "vault-path", "", "Explicit path to vault directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&statePathFlag, "state", "", "Path to state file (overrides state_file in config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)
}

// normalizeFlagName accepts the snake_case spelling used in config files,
// so --vault_path and --log_level work too.
func normalizeFlagName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// getVaultPath returns the resolved vault path.
func getVaultPath() string {
	return resolvedVaultPath
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	return cfg
}

// getStatePath returns the resolved global state path.
func getStatePath() string {
	return resolvedStatePath
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)

	var loadedCfg *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
			return &config.Config{}, resolvedPath, nil
		}
		loadedCfg, err = config.LoadFrom(configPath)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	return loadedCfg, resolvedPath, nil
}

// setupLogging replaces the package logger according to the [log] section and
// the --log-level flag. Diagnostics stay off stdout in JSON mode.
func setupLogging(lc config.LogConfig) error {
	lcfg := logger.Config{Level: lc.Level, Format: lc.Format, Output: lc.Output}
	if strings.TrimSpace(logLevelFlag) != "" {
		lcfg.Level = logLevelFlag
	}
	if lcfg.Level == "" {
		lcfg.Level = "warn"
	}
	if jsonOutput && strings.EqualFold(strings.TrimSpace(lcfg.Output), "stdout") {
		lcfg.Output = "stderr"
	}

	l, closer, err := logger.New(lcfg)
	if err != nil {
		return err
	}
	closeLogging()
	log, logCloser = l, closer
	slog.SetDefault(l)
	return nil
}

func closeLogging() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}
