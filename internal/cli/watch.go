package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/autofolder/internal/config"
	"github.com/aidanlsb/autofolder/internal/resolver"
	"github.com/aidanlsb/autofolder/internal/ui"
	"github.com/aidanlsb/autofolder/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the vault and file new notes automatically",
	Long: `Watch the vault directory and move each newly created note into the
folder of the note that links to it.

This runs in the foreground until interrupted.

The watcher:
- Reacts to new .md files only (edits and deletions are ignored)
- Leaves notes and folders renamed inside the vault where they are
- Waits for the configured debounce (default 100ms) before acting
- Ignores hidden directories such as .git/, .obsidian/, .autofolder/
- Re-reads .autofolder/settings.yaml before every event, so
  'autofolder settings set auto-move off' takes effect immediately

Examples:
  # Watch the default vault
  autofolder watch

  # Watch with debug logging
  autofolder watch --log-level debug

  # Watch a specific vault
  autofolder watch --vault-path /path/to/vault`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	vaultPath := getVaultPath()
	if vaultPath == "" {
		return handleErrorMsg(ErrVaultNotSpecified, "no vault specified", "")
	}

	rt, err := openRuntime(vaultPath)
	if err != nil {
		return handleError(ErrVaultNotFound, err, "")
	}
	defer rt.Close()

	debounce := config.DefaultDebounce
	if c := getConfig(); c != nil {
		debounce = c.Watch.Debounce()
	}

	w, err := watcher.New(watcher.Config{
		VaultPath:     rt.vaultPath,
		DebounceDelay: debounce,
		Logger:        log,
		OnCreate: func(ctx context.Context, relPath string) {
			handleCreated(ctx, rt, relPath)
		},
	})
	if err != nil {
		return handleError(ErrInternal, fmt.Errorf("failed to create watcher: %w", err), "")
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !isJSONOutput() {
		fmt.Printf("Watching vault: %s\n", ui.FilePath(rt.vaultPath))
		fmt.Println(ui.Hint("Press Ctrl+C to stop"))
	}

	err = w.Start(ctx)
	if ctx.Err() != nil {
		if !isJSONOutput() {
			fmt.Println("\nShutting down watcher...")
		}
		return nil
	}
	if err != nil {
		return handleError(ErrInternal, err, "")
	}
	return nil
}

// handleCreated applies the automatic trigger to one new note. Settings are
// read fresh each time; when they cannot be read the note is left alone.
func handleCreated(ctx context.Context, rt *vaultRuntime, relPath string) {
	settings, err := config.LoadSettings(rt.vaultPath)
	if err != nil {
		log.Warn("cannot read settings, not moving new note", "path", relPath, "error", err)
		return
	}

	res, ran := rt.dispatcher.OnCreate(ctx, relPath, settings)
	if !ran {
		return
	}

	if isJSONOutput() {
		outputJSON(Response{
			OK:       !res.Failed(),
			Data:     res,
			Warnings: skipWarnings(res),
		})
		return
	}
	if res.Failed() {
		fmt.Fprintln(os.Stderr, ui.Error(fmt.Sprintf("could not move %s: %s", res.Note, res.Error)))
		return
	}
	if res.Outcome == resolver.OutcomeMoved {
		fmt.Println(ui.Hint(fmt.Sprintf("  %s -> %s", res.Note, res.Destination)))
	}
}
