package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/autofolder/internal/config"
	"github.com/aidanlsb/autofolder/internal/paths"
	"github.com/aidanlsb/autofolder/internal/ui"
	"github.com/aidanlsb/autofolder/internal/vault"
)

var focusClear bool

var focusCmd = &cobra.Command{
	Use:   "focus [note]",
	Short: "Show or set the note 'autofolder move' acts on",
	Long: `Show or set the focused note, stored as active_note in state.toml.

'autofolder move' without arguments acts on this note.

Examples:
  autofolder focus              # show the focused note
  autofolder focus inbox/B.md   # focus a note
  autofolder focus --clear      # forget it`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFocus,
}

func init() {
	focusCmd.Flags().BoolVar(&focusClear, "clear", false, "Clear the focused note")
	rootCmd.AddCommand(focusCmd)
}

func runFocus(cmd *cobra.Command, args []string) error {
	statePath := getStatePath()
	state, err := config.LoadState(statePath)
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}

	switch {
	case focusClear:
		if len(args) > 0 {
			return handleErrorMsg(ErrInvalidInput, "cannot combine --clear with a note", "")
		}
		state.ActiveNote = ""
	case len(args) == 1:
		rel, err := notePathArg(getVaultPath(), args[0])
		if err != nil {
			return handleError(ErrFileOutsideVault, err, "")
		}
		if !paths.IsNote(rel) {
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("not a markdown note: %s", rel), "")
		}
		store, err := vault.Open(getVaultPath())
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}
		node, ok, err := store.Lookup(commandContext(cmd), rel)
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}
		if !ok || node.IsFolder() {
			return handleErrorMsg(ErrNoteNotFound, fmt.Sprintf("note not found: %s", rel), "")
		}
		state.ActiveNote = rel
	default:
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"active_note": state.ActiveNote,
				"state_path":  statePath,
			}, nil)
			return nil
		}
		if state.ActiveNote == "" {
			fmt.Println(ui.Info("No focused note"))
		} else {
			fmt.Printf("focused: %s\n", ui.FilePath(state.ActiveNote))
		}
		return nil
	}

	if err := config.SaveState(statePath, state); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"active_note": state.ActiveNote,
			"state_path":  statePath,
		}, nil)
		return nil
	}
	if state.ActiveNote == "" {
		fmt.Println(ui.Success("Cleared focused note"))
	} else {
		fmt.Println(ui.Successf("Focused %s", ui.FilePath(state.ActiveNote)))
	}
	return nil
}
