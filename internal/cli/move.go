package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/autofolder/internal/config"
	"github.com/aidanlsb/autofolder/internal/resolver"
	"github.com/aidanlsb/autofolder/internal/trigger"
	"github.com/aidanlsb/autofolder/internal/ui"
)

var moveCmd = &cobra.Command{
	Use:   "move [note]",
	Short: "Move a note into the folder of the note that links to it",
	Long: `Move a note into the folder of the first other note that links to it.

If notes/A.md contains [[B]], then 'autofolder move B.md' moves B.md to
notes/A/B.md, creating notes/A/ when needed. Links may carry a path prefix,
a heading anchor or an alias ([[x/B]], [[B#Heading]], [[B|label]]) and are
matched case-insensitively.

Without an argument the focused note is used (see 'autofolder focus').
Runs regardless of the auto_move setting.

Examples:
  autofolder move B.md
  autofolder move inbox/idea.md --json
  autofolder focus inbox/idea.md && autofolder move`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	vaultPath := getVaultPath()

	var active string
	if len(args) == 1 {
		rel, err := notePathArg(vaultPath, args[0])
		if err != nil {
			return handleError(ErrFileOutsideVault, err, "")
		}
		active = rel
	} else {
		state, err := config.LoadState(getStatePath())
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		active = state.ActiveNote
	}

	rt, err := openRuntime(vaultPath)
	if err != nil {
		return handleError(ErrVaultNotFound, err, "")
	}
	defer rt.Close()

	res, ran := rt.dispatcher.MoveActive(commandContext(cmd), active)
	if !ran {
		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{"moved": false}, []Warning{{
				Code:    WarnNoActiveNote,
				Message: trigger.NoActiveFileMessage,
			}}, nil)
		}
		return nil
	}
	if res.Moved() {
		followActiveNote(res)
	}
	return reportMove(res)
}

// followActiveNote points the focused note at its new path after it moved,
// the way an editor keeps a renamed file open.
func followActiveNote(res resolver.Result) {
	statePath := getStatePath()
	state, err := config.LoadState(statePath)
	if err != nil {
		log.Warn("failed to load state", "error", err)
		return
	}
	if state.ActiveNote != res.Note {
		return
	}
	state.ActiveNote = res.Destination
	if err := config.SaveState(statePath, state); err != nil {
		log.Warn("failed to update active note", "note", res.Destination, "error", err)
	}
}

// reportMove prints the outcome of a manual resolution. The success notice
// itself comes from the notifier.
func reportMove(res resolver.Result) error {
	if res.Failed() {
		return handleErrorWithDetails(failureCode(res.Err), res.Error, "", res)
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(res, skipWarnings(res), nil)
		return nil
	}

	for _, s := range res.Skipped {
		fmt.Fprintln(os.Stderr, ui.Warning(fmt.Sprintf("could not read %s: %s", s.Path, s.Reason)))
	}

	switch res.Outcome {
	case resolver.OutcomeMoved:
		fmt.Println(ui.Hint(fmt.Sprintf("  %s -> %s (linked from %s:%d)", res.Note, res.Destination, res.Source, res.Line)))
	case resolver.OutcomeInPlace:
		fmt.Println(ui.Info(fmt.Sprintf("%s is already in %s", ui.FilePath(res.Note), ui.FilePath(res.Folder))))
	case resolver.OutcomeNoSource:
		fmt.Println(ui.Info(fmt.Sprintf("No note links to %s; left in place", ui.FilePath(res.Note))))
	case resolver.OutcomeIgnored:
		fmt.Println(ui.Info(fmt.Sprintf("Skipped %s: %s", ui.FilePath(res.Note), res.Reason)))
	}
	return nil
}
