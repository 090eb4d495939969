package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/autofolder/internal/history"
	"github.com/aidanlsb/autofolder/internal/ui"
)

var (
	historyLimit int
	historyNotes []string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent moves",
	Long: `List moves recorded in .autofolder/history.db, newest first.

Examples:
  autofolder history
  autofolder history --limit 5 --json
  autofolder history --note inbox/B.md`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of moves to show (0 for all)")
	historyCmd.Flags().StringSliceVar(&historyNotes, "note", nil, "Only moves from or to this note (repeatable)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyLimit < 0 {
		return handleErrorMsg(ErrInvalidInput, "--limit must not be negative", "")
	}

	journal, err := history.Open(getVaultPath())
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer journal.Close()

	var entries []history.Entry
	if len(historyNotes) > 0 {
		entries, err = journal.ListForNotes(commandContext(cmd), historyNotes, historyLimit)
	} else {
		entries, err = journal.List(commandContext(cmd), historyLimit)
	}
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}

	if isJSONOutput() {
		if entries == nil {
			entries = []history.Entry{}
		}
		outputSuccess(map[string]interface{}{"moves": entries}, &Meta{Count: len(entries)})
		return nil
	}

	if len(entries) == 0 {
		fmt.Println(ui.Info("No moves recorded yet"))
		return nil
	}

	fmt.Printf("%s %s\n", ui.Header("Moves"), ui.Hint(ui.Count(len(entries), "move", "moves")))
	for _, e := range entries {
		fmt.Printf("  %s  %-6s  %s -> %s\n",
			ui.Hint(e.At.Local().Format("2006-01-02 15:04:05")),
			e.Trigger,
			e.From,
			ui.FilePath(e.To),
		)
	}
	return nil
}
