package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/autofolder/internal/history"
	"github.com/aidanlsb/autofolder/internal/paths"
	"github.com/aidanlsb/autofolder/internal/resolver"
	"github.com/aidanlsb/autofolder/internal/trigger"
	"github.com/aidanlsb/autofolder/internal/ui"
	"github.com/aidanlsb/autofolder/internal/vault"
)

// vaultRuntime wires the store, resolver, journal and dispatcher for one vault.
type vaultRuntime struct {
	vaultPath  string
	store      *vault.FSStore
	journal    *history.Journal
	dispatcher *trigger.Dispatcher
}

// openRuntime opens the vault. A journal that cannot be opened is logged and
// left out; moves still work without it.
func openRuntime(vaultPath string) (*vaultRuntime, error) {
	store, err := vault.Open(vaultPath)
	if err != nil {
		return nil, err
	}

	rt := &vaultRuntime{vaultPath: store.Root(), store: store}
	notifier := ui.NewNotifier(noticeWriter())

	res, err := resolver.New(resolver.Config{Store: store, Notifier: notifier, Logger: log})
	if err != nil {
		return nil, err
	}

	tcfg := trigger.Config{Mover: res, Notifier: notifier, Logger: log}
	journal, err := history.Open(rt.vaultPath)
	if err != nil {
		log.Warn("move journal unavailable", "error", err)
	} else {
		rt.journal = journal
		tcfg.Journal = journal
	}

	rt.dispatcher, err = trigger.New(tcfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

// Close releases the journal.
func (rt *vaultRuntime) Close() error {
	if rt.journal == nil {
		return nil
	}
	return rt.journal.Close()
}

// noticeWriter keeps notices off stdout while stdout carries JSON.
func noticeWriter() io.Writer {
	if isJSONOutput() {
		return os.Stderr
	}
	return os.Stdout
}

// notePathArg converts a note argument to a vault-relative path. Absolute
// paths must point inside the vault; anything else is taken as relative to
// the vault root.
func notePathArg(vaultPath, arg string) (string, error) {
	if filepath.IsAbs(arg) {
		absVault, err := filepath.Abs(vaultPath)
		if err != nil {
			return "", err
		}
		rel, ok := paths.ToVaultRelative(absVault, arg)
		if !ok {
			return "", fmt.Errorf("%w: %s", vault.ErrOutsideVault, arg)
		}
		return rel, nil
	}
	return paths.Normalize(arg), nil
}

// failureCode maps a failed resolution to a stable error code.
func failureCode(err error) string {
	switch {
	case errors.Is(err, resolver.ErrNoteNotFound):
		return ErrNoteNotFound
	case errors.Is(err, vault.ErrOutsideVault):
		return ErrFileOutsideVault
	default:
		return ErrMoveFailed
	}
}

func skipWarnings(res resolver.Result) []Warning {
	if len(res.Skipped) == 0 {
		return nil
	}
	warnings := make([]Warning, 0, len(res.Skipped))
	for _, s := range res.Skipped {
		warnings = append(warnings, Warning{Code: WarnUnreadableNote, Message: s.Reason, Path: s.Path})
	}
	return warnings
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
