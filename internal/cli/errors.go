// Package cli implements the command-line interface.
package cli

import "errors"

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Vault errors
	ErrVaultNotFound     = "VAULT_NOT_FOUND"
	ErrVaultNotSpecified = "VAULT_NOT_SPECIFIED"
	ErrConfigInvalid     = "CONFIG_INVALID"

	// Note errors
	ErrNoteNotFound = "NOTE_NOT_FOUND"
	ErrMoveFailed   = "MOVE_FAILED"

	// File errors
	ErrFileReadError    = "FILE_READ_ERROR"
	ErrFileWriteError   = "FILE_WRITE_ERROR"
	ErrFileOutsideVault = "FILE_OUTSIDE_VAULT"

	// Database errors
	ErrDatabaseError = "DATABASE_ERROR"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnUnreadableNote = "UNREADABLE_NOTE"
	WarnNoActiveNote   = "NO_ACTIVE_NOTE"
)

// errSilent is returned after a JSON error envelope has been written, so the
// process exits non-zero without Cobra printing the error a second time.
var errSilent = errors.New("error already reported")

// printableError reports whether err still needs to be shown to the user.
func printableError(err error) bool {
	return err != nil && !errors.Is(err, errSilent)
}
