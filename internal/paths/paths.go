// Package paths provides canonical helpers for vault-relative note paths:
// - normalization (e.g. "/a//b\\c.md" -> "a/b/c.md")
// - splitting a note path into parent folder, file name and basename
// - converting between absolute OS paths and vault-relative paths
//
// Every other package works with the normalized, forward-slash form so that
// the watcher, the store and the resolver agree on what a path looks like.
package paths

import (
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NoteExt is the extension of note documents.
const NoteExt = ".md"

// Normalize normalizes a vault-relative path-like value:
// - converts OS separators and backslashes to '/'
// - collapses repeated '/'
// - trims leading and trailing '/'
// - applies Unicode NFC so visually identical names compare equal
//
// The empty string (and "/") normalize to "", the vault root.
func Normalize(p string) string {
	p = filepath.ToSlash(p)
	p = strings.ReplaceAll(p, `\`, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	p = strings.Trim(p, "/")
	p = strings.TrimPrefix(p, "./")
	if p == "." {
		p = ""
	}
	return norm.NFC.String(p)
}

// Join joins path elements and normalizes the result.
func Join(elem ...string) string {
	return Normalize(strings.Join(elem, "/"))
}

// FileName returns the last element of p, including its extension.
func FileName(p string) string {
	p = Normalize(p)
	if p == "" {
		return ""
	}
	return path.Base(p)
}

// Basename returns the file name of p without directory and without the
// note extension.
//
// Examples:
// - "people/freya.md" -> "freya"
// - "a.b.md"          -> "a.b"
func Basename(p string) string {
	name := FileName(p)
	return strings.TrimSuffix(name, path.Ext(name))
}

// Parent returns the parent folder of p, or "" when p lives at the vault root.
func Parent(p string) string {
	p = Normalize(p)
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return ""
	}
	return p[:i]
}

// IsNote reports whether p names a note document.
func IsNote(p string) bool {
	return strings.HasSuffix(p, NoteExt) && Basename(p) != ""
}

// IsHidden reports whether any segment of the vault-relative path p starts
// with a dot (.git, .obsidian, .autofolder, ...).
func IsHidden(p string) bool {
	for _, part := range strings.Split(Normalize(p), "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// ToVaultRelative converts an absolute OS path to a normalized vault-relative
// path. ok is false when abs does not live inside vaultPath.
func ToVaultRelative(vaultPath, abs string) (rel string, ok bool) {
	r, err := filepath.Rel(vaultPath, abs)
	if err != nil {
		return "", false
	}
	if r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", false
	}
	return Normalize(r), true
}

// ToOS converts a vault-relative path to an absolute OS path under vaultPath.
func ToOS(vaultPath, rel string) string {
	return filepath.Join(vaultPath, filepath.FromSlash(Normalize(rel)))
}
