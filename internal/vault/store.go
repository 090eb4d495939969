// Package vault provides access to the notes and folders of a vault.
//
// All paths crossing this package's API are vault-relative and use forward
// slashes. The Store interface is what the resolver depends on; FSStore
// implements it over an afero filesystem so the same code serves a directory
// on disk and an in-memory vault.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"

	"github.com/aidanlsb/autofolder/internal/paths"
)

// ErrOutsideVault is returned for paths that would escape the vault root.
var ErrOutsideVault = errors.New("path is outside vault")

// FolderPerm is the mode used for folders created in the vault.
const FolderPerm os.FileMode = 0o755

// Store is the storage capability the resolver needs.
type Store interface {
	// ListNotes enumerates every note document in the vault.
	ListNotes(ctx context.Context) ([]Note, error)
	// Read returns the full text of a note.
	Read(ctx context.Context, path string) (string, error)
	// Lookup returns the node at path; ok is false when nothing exists there.
	Lookup(ctx context.Context, path string) (node Node, ok bool, err error)
	// CreateFolder creates a folder. An existing folder is not an error.
	CreateFolder(ctx context.Context, path string) error
	// Rename moves a file from one path to another.
	Rename(ctx context.Context, from, to string) error
}

// FSStore is a Store backed by an afero filesystem.
type FSStore struct {
	fs   afero.Fs
	root string
}

// Open returns a store rooted at the vault directory on disk.
func Open(vaultPath string) (*FSStore, error) {
	abs, err := filepath.Abs(vaultPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("vault not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault path %s is not a directory", abs)
	}
	return &FSStore{
		fs:   afero.NewBasePathFs(afero.NewOsFs(), abs),
		root: abs,
	}, nil
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *FSStore {
	return NewFSStore(afero.NewMemMapFs())
}

// NewFSStore wraps an arbitrary afero filesystem whose root is the vault root.
func NewFSStore(fs afero.Fs) *FSStore {
	return &FSStore{fs: fs}
}

// Root returns the absolute vault directory, or "" for in-memory stores.
func (s *FSStore) Root() string { return s.root }

// Fs exposes the underlying filesystem.
func (s *FSStore) Fs() afero.Fs { return s.fs }

// ListNotes walks the vault and returns every ".md" file, skipping hidden
// directories. Notes are returned in walk order (lexical within a folder).
// Unreadable subdirectories are skipped.
func (s *FSStore) ListNotes(ctx context.Context) ([]Note, error) {
	var notes []Note
	root := string(filepath.Separator)

	err := afero.Walk(s.fs, root, func(p string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if p == root {
				return err
			}
			return nil
		}

		rel := paths.Normalize(p)
		if info.IsDir() {
			if rel != "" && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() || !paths.IsNote(rel) {
			return nil
		}
		notes = append(notes, NewNote(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// Read returns the content of the note at path.
func (s *FSStore) Read(ctx context.Context, path string) (string, error) {
	p, err := s.fsPath(ctx, path)
	if err != nil {
		return "", err
	}
	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// Lookup stats path without following a final symlink. A symlink to a
// folder still reports KindFolder, but never Regular.
func (s *FSStore) Lookup(ctx context.Context, path string) (Node, bool, error) {
	p, err := s.fsPath(ctx, path)
	if err != nil {
		return Node{}, false, err
	}
	info, err := s.lstat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Node{}, false, nil
		}
		return Node{}, false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	node := Node{Path: paths.Normalize(path), Regular: info.Mode().IsRegular()}
	isDir := info.IsDir()
	if info.Mode()&os.ModeSymlink != 0 {
		if target, err := s.fs.Stat(p); err == nil {
			isDir = target.IsDir()
		}
	}
	if isDir {
		node.Kind = KindFolder
	}
	return node, true, nil
}

// CreateFolder creates path and any missing parents. It succeeds when the
// folder already exists, including when another caller created it first.
func (s *FSStore) CreateFolder(ctx context.Context, path string) error {
	p, err := s.fsPath(ctx, path)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(p, FolderPerm); err != nil {
		return fmt.Errorf("failed to create folder %s: %w", path, err)
	}
	info, err := s.fs.Stat(p)
	if err != nil {
		return fmt.Errorf("failed to create folder %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("failed to create folder %s: a file with that name exists", path)
	}
	return nil
}

// Rename moves from to to. What happens when to already exists is up to the
// underlying filesystem.
func (s *FSStore) Rename(ctx context.Context, from, to string) error {
	src, err := s.fsPath(ctx, from)
	if err != nil {
		return err
	}
	dst, err := s.fsPath(ctx, to)
	if err != nil {
		return err
	}
	if err := s.fs.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", from, to, err)
	}
	return nil
}

// WriteNote creates or replaces a note, creating parent folders as needed.
func (s *FSStore) WriteNote(ctx context.Context, path, content string) error {
	p, err := s.fsPath(ctx, path)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(p), FolderPerm); err != nil {
		return fmt.Errorf("failed to create parent of %s: %w", path, err)
	}
	if err := afero.WriteFile(s.fs, p, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// fsPath validates a vault-relative path and converts it to the rooted form
// used by the afero filesystem, spelled the way the entries are stored.
func (s *FSStore) fsPath(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel := paths.Normalize(path)
	for _, part := range strings.Split(rel, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %s", ErrOutsideVault, path)
		}
	}
	return s.diskPath(rel), nil
}

// diskPath maps the NFC path rel to its on-disk spelling. Names stored in
// another normalization form (NFD from macOS) are matched by comparing NFC
// forms against the directory listing. Missing components keep their NFC form.
func (s *FSStore) diskPath(rel string) string {
	root := string(filepath.Separator)
	if rel == "" {
		return root
	}
	direct := root + filepath.FromSlash(rel)
	if _, err := s.lstat(direct); err == nil {
		return direct
	}

	dir := root
	parts := strings.Split(rel, "/")
	for i, part := range parts {
		next := filepath.Join(dir, part)
		if _, err := s.lstat(next); err != nil {
			name, ok := s.matchEntry(dir, part)
			if !ok {
				return filepath.Join(append([]string{dir}, parts[i:]...)...)
			}
			next = filepath.Join(dir, name)
		}
		dir = next
	}
	return dir
}

// matchEntry finds the entry of dir whose NFC form equals name.
func (s *FSStore) matchEntry(dir, name string) (string, bool) {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if norm.NFC.String(e.Name()) == name {
			return e.Name(), true
		}
	}
	return "", false
}

func (s *FSStore) lstat(p string) (os.FileInfo, error) {
	if l, ok := s.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(p)
		return info, err
	}
	return s.fs.Stat(p)
}
