package vault

import "github.com/aidanlsb/autofolder/internal/paths"

// Note is a markdown document identified by its vault-relative path.
type Note struct {
	// Path is normalized: forward slashes, no leading slash.
	Path string
}

// NewNote returns the note at p, normalizing the path.
func NewNote(p string) Note {
	return Note{Path: paths.Normalize(p)}
}

// Basename is the file name without directory and without ".md".
func (n Note) Basename() string { return paths.Basename(n.Path) }

// FileName is the file name including the extension.
func (n Note) FileName() string { return paths.FileName(n.Path) }

// Parent is the folder containing the note, "" for the vault root.
func (n Note) Parent() string { return paths.Parent(n.Path) }

func (n Note) String() string { return n.Path }

// NodeKind distinguishes files from folders.
type NodeKind int

const (
	KindFile NodeKind = iota
	KindFolder
)

func (k NodeKind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// Node is an entry that exists in the store.
type Node struct {
	Path string
	Kind NodeKind
	// Regular is false for files that are not plain files (symlinks, devices).
	Regular bool
}

// IsFolder reports whether the node is a folder.
func (n Node) IsFolder() bool { return n.Kind == KindFolder }
