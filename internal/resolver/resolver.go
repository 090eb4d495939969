// Package resolver moves a newly created note into a folder named after the
// first note that links to it.
//
// Given a note "b.md" and an existing note "projects/a.md" containing [[b]],
// ResolveAndMove moves "b.md" to "projects/a/b.md", creating "projects/a"
// when needed. The resolver only talks to a vault.Store and a Notifier, so it
// runs the same way against a directory on disk and an in-memory vault.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"golang.org/x/text/unicode/norm"

	"github.com/aidanlsb/autofolder/internal/paths"
	"github.com/aidanlsb/autofolder/internal/vault"
	"github.com/aidanlsb/autofolder/internal/wikilink"
)

// ErrNoteNotFound is returned (inside a failed Result) when the note to move
// does not exist.
var ErrNoteNotFound = errors.New("note not found")

// NoticeKind classifies user-facing notices.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeInfo
)

// Notifier shows short transient messages to the user.
type Notifier interface {
	Notify(kind NoticeKind, msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(kind NoticeKind, msg string)

// Notify calls f.
func (f NotifierFunc) Notify(kind NoticeKind, msg string) { f(kind, msg) }

// Resolver finds the note linking to a new note and moves the new note into
// the linking note's folder.
type Resolver struct {
	store    vault.Store
	notifier Notifier
	log      *slog.Logger
}

// Config holds the collaborators of a Resolver.
type Config struct {
	Store    vault.Store
	Notifier Notifier     // Optional; notices are dropped when nil
	Logger   *slog.Logger // Optional; defaults to slog.Default()
}

// New creates a Resolver.
func New(cfg Config) (*Resolver, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = NotifierFunc(func(NoticeKind, string) {})
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		store:    cfg.Store,
		notifier: notifier,
		log:      log.With("component", "resolver"),
	}, nil
}

// ResolveAndMove moves the note at notePath into "{sourceParent}/{sourceBasename}/"
// where source is the first other note (in store enumeration order) whose
// content links to it.
//
// It never panics or returns an error directly: every failure is reported
// through a Result with OutcomeFailed. A folder created before a failed move
// is left in place.
func (r *Resolver) ResolveAndMove(ctx context.Context, notePath string) Result {
	note := vault.NewNote(notePath)
	res := Result{Note: note.Path}

	if !paths.IsNote(note.Path) {
		res.Reason = "not a markdown note"
		return res
	}

	node, ok, err := r.store.Lookup(ctx, note.Path)
	if err != nil {
		return r.failed(res, err)
	}
	if !ok {
		return r.failed(res, fmt.Errorf("%w: %s", ErrNoteNotFound, note.Path))
	}
	if node.IsFolder() || !node.Regular {
		res.Reason = "not a regular file"
		return res
	}

	re := wikilink.ReferencePattern(note.Basename())
	found, err := r.findSource(ctx, note, re)
	res.Skipped = found.skipped
	if err != nil {
		return r.failed(res, err)
	}
	if found.source == nil {
		res.Outcome = OutcomeNoSource
		r.log.Info("no source note found", "note", note.Path, "name", note.Basename())
		return res
	}

	source := *found.source
	res.Source = source.Path
	res.Link = found.match.Literal
	res.Line = found.match.Line
	res.Folder = paths.Join(source.Parent(), source.Basename())
	res.Destination = paths.Join(res.Folder, note.FileName())

	if res.Destination == note.Path {
		res.Outcome = OutcomeInPlace
		r.log.Info("note already in place", "note", note.Path, "source", source.Path)
		return res
	}

	created, err := r.ensureFolder(ctx, res.Folder)
	res.FolderCreated = created
	if err != nil {
		return r.failed(res, err)
	}

	if err := r.store.Rename(ctx, note.Path, res.Destination); err != nil {
		return r.failed(res, err)
	}

	res.Outcome = OutcomeMoved
	r.notifier.Notify(NoticeSuccess, fmt.Sprintf("Moved note %q to %q", note.Basename(), res.Folder))
	r.log.Info("moved note", "from", note.Path, "to", res.Destination, "source", source.Path, "link", res.Link)
	return res
}

// candidateRead is the per-candidate result of the scan: either content or
// the reason the candidate was skipped.
type candidateRead struct {
	note    vault.Note
	content string
	err     error
}

type scanResult struct {
	source  *vault.Note
	match   wikilink.Match
	skipped []Skip
}

// findSource returns the first candidate linking to note. Unreadable
// candidates are skipped; only listing failures and cancellation are fatal.
func (r *Resolver) findSource(ctx context.Context, note vault.Note, re *regexp.Regexp) (scanResult, error) {
	var out scanResult

	candidates, err := r.store.ListNotes(ctx)
	if err != nil {
		return out, err
	}

	for _, candidate := range candidates {
		if candidate.Path == note.Path {
			continue
		}

		read := r.read(ctx, candidate)
		if read.err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return out, ctxErr
			}
			out.skipped = append(out.skipped, Skip{Path: candidate.Path, Reason: read.err.Error()})
			r.log.Debug("skipping unreadable candidate", "path", candidate.Path, "error", read.err)
			continue
		}

		if m, ok := wikilink.FindReference(re, norm.NFC.String(read.content)); ok {
			src := read.note
			out.source = &src
			out.match = m
			return out, nil
		}
	}
	return out, nil
}

func (r *Resolver) read(ctx context.Context, note vault.Note) candidateRead {
	content, err := r.store.Read(ctx, note.Path)
	return candidateRead{note: note, content: content, err: err}
}

// ensureFolder creates folder when nothing exists at that path. It reports
// whether this call created it.
func (r *Resolver) ensureFolder(ctx context.Context, folder string) (bool, error) {
	node, ok, err := r.store.Lookup(ctx, folder)
	if err != nil {
		return false, err
	}
	if ok {
		if !node.IsFolder() {
			return false, fmt.Errorf("destination %s exists and is not a folder", folder)
		}
		return false, nil
	}
	if err := r.store.CreateFolder(ctx, folder); err != nil {
		return false, err
	}
	r.log.Debug("created folder", "folder", folder)
	return true, nil
}

func (r *Resolver) failed(res Result, err error) Result {
	r.log.Error("failed to move note", "note", res.Note, "error", err)
	return res.fail(err)
}
