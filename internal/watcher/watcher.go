// Package watcher reports newly created notes in a vault directory.
//
// It is used by `autofolder watch` to drive the automatic trigger. Notes and
// folders renamed inside the vault are not new notes: fsnotify reports the
// old name as Rename immediately before the new name as Create, and such
// pairs are dropped. Editors that save through a temporary file rename it
// onto the note; that old name is not a note, so the note still counts as
// created.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aidanlsb/autofolder/internal/paths"
)

// renameWindow bounds how long a Rename waits for the Create of its new name.
const renameWindow = time.Second

// Watcher monitors a vault directory and calls OnCreate once per new note.
type Watcher struct {
	vaultPath string

	// Configuration
	debounceDelay time.Duration
	log           *slog.Logger

	// Internal state
	fsWatcher *fsnotify.Watcher
	pending   map[string]time.Time
	mu        sync.Mutex

	// Event loop state.
	dirs         map[string]bool
	renamed      map[string]time.Time
	awaitingPair bool
	renamedAt    time.Time

	// Callbacks
	onCreate func(ctx context.Context, relPath string)
}

// Config holds configuration options for the Watcher.
type Config struct {
	VaultPath     string
	DebounceDelay time.Duration // Default: 100ms
	Logger        *slog.Logger
	// OnCreate receives the vault-relative path of each created note.
	OnCreate func(ctx context.Context, relPath string)
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.VaultPath == "" {
		return nil, fmt.Errorf("vault path is required")
	}
	if cfg.OnCreate == nil {
		return nil, fmt.Errorf("create callback is required")
	}

	abs, err := filepath.Abs(cfg.VaultPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault path: %w", err)
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 100 * time.Millisecond
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Watcher{
		vaultPath:     abs,
		debounceDelay: debounce,
		log:           log.With("component", "watcher"),
		pending:       make(map[string]time.Time),
		dirs:          make(map[string]bool),
		renamed:       make(map[string]time.Time),
		onCreate:      cfg.OnCreate,
	}, nil
}

// Start begins watching the vault for new notes.
// It blocks until the context is cancelled and returns only after any
// callback in progress has finished.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	if err := w.addWatchRecursive(w.vaultPath, false); err != nil {
		return fmt.Errorf("failed to watch vault: %w", err)
	}

	w.log.Info("watching vault", "path", w.vaultPath)

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		w.processDebounced(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}

// handleEvent processes a single filesystem event. Only creations matter.
// A Create directly following a Rename is the new name of a file or folder
// moved inside the vault; a Create with no such Rename (a file moved in from
// outside the vault) counts as new.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	now := time.Now()
	if event.Has(fsnotify.Rename) {
		w.recordRename(event.Name, now)
		return
	}
	movedWithin := w.pairRename(now)
	if !event.Has(fsnotify.Create) {
		return
	}
	path := event.Name

	rel, ok := paths.ToVaultRelative(w.vaultPath, path)
	if !ok || rel == "" || paths.IsHidden(rel) {
		return
	}

	info, err := os.Lstat(path)
	if err != nil {
		// Gone again before we looked.
		return
	}
	if info.IsDir() {
		// Notes written before the watch is in place never produce their own
		// event, so pick them up while walking a new directory. A renamed
		// directory only needs watching again.
		w.addWatchRecursive(path, !movedWithin)
		return
	}
	if !info.Mode().IsRegular() || !paths.IsNote(rel) {
		return
	}
	if movedWithin {
		w.log.Debug("note renamed", "path", rel)
		return
	}

	w.log.Debug("note created", "path", rel)
	w.schedule(rel)
}

// recordRename remembers the old name of a renamed note or watched directory
// so the Create of the new name can be paired with it. A moved watched
// directory is reported twice (by its parent and by its own watch); the
// second report is ignored.
func (w *Watcher) recordRename(name string, now time.Time) {
	for old, at := range w.renamed {
		if now.Sub(at) > renameWindow {
			delete(w.renamed, old)
		}
	}
	if _, seen := w.renamed[name]; seen {
		return
	}
	rel, ok := paths.ToVaultRelative(w.vaultPath, name)
	if !ok {
		return
	}
	if !w.dirs[name] && !paths.IsNote(rel) {
		w.awaitingPair = false
		return
	}
	if w.unschedule(rel) {
		// Still new: let the Create of the new name schedule it.
		w.awaitingPair = false
		return
	}
	w.forgetDirs(name)
	w.renamed[name] = now
	w.awaitingPair = true
	w.renamedAt = now
}

// pairRename reports whether the previous event was an unpaired Rename within
// renameWindow, and consumes it.
func (w *Watcher) pairRename(now time.Time) bool {
	paired := w.awaitingPair && now.Sub(w.renamedAt) <= renameWindow
	w.awaitingPair = false
	return paired
}

// forgetDirs drops root and everything below it from the watched set.
func (w *Watcher) forgetDirs(root string) {
	prefix := root + string(filepath.Separator)
	for dir := range w.dirs {
		if dir == root || strings.HasPrefix(dir, prefix) {
			delete(w.dirs, dir)
		}
	}
}

// schedule adds a note to the pending queue with debouncing.
func (w *Watcher) schedule(rel string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.pending[rel]; ok {
		return
	}
	w.pending[rel] = time.Now()
}

// unschedule removes a pending note and reports whether it was pending.
func (w *Watcher) unschedule(rel string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.pending[rel]; !ok {
		return false
	}
	delete(w.pending, rel)
	return true
}

// processDebounced processes pending notes after the debounce delay.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending(ctx)
		}
	}
}

// processPending hands notes past the debounce delay to the callback, one at
// a time and in creation order.
func (w *Watcher) processPending(ctx context.Context) {
	type item struct {
		path string
		at   time.Time
	}

	w.mu.Lock()
	now := time.Now()
	ready := make([]item, 0)
	for path, scheduledAt := range w.pending {
		if now.Sub(scheduledAt) >= w.debounceDelay {
			ready = append(ready, item{path, scheduledAt})
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for i := 1; i < len(ready); i++ {
		for j := i; j > 0 && ready[j].at.Before(ready[j-1].at); j-- {
			ready[j], ready[j-1] = ready[j-1], ready[j]
		}
	}

	for _, it := range ready {
		if ctx.Err() != nil {
			return
		}
		w.onCreate(ctx, it.path)
	}
}

// addWatchRecursive adds a directory and all subdirectories to the watcher.
// With scheduleNotes set, notes already inside are queued as created.
func (w *Watcher) addWatchRecursive(root string, scheduleNotes bool) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if info.IsDir() {
			if path != w.vaultPath && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			w.dirs[path] = true
			if w.fsWatcher != nil {
				if err := w.fsWatcher.Add(path); err != nil {
					w.log.Debug("failed to watch directory", "path", path, "error", err)
				}
			}
			return nil
		}
		if !scheduleNotes || !info.Mode().IsRegular() {
			return nil
		}
		if rel, ok := paths.ToVaultRelative(w.vaultPath, path); ok && paths.IsNote(rel) {
			w.schedule(rel)
		}
		return nil
	})
}

// Pending returns the number of notes waiting for their debounce delay.
func (w *Watcher) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}
