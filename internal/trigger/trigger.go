// Package trigger decides when the resolver runs: automatically for newly
// created notes while auto-move is enabled, and on demand for the active note.
package trigger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aidanlsb/autofolder/internal/config"
	"github.com/aidanlsb/autofolder/internal/history"
	"github.com/aidanlsb/autofolder/internal/paths"
	"github.com/aidanlsb/autofolder/internal/resolver"
)

// NoActiveFileMessage is shown when the manual trigger has no note to act on.
const NoActiveFileMessage = "No active file"

// Mover runs one resolution.
type Mover interface {
	ResolveAndMove(ctx context.Context, notePath string) resolver.Result
}

// Recorder stores completed moves.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (history.Entry, error)
}

// Dispatcher routes creation events and manual requests to a Mover.
type Dispatcher struct {
	mover    Mover
	notifier resolver.Notifier
	journal  Recorder
	log      *slog.Logger
}

// Config holds the collaborators of a Dispatcher.
type Config struct {
	Mover    Mover
	Notifier resolver.Notifier
	Journal  Recorder     // Optional
	Logger   *slog.Logger // Optional; defaults to slog.Default()
}

// New creates a Dispatcher.
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Mover == nil {
		return nil, fmt.Errorf("mover is required")
	}
	if cfg.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		mover:    cfg.Mover,
		notifier: cfg.Notifier,
		journal:  cfg.Journal,
		log:      log.With("component", "trigger"),
	}, nil
}

// OnCreate handles a creation event for path. settings is read by the caller
// right before the call; when auto-move is off, or path is not a note, the
// resolver is not invoked and ran is false.
func (d *Dispatcher) OnCreate(ctx context.Context, path string, settings *config.Settings) (res resolver.Result, ran bool) {
	if !settings.IsAutoMoveEnabled() {
		d.log.Debug("auto-move disabled, ignoring new note", "path", path)
		return resolver.Result{}, false
	}
	if !paths.IsNote(path) {
		return resolver.Result{}, false
	}

	res = d.mover.ResolveAndMove(ctx, path)
	d.record(ctx, res, history.TriggerAuto)
	return res, true
}

// MoveActive runs the resolver on the active note regardless of settings.
// With no active note it shows an informational notice and does nothing else.
func (d *Dispatcher) MoveActive(ctx context.Context, active string) (res resolver.Result, ran bool) {
	active = paths.Normalize(active)
	if active == "" {
		d.notifier.Notify(resolver.NoticeInfo, NoActiveFileMessage)
		return resolver.Result{}, false
	}

	res = d.mover.ResolveAndMove(ctx, active)
	d.record(ctx, res, history.TriggerManual)
	return res, true
}

// record journals successful moves. Journal failures are logged only.
func (d *Dispatcher) record(ctx context.Context, res resolver.Result, trigger history.Trigger) {
	if d.journal == nil || !res.Moved() {
		return
	}
	_, err := d.journal.Record(ctx, history.Entry{
		Trigger: trigger,
		From:    res.Note,
		To:      res.Destination,
		Source:  res.Source,
		Link:    res.Link,
	})
	if err != nil {
		d.log.Warn("failed to record move", "from", res.Note, "to", res.Destination, "error", err)
	}
}
