package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/aidanlsb/autofolder/internal/resolver"
)

// Notifier prints resolver notices as one line each, the terminal stand-in
// for a transient toast.
type Notifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewNotifier returns a Notifier writing to w.
func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

// Notify implements resolver.Notifier.
func (n *Notifier) Notify(kind resolver.NoticeKind, msg string) {
	line := Info(msg)
	if kind == resolver.NoticeSuccess {
		line = Success(msg)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, line)
}
