package cli

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/autofolder/internal/config"
	"github.com/aidanlsb/autofolder/internal/history"
	"github.com/aidanlsb/autofolder/internal/testutil"
)

type moveData struct {
	Outcome       string `json:"outcome"`
	Note          string `json:"note"`
	Source        string `json:"source"`
	Link          string `json:"link"`
	Folder        string `json:"folder"`
	FolderCreated bool   `json:"folder_created"`
	Destination   string `json:"destination"`
}

func TestMoveNoteIntoLinkingNotesFolder(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("notes/A.md", "See [[B|the plan]] for details.\n").
		WithFile("B.md", "# B\n").
		Build()
	useVault(t, v.Path, true)

	out := captureStdout(t, func() {
		if err := runMove(moveCmd, []string{"B.md"}); err != nil {
			t.Fatalf("runMove: %v", err)
		}
	})

	resp := decodeEnvelope(t, out)
	if !resp.OK {
		t.Fatalf("expected ok=true; out=%s", out)
	}
	var data moveData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Outcome != "moved" || data.Destination != "notes/A/B.md" || !data.FolderCreated {
		t.Fatalf("unexpected result %+v", data)
	}
	if data.Source != "notes/A.md" || data.Link != "[[B|the plan]]" {
		t.Fatalf("unexpected source/link %+v", data)
	}

	v.AssertFileNotExists("B.md")
	v.AssertFileContains("notes/A/B.md", "# B")
}

func TestMoveWithoutActiveNoteShowsNotice(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("A.md", "[[B]]").
		WithFile("B.md", "").
		Build()
	useVault(t, v.Path, false)

	out := captureStdout(t, func() {
		if err := runMove(moveCmd, nil); err != nil {
			t.Fatalf("runMove: %v", err)
		}
	})

	if !strings.Contains(out, "No active file") {
		t.Fatalf("expected notice, got %q", out)
	}
	v.AssertFileExists("B.md")
	v.AssertFileNotExists("A")
}

func TestMoveWithoutActiveNoteJSONWarns(t *testing.T) {
	v := testutil.NewTestVault(t).WithFile("A.md", "[[B]]").Build()
	useVault(t, v.Path, true)

	out := captureStdout(t, func() {
		if err := runMove(moveCmd, nil); err != nil {
			t.Fatalf("runMove: %v", err)
		}
	})

	resp := decodeEnvelope(t, out)
	if !resp.OK || len(resp.Warnings) != 1 || resp.Warnings[0].Code != WarnNoActiveNote {
		t.Fatalf("expected ok with %s warning; out=%s", WarnNoActiveNote, out)
	}
}

func TestMoveUsesFocusedNote(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("projects/Alpha.md", "- [[inbox/Task One]]").
		WithFile("inbox/Task One.md", "todo").
		Build()
	statePath := useVault(t, v.Path, true)

	if err := config.SaveState(statePath, &config.State{ActiveNote: "inbox/Task One.md"}); err != nil {
		t.Fatalf("save state: %v", err)
	}

	captureStdout(t, func() {
		if err := runMove(moveCmd, nil); err != nil {
			t.Fatalf("runMove: %v", err)
		}
	})

	v.AssertFileExists("projects/Alpha/Task One.md")
	v.AssertFileNotExists("inbox/Task One.md")

	state, err := config.LoadState(statePath)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if state.ActiveNote != "projects/Alpha/Task One.md" {
		t.Fatalf("active_note=%q, want it to follow the move", state.ActiveNote)
	}

	// Moving the focused note again finds it already in place.
	out := captureStdout(t, func() {
		if err := runMove(moveCmd, nil); err != nil {
			t.Fatalf("second runMove: %v", err)
		}
	})
	resp := decodeEnvelope(t, out)
	var data moveData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if !resp.OK || data.Outcome != "in_place" {
		t.Fatalf("expected in_place; out=%s", out)
	}
}

func TestMoveReportsNoSourceWithoutChanges(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("A.md", "[[Bee]]").
		WithFile("B.md", "").
		Build()
	useVault(t, v.Path, false)

	out := captureStdout(t, func() {
		if err := runMove(moveCmd, []string{"B.md"}); err != nil {
			t.Fatalf("runMove: %v", err)
		}
	})

	if !strings.Contains(out, "No note links to") {
		t.Fatalf("unexpected output %q", out)
	}
	v.AssertFileExists("B.md")
}

func TestMoveMissingNoteReportsNotFound(t *testing.T) {
	v := testutil.NewTestVault(t).WithFile("A.md", "[[B]]").Build()
	useVault(t, v.Path, true)

	var runErr error
	out := captureStdout(t, func() {
		runErr = runMove(moveCmd, []string{"B.md"})
	})

	if !errors.Is(runErr, errSilent) {
		t.Fatalf("expected silent error after JSON output, got %v", runErr)
	}
	resp := decodeEnvelope(t, out)
	if resp.OK || resp.Error == nil || resp.Error.Code != ErrNoteNotFound {
		t.Fatalf("expected %s; out=%s", ErrNoteNotFound, out)
	}
	v.AssertFileNotExists("A")
}

func TestMoveRejectsPathOutsideVault(t *testing.T) {
	v := testutil.NewTestVault(t).Build()
	useVault(t, v.Path, true)

	outside := filepath.Join(filepath.Dir(v.Path), "elsewhere", "B.md")
	out := captureStdout(t, func() {
		_ = runMove(moveCmd, []string{outside})
	})

	resp := decodeEnvelope(t, out)
	if resp.OK || resp.Error == nil || resp.Error.Code != ErrFileOutsideVault {
		t.Fatalf("expected %s; out=%s", ErrFileOutsideVault, out)
	}
}

func TestManualMoveIsJournaled(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("A.md", "[[B]]").
		WithFile("B.md", "").
		Build()
	useVault(t, v.Path, true)

	captureStdout(t, func() {
		if err := runMove(moveCmd, []string{"B.md"}); err != nil {
			t.Fatalf("runMove: %v", err)
		}
	})

	prevLimit, prevNotes := historyLimit, historyNotes
	t.Cleanup(func() { historyLimit, historyNotes = prevLimit, prevNotes })
	historyLimit = 10
	historyNotes = []string{"A/B.md"}

	out := captureStdout(t, func() {
		if err := runHistory(historyCmd, nil); err != nil {
			t.Fatalf("runHistory: %v", err)
		}
	})

	resp := decodeEnvelope(t, out)
	var data struct {
		Moves []history.Entry `json:"moves"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data: %v; out=%s", err, out)
	}
	if len(data.Moves) != 1 {
		t.Fatalf("expected 1 move, got %d; out=%s", len(data.Moves), out)
	}
	m := data.Moves[0]
	if m.Trigger != history.TriggerManual || m.From != "B.md" || m.To != "A/B.md" || m.Source != "A.md" {
		t.Fatalf("unexpected entry %+v", m)
	}
}
