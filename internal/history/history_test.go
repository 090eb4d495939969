package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aidanlsb/autofolder/internal/config"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := OpenPath(filepath.Join(t.TempDir(), DBFile))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpenCreatesDataDir(t *testing.T) {
	vault := t.TempDir()
	j, err := Open(vault)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer j.Close()

	if _, err := os.Stat(filepath.Join(vault, config.DataDir, DBFile)); err != nil {
		t.Fatalf("expected journal file: %v", err)
	}
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	base := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	first, err := j.Record(ctx, Entry{
		At:      base,
		Trigger: TriggerAuto,
		From:    "B.md",
		To:      "A/B.md",
		Source:  "A.md",
		Link:    "[[B]]",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected an ID to be assigned")
	}
	if _, err := j.Record(ctx, Entry{
		At:      base.Add(time.Minute),
		Trigger: TriggerManual,
		From:    "inbox/C.md",
		To:      "projects/site/C.md",
		Source:  "projects/site.md",
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := j.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].From != "inbox/C.md" || entries[0].Trigger != TriggerManual {
		t.Fatalf("expected newest entry first, got %+v", entries[0])
	}
	if !entries[1].At.Equal(base) || entries[1].Link != "[[B]]" || entries[1].Source != "A.md" {
		t.Fatalf("unexpected oldest entry %+v", entries[1])
	}

	limited, err := j.List(ctx, 1)
	if err != nil {
		t.Fatalf("List(1): %v", err)
	}
	if len(limited) != 1 || limited[0].To != "projects/site/C.md" {
		t.Fatalf("unexpected limited list %+v", limited)
	}
}

func TestRecordDefaultsTime(t *testing.T) {
	j := openTestJournal(t)
	before := time.Now().Add(-time.Second)

	e, err := j.Record(context.Background(), Entry{Trigger: TriggerAuto, From: "B.md", To: "A/B.md", Source: "A.md"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if e.At.Before(before) {
		t.Fatalf("expected At to default to now, got %v", e.At)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DBFile)

	j, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	if _, err := j.Record(ctx, Entry{Trigger: TriggerAuto, From: "B.md", To: "A/B.md", Source: "A.md"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	j.Close()

	j, err = OpenPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j.Close()

	entries, err := j.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after reopen, got %d", len(entries))
	}
}

func TestListForNotes(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t)

	moves := []Entry{
		{Trigger: TriggerAuto, From: "B.md", To: "A/B.md", Source: "A.md"},
		{Trigger: TriggerManual, From: "C.md", To: "x/Y/C.md", Source: "x/Y.md"},
		{Trigger: TriggerAuto, From: "A/B.md", To: "Z/B.md", Source: "Z.md"},
	}
	for i, e := range moves {
		e.At = time.Date(2026, 3, 1, 0, 0, i, 0, time.UTC)
		if _, err := j.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := j.ListForNotes(ctx, []string{"/A//B.md"}, 0)
	if err != nil {
		t.Fatalf("ListForNotes: %v", err)
	}
	if len(got) != 2 || got[0].To != "Z/B.md" || got[1].To != "A/B.md" {
		t.Fatalf("unexpected entries %+v", got)
	}

	got, err = j.ListForNotes(ctx, nil, 0)
	if err != nil {
		t.Fatalf("ListForNotes(nil): %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no entries for empty filter, got %d", len(got))
	}
}
