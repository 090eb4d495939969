package cli

import (
	"context"
	"testing"

	"github.com/aidanlsb/autofolder/internal/config"
	"github.com/aidanlsb/autofolder/internal/testutil"
)

func TestHandleCreatedHonorsCurrentSettings(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("A.md", "link to [[B]]").
		WithFile("B.md", "").
		Build()
	useVault(t, v.Path, false)

	rt, err := openRuntime(v.Path)
	if err != nil {
		t.Fatalf("openRuntime: %v", err)
	}
	defer rt.Close()

	off := config.DefaultSettings()
	off.SetAutoMove(false)
	if err := config.SaveSettings(v.Path, off); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	captureStdout(t, func() {
		handleCreated(context.Background(), rt, "B.md")
	})
	v.AssertFileExists("B.md")
	v.AssertFileNotExists("A")

	// Flipping the setting takes effect on the next event without a restart.
	if err := config.SaveSettings(v.Path, config.DefaultSettings()); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	out := captureStdout(t, func() {
		handleCreated(context.Background(), rt, "B.md")
	})
	v.AssertFileExists("A/B.md")
	v.AssertFileNotExists("B.md")
	if out == "" {
		t.Fatal("expected a notice for the move")
	}

	// The watcher sees the moved file as a new one; it must stay put.
	captureStdout(t, func() {
		handleCreated(context.Background(), rt, "A/B.md")
	})
	v.AssertFileExists("A/B.md")
}

func TestHandleCreatedSkipsWhenSettingsUnreadable(t *testing.T) {
	v := testutil.NewTestVault(t).
		WithFile("A.md", "[[B]]").
		WithFile("B.md", "").
		WithSettings("auto_move: [broken").
		Build()
	useVault(t, v.Path, false)

	rt, err := openRuntime(v.Path)
	if err != nil {
		t.Fatalf("openRuntime: %v", err)
	}
	defer rt.Close()

	captureStdout(t, func() {
		handleCreated(context.Background(), rt, "B.md")
	})
	v.AssertFileExists("B.md")
}
