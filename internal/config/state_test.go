package config

import (
	"path/filepath"
	"testing"
)

func TestResolveStatePath(t *testing.T) {
	configPath := "/tmp/autofolder/config.toml"

	t.Run("explicit state path wins", func(t *testing.T) {
		got := ResolveStatePath("/tmp/custom/state.toml", configPath, &Config{
			StateFile: "state-from-config.toml",
		})
		if got != "/tmp/custom/state.toml" {
			t.Fatalf("expected explicit state path, got %q", got)
		}
	})

	t.Run("config state_file absolute", func(t *testing.T) {
		got := ResolveStatePath("", configPath, &Config{
			StateFile: "/var/tmp/autofolder-state.toml",
		})
		if got != "/var/tmp/autofolder-state.toml" {
			t.Fatalf("expected absolute state path, got %q", got)
		}
	})

	t.Run("config state_file relative to config dir", func(t *testing.T) {
		got := ResolveStatePath("", "/Users/me/.config/autofolder/config.toml", &Config{
			StateFile: "runtime/state.toml",
		})
		want := "/Users/me/.config/autofolder/runtime/state.toml"
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("fallback sibling state.toml", func(t *testing.T) {
		got := ResolveStatePath("", "/Users/me/.config/autofolder/config.toml", &Config{})
		want := "/Users/me/.config/autofolder/state.toml"
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})
}

func TestLoadStateMissingReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")

	state, err := LoadState(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Version != StateVersion {
		t.Fatalf("expected version %d, got %d", StateVersion, state.Version)
	}
	if state.ActiveVault != "" || state.ActiveNote != "" {
		t.Fatalf("expected empty state, got %+v", state)
	}
}

func TestSaveStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")

	err := SaveState(path, &State{
		ActiveVault: " work ",
		ActiveNote:  "/inbox//B.md",
	})
	if err != nil {
		t.Fatalf("save state: %v", err)
	}

	loaded, err := LoadState(path)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if loaded.Version != StateVersion {
		t.Fatalf("expected version %d, got %d", StateVersion, loaded.Version)
	}
	if loaded.ActiveVault != "work" {
		t.Fatalf("expected active_vault=work, got %q", loaded.ActiveVault)
	}
	if loaded.ActiveNote != "inbox/B.md" {
		t.Fatalf("expected normalized active_note, got %q", loaded.ActiveNote)
	}
}

func TestStatePathRequired(t *testing.T) {
	if _, err := LoadState(""); err == nil {
		t.Fatal("expected LoadState error for empty path")
	}
	if err := SaveState("", &State{}); err == nil {
		t.Fatal("expected SaveState error for empty path")
	}
}
