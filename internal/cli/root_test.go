package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFlagNamesAcceptSnakeCase(t *testing.T) {
	for _, name := range []string{"vault_path", "log_level", "vault-path"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Fatalf("flag %q not found", name)
		}
	}
}

func TestLoadGlobalConfigMissingExplicitFile(t *testing.T) {
	prev := configPath
	t.Cleanup(func() { configPath = prev })
	configPath = filepath.Join(t.TempDir(), "absent.toml")

	loaded, path, err := loadGlobalConfigWithPath()
	if err != nil {
		t.Fatalf("loadGlobalConfigWithPath: %v", err)
	}
	if path != configPath {
		t.Fatalf("path=%q, want %q", path, configPath)
	}
	if len(loaded.Vaults) != 0 || loaded.DefaultVault != "" {
		t.Fatalf("expected empty config, got %+v", loaded)
	}
}

func TestLoadGlobalConfigInvalidFile(t *testing.T) {
	prev := configPath
	t.Cleanup(func() { configPath = prev })
	configPath = filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("default_vault = [oops"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, _, err := loadGlobalConfigWithPath(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNotePathArg(t *testing.T) {
	vaultPath := t.TempDir()
	tests := []struct {
		arg     string
		want    string
		wantErr bool
	}{
		{"B.md", "B.md", false},
		{"./inbox//B.md", "inbox/B.md", false},
		{filepath.Join(vaultPath, "inbox", "B.md"), "inbox/B.md", false},
		{filepath.Join(filepath.Dir(vaultPath), "other", "B.md"), "", true},
	}
	for _, tt := range tests {
		got, err := notePathArg(vaultPath, tt.arg)
		if (err != nil) != tt.wantErr {
			t.Fatalf("notePathArg(%q) err=%v, wantErr=%v", tt.arg, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("notePathArg(%q)=%q, want %q", tt.arg, got, tt.want)
		}
	}
}
