package cli

import (
	"encoding/json"
	"testing"

	"github.com/aidanlsb/autofolder/internal/config"
)

func TestSettingsSetAutoMove(t *testing.T) {
	vaultPath := t.TempDir()
	useVault(t, vaultPath, true)

	captureStdout(t, func() {
		if err := runSettingsSet(settingsSetCmd, []string{"auto-move", "off"}); err != nil {
			t.Fatalf("runSettingsSet: %v", err)
		}
	})

	settings, err := config.LoadSettings(vaultPath)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if settings.IsAutoMoveEnabled() {
		t.Fatal("expected auto_move=false after set")
	}

	out := captureStdout(t, func() {
		if err := runSettingsShow(settingsCmd, nil); err != nil {
			t.Fatalf("runSettingsShow: %v", err)
		}
	})
	resp := decodeEnvelope(t, out)
	var data struct {
		AutoMove bool `json:"auto_move"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.AutoMove {
		t.Fatalf("expected auto_move=false; out=%s", out)
	}
}

func TestSettingsSetRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"theme", "dark"}},
		{"bad value", []string{"auto-move", "sometimes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vaultPath := t.TempDir()
			useVault(t, vaultPath, true)

			out := captureStdout(t, func() {
				_ = runSettingsSet(settingsSetCmd, tt.args)
			})
			resp := decodeEnvelope(t, out)
			if resp.OK || resp.Error == nil || resp.Error.Code != ErrInvalidInput {
				t.Fatalf("expected %s; out=%s", ErrInvalidInput, out)
			}
		})
	}
}

func TestParseToggle(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{"OFF", false, false},
		{" true ", true, false},
		{"no", false, false},
		{"maybe", false, true},
	}
	for _, tt := range tests {
		got, err := parseToggle(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseToggle(%q) err=%v, wantErr=%v", tt.in, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Fatalf("parseToggle(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}
}
