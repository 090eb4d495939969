package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	os.Stdout = w

	outputCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		var buf bytes.Buffer
		_, copyErr := io.Copy(&buf, r)
		_ = r.Close()
		if copyErr != nil {
			errCh <- copyErr
			return
		}
		outputCh <- buf.String()
	}()

	defer func() {
		os.Stdout = orig
	}()
	fn()

	os.Stdout = orig
	_ = w.Close()
	select {
	case err := <-errCh:
		t.Fatalf("io.Copy: %v", err)
		return ""
	case output := <-outputCh:
		return output
	}
}

// useVault points the command globals at vaultPath with a private state file
// and restores them when the test ends.
func useVault(t *testing.T, vaultPath string, asJSON bool) (statePath string) {
	t.Helper()

	prevVault := resolvedVaultPath
	prevState := resolvedStatePath
	prevJSON := jsonOutput
	prevCfg := cfg
	t.Cleanup(func() {
		resolvedVaultPath = prevVault
		resolvedStatePath = prevState
		jsonOutput = prevJSON
		cfg = prevCfg
	})

	statePath = filepath.Join(t.TempDir(), "state.toml")
	resolvedVaultPath = vaultPath
	resolvedStatePath = statePath
	jsonOutput = asJSON
	cfg = nil
	return statePath
}

type envelope struct {
	OK       bool            `json:"ok"`
	Data     json.RawMessage `json:"data"`
	Error    *ErrorInfo      `json:"error"`
	Warnings []Warning       `json:"warnings"`
	Meta     *Meta           `json:"meta"`
}

func decodeEnvelope(t *testing.T, out string) envelope {
	t.Helper()
	var resp envelope
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("expected JSON output, got parse error: %v; out=%s", err, out)
	}
	return resp
}
