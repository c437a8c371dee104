package collector

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cnu-smr/reddit-collector/pkg/errors"
)

func writeKeysFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keys.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadKeys(t *testing.T) {
	path := writeKeysFile(t, `{"CLIENT_ID": "my-id", "SECRET_ID": "my-secret"}`)

	keys, err := LoadKeys(path)
	if err != nil {
		t.Fatalf("LoadKeys failed: %v", err)
	}
	if keys.ClientID != "my-id" {
		t.Errorf("ClientID = %q, want my-id", keys.ClientID)
	}
	if keys.ClientSecret != "my-secret" {
		t.Errorf("ClientSecret = %q, want my-secret", keys.ClientSecret)
	}
}

func TestLoadKeysMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.json")

	_, err := LoadKeys(path)
	var cfgErr *errors.ConfigError
	if !stderrors.As(err, &cfgErr) {
		t.Fatalf("expected *errors.ConfigError, got %v", err)
	}
	if cfgErr.Path != path {
		t.Errorf("Path = %q, want %q", cfgErr.Path, path)
	}
	if cfgErr.WorkingDir == "" {
		t.Error("WorkingDir should be populated for diagnostics")
	}
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist: %v", err)
	}
}

func TestLoadKeysInvalidJSON(t *testing.T) {
	path := writeKeysFile(t, `{not json`)

	_, err := LoadKeys(path)
	var cfgErr *errors.ConfigError
	if !stderrors.As(err, &cfgErr) {
		t.Fatalf("expected *errors.ConfigError, got %v", err)
	}
	if !strings.Contains(cfgErr.Message, "not valid JSON") {
		t.Errorf("unexpected message: %q", cfgErr.Message)
	}
}

func TestLoadKeysEmptyFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing secret", `{"CLIENT_ID": "my-id"}`},
		{"missing id", `{"SECRET_ID": "my-secret"}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeKeysFile(t, tt.content)
			_, err := LoadKeys(path)
			var cfgErr *errors.ConfigError
			if !stderrors.As(err, &cfgErr) {
				t.Fatalf("expected *errors.ConfigError, got %v", err)
			}
		})
	}
}
