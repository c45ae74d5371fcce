package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TokenFile persists a single credential token on disk with owner-only permissions.
type TokenFile struct {
	path string
}

// NewTokenFile returns a TokenFile at path, expanding a leading "~".
func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: ExpandPath(path)}
}

// Path returns the resolved location of the token file.
func (f *TokenFile) Path() string { return f.path }

// Load returns the persisted token, or "" when none is stored.
func (f *TokenFile) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes token, creating the parent directory when needed.
func (f *TokenFile) Save(token string) error {
	if token == "" {
		return f.Clear()
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Clear removes the token file. A missing file is not an error.
func (f *TokenFile) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
