package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/s0up4200/engagevoice/engagevoice"
)

// tokenFile persists the client's token bundle as JSON
type tokenFile struct {
	path string
}

func newTokenFile(path string) *tokenFile {
	return &tokenFile{path: path}
}

// Load returns the saved bundle, or nil when there is none
func (f *tokenFile) Load() (engagevoice.Bundle, error) {
	if f.path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var bundle engagevoice.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return bundle, nil
}

// Save writes bundle to disk; a nil bundle removes the file
func (f *tokenFile) Save(bundle engagevoice.Bundle) error {
	if f.path == "" {
		return nil
	}
	if bundle == nil {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove token file: %w", err)
		}
		return nil
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token bundle: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	// Write then rename so a crash never leaves a truncated file
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}
