// ABOUTME: XDG-based data directory resolution for the basin CLI.
// ABOUTME: Checks XDG_DATA_HOME and falls back to ~/.local/share/basin.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultDataDir returns the default directory for the network database.
// It checks XDG_DATA_HOME first, then falls back to ~/.local/share/basin.
func defaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "basin"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, ".local", "share", "basin"), nil
}
