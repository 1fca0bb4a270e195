// ABOUTME: Tests for XDG-based data directory resolution used by the basin CLI.
// ABOUTME: Covers XDG_DATA_HOME override, default fallback to ~/.local/share/basin, and overrides.
package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultDataDirUsesXDGDataHome(t *testing.T) {
	customDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", customDir)

	got, err := defaultDataDir()
	if err != nil {
		t.Fatalf("defaultDataDir failed: %v", err)
	}

	want := filepath.Join(customDir, "basin")
	if got != want {
		t.Errorf("defaultDataDir() = %q, want %q", got, want)
	}
}

func TestDefaultDataDirFallsBackToHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")

	got, err := defaultDataDir()
	if err != nil {
		t.Fatalf("defaultDataDir failed: %v", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir failed: %v", err)
	}

	want := filepath.Join(home, ".local", "share", "basin")
	if got != want {
		t.Errorf("defaultDataDir() = %q, want %q", got, want)
	}
}

func TestDefaultDataDirReturnsAbsolutePath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")

	got, err := defaultDataDir()
	if err != nil {
		t.Fatalf("defaultDataDir failed: %v", err)
	}

	if !filepath.IsAbs(got) {
		t.Errorf("defaultDataDir() returned relative path: %q", got)
	}
}

func TestResolveDataDirPrefersOverride(t *testing.T) {
	got, err := resolveDataDir("/var/lib/basin")
	if err != nil {
		t.Fatalf("resolveDataDir failed: %v", err)
	}
	if got != "/var/lib/basin" {
		t.Errorf("resolveDataDir() = %q, want /var/lib/basin", got)
	}
}

func TestResolveDataDirDefaultsWhenEmpty(t *testing.T) {
	customDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", customDir)

	got, err := resolveDataDir("")
	if err != nil {
		t.Fatalf("resolveDataDir failed: %v", err)
	}

	want := filepath.Join(customDir, "basin")
	if got != want {
		t.Errorf("resolveDataDir() = %q, want %q", got, want)
	}
}
