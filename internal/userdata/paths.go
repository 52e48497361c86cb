// Package userdata resolves the on-disk layout shared with the workbench:
// the installed-extension root and the runtime directory the extension host
// writes its state into.
package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/extsync-labs/extsync/internal/branding"
)

// Directory name constants under ~/.extsync/.
const (
	InstalledDir = "installed"
	RuntimeDir   = "runtime"

	// RunningStateFile is the extension host's snapshot of running
	// extensions, inside the runtime directory.
	RunningStateFile = "extensions.json"

	// ReloadRequestFile signals the workbench to reload its window.
	ReloadRequestFile = "reload-requested"
)

// Permission constants.
const (
	DirPerm  os.FileMode = 0755
	FilePerm os.FileMode = 0644
)

// GetHomeRoot returns the extsync home directory. It checks the
// EXTSYNC_HOME environment variable first, then falls back to ~/.extsync.
func GetHomeRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir()), nil
}

// GetInstalledRoot returns the local extension registry directory.
// It checks the EXTSYNC_INSTALLED environment variable first, then falls
// back to ~/.extsync/installed.
func GetInstalledRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("INSTALLED")); v != "" {
		return v, nil
	}
	root, err := GetHomeRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, InstalledDir), nil
}

// GetRuntimeRoot returns the workbench runtime directory.
// It checks the EXTSYNC_RUNTIME environment variable first, then falls
// back to ~/.extsync/runtime.
func GetRuntimeRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("RUNTIME")); v != "" {
		return v, nil
	}
	root, err := GetHomeRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, RuntimeDir), nil
}

// EnsureDir creates a directory (and parents) if it does not exist.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, DirPerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}
