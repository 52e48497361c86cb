// Package host reads the state of the running workbench: which extensions
// the extension host currently has activated.
package host

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/extsync-labs/extsync/internal/extension"
	"github.com/extsync-labs/extsync/internal/userdata"
)

// Host enumerates the extensions currently running in the workbench.
type Host interface {
	Running(ctx context.Context) ([]extension.Description, error)
}

// Snapshot is the extension host's runtime state file format.
type Snapshot struct {
	WorkbenchVersion string                  `json:"workbenchVersion"`
	Extensions       []extension.Description `json:"extensions"`
}

// FileHost reads the runtime snapshot the workbench writes on every
// extension activation change.
type FileHost struct {
	path string
}

// NewFileHost creates a FileHost reading from the given runtime directory.
func NewFileHost(runtimeRoot string) *FileHost {
	return &FileHost{path: filepath.Join(runtimeRoot, userdata.RunningStateFile)}
}

// Load reads and parses the full runtime snapshot. A missing state file
// means the workbench has no running extensions, not an error.
func (h *FileHost) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(h.path)
	if os.IsNotExist(err) {
		return &Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading runtime state: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing runtime state %s: %w", h.path, err)
	}
	return &snap, nil
}

// Running returns the currently running extensions.
func (h *FileHost) Running(ctx context.Context) ([]extension.Description, error) {
	snap, err := h.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Extensions, nil
}

// WorkbenchVersion returns the running workbench version, or "" when the
// runtime state is absent.
func (h *FileHost) WorkbenchVersion(ctx context.Context) (string, error) {
	snap, err := h.Load(ctx)
	if err != nil {
		return "", err
	}
	return snap.WorkbenchVersion, nil
}
