// Package window controls the workbench window.
package window

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/extsync-labs/extsync/internal/userdata"
)

// Controller requests workbench window operations.
type Controller interface {
	Reload() error
}

// MarkerController signals a reload by writing a request marker into the
// runtime directory; the workbench watches for it and reloads its window.
type MarkerController struct {
	runtimeRoot string
}

// NewMarkerController creates a MarkerController for a runtime directory.
func NewMarkerController(runtimeRoot string) *MarkerController {
	return &MarkerController{runtimeRoot: runtimeRoot}
}

// Reload writes the reload-request marker.
func (c *MarkerController) Reload() error {
	if err := userdata.EnsureDir(c.runtimeRoot); err != nil {
		return err
	}

	path := filepath.Join(c.runtimeRoot, userdata.ReloadRequestFile)
	stamp := time.Now().UTC().Format(time.RFC3339Nano) + "\n"
	if err := os.WriteFile(path, []byte(stamp), userdata.FilePerm); err != nil {
		return fmt.Errorf("writing reload request: %w", err)
	}
	return nil
}
