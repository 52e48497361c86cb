package registry

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/extsync-labs/extsync/internal/manifest"
)

// Compatible reports whether the manifest's workbench engine range admits
// the given workbench version. An empty range means no constraint.
// A leading "v" on the version is tolerated.
func Compatible(m *manifest.Manifest, workbenchVersion string) (bool, error) {
	if m.Engines.Workbench == "" {
		return true, nil
	}

	c, err := semver.NewConstraint(m.Engines.Workbench)
	if err != nil {
		return false, fmt.Errorf("parsing engine range %q: %w", m.Engines.Workbench, err)
	}

	v, err := semver.NewVersion(strings.TrimPrefix(workbenchVersion, "v"))
	if err != nil {
		return false, fmt.Errorf("parsing workbench version %q: %w", workbenchVersion, err)
	}

	return c.Check(v), nil
}
