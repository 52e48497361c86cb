// Package extension defines the identifier and descriptor types shared by
// the host, registry, gallery, and reconciliation packages.
package extension

import (
	"fmt"
	"strings"
)

// Description describes a running extension as reported by the workbench
// extension host.
type Description struct {
	Identifier   string   `json:"identifier"`
	Version      string   `json:"version,omitempty"`
	Dependencies []string `json:"extensionDependencies,omitempty"`
}

// Local represents an extension installed in the local registry.
type Local struct {
	Identifier string
	Version    string
	Path       string
}

// Fold returns the canonical case-folded form of an extension identifier.
// Folding is locale-invariant simple case mapping (strings.ToLower), so
// "Publisher.Name" and "publisher.name" fold to the same key regardless of
// the process locale.
func Fold(id string) string {
	return strings.ToLower(id)
}

// SameIdentity reports whether two identifiers name the same extension.
// Identity comparison is folded equality on the full publisher.name form.
func SameIdentity(a, b string) bool {
	return Fold(a) == Fold(b)
}

// Split breaks a publisher.name identifier into its two parts.
func Split(id string) (publisher, name string, err error) {
	i := strings.Index(id, ".")
	if i <= 0 || i == len(id)-1 {
		return "", "", fmt.Errorf("malformed extension identifier %q (want publisher.name)", id)
	}
	return id[:i], id[i+1:], nil
}
