package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/extsync-labs/extsync/internal/extension"
	"github.com/extsync-labs/extsync/internal/manifest"
)

// Registry is the local extension store. Each installed extension lives in
// a directory named by its folded identifier under the registry root, with
// an extension.yaml manifest at the top level.
type Registry struct {
	root string
}

// New creates a Registry over the given installed root. The directory does
// not have to exist yet; an absent root means nothing is installed.
func New(root string) *Registry {
	return &Registry{root: root}
}

// Root returns the installed root directory.
func (r *Registry) Root() string {
	return r.root
}

// QueryLocal scans the installed root and returns all installed extensions,
// sorted by identifier. Directories without a parseable manifest are
// skipped rather than failing the whole scan.
func (r *Registry) QueryLocal(ctx context.Context) ([]extension.Local, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading installed root: %w", err)
	}

	var locals []extension.Local
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dir := filepath.Join(r.root, entry.Name())
		m, err := manifest.ParseFile(filepath.Join(dir, manifest.FileName))
		if err != nil {
			continue
		}

		locals = append(locals, extension.Local{
			Identifier: m.Identifier(),
			Version:    m.Version,
			Path:       dir,
		})
	}

	sort.Slice(locals, func(i, j int) bool {
		return locals[i].Identifier < locals[j].Identifier
	})
	return locals, nil
}

// Installed reports whether an extension with the given identifier is
// present locally, using identity-normalized comparison.
func (r *Registry) Installed(ctx context.Context, id string) (bool, error) {
	locals, err := r.QueryLocal(ctx)
	if err != nil {
		return false, err
	}
	for _, local := range locals {
		if extension.SameIdentity(local.Identifier, id) {
			return true, nil
		}
	}
	return false, nil
}

// Manifest loads the manifest of an installed extension.
func (r *Registry) Manifest(id string) (*manifest.Manifest, error) {
	dir := filepath.Join(r.root, extension.Fold(id))
	return manifest.ParseFile(filepath.Join(dir, manifest.FileName))
}

// Remove deletes an installed extension directory.
func (r *Registry) Remove(id string) error {
	dir := filepath.Join(r.root, extension.Fold(id))
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("extension %q is not installed", id)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing %s: %w", dir, err)
	}
	return nil
}
