package registry

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extsync-labs/extsync/internal/extension"
	"github.com/extsync-labs/extsync/internal/manifest"
)

// InstallArchive unpacks an extension package (a zip with extension.yaml at
// its root) into the installed root and returns the installed manifest.
// An existing install of the same extension is replaced.
func (r *Registry) InstallArchive(ctx context.Context, archivePath string) (*manifest.Manifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening package %s: %w", archivePath, err)
	}
	defer zr.Close()

	m, err := archiveManifest(&zr.Reader)
	if err != nil {
		return nil, err
	}

	destDir := filepath.Join(r.root, extension.Fold(m.Identifier()))

	// Replace any previous version wholesale.
	if err := os.RemoveAll(destDir); err != nil {
		return nil, fmt.Errorf("clearing %s: %w", destDir, err)
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", destDir, err)
	}

	for _, f := range zr.File {
		if err := extractFile(f, destDir); err != nil {
			os.RemoveAll(destDir)
			return nil, err
		}
	}

	return m, nil
}

// archiveManifest reads, parses, and schema-validates the extension.yaml
// at the archive root.
func archiveManifest(zr *zip.Reader) (*manifest.Manifest, error) {
	for _, f := range zr.File {
		if f.Name != manifest.FileName {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s in package: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s in package: %w", f.Name, err)
		}

		result, err := manifest.Validate(data)
		if err != nil {
			return nil, fmt.Errorf("validating package manifest: %w", err)
		}
		if !result.Valid {
			return nil, fmt.Errorf("package manifest is invalid: %s", firstIssue(result))
		}

		return manifest.Parse(data)
	}
	return nil, fmt.Errorf("package has no %s at its root", manifest.FileName)
}

func firstIssue(result *manifest.ValidationResult) string {
	if len(result.Issues) == 0 {
		return "unknown issue"
	}
	issue := result.Issues[0]
	if issue.Path != "" {
		return issue.Path + ": " + issue.Message
	}
	return issue.Message
}

// extractFile writes a single archive entry under destDir, refusing paths
// that would escape it.
func extractFile(f *zip.File, destDir string) error {
	cleaned := filepath.Clean(f.Name)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return fmt.Errorf("package entry %q escapes extension directory", f.Name)
	}
	target := filepath.Join(destDir, cleaned)

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening package entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}
