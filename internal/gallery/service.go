package gallery

import (
	"context"
	"fmt"
	"os"

	"github.com/extsync-labs/extsync/internal/registry"
)

// Service couples the gallery client with the local registry so a queried
// descriptor can be installed in one call.
type Service struct {
	client   *Client
	registry *registry.Registry
}

// NewService creates a Service over a client and the local registry.
func NewService(client *Client, reg *registry.Registry) *Service {
	return &Service{client: client, registry: reg}
}

// Query runs an extension query and returns the first result page.
func (s *Service) Query(ctx context.Context, opts QueryOptions) (*QueryResult, error) {
	return s.client.Query(ctx, opts)
}

// Install downloads a descriptor's package and unpacks it into the local
// registry.
func (s *Service) Install(ctx context.Context, desc Descriptor) error {
	tmpDir, err := os.MkdirTemp("", "extsync-pkg-*")
	if err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	archivePath, err := s.client.Download(ctx, desc, tmpDir)
	if err != nil {
		return err
	}

	if _, err := s.registry.InstallArchive(ctx, archivePath); err != nil {
		return fmt.Errorf("installing %s: %w", desc.Identifier, err)
	}
	return nil
}
