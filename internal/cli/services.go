package cli

import (
	"fmt"
	"io"

	"github.com/extsync-labs/extsync/internal/branding"
	"github.com/extsync-labs/extsync/internal/config"
	"github.com/extsync-labs/extsync/internal/gallery"
	"github.com/extsync-labs/extsync/internal/host"
	"github.com/extsync-labs/extsync/internal/notify"
	"github.com/extsync-labs/extsync/internal/reconcile"
	"github.com/extsync-labs/extsync/internal/registry"
	"github.com/extsync-labs/extsync/internal/userdata"
	"github.com/extsync-labs/extsync/internal/window"
)

// services bundles the host-service implementations the commands wire into
// the reconciliation contribution.
type services struct {
	cfg      *config.Service
	host     *host.FileHost
	registry *registry.Registry
	gallery  *gallery.Service
	window   *window.MarkerController
}

// buildServices resolves paths and constructs the default service set.
func buildServices() (*services, error) {
	installedRoot, err := userdata.GetInstalledRoot()
	if err != nil {
		return nil, fmt.Errorf("resolving installed root: %w", err)
	}
	runtimeRoot, err := userdata.GetRuntimeRoot()
	if err != nil {
		return nil, fmt.Errorf("resolving runtime root: %w", err)
	}

	cfg := config.New()

	galleryURL := cfg.GetString(config.KeyGalleryURL)
	if galleryURL == "" {
		galleryURL = branding.GalleryURL()
	}

	reg := registry.New(installedRoot)

	return &services{
		cfg:      cfg,
		host:     host.NewFileHost(runtimeRoot),
		registry: reg,
		gallery:  gallery.NewService(gallery.NewClient(galleryURL), reg),
		window:   window.NewMarkerController(runtimeRoot),
	}, nil
}

// checker builds a side-effect-free contribution for one-shot commands.
func (s *services) checker(out io.Writer, interactive bool) *reconcile.Contribution {
	notifier := notify.NewConsole(out, notify.Interactive(interactive))
	return reconcile.NewChecker(s.host, s.registry, s.gallery, s.cfg, notifier, s.window)
}
