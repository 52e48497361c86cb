package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/extsync-labs/extsync/internal/command"
	"github.com/extsync-labs/extsync/internal/config"
	"github.com/extsync-labs/extsync/internal/extension"
	"github.com/extsync-labs/extsync/internal/gallery"
	"github.com/extsync-labs/extsync/internal/host"
	"github.com/extsync-labs/extsync/internal/notify"
	"github.com/extsync-labs/extsync/internal/window"
)

const (
	// CommandID is the workbench command id for explicit installation.
	// The id string is frozen for compatibility with existing keybindings,
	// misspelling included.
	CommandID = "workbench.extensions.installMissingDepenencies"

	commandTitle    = "Install Missing Dependencies"
	commandCategory = "Extensions"
)

// Gallery is the marketplace surface the contribution consumes.
type Gallery interface {
	Query(ctx context.Context, opts gallery.QueryOptions) (*gallery.QueryResult, error)
	Install(ctx context.Context, desc gallery.Descriptor) error
}

// Installed is the local-registry surface the contribution consumes.
type Installed interface {
	QueryLocal(ctx context.Context) ([]extension.Local, error)
}

// Config is the configuration surface the contribution consumes.
type Config interface {
	GetBool(key string) bool
	OnKeyChange(key string, fn func()) (dispose func())
}

// Contribution reconciles the running extension graph: it detects
// dependency identifiers referenced by running extensions that are neither
// running nor installed, and installs them from the gallery.
type Contribution struct {
	host     host.Host
	local    Installed
	gallery  Gallery
	config   Config
	notifier notify.Service
	window   window.Controller

	disposeOnce sync.Once
	dispose     func()

	// initialCheck is closed once the construction-time check finishes.
	initialCheck chan struct{}
}

// NewChecker creates a Contribution without the construction side effects:
// no command registration, no initial check, no config subscription. Used
// for one-shot invocations where the caller drives the methods directly.
func NewChecker(
	h host.Host,
	local Installed,
	g Gallery,
	cfg Config,
	notifier notify.Service,
	win window.Controller,
) *Contribution {
	return &Contribution{
		host:     h,
		local:    local,
		gallery:  g,
		config:   cfg,
		notifier: notifier,
		window:   win,
	}
}

// New wires a Contribution: it registers the install command and its
// palette entry, kicks off one asynchronous initial check, and subscribes
// to changes of the auto-install setting so edits re-trigger the check.
// Close releases the subscription.
func New(
	commands *command.Registry,
	h host.Host,
	local Installed,
	g Gallery,
	cfg Config,
	notifier notify.Service,
	win window.Controller,
) (*Contribution, error) {
	c := &Contribution{
		host:     h,
		local:    local,
		gallery:  g,
		config:   cfg,
		notifier: notifier,
		window:   win,
	}

	err := commands.Register(command.Command{
		ID:      CommandID,
		Title:   commandTitle,
		Handler: c.InstallMissing,
	})
	if err != nil {
		return nil, fmt.Errorf("registering command: %w", err)
	}
	err = commands.AddMenuItem(command.MenuItem{
		CommandID: CommandID,
		Title:     commandTitle,
		Category:  commandCategory,
	})
	if err != nil {
		return nil, fmt.Errorf("registering menu item: %w", err)
	}

	// Initial check runs detached; its failures follow the host's default
	// rejection handling rather than the constructor's error path.
	c.initialCheck = make(chan struct{})
	go func() {
		defer close(c.initialCheck)
		_ = c.CheckAndInstall(context.Background())
	}()

	c.dispose = cfg.OnKeyChange(config.KeyAutoInstallMissingDeps, func() {
		_ = c.CheckAndInstall(context.Background())
	})

	return c, nil
}

// Close releases the configuration subscription.
func (c *Contribution) Close() {
	c.disposeOnce.Do(func() {
		if c.dispose != nil {
			c.dispose()
		}
	})
}

// AllMissingDependencies returns dependency identifiers declared by some
// running extension whose case-folded form matches no running extension.
// Duplicates collapse to the casing of their first occurrence.
func (c *Contribution) AllMissingDependencies(ctx context.Context) ([]string, error) {
	running, err := c.host.Running(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerating running extensions: %w", err)
	}

	runningSet := make(map[string]bool, len(running))
	for _, ext := range running {
		runningSet[extension.Fold(ext.Identifier)] = true
	}

	seen := make(map[string]bool)
	var missing []string
	for _, ext := range running {
		for _, dep := range ext.Dependencies {
			folded := extension.Fold(dep)
			if runningSet[folded] || seen[folded] {
				continue
			}
			seen[folded] = true
			missing = append(missing, dep)
		}
	}
	return missing, nil
}

// UninstalledMissingDependencies filters AllMissingDependencies down to
// identifiers not matching any locally installed extension under
// identity-normalized comparison.
func (c *Contribution) UninstalledMissingDependencies(ctx context.Context) ([]string, error) {
	missing, err := c.AllMissingDependencies(ctx)
	if err != nil {
		return nil, err
	}
	if len(missing) == 0 {
		return nil, nil
	}

	locals, err := c.local.QueryLocal(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying local extensions: %w", err)
	}

	var uninstalled []string
	for _, dep := range missing {
		installed := false
		for _, local := range locals {
			if extension.SameIdentity(local.Identifier, dep) {
				installed = true
				break
			}
		}
		if !installed {
			uninstalled = append(uninstalled, dep)
		}
	}
	return uninstalled, nil
}

// CheckAndInstall installs uninstalled missing dependencies when the
// auto-install setting is enabled; otherwise it does nothing and shows
// nothing.
func (c *Contribution) CheckAndInstall(ctx context.Context) error {
	uninstalled, err := c.UninstalledMissingDependencies(ctx)
	if err != nil {
		return err
	}
	if len(uninstalled) == 0 {
		return nil
	}
	if !c.config.GetBool(config.KeyAutoInstallMissingDeps) {
		return nil
	}
	return c.InstallMissing(ctx)
}

// InstallMissing recomputes the uninstalled missing dependency list and
// installs every extension the gallery returns for it, concurrently. With
// nothing missing it notifies and skips the gallery entirely. A gallery
// result of zero matches for a non-empty list is a silent no-op.
func (c *Contribution) InstallMissing(ctx context.Context) error {
	uninstalled, err := c.UninstalledMissingDependencies(ctx)
	if err != nil {
		return err
	}

	if len(uninstalled) == 0 {
		c.notifier.Info("There are no missing dependencies to install.")
		return nil
	}

	result, err := c.gallery.Query(ctx, gallery.QueryOptions{
		Names:    uninstalled,
		PageSize: len(uninstalled),
	})
	if err != nil {
		return fmt.Errorf("querying gallery: %w", err)
	}
	if len(result.FirstPage) == 0 {
		return nil
	}

	// Fan out one install per descriptor and join. Any failure fails the
	// combined operation; completed installs are not rolled back.
	errs := make([]error, len(result.FirstPage))
	var wg sync.WaitGroup
	for i, desc := range result.FirstPage {
		wg.Add(1)
		go func(i int, desc gallery.Descriptor) {
			defer wg.Done()
			errs[i] = c.gallery.Install(ctx, desc)
		}(i, desc)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("installing missing dependencies: %w", err)
	}

	return c.notifier.Notify(notify.Notification{
		Severity: notify.SeverityInfo,
		Message:  "Finished installing missing dependencies. Please reload the window now.",
		Actions: []notify.Action{{
			Label: "Reload Window",
			Run:   c.window.Reload,
		}},
	})
}
