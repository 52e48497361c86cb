package reconcile

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/extsync-labs/extsync/internal/command"
	"github.com/extsync-labs/extsync/internal/extension"
	"github.com/extsync-labs/extsync/internal/gallery"
	"github.com/extsync-labs/extsync/internal/notify"
)

type fakeHost struct {
	exts []extension.Description
	err  error
}

func (f *fakeHost) Running(ctx context.Context) ([]extension.Description, error) {
	return f.exts, f.err
}

type fakeLocal struct {
	locals []extension.Local
	err    error
}

func (f *fakeLocal) QueryLocal(ctx context.Context) ([]extension.Local, error) {
	return f.locals, f.err
}

type fakeGallery struct {
	mu         sync.Mutex
	queries    []gallery.QueryOptions
	result     *gallery.QueryResult
	queryErr   error
	installed  []string
	installErr map[string]error
}

func (f *fakeGallery) Query(ctx context.Context, opts gallery.QueryOptions) (*gallery.QueryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, opts)
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if f.result == nil {
		return &gallery.QueryResult{}, nil
	}
	return f.result, nil
}

func (f *fakeGallery) Install(ctx context.Context, desc gallery.Descriptor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.installErr[desc.Identifier]; err != nil {
		return err
	}
	f.installed = append(f.installed, desc.Identifier)
	return nil
}

func (f *fakeGallery) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type fakeConfig struct {
	mu       sync.Mutex
	auto     bool
	onChange func()
	disposed bool
}

func (f *fakeConfig) GetBool(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auto
}

func (f *fakeConfig) setAuto(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auto = on
}

func (f *fakeConfig) OnKeyChange(key string, fn func()) func() {
	f.onChange = fn
	return func() { f.disposed = true }
}

type recordingNotifier struct {
	mu            sync.Mutex
	notifications []notify.Notification
	infos         []string
}

func (r *recordingNotifier) Notify(n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *recordingNotifier) Info(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, message)
}

type fakeWindow struct {
	reloads int
}

func (f *fakeWindow) Reload() error {
	f.reloads++
	return nil
}

func newTestContribution(h *fakeHost, local *fakeLocal, g *fakeGallery, cfg *fakeConfig) (*Contribution, *recordingNotifier, *fakeWindow) {
	notifier := &recordingNotifier{}
	win := &fakeWindow{}
	c := &Contribution{
		host:     h,
		local:    local,
		gallery:  g,
		config:   cfg,
		notifier: notifier,
		window:   win,
	}
	return c, notifier, win
}

func running(descs ...extension.Description) *fakeHost {
	return &fakeHost{exts: descs}
}

func TestAllMissingDependencies(t *testing.T) {
	tests := []struct {
		name string
		exts []extension.Description
		want []string
	}{
		{
			name: "no extensions",
			exts: nil,
			want: nil,
		},
		{
			name: "all dependencies running",
			exts: []extension.Description{
				{Identifier: "acme.linter", Dependencies: []string{"acme.core"}},
				{Identifier: "acme.core"},
			},
			want: nil,
		},
		{
			name: "one missing",
			exts: []extension.Description{
				{Identifier: "acme.linter", Dependencies: []string{"acme.core"}},
			},
			want: []string{"acme.core"},
		},
		{
			name: "case-insensitive containment",
			exts: []extension.Description{
				{Identifier: "Acme.Linter", Dependencies: []string{"ACME.Core"}},
				{Identifier: "acme.core"},
			},
			want: nil,
		},
		{
			name: "duplicates collapse to first casing",
			exts: []extension.Description{
				{Identifier: "a.one", Dependencies: []string{"Tools.Formatter"}},
				{Identifier: "a.two", Dependencies: []string{"tools.formatter"}},
			},
			want: []string{"Tools.Formatter"},
		},
		{
			name: "multiple missing across extensions",
			exts: []extension.Description{
				{Identifier: "a.one", Dependencies: []string{"b.two", "c.three"}},
				{Identifier: "b.two", Dependencies: []string{"d.four"}},
			},
			want: []string{"c.three", "d.four"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestContribution(running(tt.exts...), &fakeLocal{}, &fakeGallery{}, &fakeConfig{})

			got, err := c.AllMissingDependencies(context.Background())
			if err != nil {
				t.Fatalf("AllMissingDependencies: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllMissingDependenciesHostError(t *testing.T) {
	boom := errors.New("host down")
	c, _, _ := newTestContribution(&fakeHost{err: boom}, &fakeLocal{}, &fakeGallery{}, &fakeConfig{})

	if _, err := c.AllMissingDependencies(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped host error", err)
	}
}

func TestUninstalledMissingDependencies(t *testing.T) {
	h := running(extension.Description{
		Identifier:   "acme.linter",
		Dependencies: []string{"acme.core", "Tools.Formatter"},
	})
	local := &fakeLocal{locals: []extension.Local{
		{Identifier: "ACME.Core", Version: "1.0.0"},
	}}
	c, _, _ := newTestContribution(h, local, &fakeGallery{}, &fakeConfig{})

	got, err := c.UninstalledMissingDependencies(context.Background())
	if err != nil {
		t.Fatalf("UninstalledMissingDependencies: %v", err)
	}

	// acme.core is installed (identity comparison is case-insensitive);
	// Tools.Formatter is not.
	want := []string{"Tools.Formatter"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestUninstalledSkipsLocalQueryWhenNothingMissing(t *testing.T) {
	h := running(extension.Description{Identifier: "acme.core"})
	local := &fakeLocal{err: errors.New("registry should not be queried")}
	c, _, _ := newTestContribution(h, local, &fakeGallery{}, &fakeConfig{})

	got, err := c.UninstalledMissingDependencies(context.Background())
	if err != nil {
		t.Fatalf("UninstalledMissingDependencies: %v", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestCheckAndInstallFlagDisabled(t *testing.T) {
	h := running(extension.Description{Identifier: "a.one", Dependencies: []string{"b.two"}})
	g := &fakeGallery{}
	c, notifier, _ := newTestContribution(h, &fakeLocal{}, g, &fakeConfig{auto: false})

	if err := c.CheckAndInstall(context.Background()); err != nil {
		t.Fatalf("CheckAndInstall: %v", err)
	}
	if g.queryCount() != 0 {
		t.Error("gallery must not be queried when the flag is off")
	}
	if len(notifier.infos) != 0 || len(notifier.notifications) != 0 {
		t.Error("nothing should be shown when the flag is off")
	}
}

func TestCheckAndInstallNothingMissing(t *testing.T) {
	h := running(extension.Description{Identifier: "a.one"})
	g := &fakeGallery{}
	c, notifier, _ := newTestContribution(h, &fakeLocal{}, g, &fakeConfig{auto: true})

	if err := c.CheckAndInstall(context.Background()); err != nil {
		t.Fatalf("CheckAndInstall: %v", err)
	}
	if g.queryCount() != 0 {
		t.Error("gallery must not be queried with nothing missing")
	}
	if len(notifier.infos) != 0 {
		t.Error("no notification expected from a clean check")
	}
}

func TestCheckAndInstallFlagEnabled(t *testing.T) {
	h := running(extension.Description{Identifier: "a.one", Dependencies: []string{"b.two"}})
	g := &fakeGallery{result: &gallery.QueryResult{
		FirstPage: []gallery.Descriptor{{Identifier: "b.two", Version: "1.0.0"}},
		Total:     1,
	}}
	c, notifier, _ := newTestContribution(h, &fakeLocal{}, g, &fakeConfig{auto: true})

	if err := c.CheckAndInstall(context.Background()); err != nil {
		t.Fatalf("CheckAndInstall: %v", err)
	}
	if !reflect.DeepEqual(g.installed, []string{"b.two"}) {
		t.Errorf("installed = %v", g.installed)
	}
	if len(notifier.notifications) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifier.notifications))
	}
}

func TestInstallMissingEmptyList(t *testing.T) {
	h := running(extension.Description{Identifier: "a.one"})
	g := &fakeGallery{}
	c, notifier, _ := newTestContribution(h, &fakeLocal{}, g, &fakeConfig{})

	if err := c.InstallMissing(context.Background()); err != nil {
		t.Fatalf("InstallMissing: %v", err)
	}
	if g.queryCount() != 0 {
		t.Error("gallery must not be queried with nothing to install")
	}
	if len(notifier.infos) != 1 {
		t.Fatalf("got %d info messages, want exactly 1", len(notifier.infos))
	}
}

func TestInstallMissingQueryShape(t *testing.T) {
	h := running(extension.Description{
		Identifier:   "a.one",
		Dependencies: []string{"b.two", "c.three"},
	})
	g := &fakeGallery{}
	c, _, _ := newTestContribution(h, &fakeLocal{}, g, &fakeConfig{})

	if err := c.InstallMissing(context.Background()); err != nil {
		t.Fatalf("InstallMissing: %v", err)
	}
	if len(g.queries) != 1 {
		t.Fatalf("got %d queries, want 1", len(g.queries))
	}
	q := g.queries[0]
	if !reflect.DeepEqual(q.Names, []string{"b.two", "c.three"}) {
		t.Errorf("query names = %v", q.Names)
	}
	if q.PageSize != 2 {
		t.Errorf("pageSize = %d, want 2", q.PageSize)
	}
}

func TestInstallMissingZeroGalleryMatches(t *testing.T) {
	h := running(extension.Description{Identifier: "a.one", Dependencies: []string{"b.two"}})
	g := &fakeGallery{result: &gallery.QueryResult{}}
	c, notifier, win := newTestContribution(h, &fakeLocal{}, g, &fakeConfig{})

	if err := c.InstallMissing(context.Background()); err != nil {
		t.Fatalf("InstallMissing: %v", err)
	}

	// Zero matches for a non-empty list is deliberately silent.
	if len(notifier.infos) != 0 || len(notifier.notifications) != 0 {
		t.Error("zero gallery matches should show nothing")
	}
	if len(g.installed) != 0 || win.reloads != 0 {
		t.Error("nothing should be installed")
	}
}

func TestInstallMissingInstallsAllAndNotifiesOnce(t *testing.T) {
	h := running(extension.Description{
		Identifier:   "a.one",
		Dependencies: []string{"b.two", "c.three"},
	})
	g := &fakeGallery{result: &gallery.QueryResult{
		FirstPage: []gallery.Descriptor{
			{Identifier: "b.two", Version: "1.0.0"},
			{Identifier: "c.three", Version: "2.1.0"},
		},
		Total: 2,
	}}
	c, notifier, win := newTestContribution(h, &fakeLocal{}, g, &fakeConfig{})

	if err := c.InstallMissing(context.Background()); err != nil {
		t.Fatalf("InstallMissing: %v", err)
	}

	if len(g.installed) != 2 {
		t.Fatalf("installed %d extensions, want 2", len(g.installed))
	}
	if len(notifier.notifications) != 1 {
		t.Fatalf("got %d notifications, want exactly 1", len(notifier.notifications))
	}

	n := notifier.notifications[0]
	if n.Severity != notify.SeverityInfo {
		t.Errorf("severity = %v", n.Severity)
	}
	if len(n.Actions) != 1 || n.Actions[0].Label != "Reload Window" {
		t.Fatalf("actions = %+v", n.Actions)
	}

	// Invoking the action reloads the window.
	if err := n.Actions[0].Run(); err != nil {
		t.Fatalf("reload action: %v", err)
	}
	if win.reloads != 1 {
		t.Errorf("reloads = %d, want 1", win.reloads)
	}
}

func TestInstallMissingPartialFailure(t *testing.T) {
	h := running(extension.Description{
		Identifier:   "a.one",
		Dependencies: []string{"b.two", "c.three"},
	})
	boom := errors.New("download failed")
	g := &fakeGallery{
		result: &gallery.QueryResult{
			FirstPage: []gallery.Descriptor{
				{Identifier: "b.two"},
				{Identifier: "c.three"},
			},
		},
		installErr: map[string]error{"c.three": boom},
	}
	c, notifier, _ := newTestContribution(h, &fakeLocal{}, g, &fakeConfig{})

	err := c.InstallMissing(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped install error", err)
	}
	if len(notifier.notifications) != 0 {
		t.Error("no success notification after a failed install")
	}
}

// The worked example: running = [{id:"A", deps:["B"]}], nothing installed,
// gallery returns one descriptor for B.
func TestInstallMissingSingleDependencyExample(t *testing.T) {
	h := running(extension.Description{Identifier: "pub.a", Dependencies: []string{"pub.b"}})
	g := &fakeGallery{result: &gallery.QueryResult{
		FirstPage: []gallery.Descriptor{{Identifier: "pub.b", Version: "1.0.0"}},
		Total:     1,
	}}
	c, notifier, _ := newTestContribution(h, &fakeLocal{}, g, &fakeConfig{})

	if err := c.InstallMissing(context.Background()); err != nil {
		t.Fatalf("InstallMissing: %v", err)
	}
	if !reflect.DeepEqual(g.installed, []string{"pub.b"}) {
		t.Errorf("installed = %v", g.installed)
	}
	if len(notifier.notifications) != 1 {
		t.Errorf("got %d notifications, want 1", len(notifier.notifications))
	}
}

func TestNewRegistersCommandAndSubscription(t *testing.T) {
	commands := command.NewRegistry()
	h := running() // nothing running, initial check is a no-op
	cfg := &fakeConfig{}

	c, err := New(commands, h, &fakeLocal{}, &fakeGallery{}, cfg, &recordingNotifier{}, &fakeWindow{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()
	<-c.initialCheck

	if _, ok := commands.Lookup(CommandID); !ok {
		t.Error("install command not registered")
	}

	items := commands.MenuItems()
	if len(items) != 1 {
		t.Fatalf("got %d menu items, want 1", len(items))
	}
	if items[0].Category != "Extensions" || items[0].Title != "Install Missing Dependencies" {
		t.Errorf("menu item = %+v", items[0])
	}

	if cfg.onChange == nil {
		t.Fatal("config subscription not registered")
	}
}

func TestCloseReleasesSubscription(t *testing.T) {
	commands := command.NewRegistry()
	cfg := &fakeConfig{}

	c, err := New(commands, running(), &fakeLocal{}, &fakeGallery{}, cfg, &recordingNotifier{}, &fakeWindow{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	<-c.initialCheck

	c.Close()
	if !cfg.disposed {
		t.Error("Close did not release the config subscription")
	}

	// Close is idempotent.
	c.Close()
}

func TestConfigChangeTriggersCheck(t *testing.T) {
	commands := command.NewRegistry()
	h := running(extension.Description{Identifier: "a.one", Dependencies: []string{"b.two"}})
	g := &fakeGallery{result: &gallery.QueryResult{
		FirstPage: []gallery.Descriptor{{Identifier: "b.two"}},
	}}
	cfg := &fakeConfig{auto: false}

	c, err := New(commands, h, &fakeLocal{}, g, cfg, &recordingNotifier{}, &fakeWindow{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	// The initial check sees the flag off and installs nothing.
	<-c.initialCheck

	// Simulate the user enabling the setting; the change callback re-runs
	// the check, which now installs.
	cfg.setAuto(true)
	cfg.onChange()

	g.mu.Lock()
	installed := len(g.installed)
	g.mu.Unlock()
	if installed != 1 {
		t.Errorf("installed %d extensions after config change, want 1", installed)
	}
}
