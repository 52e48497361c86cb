package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/extsync-labs/extsync/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// KeyAutoInstallMissingDeps controls whether a reconciliation check that
// finds uninstalled missing dependencies installs them without being asked.
const KeyAutoInstallMissingDeps = "extensions.autoInstallMissingDependencies"

// KeyGalleryURL overrides the built-in gallery endpoint.
const KeyGalleryURL = "gallery.url"

// Dir returns the path to the config directory (~/.extsync/), honoring
// the EXTSYNC_HOME override.
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.extsync/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Service reads settings from the config file and environment and delivers
// per-key change notifications backed by viper's file watcher.
type Service struct {
	v *viper.Viper

	mu       sync.Mutex
	nextID   int
	subs     map[int]subscription
	lastSeen map[string]interface{}
	watching bool
}

type subscription struct {
	key string
	fn  func()
}

// New creates a Service bound to the default config file location.
func New() *Service {
	return NewWithPath(FilePath())
}

// NewWithPath creates a Service bound to an explicit config file path.
func NewWithPath(path string) *Service {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	// Ignore error if the config file doesn't exist yet.
	_ = v.ReadInConfig()

	return &Service{
		v:        v,
		subs:     make(map[int]subscription),
		lastSeen: make(map[string]interface{}),
	}
}

// GetBool returns a boolean config value, read live from the backing store.
func (s *Service) GetBool(key string) bool {
	return s.v.GetBool(key)
}

// GetString returns a string config value.
func (s *Service) GetString(key string) string {
	return s.v.GetString(key)
}

// Set writes a key-value pair and saves the config file.
func (s *Service) Set(key string, value interface{}) error {
	configFile := s.v.ConfigFileUsed()
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	s.v.Set(key, value)

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := s.v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// OnKeyChange subscribes fn to changes of a single key. The returned
// dispose func releases the subscription; after dispose, fn is never
// called again. The underlying file watcher is started on first use and
// lives for the process lifetime.
func (s *Service) OnKeyChange(key string, fn func()) (dispose func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = subscription{key: key, fn: fn}
	if _, ok := s.lastSeen[key]; !ok {
		s.lastSeen[key] = s.v.Get(key)
	}

	if !s.watching {
		s.watching = true
		s.v.OnConfigChange(func(fsnotify.Event) {
			s.dispatch()
		})
		s.v.WatchConfig()
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// dispatch compares current values against the last-seen snapshot and fires
// the callbacks of subscriptions whose key actually changed.
func (s *Service) dispatch() {
	s.mu.Lock()
	var fire []func()
	changed := make(map[string]bool)
	for key := range s.lastSeen {
		current := s.v.Get(key)
		if !reflect.DeepEqual(current, s.lastSeen[key]) {
			s.lastSeen[key] = current
			changed[key] = true
		}
	}
	for _, sub := range s.subs {
		if changed[sub.key] {
			fire = append(fire, sub.fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}
