package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/passmenu/passmenu/menu/internal/metrics"
)

// LoadResult is the outcome of Manager.Load.
type LoadResult int

const (
	// NewFileCreated means no file existed and the bundled default was written.
	// Nothing was decoded; the user is expected to review the new file.
	NewFileCreated LoadResult = iota + 1
	// FileCreationFailure means no file existed and the default could not be written.
	FileCreationFailure
	// NeedsUpgrade means the file's config-version is missing or not current.
	NeedsUpgrade
	// Success means the file was decoded and is now the active configuration.
	Success
)

func (r LoadResult) String() string {
	switch r {
	case NewFileCreated:
		return "new-file-created"
	case FileCreationFailure:
		return "file-creation-failure"
	case NeedsUpgrade:
		return "needs-upgrade"
	case Success:
		return "success"
	default:
		return fmt.Sprintf("LoadResult(%d)", int(r))
	}
}

// Metric names recorded by the Manager and the Watcher.
const (
	MetricLoads          = "passmenu_config_loads_total"
	MetricReloads        = "passmenu_config_reloads_total"
	MetricBackups        = "passmenu_config_backups_total"
	MetricChangeEvents   = "passmenu_config_change_events_total"
	MetricHotkeysDropped = "passmenu_hotkeys_dropped"
)

// Manager owns the config file on disk: first-run creation from the bundled
// default, the version gate, full decodes, and backups before an upgrade.
//
// Load and Reload write the Provider, so they must only be called from the
// apply thread.
type Manager struct {
	store    *Provider
	defaults []byte
	version  string
	hooks    []func(*Config)
	stats    *metrics.Registry
}

// Option configures a Manager.
type Option func(*Manager)

// WithApplyHook registers fn to run after every successful Load or Reload,
// on the same goroutine, with the configuration that was just made active.
func WithApplyHook(fn func(*Config)) Option {
	return func(m *Manager) { m.hooks = append(m.hooks, fn) }
}

// WithMetrics records lifecycle counters in reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(m *Manager) { m.stats = reg }
}

// WithVersion overrides the expected config-version (default CurrentVersion).
func WithVersion(v string) Option {
	return func(m *Manager) { m.version = v }
}

// NewManager returns a Manager that publishes to store and creates new files
// from defaults.
func NewManager(store *Provider, defaults []byte, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		defaults: defaults,
		version:  CurrentVersion,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load brings the file at path into use.
//
// A missing file is created from the bundled default and NewFileCreated is
// returned without decoding it; if it cannot be written the result is
// FileCreationFailure. An existing file is first probed for its
// config-version only, and NeedsUpgrade is returned when that is missing or
// differs from the expected version. Otherwise the file is decoded in full,
// published, and Success is returned.
//
// The error is non-nil only when an existing file cannot be read or decoded;
// decode problems are reported as *DecodeError. The active configuration is
// changed only on Success.
func (m *Manager) Load(path string) (LoadResult, error) {
	if _, err := os.Stat(path); err != nil {
		if err := m.writeDefault(path); err != nil {
			slog.Error("config: could not create default config file", "path", path, "err", err)
			m.countLoad(FileCreationFailure)
			return FileCreationFailure, nil
		}
		slog.Info("config: created default config file", "path", path)
		m.countLoad(NewFileCreated)
		return NewFileCreated, nil
	}

	found, ok, err := m.probeVersion(path)
	if err != nil {
		return 0, err
	}
	if !ok || found != m.version {
		slog.Warn("config: config file version is not current",
			"path", path, "found", found, "want", m.version)
		m.countLoad(NeedsUpgrade)
		return NeedsUpgrade, nil
	}

	cfg, err := m.readConfig(path)
	if err != nil {
		return 0, err
	}
	m.apply(cfg)
	slog.Info("config: loaded", "path", path, "version", found)
	m.countLoad(Success)
	return Success, nil
}

// Reload decodes the file at path again and publishes it. Any failure is
// logged and the previous configuration stays active.
func (m *Manager) Reload(path string) {
	cfg, err := m.readConfig(path)
	if err != nil {
		slog.Error("config: reload failed, keeping previous config", "path", path, "err", err)
		m.stats.Inc(MetricReloads, "Config reloads by result.", "result", "failed")
		return
	}
	m.apply(cfg)
	slog.Info("config: reloaded", "path", path)
	m.stats.Inc(MetricReloads, "Config reloads by result.", "result", "ok")
}

// Backup moves the file at path aside and writes the bundled default in its
// place. The file is renamed to <stem>-backup<ext>, or to the first free
// <stem>-backup-N<ext> for N = 2, 3, ... when that name is taken.
// It returns the path the old file was moved to.
//
// The default is only written once the rename has succeeded; a failed rename
// is returned as an error and leaves path untouched.
func (m *Manager) Backup(path string) (string, error) {
	target, err := backupName(path)
	if err != nil {
		return "", err
	}
	if err := os.Rename(path, target); err != nil {
		return "", fmt.Errorf("config: back up %q: %w", path, err)
	}
	slog.Info("config: backed up config file", "path", path, "backup", target)
	m.stats.Inc(MetricBackups, "Config files moved aside before an upgrade.")

	if err := m.writeDefault(path); err != nil {
		return target, fmt.Errorf("config: write default config after backup: %w", err)
	}
	return target, nil
}

// probeVersion decodes only the top-level keys of the file and returns the
// literal text of its config-version scalar. ok is false when the key is
// absent or not a scalar.
func (m *Manager) probeVersion(path string) (version string, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("config: read %q: %w", path, err)
	}
	top, err := Decode[map[string]yaml.Node](bytes.NewReader(data))
	if err != nil {
		return "", false, err
	}
	node, found := top[versionKey]
	if !found || node.Kind != yaml.ScalarNode {
		return "", false, nil
	}
	return node.Value, true, nil
}

// readConfig reads and fully decodes the file at path.
func (m *Manager) readConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	cfg, err := Decode[Config](bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// apply publishes cfg and runs the apply hooks.
func (m *Manager) apply(cfg *Config) {
	m.store.replace(cfg)

	dropped := cfg.Interface.DroppedHotkeys()
	if dropped > 0 {
		slog.Warn("config: ignoring hotkeys without a key or a valid action", "count", dropped)
	}
	m.stats.Set(MetricHotkeysDropped, "Hotkeys excluded from the effective list.", float64(dropped))

	for _, fn := range m.hooks {
		fn(cfg)
	}
}

// writeDefault creates or truncates path and copies the bundled default into it.
func (m *Manager) writeDefault(path string) error {
	return os.WriteFile(path, m.defaults, 0o600)
}

func (m *Manager) countLoad(r LoadResult) {
	m.stats.Inc(MetricLoads, "Config loads by result.", "result", r.String())
}

// backupName returns the first unused backup name for path.
func backupName(path string) (string, error) {
	ext := filepath.Ext(path)
	root := strings.TrimSuffix(path, ext)

	candidate := root + "-backup" + ext
	for n := 2; ; n++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", fmt.Errorf("config: check backup name %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-backup-%d%s", root, n, ext)
	}
}

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
