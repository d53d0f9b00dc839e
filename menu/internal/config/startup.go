package config

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrNewFile is returned by Open on first run, after the default config
	// file has been created. The user should review it and start again.
	ErrNewFile = errors.New("config: a new config file was created")

	// ErrFileCreation is returned by Open when the default config file could
	// not be created.
	ErrFileCreation = errors.New("config: could not create the config file")
)

// Open runs the startup sequence for the config file at path: Load it, and
// when it needs an upgrade, back it up, write the current default and load
// that. It returns nil once a configuration is active.
func (m *Manager) Open(path string) error {
	res, err := m.Load(path)
	if err != nil {
		return err
	}

	switch res {
	case Success:
		return nil
	case NewFileCreated:
		return fmt.Errorf("%w at %q", ErrNewFile, path)
	case FileCreationFailure:
		return fmt.Errorf("%w at %q", ErrFileCreation, path)
	case NeedsUpgrade:
		backup, err := m.Backup(path)
		if err != nil {
			return err
		}
		slog.Warn("config: config file was outdated and has been replaced by the default; "+
			"copy your settings over from the backup",
			"path", path, "backup", backup)
	default:
		return fmt.Errorf("config: load %q: unexpected result %s", path, res)
	}

	res, err = m.Load(path)
	if err != nil {
		return err
	}
	if res != Success {
		return fmt.Errorf("config: load %q after upgrade: %s", path, res)
	}
	return nil
}
