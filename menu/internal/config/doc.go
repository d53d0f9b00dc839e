// Package config loads, versions, watches and hot-reloads passmenu.yaml.
//
// Top-level types:
//   - Config{Interface}: full settings tree decoded from YAML with hyphenated
//     keys; InterfaceConfig carries follow-cursor, clipboard, hotkeys,
//     password-editor and style sections
//   - HotkeyConfig: hotkey + action string; the action is parsed into
//     HotkeyOptions at decode time and InterfaceConfig.Hotkeys() leaves out
//     entries that are null, incomplete or unparseable
//   - Width, Brush: scalar types with their own YAML parsers ("320px", "auto",
//     "#3f51b5 2", "white")
//   - Provider: the active configuration, swapped atomically as a whole
//   - Manager: Load / Reload / Backup / Open on the file at a given path
//   - Watcher: fsnotify on the file's directory, debounced reloads posted to
//     the apply thread through a Dispatcher
//
// Load(path) creates the file from the bundled default on first run
// (NewFileCreated), reports FileCreationFailure if that is impossible, probes
// the config-version key before decoding anything else (NeedsUpgrade), and
// otherwise publishes the decoded file (Success). Reload(path) is the
// best-effort variant used by the Watcher: failures are logged and the
// previous configuration stays active.
//
// Provider writes happen only inside Load and Reload. Both must run on the
// apply thread, which is what the Watcher guarantees by posting reloads to its
// Dispatcher instead of calling Reload itself.
package config
