package config

import (
	_ "embed"
)

// CurrentVersion is the config-version a file must declare to be loaded
// without an upgrade.
const CurrentVersion = "1.0"

// versionKey is the top-level key probed before a full decode.
const versionKey = "config-version"

//go:embed default.yaml
var defaultFile []byte

// DefaultFile returns a copy of the bundled default configuration file.
// It decodes to the same value as Defaults.
func DefaultFile() []byte {
	out := make([]byte, len(defaultFile))
	copy(out, defaultFile)
	return out
}

// Config is the top-level configuration tree. Field names map 1:1 to the
// hyphenated keys in passmenu.yaml. A *Config is never modified once it has
// been published through a Provider; reloads replace it wholesale.
type Config struct {
	Interface InterfaceConfig `yaml:"interface"`
}

// InterfaceConfig holds the settings of the password menu window.
type InterfaceConfig struct {
	// FollowCursor opens the menu on the monitor that contains the mouse cursor.
	FollowCursor bool `yaml:"follow-cursor"`

	// DirectorySeparator is shown between path segments of password entries.
	DirectorySeparator string `yaml:"directory-separator"`

	// ClipboardTimeout is the number of seconds a copied secret stays on the
	// clipboard. Zero disables clearing.
	ClipboardTimeout float64 `yaml:"clipboard-timeout"`

	// RestoreClipboard puts the previous clipboard content back after the timeout.
	RestoreClipboard bool `yaml:"restore-clipboard"`

	// UnfilteredHotkeys is the hotkey list exactly as written in the file,
	// including null and unparseable entries. Use Hotkeys for the effective list.
	UnfilteredHotkeys []*HotkeyConfig `yaml:"hotkeys"`

	PasswordEditor PasswordEditorConfig `yaml:"password-editor"`
	Style          StyleConfig          `yaml:"style"`
}

// Hotkeys returns the bindings with a key combination and a parseable action.
// Everything else is silently left out.
func (c InterfaceConfig) Hotkeys() []*HotkeyConfig {
	out := make([]*HotkeyConfig, 0, len(c.UnfilteredHotkeys))
	for _, h := range c.UnfilteredHotkeys {
		if h.usable() {
			out = append(out, h)
		}
	}
	return out
}

// DroppedHotkeys returns how many entries Hotkeys leaves out.
func (c InterfaceConfig) DroppedHotkeys() int {
	return len(c.UnfilteredHotkeys) - len(c.Hotkeys())
}

// PasswordEditorConfig controls the editor used for new and edited entries.
type PasswordEditorConfig struct {
	// UseBuiltin selects the built-in editor instead of the system text editor.
	UseBuiltin bool `yaml:"use-builtin"`

	// DefaultContent pre-fills the editor for new password files.
	DefaultContent string `yaml:"default-content"`

	Width Width `yaml:"width"`
}

// StyleConfig holds the menu colours and size.
type StyleConfig struct {
	Width               Width `yaml:"width"`
	Foreground          Brush `yaml:"foreground"`
	Background          Brush `yaml:"background"`
	Border              Brush `yaml:"border"`
	SelectionForeground Brush `yaml:"selection-foreground"`
	SelectionBackground Brush `yaml:"selection-background"`
}

// Defaults returns the built-in configuration. It is the active configuration
// until a file has been loaded.
func Defaults() *Config {
	return &Config{
		Interface: InterfaceConfig{
			FollowCursor:       true,
			DirectorySeparator: "/",
			ClipboardTimeout:   30,
			RestoreClipboard:   true,
			UnfilteredHotkeys: []*HotkeyConfig{
				newHotkey("tab", ActionSelectNext),
				newHotkey("shift tab", ActionSelectPrevious),
				newHotkey("down", ActionSelectNext),
				newHotkey("up", ActionSelectPrevious),
				newHotkey("enter", ActionDecryptPassword+" copy"),
				newHotkey("escape", ActionClose),
			},
			PasswordEditor: PasswordEditorConfig{
				UseBuiltin:     true,
				DefaultContent: "\nUsername: \n",
				Width:          Width{Value: widthKeywords["medium"]},
			},
			Style: StyleConfig{
				Width:               Width{Value: 700},
				Foreground:          MustParseBrush("#d0d0d0"),
				Background:          MustParseBrush("#1e1e2e"),
				Border:              MustParseBrush("#3f51b5 2"),
				SelectionForeground: MustParseBrush("white"),
				SelectionBackground: MustParseBrush("#3f51b5"),
			},
		},
	}
}

// setDefaults lets Decode start a Config from the built-in values, so keys
// missing from the file keep their defaults.
func (c *Config) setDefaults() {
	*c = *Defaults()
}
