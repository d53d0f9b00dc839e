package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// Actions a menu hotkey can trigger.
const (
	ActionSelectNext         = "select-next"
	ActionSelectPrevious     = "select-previous"
	ActionSelectFirst        = "select-first"
	ActionSelectLast         = "select-last"
	ActionSelectNextPage     = "select-next-page"
	ActionSelectPreviousPage = "select-previous-page"
	ActionDecryptPassword    = "decrypt-password"
	ActionCopyUsername       = "copy-username"
	ActionCopyPassword       = "copy-password"
	ActionEditPassword       = "edit-password"
	ActionClose              = "close"
)

var knownActions = map[string]bool{
	ActionSelectNext:         true,
	ActionSelectPrevious:     true,
	ActionSelectFirst:        true,
	ActionSelectLast:         true,
	ActionSelectNextPage:     true,
	ActionSelectPreviousPage: true,
	ActionDecryptPassword:    true,
	ActionCopyUsername:       true,
	ActionCopyPassword:       true,
	ActionEditPassword:       true,
	ActionClose:              true,
}

var errEmptyAction = errors.New("hotkey: empty action")

// HotkeyConfig binds a key combination to an action string such as
// "select-next" or "decrypt-password copy type=false".
type HotkeyConfig struct {
	Hotkey       string `yaml:"hotkey"`
	ActionString string `yaml:"action"`

	// Options is the parsed form of ActionString, or nil if it did not parse.
	Options *HotkeyOptions `yaml:"-"`
}

// HotkeyOptions is a parsed action string.
type HotkeyOptions struct {
	Action string
	// Args holds the words following the action. A bare word maps to "true".
	Args map[string]string
}

// Flag reports whether the boolean argument name is set to true.
func (o *HotkeyOptions) Flag(name string) bool {
	return o != nil && o.Args[name] == "true"
}

// ParseHotkeyAction splits an action string with shell quoting rules and
// validates the action name and its arguments.
func ParseHotkeyAction(s string) (*HotkeyOptions, error) {
	words, err := shlex.Split(s)
	if err != nil {
		return nil, fmt.Errorf("hotkey: split %q: %w", s, err)
	}
	if len(words) == 0 {
		return nil, errEmptyAction
	}
	if !knownActions[words[0]] {
		return nil, fmt.Errorf("hotkey: unknown action %q", words[0])
	}

	opts := &HotkeyOptions{Action: words[0]}
	for _, w := range words[1:] {
		name, value, found := strings.Cut(w, "=")
		if name == "" {
			return nil, fmt.Errorf("hotkey: %q: argument %q has no name", s, w)
		}
		if !found {
			value = "true"
		}
		if opts.Args == nil {
			opts.Args = make(map[string]string)
		}
		if _, dup := opts.Args[name]; dup {
			return nil, fmt.Errorf("hotkey: %q: argument %q given twice", s, name)
		}
		opts.Args[name] = value
	}
	return opts, nil
}

// newHotkey builds a binding the same way the decoder does.
func newHotkey(hotkey, action string) *HotkeyConfig {
	h := &HotkeyConfig{Hotkey: hotkey, ActionString: action}
	h.Options, _ = ParseHotkeyAction(action)
	return h
}

// UnmarshalYAML implements yaml.Unmarshaler. An action string that does not
// parse leaves Options nil; it is not a decode error.
func (h *HotkeyConfig) UnmarshalYAML(n *yaml.Node) error {
	type plain HotkeyConfig
	var raw plain
	if err := n.Decode(&raw); err != nil {
		return err
	}
	*h = HotkeyConfig(raw)
	h.Options = nil
	if h.ActionString != "" {
		h.Options, _ = ParseHotkeyAction(h.ActionString)
	}
	return nil
}

// usable reports whether the binding belongs in the effective hotkey list.
func (h *HotkeyConfig) usable() bool {
	return h != nil && h.Hotkey != "" && h.ActionString != "" && h.Options != nil
}
