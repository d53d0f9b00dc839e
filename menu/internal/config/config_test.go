package config

import (
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultFile_MatchesDefaults(t *testing.T) {
	// Decode without the defaulter so that every value must come from the file.
	var raw struct {
		Version string `yaml:"config-version"`
		Config  `yaml:",inline"`
	}
	if err := yaml.Unmarshal(DefaultFile(), &raw); err != nil {
		t.Fatalf("unmarshal default file: %v", err)
	}
	if raw.Version != CurrentVersion {
		t.Errorf("config-version: got %q, want %q", raw.Version, CurrentVersion)
	}
	if !reflect.DeepEqual(&raw.Config, Defaults()) {
		t.Errorf("default file and Defaults() differ:\nfile:     %+v\ndefaults: %+v", raw.Config, *Defaults())
	}
}

func TestDefaultFile_ReturnsCopy(t *testing.T) {
	b := DefaultFile()
	b[0] = 'X'
	if DefaultFile()[0] == 'X' {
		t.Error("DefaultFile exposes the embedded bytes")
	}
}

func TestDefaults_AllHotkeysUsable(t *testing.T) {
	ic := Defaults().Interface
	if got, want := len(ic.Hotkeys()), len(ic.UnfilteredHotkeys); got != want {
		t.Errorf("Hotkeys(): got %d, want %d", got, want)
	}
	if n := ic.DroppedHotkeys(); n != 0 {
		t.Errorf("DroppedHotkeys(): got %d, want 0", n)
	}
}

func TestHotkeys_Filtering(t *testing.T) {
	doc := `
interface:
  hotkeys:
    - hotkey: tab
      action: select-next
    - ~
    - hotkey: ctrl c
    - action: close
    - hotkey: f5
      action: reticulate-splines
    - hotkey: f6
      action: "copy-password 'unterminated"
    - hotkey: ""
      action: close
    - hotkey: enter
      action: decrypt-password copy type=false
`
	cfg, err := Decode[Config](strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	ic := cfg.Interface
	if len(ic.UnfilteredHotkeys) != 8 {
		t.Fatalf("unfiltered hotkeys: got %d, want 8", len(ic.UnfilteredHotkeys))
	}

	got := ic.Hotkeys()
	if len(got) != 2 {
		t.Fatalf("filtered hotkeys: got %d, want 2", len(got))
	}
	if got[0].Hotkey != "tab" || got[0].Options.Action != ActionSelectNext {
		t.Errorf("hotkey[0]: got %q -> %+v", got[0].Hotkey, got[0].Options)
	}
	if got[1].Hotkey != "enter" || got[1].Options.Action != ActionDecryptPassword {
		t.Errorf("hotkey[1]: got %q -> %+v", got[1].Hotkey, got[1].Options)
	}
	if !got[1].Options.Flag("copy") || got[1].Options.Flag("type") {
		t.Errorf("hotkey[1] args: got %v", got[1].Options.Args)
	}
	if n := ic.DroppedHotkeys(); n != 6 {
		t.Errorf("DroppedHotkeys(): got %d, want 6", n)
	}
}

func TestHotkeys_OnlyInvalidEntries(t *testing.T) {
	ic := InterfaceConfig{UnfilteredHotkeys: []*HotkeyConfig{
		nil,
		newHotkey("f1", "no-such-action"),
		{Hotkey: "f2", ActionString: "close"}, // never parsed: Options is nil
	}}
	if got := ic.Hotkeys(); len(got) != 0 {
		t.Errorf("Hotkeys(): got %d entries, want 0", len(got))
	}
	if got := (InterfaceConfig{}).Hotkeys(); len(got) != 0 {
		t.Errorf("Hotkeys() on empty list: got %d entries, want 0", len(got))
	}
}

func TestParseHotkeyAction(t *testing.T) {
	tests := []struct {
		in       string
		wantErr  bool
		wantAct  string
		wantArgs map[string]string
	}{
		{in: "select-next", wantAct: ActionSelectNext},
		{in: "  close  ", wantAct: ActionClose},
		{in: "decrypt-password copy type=false", wantAct: ActionDecryptPassword,
			wantArgs: map[string]string{"copy": "true", "type": "false"}},
		{in: `copy-password "field=user name"`, wantAct: ActionCopyPassword,
			wantArgs: map[string]string{"field": "user name"}},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "open-sesame", wantErr: true},
		{in: "close =x", wantErr: true},
		{in: "close a a=1", wantErr: true},
		{in: `close "unterminated`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			opts, err := ParseHotkeyAction(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", opts)
				}
				if opts != nil {
					t.Errorf("options on error: got %+v, want nil", opts)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if opts.Action != tc.wantAct {
				t.Errorf("action: got %q, want %q", opts.Action, tc.wantAct)
			}
			if !reflect.DeepEqual(opts.Args, tc.wantArgs) {
				t.Errorf("args: got %v, want %v", opts.Args, tc.wantArgs)
			}
		})
	}
}

func TestHotkeyOptions_FlagOnNil(t *testing.T) {
	var o *HotkeyOptions
	if o.Flag("copy") {
		t.Error("Flag on nil options: got true, want false")
	}
}
