package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestRegistry_IncAndSet(t *testing.T) {
	r := NewRegistry()
	r.Inc("passmenu_config_reloads_total", "Reloads.", "result", "ok")
	r.Inc("passmenu_config_reloads_total", "Reloads.", "result", "ok")
	r.Inc("passmenu_config_reloads_total", "Reloads.", "result", "failed")
	r.Set("passmenu_hotkeys_dropped", "Dropped hotkeys.", 3)
	r.Set("passmenu_hotkeys_dropped", "Dropped hotkeys.", 1)

	mfs := r.Gather()
	if len(mfs) != 2 {
		t.Fatalf("families: got %d, want 2", len(mfs))
	}
	// Gather sorts by name.
	if mfs[0].GetName() != "passmenu_config_reloads_total" {
		t.Errorf("first family: got %q", mfs[0].GetName())
	}

	reloads := mfs[0]
	if got := Value(reloads, "result", "ok"); got != 2 {
		t.Errorf("reloads{result=ok}: got %v, want 2", got)
	}
	if got := Value(reloads, "result", "failed"); got != 1 {
		t.Errorf("reloads{result=failed}: got %v, want 1", got)
	}
	if got := Sum(reloads); got != 3 {
		t.Errorf("Sum(reloads): got %v, want 3", got)
	}
	if got := Sum(mfs[1]); got != 1 {
		t.Errorf("hotkeys_dropped: got %v, want 1", got)
	}
}

func TestRegistry_GatherReturnsCopies(t *testing.T) {
	r := NewRegistry()
	r.Inc("passmenu_config_backups_total", "Backups.")

	first := r.Gather()
	r.Inc("passmenu_config_backups_total", "Backups.")

	if got := Sum(first[0]); got != 1 {
		t.Errorf("earlier snapshot changed: got %v, want 1", got)
	}
	if got := Sum(r.Gather()[0]); got != 2 {
		t.Errorf("current value: got %v, want 2", got)
	}
}

func TestRegistry_NilIsNoop(t *testing.T) {
	var r *Registry
	r.Inc("x_total", "x")
	r.Set("y", "y", 1)
	if mfs := r.Gather(); mfs != nil {
		t.Errorf("Gather on nil registry: got %v, want nil", mfs)
	}
	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		t.Errorf("WriteText on nil registry: %v", err)
	}
}

func TestWriteText_RoundTrip(t *testing.T) {
	r := NewRegistry()
	r.Inc("passmenu_config_loads_total", "Config loads by result.", "result", "success")
	r.Inc("passmenu_config_loads_total", "Config loads by result.", "result", "needs-upgrade")
	r.Inc("passmenu_config_change_events_total", "Change events seen by the watcher.")
	r.Set("passmenu_hotkeys_dropped", "Hotkeys excluded from the effective list.", 2)

	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	text := buf.String()
	if !strings.Contains(text, "# TYPE passmenu_config_loads_total counter") {
		t.Errorf("missing TYPE line for loads counter:\n%s", text)
	}
	if !strings.Contains(text, `passmenu_config_loads_total{result="success"} 1`) {
		t.Errorf("missing success series:\n%s", text)
	}

	mfs, err := ParseText(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	if got := Sum(mfs["passmenu_config_loads_total"]); got != 2 {
		t.Errorf("loads total: got %v, want 2", got)
	}
	if got := Sum(mfs["passmenu_hotkeys_dropped"]); got != 2 {
		t.Errorf("hotkeys dropped: got %v, want 2", got)
	}
	if got := Sum(mfs["missing_metric"]); got != 0 {
		t.Errorf("missing family: got %v, want 0", got)
	}
}

func TestParseText_Invalid(t *testing.T) {
	if _, err := ParseText(strings.NewReader("{not valid}\n")); err == nil {
		t.Fatal("expected error for garbage input, got nil")
	}
}

func TestReadText_RestoresCounters(t *testing.T) {
	prev := NewRegistry()
	prev.Inc("passmenu_config_reloads_total", "Reloads.", "result", "ok")
	prev.Inc("passmenu_config_reloads_total", "Reloads.", "result", "ok")
	prev.Inc("passmenu_config_reloads_total", "Reloads.", "result", "failed")
	prev.Set("passmenu_hotkeys_dropped", "Dropped hotkeys.", 4)

	var dump bytes.Buffer
	if err := prev.WriteText(&dump); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	r := NewRegistry()
	if err := r.ReadText(&dump); err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	r.Inc("passmenu_config_reloads_total", "Reloads.", "result", "ok")

	if got := r.Total("passmenu_config_reloads_total", "result", "ok"); got != 3 {
		t.Errorf("reloads{result=ok}: got %v, want 3", got)
	}
	if got := r.Total("passmenu_config_reloads_total"); got != 4 {
		t.Errorf("reloads total: got %v, want 4", got)
	}
	if got := r.Total("passmenu_hotkeys_dropped"); got != 4 {
		t.Errorf("hotkeys dropped: got %v, want 4", got)
	}
	if got := r.Total("never_recorded"); got != 0 {
		t.Errorf("unknown family: got %v, want 0", got)
	}
}

func TestReadText_Invalid(t *testing.T) {
	r := NewRegistry()
	if err := r.ReadText(strings.NewReader("{not valid}\n")); err == nil {
		t.Fatal("expected error for garbage input, got nil")
	}
	if mfs := r.Gather(); len(mfs) != 0 {
		t.Errorf("families after failed read: got %d, want 0", len(mfs))
	}
}
