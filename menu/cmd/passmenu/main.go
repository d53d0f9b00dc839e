package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/passmenu/passmenu/menu/internal/config"
	"github.com/passmenu/passmenu/menu/internal/dispatch"
	"github.com/passmenu/passmenu/menu/internal/metrics"
	"github.com/passmenu/passmenu/menu/internal/theme"
)

// The apply loop runs on the main goroutine, which stays on the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "passmenu.yaml", "path to config file")
	watch := flag.Bool("watch", true, "reload the config file when it changes")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn or error")
	metricsFile := flag.String("metrics-file", "", "config metrics file: counters continue from it at start and are written back on shutdown")
	preview := flag.Bool("preview", false, "print a menu preview each time a config is applied")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q: %v\n", *logLevel, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("passmenu starting", "config", *configPath)

	reg := metrics.NewRegistry()
	if *metricsFile != "" {
		restoreMetrics(reg, *metricsFile)
	}
	store := config.NewProvider()

	// Styles are UI resources, so they are only rebuilt from the apply hook.
	var styles *theme.Styles
	mgr := config.NewManager(store, config.DefaultFile(),
		config.WithMetrics(reg),
		config.WithApplyHook(func(cfg *config.Config) {
			styles = theme.New(cfg)
			if *preview {
				fmt.Fprintln(os.Stderr, styles.RenderMenu("passmenu", hotkeyLines(cfg), 0))
			}
		}),
	)

	if err := mgr.Open(*configPath); err != nil {
		if errors.Is(err, config.ErrNewFile) {
			slog.Info("a default config file was created; review it and start passmenu again",
				"path", *configPath)
			os.Exit(0)
		}
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := store.Current()
	slog.Info("config loaded",
		"hotkeys", len(cfg.Interface.Hotkeys()),
		"clipboard_timeout", cfg.Interface.ClipboardTimeout,
		"width", cfg.Interface.Style.Width.String(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	loop := dispatch.New(16)
	if *watch {
		w := config.NewWatcher(mgr, loop)
		if err := w.EnableAutoReloading(*configPath); err != nil {
			slog.Error("config watcher not started", "err", err)
		} else {
			defer w.Close()
		}
	}

	loop.Run(ctx)
	slog.Info("passmenu shutting down",
		"reloads_ok", reg.Total(config.MetricReloads, "result", "ok"),
		"reloads_failed", reg.Total(config.MetricReloads, "result", "failed"),
		"change_events", reg.Total(config.MetricChangeEvents),
	)

	if *metricsFile != "" {
		if err := dumpMetrics(reg, *metricsFile); err != nil {
			slog.Error("failed to write metrics", "path", *metricsFile, "err", err)
		}
	}
}

func hotkeyLines(cfg *config.Config) []string {
	hks := cfg.Interface.Hotkeys()
	lines := make([]string, 0, len(hks))
	for _, hk := range hks {
		lines = append(lines, fmt.Sprintf("%-10s %s", hk.Hotkey, hk.ActionString))
	}
	return lines
}

// restoreMetrics continues the counters from a previous run's dump. A missing
// file is normal on first start.
func restoreMetrics(reg *metrics.Registry, path string) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		slog.Warn("could not open metrics file", "path", path, "err", err)
		return
	}
	defer f.Close()
	if err := reg.ReadText(f); err != nil {
		slog.Warn("ignoring unreadable metrics file", "path", path, "err", err)
	}
}

func dumpMetrics(reg *metrics.Registry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := reg.WriteText(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
