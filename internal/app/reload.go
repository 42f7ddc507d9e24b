package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dshills/docline/internal/config"
	"github.com/dshills/docline/internal/config/watcher"
)

// Reload reads the configuration again and relays the document out with
// the new layout settings. Format and indent settings take effect on the
// next start. On error the current configuration is kept.
func (a *Application) Reload() error {
	cfg, err := loadConfig(a.cfgOpts, a.opts)
	if err != nil {
		return fmt.Errorf("reloading configuration: %w", err)
	}

	a.mu.Lock()
	old := a.cfg
	a.cfg = cfg
	a.mu.Unlock()

	if old.LayoutSettings() != cfg.LayoutSettings() {
		a.doc.SetLayoutSettings(cfg.LayoutSettings())
	}

	a.mu.Lock()
	if h := a.doc.LineAt(a.top.line); h != nil {
		a.top.row = min(a.top.row, max(h.RowCount()-1, 0))
	}
	a.mu.Unlock()

	a.logger.Info("configuration reloaded",
		"tabWidth", cfg.Layout.TabWidth,
		"wrapWidth", cfg.Layout.WrapWidth)
	a.Render()
	return nil
}

// watchConfig starts a watcher over the configuration files that reloads
// on every change. The caller stops the returned watcher.
func (a *Application) watchConfig(ctx context.Context, interval time.Duration) (*watcher.Watcher, error) {
	w := watcher.New(
		watcher.WithFS(a.opts.FS),
		watcher.WithInterval(interval),
		watcher.WithLogger(a.logger))
	for _, path := range config.Paths(a.cfgOpts...) {
		if err := w.Watch(path); err != nil {
			return nil, fmt.Errorf("watching %s: %w", path, err)
		}
	}
	w.OnChange(func(ev watcher.Event) {
		a.logger.Debug("configuration file changed", "path", ev.Path, "op", ev.Op.String())
		if err := a.Reload(); err != nil {
			a.logger.Warn("keeping previous configuration", "error", err)
			a.mu.Lock()
			a.status.Message = "config error: " + err.Error()
			a.mu.Unlock()
			a.Render()
		}
	})
	w.Start(ctx)
	return w, nil
}
