// Package config watches the dashboard configuration document and reloads
// it on change.
package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/faciam-dev/listdash/internal/logger"
	pkgconfig "github.com/faciam-dev/listdash/pkg/config"
)

// Watch reloads path whenever it changes and hands the new configuration to
// apply. Reload failures are logged and the previous configuration stays in
// effect. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, apply func(*pkgconfig.Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory: editors replace files on save, which drops the
	// watch when it targets the file itself.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}

	var debounce *time.Timer
	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(200*time.Millisecond, func() {
				cfg, err := pkgconfig.Load(path)
				if err != nil {
					logger.L.Error("reload config", "path", path, "err", err)
					return
				}
				logger.L.Info("config reloaded", "path", path, "list", cfg.ListName)
				apply(cfg)
			})
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.L.Error("config watcher", "err", err)
		}
	}
}
