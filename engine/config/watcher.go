package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/Aalexdev/vk-engine/engine/core"
	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// Editors often emit several writes for a single save.
const reloadDebounce = 100 * time.Millisecond

/**
 * @brief Watches the config file and calls onChange with every version that
 * parses and validates. Invalid versions are logged and skipped. Blocks until
 * ctx is done.
 *
 * The parent directory is watched instead of the file so that atomic
 * rename-on-save keeps being noticed.
 */
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create config watcher")
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(abs))
	}
	core.LogDebug("Watching config %s", abs)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != abs {
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				debounce = time.After(reloadDebounce)
			}

		case <-debounce:
			debounce = nil
			cfg, err := Load(abs)
			if err != nil {
				core.LogWarn("ignoring config change: %s", err)
				continue
			}
			core.LogInfo("Config %s reloaded.", abs)
			onChange(cfg)

		case e, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			core.LogError(e.Error())
		}
	}
}
