package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config file at path whenever it is written or replaced
// and passes each successfully loaded config to fn. It blocks until ctx is
// done. The parent directory is watched so that editors which save by
// renaming a temporary file are still seen.
func Watch(ctx context.Context, path string, fn func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("config watch %s: %w", path, err)
	}
	logger.DebugTagf("config", "Watching %s", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := LoadFile(path)
			if err != nil {
				logger.Warnf("Config reload failed: %v", err)
				continue
			}
			logger.Infof("Config reloaded from %s", path)
			fn(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("Config watcher error: %v", err)
		}
	}
}
