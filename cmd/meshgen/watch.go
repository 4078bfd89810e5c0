package main

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"mesh-generator/internal/config"
	"mesh-generator/internal/logger"
	"mesh-generator/internal/recipe"
)

// settle is the quiet period required after the last change before a
// rebuild starts.
const settle = 200 * time.Millisecond

// watchRecipe rebuilds every time the recipe file changes, until ctx ends.
// It watches the file's directory and filters events by name.
func watchRecipe(ctx context.Context, flags *config.Flags) error {
	path := config.Path(flags)
	if path == "" {
		return errors.New("no recipe file to watch; pass -config")
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	logger.Info("watching recipe", zap.String("path", path))

	timer := time.NewTimer(settle)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer.Reset(settle)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			rebuild(ctx, flags)
		}
	}
}

// rebuild reloads the recipe and reruns the export. Failures are logged and
// the watch continues.
func rebuild(ctx context.Context, flags *config.Flags) {
	cfg, err := config.Load(flags)
	if err != nil {
		logger.Error("reload failed", zap.Error(err))
		return
	}
	if _, err := recipe.Run(ctx, cfg); err != nil {
		logger.Error("rebuild failed", zap.Error(err))
	}
}
