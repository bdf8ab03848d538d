package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle absorbs the burst of events editors emit for one save.
const settle = 100 * time.Millisecond

// Watch reloads path whenever it changes and hands each valid config to
// apply. Invalid reloads go to reject and the previous config stays in
// effect. It blocks until ctx ends.
func Watch(ctx context.Context, path string, apply func(*Config), reject func(error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config watch: %w", err)
	}
	// watch the directory so rename-on-save editors keep working
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("config watch: %w", err)
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

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
			if timer == nil {
				timer = time.NewTimer(settle)
			} else {
				timer.Reset(settle)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			cfg, err := Load(target)
			if err != nil {
				if reject != nil {
					reject(err)
				}
				continue
			}
			apply(cfg)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if reject != nil {
				reject(fmt.Errorf("config watch: %w", err))
			}
		}
	}
}
