// Package watcher auto-ingests supported files dropped into watched
// directories. Events are debounced so an editor writing a file in
// several bursts triggers one ingestion, not five.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/illusthaey/savinghaey/internal/core/domain"
	"github.com/illusthaey/savinghaey/internal/core/ports/driven"
	"github.com/illusthaey/savinghaey/internal/core/ports/driving"
	"github.com/illusthaey/savinghaey/internal/logger"
)

// DefaultDebounce is how long a file must stay quiet before it is
// ingested.
const DefaultDebounce = 2 * time.Second

// Watcher ingests files appearing in watched directories.
type Watcher struct {
	engine   driving.Engine
	registry driven.ExtractorRegistry
	debounce time.Duration
}

// New creates a watcher over the given engine. A non-positive debounce
// falls back to DefaultDebounce.
func New(engine driving.Engine, registry driven.ExtractorRegistry, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		engine:   engine,
		registry: registry,
		debounce: debounce,
	}
}

// Run watches the given directories until the context is cancelled.
// Files created or modified under them are ingested once their events
// settle. The engine being busy postpones the batch to the next tick
// instead of dropping it.
func (w *Watcher) Run(ctx context.Context, dirs []string) error {
	if len(dirs) == 0 {
		return errors.New("no directories to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer fsw.Close()

	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		logger.Info("Watching %s", dir)
	}

	supported := make(map[string]bool)
	for _, ext := range w.registry.SupportedExtensions() {
		supported[ext] = true
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !supported[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}

			added, err := w.engine.AddFiles(ctx, paths)
			switch {
			case errors.Is(err, domain.ErrBusy):
				// Another task owns the engine; try again shortly.
				timer.Reset(w.debounce)
			case err != nil:
				logger.Warn("Auto-ingest failed: %v", err)
				pending = make(map[string]struct{})
			default:
				logger.Info("Auto-ingested %d file(s)", added)
				pending = make(map[string]struct{})
			}
		}
	}
}
