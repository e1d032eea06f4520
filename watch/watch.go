// Package watch invalidates cache entries when the filesystem under a root changes.
package watch

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Clearer drops everything it holds.
type Clearer interface {
	Clear()
}

// StatInvalidator drops cached metadata for one path, or for every path.
type StatInvalidator interface {
	Clearer
	Invalidate(path string)
}

/*
Invalidator turns filesystem events into explicit cache invalidation.

For every event it drops the stat entries of the changed path and of its
parent directory, then clears the result cache: any stored query may have
included or excluded the changed path. New directories are watched as they
appear. When the watcher reports a queue overflow, events were lost, so both
caches are cleared.

Invalidation is best-effort. Events race with lookups, so a query running
while a file changes can still store a stale result until the next event or
its TTL.
*/
type Invalidator struct {
	watcher *fsnotify.Watcher
	stat    StatInvalidator
	results Clearer
	logger  *slog.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New starts an invalidator with no watched roots. Call Close to stop it.
func New(stat StatInvalidator, results Clearer, logger *slog.Logger) (*Invalidator, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	inv := &Invalidator{
		watcher: w,
		stat:    stat,
		results: results,
		logger:  logger,
	}

	inv.wg.Add(1)
	go inv.worker()

	return inv, nil
}

// Add watches root and every directory below it. A relative root is resolved
// against the working directory, so event paths are always absolute.
func (i *Invalidator) Add(root string) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable subtrees are simply not watched
			return nil
		}
		if d.IsDir() {
			if err := i.watcher.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
}

func (i *Invalidator) worker() {
	defer i.wg.Done()

	for {
		select {
		case ev, ok := <-i.watcher.Events:
			if !ok {
				return
			}
			i.apply(ev)

		case err, ok := <-i.watcher.Errors:
			if !ok {
				return
			}
			i.handleError(err)
		}
	}
}

func (i *Invalidator) handleError(err error) {
	// a dropped event may hide any change, so drop everything derived
	if errors.Is(err, fsnotify.ErrEventOverflow) {
		i.stat.Clear()
		i.results.Clear()
	}
	i.logger.Warn("watcher error", slog.Any("error", err))
}

func (i *Invalidator) apply(ev fsnotify.Event) {
	i.stat.Invalidate(ev.Name)
	i.stat.Invalidate(filepath.Dir(ev.Name))
	i.results.Clear()

	if ev.Has(fsnotify.Create) {
		if info, err := os.Lstat(ev.Name); err == nil && info.IsDir() {
			if err := i.Add(ev.Name); err != nil {
				i.logger.Warn("watch new directory",
					slog.String("path", ev.Name),
					slog.Any("error", err),
				)
			}
		}
	}

	i.logger.Debug("cache invalidated",
		slog.String("path", ev.Name),
		slog.String("op", ev.Op.String()),
	)
}

// Close stops watching and waits for the worker to exit. It is safe to call twice.
func (i *Invalidator) Close() error {
	var err error
	i.closeOnce.Do(func() {
		err = i.watcher.Close()
		i.wg.Wait()
	})
	return err
}
