package watch

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

type countingCache struct {
	paths  []string
	clears int
}

func (c *countingCache) Invalidate(path string) { c.paths = append(c.paths, path) }
func (c *countingCache) Clear()                 { c.clears++ }

func newTestInvalidator(t *testing.T, logs *bytes.Buffer) (*Invalidator, *countingCache, *countingCache) {
	t.Helper()

	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	stat, results := &countingCache{}, &countingCache{}
	return &Invalidator{
		watcher: w,
		stat:    stat,
		results: results,
		logger:  slog.New(slog.NewTextHandler(logs, nil)),
	}, stat, results
}

func TestOverflowClearsStatAndResults(t *testing.T) {
	var logs bytes.Buffer
	inv, stat, results := newTestInvalidator(t, &logs)

	inv.handleError(fsnotify.ErrEventOverflow)

	require.Equal(t, 1, stat.clears)
	require.Equal(t, 1, results.clears)
	require.Contains(t, logs.String(), "level=WARN")
}

func TestOtherWatcherErrorsKeepCaches(t *testing.T) {
	var logs bytes.Buffer
	inv, stat, results := newTestInvalidator(t, &logs)

	inv.handleError(errors.New("boom"))

	require.Zero(t, stat.clears)
	require.Zero(t, results.clears)
	require.Contains(t, logs.String(), "boom")
}

func TestApplyInvalidatesPathAndParent(t *testing.T) {
	var logs bytes.Buffer
	inv, stat, results := newTestInvalidator(t, &logs)

	name := filepath.Join(t.TempDir(), "a.go")
	inv.apply(fsnotify.Event{Name: name, Op: fsnotify.Write})

	require.Equal(t, []string{name, filepath.Dir(name)}, stat.paths)
	require.Zero(t, stat.clears)
	require.Equal(t, 1, results.clears)
}

func TestApplyLogsUnwatchableDirectory(t *testing.T) {
	var logs bytes.Buffer
	inv, _, _ := newTestInvalidator(t, &logs)

	dir := filepath.Join(t.TempDir(), "sub")
	require.NoError(t, os.Mkdir(dir, 0o755))

	// a closed watcher rejects every Add
	require.NoError(t, inv.watcher.Close())
	inv.apply(fsnotify.Event{Name: dir, Op: fsnotify.Create})

	require.Contains(t, logs.String(), "level=WARN")
	require.Contains(t, logs.String(), "watch new directory")
}
