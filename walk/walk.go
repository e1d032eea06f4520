// Package walk enumerates the entries under a directory for glob queries.
package walk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Options controls which entries Walk reports.
type Options struct {
	// Dot includes entries whose name starts with ".", and descends into them.
	Dot bool

	// OnlyFiles suppresses directories from the report. They are still descended.
	OnlyFiles bool

	// FollowSymlinks resolves symlinks with Stat and descends into linked directories.
	FollowSymlinks bool
}

// VisitFunc receives each entry's slash-separated path relative to the root.
type VisitFunc func(rel string, info fs.FileInfo) error

// Walker walks a directory tree through FS.
type Walker struct {
	FS FS
}

/*
Walk visits every entry below root in lexical order per directory.

Metadata comes from Lstat, or from Stat for symlinks when FollowSymlinks is set.
Entries that vanish mid-walk and subdirectories that cannot be read for lack of
permission are skipped. Any other error stops the walk and is returned.
ctx is checked before each directory is read.
*/
func (w Walker) Walk(ctx context.Context, root string, opts Options, fn VisitFunc) error {
	info, err := w.FS.Stat(root)
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("walk %s: not a directory", root)
	}

	return w.walkDir(ctx, root, "", opts, fn, []fs.FileInfo{info})
}

func (w Walker) walkDir(
	ctx context.Context,
	dir, rel string,
	opts Options,
	fn VisitFunc,
	ancestors []fs.FileInfo,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := w.FS.ReadDir(dir)
	if err != nil {
		if rel != "" && errors.Is(err, fs.ErrPermission) {
			return nil
		}
		return fmt.Errorf("read dir %s: %w", dir, err)
	}

	for _, ent := range entries {
		name := ent.Name()
		if !opts.Dot && strings.HasPrefix(name, ".") {
			continue
		}

		full := filepath.Join(dir, name)
		childRel := path.Join(rel, name)

		info, err := w.info(full, opts)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("stat %s: %w", full, err)
		}

		if !(opts.OnlyFiles && info.IsDir()) {
			if err := fn(childRel, info); err != nil {
				return err
			}
		}

		if !info.IsDir() || revisits(ancestors, info) {
			continue
		}

		if err := w.walkDir(ctx, full, childRel, opts, fn, append(ancestors, info)); err != nil {
			return err
		}
	}

	return nil
}

// info returns lstat metadata, resolved through stat for symlinks when following them.
// A dangling symlink keeps its lstat metadata.
func (w Walker) info(full string, opts Options) (fs.FileInfo, error) {
	info, err := w.FS.Lstat(full)
	if err != nil {
		return nil, err
	}

	if opts.FollowSymlinks && info.Mode()&fs.ModeSymlink != 0 {
		if target, err := w.FS.Stat(full); err == nil {
			return target, nil
		}
	}
	return info, nil
}

// revisits reports whether dir is one of its own ancestors, i.e. a symlink cycle.
func revisits(ancestors []fs.FileInfo, dir fs.FileInfo) bool {
	for _, a := range ancestors {
		if os.SameFile(a, dir) {
			return true
		}
	}
	return false
}
