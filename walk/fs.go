package walk

import (
	"io/fs"
	"os"

	"github.com/krisalay/glob-cache/types"
)

// FS is the filesystem access layer the walker reads through.
type FS interface {
	ReadDir(name string) ([]fs.DirEntry, error)
	Lstat(name string) (fs.FileInfo, error)
	Stat(name string) (fs.FileInfo, error)
}

// OSFS reads the host filesystem.
type OSFS struct{}

func (OSFS) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }
func (OSFS) Lstat(name string) (fs.FileInfo, error)     { return os.Lstat(name) }
func (OSFS) Stat(name string) (fs.FileInfo, error)      { return os.Stat(name) }

// StatCache is the subset of the stat cache CachedFS needs.
type StatCache interface {
	Get(path string, kind types.StatKind) (fs.FileInfo, bool)
	Set(path string, info fs.FileInfo, kind types.StatKind)
}

/*
CachedFS answers Lstat and Stat from a stat cache before touching the
underlying FS. Successful lookups are recorded; errors are not, so a missing
path is looked up again next time. ReadDir is never cached.
*/
type CachedFS struct {
	FS    FS
	Cache StatCache
}

func (c CachedFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return c.FS.ReadDir(name)
}

func (c CachedFS) Lstat(name string) (fs.FileInfo, error) {
	return c.stat(name, types.Lstat, c.FS.Lstat)
}

func (c CachedFS) Stat(name string) (fs.FileInfo, error) {
	return c.stat(name, types.Stat, c.FS.Stat)
}

func (c CachedFS) stat(name string, kind types.StatKind, call func(string) (fs.FileInfo, error)) (fs.FileInfo, error) {
	if info, ok := c.Cache.Get(name, kind); ok {
		return info, nil
	}

	info, err := call(name)
	if err != nil {
		return nil, err
	}

	c.Cache.Set(name, info, kind)
	return info, nil
}
