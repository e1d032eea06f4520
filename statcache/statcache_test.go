package statcache_test

import (
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/krisalay/glob-cache/statcache"
	"github.com/krisalay/glob-cache/types"
)

type fakeInfo struct {
	name string
	mode fs.FileMode
}

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return 0 }
func (f fakeInfo) Mode() fs.FileMode  { return f.mode }
func (f fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool        { return f.mode.IsDir() }
func (f fakeInfo) Sys() any           { return nil }

func TestSetGet(t *testing.T) {
	c := statcache.New(nil, 4)
	info := fakeInfo{name: "p"}

	c.Set("/p", info, types.Lstat)

	got, ok := c.Get("/p", types.Lstat)
	require.True(t, ok)
	require.Equal(t, info, got)
}

func TestDefaultKindIsLstat(t *testing.T) {
	c := statcache.New(nil, 4)
	info := fakeInfo{name: "p"}

	c.Set("/p", info, types.Lstat)

	got, ok := c.Get("/p", "")
	require.True(t, ok)
	require.Equal(t, info, got)
}

func TestKindsDoNotAlias(t *testing.T) {
	c := statcache.New(nil, 4)

	c.Set("/p", fakeInfo{name: "link", mode: fs.ModeSymlink}, types.Lstat)

	got, ok := c.Get("/p", types.Stat)
	require.False(t, ok)
	require.Nil(t, got)

	c.Set("/p", fakeInfo{name: "target"}, types.Stat)
	require.Equal(t, 2, c.Size())

	l, _ := c.Get("/p", types.Lstat)
	s, _ := c.Get("/p", types.Stat)
	require.Equal(t, "link", l.Name())
	require.Equal(t, "target", s.Name())
}

func TestInvalidateRemovesBothKindsForPathOnly(t *testing.T) {
	c := statcache.New(nil, 4)

	c.Set("/p", fakeInfo{name: "p"}, types.Lstat)
	c.Set("/p", fakeInfo{name: "p"}, types.Stat)
	c.Set("/q", fakeInfo{name: "q"}, types.Lstat)

	c.Invalidate("/p")

	require.Equal(t, 1, c.Size())
	_, ok := c.Get("/q", types.Lstat)
	require.True(t, ok)
}

func TestClear(t *testing.T) {
	c := statcache.New(nil, 4)

	c.Set("/a", fakeInfo{name: "a"}, types.Lstat)
	c.Set("/b", fakeInfo{name: "b"}, types.Stat)
	c.Clear()

	require.Equal(t, 0, c.Size())
}
