package resultcache_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/glob-cache/engine"
	"github.com/krisalay/glob-cache/expiration"
	"github.com/krisalay/glob-cache/resultcache"
	"github.com/krisalay/glob-cache/types"
)

//
// ================= HELPER: CACHE WITH A MANUAL CLOCK =================
//

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestCache() (*resultcache.Cache, *clock, *types.Counters) {
	clk := &clock{now: time.Unix(1_700_000_000, 0)}
	counters := &types.Counters{}

	eng := engine.NewCacheEngine(expiration.ExpireAfterWrite{}, counters, nil)
	eng.Now = clk.Now

	return resultcache.New(eng, 4), clk, counters
}

//
// ================= BASIC OPERATIONS =================
//

func TestMissOnEmpty(t *testing.T) {
	c, _, _ := newTestCache()

	got, ok := c.Get("nope")
	require.False(t, ok)
	require.Nil(t, got)
}

func TestSetThenGet(t *testing.T) {
	c, _, _ := newTestCache()

	c.Set("k", []string{"a.go", "b.go"})

	got, ok := c.Get("k")
	require.True(t, ok)
	if diff := cmp.Diff([]string{"a.go", "b.go"}, got); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyResultIsAHit(t *testing.T) {
	c, _, _ := newTestCache()

	c.Set("k", nil)

	got, ok := c.Get("k")
	require.True(t, ok)
	require.Empty(t, got)
}

func TestSetOverwritesAndRestartsAge(t *testing.T) {
	c, clk, _ := newTestCache()

	c.Set("k", []string{"old"})
	clk.Advance(80 * time.Millisecond)
	c.Set("k", []string{"new"})
	clk.Advance(80 * time.Millisecond)

	got, ok := c.GetWithTTL("k", 100*time.Millisecond)
	require.True(t, ok)
	require.Equal(t, []string{"new"}, got)
	require.Equal(t, 1, c.Size())
}

//
// ================= TTL TEST =================
//

func TestTTLBoundary(t *testing.T) {
	c, clk, counters := newTestCache()

	c.Set("k", []string{"x"})

	clk.Advance(50 * time.Millisecond)
	got, ok := c.GetWithTTL("k", 100*time.Millisecond)
	require.True(t, ok)
	require.Equal(t, []string{"x"}, got)

	before := c.Size()

	clk.Advance(100 * time.Millisecond)
	got, ok = c.GetWithTTL("k", 100*time.Millisecond)
	require.False(t, ok)
	require.Nil(t, got)
	require.Equal(t, before-1, c.Size())
	require.Equal(t, int64(1), counters.Snapshot(types.ResultTable).Expired)
}

func TestDefaultTTL(t *testing.T) {
	c, clk, _ := newTestCache()

	c.Set("k", []string{"x"})

	clk.Advance(resultcache.DefaultTTL)
	_, ok := c.Get("k")
	require.True(t, ok)

	clk.Advance(time.Millisecond)
	_, ok = c.Get("k")
	require.False(t, ok)
}

func TestStricterTTLPerCall(t *testing.T) {
	c, clk, _ := newTestCache()

	c.Set("k", []string{"x"})
	clk.Advance(time.Millisecond)

	_, ok := c.GetWithTTL("k", 0)
	require.False(t, ok)
	require.Equal(t, 0, c.Size())
}

func TestExpiredEntriesStayUntilAccessed(t *testing.T) {
	c, clk, _ := newTestCache()

	c.Set("a", []string{"1"})
	c.Set("b", []string{"2"})
	clk.Advance(time.Hour)

	require.Equal(t, 2, c.Size())

	_, ok := c.Get("a")
	require.False(t, ok)
	require.Equal(t, 1, c.Size())
}

//
// ================= DEFENSIVE COPY =================
//

func TestStoredSliceIsCopied(t *testing.T) {
	c, _, _ := newTestCache()

	in := []string{"a", "b"}
	c.Set("k", in)
	in[0] = "mutated"

	got, _ := c.Get("k")
	require.Equal(t, []string{"a", "b"}, got)
}

func TestReturnedSliceIsCopied(t *testing.T) {
	c, _, _ := newTestCache()

	c.Set("k", []string{"a", "b"})

	first, _ := c.Get("k")
	first[0] = "mutated"
	_ = append(first[:1], "appended")

	second, _ := c.Get("k")
	require.Equal(t, []string{"a", "b"}, second)
}

func TestClear(t *testing.T) {
	c, _, _ := newTestCache()

	c.Set("a", []string{"1"})
	c.Set("b", []string{"2"})
	c.Clear()

	require.Equal(t, 0, c.Size())
	_, ok := c.Get("a")
	require.False(t, ok)
}
