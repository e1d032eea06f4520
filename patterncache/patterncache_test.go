package patterncache_test

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/krisalay/glob-cache/engine"
	"github.com/krisalay/glob-cache/patterncache"
	"github.com/krisalay/glob-cache/types"
)

//
// ================= TEST COMPILER =================
//

var errBadPattern = errors.New("bad pattern")

// countingCompiler builds suffix matchers and rejects patterns containing "[".
type countingCompiler struct {
	calls atomic.Int64
	delay time.Duration
}

func (c *countingCompiler) Compile(pattern string, _ types.CompileOptions) (types.Matcher, error) {
	c.calls.Add(1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	if strings.Contains(pattern, "[") {
		return nil, errBadPattern
	}

	suffix := strings.TrimPrefix(pattern, "*")
	return types.MatcherFunc(func(name string) bool {
		return strings.HasSuffix(name, suffix)
	}), nil
}

//
// ================= BASIC OPERATIONS =================
//

func TestCompileOnceThenHit(t *testing.T) {
	comp := &countingCompiler{}
	c := patterncache.New(comp, nil, 4)

	opts := types.CompileOptions{Separators: "/"}

	m1, err := c.GetOrCompile("*.go", opts)
	require.NoError(t, err)
	require.True(t, m1.Match("main.go"))

	m2, err := c.GetOrCompile("*.go", types.CompileOptions{Separators: "/"})
	require.NoError(t, err)

	require.Equal(t, int64(1), comp.calls.Load())
	require.Equal(t, 1, c.Size())
	require.True(t, m2.Match("x.go"))
}

func TestDistinctOptionsCompileSeparately(t *testing.T) {
	comp := &countingCompiler{}
	c := patterncache.New(comp, nil, 4)

	_, err := c.GetOrCompile("*.go", types.CompileOptions{})
	require.NoError(t, err)
	_, err = c.GetOrCompile("*.go", types.CompileOptions{NoCase: true})
	require.NoError(t, err)

	require.Equal(t, 2, c.Size())
	require.Equal(t, int64(2), comp.calls.Load())
}

func TestFailedCompileIsNotCached(t *testing.T) {
	comp := &countingCompiler{}
	c := patterncache.New(comp, nil, 4)

	_, err := c.GetOrCompile("[", types.CompileOptions{})
	require.ErrorIs(t, err, errBadPattern)
	require.Equal(t, 0, c.Size())

	_, err = c.GetOrCompile("[", types.CompileOptions{})
	require.ErrorIs(t, err, errBadPattern)
	require.Equal(t, int64(2), comp.calls.Load(), "failed compilation must be retried")
}

func TestClear(t *testing.T) {
	c := patterncache.New(&countingCompiler{}, nil, 4)

	for _, p := range []string{"*.a", "*.b", "*.c"} {
		_, err := c.GetOrCompile(p, types.CompileOptions{})
		require.NoError(t, err)
	}
	require.Equal(t, 3, c.Size())

	c.Clear()
	require.Equal(t, 0, c.Size())
}

func TestMetrics(t *testing.T) {
	counters := &types.Counters{}
	eng := engine.NewCacheEngine(nil, counters, nil)
	c := patterncache.New(&countingCompiler{}, eng, 4)

	_, _ = c.GetOrCompile("*.go", types.CompileOptions{})
	_, _ = c.GetOrCompile("*.go", types.CompileOptions{})

	snap := counters.Snapshot(types.PatternTable)
	require.Equal(t, int64(1), snap.Hits)
	require.Equal(t, int64(1), snap.Misses)
}

//
// ================= CONCURRENCY TEST =================
//

func TestConcurrentMissesCompileOnce(t *testing.T) {
	comp := &countingCompiler{delay: 20 * time.Millisecond}
	c := patterncache.New(comp, nil, 4)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			m, err := c.GetOrCompile("*.go", types.CompileOptions{})
			if err != nil || !m.Match("a.go") {
				t.Errorf("unexpected result: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Equal(t, int64(1), comp.calls.Load())
	require.Equal(t, 1, c.Size())
}
