package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	flag "github.com/spf13/pflag"

	globcache "github.com/krisalay/glob-cache"
	"github.com/krisalay/glob-cache/config"
	"github.com/krisalay/glob-cache/types"
	"github.com/krisalay/glob-cache/watch"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flagSet := flag.NewFlagSet("globcache", flag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.Usage = func() {
		fmt.Fprintln(stderr, "Usage: globcache [flags] pattern...")
		flagSet.PrintDefaults()
	}

	cwd := flagSet.StringP("cwd", "C", ".", "Directory to match under")
	cfgPath := flagSet.StringP("config", "c", "", "Config file (.json, .jsonc, .yaml)")
	repeat := flagSet.IntP("repeat", "n", 1, "Run the query this many times")
	interval := flagSet.Duration("interval", 0, "Pause between repeated runs")
	ttl := flagSet.Duration("ttl", 0, "Result cache TTL (overrides config)")
	dot := flagSet.Bool("dot", false, "Match entries starting with '.'")
	dirs := flagSet.Bool("dirs", false, "Include directories in results")
	follow := flagSet.BoolP("follow", "L", false, "Follow symlinks")
	nocase := flagSet.BoolP("ignore-case", "i", false, "Match case-insensitively")
	watchFS := flagSet.BoolP("watch", "w", false, "Invalidate caches on filesystem changes")
	verbose := flagSet.BoolP("verbose", "v", false, "Debug logging to stderr")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	patterns := flagSet.Args()
	if len(patterns) == 0 {
		flagSet.Usage()
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			logger.Error("load config", slog.Any("error", err))
			return 1
		}
		cfg = loaded
	}

	// explicit flags win over the config file
	if flagSet.Changed("ttl") {
		cfg.ResultTTL = config.Duration(*ttl)
	}
	if flagSet.Changed("dot") {
		cfg.Dot = *dot
	}
	if flagSet.Changed("dirs") {
		cfg.OnlyFiles = !*dirs
	}
	if flagSet.Changed("follow") {
		cfg.FollowSymlinks = *follow
	}
	if flagSet.Changed("ignore-case") {
		cfg.NoCase = *nocase
	}
	if flagSet.Changed("watch") {
		cfg.Watch = *watchFS
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid settings", slog.Any("error", err))
		return 2
	}

	caches := globcache.New(globcache.Config{
		Shards:    cfg.Shards,
		ResultTTL: time.Duration(cfg.ResultTTL),
		Logger:    logger,
	})

	if cfg.Watch {
		inv, err := watch.New(caches.Stat, caches.Results, logger)
		if err != nil {
			logger.Error("start watcher", slog.Any("error", err))
			return 1
		}
		defer inv.Close()

		if err := inv.Add(*cwd); err != nil {
			logger.Error("watch", slog.Any("error", err))
			return 1
		}
	}

	opts := globcache.Options{
		Dot:            cfg.Dot,
		OnlyFiles:      cfg.OnlyFiles,
		FollowSymlinks: cfg.FollowSymlinks,
		NoCase:         cfg.NoCase,
	}

	for i := 0; i < *repeat; i++ {
		if i > 0 && *interval > 0 {
			select {
			case <-ctx.Done():
				return 130
			case <-time.After(*interval):
			}
		}

		start := time.Now()
		results, err := caches.Glob(ctx, patterns, *cwd, opts)
		if err != nil {
			logger.Error("glob", slog.Any("error", err))
			return 1
		}

		if i == 0 {
			for _, r := range results {
				fmt.Fprintln(stdout, r)
			}
		}
		logger.Info("run",
			slog.Int("n", i+1),
			slog.Int("matches", len(results)),
			slog.Duration("took", time.Since(start)),
		)
	}

	printStats(stderr, caches)
	return 0
}

func printStats(w io.Writer, caches *globcache.Caches) {
	stats := caches.CacheStats()
	counters := caches.Counters()

	fmt.Fprintln(w, "\n==================== CACHE STATS ====================")
	for _, row := range []struct {
		name  string
		table types.Table
		size  int
	}{
		{"PATTERN", types.PatternTable, stats.PatternCacheSize},
		{"RESULT", types.ResultTable, stats.ResultCacheSize},
		{"STAT", types.StatTable, stats.StatCacheSize},
	} {
		snap := counters.Snapshot(row.table)
		fmt.Fprintf(w, "%-8s: size=%d hits=%d misses=%d expired=%d hit-rate=%.1f%%\n",
			row.name, row.size, snap.Hits, snap.Misses, snap.Expired, snap.HitRate())
	}
}
