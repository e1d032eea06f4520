// Package config loads the cache settings used by the globcache command.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Config errors.
var (
	ErrInvalidConfig  = errors.New("invalid config")
	ErrConfigFileRead = errors.New("cannot read config file")
)

// Config holds cache sizing, staleness and default query options.
type Config struct {
	Shards         int      `json:"shards" yaml:"shards"`
	ResultTTL      Duration `json:"result_ttl" yaml:"result_ttl"`
	Watch          bool     `json:"watch" yaml:"watch"`
	Dot            bool     `json:"dot" yaml:"dot"`
	OnlyFiles      bool     `json:"only_files" yaml:"only_files"`
	FollowSymlinks bool     `json:"follow_symlinks" yaml:"follow_symlinks"`
	NoCase         bool     `json:"nocase" yaml:"nocase"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Shards:    16,
		ResultTTL: Duration(5000 * time.Millisecond),
		OnlyFiles: true,
	}
}

/*
Load reads path over the defaults. ".yaml" and ".yml" files are YAML; anything
else is JSON with comments and trailing commas allowed. Unknown fields are
rejected in both formats.
*/
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, err)
	}

	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = parseYAML(data, &cfg)
	default:
		err = parseJSONC(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", ErrInvalidConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", ErrInvalidConfig, path, err)
	}

	return cfg, nil
}

func parseJSONC(data []byte, cfg *Config) error {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("invalid JSONC: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()

	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func parseYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	// an empty document leaves the defaults in place
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	return nil
}

// Validate rejects settings no cache can run with.
func (c Config) Validate() error {
	if c.Shards < 0 {
		return fmt.Errorf("shards must not be negative, got %d", c.Shards)
	}
	if c.ResultTTL < 0 {
		return fmt.Errorf("result_ttl must not be negative, got %s", time.Duration(c.ResultTTL))
	}
	return nil
}

// Format returns the config as indented JSON.
func Format(c Config) (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}
	return string(data), nil
}
