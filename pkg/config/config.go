// Package config loads and saves the cardstack TOML configuration file.
//
// The file carries the layout geometry plus settings for the reference host:
// the preview viewport, the deck store, the artifact cache and the preview
// server. Missing keys keep their defaults; unknown keys are rejected so typos
// do not silently fall back to defaults.
//
// Example file:
//
//	[layout.stacked]
//	reveal = 100.0
//	bounce_factor = 0.3
//
//	[layout.exposed]
//	pinning_mode = "below"
//
//	[deck]
//	store = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/layout"
)

const appName = "cardstack"

// Store and cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config is the complete configuration file.
type Config struct {
	Layout   layout.Config  `toml:"layout"`
	Viewport ViewportConfig `toml:"viewport"`
	Deck     DeckConfig     `toml:"deck"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
}

// ViewportConfig is the viewport used for previews and renders.
type ViewportConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// DeckConfig selects where the play command keeps its deck.
type DeckConfig struct {
	Store         string `toml:"store"`
	Path          string `toml:"path,omitempty"`
	RedisAddr     string `toml:"redis_addr,omitempty"`
	MongoURI      string `toml:"mongo_uri,omitempty"`
	MongoDatabase string `toml:"mongo_database,omitempty"`
}

// CacheConfig selects the artifact cache backend. Prefix namespaces every
// cache and Redis deck key, so several hosts can share one backend.
type CacheConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir,omitempty"`
	RedisAddr string `toml:"redis_addr,omitempty"`
	TTL       string `toml:"ttl"`
	Prefix    string `toml:"prefix,omitempty"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout:   layout.DefaultConfig(),
		Viewport: ViewportConfig{Width: 320, Height: 480},
		Deck:     DeckConfig{Store: BackendFile},
		Cache:    CacheConfig{Backend: BackendFile, TTL: "168h"},
		Server:   ServerConfig{Addr: "localhost:8080"},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "viewport size cannot be negative: %vx%v", c.Viewport.Width, c.Viewport.Height)
	}
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendMongo}, c.Deck.Store) {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown deck store %q (must be file, redis or mongo)", c.Deck.Store)
	}
	if !slices.Contains([]string{BackendNone, BackendFile, BackendRedis}, c.Cache.Backend) {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q (must be none, file or redis)", c.Cache.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// CacheTTL parses the cache TTL. An empty value means no expiry.
func (c Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidConfig, err, "cache ttl")
	}
	return d, nil
}

// Dir returns the configuration directory ($XDG_CONFIG_HOME/cardstack or
// ~/.config/cardstack).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Decode reads a configuration from r on top of the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the configuration file at path. When path is empty the default
// path is used and a missing file yields the defaults; an explicitly named
// file must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if explicit {
				return Config{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", path)
			}
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Save writes cfg to path, creating parent directories. It refuses to
// overwrite an existing file unless force is set.
func Save(path string, cfg Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errs.New(errs.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
		}
	}
	var buf bytes.Buffer
	if err := Encode(&buf, cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
