// Package config loads and validates treescout configuration.
//
// Configuration is layered: built-in defaults, then the user file at
// <user config dir>/treescout/config.yaml, then the project file
// .treescout.yaml at the project root. Later layers override scalar
// settings; verb definitions from all layers accumulate.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/treescout/treescout/internal/errors"
	"github.com/treescout/treescout/internal/ignore"
	"github.com/treescout/treescout/internal/verb"
)

// ProjectConfigName is the per-project configuration file name.
const ProjectConfigName = ".treescout.yaml"

// Config is the complete treescout configuration.
type Config struct {
	Version int               `yaml:"version"`
	Walker  WalkerConfig      `yaml:"walker"`
	Output  OutputConfig      `yaml:"output"`
	Verbs   []verb.Definition `yaml:"verbs"`
}

// WalkerConfig configures tree walking.
type WalkerConfig struct {
	// MaxDepth limits descent below the root; 0 means unlimited.
	MaxDepth int `yaml:"max_depth"`
	// FollowSymlinks descends into symlinked directories.
	FollowSymlinks bool `yaml:"follow_symlinks"`
	// IncludeHidden emits dotfiles.
	IncludeHidden bool `yaml:"include_hidden"`
	// Workers bounds concurrent directory reads; 0 or 1 walks serially.
	Workers int `yaml:"workers"`
	// Exclude holds glob patterns pruned before ignore resolution runs.
	Exclude []string `yaml:"exclude"`
	// RespectIgnore toggles hierarchical ignore-rule resolution.
	RespectIgnore bool `yaml:"respect_ignore"`
}

// OutputConfig configures CLI presentation.
type OutputConfig struct {
	// Color is one of auto, always, never.
	Color string `yaml:"color"`
	// ShowOwner annotates entries with user:group names.
	ShowOwner bool `yaml:"show_owner"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Version: 1,
		Walker: WalkerConfig{
			Workers:       1,
			RespectIgnore: true,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// Load reads one configuration file over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeConfigNotFound, "config file not found: "+path, err)
		}
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.ConfigError("invalid config file "+path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadForDir builds the layered configuration in effect for dir.
// Missing layer files contribute nothing; a present but invalid file is an
// error.
func LoadForDir(dir string) (*Config, error) {
	cfg := DefaultConfig()
	var verbs []verb.Definition

	paths := []string{}
	if user := UserConfigPath(); user != "" {
		paths = append(paths, user)
	}
	paths = append(paths, ProjectConfigPath(dir))

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrap(errors.ErrCodeConfigInvalid, err)
		}
		layer := cfg
		layer.Verbs = nil
		if err := yaml.Unmarshal(data, &layer); err != nil {
			return nil, errors.ConfigError("invalid config file "+path, err)
		}
		verbs = append(verbs, layer.Verbs...)
		layer.Verbs = nil
		cfg = layer
	}

	cfg.Verbs = verbs
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New(errors.ErrCodeConfigWrite, "cannot encode config", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.New(errors.ErrCodeConfigWrite, "cannot create config directory", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(errors.ErrCodeConfigWrite, "cannot write "+path, err)
	}
	return nil
}

// Validate checks ranges and pattern syntax.
func (c *Config) Validate() error {
	if c.Walker.MaxDepth < 0 {
		return errors.ConfigError("walker.max_depth must be >= 0", nil).
			WithDetail("max_depth", fmt.Sprint(c.Walker.MaxDepth))
	}
	if c.Walker.Workers < 0 {
		return errors.ConfigError("walker.workers must be >= 0", nil).
			WithDetail("workers", fmt.Sprint(c.Walker.Workers))
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return errors.ConfigError("output.color must be auto, always or never", nil).
			WithDetail("color", c.Output.Color)
	}
	for _, pattern := range c.Walker.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.ConfigError("invalid exclude pattern", nil).
				WithDetail("pattern", pattern)
		}
	}
	return nil
}

// UserConfigPath returns the user-level configuration file location, or ""
// when no user config directory can be determined.
func UserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "treescout", "config.yaml")
}

// ProjectConfigPath returns the project configuration file for dir: at the
// enclosing repository root when there is one, else in dir itself.
func ProjectConfigPath(dir string) string {
	root, err := FindProjectRoot(dir)
	if err != nil {
		root = dir
	}
	return filepath.Join(root, ProjectConfigName)
}

// FindProjectRoot ascends from start to the nearest repository root.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err)
	}
	for {
		if ignore.IsRepo(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.ErrCodeFileNotFound, "no repository root above "+start, nil)
		}
		dir = parent
	}
}
