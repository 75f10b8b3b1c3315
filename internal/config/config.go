// Package config loads and validates the arbor configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrMissingRoot is returned when no worktree root is configured.
// The root is the one required piece of configuration; there is no default.
var ErrMissingRoot = errors.New("worktree_root is not configured")

// Hooks holds commands run after lifecycle operations.
// Commands run with the worktree directory as working directory and the
// placeholders {path} and {branch} expanded.
type Hooks struct {
	PostAdd string `toml:"post_add"`
}

// Config holds the arbor configuration.
type Config struct {
	// WorktreeRoot is the base directory all worktrees are created under.
	// Must be absolute or start with ~. Required.
	WorktreeRoot string `toml:"worktree_root"`

	Hooks Hooks `toml:"hooks"`
}

// Path returns the config file location (~/.config/arbor/config.toml).
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "arbor", "config.toml"), nil
}

// Load reads the config file at path. A missing file is not an error: it
// yields a zero config, and validation reports the missing root.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration at the boundary, before the engine is
// constructed.
func (c Config) Validate() error {
	if c.WorktreeRoot == "" {
		return ErrMissingRoot
	}
	if c.WorktreeRoot[0] != '~' && !filepath.IsAbs(c.WorktreeRoot) {
		return fmt.Errorf("worktree_root must be absolute or start with ~, got %q", c.WorktreeRoot)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
