// Package config loads the optional user configuration for git-ignore.
//
// Configuration lives at $XDG_CONFIG_HOME/git-ignore/config.yaml
// (falling back to ~/.config/git-ignore/config.yaml). A missing file
// yields defaults; a malformed or invalid file is a configuration
// error. Environment variables override file values.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	gierrors "github.com/ignoretools/git-ignore/internal/errors"
)

// Target values accepted by the "target" key.
const (
	TargetGitignore = "gitignore"
	TargetExclude   = "exclude"
	TargetGlobal    = "global"
)

// Config represents the user configuration.
type Config struct {
	// Target is the default ignore surface when no flag is given:
	// gitignore, exclude, or global.
	Target string `yaml:"target"`

	// Validation is the default validation level: none, warn, or strict.
	Validation string `yaml:"validation"`

	// Color controls console color: auto, always, or never.
	Color string `yaml:"color"`

	// GitTimeout bounds each git subprocess invocation.
	GitTimeout time.Duration `yaml:"git_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Target:     TargetGitignore,
		Validation: "warn",
		Color:      "auto",
		GitTimeout: 10 * time.Second,
	}
}

// Dir returns the configuration directory for git-ignore.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "git-ignore")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "git-ignore")
	}
	return filepath.Join(home, ".config", "git-ignore")
}

// Path returns the configuration file path.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads the configuration from the default path.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the configuration from an explicit path. A missing
// file is not an error and yields defaults (plus env overrides).
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, gierrors.New(gierrors.ErrCodeConfigInvalid,
				"invalid config file: "+path, err).
				WithDetail("path", path)
		}
	} else if !os.IsNotExist(err) {
		return nil, gierrors.New(gierrors.ErrCodeConfigInvalid,
			"cannot read config file: "+path, err).
			WithDetail("path", path)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies GIT_IGNORE_* environment variables on top
// of the file values. Env wins over file, flags win over env.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GIT_IGNORE_TARGET"); v != "" {
		c.Target = v
	}
	if v := os.Getenv("GIT_IGNORE_VALIDATION"); v != "" {
		c.Validation = v
	}
	if v := os.Getenv("GIT_IGNORE_COLOR"); v != "" {
		c.Color = v
	}
	if v := os.Getenv("GIT_IGNORE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.GitTimeout = d
		}
	}
}

// Validate rejects values outside the accepted sets.
func (c *Config) Validate() error {
	switch c.Target {
	case TargetGitignore, TargetExclude, TargetGlobal:
	default:
		return gierrors.Newf(gierrors.ErrCodeConfigInvalid,
			"invalid target %q (expected gitignore, exclude, or global)", c.Target)
	}

	switch c.Validation {
	case "none", "warn", "strict":
	default:
		return gierrors.Newf(gierrors.ErrCodeConfigInvalid,
			"invalid validation level %q (expected none, warn, or strict)", c.Validation)
	}

	switch c.Color {
	case "auto", "always", "never":
	default:
		return gierrors.Newf(gierrors.ErrCodeConfigInvalid,
			"invalid color mode %q (expected auto, always, or never)", c.Color)
	}

	if c.GitTimeout <= 0 {
		return gierrors.Newf(gierrors.ErrCodeConfigInvalid,
			"git_timeout must be positive, got %s", c.GitTimeout)
	}

	return nil
}
