// Package config contains the loader and strongly typed model for .github/mergebot.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/codex-k8s/mergebot/internal/env"
)

// DefaultPath is where mergebot looks for its config when --config is not given.
const DefaultPath = ".github/mergebot.yaml"

// Config mirrors the structure of mergebot.yaml. Every field is optional;
// flags and environment variables take precedence over it.
type Config struct {
	// Repository is the owner/name slug of the target repository.
	Repository string `yaml:"repository,omitempty"`
	// ServerURL is the web URL of the GitHub instance (e.g. https://github.com).
	ServerURL string `yaml:"serverURL,omitempty"`
	// APIURL is the REST API base URL, set for GitHub Enterprise Server.
	APIURL string `yaml:"apiURL,omitempty"`
	// RepoURL overrides the base URL used for run links.
	RepoURL string `yaml:"repoURL,omitempty"`
	// EnvFiles lists .env files loaded on top of the process environment.
	EnvFiles []string `yaml:"envFiles,omitempty"`
	// LogLevel is the default log level (debug, info, warn, error).
	LogLevel string `yaml:"logLevel,omitempty"`
	// Timeout bounds the whole comment operation (e.g. "60s").
	Timeout string `yaml:"timeout,omitempty"`
}

// LoadOptions controls how Load treats the config file and extra env files.
type LoadOptions struct {
	// Optional makes a missing config file a no-op instead of an error.
	Optional bool
	// EnvFiles are additional .env files, relative to the working directory,
	// merged after the files listed in the config.
	EnvFiles []string
}

// Load reads the config at path (when present), loads the env files it lists
// plus opts.EnvFiles, and returns the config together with the merged
// environment: process env, then config envFiles, then opts.EnvFiles.
func Load(path string, opts LoadOptions) (*Config, env.Vars, error) {
	cfg := &Config{}
	baseDir := "."

	if strings.TrimSpace(path) != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve config path: %w", err)
		}
		raw, err := os.ReadFile(absPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, nil, fmt.Errorf("parse config %q: %w", absPath, err)
			}
			// envFiles in the config are relative to the repository root,
			// which is the parent of .github for the default layout.
			baseDir = filepath.Dir(absPath)
			if filepath.Base(baseDir) == ".github" {
				baseDir = filepath.Dir(baseDir)
			}
		case errors.Is(err, fs.ErrNotExist) && opts.Optional:
		default:
			return nil, nil, fmt.Errorf("read config %q: %w", absPath, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}

	cfgFileVars, err := env.LoadEnvFiles(baseDir, cfg.EnvFiles)
	if err != nil {
		return nil, nil, err
	}
	extraVars, err := env.LoadEnvFiles(".", opts.EnvFiles)
	if err != nil {
		return nil, nil, err
	}

	return cfg, env.Merge(env.FromOS(), cfgFileVars, extraVars), nil
}

// TimeoutDuration parses Timeout, returning 0 when it is unset.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	return ParseTimeout(c.Timeout)
}

// ParseTimeout parses a positive Go duration. Blank input yields 0.
func ParseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", raw)
	}
	return d, nil
}

func (c *Config) validate() error {
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if repo := strings.TrimSpace(c.Repository); repo != "" {
		parts := strings.Split(repo, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("invalid repository %q in config, expected owner/repo", repo)
		}
	}
	return nil
}
