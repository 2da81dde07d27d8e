// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package config handles application configuration: the set of Service
// Manager environments the user has added, where they live on disk, and how
// their credentials are stored.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const appDirName = "servicemanager"

var (
	ErrAliasExists      = errors.New("environment alias already exists")
	ErrUnknownAlias     = errors.New("no environment with that alias")
	ErrNoEnvironments   = errors.New("no environments configured; run 'smctl env add' first")
	errMissingAliasName = errors.New("environment alias must not be empty")
)

// Fields maps the logical ScriptLibrary attributes to the field names the
// REST resource uses.
type Fields struct {
	Name    string `yaml:"name"`
	Package string `yaml:"package"`
	Script  string `yaml:"script"`
}

// Environment is one Service Manager instance the user can sync scripts with.
type Environment struct {
	// Name is the human readable label shown in pick lists.
	Name string `yaml:"name"`

	// URL is the REST base, e.g. http://localhost:13080/SM/9/rest
	URL string `yaml:"url"`

	ResourceCollection string `yaml:"resource_collection"`
	ResourceName       string `yaml:"resource_name"`

	Username string `yaml:"username"`
	// Password is kept in clear in memory. On disk it is sealed, see secret.go.
	Password string `yaml:"password"`

	// Path is the workspace directory holding the local .js files.
	Path string `yaml:"path"`

	DefaultPackage string `yaml:"default_package"`
	Fields         Fields `yaml:"fields"`
}

// Config represents the top-level application configuration
type Config struct {
	// Environments is keyed by alias.
	Environments map[string]Environment `yaml:"environments"`
}

// Aliases returns the configured aliases in sorted order.
func (c Config) Aliases() []string {
	var aliases []string
	for alias := range c.Environments {
		aliases = append(aliases, alias)
	}
	slices.Sort(aliases)
	return aliases
}

// HasEnvironment reports whether alias is taken.
func (c Config) HasEnvironment(alias string) bool {
	_, ok := c.Environments[alias]
	return ok
}

// GetEnvironment looks up an environment by alias.
func (c Config) GetEnvironment(alias string) (Environment, error) {
	env, ok := c.Environments[alias]
	if !ok {
		return Environment{}, fmt.Errorf("%w: %q", ErrUnknownAlias, alias)
	}
	return env, nil
}

// AddEnvironment registers env under alias. Existing aliases are never overwritten.
func (c *Config) AddEnvironment(alias string, env Environment) error {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return errMissingAliasName
	}
	if c.HasEnvironment(alias) {
		return fmt.Errorf("%w: %q", ErrAliasExists, alias)
	}
	if c.Environments == nil {
		c.Environments = make(map[string]Environment)
	}
	c.Environments[alias] = env
	return nil
}

// RemoveEnvironment deletes alias from the configuration.
func (c *Config) RemoveEnvironment(alias string) error {
	if !c.HasEnvironment(alias) {
		return fmt.Errorf("%w: %q", ErrUnknownAlias, alias)
	}
	delete(c.Environments, alias)
	return nil
}

// Store loads and saves a Config.
type Store interface {
	Load() (Config, error)
	Save(Config) error
}

// FileStore keeps the configuration as YAML in Dir. An empty Dir means
// DefaultConfigDir.
type FileStore struct {
	Dir string
}

// DefaultConfigDir is $SMCTL_CONFIG_DIR, or servicemanager/ under the user config dir.
func DefaultConfigDir() (string, error) {
	if dir := os.Getenv("SMCTL_CONFIG_DIR"); dir != "" {
		return ResolvePath(dir)
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, appDirName), nil
}

func (s FileStore) dir() (string, error) {
	if s.Dir != "" {
		return ResolvePath(s.Dir)
	}
	return DefaultConfigDir()
}

// Path returns the location of config.yaml.
func (s FileStore) Path() (string, error) {
	dir, err := s.dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureDir creates the configuration directory (0750).
func (s FileStore) EnsureDir() (string, error) {
	dir, err := s.dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}
	return dir, nil
}

// Load reads the configuration. A missing file yields an empty Config.
func (s FileStore) Load() (Config, error) {
	path, err := s.Path()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{Environments: map[string]Environment{}}, nil
		}
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.Environments == nil {
		cfg.Environments = map[string]Environment{}
	}

	dir := filepath.Dir(path)
	for alias, env := range cfg.Environments {
		if !isSealed(env.Password) {
			continue
		}
		plain, err := openPassword(dir, env.Password)
		if err != nil {
			return Config{}, fmt.Errorf("environment %q: %w", alias, err)
		}
		env.Password = plain
		cfg.Environments[alias] = env
	}
	return cfg, nil
}

// Save writes the configuration (0640), sealing every password first.
func (s FileStore) Save(cfg Config) error {
	dir, err := s.EnsureDir()
	if err != nil {
		return err
	}

	out := Config{Environments: make(map[string]Environment, len(cfg.Environments))}
	for alias, env := range cfg.Environments {
		if env.Password != "" && !isSealed(env.Password) {
			sealed, err := sealPassword(dir, env.Password)
			if err != nil {
				return fmt.Errorf("environment %q: %w", alias, err)
			}
			env.Password = sealed
		}
		out.Environments[alias] = env
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, data, 0640); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// LoadConfig reads the configuration from the default location.
func LoadConfig() (Config, error) {
	return FileStore{}.Load()
}

// SaveConfig writes the configuration to the default location.
func SaveConfig(cfg Config) error {
	return FileStore{}.Save(cfg)
}

// ResolvePath expands a leading "~/" to the user's home directory.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("could not get user home directory to resolve path '%s': %w", path, err)
	}

	return filepath.Join(homeDir, path[2:]), nil
}
