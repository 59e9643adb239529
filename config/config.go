// Package config loads reviewkit settings from TOML files.
//
// Settings are resolved in this order, highest priority first: command-line
// flags, the repository's .reviewkit.toml, the global config.toml in the
// reviewkit home directory, then built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// RepoConfigName is the per-repository config file name.
const RepoConfigName = ".reviewkit.toml"

// Output formats accepted by output_format.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatJUnit = "junit"
)

// Config holds reviewkit settings
type Config struct {
	// TemplateDir overrides the embedded templates with a directory of *.md files
	TemplateDir     string `toml:"template_dir"`
	DefaultTemplate string `toml:"default_template"`
	Port            int    `toml:"port"`
	OutputFormat    string `toml:"output_format"`
	NoTelemetry     bool   `toml:"no_telemetry"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultTemplate: "general",
		Port:            7826,
		OutputFormat:    FormatText,
	}
}

// HomeDir returns the reviewkit home directory.
// Uses REVIEWKIT_HOME env var if set, otherwise ~/.reviewkit
func HomeDir() string {
	if dir := os.Getenv("REVIEWKIT_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".reviewkit")
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	return filepath.Join(HomeDir(), "config.toml")
}

// Load returns the defaults overlaid with the global config and then the repo
// config found in repoDir. Missing files are not an error.
func Load(repoDir string) (*Config, error) {
	cfg := DefaultConfig()
	if err := mergeFile(cfg, GlobalConfigPath()); err != nil {
		return nil, err
	}
	if repoDir != "" {
		if err := mergeFile(cfg, filepath.Join(repoDir, RepoConfigName)); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom loads a single config file over the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := mergeFile(cfg, path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile decodes path into cfg. Keys absent from the file keep their current
// values, so files layer on top of each other.
func mergeFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}
	// Relative template directories are relative to the file that names them.
	if md.IsDefined("template_dir") && cfg.TemplateDir != "" && !filepath.IsAbs(cfg.TemplateDir) {
		cfg.TemplateDir = filepath.Join(filepath.Dir(path), cfg.TemplateDir)
	}
	return nil
}

// Validate rejects values the CLI cannot act on.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Port)
	}
	switch c.OutputFormat {
	case FormatText, FormatJSON, FormatJUnit:
	default:
		return fmt.Errorf("unknown output_format %q (expected text, json or junit)", c.OutputFormat)
	}
	return nil
}

// SaveGlobal writes cfg to the global config path, creating the directory if needed.
func SaveGlobal(cfg *Config) error {
	path := GlobalConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
