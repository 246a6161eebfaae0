package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultMissingWarning = `⚠️ Book "{{{title}}}" was not found on your system.`
	DefaultCorruptWarning = `⚠️ Could not open "{{{title}}}" (corrupted or unreadable).`
)

type Config struct {
	Dir              string // Directory the config was read from
	CachePath        string
	LogPath          string
	LogLevel         string
	AutoscrollMargin int
	AutoscrollStep   int
	MissingWarning   string // Mustache template, {{{title}}} is the session title
	CorruptWarning   string
}

type tomlConfig struct {
	CachePath        string `toml:"cache_path"`
	LogPath          string `toml:"log_path"`
	LogLevel         string `toml:"log_level"`
	AutoscrollMargin int    `toml:"autoscroll_margin"`
	AutoscrollStep   int    `toml:"autoscroll_step"`
	MissingWarning   string `toml:"missing_warning"`
	CorruptWarning   string `toml:"corrupt_warning"`
}

// DefaultDir is ~/.config/authno, or a relative .authno when there is no home
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".authno"
	}
	return filepath.Join(home, ".config", "authno")
}

// Defaults returns the configuration used when nothing is set in dir
func Defaults(dir string) *Config {
	return &Config{
		Dir:              dir,
		CachePath:        filepath.Join(dir, "workspace.db"),
		LogPath:          filepath.Join(dir, "authno.log"),
		LogLevel:         "info",
		AutoscrollMargin: 250,
		AutoscrollStep:   12,
		MissingWarning:   DefaultMissingWarning,
		CorruptWarning:   DefaultCorruptWarning,
	}
}

// Load reads config from ~/.config/authno/
func Load() (*Config, error) {
	return LoadDir(DefaultDir())
}

// LoadDir reads config.toml from dir. A missing or unreadable file leaves
// the defaults in place.
func LoadDir(dir string) (*Config, error) {
	cfg := Defaults(dir)

	tomlPath := filepath.Join(dir, "config.toml")
	missingPath := filepath.Join(dir, "missing_warning.txt")
	corruptPath := filepath.Join(dir, "corrupt_warning.txt")

	// Load TOML config if it exists
	if _, err := os.Stat(tomlPath); err == nil {
		var tc tomlConfig
		if _, err := toml.DecodeFile(tomlPath, &tc); err == nil {
			cfg.apply(tc)
		}
	}

	// Template files win over the TOML keys, same as a custom prompt file
	if data, err := os.ReadFile(missingPath); err == nil {
		if s := strings.TrimSpace(string(data)); s != "" {
			cfg.MissingWarning = s
		}
	}
	if data, err := os.ReadFile(corruptPath); err == nil {
		if s := strings.TrimSpace(string(data)); s != "" {
			cfg.CorruptWarning = s
		}
	}

	return cfg, nil
}

func (c *Config) apply(tc tomlConfig) {
	if tc.CachePath != "" {
		c.CachePath = ExpandHome(tc.CachePath)
	}
	if tc.LogPath != "" {
		c.LogPath = ExpandHome(tc.LogPath)
	}
	if tc.LogLevel != "" {
		c.LogLevel = tc.LogLevel
	}
	if tc.AutoscrollMargin > 0 {
		c.AutoscrollMargin = tc.AutoscrollMargin
	}
	if tc.AutoscrollStep > 0 {
		c.AutoscrollStep = tc.AutoscrollStep
	}
	if tc.MissingWarning != "" {
		c.MissingWarning = tc.MissingWarning
	}
	if tc.CorruptWarning != "" {
		c.CorruptWarning = tc.CorruptWarning
	}
}

func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
