package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Config is the wallprefs tool configuration (wallprefs.yml or wallprefs.toml).
// It is distinct from the extension settings it edits.
type Config struct {
	Version      string          `yaml:"version" toml:"version" jsonschema:"description=Configuration version (e.g. '1.0')"`
	ExtensionDir string          `yaml:"extension_dir,omitempty" toml:"extension_dir,omitempty" jsonschema:"description=Installed extension directory holding the icons folder"`
	Settings     SettingsConfig  `yaml:"settings" toml:"settings" jsonschema:"description=Where settings are persisted and how external edits are watched"`
	Migration    MigrationConfig `yaml:"migration" toml:"migration" jsonschema:"description=Image folder migration behaviour"`
	Changelog    ChangelogConfig `yaml:"changelog" toml:"changelog" jsonschema:"description=Release notes lookup"`

	// Extensions holds any other top-level sections (e.g. logging) for
	// packages that decode their own configuration.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" jsonschema:"-"`
}

// SettingsConfig locates the persisted settings stores.
type SettingsConfig struct {
	// Path of the extension settings file. Defaults to <config dir>/settings.toml.
	Path string `yaml:"path,omitempty" toml:"path,omitempty"`
	// DesktopPath of the desktop background settings file.
	DesktopPath string `yaml:"desktop_path,omitempty" toml:"desktop_path,omitempty"`
	// Watch reloads the settings when another program edits the file.
	Watch *bool `yaml:"watch,omitempty" toml:"watch,omitempty"`
	// DebounceMs coalesces bursts of file events.
	DebounceMs int `yaml:"debounce_ms,omitempty" toml:"debounce_ms,omitempty"`
}

// WatchEnabled reports the effective watch flag.
func (s SettingsConfig) WatchEnabled() bool {
	return s.Watch == nil || *s.Watch
}

// Commit policies for the download folder after a migration.
const (
	// CommitAll commits the new folder only when every image moved.
	CommitAll = "all"
	// CommitAny commits when at least one image moved, accepting a split image set.
	CommitAny = "any"
)

// MigrationConfig controls image folder migrations.
type MigrationConfig struct {
	CommitPolicy string `yaml:"commit_policy,omitempty" toml:"commit_policy,omitempty" jsonschema:"enum=all,enum=any"`
	LockFile     string `yaml:"lock_file,omitempty" toml:"lock_file,omitempty"`
	// Patterns overrides the recognised asset file patterns.
	Patterns []string `yaml:"patterns,omitempty" toml:"patterns,omitempty"`
}

// ChangelogConfig configures the release notes fetch.
type ChangelogConfig struct {
	BaseURL string `yaml:"base_url,omitempty" toml:"base_url,omitempty"`
	Repo    string `yaml:"repo,omitempty" toml:"repo,omitempty"`
	Timeout string `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Settings.DebounceMs <= 0 {
		c.Settings.DebounceMs = 100
	}
	if c.Migration.CommitPolicy == "" {
		c.Migration.CommitPolicy = CommitAll
	}
	if c.Changelog.BaseURL == "" {
		c.Changelog.BaseURL = "https://api.github.com"
	}
	if c.Changelog.Repo == "" {
		c.Changelog.Repo = "neffo/bing-wallpaper-gnome-extension"
	}
	if c.Changelog.Timeout == "" {
		c.Changelog.Timeout = "10s"
	}
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded file into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// It's not an error if the key doesn't exist.
		// The target struct will simply remain zero-valued.
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
