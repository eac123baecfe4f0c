package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/grovetools/wallprefs/errors"
	"github.com/grovetools/wallprefs/pkg/paths"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// configFileNames are searched in order inside the config directory.
var configFileNames = []string{"wallprefs.yml", "wallprefs.yaml", "wallprefs.toml"}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytes(data, formatOf(path))
	if err != nil {
		if prefsErr, ok := err.(*errors.PrefsError); ok {
			return nil, prefsErr.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads the configuration from WALLPREFS_CONFIG or the config
// directory. A missing file is not an error: defaults are returned.
func LoadDefault() (*Config, error) {
	if explicit := os.Getenv("WALLPREFS_CONFIG"); explicit != "" {
		return Load(explicit)
	}

	path, err := FindConfigFile(paths.ConfigDir())
	if err != nil {
		cfg := &Config{}
		cfg.SetDefaults()
		return cfg, nil
	}
	return Load(path)
}

// FindConfigFile returns the first config file present in dir.
func FindConfigFile(dir string) (string, error) {
	for _, name := range configFileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", errors.ConfigNotFound(filepath.Join(dir, configFileNames[0]))
}

// LoadFromBytes parses configuration data in the given format ("yaml" or "toml"),
// applies defaults and validates the result.
func LoadFromBytes(data []byte, format string) (*Config, error) {
	expanded := []byte(expandEnvVars(string(data)))

	var cfg Config
	switch format {
	case "toml":
		if err := toml.Unmarshal(expanded, &cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML config")
		}
		// go-toml has no inline maps; collect unknown top-level sections separately.
		var raw map[string]interface{}
		if err := toml.Unmarshal(expanded, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML config")
		}
		for _, known := range []string{"version", "extension_dir", "settings", "migration", "changelog"} {
			delete(raw, known)
		}
		if len(raw) > 0 {
			cfg.Extensions = raw
		}
	default:
		if err := yaml.Unmarshal(expanded, &cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML config")
		}
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	switch c.Migration.CommitPolicy {
	case CommitAll, CommitAny:
	default:
		return errors.ConfigInvalid("migration.commit_policy must be 'all' or 'any'").
			WithDetail("commit_policy", c.Migration.CommitPolicy)
	}
	if _, err := time.ParseDuration(c.Changelog.Timeout); err != nil {
		return errors.ConfigInvalid("changelog.timeout is not a duration").
			WithDetail("timeout", c.Changelog.Timeout)
	}
	if c.Settings.DebounceMs > 60000 {
		return errors.ConfigInvalid("settings.debounce_ms must be at most 60000")
	}
	return nil
}

// SettingsPath returns the effective extension settings file.
func (c *Config) SettingsPath() string {
	if c.Settings.Path != "" {
		return c.Settings.Path
	}
	return paths.SettingsFile()
}

// DesktopSettingsPath returns the effective desktop settings file.
func (c *Config) DesktopSettingsPath() string {
	if c.Settings.DesktopPath != "" {
		return c.Settings.DesktopPath
	}
	return paths.DesktopSettingsFile()
}

// LockFile returns the effective migration lock path.
func (c *Config) LockFile() string {
	if c.Migration.LockFile != "" {
		return c.Migration.LockFile
	}
	return paths.MigrationLockFile()
}

// ChangelogTimeout returns the parsed request timeout.
func (c *Config) ChangelogTimeout() time.Duration {
	d, err := time.ParseDuration(c.Changelog.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

func formatOf(path string) string {
	if strings.HasSuffix(path, ".toml") {
		return "toml"
	}
	return "yaml"
}

// expandEnvVars replaces ${VAR} references with environment values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarRegex.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}
