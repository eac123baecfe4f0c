// Package paths provides XDG-compliant path resolution for wallprefs.
//
// Resolution order:
// 1. WALLPREFS_HOME (portable root) → $WALLPREFS_HOME/{config,data,state,cache}
// 2. XDG env vars → $XDG_*_HOME/wallprefs
// 3. Platform defaults → ~/.config/wallprefs, ~/.local/share/wallprefs, etc.
package paths

import (
	"os"
	"path/filepath"
)

const appName = "wallprefs"

// getConfigHome returns the base config home directory.
func getConfigHome() string {
	if home := os.Getenv("WALLPREFS_HOME"); home != "" {
		return filepath.Join(home, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

// getStateHome returns the base state home directory.
func getStateHome() string {
	if home := os.Getenv("WALLPREFS_HOME"); home != "" {
		return filepath.Join(home, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// getCacheHome returns the base cache home directory.
func getCacheHome() string {
	if home := os.Getenv("WALLPREFS_HOME"); home != "" {
		return filepath.Join(home, "cache")
	}
	if xdgCacheHome := os.Getenv("XDG_CACHE_HOME"); xdgCacheHome != "" {
		return xdgCacheHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".cache")
	}
	return ""
}

// ConfigDir returns the wallprefs configuration directory.
// Used for wallprefs.yml and the persisted settings files.
func ConfigDir() string {
	base := getConfigHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, appName)
}

// StateDir returns the wallprefs state directory.
// Used for logs and the migration lock.
func StateDir() string {
	base := getStateHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, appName)
}

// CacheDir returns the wallprefs cache directory.
func CacheDir() string {
	base := getCacheHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, appName)
}

// PicturesDir returns the user's pictures directory.
func PicturesDir() string {
	if home := os.Getenv("WALLPREFS_HOME"); home != "" {
		return filepath.Join(home, "pictures")
	}
	if dir := os.Getenv("XDG_PICTURES_DIR"); dir != "" {
		return dir
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, "Pictures")
	}
	return ""
}

// DefaultWallpaperDir is used when the download-folder setting is empty.
func DefaultWallpaperDir() string {
	pictures := PicturesDir()
	if pictures == "" {
		return ""
	}
	return filepath.Join(pictures, "BingWallpaper")
}

// SettingsFile returns the path of the persisted extension settings.
func SettingsFile() string {
	return filepath.Join(ConfigDir(), "settings.toml")
}

// DesktopSettingsFile returns the path of the persisted desktop background settings.
func DesktopSettingsFile() string {
	return filepath.Join(ConfigDir(), "desktop.toml")
}

// MigrationLockFile returns the path of the lock held while images are moved.
func MigrationLockFile() string {
	return filepath.Join(StateDir(), "migrate.lock")
}

// LogDir returns the directory for file log sinks.
func LogDir() string {
	return filepath.Join(StateDir(), "logs")
}

// EnsureDirs creates all wallprefs directories, plus any extra directories
// such as those of relocated settings files, if they don't exist.
func EnsureDirs(extra ...string) error {
	dirs := append([]string{
		ConfigDir(),
		StateDir(),
		CacheDir(),
	}, extra...)

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
