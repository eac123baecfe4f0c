package cmd

import (
	"github.com/grovetools/wallprefs/cli"
	"github.com/grovetools/wallprefs/pkg/paths"
	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/settings"
	"github.com/spf13/cobra"
)

// PathsOutput represents the files and folders wallprefs uses.
type PathsOutput struct {
	ConfigDir       string `json:"config_dir"`
	StateDir        string `json:"state_dir"`
	LogDir          string `json:"log_dir"`
	SettingsFile    string `json:"settings_file"`
	DesktopFile     string `json:"desktop_settings_file"`
	LockFile        string `json:"migration_lock_file"`
	DownloadFolder  string `json:"download_folder"`
	DefaultDownload string `json:"default_download_folder"`
}

func NewPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the paths used by wallprefs",
		Long: `Print the paths used by wallprefs.

This command outputs the paths in JSON format, making it easy to parse from
scripts and other tools.

The paths follow the XDG Base Directory Specification:
- config_dir: wallprefs.yml and the settings files
- state_dir: logs and the migration lock
- download_folder: where images currently live`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := settings.Open(schema.Wallpaper(), settings.NewFileBackend(cfg.SettingsPath()))
			if err != nil {
				return err
			}
			return cli.PrintJSON(cmd.OutOrStdout(), PathsOutput{
				ConfigDir:       paths.ConfigDir(),
				StateDir:        paths.StateDir(),
				LogDir:          paths.LogDir(),
				SettingsFile:    cfg.SettingsPath(),
				DesktopFile:     cfg.DesktopSettingsPath(),
				LockFile:        cfg.LockFile(),
				DownloadFolder:  settings.DownloadDir(store),
				DefaultDownload: paths.DefaultWallpaperDir(),
			})
		},
	}

	return cmd
}
