package cmd

import (
	"github.com/grovetools/wallprefs/cli"
	"github.com/grovetools/wallprefs/prefs"
	"github.com/spf13/cobra"
)

func NewSetFolderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-folder DIR",
		Short: "Move downloaded images to a new folder",
		Long: `Move downloaded images to a new folder.

Images are moved first. The new folder is only saved when the move succeeds;
with the default commit policy a single failed file keeps the old folder.

Examples:
  wallprefs set-folder ~/Pictures/Bing`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reporter := cli.NewProgressReporter(cmd.OutOrStdout())

			s, err := openSession(cmd, false, prefs.WithMigrationProgress(reporter.Update))
			if err != nil {
				return err
			}
			defer s.Close()

			res := <-s.Migrations.RelocateAsync(commandContext(cmd), args[0])
			reporter.Done(res.Report)
			if res.Err != nil {
				pretty(cmd).Warning("Download folder unchanged")
				return res.Err
			}
			pretty(cmd).Success("Download folder changed")
			pretty(cmd).Path("download-folder", res.Report.Destination)
			return nil
		},
	}
}
