package cmd

import (
	"github.com/grovetools/wallprefs/logging"
	"github.com/grovetools/wallprefs/prefs"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

// openInFileManager is swapped out by tests.
var openInFileManager = browser.OpenFile

func NewOpenFolderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open-folder",
		Short: "Show the download folder in the file manager",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, false, prefs.WithFolderOpener(openInFileManager))
			if err != nil {
				return err
			}
			defer s.Close()

			dir, err := s.OpenFolder()
			if err != nil {
				return err
			}
			pretty(cmd).Path("opened", dir)
			return nil
		},
	}
}

// pretty writes command outcomes to the command's output.
func pretty(cmd *cobra.Command) *logging.PrettyLogger {
	return logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout())
}
