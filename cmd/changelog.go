package cmd

import (
	"fmt"

	"github.com/grovetools/wallprefs/version"
	"github.com/spf13/cobra"
)

func NewChangelogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "changelog [VERSION]",
		Short: "Print the release notes of an extension version",
		Long: `Print the release notes of an extension version. Without an
argument the version of this build is used. Nothing is printed when the notes
cannot be fetched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			release := version.GetInfo().Release()
			if len(args) == 1 {
				release = args[0]
			}
			if release == "" {
				return fmt.Errorf("development build: name a version")
			}

			s, err := openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			if text := s.LoadChangeLog(commandContext(cmd), release); text != "" {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			return nil
		},
	}
}
