package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/wallprefs/settings"
	"github.com/grovetools/wallprefs/transfer"
	"github.com/spf13/cobra"
)

func NewExportCmd() *cobra.Command {
	var (
		format   string
		output   string
		toFolder bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the settings as a portable document",
		Long: `Write the settings as a portable document.

Examples:
  wallprefs export > settings.json
  wallprefs export --format yaml -o settings.yaml
  # the file the extension reads from the image folder
  wallprefs export --to-folder`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			if toFolder {
				path, err := s.ExportToFolder()
				if err != nil {
					return err
				}
				pretty(cmd).Success("Settings exported")
				pretty(cmd).Path("file", path)
				return nil
			}

			f, err := transfer.ParseFormat(format)
			if err != nil {
				return err
			}
			data, err := s.Export(f)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Document format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&toFolder, "to-folder", false, "Write "+transfer.FileName+" into the image folder")
	return cmd
}

func NewImportCmd() *cobra.Command {
	var fromFolder bool

	cmd := &cobra.Command{
		Use:   "import [FILE]",
		Short: "Apply a settings document",
		Long: `Apply a settings document exported earlier.

The whole document is rejected when it is not valid JSON or YAML, names a
key that does not exist, or holds a value of the wrong type. Values outside
their allowed lists are repaired before they are applied.

Examples:
  wallprefs import settings.json
  cat settings.yaml | wallprefs import -
  wallprefs import --from-folder`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !fromFolder && len(args) == 0 {
				return fmt.Errorf("name a file, '-' for stdin, or pass --from-folder")
			}

			s, err := openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			if fromFolder {
				if err := s.ImportFromFolder(); err != nil {
					return err
				}
				pretty(cmd).Success("Settings imported")
				pretty(cmd).Path("folder", settings.DownloadDir(s.Store))
				return nil
			}

			var data []byte
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read settings document: %w", err)
			}
			if err := s.Import(data); err != nil {
				return err
			}
			pretty(cmd).Success("Settings imported")
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromFolder, "from-folder", false, "Read "+transfer.FileName+" from the image folder")
	return cmd
}
