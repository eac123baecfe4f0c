package cmd

import (
	"fmt"

	"github.com/grovetools/wallprefs/cli"
	"github.com/grovetools/wallprefs/config"
	"github.com/grovetools/wallprefs/schema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the wallprefs configuration",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigSchemaCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with defaults applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			if cli.GetOptions(cmd).JSONOutput {
				return cli.PrintJSON(cmd.OutOrStdout(), cfg)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# Settings: %s\n# Desktop:  %s\n", cfg.SettingsPath(), cfg.DesktopSettingsPath())
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newConfigSchemaCmd() *cobra.Command {
	var document bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print a JSON Schema",
		Long: `Print the JSON Schema of the wallprefs configuration file, or with
--document the schema imported settings documents must satisfy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if document {
				data, err = schema.GenerateDocumentSchema(schema.Wallpaper())
			} else {
				data, err = config.GenerateSchema()
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&document, "document", false, "Print the settings document schema instead")
	return cmd
}
