package cmd

import (
	"fmt"
	"reflect"

	"github.com/grovetools/wallprefs/cli"
	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/settings"
	"github.com/grovetools/wallprefs/validate"
	"github.com/spf13/cobra"
)

// repair is one value the validator replaced.
type repair struct {
	Schema    string      `json:"schema"`
	Key       string      `json:"key"`
	Found     interface{} `json:"found"`
	Corrected interface{} `json:"corrected"`
}

func NewValidateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Repair settings that are outside their allowed values",
		Long: `Repair settings that are outside their allowed values.

Every repair is written back to the settings file unless --dry-run is given.

Examples:
  wallprefs validate
  wallprefs validate --dry-run --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}

			var repairs []repair
			for _, target := range []struct {
				schema *schema.Schema
				path   string
			}{
				{schema.Wallpaper(), cfg.SettingsPath()},
				{schema.Desktop(), cfg.DesktopSettingsPath()},
			} {
				store, err := settings.Open(target.schema, settings.NewFileBackend(target.path))
				if err != nil {
					return err
				}
				before := store.Snapshot()
				v := validate.New(store)

				after := before
				if dryRun {
					after = v.Sanitize(before)
				} else {
					v.ValidateAll()
					after = store.Snapshot()
				}
				for _, key := range sortedKeys(after) {
					if !reflect.DeepEqual(before[key], after[key]) {
						repairs = append(repairs, repair{
							Schema:    target.schema.ID(),
							Key:       string(key),
							Found:     before[key],
							Corrected: after[key],
						})
					}
				}
			}

			out := cmd.OutOrStdout()
			if cli.GetOptions(cmd).JSONOutput {
				return cli.PrintJSON(out, repairs)
			}
			if len(repairs) == 0 {
				fmt.Fprintln(out, cli.DefaultTheme.Success.Render("All settings are valid"))
				return nil
			}
			rows := make([][]string, 0, len(repairs))
			for _, r := range repairs {
				rows = append(rows, []string{r.Key, fmt.Sprintf("%q", fmt.Sprint(r.Found)), fmt.Sprint(r.Corrected)})
			}
			cli.PrintTable(out, []string{"KEY", "FOUND", "CORRECTED"}, rows)
			if dryRun {
				fmt.Fprintln(out, cli.DefaultTheme.Muted.Render("Dry run: nothing was written"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report repairs without writing them")
	return cmd
}
