package cmd

import (
	"fmt"
	"strings"

	"github.com/grovetools/wallprefs/cli"
	"github.com/grovetools/wallprefs/preset"
	"github.com/spf13/cobra"
)

func NewPresetCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "preset [NAME]",
		Short: "Apply a lock screen blur preset",
		Long: `Apply a lock screen blur preset.

Presets: gnome-default, no-blur, or slight-blur

Examples:
  wallprefs preset --list
  wallprefs preset slight-blur`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list || len(args) == 0 {
				return printPresets(cmd)
			}

			s, err := openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ApplyPreset(args[0]); err != nil {
				return err
			}
			p, _ := preset.Lookup(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %s\n", p.Label)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List the available presets")
	return cmd
}

func printPresets(cmd *cobra.Command) error {
	type presetRow struct {
		Name   string                 `json:"name"`
		Label  string                 `json:"label"`
		Values map[string]interface{} `json:"values"`
	}

	var rows []presetRow
	for _, name := range preset.Names() {
		p, _ := preset.Lookup(name)
		row := presetRow{Name: p.Name, Label: p.Label, Values: map[string]interface{}{}}
		for _, v := range p.Values {
			row.Values[string(v.Key)] = v.Value
		}
		rows = append(rows, row)
	}

	if cli.GetOptions(cmd).JSONOutput {
		return cli.PrintJSON(cmd.OutOrStdout(), rows)
	}
	table := make([][]string, 0, len(rows))
	for _, name := range preset.Names() {
		p, _ := preset.Lookup(name)
		var parts []string
		for _, v := range p.Values {
			parts = append(parts, fmt.Sprintf("%s=%v", v.Key, v.Value))
		}
		table = append(table, []string{p.Name, p.Label, strings.Join(parts, " ")})
	}
	cli.PrintTable(cmd.OutOrStdout(), []string{"NAME", "LABEL", "VALUES"}, table)
	return nil
}
