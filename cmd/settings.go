package cmd

import (
	"fmt"
	"sort"

	"github.com/grovetools/wallprefs/cli"
	"github.com/grovetools/wallprefs/prefs"
	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/settings"
	"github.com/spf13/cobra"
)

// settingRow is one line of `wallprefs show`.
type settingRow struct {
	Schema  string      `json:"schema"`
	Key     string      `json:"key"`
	Value   interface{} `json:"value"`
	Default interface{} `json:"default"`
	Summary string      `json:"summary"`
}

func NewShowCmd() *cobra.Command {
	var changedOnly bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "List every setting with its current value",
		Long: `List every setting with its current value.

Values are shown after repair: a market, resolution or icon outside its list
has already been replaced by its fallback.

Examples:
  # everything
  wallprefs show
  # only values that differ from their default
  wallprefs show --changed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			var (
				rows []settingRow
				defs []*schema.Definition
			)
			for _, store := range []*settings.Store{s.Store, s.Desktop} {
				sch := store.Schema()
				for _, key := range sch.Keys() {
					def, _ := sch.Lookup(key)
					value := store.Get(key)
					if changedOnly && fmt.Sprint(value) == fmt.Sprint(def.Default) {
						continue
					}
					rows = append(rows, settingRow{
						Schema:  sch.ID(),
						Key:     string(key),
						Value:   value,
						Default: def.Default,
						Summary: def.Summary,
					})
					defs = append(defs, def)
				}
			}

			if cli.GetOptions(cmd).JSONOutput {
				return cli.PrintJSON(cmd.OutOrStdout(), rows)
			}
			table := make([][]string, 0, len(rows))
			for i, r := range rows {
				def := defs[i]
				table = append(table, []string{r.Key, def.Format(r.Value), def.Format(r.Default), r.Summary})
			}
			cli.PrintTable(cmd.OutOrStdout(), []string{"KEY", "VALUE", "DEFAULT", "DESCRIPTION"}, table)
			return nil
		},
	}
	cmd.Flags().BoolVar(&changedOnly, "changed", false, "Only list settings that differ from their default")
	return cmd
}

func NewGetCmd() *cobra.Command {
	return cli.AcceptsKeys(&cobra.Command{
		Use:   "get KEY",
		Short: "Print the value of one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			store, def, err := resolveKey(s, args[0])
			if err != nil {
				return err
			}
			value := store.Get(def.Key)
			if cli.GetOptions(cmd).JSONOutput {
				return cli.PrintJSON(cmd.OutOrStdout(), map[string]interface{}{string(def.Key): value})
			}
			fmt.Fprintln(cmd.OutOrStdout(), def.Format(value))
			return nil
		},
	}, schema.Wallpaper(), schema.Desktop())
}

func NewSetCmd() *cobra.Command {
	return cli.AcceptsKeys(&cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one setting",
		Long: `Change one setting.

The value is parsed according to the key's type. Values outside the key's
list or bounds are accepted and then repaired, and the repaired value is
printed. Setting download-folder moves the downloaded images first, like
set-folder, and keeps the old folder when the move fails.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reporter := cli.NewProgressReporter(cmd.OutOrStdout())
			s, err := openSession(cmd, false, prefs.WithMigrationProgress(reporter.Update))
			if err != nil {
				return err
			}
			defer s.Close()

			store, def, err := resolveKey(s, args[0])
			if err != nil {
				return err
			}
			if def.Key == schema.DownloadFolder {
				report, err := s.ChangeFolder(commandContext(cmd), args[1])
				reporter.Done(report)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", def.Key, def.Format(store.Get(def.Key)))
				return nil
			}
			value, err := def.Parse(args[1])
			if err != nil {
				return err
			}
			if err := store.Set(def.Key, value, settings.OriginSession); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", def.Key, def.Format(store.Get(def.Key)))
			return nil
		},
	}, schema.Wallpaper(), schema.Desktop())
}

func NewResetCmd() *cobra.Command {
	var all bool

	cmd := cli.AcceptsKeys(&cobra.Command{
		Use:   "reset [KEY...]",
		Short: "Restore settings to their defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("name at least one key or pass --all")
			}
			s, err := openSession(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			if all {
				for _, store := range []*settings.Store{s.Store, s.Desktop} {
					for _, key := range store.Schema().Keys() {
						if err := store.Reset(key, settings.OriginSession); err != nil {
							return err
						}
					}
				}
				return nil
			}
			for _, name := range args {
				store, def, err := resolveKey(s, name)
				if err != nil {
					return err
				}
				if err := store.Reset(def.Key, settings.OriginSession); err != nil {
					return err
				}
			}
			return nil
		},
	}, schema.Wallpaper(), schema.Desktop())
	cmd.Flags().BoolVar(&all, "all", false, "Reset every setting")
	return cmd
}

// sortedKeys returns the keys of m in lexical order.
func sortedKeys(m map[schema.Key]interface{}) []schema.Key {
	keys := make([]schema.Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
