// Package cmd holds the wallprefs subcommands. Each constructor returns a
// cobra command that opens a preferences session, performs one action and
// closes it again.
package cmd

import (
	"context"

	"github.com/grovetools/wallprefs/cli"
	"github.com/grovetools/wallprefs/errors"
	"github.com/grovetools/wallprefs/prefs"
	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/settings"
	"github.com/grovetools/wallprefs/version"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the wallprefs command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"wallprefs",
		"Inspect and edit the Bing wallpaper extension preferences",
	)
	cli.SetVersionTemplate(root, version.GetInfo())

	root.AddCommand(
		NewShowCmd(),
		NewGetCmd(),
		NewSetCmd(),
		NewResetCmd(),
		NewValidateCmd(),
		NewPresetCmd(),
		NewExportCmd(),
		NewImportCmd(),
		NewSetFolderCmd(),
		NewOpenFolderCmd(),
		NewWatchCmd(),
		NewChangelogCmd(),
		NewConfigCmd(),
		NewPathsCmd(),
		cli.NewVersionCommand("wallprefs"),
	)
	cli.ApplyStyledHelpRecursive(root)
	return root
}

// openSession loads the configuration and opens a session. One-shot
// commands pass watch=false so no file watcher is started.
func openSession(cmd *cobra.Command, watch bool, opts ...prefs.Option) (*prefs.Session, error) {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if !watch {
		off := false
		cfg.Settings.Watch = &off
	}
	return prefs.Open(commandContext(cmd), cfg, opts...)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// resolveKey finds the store and definition holding key. Extension keys are
// searched first, then the desktop background keys.
func resolveKey(s *prefs.Session, name string) (*settings.Store, *schema.Definition, error) {
	key := schema.Key(name)
	for _, store := range []*settings.Store{s.Store, s.Desktop} {
		if def, ok := store.Schema().Lookup(key); ok {
			return store, def, nil
		}
	}
	return nil, nil, errors.UnknownKey(s.Store.Schema().ID(), name)
}
