package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grovetools/wallprefs/cli"
	"github.com/grovetools/wallprefs/settings"
	"github.com/spf13/cobra"
)

func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print settings changes as they happen",
		Long: `Keep a preferences session open and print every change, including
edits made by other programs and repairs made in response.

Examples:
  wallprefs watch
  wallprefs watch --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			s, err := openSession(cmd, true)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			jsonOutput := cli.GetOptions(cmd).JSONOutput
			printChange := func(c settings.Change) {
				if jsonOutput {
					_ = cli.PrintJSON(out, map[string]interface{}{
						"time":   time.Now().Format(time.RFC3339),
						"key":    c.Key,
						"old":    c.Old,
						"new":    c.New,
						"origin": c.Origin,
					})
					return
				}
				fmt.Fprintf(out, "%s %s: %v -> %v %s\n",
					cli.DefaultTheme.Muted.Render(time.Now().Format("15:04:05")),
					cli.DefaultTheme.Command.Render(string(c.Key)),
					c.Old, c.New,
					cli.DefaultTheme.Muted.Render("("+string(c.Origin)+")"))
			}
			defer s.Store.SubscribeAll(printChange)()
			defer s.Desktop.SubscribeAll(printChange)()

			fmt.Fprintln(out, cli.DefaultTheme.Muted.Render("Watching settings, press Ctrl+C to stop"))
			<-ctx.Done()
			return nil
		},
	}
}
