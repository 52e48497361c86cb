package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/extsync-labs/extsync/internal/command"
	"github.com/extsync-labs/extsync/internal/notify"
	"github.com/extsync-labs/extsync/internal/reconcile"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List registered palette commands",
	RunE:  runCommands,
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}

func runCommands(cmd *cobra.Command, args []string) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}

	registry := command.NewRegistry()
	c, err := reconcile.New(registry, svc.host, svc.registry, svc.gallery, svc.cfg,
		notify.NewConsole(cmd.ErrOrStderr()), svc.window)
	if err != nil {
		return err
	}
	defer c.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tTITLE\tCOMMAND ID")
	for _, item := range registry.MenuItems() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", item.Category, item.Title, item.CommandID)
	}
	return w.Flush()
}
