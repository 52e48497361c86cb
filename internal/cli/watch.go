package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/extsync-labs/extsync/internal/command"
	"github.com/extsync-labs/extsync/internal/config"
	"github.com/extsync-labs/extsync/internal/notify"
	"github.com/extsync-labs/extsync/internal/reconcile"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the dependency reconciler until interrupted",
	Long: `Run the full reconciliation contribution: one check on startup, then a
re-check every time ` + config.KeyAutoInstallMissingDeps + ` changes in the
config file. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}

	notifier := notify.NewConsole(cmd.OutOrStdout())
	commands := command.NewRegistry()

	c, err := reconcile.New(commands, svc.host, svc.registry, svc.gallery, svc.cfg, notifier, svc.window)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes (Ctrl-C to stop)...\n", config.FilePath())
	<-ctx.Done()
	fmt.Fprintln(cmd.OutOrStdout(), "Stopped.")
	return nil
}
