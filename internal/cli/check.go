package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/extsync-labs/extsync/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check for missing extension dependencies",
	Long: `Check the running extension graph for dependencies that are neither
running nor installed locally. When ` + config.KeyAutoInstallMissingDeps + `
is enabled, missing dependencies are installed immediately.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	c := svc.checker(cmd.OutOrStdout(), false)

	uninstalled, err := c.UninstalledMissingDependencies(ctx)
	if err != nil {
		return err
	}

	if len(uninstalled) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No missing dependencies.")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Missing and not installed:")
	for _, id := range uninstalled {
		fmt.Fprintf(cmd.OutOrStdout(), "  ✗ %s\n", id)
	}

	if svc.cfg.GetBool(config.KeyAutoInstallMissingDeps) {
		fmt.Fprintln(cmd.OutOrStdout(), "Installing...")
		return c.InstallMissing(ctx)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Run '%s install-missing-deps' to install them, or enable %s.\n",
		rootCmd.Use, config.KeyAutoInstallMissingDeps)
	return nil
}
