package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var missingAll bool

var missingCmd = &cobra.Command{
	Use:   "missing",
	Short: "List missing extension dependencies",
	Long: `List dependency identifiers declared by running extensions that no
running extension provides. By default only dependencies that are also not
installed locally are shown; --all includes the installed ones.`,
	RunE: runMissing,
}

func init() {
	missingCmd.Flags().BoolVar(&missingAll, "all", false, "Include dependencies that are installed but not running")
	rootCmd.AddCommand(missingCmd)
}

func runMissing(cmd *cobra.Command, args []string) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}
	c := svc.checker(cmd.OutOrStdout(), false)

	var ids []string
	if missingAll {
		ids, err = c.AllMissingDependencies(cmd.Context())
	} else {
		ids, err = c.UninstalledMissingDependencies(cmd.Context())
	}
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No missing dependencies.")
		return nil
	}

	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}
