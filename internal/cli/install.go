package cli

import (
	"github.com/spf13/cobra"
)

var installNoPrompt bool

var installCmd = &cobra.Command{
	Use:   "install-missing-deps",
	Short: "Install missing extension dependencies",
	Long: `Install every dependency of a running extension that is neither running
nor installed locally. Descriptors come from the extension gallery; after a
successful install you are offered a window reload.`,
	Args: cobra.NoArgs,
	RunE: runInstallMissing,
}

func init() {
	installCmd.Flags().BoolVar(&installNoPrompt, "no-prompt", false, "Do not offer the reload prompt after installing")
	rootCmd.AddCommand(installCmd)
}

func runInstallMissing(cmd *cobra.Command, args []string) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}

	c := svc.checker(cmd.OutOrStdout(), !installNoPrompt)
	return c.InstallMissing(cmd.Context())
}
