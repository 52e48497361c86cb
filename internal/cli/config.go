package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/extsync-labs/extsync/internal/branding"
	"github.com/extsync-labs/extsync/internal/config"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long:  `Read and write ` + branding.DisplayName() + ` configuration stored at ~/` + branding.HomeDir() + `/config.yaml.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, raw := args[0], args[1]

		// Store booleans typed so watchers and GetBool see real bools.
		var value interface{} = raw
		if b, err := strconv.ParseBool(raw); err == nil {
			value = b
		}

		svc := config.New()
		if err := svc.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := config.New()
		fmt.Fprintln(cmd.OutOrStdout(), svc.GetString(args[0]))
		return nil
	},
}
