package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/extsync-labs/extsync/internal/registry"
)

var installedJSON bool

var installedCmd = &cobra.Command{
	Use:   "installed",
	Short: "List locally installed extensions",
	Long: `List the extensions in the local registry, with their workbench engine
compatibility against the currently running workbench version.`,
	RunE: runInstalled,
}

func init() {
	installedCmd.Flags().BoolVar(&installedJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(installedCmd)
}

// installedEntry represents an installed extension for display.
type installedEntry struct {
	Identifier string `json:"identifier"`
	Version    string `json:"version"`
	Compatible string `json:"compatible"`
}

func runInstalled(cmd *cobra.Command, args []string) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	locals, err := svc.registry.QueryLocal(ctx)
	if err != nil {
		return fmt.Errorf("querying local extensions: %w", err)
	}
	if len(locals) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No extensions installed yet.")
		return nil
	}

	workbench, err := svc.host.WorkbenchVersion(ctx)
	if err != nil {
		return err
	}

	var entries []installedEntry
	for _, local := range locals {
		entry := installedEntry{
			Identifier: local.Identifier,
			Version:    local.Version,
			Compatible: "-",
		}

		if workbench != "" {
			m, err := svc.registry.Manifest(local.Identifier)
			if err == nil {
				ok, err := registry.Compatible(m, workbench)
				switch {
				case err != nil:
					entry.Compatible = "unknown"
				case ok:
					entry.Compatible = "yes"
				default:
					entry.Compatible = "no"
				}
			}
		}

		entries = append(entries, entry)
	}

	if installedJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "IDENTIFIER\tVERSION\tCOMPATIBLE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Identifier, e.Version, e.Compatible)
	}
	return w.Flush()
}
