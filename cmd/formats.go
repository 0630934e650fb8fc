package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/tabex/internal/exporter"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List export formats",
	Args:  cobra.NoArgs,
	// Listing needs no configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tEXTENSION\tCOMMAND\tDESCRIPTION")
		for _, f := range exporter.Formats() {
			command := "export"
			if f.Ledger {
				command = "ledger"
			}
			ext := f.Extension
			if ext == "" {
				ext = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name, ext, command, f.Description)
		}
		return w.Flush()
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List configured export profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := appConfig.ProfileNames()
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No profiles configured.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCOLUMNS\tTITLE\tMATCH")
		for _, name := range names {
			p, _ := appConfig.Profile(name)
			fmt.Fprintf(w, "%s\t%d\t%s\t%v\n", name, len(p.Columns), p.Title, p.Match)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(profilesCmd)
}
