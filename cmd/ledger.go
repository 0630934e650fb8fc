// =============================================================================
// Tabex - Ledger Command
// =============================================================================
//
// COMMAND USAGE:
//   tabex ledger --system quickbooks|sage|xero --input FILE [--output NAME]
//
// The input needs date and amount columns; type, client name, description,
// reference and id are optional. Header matching ignores case, spaces and
// underscores ("Client Name" == "client_name"). Accounts come from the
// account_mappings section of the configuration.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/tabex/internal/ledger"
	"github.com/ginjaninja78/tabex/internal/source"
	"github.com/ginjaninja78/tabex/pkg/utils"
)

var (
	ledgerSystem string
	ledgerInput  string
	ledgerOutput string
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Export transactions as an accounting system import file",
	Long: fmt.Sprintf(`The ledger command renders transactions as a journal for an external
accounting system.

Supported systems: %s

For QuickBooks and Sage every transaction produces a balanced pair of
entries; Xero gets one row per transaction with the signed amount. Debit and
credit accounts are resolved from account_mappings in this order:
  <TYPE>_DEBIT / <TYPE>_CREDIT, then DEFAULT_DEBIT / DEFAULT_CREDIT, then the
  system's built-in fallback account.`, strings.Join(ledger.Systems(), ", ")),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLedger(cmd)
	},
}

func init() {
	rootCmd.AddCommand(ledgerCmd)

	ledgerCmd.Flags().StringVarP(&ledgerSystem, "system", "s", "", "Accounting system: "+strings.Join(ledger.Systems(), ", "))
	ledgerCmd.Flags().StringVarP(&ledgerInput, "input", "i", "", "Transactions file (CSV, .xlsx or JSON)")
	ledgerCmd.Flags().StringVarP(&ledgerOutput, "output", "o", "", "Base output file name (default: input name)")
	_ = ledgerCmd.MarkFlagRequired("system")
	_ = ledgerCmd.MarkFlagRequired("input")
}

func runLedger(cmd *cobra.Command) error {
	adapter, err := ledger.Lookup(ledgerSystem)
	if err != nil {
		return err
	}

	txs, diagnostics, err := source.LoadTransactions(ledgerInput, appConfig.InputEncoding)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(diagnostics) > 0 {
		entries := make([]utils.ErrorLogEntry, len(diagnostics))
		for i, msg := range diagnostics {
			entries[i] = utils.ErrorLogEntry{FileName: filepath.Base(ledgerInput), ErrorMessage: msg}
		}
		logPath, err := utils.WriteErrorLog(entries, appConfig.OutputDir, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Skipped %d row(s), see %s\n", len(diagnostics), logPath)
	}
	if len(txs) == 0 {
		return fmt.Errorf("no valid transactions in %s", ledgerInput)
	}

	name := ledgerOutput
	if name == "" {
		base := filepath.Base(ledgerInput)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	result, err := newService().ExportLedger(cmd.Context(), adapter.Name(), txs, name, appConfig.Mapping(adapter.Name()))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Exported %d transactions to %s\n", result.Records,
		filepath.Join(appConfig.OutputDir, result.Filename))
	return nil
}
