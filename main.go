// =============================================================================
// Tabex - Main Entry Point
// =============================================================================
//
// USAGE:
//   tabex export    - Export records to CSV, Excel, xlsx, JSON, XML or print
//   tabex import    - Decode a CSV file into records
//   tabex ledger    - Export transactions for QuickBooks, Sage or Xero
//   tabex batch     - Export every input file in a directory
//   tabex formats   - List export formats
//   tabex version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Encoders, decoders, ledger adapters, sinks, config
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/tabex/cmd"
)

func main() {
	cmd.Execute()
}
