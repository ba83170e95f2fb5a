// =============================================================================
// Ledger Analyzer - Main Entry Point
// =============================================================================
//
// USAGE:
//   ledger validate   - Check one upload against its template
//   ledger analyze    - Filter and aggregate a ledger
//   ledger compare    - Compare years, or build multi-year series
//   ledger headcount  - Income and expense per head
//   ledger version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Parsing, normalization and the query engines
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/ledger-analyzer/cmd"
)

func main() {
	cmd.Execute()
}
