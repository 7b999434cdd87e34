// Command xlcodec inspects and edits xlsx workbooks through the canonical
// value model.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "xlcodec",
	Short: "Read and write spreadsheet cells as canonical values",
	Long: `Inspect and edit xlsx workbooks through the canonical value model.

Commands:
  describe  Dump every decoded feature of one or all sheets.
  get       Decode a single cell.
  find      List cells matching an expr predicate.
  set       Encode a value into a cell and save the workbook.

Examples:
  xlcodec describe report.xlsx
  xlcodec get report.xlsx Sheet1 B3
  xlcodec find report.xlsx Sheet1 'type == "number" && value > 100'
  xlcodec set report.xlsx Sheet1 C4 2024-05-01 --type date -o out.xlsx`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
