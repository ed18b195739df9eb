// Package parse handles the workbook parsing command
package parse

import (
	"fmt"

	"github.com/spf13/cobra"

	"eerr/eerr-dashboard/cmd/common"
	"eerr/eerr-dashboard/cmd/root"
	"eerr/eerr-dashboard/internal/container"
)

// Kinds of workbook the command understands.
const (
	KindConsolidado = "consolidado"
	KindEERR        = "eerr"
)

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse [consolidado|eerr]",
	Short: "Parse a Consolidado or EERR workbook into JSON",
	Long: `Parse a Consolidado workbook (one section per branch) or an EERR workbook
(one statement per sheet) and print the parsed tables as JSON.

Example:
  eerr parse consolidado -i Consolidado.xlsx -o consolidado.json
  eerr parse eerr -i EERR_2024.xlsx`,
	ValidArgs: []string{KindConsolidado, KindEERR},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run:       parseFunc,
}

func parseFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()
	if root.SharedFlags.Input == "" {
		logger.Fatal("Input workbook must be specified with --input")
	}

	v, err := Parse(root.GetContainer(), args[0], root.SharedFlags.Input)
	if err != nil {
		logger.Fatalf("Error parsing workbook: %v", err)
	}
	if err := common.WriteJSON(v, root.SharedFlags.Output, cmd.OutOrStdout()); err != nil {
		logger.Fatalf("Error writing output: %v", err)
	}
}

// Parse loads the workbook at path and parses it as kind.
func Parse(c *container.Container, kind, path string) (interface{}, error) {
	book, err := common.LoadWorkbook(path)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindConsolidado:
		return c.GetSheetParser().ParseConsolidadoWorkbook(book)
	case KindEERR:
		return c.GetSheetParser().ParseEERRWorkbook(book)
	default:
		return nil, fmt.Errorf("unknown workbook kind %q", kind)
	}
}
