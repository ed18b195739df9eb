// Package sum handles summing EERR workbooks into one statement
package sum

import (
	"fmt"

	"github.com/spf13/cobra"

	"eerr/eerr-dashboard/cmd/common"
	"eerr/eerr-dashboard/cmd/root"
	"eerr/eerr-dashboard/internal/container"
	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/table"
)

// Cmd represents the sum command
var Cmd = &cobra.Command{
	Use:   "sum FILE...",
	Short: "Sum the EERR sheets of one or more workbooks",
	Long: `Sum every EERR sheet of the given workbooks into one statement. Amounts are
added, percentages averaged.

Example:
  eerr sum EERR_Labranza.xlsx EERR_Sevilla.xlsx -f xlsx -o consolidado.xlsx`,
	Args: cobra.MinimumNArgs(1),
	Run:  sumFunc,
}

func sumFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()

	format, err := root.GetFormat()
	if err != nil {
		logger.Fatalf("Invalid format: %v", err)
	}

	c := root.GetContainer()
	data, err := Sum(c, args)
	if err != nil {
		logger.Fatalf("Error summing workbooks: %v", err)
	}
	if err := common.RenderStatement(c.GetReportGenerator(), data, format, root.SharedFlags.Output, cmd.OutOrStdout()); err != nil {
		logger.Fatalf("Error writing statement: %v", err)
	}
}

// Sum parses every EERR sheet of paths and sums them.
func Sum(c *container.Container, paths []string) (*models.EERRData, error) {
	var statements []*models.EERRData
	for _, path := range paths {
		book, err := common.LoadWorkbook(path)
		if err != nil {
			return nil, err
		}
		parsed, err := c.GetSheetParser().ParseEERRWorkbook(book)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		statements = append(statements, parsed...)
	}

	out := table.SumAllEERR(statements...)
	if out == nil {
		return nil, fmt.Errorf("no statements found")
	}
	c.GetLogger().Info("Statements summed",
		logging.Field{Key: logging.FieldCount, Value: len(statements)},
		logging.Field{Key: logging.FieldSheet, Value: out.SheetName})
	return out, nil
}
