// Package batch handles batch processing of ledger directories
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"eerr/eerr-dashboard/cmd/common"
	"eerr/eerr-dashboard/cmd/root"
	"eerr/eerr-dashboard/internal/batch"
	"eerr/eerr-dashboard/internal/container"
	"eerr/eerr-dashboard/internal/fileutils"
	"eerr/eerr-dashboard/internal/ledger"
	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/report"
	"eerr/eerr-dashboard/internal/table"
)

var userID string

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Build per-branch and consolidated statements from a ledger directory",
	Long: `Batch process every Libro de Compras file (xlsx or csv) in the input directory.

Files are grouped by branch using their names, each branch gets its own
statement and a consolidated statement sums them all. With --user the
transactions are also stored in the database.

Example:
  eerr batch -i ledgers/ -o reports/ -f xlsx
  eerr batch -i ledgers/ -o reports/ --user ana`,
	Run: batchFunc,
}

func init() {
	Cmd.Flags().StringVar(&userID, "user", "", "Also store the transactions for this user")
}

// Summary reports what a batch run produced.
type Summary struct {
	Branches     int
	Transactions int
	Files        []string
}

func batchFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()

	inputDir := root.SharedFlags.Input
	outputDir := root.SharedFlags.Output
	if inputDir == "" || outputDir == "" {
		logger.Fatal("Input and output directories must be specified")
	}

	format, err := root.GetFormat()
	if err != nil {
		logger.Fatalf("Invalid format: %v", err)
	}

	sum, err := Run(cmd.Context(), root.GetContainer(), inputDir, outputDir, format, userID)
	if err != nil {
		logger.Fatalf("Error during batch processing: %v", err)
	}
	logger.Info(fmt.Sprintf("Batch processing completed. %d branches, %d transactions, %d reports written.",
		sum.Branches, sum.Transactions, len(sum.Files)))
}

// Run builds one statement per branch found in the ledgers of inputDir, plus a
// consolidated one when there is more than one branch, and writes them to
// outputDir. A non-empty user also stores every transaction.
func Run(ctx context.Context, c *container.Container, inputDir, outputDir string, format report.Format, user string) (*Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := c.GetLogger()

	if !fileutils.DirectoryExists(inputDir) {
		return nil, fmt.Errorf("input directory does not exist: %s", inputDir)
	}
	if err := fileutils.EnsureDirectoryExists(outputDir); err != nil {
		return nil, err
	}

	files, err := fileutils.ListFilesWithExtension(inputDir, fileutils.ExtXLSX, fileutils.ExtCSV)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}
	if len(files) == 0 {
		logger.Warn("No ledger files found in input directory",
			logging.Field{Key: logging.FieldFile, Value: inputDir})
		return &Summary{}, nil
	}

	agg := c.GetBatchAggregator()
	groups := agg.GroupFilesByBranch(files)
	logger.Info("Grouped ledger files",
		logging.Field{Key: logging.FieldCount, Value: len(files)},
		logging.Field{Key: "groups", Value: len(groups)})

	var all []models.Transaction
	for _, group := range groups {
		group := group
		parseFunc := func(path string) ([]models.Transaction, error) {
			res, err := common.ImportLedgerFile(c, path, ledger.Options{Sucursal: group.Branch})
			if err != nil {
				return nil, err
			}
			return res.Transactions, nil
		}

		txs := agg.AggregateTransactions(group, parseFunc)
		if len(txs) == 0 {
			logger.Warn("No transactions found for branch group",
				logging.Field{Key: logging.FieldBranch, Value: group.Branch})
			continue
		}
		all = append(all, txs...)
	}

	sum := &Summary{Transactions: len(all)}
	if len(all) == 0 {
		return sum, nil
	}

	// The ledger's own sucursal column wins over the file name.
	branches := splitByBranch(all)

	if user != "" {
		repo, err := c.GetRepository()
		if err != nil {
			return nil, err
		}
		if err := repo.InsertTransactions(ctx, user, all); err != nil {
			return nil, fmt.Errorf("storing transactions: %w", err)
		}
	}

	periods := batch.CalculateDateRange(all).Periods()
	if len(periods) == 0 {
		return sum, nil
	}
	from, to := periods[0], periods[len(periods)-1]
	gen := c.GetReportGenerator()
	statements := make([]*models.EERRData, 0, len(branches))

	for _, b := range branches {
		data := c.GetAggregator().AggregateRange(b.txs, from, to, nil)
		if b.name != "" {
			data.SheetName = b.name
		}
		path := filepath.Join(outputDir, common.OutputName("eerr", b.name, format))
		if err := gen.WriteFile(data, format, path); err != nil {
			return nil, err
		}
		sum.Files = append(sum.Files, path)
		statements = append(statements, data)
	}
	sum.Branches = len(branches)

	if len(statements) > 1 {
		total := table.SumAllEERR(statements...)
		total.SheetName = consolidatedLabel(c)
		path := filepath.Join(outputDir, common.OutputName("eerr", total.SheetName, format))
		if err := gen.WriteFile(total, format, path); err != nil {
			return nil, err
		}
		sum.Files = append(sum.Files, path)
	}
	return sum, nil
}

func consolidatedLabel(c *container.Container) string {
	if label := c.GetConfig().Report.ConsolidatedLabel; label != "" {
		return label
	}
	return models.ColumnConsolidado
}

type branchData struct {
	name string
	txs  []models.Transaction
}

func splitByBranch(txs []models.Transaction) []branchData {
	index := make(map[string]int)
	var out []branchData
	for _, tx := range txs {
		i, ok := index[tx.Sucursal]
		if !ok {
			i = len(out)
			index[tx.Sucursal] = i
			out = append(out, branchData{name: tx.Sucursal})
		}
		out[i].txs = append(out[i].txs, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
