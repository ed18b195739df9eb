// Package statement handles the income statement command
package statement

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"eerr/eerr-dashboard/cmd/common"
	"eerr/eerr-dashboard/cmd/root"
	"eerr/eerr-dashboard/internal/container"
	"eerr/eerr-dashboard/internal/ledger"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/statement"
)

// Options selects the statement to build.
type Options struct {
	UserID       string
	Sucursal     string
	From         string
	To           string
	Period       string
	ManualFile   string
	Consolidated bool
}

var opts Options

// Cmd represents the statement command
var Cmd = &cobra.Command{
	Use:   "statement",
	Short: "Build an income statement from a ledger file or stored transactions",
	Long: `Build a monthly income statement (EERR) and render it in the chosen format.

With --input the transactions come from a Libro de Compras file (xlsx or csv);
otherwise they are read from the database for --user.

Example:
  eerr statement -i LibroCompras.xlsx -f md
  eerr statement --user ana --from 2024-01 --to 2024-06 --sucursal Labranza -f xlsx -o eerr.xlsx
  eerr statement --user ana --consolidated -f html -o consolidado.html`,
	Run: statementFunc,
}

func init() {
	Cmd.Flags().StringVar(&opts.UserID, "user", "", "Owner of stored transactions")
	Cmd.Flags().StringVar(&opts.Sucursal, "sucursal", "", "Restrict to one branch")
	Cmd.Flags().StringVar(&opts.From, "from", "", "First period (YYYY-MM)")
	Cmd.Flags().StringVar(&opts.To, "to", "", "Last period (YYYY-MM)")
	Cmd.Flags().StringVar(&opts.Period, "period", "", "Single period statement (YYYY-MM)")
	Cmd.Flags().StringVar(&opts.ManualFile, "manual", "", "YAML file of manual amounts (file input only)")
	Cmd.Flags().BoolVar(&opts.Consolidated, "consolidated", false, "Sum every branch into one statement")
}

func statementFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()

	format, err := root.GetFormat()
	if err != nil {
		logger.Fatalf("Invalid format: %v", err)
	}

	c := root.GetContainer()
	data, err := Build(cmd.Context(), c, root.SharedFlags.Input, opts)
	if err != nil {
		logger.Fatalf("Error building statement: %v", err)
	}
	if err := common.RenderStatement(c.GetReportGenerator(), data, format, root.SharedFlags.Output, cmd.OutOrStdout()); err != nil {
		logger.Fatalf("Error writing statement: %v", err)
	}
}

// Build produces the statement selected by o, from input when set and from
// the database otherwise.
func Build(ctx context.Context, c *container.Container, input string, o Options) (*models.EERRData, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req, single, err := o.request()
	if err != nil {
		return nil, err
	}

	if input != "" {
		return fromFile(c, input, req, single, o.ManualFile)
	}
	if o.UserID == "" {
		return nil, fmt.Errorf("either --input or --user is required")
	}

	svc, err := c.GetStatementService()
	if err != nil {
		return nil, err
	}
	switch {
	case !single.IsZero():
		return svc.PeriodStatement(ctx, o.UserID, o.Sucursal, single)
	case o.Consolidated:
		return svc.Consolidated(ctx, req)
	default:
		return svc.Statement(ctx, req)
	}
}

func (o Options) request() (statement.Request, models.Period, error) {
	req := statement.Request{UserID: o.UserID, Sucursal: o.Sucursal}
	var single models.Period
	for _, f := range []struct {
		value string
		dst   *models.Period
	}{{o.From, &req.From}, {o.To, &req.To}, {o.Period, &single}} {
		if f.value == "" {
			continue
		}
		p, err := models.ParsePeriod(f.value)
		if err != nil {
			return req, single, err
		}
		*f.dst = p
	}
	if !req.From.IsZero() && !req.To.IsZero() && req.To.Before(req.From) {
		return req, single, fmt.Errorf("--to %s is before --from %s", req.To, req.From)
	}
	return req, single, nil
}

func fromFile(c *container.Container, input string, req statement.Request, single models.Period, manualFile string) (*models.EERRData, error) {
	res, err := common.ImportLedgerFile(c, input, ledger.Options{
		Sucursal: c.GetBatchAggregator().BranchFromFilename(input),
	})
	if err != nil {
		return nil, err
	}
	manual, err := common.LoadManualValues(manualFile)
	if err != nil {
		return nil, err
	}

	txs := models.FilterBranch(res.Transactions, req.Sucursal)
	if len(txs) == 0 {
		return nil, statement.ErrNoData
	}

	if !single.IsZero() {
		var inPeriod []models.Transaction
		for _, tx := range txs {
			if tx.Period() == single {
				inPeriod = append(inPeriod, tx)
			}
		}
		p := models.PeriodTransactions{Period: single, Transactions: inPeriod}
		return c.GetAggregator().AggregatePeriod(p, manual.ForPeriod(single)), nil
	}

	// File input never touches the database.
	svc := statement.NewService(nil, c.GetAggregator(), c.GetLogger())
	return svc.FromTransactions(txs, req, manual)
}
