// Package ledger handles importing Libro de Compras files into the database
package ledger

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"eerr/eerr-dashboard/cmd/common"
	"eerr/eerr-dashboard/cmd/root"
	"eerr/eerr-dashboard/internal/container"
	"eerr/eerr-dashboard/internal/ledger"
)

var (
	userID   string
	sucursal string
	deleteID string
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import a Libro de Compras file into the database",
	Long: `Import a Libro de Compras file (xlsx or csv) for a user. The branch comes from
--sucursal, else from the file name; rows with their own sucursal keep it.

Example:
  eerr import -i LibroCompras_Labranza.xlsx --user ana
  eerr import --user ana --delete 5d0c...`,
	Run: importFunc,
}

func init() {
	Cmd.Flags().StringVar(&userID, "user", "", "Owner of the imported transactions")
	Cmd.Flags().StringVar(&sucursal, "sucursal", "", "Branch for rows without one")
	Cmd.Flags().StringVar(&deleteID, "delete", "", "Remove a previous import by id instead")
	_ = Cmd.MarkFlagRequired("user")
}

func importFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogrusAdapter()
	c := root.GetContainer()

	if deleteID != "" {
		n, err := Delete(cmd.Context(), c, userID, deleteID)
		if err != nil {
			logger.Fatalf("Error deleting import: %v", err)
		}
		logger.Info(fmt.Sprintf("Deleted %d transactions of import %s", n, deleteID))
		return
	}

	if root.SharedFlags.Input == "" {
		logger.Fatal("Input file must be specified with --input")
	}
	res, err := Import(cmd.Context(), c, root.SharedFlags.Input, userID, sucursal)
	if err != nil {
		logger.Fatalf("Error importing ledger: %v", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.String())
}

// Import reads path and stores its transactions for user.
func Import(ctx context.Context, c *container.Container, path, user, branch string) (*ledger.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if branch == "" {
		branch = c.GetBatchAggregator().BranchFromFilename(path)
	}
	res, err := common.ImportLedgerFile(c, path, ledger.Options{Sucursal: branch})
	if err != nil {
		return nil, err
	}
	repo, err := c.GetRepository()
	if err != nil {
		return nil, err
	}
	if err := repo.InsertTransactions(ctx, user, res.Transactions); err != nil {
		return nil, err
	}
	return res, nil
}

// Delete removes the transactions of one import.
func Delete(ctx context.Context, c *container.Container, user, importID string) (int64, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	repo, err := c.GetRepository()
	if err != nil {
		return 0, err
	}
	n, err := repo.DeleteImport(ctx, user, importID)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("import %s not found", importID)
	}
	return n, nil
}
