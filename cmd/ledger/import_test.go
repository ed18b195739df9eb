package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eerr/eerr-dashboard/internal/config"
	"eerr/eerr-dashboard/internal/container"
	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/repository"
)

func newContainer(t *testing.T) (*container.Container, *repository.Repository) {
	t.Helper()
	repo, err := repository.Open(repository.MemoryPath, nil)
	require.NoError(t, err)
	cfg := &config.Config{}
	cfg.Classification.DefaultHeading = models.HeadingOperacion
	cfg.Sheets.Sections = []string{"labranza", "sevilla"}
	c, err := container.NewContainer(cfg,
		container.WithLogger(logging.NewMockLogger()),
		container.WithRepository(repo))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, repo
}

func writeLedger(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	content := "rut,razon_social,cuenta,clasificacion,monto_neto,monto_iva,monto_total,fecha_docto,sucursal\n" +
		"1-9,Cliente,Ventas,,1000,190,1190,10-01-2024,\n" +
		"2-7,Personal,Sueldos,,400,0,400,31-01-2024,Sevilla\n" +
		"3-5,Sin fecha,Agua,,10,0,10,,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestImport_BranchFromFilename(t *testing.T) {
	c, repo := newContainer(t)
	ctx := context.Background()

	res, err := Import(ctx, c, writeLedger(t, "compras_labranza.csv"), "ana", "")
	require.NoError(t, err)
	assert.Len(t, res.Transactions, 2)
	assert.Equal(t, 1, res.Skipped)

	branches, err := repo.Branches(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, []string{"Labranza", "Sevilla"}, branches)
}

func TestImport_ExplicitBranchAndDelete(t *testing.T) {
	c, repo := newContainer(t)
	ctx := context.Background()

	res, err := Import(ctx, c, writeLedger(t, "libro.csv"), "ana", "Temuco")
	require.NoError(t, err)

	txs, err := repo.ListTransactions(ctx, repository.Filter{UserID: "ana", Sucursal: "Temuco"})
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	n, err := Delete(ctx, c, "ana", res.ImportID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = Delete(ctx, c, "ana", res.ImportID)
	assert.Error(t, err)
}

func TestImport_Errors(t *testing.T) {
	c, _ := newContainer(t)

	_, err := Import(context.Background(), c, filepath.Join(t.TempDir(), "nope.xlsx"), "ana", "")
	assert.Error(t, err)

	_, err = Import(context.Background(), c, writeLedger(t, "libro.csv"), "", "")
	assert.Error(t, err)
}
