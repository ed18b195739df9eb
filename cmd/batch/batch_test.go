package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eerr/eerr-dashboard/internal/config"
	"eerr/eerr-dashboard/internal/container"
	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/report"
	"eerr/eerr-dashboard/internal/repository"
)

const header = "rut,razon_social,cuenta,clasificacion,monto_neto,monto_iva,monto_total,fecha_docto,sucursal\n"

func newContainer(t *testing.T) (*container.Container, *repository.Repository) {
	t.Helper()
	repo, err := repository.Open(repository.MemoryPath, nil)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Classification.DefaultHeading = models.HeadingOperacion
	cfg.Report.PercentPlaces = 2
	cfg.Report.AnnualLabel = models.ColumnAnual
	cfg.Sheets.Sections = []string{"labranza", "sevilla"}
	cfg.CSV.Delimiter = ","
	c, err := container.NewContainer(cfg,
		container.WithLogger(logging.NewMockLogger()),
		container.WithRepository(repo))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, repo
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
}

func TestRun_PerBranchAndConsolidated(t *testing.T) {
	c, repo := newContainer(t)
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "reports")

	writeFile(t, in, "compras_labranza_enero.csv", header+
		"1-9,Cliente,Ventas,,1000,190,1190,10-01-2024,\n"+
		"2-7,Personal,Sueldos,,400,0,400,31-01-2024,\n")
	writeFile(t, in, "compras_sevilla.csv", header+
		"3-5,Cliente,Ventas,,500,95,595,05-03-2024,\n")
	writeFile(t, in, "notas.txt", "ignored")

	sum, err := Run(context.Background(), c, in, out, report.FormatJSON, "ana")
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Branches)
	assert.Equal(t, 3, sum.Transactions)
	require.Len(t, sum.Files, 3)
	for _, name := range []string{"eerr_labranza.json", "eerr_sevilla.json", "eerr_consolidado.json"} {
		assert.FileExists(t, filepath.Join(out, name))
	}

	stored, err := repo.ListTransactions(context.Background(), repository.Filter{UserID: "ana"})
	require.NoError(t, err)
	assert.Len(t, stored, 3)
	branches, err := repo.Branches(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, []string{"Labranza", "Sevilla"}, branches)
}

func TestRun_SingleBranchHasNoConsolidated(t *testing.T) {
	c, _ := newContainer(t)
	in, out := t.TempDir(), t.TempDir()
	writeFile(t, in, "labranza.csv", header+"1-9,Cliente,Ventas,,1000,190,1190,10-01-2024,\n")

	sum, err := Run(context.Background(), c, in, out, report.FormatMarkdown, "")
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Branches)
	assert.Equal(t, []string{filepath.Join(out, "eerr_labranza.md")}, sum.Files)
}

func TestRun_EmptyAndMissingDirectories(t *testing.T) {
	c, _ := newContainer(t)

	sum, err := Run(context.Background(), c, t.TempDir(), t.TempDir(), report.FormatJSON, "")
	require.NoError(t, err)
	assert.Zero(t, sum.Branches)

	_, err = Run(context.Background(), c, filepath.Join(t.TempDir(), "missing"), t.TempDir(), report.FormatJSON, "")
	assert.Error(t, err)
}

func TestSplitByBranch(t *testing.T) {
	txs := []models.Transaction{
		{Sucursal: "Sevilla", MontoNeto: decimal.NewFromInt(1)},
		{Sucursal: "Labranza", MontoNeto: decimal.NewFromInt(2)},
		{Sucursal: "Sevilla", MontoNeto: decimal.NewFromInt(3)},
	}

	got := splitByBranch(txs)

	require.Len(t, got, 2)
	assert.Equal(t, "Labranza", got[0].name)
	assert.Equal(t, "Sevilla", got[1].name)
	assert.Len(t, got[1].txs, 2)
}
