package batch

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func txn(rut, cuenta string, neto int64, d time.Time) models.Transaction {
	return models.Transaction{RUT: rut, Cuenta: cuenta, MontoNeto: decimal.NewFromInt(neto), FechaDocto: d}
}

func TestDateRange(t *testing.T) {
	a := DateRange{Start: date(2024, 2, 1), End: date(2024, 2, 28)}
	b := DateRange{Start: date(2024, 1, 15), End: date(2024, 2, 10)}

	merged := a.Merge(b)
	assert.Equal(t, date(2024, 1, 15), merged.Start)
	assert.Equal(t, date(2024, 2, 28), merged.End)
	assert.Equal(t, "2024-01-15_2024-02-28", merged.String())
	assert.Equal(t, []models.Period{mustPeriod("2024-01"), mustPeriod("2024-02")}, merged.Periods())

	assert.Equal(t, a, DateRange{}.Merge(a))
	assert.Empty(t, DateRange{}.String())
	assert.Nil(t, DateRange{}.Periods())
}

func TestBranchFromFilename(t *testing.T) {
	ba := NewBatchAggregator(logging.NewMockLogger(), []string{"labranza", "Sevilla"})

	assert.Equal(t, "Labranza", ba.BranchFromFilename("/data/libro_compras_LABRANZA_2024-01.xlsx"))
	assert.Equal(t, "Sevilla", ba.BranchFromFilename("compras-sevilla.csv"))
	assert.Equal(t, "", ba.BranchFromFilename("compras.csv"))
}

func TestGroupFilesByBranch(t *testing.T) {
	logger := logging.NewMockLogger()
	ba := NewBatchAggregator(logger, []string{"labranza", "sevilla"})

	groups := ba.GroupFilesByBranch([]string{
		"sevilla_enero.xlsx",
		"labranza_enero.xlsx",
		"otros.csv",
		"labranza_febrero.xlsx",
	})

	require.Len(t, groups, 3)
	assert.Equal(t, "", groups[0].Branch)
	assert.Equal(t, "Labranza", groups[1].Branch)
	assert.Equal(t, []string{"labranza_enero.xlsx", "labranza_febrero.xlsx"}, groups[1].Files)
	assert.Equal(t, "Sevilla", groups[2].Branch)
	assert.True(t, logger.HasEntry("INFO", "Grouped files into branches"))
}

func TestAggregateTransactions(t *testing.T) {
	logger := logging.NewMockLogger()
	ba := NewBatchAggregator(logger, []string{"labranza"})
	group := FileGroup{Branch: "Labranza", Files: []string{"feb.xlsx", "broken.xlsx", "jan.xlsx"}}

	parse := func(file string) ([]models.Transaction, error) {
		switch file {
		case "feb.xlsx":
			return []models.Transaction{txn("1-9", "Luz", 30, date(2024, 2, 3))}, nil
		case "jan.xlsx":
			dup := txn("2-7", "Agua", 10, date(2024, 1, 5))
			other := txn("1-9", "Luz", 20, date(2024, 1, 5))
			other.Sucursal = "Sevilla"
			return []models.Transaction{dup, dup, other}, nil
		default:
			return nil, errors.New("corrupt")
		}
	}

	txs := ba.AggregateTransactions(group, parse)

	require.Len(t, txs, 4)
	assert.Equal(t, "1-9", txs[0].RUT)
	assert.Equal(t, "Sevilla", txs[0].Sucursal, "existing branch kept")
	assert.Equal(t, "Labranza", txs[1].Sucursal)
	assert.Equal(t, date(2024, 2, 3), txs[3].FechaDocto)
	assert.Equal(t, 1, CountDuplicates(txs))
	assert.True(t, logger.HasEntry("ERROR", "Failed to parse file"))
	assert.True(t, logger.HasEntry("WARN", "Potential duplicate transaction"))

	dr := CalculateDateRange(txs)
	assert.Equal(t, date(2024, 1, 5), dr.Start)
	assert.Equal(t, date(2024, 2, 3), dr.End)
}

func mustPeriod(s string) models.Period {
	p, err := models.ParsePeriod(s)
	if err != nil {
		panic(err)
	}
	return p
}
