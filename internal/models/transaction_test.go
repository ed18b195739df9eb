package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(cuenta, sucursal string, date time.Time, neto int64) Transaction {
	return Transaction{Cuenta: cuenta, Sucursal: sucursal, FechaDocto: date, MontoNeto: decimal.NewFromInt(neto)}
}

func TestGroupByPeriod(t *testing.T) {
	txs := []Transaction{
		tx("Ventas", "A", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), 10),
		tx("Ventas", "A", time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), 20),
		tx("Sueldos", "A", time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC), 30),
		tx("Sin fecha", "A", time.Time{}, 40),
	}

	grouped := GroupByPeriod(txs)
	require.Len(t, grouped, 2)
	assert.Equal(t, mustPeriod("2024-01"), grouped[0].Period)
	assert.Len(t, grouped[0].Transactions, 1)
	assert.Equal(t, mustPeriod("2024-03"), grouped[1].Period)
	assert.Len(t, grouped[1].Transactions, 2)
}

func TestFillPeriods(t *testing.T) {
	grouped := []PeriodTransactions{
		{Period: mustPeriod("2024-03"), Transactions: []Transaction{tx("Ventas", "", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 1)}},
	}
	periods := Range(mustPeriod("2024-01"), mustPeriod("2024-03"))

	filled := FillPeriods(periods, grouped)
	require.Len(t, filled, 3)
	assert.Empty(t, filled[0].Transactions)
	assert.Empty(t, filled[1].Transactions)
	assert.Len(t, filled[2].Transactions, 1)
}

func TestFilterBranch(t *testing.T) {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{tx("a", "Labranza", d, 1), tx("b", "Sevilla", d, 2), tx("c", "Labranza", d, 3)}

	assert.Len(t, FilterBranch(txs, ""), 3)
	got := FilterBranch(txs, "Labranza")
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[1].Cuenta)
	assert.Empty(t, FilterBranch(txs, "Temuco"))
}

func TestManualValues_FoldedKeys(t *testing.T) {
	m := ManualValues{}
	p := mustPeriod("2024-01")
	m.Set(p, "Sueldos", decimal.NewFromInt(100))
	m.Set(p, "SUELDOS", decimal.NewFromInt(450))

	v, ok := m.Get(p, "sueldos")
	require.True(t, ok)
	assert.True(t, v.Equal(decimal.NewFromInt(450)))
	assert.Len(t, m.ForPeriod(p), 1)

	_, ok = m.Get(mustPeriod("2024-02"), "Sueldos")
	assert.False(t, ok)
}
