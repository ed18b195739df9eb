package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEERR() *EERRData {
	ventas := NewRow("Ventas")
	ventas.Set(MontoOf("ENERO"), decimal.NewFromInt(100))
	ventas.Set(PercentOf("ENERO"), decimal.NewFromInt(100))
	total := NewRow(ItemMargenBruto)
	total.Set(MontoOf("ENERO"), decimal.NewFromInt(100))

	sueldo := NewRow("Sueldos")
	sueldo.Set(MontoOf("FEBRERO"), decimal.NewFromInt(30))
	sueldo.Set(MontoOf("ENERO"), decimal.NewFromInt(20))

	return &EERRData{
		SheetName: "Labranza",
		Months:    []string{"ENERO", "FEBRERO"},
		Categories: []Category{
			{Name: HeadingIngresos, Rows: []Row{ventas}, Total: &total},
			{Name: HeadingRemuneraciones, Rows: []Row{sueldo}},
		},
	}
}

func TestEERRData_Flatten(t *testing.T) {
	rows := sampleEERR().Flatten()
	require.Len(t, rows, 3)
	assert.Equal(t, "Ventas", rows[0].Item)
	assert.Equal(t, ItemMargenBruto, rows[1].Item)
	assert.Equal(t, "Sueldos", rows[2].Item)
}

func TestEERRData_Lookups(t *testing.T) {
	d := sampleEERR()

	c, ok := d.Category("gastos de remuneración")
	require.True(t, ok)
	assert.Equal(t, HeadingRemuneraciones, c.Name)

	r, ok := d.FindRow("margen bruto operacional")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(100).Equal(r.Monto("ENERO")))

	_, ok = d.FindRow("Transbank")
	assert.False(t, ok)
}

func TestEERRData_Columns(t *testing.T) {
	got := sampleEERR().Columns()
	assert.Equal(t, []ColumnKey{MontoOf("ENERO"), PercentOf("ENERO"), MontoOf("FEBRERO")}, got)
}

func TestIsTotalItem(t *testing.T) {
	assert.True(t, IsTotalItem("TOTAL GASTOS DE OPERACION"))
	assert.True(t, IsTotalItem("Margen Bruto Operacional"))
	assert.False(t, IsTotalItem("TOTAL"))
	assert.False(t, IsTotalItem("Totalizador"))
}

func TestManualValues(t *testing.T) {
	p := mustPeriod("2024-11")
	m := ManualValues{}
	m.Set(p, "Ventas", decimal.NewFromInt(10))
	m.Set(p, "VENTAS", decimal.NewFromInt(20))

	v, ok := m.Get(p, "ventas")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(20).Equal(v))
	assert.Len(t, m.ForPeriod(p), 1)

	_, ok = m.Get(mustPeriod("2024-12"), "Ventas")
	assert.False(t, ok)
}

func TestPercentOfBase(t *testing.T) {
	v, ok := PercentOfBase(decimal.NewFromInt(300000), decimal.NewFromInt(1000000))
	assert.True(t, ok)
	assert.True(t, decimal.NewFromInt(30).Equal(v))

	v, ok = PercentOfBase(decimal.NewFromInt(5), decimal.Zero)
	assert.False(t, ok)
	assert.True(t, v.IsZero())
}
