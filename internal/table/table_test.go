package table

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eerr/eerr-dashboard/internal/models"
)

func rows(t *testing.T, js string) []models.Row {
	t.Helper()
	var out []models.Row
	require.NoError(t, json.Unmarshal([]byte(js), &out))
	return out
}

func TestSum_EndToEnd(t *testing.T) {
	a := rows(t, `[{"Item":"X","A Monto":100,"A %":10}]`)
	b := rows(t, `[{"Item":"X","A Monto":50,"A %":20}]`)

	got, err := json.Marshal(Sum(a, b))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"Item":"X","A Monto":150,"A %":15}]`, string(got))
}

func TestSum_PercentRules(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{"both positive averages", "10", "20", "15"},
		{"only left positive", "10", "0", "10"},
		{"only right positive", "0", "30", "30"},
		{"negative side ignored", "-10", "30", "30"},
		{"neither positive", "-1", "0", "0"},
		{"both negative", "-12", "-8", "0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := models.NewRow("X")
			a.Set(models.PercentOf("ENERO"), decimal.RequireFromString(tc.a))
			b := models.NewRow("X")
			b.Set(models.PercentOf("ENERO"), decimal.RequireFromString(tc.b))

			got := Sum([]models.Row{a}, []models.Row{b})
			require.Len(t, got, 1)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got[0].Percent("ENERO")),
				"got %s", got[0].Percent("ENERO"))
		})
	}
}

func TestSum_UnionOfItemsAndColumns(t *testing.T) {
	a := rows(t, `[{"Item":"Ventas","ENERO Monto":100},{"Item":"Arriendo","ENERO Monto":10}]`)
	b := rows(t, `[{"Item":"Luz","ENERO Monto":5},{"Item":"ventas","FEBRERO Monto":7,"ENERO Promedio":"$1,000"}]`)

	got := Sum(a, b)
	require.Len(t, got, 3)
	assert.Equal(t, "Ventas", got[0].Item)
	assert.Equal(t, "Arriendo", got[1].Item)
	assert.Equal(t, "Luz", got[2].Item)

	assert.Equal(t, []models.ColumnKey{
		models.MontoOf("ENERO"), models.MontoOf("FEBRERO"), models.PromedioOf("ENERO"),
	}, got[0].Keys())
	assert.True(t, decimal.NewFromInt(100).Equal(got[0].Monto("ENERO")))
	assert.True(t, decimal.NewFromInt(7).Equal(got[0].Monto("FEBRERO")))
	assert.True(t, decimal.NewFromInt(1000).Equal(got[0].Get(models.PromedioOf("ENERO"))))
}

func TestSum_CommutativeOnMonetaryColumns(t *testing.T) {
	a := rows(t, `[{"Item":"X","A Monto":100,"A %":10,"A Promedio":3},{"Item":"Y","A Monto":"7.5"}]`)
	b := rows(t, `[{"Item":"Y","A Monto":1,"B Monto":2},{"Item":"X","A Monto":"#DIV/0!","A Promedio":4}]`)

	ab := Sum(a, b)
	ba := Sum(b, a)
	index := func(rs []models.Row) map[string]models.Row {
		m := make(map[string]models.Row)
		for _, r := range rs {
			m[r.Item] = r
		}
		return m
	}
	abIdx, baIdx := index(ab), index(ba)
	require.Len(t, abIdx, 2)
	for item, r := range abIdx {
		other, ok := baIdx[item]
		require.True(t, ok, item)
		for _, k := range r.Keys() {
			if k.IsPercent() {
				continue
			}
			assert.True(t, r.Get(k).Equal(other.Get(k)), "%s %s", item, k)
		}
	}
}

func TestSum_DoesNotMutateInputs(t *testing.T) {
	a := rows(t, `[{"Item":"X","A Monto":1}]`)
	b := rows(t, `[{"Item":"X","A Monto":2}]`)
	_ = Sum(a, b)
	assert.True(t, decimal.NewFromInt(1).Equal(a[0].Monto("A")))
}

func TestSumAll(t *testing.T) {
	a := rows(t, `[{"Item":"X","A Monto":1}]`)
	b := rows(t, `[{"Item":"X","A Monto":2}]`)
	c := rows(t, `[{"Item":"X","A Monto":3},{"Item":"Z","A Monto":4}]`)

	got := SumAll(a, b, c)
	require.Len(t, got, 2)
	assert.True(t, decimal.NewFromInt(6).Equal(got[0].Monto("A")))
	assert.Nil(t, SumAll())
}

func statement(name string, ventas, sueldo int64, extra bool) *models.EERRData {
	v := models.NewRow(models.ItemVentas)
	v.Set(models.MontoOf("ENERO"), decimal.NewFromInt(ventas))
	v.Set(models.PercentOf("ENERO"), decimal.NewFromInt(100))
	gm := v.WithItem(models.ItemMargenBruto)

	s := models.NewRow("Sueldos")
	s.Set(models.MontoOf("ENERO"), decimal.NewFromInt(sueldo))
	rt := s.WithItem(models.TotalLabel(models.HeadingRemuneraciones))

	d := &models.EERRData{
		SheetName: name,
		Months:    []string{"ENERO"},
		Categories: []models.Category{
			{Name: models.HeadingIngresos, Rows: []models.Row{v}, Total: &gm},
			{Name: models.HeadingRemuneraciones, Rows: []models.Row{s}, Total: &rt},
		},
	}
	if extra {
		d.Months = append(d.Months, "CONSOLIDADO")
		d.Categories = append(d.Categories, models.Category{Name: "EBIDTA"})
	}
	return d
}

func TestSumEERR(t *testing.T) {
	a := statement("Labranza", 1000, 100, false)
	b := statement("Sevilla", 500, 50, true)
	b.Categories[1].Name = "Gastos de Remuneración"

	got := SumEERR(a, b)
	require.NotNil(t, got)
	assert.Equal(t, models.ColumnConsolidado, got.SheetName)
	assert.Equal(t, []string{"ENERO", "CONSOLIDADO"}, got.Months)
	require.Len(t, got.Categories, 3)
	assert.Equal(t, models.HeadingRemuneraciones, got.Categories[1].Name)
	assert.Equal(t, "EBIDTA", got.Categories[2].Name)

	gm := got.Categories[0].Total
	require.NotNil(t, gm)
	assert.True(t, decimal.NewFromInt(1500).Equal(gm.Monto("ENERO")))
	assert.True(t, decimal.NewFromInt(100).Equal(gm.Percent("ENERO")))

	rem := got.Categories[1]
	assert.True(t, decimal.NewFromInt(150).Equal(rem.Rows[0].Monto("ENERO")))
	assert.True(t, decimal.NewFromInt(150).Equal(rem.Total.Monto("ENERO")))

	assert.True(t, decimal.NewFromInt(1000).Equal(a.Categories[0].Total.Monto("ENERO")), "inputs untouched")
}

func TestSumEERR_NilSides(t *testing.T) {
	assert.Nil(t, SumEERR(nil, nil))

	a := statement("Labranza", 10, 1, false)
	got := SumEERR(nil, a)
	require.NotNil(t, got)
	assert.Equal(t, "Labranza", got.SheetName)
	assert.Len(t, got.Categories, 2)

	all := SumAllEERR(a, statement("Labranza", 5, 1, false), nil)
	assert.Equal(t, "Labranza", all.SheetName)
	assert.True(t, decimal.NewFromInt(15).Equal(all.Categories[0].Rows[0].Monto("ENERO")))
}
