package aggregator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func tx(cuenta string, monto int64, date string) models.Transaction {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return models.Transaction{Cuenta: cuenta, MontoNeto: dec(monto), FechaDocto: d}
}

func newTestAggregator() *Aggregator {
	return NewAggregator(nil, logging.NewMockLogger())
}

func assertDec(t *testing.T, want int64, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %d got %s", msg, want, got)
}

func novemberScenario() models.PeriodTransactions {
	return models.PeriodTransactions{
		Period: mustPeriod("2024-11"),
		Transactions: []models.Transaction{
			tx("Ventas", 1000000, "2024-11-05"),
			tx("Sueldo Personal", 300000, "2024-11-10"),
			tx("Arriendo", 100000, "2024-11-01"),
		},
	}
}

func checkNovemberScenario(t *testing.T, data *models.EERRData, col string) {
	t.Helper()

	income, ok := data.Category(models.HeadingIngresos)
	require.True(t, ok)
	require.NotNil(t, income.Total)
	assert.Equal(t, models.ItemMargenBruto, income.Total.Item)
	assertDec(t, 1000000, income.Total.Monto(col), "gross margin")

	rem, _ := data.Category(models.HeadingRemuneraciones)
	assertDec(t, 300000, rem.Total.Monto(col), "remuneration total")

	otros, _ := data.Category(models.HeadingOtrosGastos)
	assertDec(t, 100000, otros.Total.Monto(col), "other expenses total")

	for _, h := range []string{models.HeadingOperacion, models.HeadingAdministracion, models.HeadingEgresosNoOperacio} {
		c, ok := data.Category(h)
		require.True(t, ok, h)
		assert.True(t, c.Total.Monto(col).IsZero(), h)
	}

	ebitda, ok := data.FindRow(models.ItemEBITDA)
	require.True(t, ok)
	assertDec(t, 600000, ebitda.Monto(col), "ebitda")

	net, ok := data.FindRow(models.ItemResultadoNeto)
	require.True(t, ok)
	assertDec(t, 600000, net.Monto(col), "net result")

	ventas, _ := data.FindRow(models.ItemVentas)
	assertDec(t, 100, ventas.Percent(col), "ventas %")
	sueldo, _ := data.FindRow("Sueldo Personal")
	assertDec(t, 30, sueldo.Percent(col), "sueldo %")
	arriendo, _ := data.FindRow("Arriendo")
	assertDec(t, 10, arriendo.Percent(col), "arriendo %")
	assertDec(t, 60, ebitda.Percent(col), "ebitda %")
}

func TestAggregatePeriod_EndToEnd(t *testing.T) {
	data := newTestAggregator().AggregatePeriod(novemberScenario(), nil)

	assert.Equal(t, []string{"NOVIEMBRE 2024"}, data.Months)
	checkNovemberScenario(t, data, "NOVIEMBRE 2024")
}

func TestAggregate_EndToEnd(t *testing.T) {
	data := newTestAggregator().Aggregate([]models.PeriodTransactions{novemberScenario()}, nil)

	assert.Equal(t, []string{"NOVIEMBRE 2024", models.ColumnAnual}, data.Months)
	checkNovemberScenario(t, data, "NOVIEMBRE 2024")
	checkNovemberScenario(t, data, models.ColumnAnual)
}

func TestAggregate_CategoryLayout(t *testing.T) {
	data := newTestAggregator().Aggregate([]models.PeriodTransactions{novemberScenario()}, nil)

	var names []string
	for _, c := range data.Categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		models.HeadingIngresos,
		models.HeadingRemuneraciones,
		models.HeadingOperacion,
		models.HeadingAdministracion,
		models.HeadingOtrosGastos,
		models.CategoryEBITDA,
		models.HeadingEgresosNoOperacio,
		models.CategoryResultadoFinal,
	}, names)

	assert.Equal(t, "Ventas", data.Categories[0].Rows[0].Item)
	assert.Equal(t, "TOTAL GASTOS DE REMUNERACION", data.Categories[1].Total.Item)
	assert.Equal(t, []models.ColumnKey{
		models.MontoOf("NOVIEMBRE 2024"), models.PercentOf("NOVIEMBRE 2024"),
		models.MontoOf("ANUAL"), models.PercentOf("ANUAL"),
	}, data.Categories[0].Rows[0].Keys())
}

func TestAggregatePeriod_ZeroTransactions(t *testing.T) {
	p := models.PeriodTransactions{Period: mustPeriod("2024-11")}
	data := newTestAggregator().AggregatePeriod(p, nil)

	ventas, ok := data.FindRow(models.ItemVentas)
	require.True(t, ok)
	assert.True(t, ventas.Monto("NOVIEMBRE 2024").IsZero())

	for _, c := range data.Categories {
		if c.Total != nil {
			assert.True(t, c.Total.Monto("NOVIEMBRE 2024").IsZero(), c.Name)
		}
		for _, r := range c.Rows {
			assert.True(t, r.Monto("NOVIEMBRE 2024").IsZero(), r.Item)
		}
	}
	_, hasUnclassified := data.Category(models.SinClasificar)
	assert.False(t, hasUnclassified)
}

func TestAggregate_ZeroVentasLeavesPercentagesAtZero(t *testing.T) {
	p := models.PeriodTransactions{
		Period: mustPeriod("2024-03"),
		Transactions: []models.Transaction{
			tx("Sueldo", 500, "2024-03-02"),
			tx("Ventas", -10, "2024-03-02"),
		},
	}
	data := newTestAggregator().Aggregate([]models.PeriodTransactions{p}, nil)

	for _, r := range data.Flatten() {
		assert.True(t, r.Percent("MARZO 2024").IsZero(), r.Item)
		assert.True(t, r.Percent(models.ColumnAnual).IsZero(), r.Item)
	}
}

func TestAggregate_MultiPeriodAndManualValues(t *testing.T) {
	oct := mustPeriod("2024-10")
	nov := mustPeriod("2024-11")
	periods := []models.PeriodTransactions{
		{Period: oct, Transactions: []models.Transaction{
			tx("Ventas", 1000, "2024-10-01"),
			tx("Arriendo", 100, "2024-10-01"),
			tx("Arriendo", 50, "2024-10-15"),
		}},
		{Period: nov, Transactions: []models.Transaction{
			tx("Ventas", 3000, "2024-11-01"),
			tx("Luz", 200, "2024-11-02"),
		}},
	}
	manual := models.ManualValues{}
	manual.Set(nov, "ventas", dec(2000))
	manual.Set(oct, "Bonificacion por tramo", dec(500))
	manual.Set(nov, "Honorarios", dec(100))

	data := newTestAggregator().Aggregate(periods, manual)
	assert.Equal(t, []string{"OCTUBRE 2024", "NOVIEMBRE 2024", "ANUAL"}, data.Months)

	ventas, _ := data.FindRow(models.ItemVentas)
	assertDec(t, 1000, ventas.Monto("OCTUBRE 2024"), "oct ventas")
	assertDec(t, 2000, ventas.Monto("NOVIEMBRE 2024"), "manual nov ventas")
	assertDec(t, 3000, ventas.Monto("ANUAL"), "annual ventas")

	arriendo, _ := data.FindRow("Arriendo")
	assertDec(t, 150, arriendo.Monto("OCTUBRE 2024"), "summed duplicates")
	assert.True(t, arriendo.Monto("NOVIEMBRE 2024").IsZero())

	bono, ok := data.FindRow("Bonificacion por tramo")
	require.True(t, ok, "manual-only account becomes a row")
	assertDec(t, 500, bono.Monto("OCTUBRE 2024"), "bonificacion")

	gm, _ := data.FindRow(models.ItemMargenBruto)
	assertDec(t, 1500, gm.Monto("OCTUBRE 2024"), "oct gross margin")
	assertDec(t, 3500, gm.Monto("ANUAL"), "annual gross margin")

	honorarios, _ := data.FindRow("Honorarios")
	assertDec(t, 5, honorarios.Percent("NOVIEMBRE 2024"), "honorarios %")

	ebitda, _ := data.FindRow(models.ItemEBITDA)
	assertDec(t, 1350, ebitda.Monto("OCTUBRE 2024"), "oct ebitda")
	assertDec(t, 1700, ebitda.Monto("NOVIEMBRE 2024"), "nov ebitda")
	assertDec(t, 3050, ebitda.Monto("ANUAL"), "annual ebitda")
}

func TestAggregate_GrossMarginInputs(t *testing.T) {
	p := models.PeriodTransactions{
		Period: mustPeriod("2024-01"),
		Transactions: []models.Transaction{
			tx("Ventas", 1000, "2024-01-01"),
			tx("Costo de Venta", 400, "2024-01-01"),
			tx("Comision Transbank", 999, "2024-01-01"),
			tx("Transbank", 20, "2024-01-01"),
			tx("Bonificación por tramo", 10, "2024-01-01"),
		},
	}
	data := newTestAggregator().AggregatePeriod(p, nil)

	income, _ := data.Category(models.HeadingIngresos)
	assert.Len(t, income.Rows, 5)
	assertDec(t, 590, income.Total.Monto("ENERO 2024"), "ventas - costo + bonificacion - transbank")
	assertDec(t, 59, income.Total.Percent("ENERO 2024"), "gm %")
}

func TestAggregate_ManualHeadings(t *testing.T) {
	date := "2024-05-01"
	special := tx("Caja chica", 100, date)
	special.Clasificacion = "gastos de administración"
	custom := tx("Proyecto X", 50, date)
	custom.Clasificacion = "PROYECTOS"

	p := models.PeriodTransactions{
		Period:       mustPeriod("2024-05"),
		Transactions: []models.Transaction{tx("Ventas", 1000, date), special, custom},
	}
	data := newTestAggregator().Aggregate([]models.PeriodTransactions{p}, nil)

	admin, _ := data.Category(models.HeadingAdministracion)
	require.Len(t, admin.Rows, 1)
	assert.Equal(t, "Caja chica", admin.Rows[0].Item)

	unclassified, ok := data.Category(models.SinClasificar)
	require.True(t, ok)
	require.Len(t, unclassified.Rows, 1)
	assert.Equal(t, "TOTAL SIN CLASIFICAR", unclassified.Total.Item)
	assertDec(t, 5, unclassified.Rows[0].Percent("MAYO 2024"), "unclassified %")

	ebitda, _ := data.FindRow(models.ItemEBITDA)
	assertDec(t, 900, ebitda.Monto("MAYO 2024"), "unclassified rows stay out of EBITDA")
	assert.Equal(t, models.SinClasificar, data.Categories[len(data.Categories)-1].Name)
}

func TestAggregatePeriod_RoundsPercentages(t *testing.T) {
	p := models.PeriodTransactions{
		Period: mustPeriod("2024-02"),
		Transactions: []models.Transaction{
			tx("Ventas", 3, "2024-02-01"),
			tx("Luz", 1, "2024-02-01"),
		},
	}
	single := newTestAggregator().AggregatePeriod(p, nil)
	luz, _ := single.FindRow("Luz")
	assert.Equal(t, "33.33", luz.Percent("FEBRERO 2024").String())

	multi := newTestAggregator().Aggregate([]models.PeriodTransactions{p}, nil)
	luz, _ = multi.FindRow("Luz")
	assert.True(t, luz.Percent("FEBRERO 2024").GreaterThan(decimal.RequireFromString("33.333")))
}

func TestAggregateRange(t *testing.T) {
	txs := []models.Transaction{
		tx("Ventas", 100, "2024-01-10"),
		tx("Ventas", 200, "2024-03-10"),
		tx("Ventas", 999, "2023-12-31"),
	}
	data := newTestAggregator().AggregateRange(txs, mustPeriod("2024-01"), mustPeriod("2024-03"), nil)

	assert.Equal(t, []string{"ENERO 2024", "FEBRERO 2024", "MARZO 2024", "ANUAL"}, data.Months)
	ventas, _ := data.FindRow(models.ItemVentas)
	assertDec(t, 300, ventas.Monto("ANUAL"), "annual")
	assert.True(t, ventas.Monto("FEBRERO 2024").IsZero())
}

func TestAggregate_Options(t *testing.T) {
	a := NewAggregator(nil, nil, WithAnnualLabel("TOTAL AÑO"), WithTitle("EERR Labranza"), WithPercentPlaces(0))
	data := a.Aggregate([]models.PeriodTransactions{novemberScenario()}, nil)

	assert.Equal(t, "EERR Labranza", data.SheetName)
	assert.Equal(t, "TOTAL AÑO", data.Months[len(data.Months)-1])
}

func TestAggregate_SkipsBlankAccounts(t *testing.T) {
	logger := logging.NewMockLogger()
	p := models.PeriodTransactions{
		Period:       mustPeriod("2024-11"),
		Transactions: []models.Transaction{tx("  ", 5, "2024-11-01")},
	}
	data := NewAggregator(nil, logger).AggregatePeriod(p, nil)

	assert.Len(t, data.Flatten(), 9)
	assert.True(t, logger.HasEntry("DEBUG", "Transaction without account skipped"))
}

func mustPeriod(s string) models.Period {
	p, err := models.ParsePeriod(s)
	if err != nil {
		panic(err)
	}
	return p
}
