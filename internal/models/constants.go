package models

// Income-statement headings. Every ledger account ends up under exactly one of
// the six fixed headings, or under SinClasificar.
const (
	HeadingIngresos          = "INGRESOS OPERACIONALES"
	HeadingRemuneraciones    = "GASTOS DE REMUNERACION"
	HeadingOperacion         = "GASTOS DE OPERACION"
	HeadingAdministracion    = "GASTOS DE ADMINISTRACION"
	HeadingOtrosGastos       = "OTROS GASTOS"
	HeadingEgresosNoOperacio = "OTROS EGRESOS FUERA DE EXPLOTACION"

	SinClasificar = "SIN CLASIFICAR"
)

// Synthetic categories and rows produced by the aggregator.
const (
	CategoryEBITDA         = "EBITDA"
	CategoryResultadoFinal = "RESULTADO FINAL"

	// EBIDTA is the misspelling used as a heading in the branch EERR workbooks.
	HeadingEBIDTA = "EBIDTA"

	ItemVentas         = "Ventas"
	ItemCostoVenta     = "Costo de venta"
	ItemBonificacion   = "Bonificacion por tramo"
	ItemTransbank      = "Transbank"
	ItemMargenBruto    = "MARGEN BRUTO OPERACIONAL"
	ItemEBITDA         = "EBITDA"
	ItemResultadoNeto  = "RESULTADO NETO"
	TotalPrefix        = "TOTAL "
	ColumnAnual        = "ANUAL"
	ColumnConsolidado  = "CONSOLIDADO"
	ItemHeaderLabel    = "Item"
	DefaultReportTitle = "Estado de Resultados"
	BranchUnassigned   = "SIN SUCURSAL"
)

// FixedHeadings lists the six headings in statement order.
var FixedHeadings = []string{
	HeadingIngresos,
	HeadingRemuneraciones,
	HeadingOperacion,
	HeadingAdministracion,
	HeadingOtrosGastos,
	HeadingEgresosNoOperacio,
}

// EBITDAExpenseHeadings are the expense categories subtracted from the gross
// margin to obtain EBITDA.
var EBITDAExpenseHeadings = []string{
	HeadingRemuneraciones,
	HeadingOperacion,
	HeadingAdministracion,
	HeadingOtrosGastos,
}

// TotalLabel is the label of a category's total row.
func TotalLabel(category string) string {
	return TotalPrefix + category
}

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
