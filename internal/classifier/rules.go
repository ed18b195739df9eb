package classifier

import "eerr/eerr-dashboard/internal/models"

// DefaultRules returns the built-in keyword table. Income comes first so that
// "Costo de venta" and "Comision Transbank" stay under income, where the gross
// margin reads them.
func DefaultRules() []models.HeadingRule {
	return []models.HeadingRule{
		{
			Heading:  models.HeadingIngresos,
			Keywords: []string{"venta", "ingreso", "bonificacion", "transbank"},
		},
		{
			Heading: models.HeadingRemuneraciones,
			Keywords: []string{
				"sueldo", "remuneracion", "honorario", "salario", "imposicion",
				"finiquito", "leyes sociales", "bono", "aguinaldo", "gratificacion",
			},
		},
		{
			Heading: models.HeadingOperacion,
			Keywords: []string{
				"luz", "agua", "electricidad", "internet", "telefono", "combustible",
				"insumo", "mercaderia", "flete", "transporte", "aseo",
			},
		},
		{
			Heading: models.HeadingAdministracion,
			Keywords: []string{
				"administracion", "contador", "contabilidad", "asesoria", "legal",
				"notaria", "banco", "comision bancaria", "seguro", "patente", "oficina",
			},
		},
		{
			Heading: models.HeadingOtrosGastos,
			Keywords: []string{
				"arriendo", "gasto comun", "mantencion", "reparacion", "donacion", "multa",
			},
		},
		{
			Heading: models.HeadingEgresosNoOperacio,
			Keywords: []string{
				"interes", "credito", "prestamo", "impuesto", "depreciacion",
				"amortizacion", "leasing",
			},
		},
	}
}
