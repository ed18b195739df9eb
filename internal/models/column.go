package models

import (
	"fmt"
	"strings"

	"eerr/eerr-dashboard/internal/textnorm"
)

// Metric is the kind of value a column holds for a month.
type Metric int

const (
	Monto Metric = iota
	Percent
	Promedio
)

// String returns the column suffix used in spreadsheet headers.
func (m Metric) String() string {
	switch m {
	case Monto:
		return "Monto"
	case Percent:
		return "%"
	case Promedio:
		return "Promedio"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

// ParseMetric reads a sub-header cell ("monto", "%", "promedio").
func ParseMetric(s string) (Metric, bool) {
	switch textnorm.Fold(s) {
	case "monto":
		return Monto, true
	case "%", "porcentaje":
		return Percent, true
	case "promedio":
		return Promedio, true
	}
	return 0, false
}

// ColumnKey addresses one value of a row: a month (or synthetic column such as
// CONSOLIDADO/ANUAL) and a metric.
type ColumnKey struct {
	Month  string
	Metric Metric
}

// MontoOf is the Monto column of month.
func MontoOf(month string) ColumnKey { return ColumnKey{Month: month, Metric: Monto} }

// PercentOf is the percent column of month.
func PercentOf(month string) ColumnKey { return ColumnKey{Month: month, Metric: Percent} }

// PromedioOf is the Promedio column of month.
func PromedioOf(month string) ColumnKey { return ColumnKey{Month: month, Metric: Promedio} }

// Label renders the key as a header label: "ENERO Monto", "ENERO %".
func (k ColumnKey) Label() string {
	return k.Month + " " + k.Metric.String()
}

func (k ColumnKey) String() string { return k.Label() }

// IsPercent reports whether the column holds a percentage.
func (k ColumnKey) IsPercent() bool { return k.Metric == Percent }

// ParseColumnLabel inverts Label. The metric is the last space-separated word.
func ParseColumnLabel(label string) (ColumnKey, bool) {
	label = strings.TrimSpace(label)
	idx := strings.LastIndex(label, " ")
	if idx <= 0 {
		return ColumnKey{}, false
	}
	metric, ok := ParseMetric(label[idx+1:])
	if !ok {
		return ColumnKey{}, false
	}
	month := strings.TrimSpace(label[:idx])
	if month == "" {
		return ColumnKey{}, false
	}
	return ColumnKey{Month: month, Metric: metric}, true
}

// MonthNames are the Spanish month names in calendar order, upper case.
var MonthNames = []string{
	"ENERO", "FEBRERO", "MARZO", "ABRIL", "MAYO", "JUNIO",
	"JULIO", "AGOSTO", "SEPTIEMBRE", "OCTUBRE", "NOVIEMBRE", "DICIEMBRE",
}

// NormalizeMonth returns the upper-case month name for s ("enero", "Setiembre"),
// or the synthetic CONSOLIDADO/ANUAL column names.
func NormalizeMonth(s string) (string, bool) {
	up := textnorm.Upper(s)
	if up == "SETIEMBRE" {
		return "SEPTIEMBRE", true
	}
	for _, m := range MonthNames {
		if up == m {
			return m, true
		}
	}
	switch up {
	case ColumnConsolidado, ColumnAnual:
		return up, true
	}
	return "", false
}
