package sheetparser

import (
	"sort"

	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/textnorm"
)

// BuildColumnMap maps column indexes to (month, metric) keys from a header
// row of month names and the sub-header row below it. A month name covers the
// following cells until the next month, which is how merged header cells read
// back. Columns with no month or an unknown sub-header are dropped. A month
// cell with a blank sub-header is read as that month's Monto.
func BuildColumnMap(header, sub []string) map[int]models.ColumnKey {
	out := make(map[int]models.ColumnKey)
	month := ""
	for i := range header {
		cell := header[i]
		isMonthCell := false
		if m, ok := models.NormalizeMonth(cell); ok {
			month = m
			isMonthCell = true
		} else if textnorm.Fold(cell) != "" {
			// Another label ends the merged run.
			month = ""
		}
		if month == "" {
			continue
		}

		subCell := ""
		if i < len(sub) {
			subCell = sub[i]
		}
		if metric, ok := models.ParseMetric(subCell); ok {
			out[i] = models.ColumnKey{Month: month, Metric: metric}
			continue
		}
		if isMonthCell && textnorm.Fold(subCell) == "" {
			out[i] = models.MontoOf(month)
		}
	}

	// Sub-header cells beyond the header's last cell still belong to the
	// last month.
	if month != "" {
		for i := len(header); i < len(sub); i++ {
			if metric, ok := models.ParseMetric(sub[i]); ok {
				out[i] = models.ColumnKey{Month: month, Metric: metric}
			}
		}
	}
	return out
}

// MonthsOf lists the months of a column map in column order.
func MonthsOf(cols map[int]models.ColumnKey) []string {
	idx := sortedIndexes(cols)
	seen := make(map[string]bool)
	var months []string
	for _, i := range idx {
		m := cols[i].Month
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	return months
}

func sortedIndexes(cols map[int]models.ColumnKey) []int {
	idx := make([]int, 0, len(cols))
	for i := range cols {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// rowFromCells builds a row labelled item with every mapped column set, in
// column order. Cells are read with the value parser, so blanks and error
// markers become zero.
func rowFromCells(item string, cells []string, cols map[int]models.ColumnKey, idx []int) models.Row {
	r := models.NewRow(item)
	for _, i := range idx {
		v := ""
		if i < len(cells) {
			v = cells[i]
		}
		r.Set(cols[i], parseCell(v))
	}
	return r
}

// hasValues reports whether any mapped cell of cells is non-blank.
func hasValues(cells []string, idx []int) bool {
	for _, i := range idx {
		if i < len(cells) && textnorm.Fold(cells[i]) != "" {
			return true
		}
	}
	return false
}

func isMonthHeader(cells []string) bool {
	joined := textnorm.JoinRow(cells)
	return containsWord(joined, "enero") && containsWord(joined, "febrero")
}
