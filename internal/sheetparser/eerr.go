package sheetparser

import (
	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/textnorm"
)

// isHeadingRow reports whether label opens a category: one of the six fixed
// headings or EBIDTA.
func isHeadingRow(label string) bool {
	key := textnorm.Fold(label)
	if key == textnorm.Fold(models.HeadingEBIDTA) {
		return true
	}
	for _, h := range models.FixedHeadings {
		if key == textnorm.Fold(h) {
			return true
		}
	}
	return false
}

// ParseEERRSheet parses one branch sheet. It returns false when the grid has
// no row with both ENERO and FEBRERO.
//
// Rows after the header pair are walked in order. A heading row opens a
// category, closing the open one. A TOTAL row or MARGEN BRUTO OPERACIONAL is
// attached as the open category's total and closes it. RESULTADO NETO closes
// the open category and appends a one-row RESULTADO FINAL category. Any other
// row joins the open category, or is dropped when none is open. A heading row
// that carries values is also kept as the category's first row, which is how
// the EBIDTA line keeps its amounts.
func (p *Parser) ParseEERRSheet(name string, grid Grid) (*models.EERRData, bool) {
	header := -1
	for i, row := range grid {
		if isMonthHeader(row) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, false
	}

	cols := BuildColumnMap(grid[header], grid.Row(header+1))
	idx := sortedIndexes(cols)
	data := &models.EERRData{SheetName: name, Months: MonthsOf(cols)}
	logger := p.GetLogger()

	var open *models.Category
	closeOpen := func() {
		if open != nil {
			data.Categories = append(data.Categories, *open)
			open = nil
		}
	}

	for i := header + 2; i < len(grid); i++ {
		label := grid.Cell(i, 0)
		if label == "" {
			continue
		}
		cells := grid[i]
		upper := textnorm.Upper(label)

		switch {
		case isHeadingRow(label):
			closeOpen()
			open = &models.Category{Name: label}
			if hasValues(cells, idx) {
				open.Rows = append(open.Rows, rowFromCells(label, cells, cols, idx))
			}

		case models.IsTotalItem(label):
			if open == nil {
				p.Skipped(name, i+1, "total without open category")
				continue
			}
			total := rowFromCells(label, cells, cols, idx)
			open.Total = &total
			closeOpen()

		case upper == models.ItemResultadoNeto:
			closeOpen()
			data.Categories = append(data.Categories, models.Category{
				Name: models.CategoryResultadoFinal,
				Rows: []models.Row{rowFromCells(label, cells, cols, idx)},
			})

		default:
			if open == nil {
				p.Skipped(name, i+1, "row outside any category")
				continue
			}
			open.Rows = append(open.Rows, rowFromCells(label, cells, cols, idx))
		}
	}
	closeOpen()

	logger.Debug("EERR sheet parsed",
		logging.Field{Key: logging.FieldSheet, Value: name},
		logging.Field{Key: logging.FieldCount, Value: len(data.Categories)})
	return data, true
}
