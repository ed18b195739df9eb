package sheetparser

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"eerr/eerr-dashboard/internal/parsererror"
	"eerr/eerr-dashboard/internal/textnorm"
)

// Grid is a sheet as read from a workbook: rows of cell text. Rows may have
// different lengths; missing cells read as "".
type Grid [][]string

// Cell returns the trimmed text at (row, col), "" when out of range.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return strings.TrimSpace(g[row][col])
}

// Row returns row i, nil when out of range.
func (g Grid) Row(i int) []string {
	if i < 0 || i >= len(g) {
		return nil
	}
	return g[i]
}

// Workbook is every sheet of a workbook in tab order.
type Workbook struct {
	Name   string
	Sheets []string
	Grids  map[string]Grid
}

// Sheet returns the grid of name.
func (w *Workbook) Sheet(name string) (Grid, bool) {
	g, ok := w.Grids[name]
	return g, ok
}

// LoadWorkbook reads every sheet of an XLSX stream. name is only used in
// error messages.
func LoadWorkbook(r io.Reader, name string) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			Source:         name,
			ExpectedFormat: "xlsx",
			Msg:            "cannot open workbook",
			Err:            err,
		}
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: %w", name, parsererror.ErrEmptyWorkbook)
	}

	book := &Workbook{Name: name, Sheets: sheets, Grids: make(map[string]Grid, len(sheets))}
	for _, sheet := range sheets {
		raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, &parsererror.ParseError{Parser: "workbook", Field: "sheet", Value: sheet, Err: err}
		}
		shown, err := f.GetRows(sheet)
		if err != nil {
			return nil, &parsererror.ParseError{Parser: "workbook", Field: "sheet", Value: sheet, Err: err}
		}
		book.Grids[sheet] = rawGrid(raw, shown)
	}
	return book, nil
}

// rawGrid keeps the stored cell values, so dates arrive as serials and
// amounts unrounded. Cells displayed as percentages are scaled to the
// 0..100 range the sheets are written in.
func rawGrid(raw, shown [][]string) Grid {
	for r, row := range raw {
		if r >= len(shown) {
			break
		}
		for c, v := range row {
			if c >= len(shown[r]) || !strings.HasSuffix(strings.TrimSpace(shown[r][c]), "%") {
				continue
			}
			d, err := decimal.NewFromString(strings.TrimSpace(v))
			if err != nil {
				continue
			}
			row[c] = d.Mul(hundred).String()
		}
	}
	return Grid(raw)
}

var hundred = decimal.NewFromInt(100)

// FindConsolidadoSheet returns the first sheet whose name contains
// "consolidado", ignoring case and accents.
func FindConsolidadoSheet(book *Workbook) (string, Grid, error) {
	for _, sheet := range book.Sheets {
		if strings.Contains(textnorm.Fold(sheet), "consolidado") {
			return sheet, book.Grids[sheet], nil
		}
	}
	return "", nil, &parsererror.SheetNotFoundError{Source: book.Name, Sheet: "Consolidado"}
}
