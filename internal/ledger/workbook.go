package ledger

import (
	"fmt"
	"io"

	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/parser"
	"eerr/eerr-dashboard/internal/parsererror"
	"eerr/eerr-dashboard/internal/sheetparser"
	"eerr/eerr-dashboard/internal/textnorm"
)

// maxHeaderScan bounds how far down a sheet the header row is looked for.
const maxHeaderScan = 30

// preferredSheet is matched against folded sheet names before any other sheet.
const preferredSheet = "compras"

// WorkbookReader reads a Libro de Compras XLSX workbook.
type WorkbookReader struct {
	parser.BaseParser
	opts Options
}

// NewWorkbookReader creates a reader applying opts to every transaction.
func NewWorkbookReader(logger logging.Logger, opts Options) *WorkbookReader {
	return &WorkbookReader{BaseParser: parser.NewBaseParser(logger), opts: opts}
}

// Read implements parser.LedgerReader.
func (r *WorkbookReader) Read(in io.Reader) ([]models.Transaction, error) {
	res, err := r.Import(in)
	if err != nil {
		return nil, err
	}
	return res.Transactions, nil
}

// Import reads in and reports how many rows were skipped.
func (r *WorkbookReader) Import(in io.Reader) (*Result, error) {
	book, err := sheetparser.LoadWorkbook(in, "libro de compras")
	if err != nil {
		return nil, err
	}
	return r.ReadBook(book)
}

// ReadBook extracts the transactions of an already loaded workbook.
func (r *WorkbookReader) ReadBook(book *sheetparser.Workbook) (*Result, error) {
	sheet, grid, headerRow, ok := findLedgerSheet(book)
	if !ok {
		return nil, &parsererror.HeaderNotFoundError{Sheet: book.Name, Expected: RequiredHeaders}
	}

	logger := r.GetLogger()
	cols := MapHeader(grid.Row(headerRow))
	if _, ok := cols[FieldCuenta]; !ok {
		return nil, &parsererror.HeaderNotFoundError{Sheet: sheet, Expected: []string{"cuenta"}}
	}

	res := &Result{ImportID: r.opts.importID()}
	for i := headerRow + 1; i < len(grid); i++ {
		rec := recordFromCells(grid, i, cols)
		if rec.empty() {
			continue
		}
		if reason := rec.skipReason(); reason != "" {
			r.Skipped(sheet, i+1, reason)
			res.Skipped++
			continue
		}
		res.Transactions = append(res.Transactions, rec.transaction(res.ImportID, r.opts.Sucursal))
	}

	logger.Info("Ledger workbook read",
		logging.Field{Key: logging.FieldSheet, Value: sheet},
		logging.Field{Key: logging.FieldCount, Value: len(res.Transactions)},
		logging.Field{Key: "skipped", Value: res.Skipped})
	return res, nil
}

// findLedgerSheet returns the sheet holding the ledger and its header row,
// trying sheets named like "Libro de Compras" first.
func findLedgerSheet(book *sheetparser.Workbook) (string, sheetparser.Grid, int, bool) {
	ordered := make([]string, 0, len(book.Sheets))
	for _, name := range book.Sheets {
		if textnorm.ContainsAny(name, preferredSheet) {
			ordered = append(ordered, name)
		}
	}
	for _, name := range book.Sheets {
		if !textnorm.ContainsAny(name, preferredSheet) {
			ordered = append(ordered, name)
		}
	}

	for _, name := range ordered {
		grid, _ := book.Sheet(name)
		for i := 0; i < len(grid) && i < maxHeaderScan; i++ {
			if IsHeaderRow(grid.Row(i)) {
				return name, grid, i, true
			}
		}
	}
	return "", nil, 0, false
}

func recordFromCells(grid sheetparser.Grid, row int, cols map[Field]int) record {
	cell := func(f Field) string {
		i, ok := cols[f]
		if !ok {
			return ""
		}
		return grid.Cell(row, i)
	}
	return record{
		rut:           cell(FieldRUT),
		razonSocial:   cell(FieldRazonSocial),
		cuenta:        cell(FieldCuenta),
		clasificacion: cell(FieldClasificacion),
		neto:          cell(FieldMontoNeto),
		iva:           cell(FieldMontoIVA),
		total:         cell(FieldMontoTotal),
		fecha:         cell(FieldFechaDocto),
		sucursal:      cell(FieldSucursal),
	}
}

// String describes the import for log lines.
func (r *Result) String() string {
	return fmt.Sprintf("import %s: %d transactions, %d skipped", r.ImportID, len(r.Transactions), r.Skipped)
}
