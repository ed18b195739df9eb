package ledger

import (
	"io"

	"eerr/eerr-dashboard/internal/common"
	"eerr/eerr-dashboard/internal/dateutils"
	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/parser"
)

// LedgerCSVRow is one line of a Libro de Compras CSV export. Amounts and
// dates stay as text and go through the same parsing as workbook cells.
type LedgerCSVRow struct {
	RUT           string `csv:"rut"`
	RazonSocial   string `csv:"razon_social"`
	Cuenta        string `csv:"cuenta"`
	Clasificacion string `csv:"clasificacion"`
	MontoNeto     string `csv:"monto_neto"`
	MontoIVA      string `csv:"monto_iva"`
	MontoTotal    string `csv:"monto_total"`
	FechaDocto    string `csv:"fecha_docto"`
	Sucursal      string `csv:"sucursal"`
}

func (row LedgerCSVRow) record() record {
	return record{
		rut:           row.RUT,
		razonSocial:   row.RazonSocial,
		cuenta:        row.Cuenta,
		clasificacion: row.Clasificacion,
		neto:          row.MontoNeto,
		iva:           row.MontoIVA,
		total:         row.MontoTotal,
		fecha:         row.FechaDocto,
		sucursal:      row.Sucursal,
	}
}

// CSVReader reads a Libro de Compras CSV export.
type CSVReader struct {
	parser.BaseParser
	opts      Options
	delimiter rune
}

// NewCSVReader creates a CSV reader; a zero delimiter means ','.
func NewCSVReader(logger logging.Logger, delimiter rune, opts Options) *CSVReader {
	return &CSVReader{BaseParser: parser.NewBaseParser(logger), opts: opts, delimiter: delimiter}
}

// Read implements parser.LedgerReader.
func (r *CSVReader) Read(in io.Reader) ([]models.Transaction, error) {
	res, err := r.Import(in)
	if err != nil {
		return nil, err
	}
	return res.Transactions, nil
}

// Import reads in and reports how many rows were skipped.
func (r *CSVReader) Import(in io.Reader) (*Result, error) {
	rows, err := common.ReadCSV[LedgerCSVRow](in, r.delimiter, r.GetLogger())
	if err != nil {
		return nil, err
	}

	res := &Result{ImportID: r.opts.importID()}
	for i, row := range rows {
		rec := row.record()
		if rec.empty() {
			continue
		}
		if reason := rec.skipReason(); reason != "" {
			// +2: header line and 1-based numbering
			r.Skipped("csv", i+2, reason)
			res.Skipped++
			continue
		}
		res.Transactions = append(res.Transactions, rec.transaction(res.ImportID, r.opts.Sucursal))
	}

	r.GetLogger().Info("Ledger CSV read",
		logging.Field{Key: logging.FieldCount, Value: len(res.Transactions)},
		logging.Field{Key: "skipped", Value: res.Skipped})
	return res, nil
}

// ToCSVRows converts transactions back to export rows.
func ToCSVRows(txs []models.Transaction) []LedgerCSVRow {
	out := make([]LedgerCSVRow, 0, len(txs))
	for _, tx := range txs {
		out = append(out, LedgerCSVRow{
			RUT:           tx.RUT,
			RazonSocial:   tx.RazonSocial,
			Cuenta:        tx.Cuenta,
			Clasificacion: tx.Clasificacion,
			MontoNeto:     tx.MontoNeto.String(),
			MontoIVA:      tx.MontoIVA.String(),
			MontoTotal:    tx.MontoTotal.String(),
			FechaDocto:    tx.FechaDocto.Format(dateutils.DateLayoutChilean),
			Sucursal:      tx.Sucursal,
		})
	}
	return out
}
