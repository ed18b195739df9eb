// Package ledger imports Libro de Compras transactions from XLSX workbooks and
// CSV exports.
package ledger

import (
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"eerr/eerr-dashboard/internal/dateutils"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/parser"
	"eerr/eerr-dashboard/internal/textnorm"
	"eerr/eerr-dashboard/internal/valueparser"
)

// Field identifies a ledger column.
type Field int

const (
	FieldRUT Field = iota
	FieldRazonSocial
	FieldCuenta
	FieldClasificacion
	FieldMontoNeto
	FieldMontoIVA
	FieldMontoTotal
	FieldFechaDocto
	FieldSucursal
)

// headerAliases lists the folded header texts accepted for each field. The
// first alias is also matched as a substring when no header equals any alias.
var headerAliases = map[Field][]string{
	FieldRUT:           {"rut", "rut proveedor", "rut emisor"},
	FieldRazonSocial:   {"razon social", "proveedor", "nombre"},
	FieldCuenta:        {"cuenta", "cuenta contable", "cuenta de gasto"},
	FieldClasificacion: {"clasificacion", "clasificacion manual", "categoria"},
	FieldMontoNeto:     {"monto neto", "neto"},
	FieldMontoIVA:      {"monto iva", "iva", "iva recuperable"},
	FieldMontoTotal:    {"monto total", "total"},
	FieldFechaDocto:    {"fecha docto", "fecha documento", "fecha"},
	FieldSucursal:      {"sucursal", "local"},
}

var fieldOrder = []Field{
	FieldRUT, FieldRazonSocial, FieldCuenta, FieldClasificacion,
	FieldMontoNeto, FieldMontoIVA, FieldMontoTotal, FieldFechaDocto, FieldSucursal,
}

// RequiredHeaders are the header cells that identify a Libro de Compras header row.
var RequiredHeaders = []string{"rut", "monto neto"}

// Options are applied to every transaction of one import.
type Options struct {
	// ImportID tags the batch; a new uuid is generated when empty.
	ImportID string
	// Sucursal is used for rows whose own branch cell is blank.
	Sucursal string
}

// Importer is a LedgerReader that also reports skipped rows.
type Importer interface {
	parser.LedgerReader
	Import(in io.Reader) (*Result, error)
}

var (
	_ Importer = (*WorkbookReader)(nil)
	_ Importer = (*CSVReader)(nil)
)

// Result is the outcome of one import.
type Result struct {
	ImportID     string               `json:"importId"`
	Transactions []models.Transaction `json:"transactions"`
	Skipped      int                  `json:"skipped"`
}

func (o Options) importID() string {
	if o.ImportID != "" {
		return o.ImportID
	}
	return uuid.NewString()
}

// MapHeader returns the column index of every field found in header. Exact
// alias matches win over substring matches.
func MapHeader(header []string) map[Field]int {
	folded := make([]string, len(header))
	for i, h := range header {
		folded[i] = textnorm.Fold(h)
	}

	cols := make(map[Field]int)
	taken := make(map[int]bool)
	for _, f := range fieldOrder {
		for i, h := range folded {
			if !taken[i] && isAlias(h, headerAliases[f]) {
				cols[f] = i
				taken[i] = true
				break
			}
		}
	}
	for _, f := range fieldOrder {
		if _, ok := cols[f]; ok {
			continue
		}
		primary := headerAliases[f][0]
		for i, h := range folded {
			if !taken[i] && h != "" && strings.Contains(h, primary) {
				cols[f] = i
				taken[i] = true
				break
			}
		}
	}
	return cols
}

func isAlias(h string, aliases []string) bool {
	for _, a := range aliases {
		if h == a {
			return true
		}
	}
	return false
}

// IsHeaderRow reports whether cells carry every required header.
func IsHeaderRow(cells []string) bool {
	found := 0
	for _, want := range RequiredHeaders {
		for _, c := range cells {
			if textnorm.Fold(c) == want {
				found++
				break
			}
		}
	}
	return found == len(RequiredHeaders)
}

// record is one ledger line before conversion, as text cells.
type record struct {
	rut, razonSocial, cuenta, clasificacion string
	neto, iva, total, fecha, sucursal       string
}

func (r record) empty() bool {
	for _, v := range []string{r.rut, r.razonSocial, r.cuenta, r.neto, r.iva, r.total, r.fecha} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// skipReason is empty when r converts to a transaction.
func (r record) skipReason() string {
	if strings.TrimSpace(r.cuenta) == "" {
		return "missing cuenta"
	}
	if strings.TrimSpace(r.fecha) == "" {
		return "missing fecha docto"
	}
	if _, err := dateutils.ParseDate(r.fecha); err != nil {
		return "invalid fecha docto"
	}
	return ""
}

// transaction converts r. The total defaults to neto + iva when its cell is
// blank.
func (r record) transaction(importID, defaultSucursal string) models.Transaction {
	date, _ := dateutils.ParseDate(r.fecha)
	neto := valueparser.ParseString(r.neto)
	iva := valueparser.ParseString(r.iva)
	total := valueparser.ParseString(r.total)
	if strings.TrimSpace(r.total) == "" {
		total = neto.Add(iva)
	}

	sucursal := strings.TrimSpace(r.sucursal)
	if sucursal == "" {
		sucursal = defaultSucursal
	}

	return models.Transaction{
		ID:            uuid.NewString(),
		ImportID:      importID,
		RUT:           strings.TrimSpace(r.rut),
		RazonSocial:   strings.TrimSpace(r.razonSocial),
		Cuenta:        strings.TrimSpace(r.cuenta),
		Clasificacion: strings.TrimSpace(r.clasificacion),
		MontoNeto:     neto,
		MontoIVA:      iva,
		MontoTotal:    total,
		FechaDocto:    date,
		Sucursal:      sucursal,
	}
}

// Totals sums the net amounts of txs.
func Totals(txs []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.MontoNeto)
	}
	return total
}
