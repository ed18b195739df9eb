package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one Libro de Compras line. It is read-only input to the
// aggregator.
type Transaction struct {
	ID            string          `json:"id" yaml:"id"`
	ImportID      string          `json:"importId,omitempty" yaml:"import_id,omitempty"`
	RUT           string          `json:"rut" yaml:"rut"`
	RazonSocial   string          `json:"razonSocial,omitempty" yaml:"razon_social,omitempty"`
	Cuenta        string          `json:"cuenta" yaml:"cuenta"`
	Clasificacion string          `json:"clasificacion,omitempty" yaml:"clasificacion,omitempty"`
	MontoNeto     decimal.Decimal `json:"montoNeto" yaml:"monto_neto"`
	MontoIVA      decimal.Decimal `json:"montoIva" yaml:"monto_iva"`
	MontoTotal    decimal.Decimal `json:"montoTotal" yaml:"monto_total"`
	FechaDocto    time.Time       `json:"fechaDocto" yaml:"fecha_docto"`
	Sucursal      string          `json:"sucursal,omitempty" yaml:"sucursal,omitempty"`
}

// Period is the month the document date falls in.
func (t Transaction) Period() Period {
	return PeriodOf(t.FechaDocto)
}

// PeriodTransactions pairs a period with the transactions booked in it.
type PeriodTransactions struct {
	Period       Period        `json:"period"`
	Transactions []Transaction `json:"transactions"`
}

// GroupByPeriod buckets transactions by document month, in ascending period
// order. Transactions without a document date are dropped.
func GroupByPeriod(txs []Transaction) []PeriodTransactions {
	buckets := make(map[Period][]Transaction)
	for _, tx := range txs {
		if tx.FechaDocto.IsZero() {
			continue
		}
		p := tx.Period()
		buckets[p] = append(buckets[p], tx)
	}

	out := make([]PeriodTransactions, 0, len(buckets))
	for p, list := range buckets {
		out = append(out, PeriodTransactions{Period: p, Transactions: list})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })
	return out
}

// FillPeriods returns one entry per period of periods, reusing the
// transactions of grouped and leaving months without activity empty.
func FillPeriods(periods []Period, grouped []PeriodTransactions) []PeriodTransactions {
	byPeriod := make(map[Period][]Transaction, len(grouped))
	for _, g := range grouped {
		byPeriod[g.Period] = append(byPeriod[g.Period], g.Transactions...)
	}
	out := make([]PeriodTransactions, 0, len(periods))
	for _, p := range periods {
		out = append(out, PeriodTransactions{Period: p, Transactions: byPeriod[p]})
	}
	return out
}

// FilterBranch keeps the transactions of one branch. An empty branch keeps all.
func FilterBranch(txs []Transaction, sucursal string) []Transaction {
	if sucursal == "" {
		return txs
	}
	var out []Transaction
	for _, tx := range txs {
		if tx.Sucursal == sucursal {
			out = append(out, tx)
		}
	}
	return out
}
