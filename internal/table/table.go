// Package table merges parallel financial tables, typically one per branch,
// into a consolidated one. Monetary columns are summed and percent columns
// averaged.
package table

import (
	"github.com/shopspring/decimal"

	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/textnorm"
)

var two = decimal.NewFromInt(2)

// combineValue merges one column of two rows. Percent columns average the two
// sides when both are positive, take the positive side when only one is, and
// are zero otherwise. Every other column is summed.
func combineValue(k models.ColumnKey, a, b decimal.Decimal) decimal.Decimal {
	if !k.IsPercent() {
		return a.Add(b)
	}
	switch {
	case a.IsPositive() && b.IsPositive():
		return a.Add(b).Div(two)
	case a.IsPositive():
		return a
	case b.IsPositive():
		return b
	default:
		return decimal.Zero
	}
}

// CombineRows merges two rows column by column, keeping a's label. Columns
// are a's in order, then b's extra ones.
func CombineRows(a, b models.Row) models.Row {
	out := models.NewRow(a.Item)
	for _, k := range a.Keys() {
		out.Set(k, combineValue(k, a.Get(k), b.Get(k)))
	}
	for _, k := range b.Keys() {
		if !a.Has(k) {
			out.Set(k, combineValue(k, decimal.Zero, b.Get(k)))
		}
	}
	return out
}

type merged struct {
	order []string
	rows  map[string]models.Row
}

func (m *merged) add(r models.Row) {
	key := textnorm.Fold(r.Item)
	if existing, ok := m.rows[key]; ok {
		m.rows[key] = CombineRows(existing, r)
		return
	}
	m.order = append(m.order, key)
	m.rows[key] = r.Clone()
}

func (m *merged) list() []models.Row {
	out := make([]models.Row, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.rows[k])
	}
	return out
}

// Sum merges two tables keyed by Item (compared case- and accent-folded).
// The result lists a's items in order, then items only b has. Rows repeated
// within one table are merged with the same column rules.
func Sum(a, b []models.Row) []models.Row {
	m := &merged{rows: make(map[string]models.Row, len(a)+len(b))}
	for _, r := range a {
		m.add(r)
	}
	for _, r := range b {
		m.add(r)
	}
	return m.list()
}

// SumAll folds Sum over tables from left to right.
func SumAll(tables ...[]models.Row) []models.Row {
	if len(tables) == 0 {
		return nil
	}
	out := Sum(tables[0], nil)
	for _, t := range tables[1:] {
		out = Sum(out, t)
	}
	return out
}

// SumEERR merges two statements category by category. Categories are matched
// on their folded name; rows inside a category are merged with Sum and the
// totals with CombineRows. Months are a's, then b's extra ones.
func SumEERR(a, b *models.EERRData) *models.EERRData {
	if a == nil && b == nil {
		return nil
	}
	if a == nil {
		a, b = b, nil
	}

	out := &models.EERRData{SheetName: a.SheetName, Months: append([]string(nil), a.Months...)}
	if b == nil {
		for _, c := range a.Categories {
			out.Categories = append(out.Categories, mergeCategory(c, models.Category{}))
		}
		return out
	}

	if !textnorm.Equal(a.SheetName, b.SheetName) {
		out.SheetName = models.ColumnConsolidado
	}
	seenMonth := make(map[string]bool, len(a.Months))
	for _, m := range a.Months {
		seenMonth[m] = true
	}
	for _, m := range b.Months {
		if !seenMonth[m] {
			seenMonth[m] = true
			out.Months = append(out.Months, m)
		}
	}

	matched := make(map[int]bool)
	for _, ca := range a.Categories {
		cb := models.Category{}
		for j, c := range b.Categories {
			if !matched[j] && textnorm.Equal(c.Name, ca.Name) {
				cb = c
				matched[j] = true
				break
			}
		}
		out.Categories = append(out.Categories, mergeCategory(ca, cb))
	}
	for j, cb := range b.Categories {
		if !matched[j] {
			out.Categories = append(out.Categories, mergeCategory(cb, models.Category{}))
		}
	}
	return out
}

func mergeCategory(a, b models.Category) models.Category {
	out := models.Category{Name: a.Name, Rows: Sum(a.Rows, b.Rows)}
	switch {
	case a.Total != nil && b.Total != nil:
		t := CombineRows(*a.Total, *b.Total)
		out.Total = &t
	case a.Total != nil:
		t := a.Total.Clone()
		out.Total = &t
	case b.Total != nil:
		t := b.Total.Clone()
		out.Total = &t
	}
	return out
}

// SumAllEERR folds SumEERR over statements, e.g. every branch of a user.
func SumAllEERR(statements ...*models.EERRData) *models.EERRData {
	var out *models.EERRData
	for _, s := range statements {
		out = SumEERR(out, s)
	}
	return out
}
