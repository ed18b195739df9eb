package models

import (
	"strings"

	"eerr/eerr-dashboard/internal/textnorm"
)

// Category is a named group of statement rows with an optional total row.
type Category struct {
	Name  string `json:"name"`
	Rows  []Row  `json:"rows"`
	Total *Row   `json:"total,omitempty"`
}

// FindRow returns the first row whose item folds to item.
func (c *Category) FindRow(item string) (*Row, bool) {
	key := textnorm.Fold(item)
	for i := range c.Rows {
		if textnorm.Fold(c.Rows[i].Item) == key {
			return &c.Rows[i], true
		}
	}
	return nil, false
}

// EERRData is an income statement: a report name, the ordered month labels
// (plus a trailing synthetic column when present) and the categories in
// statement order.
type EERRData struct {
	SheetName  string     `json:"sheetName"`
	Months     []string   `json:"months"`
	Categories []Category `json:"categories"`
}

// Category returns the category called name, matched on folded text.
func (d *EERRData) Category(name string) (*Category, bool) {
	key := textnorm.Fold(name)
	for i := range d.Categories {
		if textnorm.Fold(d.Categories[i].Name) == key {
			return &d.Categories[i], true
		}
	}
	return nil, false
}

// FindRow searches every category (rows, then totals) for item.
func (d *EERRData) FindRow(item string) (*Row, bool) {
	key := textnorm.Fold(item)
	for i := range d.Categories {
		c := &d.Categories[i]
		if r, ok := c.FindRow(item); ok {
			return r, true
		}
		if c.Total != nil && textnorm.Fold(c.Total.Item) == key {
			return c.Total, true
		}
	}
	return nil, false
}

// Flatten lists every category's rows followed by its total, in order.
func (d *EERRData) Flatten() []Row {
	var out []Row
	for _, c := range d.Categories {
		out = append(out, c.Rows...)
		if c.Total != nil {
			out = append(out, *c.Total)
		}
	}
	return out
}

// Columns returns the column keys of the statement: for every month, the
// metrics that occur in any row, in Monto, %, Promedio order.
func (d *EERRData) Columns() []ColumnKey {
	return ColumnsOf(d.Months, d.Flatten())
}

// ColumnsOf orders the columns used by rows by the given months, appending
// columns of months not listed in first-seen order.
func ColumnsOf(months []string, rows []Row) []ColumnKey {
	present := make(map[ColumnKey]bool)
	var seen []ColumnKey
	for _, r := range rows {
		for _, k := range r.keys {
			if !present[k] {
				present[k] = true
				seen = append(seen, k)
			}
		}
	}

	var out []ColumnKey
	used := make(map[ColumnKey]bool)
	for _, m := range months {
		for _, metric := range []Metric{Monto, Percent, Promedio} {
			k := ColumnKey{Month: m, Metric: metric}
			if present[k] && !used[k] {
				used[k] = true
				out = append(out, k)
			}
		}
	}
	for _, k := range seen {
		if !used[k] {
			used[k] = true
			out = append(out, k)
		}
	}
	return out
}

// IsTotalItem reports whether item is a category total label.
func IsTotalItem(item string) bool {
	up := textnorm.Upper(item)
	if up == ItemMargenBruto {
		return true
	}
	return strings.HasPrefix(up, TotalPrefix) && len(up) > len(TotalPrefix)
}
