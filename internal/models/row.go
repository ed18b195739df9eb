package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"eerr/eerr-dashboard/internal/valueparser"
)

// Row is one line of a financial table: an Item label and an ordered set of
// per-month values. Parsed spreadsheet rows and generated statement rows share
// this shape.
type Row struct {
	Item   string
	keys   []ColumnKey
	values map[ColumnKey]decimal.Decimal
}

// NewRow creates an empty row labelled item.
func NewRow(item string) Row {
	return Row{Item: item, values: make(map[ColumnKey]decimal.Decimal)}
}

// Set stores v under k, appending k to the column order on first use.
func (r *Row) Set(k ColumnKey, v decimal.Decimal) {
	if r.values == nil {
		r.values = make(map[ColumnKey]decimal.Decimal)
	}
	if _, ok := r.values[k]; !ok {
		r.keys = append(r.keys, k)
	}
	r.values[k] = v
}

// Add accumulates v into k.
func (r *Row) Add(k ColumnKey, v decimal.Decimal) {
	r.Set(k, r.Get(k).Add(v))
}

// Get returns the value at k, zero when absent.
func (r Row) Get(k ColumnKey) decimal.Decimal {
	if v, ok := r.values[k]; ok {
		return v
	}
	return decimal.Zero
}

// Lookup returns the value at k and whether it was set.
func (r Row) Lookup(k ColumnKey) (decimal.Decimal, bool) {
	v, ok := r.values[k]
	return v, ok
}

// Has reports whether k was set.
func (r Row) Has(k ColumnKey) bool {
	_, ok := r.values[k]
	return ok
}

// Keys returns the columns in insertion order.
func (r Row) Keys() []ColumnKey {
	out := make([]ColumnKey, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len is the number of columns set.
func (r Row) Len() int { return len(r.keys) }

// Monto is shorthand for Get(MontoOf(month)).
func (r Row) Monto(month string) decimal.Decimal { return r.Get(MontoOf(month)) }

// Percent is shorthand for Get(PercentOf(month)).
func (r Row) Percent(month string) decimal.Decimal { return r.Get(PercentOf(month)) }

// Clone returns a deep copy.
func (r Row) Clone() Row {
	out := NewRow(r.Item)
	for _, k := range r.keys {
		out.Set(k, r.values[k])
	}
	return out
}

// WithItem returns a copy relabelled to item.
func (r Row) WithItem(item string) Row {
	out := r.Clone()
	out.Item = item
	return out
}

// MarshalJSON writes the row as a flat object, Item first and columns in order:
// {"Item":"Ventas","ENERO Monto":"1000","ENERO %":"100"}.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	item, err := json.Marshal(r.Item)
	if err != nil {
		return nil, err
	}
	buf.WriteString(`"` + ItemHeaderLabel + `":`)
	buf.Write(item)
	for _, k := range r.keys {
		label, err := json.Marshal(k.Label())
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(label)
		buf.WriteByte(':')
		buf.WriteString(r.values[k].String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat object. Values may be numbers or numeric-looking
// strings; columns whose label cannot be parsed are ignored. Object key order
// is preserved.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("row: expected object, got %v", tok)
	}

	*r = NewRow("")
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw interface{}
		if err := dec.Decode(&raw); err != nil {
			return err
		}

		if key == ItemHeaderLabel {
			if s, ok := raw.(string); ok {
				r.Item = s
			}
			continue
		}
		col, ok := ParseColumnLabel(key)
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case json.Number:
			r.Set(col, valueparser.ParseString(v.String()))
		default:
			r.Set(col, valueparser.Parse(v))
		}
	}

	_, err = dec.Token()
	return err
}
