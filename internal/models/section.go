package models

// Section is a named block of the legacy Consolidado sheet: one branch (or the
// consolidated view) with its month columns and flat rows.
type Section struct {
	Name   string   `json:"name"`
	Months []string `json:"months"`
	Rows   []Row    `json:"rows"`
}

// Columns returns the column keys used by the section's rows in month order.
func (s Section) Columns() []ColumnKey {
	return ColumnsOf(s.Months, s.Rows)
}
