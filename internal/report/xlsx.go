package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"eerr/eerr-dashboard/internal/models"
)

const (
	maxSheetName = 31
	itemColWidth = 40
	valColWidth  = 16
)

var sheetNameReplacer = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")

// SheetName makes s usable as a worksheet name.
func SheetName(s string) string {
	s = strings.TrimSpace(sheetNameReplacer.Replace(s))
	if s == "" {
		s = "EERR"
	}
	if r := []rune(s); len(r) > maxSheetName {
		s = string(r[:maxSheetName])
	}
	return s
}

type xlsxStyles struct {
	header, category, total, number, percent, totalNumber int
}

func newXLSXStyles(f *excelize.File) (xlsxStyles, error) {
	var (
		st  xlsxStyles
		err error
	)
	numFmt := "#,##0"
	pctFmt := "0.00"
	border := []excelize.Border{
		{Type: "bottom", Color: "999999", Style: 1},
	}

	if st.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
		Border: border,
	}); err != nil {
		return st, fmt.Errorf("failed to create header style: %w", err)
	}
	if st.category, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Italic: true},
	}); err != nil {
		return st, fmt.Errorf("failed to create category style: %w", err)
	}
	if st.total, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: border,
	}); err != nil {
		return st, fmt.Errorf("failed to create total style: %w", err)
	}
	if st.number, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt}); err != nil {
		return st, fmt.Errorf("failed to create number style: %w", err)
	}
	if st.percent, err = f.NewStyle(&excelize.Style{CustomNumFmt: &pctFmt}); err != nil {
		return st, fmt.Errorf("failed to create percent style: %w", err)
	}
	if st.totalNumber, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Border:       border,
		CustomNumFmt: &numFmt,
	}); err != nil {
		return st, fmt.Errorf("failed to create total number style: %w", err)
	}
	return st, nil
}

// generateXLSX writes one worksheet: a header of column labels, then every
// category as a label row, its rows and its total in bold.
func (g *Generator) generateXLSX(data *models.EERRData) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			g.logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	sheet := SheetName(title(data))
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	st, err := newXLSXStyles(f)
	if err != nil {
		return nil, err
	}

	cols := data.Columns()
	header := make([]interface{}, 0, len(cols)+1)
	header = append(header, models.ItemHeaderLabel)
	for _, k := range cols {
		header = append(header, k.Label())
	}
	if err := g.writeXLSXRow(f, sheet, 1, header, st.header, st.header); err != nil {
		return nil, err
	}

	line := 2
	emit := func(r models.Row, total bool) error {
		values := make([]interface{}, 0, len(cols)+1)
		values = append(values, r.Item)
		for _, k := range cols {
			v, ok := r.Lookup(k)
			if !ok {
				values = append(values, nil)
				continue
			}
			values = append(values, v.InexactFloat64())
		}
		labelStyle, numberStyle := 0, st.number
		if total {
			labelStyle, numberStyle = st.total, st.totalNumber
		}
		if err := g.writeXLSXRow(f, sheet, line, values, labelStyle, numberStyle); err != nil {
			return err
		}
		if !total {
			if err := applyPercentStyle(f, sheet, line, cols, st.percent); err != nil {
				return err
			}
		}
		line++
		return nil
	}

	for _, c := range data.Categories {
		if err := g.writeXLSXRow(f, sheet, line, []interface{}{c.Name}, st.category, 0); err != nil {
			return nil, err
		}
		line++
		for _, r := range c.Rows {
			if err := emit(r, models.IsTotalItem(r.Item)); err != nil {
				return nil, err
			}
		}
		if c.Total != nil {
			if err := emit(*c.Total, true); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", itemColWidth); err != nil {
		return nil, err
	}
	if len(cols) > 0 {
		last, err := excelize.ColumnNumberToName(len(cols) + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, "B", last, valColWidth); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, XSplit: 1, YSplit: 1, TopLeftCell: "B2", ActivePane: "bottomRight"}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeXLSXRow writes values from column A; labelStyle applies to the first
// cell and valueStyle to the rest. A zero style leaves the default.
func (g *Generator) writeXLSXRow(f *excelize.File, sheet string, row int, values []interface{}, labelStyle, valueStyle int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	if labelStyle != 0 {
		if err := f.SetCellStyle(sheet, start, start, labelStyle); err != nil {
			return err
		}
	}
	if valueStyle != 0 && len(values) > 1 {
		from, _ := excelize.CoordinatesToCellName(2, row)
		to, _ := excelize.CoordinatesToCellName(len(values), row)
		if err := f.SetCellStyle(sheet, from, to, valueStyle); err != nil {
			return err
		}
	}
	return nil
}

func applyPercentStyle(f *excelize.File, sheet string, row int, cols []models.ColumnKey, style int) error {
	for i, k := range cols {
		if !k.IsPercent() {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+2, row)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}
