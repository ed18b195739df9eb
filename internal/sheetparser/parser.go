// Package sheetparser rebuilds statement sections and categories from raw
// spreadsheet grids. Two layouts are supported: the legacy Consolidado sheet,
// which stacks one flat section per branch, and the EERR sheets, one per
// branch with heading rows and totals.
package sheetparser

import (
	"strings"

	"github.com/shopspring/decimal"

	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/parser"
	"eerr/eerr-dashboard/internal/parsererror"
	"eerr/eerr-dashboard/internal/valueparser"
)

// DefaultSections are the section names of the legacy Consolidado sheet.
var DefaultSections = []string{"labranza", "sevilla", "consolidado"}

// Parser reads workbook grids.
type Parser struct {
	parser.BaseParser
	sections []string
}

// NewParser creates a parser that recognises sections (nil uses
// DefaultSections).
func NewParser(logger logging.Logger, sections []string) *Parser {
	if len(sections) == 0 {
		sections = DefaultSections
	}
	return &Parser{BaseParser: parser.NewBaseParser(logger), sections: sections}
}

// ParseConsolidadoWorkbook finds the Consolidado sheet and parses its
// sections. It fails with SheetNotFoundError when the sheet or every section
// is missing.
func (p *Parser) ParseConsolidadoWorkbook(book *Workbook) ([]models.Section, error) {
	sheet, grid, err := FindConsolidadoSheet(book)
	if err != nil {
		return nil, err
	}
	sections := p.ParseConsolidado(grid)
	if len(sections) == 0 {
		return nil, &parsererror.SheetNotFoundError{
			Source: book.Name,
			Sheet:  sheet + " sections (" + strings.Join(p.sections, ", ") + ")",
		}
	}
	p.GetLogger().Info("Parsed Consolidado sheet",
		logging.Field{Key: logging.FieldSheet, Value: sheet},
		logging.Field{Key: logging.FieldCount, Value: len(sections)})
	return sections, nil
}

// ParseEERRWorkbook parses every sheet that carries a month header. Sheets
// without one are skipped. It fails with HeaderNotFoundError when no sheet
// qualifies.
func (p *Parser) ParseEERRWorkbook(book *Workbook) ([]*models.EERRData, error) {
	var out []*models.EERRData
	for _, sheet := range book.Sheets {
		data, ok := p.ParseEERRSheet(sheet, book.Grids[sheet])
		if !ok {
			p.GetLogger().Debug("Sheet has no month header, skipped",
				logging.Field{Key: logging.FieldSheet, Value: sheet})
			continue
		}
		out = append(out, data)
	}
	if len(out) == 0 {
		return nil, &parsererror.HeaderNotFoundError{Sheet: book.Name, Expected: []string{"ENERO", "FEBRERO"}}
	}
	return out, nil
}

func parseCell(v string) decimal.Decimal {
	return valueparser.ParseString(v)
}

func containsWord(text, word string) bool {
	return strings.Contains(text, word)
}
