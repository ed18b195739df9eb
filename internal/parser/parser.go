package parser

import (
	"io"

	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
)

// LedgerReader reads Libro de Compras transactions from a workbook or CSV
// export. Implementations return parsererror types for structural problems
// and skip rows they cannot use.
type LedgerReader interface {
	Read(r io.Reader) ([]models.Transaction, error)
}

// LoggerConfigurable is implemented by parsers whose logger can be replaced
// after construction.
type LoggerConfigurable interface {
	SetLogger(logger logging.Logger)
}
