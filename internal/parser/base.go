// Package parser holds what the workbook and ledger parsers share: the base
// struct they embed and the reader interfaces the container wires.
package parser

import (
	"eerr/eerr-dashboard/internal/logging"
)

// BaseParser provides common functionality for all parser implementations.
//
// Parsers should embed BaseParser to inherit common functionality:
//
//	type MyParser struct {
//		BaseParser
//		// parser-specific fields
//	}
type BaseParser struct {
	logger logging.Logger
}

// NewBaseParser creates a new BaseParser instance with the provided logger.
// If logger is nil, the default logger is used.
func NewBaseParser(logger logging.Logger) BaseParser {
	return BaseParser{logger: logging.OrDefault(logger)}
}

// SetLogger implements the LoggerConfigurable interface.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	if b.logger == nil {
		return logging.GetLogger()
	}
	return b.logger
}

// Skipped logs a row the parser ignored and why.
func (b *BaseParser) Skipped(sheet string, row int, reason string) {
	b.GetLogger().Debug("Row skipped",
		logging.Field{Key: logging.FieldSheet, Value: sheet},
		logging.Field{Key: "row", Value: row},
		logging.Field{Key: "reason", Value: reason})
}
