package sheetparser

import (
	"strings"

	"eerr/eerr-dashboard/internal/logging"
	"eerr/eerr-dashboard/internal/models"
	"eerr/eerr-dashboard/internal/textnorm"
)

// ScanState is the state of the Consolidado scanner.
type ScanState int

const (
	// SeekingSection looks for a row naming a known section.
	SeekingSection ScanState = iota
	// SeekingHeader looks for the month header row of the open section.
	SeekingHeader
	// ReadingRows consumes data rows until a blank first cell.
	ReadingRows
)

func (s ScanState) String() string {
	switch s {
	case SeekingSection:
		return "SEEKING_SECTION"
	case SeekingHeader:
		return "SEEKING_HEADER"
	case ReadingRows:
		return "READING_ROWS"
	default:
		return "UNKNOWN"
	}
}

// Scanner walks a Consolidado grid one row at a time.
type Scanner struct {
	grid     Grid
	sections []string
	logger   logging.Logger

	state   ScanState
	pos     int
	current *models.Section
	cols    map[int]models.ColumnKey
	idx     []int
	out     []models.Section
}

// NewScanner prepares a scanner over grid.
func NewScanner(grid Grid, sections []string, logger logging.Logger) *Scanner {
	folded := make([]string, 0, len(sections))
	for _, s := range sections {
		if f := textnorm.Fold(s); f != "" {
			folded = append(folded, f)
		}
	}
	return &Scanner{grid: grid, sections: folded, logger: logging.OrDefault(logger)}
}

// State returns the current state.
func (s *Scanner) State() ScanState { return s.state }

// Step consumes one row and reports whether rows remain.
func (s *Scanner) Step() bool {
	if s.pos >= len(s.grid) {
		s.finish()
		return false
	}
	row := s.grid[s.pos]

	switch s.state {
	case SeekingSection:
		if name, ok := s.sectionStart(row); ok {
			s.current = &models.Section{Name: name}
			s.state = SeekingHeader
		}
		s.pos++

	case SeekingHeader:
		if isMonthHeader(row) {
			s.cols = BuildColumnMap(row, s.grid.Row(s.pos+1))
			s.idx = sortedIndexes(s.cols)
			s.current.Months = MonthsOf(s.cols)
			s.state = ReadingRows
			// The sub-header row is part of the header.
			s.pos += 2
			return true
		}
		s.pos++

	case ReadingRows:
		item := s.grid.Cell(s.pos, 0)
		if item == "" {
			s.closeSection()
			s.state = SeekingSection
			s.pos++
			return true
		}
		s.current.Rows = append(s.current.Rows, rowFromCells(item, row, s.cols, s.idx))
		s.pos++
	}
	return true
}

// Run scans the whole grid and returns the sections found.
func (s *Scanner) Run() []models.Section {
	for s.Step() {
	}
	return s.out
}

func (s *Scanner) sectionStart(row []string) (string, bool) {
	joined := textnorm.JoinRow(row)
	if joined == "" || strings.Contains(joined, "item") {
		return "", false
	}
	for _, name := range s.sections {
		if strings.Contains(joined, name) {
			return sectionLabel(row), true
		}
	}
	return "", false
}

// sectionLabel is the first non-blank cell of the row, as written.
func sectionLabel(row []string) string {
	for _, c := range row {
		if t := textnorm.CollapseSpaces(c); t != "" {
			return t
		}
	}
	return ""
}

func (s *Scanner) closeSection() {
	if s.current == nil {
		return
	}
	s.logger.Debug("Section parsed",
		logging.Field{Key: logging.FieldSection, Value: s.current.Name},
		logging.Field{Key: logging.FieldCount, Value: len(s.current.Rows)})
	s.out = append(s.out, *s.current)
	s.current = nil
	s.cols = nil
	s.idx = nil
}

func (s *Scanner) finish() {
	switch s.state {
	case ReadingRows:
		s.closeSection()
	case SeekingHeader:
		s.logger.Debug("Section without month header dropped",
			logging.Field{Key: logging.FieldSection, Value: s.current.Name})
		s.current = nil
	}
	s.state = SeekingSection
}

// ParseConsolidado reads every section of a legacy Consolidado grid.
func (p *Parser) ParseConsolidado(grid Grid) []models.Section {
	return NewScanner(grid, p.sections, p.GetLogger()).Run()
}
