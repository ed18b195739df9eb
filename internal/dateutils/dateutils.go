// Package dateutils parses the document dates found in ledger workbooks and
// CSV exports.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Date layouts seen in Libro de Compras exports. Chilean ledgers put the day
// first.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutChilean  = "02-01-2006"
	DateLayoutSlash    = "02/01/2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
	DateLayoutDotted   = "02.01.2006"
	DateLayoutShortDay = "2-1-2006"
)

// CommonFormats is the list of layouts tried by ParseDate, in order.
var CommonFormats = []string{
	DateLayoutChilean,
	DateLayoutSlash,
	DateLayoutISO,
	DateLayoutFull,
	DateLayoutISO + "T15:04:05Z07:00",
	DateLayoutDotted,
	DateLayoutShortDay,
	"2/1/2006",
	"2006/01/02",
	"02-01-06",
	"02/01/06",
}

var spaces = regexp.MustCompile(`\s+`)

// Excel serial dates for 1990..2100 fall in this range.
const (
	minExcelSerial = 32874
	maxExcelSerial = 73051
)

// ParseDate reads a ledger date. Besides the textual layouts it accepts Excel
// serial numbers, which is what unformatted date cells come out as.
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = CleanDateString(dateStr)
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range CommonFormats {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, nil
		}
	}

	if serial, err := strconv.ParseFloat(dateStr, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// CleanDateString trims the value, collapses inner whitespace and drops a
// trailing midnight time that some exports append.
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	dateStr = spaces.ReplaceAllString(dateStr, " ")
	dateStr = strings.TrimSuffix(dateStr, " 00:00:00")
	return dateStr
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutISO)
}
