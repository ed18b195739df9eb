// Package valueparser turns heterogeneous spreadsheet cell values into decimal
// amounts. Parsing is total: anything that cannot be read as a number is zero.
package valueparser

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrorMarker is the spreadsheet division-by-zero marker found in exported EERR sheets.
const ErrorMarker = "#DIV/0!"

var stripper = strings.NewReplacer(
	"$", "",
	",", "",
	" ", "",
	"\t", "",
	"\n", "",
	"\r", "",
	"\u00a0", "",
)

// Parse converts v to a decimal. nil, empty strings, the error marker, "$0",
// NaN and infinities all yield zero; so does anything unparseable.
func Parse(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case string:
		return ParseString(x)
	case *string:
		if x == nil {
			return decimal.Zero
		}
		return ParseString(*x)
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int8:
		return decimal.NewFromInt(int64(x))
	case int16:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case uint:
		return decimal.NewFromUint64(uint64(x))
	case uint8:
		return decimal.NewFromUint64(uint64(x))
	case uint16:
		return decimal.NewFromUint64(uint64(x))
	case uint32:
		return decimal.NewFromUint64(uint64(x))
	case uint64:
		return decimal.NewFromUint64(x)
	case bool:
		return decimal.Zero
	default:
		return decimal.Zero
	}
}

// ParseString applies the cell policy to a string: "$" and whitespace are
// removed, every comma is treated as a thousands separator, a trailing "%" is
// dropped, and the remainder is parsed.
func ParseString(s string) decimal.Decimal {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || trimmed == ErrorMarker || trimmed == "$0" {
		return decimal.Zero
	}

	cleaned := stripper.Replace(trimmed)
	cleaned = strings.TrimSuffix(cleaned, "%")
	if cleaned == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Format renders d with a fixed number of decimal places.
func Format(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}
