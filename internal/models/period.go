package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is a calendar month used to bucket ledger transactions.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod reads "YYYY-MM" (also "YYYY/MM" and "MM-YYYY").
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	sep := "-"
	if strings.Contains(s, "/") {
		sep = "/"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("invalid period %q: expected YYYY-MM", s)
	}

	first, err1 := strconv.Atoi(parts[0])
	second, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return Period{}, fmt.Errorf("invalid period %q: expected YYYY-MM", s)
	}

	year, month := first, second
	if len(parts[0]) <= 2 && len(parts[1]) == 4 {
		year, month = second, first
	}
	if month < 1 || month > 12 || year < 1900 || year > 9999 {
		return Period{}, fmt.Errorf("invalid period %q: month or year out of range", s)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// String renders "YYYY-MM".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// MonthName is the upper-case Spanish month name.
func (p Period) MonthName() string {
	if p.Month < time.January || p.Month > time.December {
		return ""
	}
	return MonthNames[p.Month-1]
}

// Label is the column label of the period: "NOVIEMBRE 2024".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.MonthName(), p.Year)
}

// Before reports whether p is earlier than o.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// IsZero reports whether p is the zero period.
func (p Period) IsZero() bool { return p.Year == 0 && p.Month == 0 }

// Next returns the following month.
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Start is the first instant of the period in UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Range lists every period from from to to inclusive. It is empty when to is
// before from.
func Range(from, to Period) []Period {
	var out []Period
	for p := from; !to.Before(p); p = p.Next() {
		out = append(out, p)
	}
	return out
}

// MarshalText renders the period as "YYYY-MM".
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses "YYYY-MM".
func (p *Period) UnmarshalText(b []byte) error {
	parsed, err := ParsePeriod(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
