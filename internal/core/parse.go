// Package core provides the funding record model and best-effort cell coercion.
//
// Parsing never fails: a cell that cannot be coerced becomes undefined and the
// rest of the row is kept.
package core

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order. Slash dates are month-first, matching the
// usual spreadsheet export; day-first is only tried when that fails. Numeric
// fields accept one or two digits, so "1/9/2015" and "01/09/2015" agree.
var dateLayouts = []string{
	"2006-1-2",
	"2006-1-2 15:04:05",
	"2006-1-2T15:04:05",
	time.RFC3339,
	"1/2/2006",
	"2/1/2006",
	"2006/1/2",
	"1/2/06",
	"2/1/06",
	"2-1-2006",
	"1-2-06",
	"2.1.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// ParseDate coerces s into a Date. Unparseable input yields an undefined Date.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t.UTC(), Valid: true}
		}
	}
	return Date{}
}

// ParseAmount coerces s into an Amount. Thousands separators and surrounding
// whitespace are ignored; anything else non-numeric yields an undefined Amount.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "_", "")
	if strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return Amount{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		// Fall back to float parsing for forms decimal rejects.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return Amount{}
		}
		d = decimal.NewFromFloat(f)
	}
	return NewAmount(d)
}

// Coerce converts a raw row into a typed record. Derived period fields are
// filled from the parsed date.
func Coerce(raw RawRecord) FundingRecord {
	rec := FundingRecord{
		Date:        ParseDate(raw.Date),
		Startup:     NewText(raw.Startup),
		Investors:   NewText(raw.Investors),
		Vertical:    NewText(raw.Vertical),
		Subvertical: NewText(raw.Subvertical),
		City:        NewText(raw.City),
		Round:       NewText(raw.Round),
		Amount:      ParseAmount(raw.Amount),
	}
	return WithPeriod(rec)
}

// WithPeriod derives Year and Month from the record's date.
func WithPeriod(rec FundingRecord) FundingRecord {
	if !rec.Date.Valid {
		rec.Year, rec.Month, rec.HasPeriod = 0, 0, false
		return rec
	}
	rec.Year = rec.Date.Year()
	rec.Month = int(rec.Date.Month())
	rec.HasPeriod = true
	return rec
}
