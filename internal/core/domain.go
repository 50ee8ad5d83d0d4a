package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column names of the funding source table.
const (
	ColDate        = "date"
	ColStartup     = "startup"
	ColInvestors   = "investors"
	ColVertical    = "vertical"
	ColSubvertical = "subvertical"
	ColCity        = "city"
	ColRound       = "round"
	ColAmount      = "amount"
)

// Columns lists the source columns in their canonical order.
var Columns = []string{ColDate, ColStartup, ColInvestors, ColVertical, ColSubvertical, ColCity, ColRound, ColAmount}

type (
	// Text is an optionally undefined free-text cell.
	Text struct {
		Value string
		Valid bool
	}

	// Amount is an optionally undefined funding amount.
	Amount struct {
		decimal.Decimal
		Valid bool
	}

	// Date is an optionally undefined calendar date.
	Date struct {
		time.Time
		Valid bool
	}

	// RawRecord is one row as read from a source, before any coercion.
	RawRecord struct {
		Date        string
		Startup     string
		Investors   string
		Vertical    string
		Subvertical string
		City        string
		Round       string
		Amount      string
	}

	// FundingRecord is one typed row of the funding table.
	FundingRecord struct {
		Date        Date
		Startup     Text
		Investors   Text
		Vertical    Text
		Subvertical Text
		City        Text
		Round       Text
		Amount      Amount

		// Derived from Date; HasPeriod is false when Date is undefined.
		Year      int
		Month     int
		HasPeriod bool
	}

	// Table is the loaded funding dataset. It is never mutated once published.
	Table struct {
		Records  []FundingRecord
		Source   string
		LoadedAt time.Time
	}
)

// NewText returns a defined Text unless s is blank.
func NewText(s string) Text {
	if strings.TrimSpace(s) == "" {
		return Text{}
	}
	return Text{Value: s, Valid: true}
}

// NewAmount returns a defined Amount.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d, Valid: true}
}

// AmountFromInt is a convenience for tests and fixtures.
func AmountFromInt(v int64) Amount {
	return NewAmount(decimal.NewFromInt(v))
}

// NewDate returns a defined Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), Valid: true}
}

// String returns the value or an empty string when undefined.
func (t Text) String() string {
	if !t.Valid {
		return ""
	}
	return t.Value
}

// Equal reports whether both texts are defined and hold the same value.
func (t Text) Equal(o Text) bool {
	return t.Valid && o.Valid && t.Value == o.Value
}

// String formats the date as YYYY-MM-DD, or empty when undefined.
func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Format("2006-01-02")
}

// After orders defined dates after undefined ones.
func (d Date) After(o Date) bool {
	switch {
	case !d.Valid:
		return false
	case !o.Valid:
		return true
	default:
		return d.Time.After(o.Time)
	}
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// InvestorList splits a comma separated investor cell into trimmed, non-empty names.
func InvestorList(t Text) []string {
	if !t.Valid {
		return nil
	}
	parts := strings.Split(t.Value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
