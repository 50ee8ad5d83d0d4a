// Package normalize canonicalizes the free-text startup and investor names of
// funding records.
//
// Each name is lower-cased, trimmed, run through an exact-match synonym table
// and finally stripped of punctuation. Investor cells keep their commas since
// they delimit the investor list. Undefined cells are left untouched.
package normalize

import (
	"strings"
	"unicode"

	"funding/internal/core"
)

// Normalizer applies a fixed synonym table to funding records.
type Normalizer struct {
	startups  map[string]string
	investors map[string]string
}

// New builds a Normalizer from the given tables.
func New(s Synonyms) *Normalizer {
	merged := Synonyms{}.Merge(s)
	return &Normalizer{startups: merged.Startups, investors: merged.Investors}
}

// Default returns a Normalizer using the built-in tables.
func Default() *Normalizer {
	return New(DefaultSynonyms())
}

// Startup canonicalizes one startup name.
func (n *Normalizer) Startup(s string) string {
	return stripPunct(substitute(s, n.startups), false)
}

// Investors canonicalizes one investor cell. Substitution matches the whole
// cell, not individual comma separated names.
func (n *Normalizer) Investors(s string) string {
	return stripPunct(substitute(s, n.investors), true)
}

// Apply returns normalized copies of records; the input slice is not modified.
func (n *Normalizer) Apply(records []core.FundingRecord) []core.FundingRecord {
	out := make([]core.FundingRecord, len(records))
	for i, rec := range records {
		if rec.Startup.Valid {
			rec.Startup.Value = n.Startup(rec.Startup.Value)
		}
		if rec.Investors.Valid {
			rec.Investors.Value = n.Investors(rec.Investors.Value)
		}
		out[i] = rec
	}
	return out
}

func substitute(s string, table map[string]string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if canonical, ok := table[s]; ok {
		return canonical
	}
	return s
}

// stripPunct keeps word characters (letters, digits, marks, underscore) and
// whitespace, plus commas when keepComma is set.
func stripPunct(s string, keepComma bool) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r), r == '_':
			return r
		case unicode.IsSpace(r):
			return r
		case keepComma && r == ',':
			return r
		}
		return -1
	}, s)
}
