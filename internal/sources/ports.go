package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"funding/internal/core"
)

// Ports for inbound data adapters.
type (
	// RecordSource reads every raw funding row from one backing store.
	RecordSource interface {
		// LoadRecords returns the rows in source order.
		LoadRecords(ctx context.Context) ([]core.RawRecord, error)
		// Name identifies the source in logs and load metadata.
		Name() string
	}
)

// ErrNoHeader is returned when a source has no header row.
var ErrNoHeader = errors.New("missing header row")

// Header maps canonical column names to their position in a source row.
type Header map[string]int

// ParseHeader matches column names case-insensitively after trimming.
// Unknown columns are ignored; at least the startup column must be present.
func ParseHeader(cells []string) (Header, error) {
	if len(cells) == 0 {
		return nil, ErrNoHeader
	}
	known := make(map[string]struct{}, len(core.Columns))
	for _, c := range core.Columns {
		known[c] = struct{}{}
	}
	h := Header{}
	for i, cell := range cells {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
		if _, ok := known[name]; !ok {
			continue
		}
		if _, dup := h[name]; dup {
			continue
		}
		h[name] = i
	}
	if _, ok := h[core.ColStartup]; !ok {
		return nil, fmt.Errorf("unexpected header: missing %s; got headers=%v", core.ColStartup, cells)
	}
	return h, nil
}

// Missing lists canonical columns absent from the header.
func (h Header) Missing() []string {
	var out []string
	for _, c := range core.Columns {
		if _, ok := h[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// WarnMissing logs the canonical columns absent from h. Those fields load as
// undefined on every row.
func (h Header) WarnMissing(source string) {
	if missing := h.Missing(); len(missing) > 0 {
		slog.Warn("Source header is missing columns", "source", source, "columns", missing)
	}
}

// Raw builds a RawRecord from a data row. Short rows leave trailing fields empty.
func (h Header) Raw(row []string) core.RawRecord {
	get := func(col string) string {
		i, ok := h[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	return core.RawRecord{
		Date:        get(core.ColDate),
		Startup:     get(core.ColStartup),
		Investors:   get(core.ColInvestors),
		Vertical:    get(core.ColVertical),
		Subvertical: get(core.ColSubvertical),
		City:        get(core.ColCity),
		Round:       get(core.ColRound),
		Amount:      get(core.ColAmount),
	}
}

// Blank reports whether every cell of row is empty.
func Blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
