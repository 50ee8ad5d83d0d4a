// Package dataset owns the loaded funding table. A table is built once per
// load, published by pointer and never mutated afterwards; readers hold on to
// whichever snapshot they were handed.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"funding/internal/core"
	"funding/internal/normalize"
	"funding/internal/sources"
)

// ErrNotLoaded is returned by Snapshot callers that need a table before the
// first load has completed.
var ErrNotLoaded = errors.New("dataset not loaded")

// Store holds the current table and reloads it from its source on demand.
type Store struct {
	source sources.RecordSource
	norm   *normalize.Normalizer
	now    func() time.Time

	table atomic.Pointer[core.Table]
	group singleflight.Group
}

// NewStore creates an empty store. Call Load before serving.
func NewStore(source sources.RecordSource, norm *normalize.Normalizer) *Store {
	if norm == nil {
		norm = normalize.Default()
	}
	return &Store{source: source, norm: norm, now: time.Now}
}

// NewStaticStore returns a store already holding t. Reload on it fails.
func NewStaticStore(t *core.Table) *Store {
	s := &Store{norm: normalize.Default(), now: time.Now}
	s.table.Store(t)
	return s
}

// Snapshot returns the current table, or nil before the first load.
func (s *Store) Snapshot() *core.Table {
	return s.table.Load()
}

// Table is Snapshot with an error for the not-yet-loaded case.
func (s *Store) Table() (*core.Table, error) {
	t := s.table.Load()
	if t == nil {
		return nil, ErrNotLoaded
	}
	return t, nil
}

// Ready reports whether a table has been published.
func (s *Store) Ready() bool {
	return s.table.Load() != nil
}

// Load performs the initial load. It is Reload under another name so startup
// code reads naturally.
func (s *Store) Load(ctx context.Context) (*core.Table, error) {
	return s.Reload(ctx)
}

// Reload reads the source again, builds a new table and swaps it in.
// Concurrent calls share one load. On failure the previous table stays.
func (s *Store) Reload(ctx context.Context) (*core.Table, error) {
	if s.source == nil {
		return nil, errors.New("dataset has no source")
	}
	v, err, shared := s.group.Do("reload", func() (interface{}, error) {
		start := time.Now()
		raw, err := s.source.LoadRecords(ctx)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", s.source.Name(), err)
		}
		t := Build(raw, s.norm, s.source.Name(), s.now())
		s.table.Store(t)
		slog.InfoContext(ctx, "Dataset loaded",
			"source", t.Source,
			"rows", t.Len(),
			"duration_ms", time.Since(start).Milliseconds())
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.DebugContext(ctx, "Dataset reload coalesced")
	}
	return v.(*core.Table), nil
}

// Build coerces, normalizes and derives raw rows into a new table.
func Build(raw []core.RawRecord, norm *normalize.Normalizer, source string, loadedAt time.Time) *core.Table {
	recs := make([]core.FundingRecord, len(raw))
	for i, r := range raw {
		recs[i] = core.Coerce(r)
	}
	if norm != nil {
		recs = norm.Apply(recs)
	}
	return &core.Table{
		Records:  Derive(recs),
		Source:   source,
		LoadedAt: loadedAt,
	}
}

// Derive returns copies of records with Year, Month and HasPeriod filled from
// the parsed date.
func Derive(records []core.FundingRecord) []core.FundingRecord {
	out := make([]core.FundingRecord, len(records))
	for i, rec := range records {
		out[i] = core.WithPeriod(rec)
	}
	return out
}
