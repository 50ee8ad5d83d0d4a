package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"funding/internal/core"
	"funding/internal/sources"
)

// Import describes one completed ReplaceAll.
type Import struct {
	ID         string
	Source     string
	Rows       int
	ImportedAt time.Time
}

// SQLiteRepository persists raw funding rows. Normalization always happens
// when the rows are loaded, never on write.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	path    string
}

var _ sources.RecordSource = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := Migrate(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("SQLite schema ready", "path", dbPath, "version", version)

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		path:    dbPath,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Name implements sources.RecordSource.
func (r *SQLiteRepository) Name() string {
	return "sqlite:" + filepath.Base(r.path)
}

// ReplaceAll swaps the stored rows for records in a single transaction and
// records the import.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, source string, records []core.RawRecord) (Import, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Import{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteFundingRecords(ctx); err != nil {
		return Import{}, fmt.Errorf("clear funding records: %w", err)
	}
	for i, rec := range records {
		if err := q.InsertFundingRecord(ctx, InsertFundingRecordParams{
			Date:        rec.Date,
			Startup:     rec.Startup,
			Investors:   rec.Investors,
			Vertical:    rec.Vertical,
			Subvertical: rec.Subvertical,
			City:        rec.City,
			Round:       rec.Round,
			Amount:      rec.Amount,
		}); err != nil {
			return Import{}, fmt.Errorf("insert funding record %d: %w", i, err)
		}
	}

	imp := Import{
		ID:         uuid.NewString(),
		Source:     source,
		Rows:       len(records),
		ImportedAt: time.Now().UTC(),
	}
	if err := q.InsertImport(ctx, InsertImportParams{
		ID:         imp.ID,
		Source:     imp.Source,
		Rows:       int64(imp.Rows),
		ImportedAt: imp.ImportedAt,
	}); err != nil {
		return Import{}, fmt.Errorf("record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Import{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Funding records replaced",
		"import_id", imp.ID,
		"source", imp.Source,
		"rows", imp.Rows)
	return imp, nil
}

// Load returns every stored row in insertion order.
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.RawRecord, error) {
	rows, err := r.queries.ListFundingRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list funding records: %w", err)
	}
	out := make([]core.RawRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.RawRecord{
			Date:        row.Date,
			Startup:     row.Startup,
			Investors:   row.Investors,
			Vertical:    row.Vertical,
			Subvertical: row.Subvertical,
			City:        row.City,
			Round:       row.Round,
			Amount:      row.Amount,
		})
	}
	return out, nil
}

// LoadRecords implements sources.RecordSource.
func (r *SQLiteRepository) LoadRecords(ctx context.Context) ([]core.RawRecord, error) {
	return r.Load(ctx)
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	n, err := r.queries.CountFundingRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("count funding records: %w", err)
	}
	return int(n), nil
}

// LatestImport returns the most recent import, or ok=false if none exists.
func (r *SQLiteRepository) LatestImport(ctx context.Context) (Import, bool, error) {
	row, err := r.queries.LatestImport(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return Import{}, false, nil
	}
	if err != nil {
		return Import{}, false, fmt.Errorf("latest import: %w", err)
	}
	return Import{
		ID:         row.ID,
		Source:     row.Source,
		Rows:       int(row.Rows),
		ImportedAt: row.ImportedAt,
	}, true, nil
}
