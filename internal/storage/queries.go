package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type FundingRecordRow struct {
	ID          int64
	Date        string
	Startup     string
	Investors   string
	Vertical    string
	Subvertical string
	City        string
	Round       string
	Amount      string
}

type InsertFundingRecordParams struct {
	Date        string
	Startup     string
	Investors   string
	Vertical    string
	Subvertical string
	City        string
	Round       string
	Amount      string
}

const deleteFundingRecords = `DELETE FROM funding_records`

func (q *Queries) DeleteFundingRecords(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteFundingRecords)
	return err
}

const insertFundingRecord = `INSERT INTO funding_records (date, startup, investors, vertical, subvertical, city, round, amount)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertFundingRecord(ctx context.Context, arg InsertFundingRecordParams) error {
	_, err := q.db.ExecContext(ctx, insertFundingRecord,
		arg.Date,
		arg.Startup,
		arg.Investors,
		arg.Vertical,
		arg.Subvertical,
		arg.City,
		arg.Round,
		arg.Amount,
	)
	return err
}

const listFundingRecords = `SELECT id, date, startup, investors, vertical, subvertical, city, round, amount
FROM funding_records
ORDER BY id`

func (q *Queries) ListFundingRecords(ctx context.Context) ([]FundingRecordRow, error) {
	rows, err := q.db.QueryContext(ctx, listFundingRecords)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FundingRecordRow
	for rows.Next() {
		var i FundingRecordRow
		if err := rows.Scan(
			&i.ID,
			&i.Date,
			&i.Startup,
			&i.Investors,
			&i.Vertical,
			&i.Subvertical,
			&i.City,
			&i.Round,
			&i.Amount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countFundingRecords = `SELECT COUNT(*) FROM funding_records`

func (q *Queries) CountFundingRecords(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countFundingRecords)
	var count int64
	err := row.Scan(&count)
	return count, err
}

type InsertImportParams struct {
	ID         string
	Source     string
	Rows       int64
	ImportedAt time.Time
}

const insertImport = `INSERT INTO imports (id, source, row_count, imported_at) VALUES (?, ?, ?, ?)`

func (q *Queries) InsertImport(ctx context.Context, arg InsertImportParams) error {
	_, err := q.db.ExecContext(ctx, insertImport, arg.ID, arg.Source, arg.Rows, arg.ImportedAt)
	return err
}

type ImportRow struct {
	ID         string
	Source     string
	Rows       int64
	ImportedAt time.Time
}

const latestImport = `SELECT id, source, row_count, imported_at FROM imports ORDER BY imported_at DESC, rowid DESC LIMIT 1`

func (q *Queries) LatestImport(ctx context.Context) (ImportRow, error) {
	row := q.db.QueryRowContext(ctx, latestImport)
	var i ImportRow
	err := row.Scan(&i.ID, &i.Source, &i.Rows, &i.ImportedAt)
	return i, err
}
