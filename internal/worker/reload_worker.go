// Package worker reacts to dataset events by reloading the funding table.
package worker

import (
	"context"
	"fmt"
	"time"

	"funding/internal/amqp"
	"funding/internal/core"
	applog "funding/internal/log"
	"funding/internal/storage"
)

// Reloader rebuilds the published funding table.
type Reloader interface {
	Snapshot() *core.Table
	Reload(ctx context.Context) (*core.Table, error)
}

// ImportLedger reports the most recent import recorded in storage.
type ImportLedger interface {
	LatestImport(ctx context.Context) (storage.Import, bool, error)
}

// ReloadWorker swaps in a fresh table whenever a new import lands.
type ReloadWorker struct {
	store   Reloader
	imports ImportLedger
	logger  *applog.Logger
}

// NewReloadWorker creates a worker. imports may be nil when the dataset is
// not backed by SQLite; CatchUp is then a no-op.
func NewReloadWorker(store Reloader, imports ImportLedger, logger *applog.Logger) *ReloadWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ReloadWorker{
		store:   store,
		imports: imports,
		logger:  logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleDatasetImported reloads the table for one event. An error makes the
// consumer requeue the event.
func (w *ReloadWorker) HandleDatasetImported(ctx context.Context, msg *amqp.DatasetImportedMessage) error {
	start := time.Now()
	t, err := w.store.Reload(ctx)
	if err != nil {
		return fmt.Errorf("reload after import %s: %w", msg.ID, err)
	}

	fields := applog.NewFields().
		WithOperation(applog.OpReload).
		WithDataset(t.Source, t.Len())
	fields[applog.FieldImportID] = msg.ID
	fields[applog.FieldDuration] = time.Since(start).Milliseconds()
	w.logger.InfoContext(ctx, "Dataset reloaded after import", fields.ToSlice()...)
	return nil
}

// CatchUp reloads when storage holds an import newer than the published
// table, covering events missed while the consumer was down. It reports
// whether a reload happened.
func (w *ReloadWorker) CatchUp(ctx context.Context) (bool, error) {
	if w.imports == nil {
		return false, nil
	}
	latest, ok, err := w.imports.LatestImport(ctx)
	if err != nil {
		return false, fmt.Errorf("latest import: %w", err)
	}
	if !ok {
		return false, nil
	}
	if t := w.store.Snapshot(); t != nil && !latest.ImportedAt.After(t.LoadedAt) {
		w.logger.DebugContext(ctx, "Dataset is current", "import_id", latest.ID)
		return false, nil
	}

	w.logger.InfoContext(ctx, "Found newer import on startup, reloading", "import_id", latest.ID, "rows", latest.Rows)
	if _, err := w.store.Reload(ctx); err != nil {
		return false, fmt.Errorf("reload for import %s: %w", latest.ID, err)
	}
	return true, nil
}
