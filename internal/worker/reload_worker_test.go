package worker

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"funding/internal/amqp"
	"funding/internal/core"
	applog "funding/internal/log"
	"funding/internal/storage"
)

type fakeStore struct {
	table   *core.Table
	err     error
	reloads int
}

func (f *fakeStore) Snapshot() *core.Table { return f.table }

func (f *fakeStore) Reload(ctx context.Context) (*core.Table, error) {
	f.reloads++
	if f.err != nil {
		return nil, f.err
	}
	f.table = &core.Table{Source: "sqlite:funding.db", LoadedAt: time.Now()}
	return f.table, nil
}

type fakeLedger struct {
	imp storage.Import
	ok  bool
	err error
}

func (f fakeLedger) LatestImport(ctx context.Context) (storage.Import, bool, error) {
	return f.imp, f.ok, f.err
}

func quietLogger() *applog.Logger {
	return applog.New(applog.Config{Output: io.Discard})
}

func TestHandleDatasetImported(t *testing.T) {
	store := &fakeStore{}
	w := NewReloadWorker(store, nil, quietLogger())

	msg := amqp.NewDatasetImportedMessage("import-1", "file:funding.csv", 2)
	if err := w.HandleDatasetImported(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if store.reloads != 1 {
		t.Fatalf("expected one reload, got %d", store.reloads)
	}

	store.err = errors.New("disk gone")
	if err := w.HandleDatasetImported(context.Background(), msg); err == nil {
		t.Fatal("reload failure must surface so the event is requeued")
	}
}

func TestCatchUp(t *testing.T) {
	loadedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		table      *core.Table
		ledger     ImportLedger
		wantReload bool
		wantErr    bool
	}{
		{"no ledger", &core.Table{LoadedAt: loadedAt}, nil, false, false},
		{"no imports", &core.Table{LoadedAt: loadedAt}, fakeLedger{}, false, false},
		{"older import", &core.Table{LoadedAt: loadedAt}, fakeLedger{imp: storage.Import{ID: "a", ImportedAt: loadedAt.Add(-time.Hour)}, ok: true}, false, false},
		{"newer import", &core.Table{LoadedAt: loadedAt}, fakeLedger{imp: storage.Import{ID: "b", ImportedAt: loadedAt.Add(time.Hour)}, ok: true}, true, false},
		{"nothing loaded yet", nil, fakeLedger{imp: storage.Import{ID: "c", ImportedAt: loadedAt}, ok: true}, true, false},
		{"ledger error", &core.Table{LoadedAt: loadedAt}, fakeLedger{err: errors.New("locked")}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{table: tt.table}
			var w *ReloadWorker
			if tt.ledger == nil {
				w = NewReloadWorker(store, nil, quietLogger())
			} else {
				w = NewReloadWorker(store, tt.ledger, quietLogger())
			}
			reloaded, err := w.CatchUp(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if reloaded != tt.wantReload || (store.reloads == 1) != tt.wantReload {
				t.Fatalf("reloaded = %v (calls %d), want %v", reloaded, store.reloads, tt.wantReload)
			}
		})
	}
}
