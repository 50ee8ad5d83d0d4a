package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"funding/internal/amqp"
	"funding/internal/core"
	"funding/internal/storage"
)

type stubSource struct {
	rows []core.RawRecord
	err  error
}

func (s stubSource) Name() string { return "file:funding.csv" }

func (s stubSource) LoadRecords(context.Context) ([]core.RawRecord, error) {
	return s.rows, s.err
}

type stubStore struct {
	got    []core.RawRecord
	err    error
	closed bool
}

func (s *stubStore) ReplaceAll(_ context.Context, source string, records []core.RawRecord) (storage.Import, error) {
	if s.err != nil {
		return storage.Import{}, s.err
	}
	s.got = records
	return storage.Import{ID: "imp-1", Source: source, Rows: len(records), ImportedAt: time.Now()}, nil
}

func (s *stubStore) Close() error {
	s.closed = true
	return nil
}

type stubPublisher struct {
	msgs   []*amqp.DatasetImportedMessage
	err    error
	closed bool
}

func (p *stubPublisher) PublishDatasetImported(_ context.Context, msg *amqp.DatasetImportedMessage) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *stubPublisher) Close() error {
	p.closed = true
	return errors.New("already closed")
}

func TestImportService_Import(t *testing.T) {
	rows := []core.RawRecord{{Startup: "ola", Amount: "5"}, {Startup: "flipkart"}}

	t.Run("stores and publishes", func(t *testing.T) {
		store := &stubStore{}
		pub := &stubPublisher{}
		res, err := NewImportService(store, pub).Import(context.Background(), stubSource{rows: rows})
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		if len(store.got) != 2 {
			t.Errorf("stored %d rows, want 2", len(store.got))
		}
		if !res.Published || res.ID != "imp-1" || res.Rows != 2 {
			t.Errorf("Import() = %+v", res)
		}
		if len(pub.msgs) != 1 {
			t.Fatalf("published %d messages, want 1", len(pub.msgs))
		}
		if m := pub.msgs[0]; m.ID != "imp-1" || m.Source != "file:funding.csv" || m.Rows != 2 {
			t.Errorf("message = %+v", m)
		}
	})

	t.Run("publish failure keeps the import", func(t *testing.T) {
		store := &stubStore{}
		res, err := NewImportService(store, &stubPublisher{err: errors.New("broker down")}).Import(context.Background(), stubSource{rows: rows})
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		if res.Published {
			t.Error("Published = true after publish failure")
		}
		if res.ID == "" {
			t.Error("import id missing")
		}
	})

	t.Run("without publisher", func(t *testing.T) {
		res, err := NewImportService(&stubStore{}, nil).Import(context.Background(), stubSource{rows: rows})
		if err != nil {
			t.Fatalf("Import() error = %v", err)
		}
		if res.Published {
			t.Error("Published = true without publisher")
		}
	})

	t.Run("source error", func(t *testing.T) {
		store := &stubStore{}
		_, err := NewImportService(store, nil).Import(context.Background(), stubSource{err: errors.New("boom")})
		if err == nil {
			t.Fatal("Import() error = nil")
		}
		if store.got != nil {
			t.Error("rows stored despite source error")
		}
	})

	t.Run("store error", func(t *testing.T) {
		pub := &stubPublisher{}
		_, err := NewImportService(&stubStore{err: errors.New("locked")}, pub).Import(context.Background(), stubSource{rows: rows})
		if err == nil {
			t.Fatal("Import() error = nil")
		}
		if len(pub.msgs) != 0 {
			t.Error("published despite store error")
		}
	})
}

func TestImportService_Close(t *testing.T) {
	t.Run("nil components", func(t *testing.T) {
		if err := NewImportService(nil, nil).Close(); err != nil {
			t.Fatalf("Close should not return error with nil components: %v", err)
		}
	})

	t.Run("collects errors", func(t *testing.T) {
		store := &stubStore{}
		pub := &stubPublisher{}
		err := NewImportService(store, pub).Close()
		if err == nil {
			t.Fatal("Close() error = nil, want publisher error")
		}
		if !store.closed || !pub.closed {
			t.Error("not every component was closed")
		}
	})
}
