package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"funding/internal/amqp"
	"funding/internal/core"
	"funding/internal/sources"
	"funding/internal/storage"
)

// ImportStore replaces the stored raw rows in one transaction.
type ImportStore interface {
	ReplaceAll(ctx context.Context, source string, records []core.RawRecord) (storage.Import, error)
	Close() error
}

// EventPublisher announces a finished import.
type EventPublisher interface {
	PublishDatasetImported(ctx context.Context, msg *amqp.DatasetImportedMessage) error
	Close() error
}

// ImportResult describes one finished import.
type ImportResult struct {
	storage.Import
	// Published is false when no publisher is configured or publishing
	// failed. Servers pick the import up on their next reload check.
	Published bool
}

// ImportService orchestrates dataset imports across SQLite and AMQP
type ImportService struct {
	storage   ImportStore
	publisher EventPublisher
}

// NewImportService creates a service. publisher may be nil.
func NewImportService(store ImportStore, publisher EventPublisher) *ImportService {
	return &ImportService{
		storage:   store,
		publisher: publisher,
	}
}

// Import copies every row of src into storage and publishes a
// dataset.imported event.
func (s *ImportService) Import(ctx context.Context, src sources.RecordSource) (ImportResult, error) {
	if s.storage == nil {
		return ImportResult{}, errors.New("import service has no storage")
	}
	raw, err := src.LoadRecords(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("load %s: %w", src.Name(), err)
	}

	// Save to SQLite first; the event only tells readers to look
	imp, err := s.storage.ReplaceAll(ctx, src.Name(), raw)
	if err != nil {
		return ImportResult{}, fmt.Errorf("store import: %w", err)
	}
	res := ImportResult{Import: imp}

	if err := s.publishImported(ctx, imp); err != nil {
		slog.ErrorContext(ctx, "Failed to publish dataset imported message",
			"import_id", imp.ID, "error", err)
		// Don't fail the import - rows are stored and readers catch up
		return res, nil
	}
	res.Published = s.publisher != nil
	return res, nil
}

func (s *ImportService) publishImported(ctx context.Context, imp storage.Import) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping dataset imported message")
		return nil
	}
	return s.publisher.PublishDatasetImported(ctx, amqp.NewDatasetImportedMessage(imp.ID, imp.Source, imp.Rows))
}

// Close closes both storage and AMQP connections
func (s *ImportService) Close() error {
	var errs []error
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close import service: %w", errors.Join(errs...))
	}
	return nil
}
