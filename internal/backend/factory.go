package backend

import (
	"context"
	"fmt"

	applog "funding/internal/log"
	"funding/internal/normalize"
	"funding/internal/sources/file"
	"funding/internal/sources/google"
	"funding/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentSources),
	}
}

// CreateBackend implements Factory.CreateBackend. The synonym table is
// loaded first so a bad file fails before any connection is opened.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	norm, err := newNormalizer(config.SynonymsFile)
	if err != nil {
		return nil, err
	}

	var result *BackendResult
	switch config.Type {
	case FileBackend:
		result = f.createFileBackend(config)
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(config)
	case SheetsBackend:
		result, err = f.createSheetsBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}
	result.Normalizer = norm
	return result, nil
}

func newNormalizer(synonymsFile string) (*normalize.Normalizer, error) {
	syn, err := normalize.LoadSynonyms(synonymsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load synonyms: %w", err)
	}
	return normalize.New(syn), nil
}

func (f *DefaultFactory) createFileBackend(config Config) *BackendResult {
	src := file.New(config.DataFile)
	f.logger.Info("Initialized file backend", "path", config.DataFile)
	return &BackendResult{Source: src}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Source:     repo,
		Repository: repo,
		Cleanup:    repo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := google.New(ctx, google.Config{
		SpreadsheetID:      config.GoogleSpreadsheetID,
		SheetName:          config.GoogleSheetName,
		ServiceAccountJSON: config.GoogleServiceAccountJSON,
		ServiceAccountFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "sheet", config.GoogleSheetName)

	return &BackendResult{Source: cli}, nil
}
