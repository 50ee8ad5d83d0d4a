package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"funding/internal/amqp"
	"funding/internal/config"
	"funding/internal/services"
	"funding/internal/sources/file"
	"funding/internal/storage"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the SQLite dataset with the rows of a CSV or Excel file",
	Args:  cobra.NoArgs,
	RunE:  runImport,
}

var importArgs struct {
	file   string
	db     string
	notify bool
}

func init() {
	flags := importCmd.Flags()

	flags.StringVar(
		&importArgs.file,
		"file",
		"",
		"CSV or .xlsx file to import",
	)
	flags.StringVar(
		&importArgs.db,
		"db",
		"",
		"SQLite database path (default SQLITE_DB_PATH)",
	)
	flags.BoolVar(
		&importArgs.notify,
		"notify",
		false,
		"Publish a dataset.imported event to AMQP_URL",
	)
	_ = importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, argv []string) error {
	ctx := cmd.Context()
	cfg := config.Load()

	dbPath := importArgs.db
	if dbPath == "" {
		dbPath = cfg.SQLiteDBPath
	}
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	svc := services.NewImportService(repo, nil)
	if importArgs.notify {
		if !cfg.AMQPEnabled() {
			_ = repo.Close()
			return fmt.Errorf("--notify needs AMQP_URL")
		}
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			_ = repo.Close()
			return fmt.Errorf("connect to AMQP: %w", err)
		}
		svc = services.NewImportService(repo, client)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("Close failed", "error", err)
		}
	}()

	res, err := svc.Import(ctx, file.New(importArgs.file))
	if err != nil {
		return err
	}

	logger.Info("Dataset imported",
		"import_id", res.ID,
		"rows", res.Rows,
		"db_path", dbPath,
		"published", res.Published)
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows as %s\n", res.Rows, res.ID)
	return nil
}
