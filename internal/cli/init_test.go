package cli

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	applog "funding/internal/log"
)

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger("debug", applog.ComponentCLI)
	if logger.Component() != applog.ComponentCLI {
		t.Errorf("Component() = %q, want %q", logger.Component(), applog.ComponentCLI)
	}
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level not enabled")
	}

	logger = SetupLogger("warn", applog.ComponentApp)
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info enabled at warn level")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("DATA_SOURCE", "sqlite")
	t.Setenv("SQLITE_DB_PATH", t.TempDir()+"/funding.db")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("LoadConfig() error = nil, want validation error")
	}
	if !strings.Contains(err.Error(), "invalid port 'not-a-port'") {
		t.Errorf("LoadConfig() error = %v", err)
	}

	t.Setenv("PORT", "8081")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DataSource != "sqlite" {
		t.Errorf("DataSource = %q, want sqlite", cfg.DataSource)
	}
}
