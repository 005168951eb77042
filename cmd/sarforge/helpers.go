package main

import (
	"context"
	"log/slog"

	"github.com/fincomply/sarforge/internal/config"
	"github.com/fincomply/sarforge/internal/storage"
)

// openStore loads the configuration, opens the record database, and brings
// the schema up to date.
func openStore(ctx context.Context) (*storage.SQLiteStorage, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	return store, cfg, nil
}

// loadTemplate reads the configured PDF template, downgrading absence to a
// log line. Every caller treats a nil template as "render the summary".
func loadTemplate(cfg *config.Config, logger *slog.Logger) []byte {
	template, err := cfg.LoadTemplate()
	if err != nil {
		logger.Warn("no usable PDF template, summaries will be rendered", "error", err)
		return nil
	}
	logger.Info("loaded PDF template", "path", cfg.TemplatePath, "bytes", len(template))
	return template
}
