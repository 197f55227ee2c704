package main

import (
	"github.com/esgdesk/extraction-review/internal/config"
	"github.com/esgdesk/extraction-review/internal/store"
	"github.com/esgdesk/extraction-review/pkg/log"
	"github.com/esgdesk/extraction-review/pkg/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:          "review-api",
	Short:        "Review and reconcile ESG document extractions",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(newQueueCmd())
}

// setup loads the configuration and installs the global zap logger. The returned
// function restores the previous logger and flushes the new one.
func setup() (*config.Config, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}

	logger := log.InitLog(log.ParseLevel(cfg.Service.LogLevel), cfg.Service.LogEncoding)
	undo := zap.ReplaceGlobals(logger)

	return cfg, func() {
		_ = logger.Sync()
		undo()
	}, nil
}

func openStore(cfg *config.Config) (store.Store, *gorm.DB, error) {
	zap.S().Info("Initializing data store")
	db, err := store.InitDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return store.NewStore(db), db, nil
}

// migrate runs the goose migrations on postgres and the model based schema on sqlite.
func migrate(cfg *config.Config, s store.Store, db *gorm.DB) error {
	if cfg.Database.Type == "pgsql" {
		return migrations.MigrateStore(db, cfg)
	}
	return s.InitialMigration()
}
