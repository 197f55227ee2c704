package main

import (
	"github.com/esgdesk/extraction-review/pkg/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, teardown, err := setup()
		if err != nil {
			return err
		}
		defer teardown()

		s, db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := migrate(cfg, s, db); err != nil {
			return err
		}
		if cfg.Database.Type != "pgsql" {
			zap.S().Info("db migrated from models")
			return nil
		}

		version, err := migrations.Version(db, cfg)
		if err != nil {
			return err
		}
		zap.S().Infow("db migrated", "version", version)
		return nil
	},
}
