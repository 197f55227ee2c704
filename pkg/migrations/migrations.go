package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/esgdesk/extraction-review/internal/config"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed sql/*.sql
var embedded embed.FS

// MigrateStore applies every pending goose migration. The configured migration folder
// wins over the migrations embedded in the binary.
func MigrateStore(db *gorm.DB, cfg *config.Config) error {
	goose.SetLogger(&logger{})

	migrationFS, err := source(cfg.Service.MigrationFolder)
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrationFS)

	if err := goose.SetDialect(dialect(cfg.Database.Type)); err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return goose.Up(sqlDB, ".")
}

// Version returns the version of the last applied migration.
func Version(db *gorm.DB, cfg *config.Config) (int64, error) {
	if err := goose.SetDialect(dialect(cfg.Database.Type)); err != nil {
		return 0, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return 0, err
	}
	return goose.GetDBVersion(sqlDB)
}

func source(folder string) (fs.FS, error) {
	if folder == "" {
		return fs.Sub(embedded, "sql")
	}

	fi, err := os.Stat(folder)
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsDir() {
		return nil, fmt.Errorf("failed to open migration folder: %s is not a folder", folder)
	}
	return os.DirFS(folder), nil
}

func dialect(dbType string) string {
	if dbType == "pgsql" {
		return "postgres"
	}
	return "sqlite3"
}

// logger routes goose output through zap.
type logger struct{}

func (m *logger) Printf(format string, v ...interface{}) { zap.S().Named("migrations").Infof(format, v...) }
func (m *logger) Fatalf(format string, v ...interface{}) { zap.S().Named("migrations").Fatalf(format, v...) }
