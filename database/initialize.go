package database

import (
	"fmt"

	"hoyspace-api/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/umakantv/go-utils/db"
	"github.com/umakantv/go-utils/db/migrations"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// InitializeDatabase opens the shared connection pool and brings the schema up
// to date. The returned handle is injected into every repository.
func InitializeDatabase(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	var (
		dbConn *sqlx.DB
		err    error
	)

	switch cfg.Driver {
	case "sqlite3":
		dbConn = db.GetDBConnection(db.DatabaseConfig{
			DRIVER: "sqlite3",
			DB:     cfg.DSN,
		})
		// SQLite leaves foreign keys off unless asked, and cascades depend on them.
		if _, err = dbConn.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	case "mysql":
		// DSN must carry parseTime=true so DATETIME columns scan into time.Time.
		dbConn, err = sqlx.Connect("mysql", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect mysql: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	if err := migrations.Migrate(dbConn, cfg.MigrationsDir); err != nil {
		logger.Error("Error while running migration", zap.Error(err), zap.String("dir", cfg.MigrationsDir))
		dbConn.Close()
		return nil, err
	}

	logger.Info("Database initialized successfully", zap.String("driver", cfg.Driver))
	return dbConn, nil
}
