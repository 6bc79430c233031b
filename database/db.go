package database

import (
	"fmt"
	"log/slog" // use slog for structured logging

	"mobox/internal/config"
	"mobox/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the sqlite database, enables foreign-key enforcement and
// migrates the three tables. Called exactly once from the composition root;
// everyone else receives the returned handle.
func Connect(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	// _pragma=foreign_keys(1) is required for the favorites cascade deletes.
	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", cfg.DatabasePath)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify the connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		// close the db handle if ping fails to avoid resource leak
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// churn between the store's write path and concurrent live re-queries.
	sqlDB.SetMaxOpenConns(1)

	if err := runMigrations(db, logger); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Connected to the database successfully")
	return db, nil
}

func runMigrations(db *gorm.DB, logger *slog.Logger) error {
	tables := []interface{}{
		&models.User{},
		&models.Movie{},
		&models.Favorite{},
	}

	for _, table := range tables {
		if err := db.AutoMigrate(table); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", table, err)
		}
	}

	logger.Info("Database migrations applied successfully")
	return nil
}
