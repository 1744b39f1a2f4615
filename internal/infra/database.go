package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx, creates the
// namespaced schemas, and runs AutoMigrate for all models.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates the table namespaces and brings the schema up to
// date. Idempotent; also used by integration tests against a fresh database.
func RunMigrations(db *gorm.DB) error {
	// Models live in namespaced schemas (inventory.*, sales.*, purchases.*,
	// settings.*) — the schemas must exist before AutoMigrate touches them.
	for _, schema := range []string{"inventory", "sales", "purchases", "settings"} {
		if err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + schema).Error; err != nil {
			return fmt.Errorf("create schema %s: %w", schema, err)
		}
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return fmt.Errorf("create extension pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.StockMovement{},
		&model.Customer{},
		&model.Supplier{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.User{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
