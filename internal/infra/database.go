package infra

import (
	"fmt"

	"verttraue/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs AutoMigrate
// to create / update all tables. Business entities keep their caller-supplied
// string primary keys, so no sequence or uuid extension setup is required.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
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
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return db, nil
}

// RunMigrations applies the schema. Shared with integration tests.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Supplier{},
		&model.Product{},
		&model.ProductPhoto{},
		&model.Affiliate{},
		&model.AffiliateStock{},
		&model.Kit{},
		&model.KitItem{},
		&model.Bundle{},
		&model.BundleItem{},
		&model.Sale{},
		&model.SaleItem{},
	)
}
