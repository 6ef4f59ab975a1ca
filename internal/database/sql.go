package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sandeepkv93/codereview-portal/internal/config"
	"github.com/sandeepkv93/codereview-portal/internal/domain"
	"github.com/sandeepkv93/codereview-portal/internal/observability"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQL opens the relational backend selected by STORE_DRIVER.
func OpenSQL(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	case config.StoreDriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("store driver %q is not a sql driver", cfg.StoreDriver)
	}
	start := time.Now()
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	observability.RecordStoreConnect(context.Background(), cfg.StoreDriver, outcome, time.Since(start))
	return db, err
}

func MigrateSQL(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Activity{},
		&domain.Contact{},
	)
}
