package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/sandeepkv93/codereview-portal/internal/config"
)

// Backend is the store selected by STORE_DRIVER. Exactly one of Mongo and
// SQL is set.
type Backend struct {
	Driver string
	Mongo  *MongoHandle
	SQL    *gorm.DB
}

// OpenBackend returns the configured store. Mongo connects lazily on first
// use; SQL backends are opened and migrated immediately.
func OpenBackend(cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	if cfg.StoreDriver == config.StoreDriverMongo {
		return &Backend{Driver: cfg.StoreDriver, Mongo: NewMongoHandle(cfg, logger)}, nil
	}
	db, err := OpenSQL(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.StoreDriver, err)
	}
	if err := MigrateSQL(db); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", cfg.StoreDriver, err)
	}
	return &Backend{Driver: cfg.StoreDriver, SQL: db}, nil
}

// Prepare makes sure the schema the repositories rely on exists and reports
// what it touched.
func (b *Backend) Prepare(ctx context.Context) ([]string, error) {
	if b.Mongo != nil {
		db, err := b.Mongo.Database(ctx)
		if err != nil {
			return nil, err
		}
		return EnsureIndexes(ctx, db)
	}
	if err := MigrateSQL(b.SQL); err != nil {
		return nil, err
	}
	return []string{b.Driver + " schema migrated"}, nil
}

func (b *Backend) Close(ctx context.Context) error {
	if b == nil {
		return nil
	}
	var errs []error
	if b.Mongo != nil {
		errs = append(errs, b.Mongo.Close(ctx))
	}
	if b.SQL != nil {
		if sqlDB, err := b.SQL.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
