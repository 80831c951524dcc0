// Package store opens the configured credential store.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tablekit/staff-auth/internal/core/ports"
	"github.com/tablekit/staff-auth/internal/infrastructure/config"
	mongostore "github.com/tablekit/staff-auth/internal/infrastructure/db/mongo"
	sqlstore "github.com/tablekit/staff-auth/internal/infrastructure/db/sql"
)

// Open returns the repository selected by cfg.Driver and a function that
// releases its connection.
func Open(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (ports.UserRepository, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite, config.DriverMySQL:
		dsn := cfg.SQLitePath
		if cfg.Driver == config.DriverMySQL {
			dsn = cfg.MySQLDSN
		}
		db, err := sqlstore.Open(sqlstore.Config{Driver: cfg.Driver, DSN: dsn})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		log.Info().Str("driver", cfg.Driver).Msg("credential store ready")
		return sqlstore.NewUserRepository(db), closeFn, nil

	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		repo := mongostore.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		log.Info().Str("driver", cfg.Driver).Str("database", cfg.Mongo.Database).Msg("credential store ready")
		return repo, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
