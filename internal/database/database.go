// Package database opens the persistence gateway selected by configuration.
//
// Drivers:
//
//	mongo   – document database (production default).
//	mysql   – JSON-column tables through sqlx and go-sql-driver/mysql.
//	memory  – process-local collections for development and tests.
//
// Every helper pings its backend before returning so main can fail fast
// during bootstrap.  Callers Close() the returned gateway on shutdown.
package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/rokibulislampro/mnly-server/internal/config"
	"github.com/rokibulislampro/mnly-server/internal/store"
	"github.com/rokibulislampro/mnly-server/internal/store/memstore"
	"github.com/rokibulislampro/mnly-server/internal/store/mongostore"
	"github.com/rokibulislampro/mnly-server/internal/store/sqlstore"
)

// Open returns the gateway for cfg.Driver.  The mysql driver also creates
// missing collection tables.
func Open(ctx context.Context, cfg config.Database) (*store.Gateway, error) {
	switch cfg.Driver {
	case "mongo":
		return mongostore.Open(ctx, cfg.DSN(), cfg.Name)
	case "mysql":
		db, err := OpenSQL(ctx, cfg.DSN())
		if err != nil {
			return nil, err
		}
		if err := sqlstore.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return sqlstore.NewGateway(db), nil
	case "memory":
		return memstore.NewGateway(), nil
	default:
		return nil, fmt.Errorf("database: unknown driver %q", cfg.Driver)
	}
}

// OpenSQL returns a *sqlx.DB with conservative pool sizes: 15 max open,
// 5 idle, and a 30-minute connection lifetime.
func OpenSQL(ctx context.Context, dsn string) (*sqlx.DB, error) {
	return OpenSQLWithOptions(ctx, dsn, 15, 5)
}

// OpenSQLWithOptions lets callers tune maxOpen and maxIdle.
func OpenSQLWithOptions(ctx context.Context, dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}
	return db, nil
}
