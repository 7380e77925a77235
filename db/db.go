// Package db opens the storage backends used by notekeeper: a pgx connection
// pool (exposed to the repositories through sqlx), a MongoDB database, and the
// embedded SQL migrations that create the PostgreSQL schema.
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/user/notekeeper/apperror"
	"github.com/user/notekeeper/config"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
)

// NewPool establishes a pgx connection pool for cfg.URL and verifies it with a ping.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	// `pgxpool.ParseConfig` accepts both URL and key/value DSNs, including
	// `pool_*` query parameters; explicit settings below override those.
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, apperror.NewConfigError("error parsing DATABASE_URL", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	// Bound pool creation so an unreachable server fails startup instead of
	// blocking it.
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError("error creating pgxpool", err)
	}

	// pgxpool connects lazily; the ping proves credentials and reachability now.
	pingCtx, pingCancel := context.WithTimeout(ctx, pingTimeout)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewDatabaseError("error connecting to the database", err)
	}
	return pool, nil
}

// NewSQLX wraps pool in a *sqlx.DB using the pgx database/sql driver.
// Closing the returned handle does not close the pool.
func NewSQLX(pool *pgxpool.Pool) *sqlx.DB {
	return sqlx.NewDb(stdlib.OpenDBFromPool(pool), "pgx")
}

// RunMigrations applies every pending migration embedded in the binary.
// Running it against an up-to-date schema is a no-op.
//
// The migrator works on a single connection checked out from db for the
// duration of the call. Closing the migrator releases that connection back to
// the pool but leaves db itself open for the stores.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	// `iofs` reads the SQL files compiled into the binary by the `embed`
	// directive above.
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return apperror.NewMigrationError("failed to open embedded migrations", err)
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = src.Close()
		return apperror.NewMigrationError("failed to acquire migration connection", err)
	}
	// Returns the connection on every path. After m.Close this is a no-op
	// reporting sql.ErrConnDone, which is ignored.
	defer func() { _ = conn.Close() }()

	// `WithConnection` (unlike `WithInstance`) does not take ownership of db;
	// the driver's Close only closes conn.
	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		_ = src.Close()
		return apperror.NewMigrationError("failed to create migration driver", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = src.Close()
		_ = driver.Close()
		return apperror.NewMigrationError("failed to create migrator", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			slog.Warn("error closing migrator", "source_error", srcErr, "database_error", dbErr)
		}
	}()

	// `m.Up` applies all pending "up" migrations; `ErrNoChange` only means the
	// schema was already current.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewMigrationError("failed to run migrations", err)
	}
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return apperror.NewMigrationError("failed to read schema version", err)
	}
	slog.Info("database schema is current", "version", version, "dirty", dirty)
	return nil
}

// NewMongo connects to uri and returns the named database after a ping.
// The caller owns the client and disconnects it through the returned database.
func NewMongo(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperror.NewDatabaseError("error connecting to mongodb", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, pingTimeout)
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error pinging mongodb database %s", dbName), err)
	}
	return client.Database(dbName), nil
}
