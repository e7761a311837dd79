package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/po-extract/internal/common"
)

// Dialect is the SQL backend behind a DB.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ConfigFrom copies the database section of the app config.
func ConfigFrom(c common.DatabaseConfig) Config {
	return Config{
		DSN:             c.DSN,
		MaxConns:        c.MaxConns,
		MinConns:        c.MinConns,
		MaxConnLifetime: c.MaxConnLifetime,
		MaxConnIdleTime: c.MaxConnIdleTime,
		DialTimeout:     c.DialTimeout,
	}
}

// DB is a database/sql handle wrapped in an ent SQL driver, plus the pgx pool
// backing it when Postgres.
type DB struct {
	SQL     *sql.DB
	Dialect Dialect
	drv     *entsql.Driver
	pool    *pgxpool.Pool
}

func newDB(db *sql.DB, d Dialect, pool *pgxpool.Pool) *DB {
	return &DB{SQL: db, Dialect: d, drv: entsql.OpenDB(d.ent(), db), pool: pool}
}

// ent maps the backend to the ent dialect name that drives query building.
func (d Dialect) ent() string {
	if d == DialectSQLite {
		return dialect.SQLite
	}
	return dialect.Postgres
}

// Builder returns an ent SQL builder emitting this backend's placeholders and quoting.
func (d Dialect) Builder() *entsql.DialectBuilder {
	return entsql.Dialect(d.ent())
}

// dialectFor picks the backend from the DSN. postgres:// and postgresql:// URLs
// use pgx; sqlite://path, file: URIs and :memory: use the pure-Go sqlite driver.
func dialectFor(dsn string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DialectPostgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return DialectSQLite, strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return DialectSQLite, dsn, nil
	}
	return "", "", common.NewAppError("CONFIG_ERROR", fmt.Sprintf("unsupported database dsn %q", redact(dsn)), common.ErrInvalidInput)
}

// redact hides URL credentials in log output.
func redact(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	return dsn[:scheme+3] + "***" + dsn[at:]
}

// Open connects to the database named by cfg.DSN.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	backend, dsn, err := dialectFor(cfg.DSN)
	if err != nil {
		return nil, err
	}
	logger.Info("connecting to database", "dialect", backend, "dsn", redact(cfg.DSN))

	if backend == DialectSQLite {
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			logger.Error("failed to open sqlite database", "error", err)
			return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
		}
		// One connection: every :memory: connection is its own database, and
		// sqlite serializes writers anyway.
		db.SetMaxOpenConns(1)
		logger.Info("successfully connected to database")
		return newDB(db, DialectSQLite, nil), nil
	}

	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "po-extract"

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}

	logger.Info("successfully connected to database")
	// Wrap pool as *sql.DB for the ent driver
	return newDB(stdlib.OpenDBFromPool(pool), DialectPostgres, pool), nil
}

// Close closes the database connections gracefully
func (d *DB) Close(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("closing database connections")
	if d.drv != nil {
		if err := d.drv.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}
	if d.pool != nil {
		d.pool.Close()
	}
	logger.Info("database connections closed")
}

// HealthCheck pings the database.
func (d *DB) HealthCheck(ctx context.Context, timeout time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := d.SQL.PingContext(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	logger.Debug("database ping successful")
	return nil
}

var migrations = map[Dialect][]string{
	DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS parse_runs (
			id            UUID PRIMARY KEY,
			source_path   TEXT NOT NULL,
			format        TEXT NOT NULL,
			content_hash  BYTEA NOT NULL,
			status        TEXT NOT NULL,
			company_code  TEXT NOT NULL DEFAULT '',
			item_count    INTEGER NOT NULL DEFAULT 0,
			needs_review  BOOLEAN NOT NULL DEFAULT FALSE,
			error_message TEXT,
			result        JSONB,
			created_at    TIMESTAMPTZ NOT NULL,
			finished_at   TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS parse_runs_hash_idx ON parse_runs (content_hash, created_at DESC)`,
	},
	DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS parse_runs (
			id            TEXT PRIMARY KEY,
			source_path   TEXT NOT NULL,
			format        TEXT NOT NULL,
			content_hash  BLOB NOT NULL,
			status        TEXT NOT NULL,
			company_code  TEXT NOT NULL DEFAULT '',
			item_count    INTEGER NOT NULL DEFAULT 0,
			needs_review  BOOLEAN NOT NULL DEFAULT FALSE,
			error_message TEXT,
			result        TEXT,
			created_at    DATETIME NOT NULL,
			finished_at   DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS parse_runs_hash_idx ON parse_runs (content_hash, created_at DESC)`,
	},
}

// Migrate creates the schema when missing.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range migrations[d.Dialect] {
		if err := d.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return fmt.Errorf("%w: migrate: %v", common.ErrDatabase, err)
		}
	}
	return nil
}
