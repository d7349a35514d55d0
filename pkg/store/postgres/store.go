// Package postgres implements pkg/cache.Store on Postgres: a
// connection-pool-plus-migrations setup (pgx stdlib driver +
// golang-migrate embedded SQL migrations) backing a plain
// cache_entries table.
//
// This store talks to Postgres directly through database/sql +
// jackc/pgx/v5's stdlib driver rather than a generated ORM client, since
// no such generated client ships as importable Go source here.
package postgres

import (
	"context"
	stdsql "database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/madspark-dev/madspark/pkg/cache"
)

//go:embed migrations
var migrationsFS embed.FS

// Config is the Postgres connection-pool shape: connection parameters
// plus pool sizing and lifetime limits.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Store is a Postgres-backed pkg/cache.Store.
type Store struct {
	db *stdsql.DB
}

// New opens a pooled connection, runs embedded migrations, and returns a
// ready Store via an open/configure/ping/migrate sequence.
func New(ctx context.Context, cfg Config) (*Store, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := stdsql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db, cfg.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func runMigrations(db *stdsql.DB, databaseName string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, databaseName, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return sourceDriver.Close()
}

// Close releases the pooled connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get implements pkg/cache.Store.
func (s *Store) Get(ctx context.Context, key string) (cache.Entry, bool, error) {
	var recordJSON, metaJSON []byte
	var expiresAt time.Time

	row := s.db.QueryRowContext(ctx,
		`SELECT record, meta, expires_at FROM cache_entries WHERE key = $1`, key)
	if err := row.Scan(&recordJSON, &metaJSON, &expiresAt); err != nil {
		if err == stdsql.ErrNoRows {
			return cache.Entry{}, false, nil
		}
		return cache.Entry{}, false, err
	}

	if time.Now().After(expiresAt) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = $1`, key)
		return cache.Entry{}, false, nil
	}

	var entry cache.Entry
	if err := json.Unmarshal(recordJSON, &entry.Record); err != nil {
		return cache.Entry{}, false, err
	}
	if err := json.Unmarshal(metaJSON, &entry.Meta); err != nil {
		return cache.Entry{}, false, err
	}
	return entry, true, nil
}

// Set implements pkg/cache.Store.
func (s *Store) Set(ctx context.Context, key string, entry cache.Entry, ttl time.Duration) error {
	recordJSON, err := json.Marshal(entry.Record)
	if err != nil {
		return err
	}
	metaJSON, err := json.Marshal(entry.Meta)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, record, meta, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET record = EXCLUDED.record, meta = EXCLUDED.meta, expires_at = EXCLUDED.expires_at
	`, key, recordJSON, metaJSON, time.Now().Add(ttl))
	return err
}
