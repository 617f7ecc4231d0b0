// Package postgres opens the entity directory database.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/kailas-cloud/searchintent/internal/db"
)

// Connection pool defaults.
const (
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 5
	DefaultConnMaxLifetime = 5 * time.Minute
	DefaultPingTimeout     = 5 * time.Second
)

// Compile-time check: DB implements db.Pinger.
var _ db.Pinger = (*DB)(nil)

// Config holds PostgreSQL connection parameters.
type Config struct {
	Host         string
	Port         int
	User         string
	Password     string //nolint:gosec // DB connection config
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// DSN renders the lib/pq connection string.
func (c Config) DSN() string {
	ssl := c.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, ssl,
	)
}

// DB is a pooled PostgreSQL connection.
type DB struct {
	conn *sqlx.DB
}

// Open connects, applies pool settings and verifies the connection.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	return OpenDSN(ctx, cfg.DSN(), cfg)
}

// OpenDSN is Open with a caller supplied connection string; only the pool
// settings of cfg are used.
func OpenDSN(ctx context.Context, dsn string, cfg Config) (*DB, error) {
	conn, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, DefaultMaxOpenConns))
	conn.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, DefaultMaxIdleConns))
	conn.SetConnMaxLifetime(DefaultConnMaxLifetime)

	d := New(conn)
	pingCtx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()
	if err := d.Ping(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return d, nil
}

// New wraps an existing connection.
func New(conn *sqlx.DB) *DB {
	return &DB{conn: conn}
}

// Conn exposes the sqlx handle to repositories.
func (d *DB) Conn() *sqlx.DB { return d.conn }

// Ping checks connectivity.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.conn.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the pool.
func (d *DB) Close() error {
	if err := d.conn.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
