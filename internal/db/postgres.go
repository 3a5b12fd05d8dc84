package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/courseportal/internal/config"
)

const (
	connectTimeout    = 10 * time.Second
	healthCheckPeriod = 30 * time.Second
)

// PostgresDB wraps the pgx pool backing the postgres store
type PostgresDB struct {
	Pool *pgxpool.Pool
}

// PoolConfig builds the pgxpool configuration for the database section of cfg
func PoolConfig(cfg *config.Config) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	maxLifetime, err := time.ParseDuration(cfg.Database.ConnMaxLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection max lifetime: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(min(cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns))
	poolConfig.MaxConnLifetime = maxLifetime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	return poolConfig, nil
}

// NewPostgresDB connects to postgres and verifies the connection
func NewPostgresDB(ctx context.Context, cfg *config.Config) (*PostgresDB, error) {
	poolConfig, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	return &PostgresDB{Pool: pool}, nil
}

// Close closes the pool
func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// TransactionFn runs inside a transaction
type TransactionFn func(ctx context.Context, tx pgx.Tx) error

// WithTransaction commits when fn returns nil and rolls back otherwise
func (db *PostgresDB) WithTransaction(ctx context.Context, fn TransactionFn) error {
	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		return fn(ctx, tx)
	})
}
