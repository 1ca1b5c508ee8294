// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package postgres owns the pgx connection pool and the transaction helpers
shared by the domain stores. Queries live with their domain packages.
*/
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/comunidad/internal/platform/constants"
)

// PoolSize bounds the pool. Zero values fall back to defaults.
type PoolSize struct {
	MaxConns int32
	MinConns int32
}

const (
	defaultMaxConns   = 25
	defaultMinConns   = 2
	maxConnLifetime   = time.Hour
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = time.Minute
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

/*
NewPool connects to dsn and pings once before returning.

Every session runs in UTC with statement_timeout equal to the request
deadline, so a slow query cannot outlive the request that issued it.
*/
func NewPool(ctx context.Context, dsn string, size PoolSize, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}

	poolConfig.MaxConns = defaultMaxConns
	if size.MaxConns > 0 {
		poolConfig.MaxConns = size.MaxConns
	}
	poolConfig.MinConns = min(defaultMinConns, poolConfig.MaxConns)
	if size.MinConns > 0 {
		poolConfig.MinConns = min(size.MinConns, poolConfig.MaxConns)
	}
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod

	connConfig := poolConfig.ConnConfig
	connConfig.ConnectTimeout = connectTimeout
	connConfig.RuntimeParams["application_name"] = constants.AppName
	connConfig.RuntimeParams["timezone"] = "UTC"
	connConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(constants.GlobalRequestTimeout.Milliseconds(), 10)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_connected",
		slog.String("host", connConfig.Host),
		slog.String("database", connConfig.Database),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
	)
	return pool, nil
}

// Ping checks the pool can reach the server within a short deadline.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}
