package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"
)

type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	HealthCheck     time.Duration

	// use the simple protocol for PgBouncer transaction-mode poolers,
	// which do not support prepared statements
	SimpleProtocol bool
}

// pool sizing for a single API instance
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxConns:        10,
		MinConns:        1,
		MaxConnLifetime: 30 * time.Minute,
		MaxConnIdleTime: 5 * time.Minute,
		HealthCheck:     1 * time.Minute,
	}
}

// opens and pings a connection pool
func NewPool(ctx context.Context, connString string, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.HealthCheck

	if cfg.SimpleProtocol {
		poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	}

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

type PoolFactory func(ctx context.Context) (*pgxpool.Pool, error)

// LazyPool opens the pool on first use and shares it afterwards.
// A failed open is not cached.
type LazyPool struct {
	open  PoolFactory
	pool  atomic.Pointer[pgxpool.Pool]
	group singleflight.Group
}

func NewLazyPool(connString string, cfg PoolConfig) *LazyPool {
	return NewLazyPoolWithFactory(func(ctx context.Context) (*pgxpool.Pool, error) {
		return NewPool(ctx, connString, cfg)
	})
}

func NewLazyPoolWithFactory(open PoolFactory) *LazyPool {
	return &LazyPool{open: open}
}

// returns the shared pool, opening it if needed
func (l *LazyPool) Get(ctx context.Context) (*pgxpool.Pool, error) {
	if p := l.pool.Load(); p != nil {
		return p, nil
	}

	v, err, _ := l.group.Do("pool", func() (any, error) {
		if p := l.pool.Load(); p != nil {
			return p, nil
		}

		p, err := l.open(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		l.pool.Store(p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*pgxpool.Pool), nil
}

// pings the pool if it has been opened
func (l *LazyPool) Ping(ctx context.Context) error {
	p, err := l.Get(ctx)
	if err != nil {
		return err
	}

	return p.Ping(ctx)
}

// closes the pool if it was opened
func (l *LazyPool) Close() {
	if p := l.pool.Swap(nil); p != nil {
		p.Close()
	}
}
