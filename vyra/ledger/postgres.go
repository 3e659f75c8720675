package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"codeberg.org/vyra/server/vyra/generations"
	"codeberg.org/vyra/server/vyra/usage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"

	retryBaseDelay = 20 * time.Millisecond
	retryMaxDelay  = 500 * time.Millisecond
)

// yields the shared pool; *database.LazyPool implements it
type PoolSource interface {
	Get(ctx context.Context) (*pgxpool.Pool, error)
}

// Store backed by PostgreSQL at SERIALIZABLE isolation.
type PostgresStore struct {
	pools       PoolSource
	maxAttempts int
	onRetry     func(attempt int, err error)
}

type PostgresOption func(*PostgresStore)

// sets how many times a transaction is attempted before giving up
func WithMaxAttempts(n int) PostgresOption {
	return func(s *PostgresStore) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// called before each retry
func WithRetryHook(fn func(attempt int, err error)) PostgresOption {
	return func(s *PostgresStore) { s.onRetry = fn }
}

func NewPostgresStore(pools PoolSource, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{
		pools:       pools,
		maxAttempts: 5,
		onRetry:     func(int, error) {},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *PostgresStore) GetUsage(ctx context.Context, userID string) (usage.Record, error) {
	db, err := s.pools.Get(ctx)
	if err != nil {
		return usage.Record{}, fmt.Errorf("failed to open database: %w", err)
	}

	return usage.NewRepository(db).GetUsage(ctx, userID)
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]generations.Record, int, error) {
	db, err := s.pools.Get(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open database: %w", err)
	}

	return generations.NewRepository(db).ListByUser(ctx, userID, limit, offset)
}

func (s *PostgresStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	db, err := s.pools.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	var lastErr error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err := pgx.BeginTxFunc(ctx, db, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
			return fn(ctx, &postgresTx{tx: tx})
		})
		if err == nil {
			return nil
		}

		if !isRetryable(err) {
			return err
		}

		lastErr = err
		if attempt == s.maxAttempts {
			break
		}

		s.onRetry(attempt, err)

		if err := sleep(ctx, backoff(attempt)); err != nil {
			return err
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrContention, s.maxAttempts, lastErr)
}

type postgresTx struct {
	tx pgx.Tx
}

func (t *postgresTx) LockUsage(ctx context.Context, userID string) (usage.Record, error) {
	return usage.LockForUpdate(ctx, t.tx, userID)
}

func (t *postgresTx) PutUsage(ctx context.Context, rec usage.Record) error {
	return usage.Put(ctx, t.tx, rec)
}

func (t *postgresTx) InsertGeneration(ctx context.Context, d generations.Draft) (generations.Record, error) {
	return generations.Insert(ctx, t.tx, d)
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == sqlStateSerializationFailure || pgErr.Code == sqlStateDeadlockDetected
}

// exponential backoff with full jitter
func backoff(attempt int) time.Duration {
	d := retryMaxDelay
	if attempt < 16 {
		d = min(retryBaseDelay<<(attempt-1), retryMaxDelay)
	}

	return time.Duration(rand.Int64N(int64(d))) + time.Millisecond
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
