package usage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// query surface shared by *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	db *pgxpool.Pool
}

// creates a new usage repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// reads the quota record outside any transaction
func (r *Repository) GetUsage(ctx context.Context, userID string) (Record, error) {
	rec, err := scanRecord(r.db.QueryRow(ctx, queryGetUsage, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{UserID: userID, Tier: TierFree}, nil
	}

	if err != nil {
		return Record{}, err
	}

	return rec, nil
}

// locks the user's row for the rest of the transaction, creating it if missing
func LockForUpdate(ctx context.Context, tx DBTX, userID string) (Record, error) {
	if _, err := tx.Exec(ctx, queryEnsureUser, userID); err != nil {
		return Record{}, fmt.Errorf("failed to ensure user row: %w", err)
	}

	rec, err := scanRecord(tx.QueryRow(ctx, queryLockUsage, userID))
	if err != nil {
		return Record{}, fmt.Errorf("failed to lock usage: %w", err)
	}

	return rec, nil
}

// writes the counter columns of rec
func Put(ctx context.Context, tx DBTX, rec Record) error {
	tag, err := tx.Exec(
		ctx,
		queryPutUsage,
		rec.UserID,
		rec.DailyGenerationCount,
		rec.LastGenerationDate,
		rec.TotalGenerations,
		rec.XP,
	)
	if err != nil {
		return fmt.Errorf("failed to write usage: %w", err)
	}

	if tag.RowsAffected() != 1 {
		return fmt.Errorf("failed to write usage: user %s not found", rec.UserID)
	}

	return nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	var tier string

	err := row.Scan(
		&rec.UserID,
		&tier,
		&rec.DailyGenerationCount,
		&rec.LastGenerationDate,
		&rec.TotalGenerations,
		&rec.XP,
		&rec.UpdatedAt,
	)
	if err != nil {
		return Record{}, err
	}

	rec.Tier = Tier(tier)
	return rec, nil
}
