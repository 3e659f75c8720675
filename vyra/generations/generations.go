package generations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// query surface shared by *pgxpool.Pool and pgx.Tx
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// inserts a generation; id and created_at come from the database
func Insert(ctx context.Context, q Querier, d Draft) (Record, error) {
	var id string
	var rec Record

	err := q.QueryRow(
		ctx,
		queryInsert,
		d.UserID,
		d.OriginalPrompt,
		d.OptimizedPrompt,
		d.Style,
		d.ImageURL,
	).Scan(&id, &rec.CreatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("failed to insert generation: %w", err)
	}

	return d.Record(id, rec.CreatedAt), nil
}

// lists a user's generations, newest first
func (r *Repository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Record, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, queryCountByUser, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count generations: %w", err)
	}

	rows, err := r.db.Query(ctx, queryListByUser, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list generations: %w", err)
	}

	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record

		err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.OriginalPrompt,
			&rec.OptimizedPrompt,
			&rec.Style,
			&rec.ImageURL,
			&rec.IsPublic,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan generation: %w", err)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list generations: %w", err)
	}

	return records, total, nil
}
