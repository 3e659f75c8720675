package ledger

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/vyra/server/vyra/usage"
)

// Ledger is the authoritative quota enforcement point.
type Ledger struct {
	store Store
}

func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// Commit recounts the user's usage under a row lock and, if the limit allows,
// increments the counters and appends the generation in one transaction.
func (l *Ledger) Commit(ctx context.Context, req CommitRequest) (*CommitResult, error) {
	if req.UserID == "" {
		return nil, errors.New("commit requires a user id")
	}

	if req.Today == "" {
		return nil, errors.New("commit requires a calendar day")
	}

	if req.Limit < 1 {
		return nil, fmt.Errorf("commit requires a positive limit, got %d", req.Limit)
	}

	draft := req.Generation
	draft.UserID = req.UserID

	var result CommitResult

	err := l.store.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		current, err := tx.LockUsage(ctx, req.UserID)
		if err != nil {
			return err
		}

		fresh := current.EffectiveCount(req.Today)
		if fresh >= req.Limit {
			return &usage.QuotaError{Limit: req.Limit, Count: fresh}
		}

		next := current.Incremented(req.Today)
		next.UserID = req.UserID

		if err := tx.PutUsage(ctx, next); err != nil {
			return err
		}

		rec, err := tx.InsertGeneration(ctx, draft)
		if err != nil {
			return err
		}

		result = CommitResult{
			GenerationID: rec.ID,
			CreatedAt:    rec.CreatedAt,
			Usage:        next,
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, usage.ErrQuotaExceeded) {
			return nil, err
		}

		return nil, fmt.Errorf("failed to commit generation: %w", err)
	}

	return &result, nil
}
