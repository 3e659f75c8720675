package ledger

import (
	"context"
	"errors"

	"codeberg.org/vyra/server/vyra/generations"
	"codeberg.org/vyra/server/vyra/usage"
)

// returned when a transaction keeps losing serialization races
var ErrContention = errors.New("ledger contention: transaction retries exhausted")

// Store provides reads and atomic read-modify-write over the quota ledger.
type Store interface {
	usage.Reader

	// runs fn in one transaction; a non-nil return discards every write made through tx
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// writes made through Tx become visible together or not at all
type Tx interface {
	// reads the user's record and holds it until the transaction ends
	LockUsage(ctx context.Context, userID string) (usage.Record, error)
	PutUsage(ctx context.Context, rec usage.Record) error
	InsertGeneration(ctx context.Context, d generations.Draft) (generations.Record, error)
}

// lists a user's generation history
type HistoryLister interface {
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]generations.Record, int, error)
}
