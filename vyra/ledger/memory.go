package ledger

import (
	"context"
	"slices"
	"sync"
	"time"

	"codeberg.org/vyra/server/vyra/generations"
	"codeberg.org/vyra/server/vyra/usage"
	"github.com/google/uuid"
)

// MemoryStore keeps the ledger in process memory.
//
// Transactions are serialized by a single mutex. Writes are staged on the
// transaction and applied only when fn returns nil.
type MemoryStore struct {
	mu      sync.Mutex
	users   map[string]usage.Record
	history map[string][]generations.Record
	now     func() time.Time

	// consulted before staged writes are applied; a non-nil error aborts the commit
	beforeApply func() error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]usage.Record),
		history: make(map[string][]generations.Record),
		now:     time.Now,
	}
}

// seeds or replaces a user's record
func (s *MemoryStore) SetUsage(rec usage.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Tier == "" {
		rec.Tier = usage.TierFree
	}

	s.users[rec.UserID] = rec
}

// installs a hook that can fail commits after fn succeeded
func (s *MemoryStore) SetBeforeApply(fn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.beforeApply = fn
}

func (s *MemoryStore) GetUsage(_ context.Context, userID string) (usage.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.recordLocked(userID), nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID string, limit, offset int) ([]generations.Record, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.history[userID]
	total := len(all)

	// stored oldest first
	newest := slices.Clone(all)
	slices.Reverse(newest)

	if offset >= total {
		return []generations.Record{}, total, nil
	}

	end := min(offset+limit, total)
	return newest[offset:end], total, nil
}

func (s *MemoryStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memoryTx{store: s, puts: make(map[string]usage.Record)}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	if s.beforeApply != nil {
		if err := s.beforeApply(); err != nil {
			return err
		}
	}

	for userID, rec := range tx.puts {
		s.users[userID] = rec
	}

	for _, rec := range tx.inserts {
		s.history[rec.UserID] = append(s.history[rec.UserID], rec)
	}

	return nil
}

func (s *MemoryStore) recordLocked(userID string) usage.Record {
	rec, ok := s.users[userID]
	if !ok {
		return usage.Record{UserID: userID, Tier: usage.TierFree}
	}

	return rec
}

type memoryTx struct {
	store   *MemoryStore
	puts    map[string]usage.Record
	inserts []generations.Record
}

func (t *memoryTx) LockUsage(_ context.Context, userID string) (usage.Record, error) {
	if rec, ok := t.puts[userID]; ok {
		return rec, nil
	}

	return t.store.recordLocked(userID), nil
}

func (t *memoryTx) PutUsage(_ context.Context, rec usage.Record) error {
	if rec.Tier == "" {
		rec.Tier = t.store.recordLocked(rec.UserID).Tier
	}

	rec.UpdatedAt = t.store.now()
	t.puts[rec.UserID] = rec
	return nil
}

func (t *memoryTx) InsertGeneration(_ context.Context, d generations.Draft) (generations.Record, error) {
	rec := d.Record(uuid.NewString(), t.store.now())
	t.inserts = append(t.inserts, rec)
	return rec, nil
}
