package usage

import (
	"context"
	"fmt"
)

// reads the current quota record for a user; a missing user yields the zero record
type Reader interface {
	GetUsage(ctx context.Context, userID string) (Record, error)
}

// result of an advisory quota check
type Decision struct {
	Allowed bool
	Limit   int
	Count   int
	Tier    Tier
}

// Gate is the fast admission check run before any paid provider call.
//
// It reads outside of any transaction, so two in-flight requests for the same
// user can both pass. The ledger commit recounts under a row lock and is the
// only authoritative enforcement point.
type Gate struct {
	reader          Reader
	limits          Limits
	trustClientTier bool
}

type GateOption func(*Gate)

// honors the tier declared by the client in addition to the stored tier
func WithTrustClientTier(trust bool) GateOption {
	return func(g *Gate) { g.trustClientTier = trust }
}

func NewGate(reader Reader, limits Limits, opts ...GateOption) *Gate {
	g := &Gate{reader: reader, limits: limits}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// resolves the effective tier from the stored record and the declared one
func (g *Gate) ResolveTier(stored, declared Tier) Tier {
	if stored == TierPremium {
		return TierPremium
	}

	if g.trustClientTier && declared == TierPremium {
		return TierPremium
	}

	return TierFree
}

// returns the limit for a resolved tier
func (g *Gate) Limit(tier Tier) int {
	return g.limits.For(tier)
}

// checks whether userID may start another generation today
func (g *Gate) Precheck(ctx context.Context, userID, today string, declared Tier) (Decision, error) {
	rec, err := g.reader.GetUsage(ctx, userID)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to read usage: %w", err)
	}

	tier := g.ResolveTier(rec.Tier, declared)
	limit := g.limits.For(tier)
	count := rec.EffectiveCount(today)

	return Decision{
		Allowed: count < limit,
		Limit:   limit,
		Count:   count,
		Tier:    tier,
	}, nil
}
