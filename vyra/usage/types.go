package usage

import "time"

// DateLayout is the calendar-day format stored in last_generation_date.
const DateLayout = "2006-01-02"

// xp granted per successful generation
const XPPerGeneration = 10

// subscription tier
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// daily generation limits per tier
type Limits struct {
	Free    int
	Premium int
}

func DefaultLimits() Limits {
	return Limits{Free: 5, Premium: 100}
}

// returns the daily limit for a tier; unknown tiers get the free limit
func (l Limits) For(tier Tier) int {
	if tier == TierPremium {
		return l.Premium
	}

	return l.Free
}

// per-user quota state, stored on the users row
type Record struct {
	UserID               string    `json:"user_id"`
	Tier                 Tier      `json:"tier"`
	DailyGenerationCount int       `json:"daily_generation_count"`
	LastGenerationDate   string    `json:"last_generation_date"`
	TotalGenerations     int64     `json:"total_generations"`
	XP                   int64     `json:"xp"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// returns the calendar day of t in UTC
func Day(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// returns the count valid for today; a counter from another day reads as zero
func (r Record) EffectiveCount(today string) int {
	if r.LastGenerationDate != today {
		return 0
	}

	if r.DailyGenerationCount < 0 {
		return 0
	}

	return r.DailyGenerationCount
}

// returns the record after one more generation on today
func (r Record) Incremented(today string) Record {
	next := r
	next.DailyGenerationCount = r.EffectiveCount(today) + 1
	next.LastGenerationDate = today
	next.TotalGenerations = r.TotalGenerations + 1
	next.XP = r.XP + XPPerGeneration

	return next
}
