package ledger

import (
	"time"

	"codeberg.org/vyra/server/vyra/generations"
	"codeberg.org/vyra/server/vyra/usage"
)

type CommitRequest struct {
	UserID string
	Today  string

	// daily limit for the tier resolved at precheck; a tier change between
	// precheck and commit takes effect on the next request
	Limit int

	Generation generations.Draft
}

type CommitResult struct {
	GenerationID string
	CreatedAt    time.Time
	Usage        usage.Record
}
