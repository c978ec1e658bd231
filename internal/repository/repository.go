package repository

import (
	"context"
	"time"
)

type RecordSessionInput struct {
	UserID          string
	Username        string
	DurationSeconds int64
	OccurredAt      time.Time
}

// Store is the durable side of session accounting. RecordSession must
// be atomic: the username upsert and the session append commit together
// or not at all.
type Store interface {
	RecordSession(ctx context.Context, input RecordSessionInput) error
	TopUsers(ctx context.Context, period Period, limit int) ([]UserStats, error)
}
