package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/voixlab/portier/internal/repository"
)

// database is the slice of pgxpool.Pool the store needs.
type database interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PostgresStore struct {
	db database
}

func NewPostgresStore(pool *pgxpool.Pool) repository.Store {
	return &PostgresStore{db: pool}
}

func (r *PostgresStore) RecordSession(ctx context.Context, input repository.RecordSessionInput) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin record session: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO users (user_id, username, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE
		 SET username = EXCLUDED.username, updated_at = EXCLUDED.updated_at`,
		input.UserID, input.Username, input.OccurredAt); err != nil {
		return fmt.Errorf("upsert user %s: %w", input.UserID, err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO voice_sessions (user_id, duration_seconds, timestamp)
		 VALUES ($1, $2, $3)`,
		input.UserID, input.DurationSeconds, input.OccurredAt); err != nil {
		return fmt.Errorf("insert session for %s: %w", input.UserID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit record session: %w", err)
	}
	return nil
}

func (r *PostgresStore) TopUsers(ctx context.Context, period repository.Period, limit int) ([]repository.UserStats, error) {
	var query string
	switch period {
	case repository.PeriodWeekly:
		query = `SELECT s.user_id, u.username, s.total_seconds, s.total_sessions
		 FROM user_weekly_stats s
		 JOIN users u ON u.user_id = s.user_id
		 WHERE s.year = EXTRACT(ISOYEAR FROM NOW())::INT
		   AND s.period_number = EXTRACT(WEEK FROM NOW())::INT
		 ORDER BY s.total_seconds DESC, s.user_id
		 LIMIT $1`
	case repository.PeriodMonthly:
		query = `SELECT s.user_id, u.username, s.total_seconds, s.total_sessions
		 FROM user_monthly_stats s
		 JOIN users u ON u.user_id = s.user_id
		 WHERE s.year = EXTRACT(YEAR FROM NOW())::INT
		   AND s.period_number = EXTRACT(MONTH FROM NOW())::INT
		 ORDER BY s.total_seconds DESC, s.user_id
		 LIMIT $1`
	default:
		return nil, fmt.Errorf("unknown stats period %q", period)
	}

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.UserStats
	for rows.Next() {
		var s repository.UserStats
		if err := rows.Scan(&s.UserID, &s.Username, &s.TotalSeconds, &s.TotalSessions); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
