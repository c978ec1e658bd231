package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The weekly/monthly read models are maintained entirely inside the
// database: an AFTER INSERT trigger on voice_sessions folds every new
// session into both aggregates. The application only ever reads them.
var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS voice_sessions (
		id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(user_id),
		duration_seconds BIGINT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_voice_sessions_user ON voice_sessions (user_id, timestamp)`,
	`CREATE TABLE IF NOT EXISTS user_weekly_stats (
		user_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		period_number INTEGER NOT NULL,
		total_seconds BIGINT NOT NULL DEFAULT 0,
		total_sessions BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, year, period_number)
	)`,
	`CREATE TABLE IF NOT EXISTS user_monthly_stats (
		user_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		period_number INTEGER NOT NULL,
		total_seconds BIGINT NOT NULL DEFAULT 0,
		total_sessions BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, year, period_number)
	)`,
	`CREATE OR REPLACE FUNCTION apply_voice_session_to_stats() RETURNS TRIGGER AS $$
	BEGIN
		INSERT INTO user_weekly_stats (user_id, year, period_number, total_seconds, total_sessions)
		VALUES (NEW.user_id, EXTRACT(ISOYEAR FROM NEW.timestamp)::INT, EXTRACT(WEEK FROM NEW.timestamp)::INT, NEW.duration_seconds, 1)
		ON CONFLICT (user_id, year, period_number) DO UPDATE
		SET total_seconds = user_weekly_stats.total_seconds + EXCLUDED.total_seconds,
		    total_sessions = user_weekly_stats.total_sessions + 1;
		INSERT INTO user_monthly_stats (user_id, year, period_number, total_seconds, total_sessions)
		VALUES (NEW.user_id, EXTRACT(YEAR FROM NEW.timestamp)::INT, EXTRACT(MONTH FROM NEW.timestamp)::INT, NEW.duration_seconds, 1)
		ON CONFLICT (user_id, year, period_number) DO UPDATE
		SET total_seconds = user_monthly_stats.total_seconds + EXCLUDED.total_seconds,
		    total_sessions = user_monthly_stats.total_sessions + 1;
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS voice_sessions_apply_stats ON voice_sessions`,
	`CREATE TRIGGER voice_sessions_apply_stats
		AFTER INSERT ON voice_sessions
		FOR EACH ROW EXECUTE FUNCTION apply_voice_session_to_stats()`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
