package database

import (
	"database/sql"
	"fmt"
	"log"
)

// RunMigrations creates the schema if it does not exist. Every statement is
// idempotent so the application can run this on every startup.
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	statements := []string{
		`CREATE TABLE IF NOT EXISTS evaluators (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL DEFAULT 'member',
			team TEXT NOT NULL,
			password TEXT NOT NULL DEFAULT '',
			is_admin BOOLEAN NOT NULL DEFAULT false,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			team TEXT NOT NULL,
			email TEXT,
			phone TEXT,
			status TEXT NOT NULL DEFAULT 'registered',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS periods (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			pass_score NUMERIC NOT NULL DEFAULT 70,
			max_score NUMERIC NOT NULL DEFAULT 110,
			status TEXT NOT NULL DEFAULT 'draft',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS periods_one_active
			ON periods (status) WHERE status = 'active'`,
		`CREATE TABLE IF NOT EXISTS period_evaluators (
			period_id UUID NOT NULL REFERENCES periods(id),
			evaluator_id UUID NOT NULL REFERENCES evaluators(id),
			PRIMARY KEY (period_id, evaluator_id)
		)`,
		`CREATE TABLE IF NOT EXISTS period_candidates (
			period_id UUID NOT NULL REFERENCES periods(id),
			candidate_id UUID NOT NULL REFERENCES candidates(id),
			PRIMARY KEY (period_id, candidate_id)
		)`,
		`CREATE TABLE IF NOT EXISTS evaluation_sessions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			period_id UUID NOT NULL REFERENCES periods(id),
			evaluator_id UUID NOT NULL REFERENCES evaluators(id),
			candidate_id UUID NOT NULL REFERENCES candidates(id),
			status TEXT NOT NULL DEFAULT 'in_progress',
			comments JSONB NOT NULL DEFAULT '{}',
			total_score NUMERIC,
			completed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (period_id, evaluator_id, candidate_id)
		)`,
		`CREATE TABLE IF NOT EXISTS scores (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			session_id UUID NOT NULL REFERENCES evaluation_sessions(id) ON DELETE CASCADE,
			item_id TEXT NOT NULL,
			value NUMERIC,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (session_id, item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS bonus_scores (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			period_id UUID NOT NULL REFERENCES periods(id),
			candidate_id UUID NOT NULL REFERENCES candidates(id),
			value INTEGER NOT NULL DEFAULT 0 CHECK (value >= 0 AND value <= 10),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (period_id, candidate_id)
		)`,
		`CREATE TABLE IF NOT EXISTS votes (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			evaluator_id UUID NOT NULL REFERENCES evaluators(id),
			category TEXT NOT NULL,
			question_ids INTEGER[] NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (evaluator_id, category)
		)`,
		`CREATE TABLE IF NOT EXISTS voting_config (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			closed BOOLEAN NOT NULL DEFAULT false,
			final_questions JSONB NOT NULL DEFAULT '{}',
			closed_at TIMESTAMPTZ,
			scheduled_close_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`INSERT INTO voting_config (id) VALUES (1) ON CONFLICT (id) DO NOTHING`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			table_name TEXT NOT NULL,
			action TEXT NOT NULL,
			old_data JSONB,
			new_data JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS archived_sessions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			archive_id UUID NOT NULL,
			session_id UUID NOT NULL,
			period_id UUID NOT NULL,
			evaluator_id UUID NOT NULL,
			candidate_id UUID NOT NULL,
			status TEXT NOT NULL,
			comments JSONB NOT NULL DEFAULT '{}',
			total_score NUMERIC,
			completed_at TIMESTAMPTZ,
			archived_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS archived_scores (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			archive_id UUID NOT NULL,
			session_id UUID NOT NULL,
			item_id TEXT NOT NULL,
			value NUMERIC,
			archived_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS archived_bonus_scores (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			archive_id UUID NOT NULL,
			period_id UUID NOT NULL,
			candidate_id UUID NOT NULL,
			value INTEGER NOT NULL,
			archived_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
