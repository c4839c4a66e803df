package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// ArchiveAndResetPeriod archives all live evaluation rows for a period under
// a fresh archive id, then clears them. Archiving runs in a single
// transaction and must succeed before anything is cleared (fail-closed).
// Each clearing step is idempotent, so a partially failed reset can simply be
// retried.
func ArchiveAndResetPeriod(db *sql.DB, periodID string) (string, error) {
	archiveID := uuid.New().String()

	if err := archivePeriodRows(db, archiveID, periodID); err != nil {
		return "", err
	}

	if err := clearPeriodRows(db, periodID); err != nil {
		return archiveID, err
	}

	log.Printf("Period %s reset, archived under %s", periodID, archiveID)
	return archiveID, nil
}

func archivePeriodRows(db *sql.DB, archiveID, periodID string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin archive transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO archived_sessions
			(archive_id, session_id, period_id, evaluator_id, candidate_id, status, comments, total_score, completed_at)
		SELECT $1, id, period_id, evaluator_id, candidate_id, status, comments, total_score, completed_at
		FROM evaluation_sessions WHERE period_id = $2
	`, archiveID, periodID)
	if err != nil {
		return fmt.Errorf("failed to archive sessions: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO archived_scores (archive_id, session_id, item_id, value)
		SELECT $1, s.session_id, s.item_id, s.value
		FROM scores s
		JOIN evaluation_sessions es ON s.session_id = es.id
		WHERE es.period_id = $2
	`, archiveID, periodID)
	if err != nil {
		return fmt.Errorf("failed to archive scores: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO archived_bonus_scores (archive_id, period_id, candidate_id, value)
		SELECT $1, period_id, candidate_id, value
		FROM bonus_scores WHERE period_id = $2
	`, archiveID, periodID)
	if err != nil {
		return fmt.Errorf("failed to archive bonus scores: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit archive transaction: %w", err)
	}
	return nil
}

// clearPeriodRows deletes live rows for the period. Scores go first so a
// retry after partial failure never orphans them; every statement is a no-op
// when its rows are already gone.
func clearPeriodRows(db *sql.DB, periodID string) error {
	_, err := db.Exec(`
		DELETE FROM scores WHERE session_id IN (
			SELECT id FROM evaluation_sessions WHERE period_id = $1
		)
	`, periodID)
	if err != nil {
		return fmt.Errorf("failed to clear scores: %w", err)
	}

	if _, err := db.Exec(`DELETE FROM evaluation_sessions WHERE period_id = $1`, periodID); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}

	if _, err := db.Exec(`DELETE FROM bonus_scores WHERE period_id = $1`, periodID); err != nil {
		return fmt.Errorf("failed to clear bonus scores: %w", err)
	}
	return nil
}
