package voting

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/hongik423/chief-eval-system-sub000/app/models"
)

// ErrVotingClosed is returned for vote submissions and duplicate close
// actions after voting has been closed.
var ErrVotingClosed = errors.New("voting is closed")

// GetAllVotes fetches every evaluator's current vote across all categories.
func GetAllVotes(db *sql.DB) ([]*models.Vote, error) {
	query := `SELECT id, evaluator_id, category, question_ids, created_at, updated_at
			  FROM votes ORDER BY category, updated_at`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch votes: %w", err)
	}
	defer rows.Close()

	var votes []*models.Vote
	for rows.Next() {
		var v models.Vote
		var ids pq.Int64Array

		err := rows.Scan(&v.ID, &v.EvaluatorID, &v.Category, &ids, &v.CreatedAt, &v.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}

		v.QuestionIDs = make([]int, len(ids))
		for i, id := range ids {
			v.QuestionIDs[i] = int(id)
		}
		votes = append(votes, &v)
	}
	return votes, nil
}

// UpsertVote stores an evaluator's selection for a category, overwriting any
// prior vote (idempotent upsert, never append).
func UpsertVote(db *sql.DB, evaluatorID, category string, questionIDs []int) error {
	ids := make(pq.Int64Array, len(questionIDs))
	for i, id := range questionIDs {
		ids[i] = int64(id)
	}

	query := `
		INSERT INTO votes (evaluator_id, category, question_ids)
		VALUES ($1, $2, $3)
		ON CONFLICT (evaluator_id, category)
		DO UPDATE SET question_ids = EXCLUDED.question_ids, updated_at = NOW()
	`

	if _, err := db.Exec(query, evaluatorID, category, ids); err != nil {
		return fmt.Errorf("failed to upsert vote: %w", err)
	}
	return nil
}

// ClearVotes removes every vote (admin reset). Idempotent.
func ClearVotes(db *sql.DB) error {
	if _, err := db.Exec(`DELETE FROM votes`); err != nil {
		return fmt.Errorf("failed to clear votes: %w", err)
	}
	return nil
}

// GetVotingConfig reads the singleton voting configuration row.
func GetVotingConfig(db *sql.DB) (*models.VotingConfig, error) {
	cfg := &models.VotingConfig{FinalQuestions: make(map[string][]int)}
	var rawFinal []byte
	var closedAt, scheduledCloseAt sql.NullTime

	query := `SELECT closed, final_questions, closed_at, scheduled_close_at, updated_at
			  FROM voting_config WHERE id = 1`

	err := db.QueryRow(query).Scan(&cfg.Closed, &rawFinal, &closedAt, &scheduledCloseAt, &cfg.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch voting config: %w", err)
	}

	if len(rawFinal) > 0 {
		if err := json.Unmarshal(rawFinal, &cfg.FinalQuestions); err != nil {
			return nil, fmt.Errorf("failed to parse final questions: %w", err)
		}
	}
	if closedAt.Valid {
		cfg.ClosedAt = &closedAt.Time
	}
	if scheduledCloseAt.Valid {
		cfg.ScheduledCloseAt = &scheduledCloseAt.Time
	}
	return cfg, nil
}

// CloseVoting closes voting and freezes the given selection snapshot as the
// final questions. A second close is rejected so a manual close racing the
// scheduled one cannot overwrite an admin edit.
func CloseVoting(db *sql.DB, finalQuestions map[string][]int) error {
	finalJSON, err := json.Marshal(finalQuestions)
	if err != nil {
		return fmt.Errorf("failed to marshal final questions: %w", err)
	}

	result, err := db.Exec(`
		UPDATE voting_config
		SET closed = true, final_questions = $1, closed_at = NOW(), updated_at = NOW()
		WHERE id = 1 AND closed = false
	`, finalJSON)
	if err != nil {
		return fmt.Errorf("failed to close voting: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrVotingClosed
	}
	return nil
}

// SetFinalQuestions replaces the stored selection with an admin override.
func SetFinalQuestions(db *sql.DB, finalQuestions map[string][]int) error {
	finalJSON, err := json.Marshal(finalQuestions)
	if err != nil {
		return fmt.Errorf("failed to marshal final questions: %w", err)
	}

	_, err = db.Exec(`
		UPDATE voting_config SET final_questions = $1, updated_at = NOW() WHERE id = 1
	`, finalJSON)
	if err != nil {
		return fmt.Errorf("failed to set final questions: %w", err)
	}
	return nil
}

// ReopenVoting clears the closed flag and the override, returning the
// results view to live tally mode.
func ReopenVoting(db *sql.DB) error {
	_, err := db.Exec(`
		UPDATE voting_config
		SET closed = false, final_questions = '{}', closed_at = NULL, updated_at = NOW()
		WHERE id = 1
	`)
	if err != nil {
		return fmt.Errorf("failed to reopen voting: %w", err)
	}
	return nil
}

// SetScheduledClose stores (or clears, when nil) the automatic close time.
func SetScheduledClose(db *sql.DB, closeAt *time.Time) error {
	_, err := db.Exec(`
		UPDATE voting_config SET scheduled_close_at = $1, updated_at = NOW() WHERE id = 1
	`, closeAt)
	if err != nil {
		return fmt.Errorf("failed to set scheduled close: %w", err)
	}
	return nil
}
