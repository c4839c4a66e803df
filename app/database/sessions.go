package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hongik423/chief-eval-system-sub000/app/models"
)

var (
	// ErrSessionNotFound is returned when completing a session that was
	// never started.
	ErrSessionNotFound = errors.New("evaluation session not found")
	// ErrAlreadyCompleted is returned for a duplicate complete action.
	ErrAlreadyCompleted = errors.New("evaluation session already completed")
	// ErrIncompleteScores is returned when completion is attempted before
	// every rubric item has a score.
	ErrIncompleteScores = errors.New("all rubric items must be scored before completion")
)

func scanComments(raw []byte) (map[string]string, error) {
	comments := make(map[string]string)
	if len(raw) == 0 {
		return comments, nil
	}
	if err := json.Unmarshal(raw, &comments); err != nil {
		return nil, fmt.Errorf("failed to parse session comments: %w", err)
	}
	return comments, nil
}

// GetSession fetches one evaluator's session for a candidate, with its
// scores. Returns nil when no session exists yet (the session is created
// lazily on the first score write).
func GetSession(db *sql.DB, periodID, evaluatorID, candidateID string) (*models.EvaluationSession, error) {
	session := &models.EvaluationSession{
		Scores:   make(map[string]*float64),
		Comments: make(map[string]string),
	}
	var rawComments []byte
	var totalScore sql.NullFloat64
	var completedAt sql.NullTime

	query := `
		SELECT id, period_id, evaluator_id, candidate_id, status, comments,
			total_score, completed_at, created_at, updated_at
		FROM evaluation_sessions
		WHERE period_id = $1 AND evaluator_id = $2 AND candidate_id = $3
	`

	err := db.QueryRow(query, periodID, evaluatorID, candidateID).Scan(
		&session.ID, &session.PeriodID, &session.EvaluatorID, &session.CandidateID,
		&session.Status, &rawComments, &totalScore, &completedAt,
		&session.CreatedAt, &session.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	if session.Comments, err = scanComments(rawComments); err != nil {
		return nil, err
	}
	if totalScore.Valid {
		session.TotalScore = &totalScore.Float64
	}
	if completedAt.Valid {
		session.CompletedAt = &completedAt.Time
	}

	if err := loadSessionScores(db, session); err != nil {
		return nil, err
	}
	return session, nil
}

func loadSessionScores(db *sql.DB, session *models.EvaluationSession) error {
	rows, err := db.Query(`SELECT item_id, value FROM scores WHERE session_id = $1`, session.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID string
		var value sql.NullFloat64
		if err := rows.Scan(&itemID, &value); err != nil {
			return fmt.Errorf("failed to scan score: %w", err)
		}
		if value.Valid {
			v := value.Float64
			session.Scores[itemID] = &v
		} else {
			session.Scores[itemID] = nil
		}
	}
	return nil
}

// GetSessionsForCandidate fetches every evaluator's session for a candidate
// in the period, scores included.
func GetSessionsForCandidate(db *sql.DB, periodID, candidateID string) ([]*models.EvaluationSession, error) {
	query := `
		SELECT es.id, es.period_id, es.evaluator_id, es.candidate_id, es.status,
			es.comments, es.total_score, es.completed_at, es.created_at, es.updated_at,
			s.item_id, s.value
		FROM evaluation_sessions es
		LEFT JOIN scores s ON s.session_id = es.id
		WHERE es.period_id = $1 AND es.candidate_id = $2
		ORDER BY es.created_at, s.item_id
	`

	rows, err := db.Query(query, periodID, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*models.EvaluationSession)
	var sessions []*models.EvaluationSession

	for rows.Next() {
		var (
			id, pid, eid, cid string
			status            models.SessionStatus
			rawComments       []byte
			totalScore        sql.NullFloat64
			completedAt       sql.NullTime
			createdAt, updatedAt sql.NullTime
			itemID            sql.NullString
			value             sql.NullFloat64
		)

		err := rows.Scan(&id, &pid, &eid, &cid, &status, &rawComments,
			&totalScore, &completedAt, &createdAt, &updatedAt, &itemID, &value)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		session, ok := byID[id]
		if !ok {
			session = &models.EvaluationSession{
				ID:          id,
				PeriodID:    pid,
				EvaluatorID: eid,
				CandidateID: cid,
				Status:      status,
				Scores:      make(map[string]*float64),
			}
			if session.Comments, err = scanComments(rawComments); err != nil {
				return nil, err
			}
			if totalScore.Valid {
				session.TotalScore = &totalScore.Float64
			}
			if completedAt.Valid {
				session.CompletedAt = &completedAt.Time
			}
			if createdAt.Valid {
				session.CreatedAt = createdAt.Time
			}
			if updatedAt.Valid {
				session.UpdatedAt = updatedAt.Time
			}
			byID[id] = session
			sessions = append(sessions, session)
		}

		if itemID.Valid {
			if value.Valid {
				v := value.Float64
				session.Scores[itemID.String] = &v
			} else {
				session.Scores[itemID.String] = nil
			}
		}
	}

	return sessions, nil
}

// WriteScore upserts a single item score, lazily creating the session on the
// first write. Both writes happen in one transaction so a store failure
// leaves no half-applied state behind. A completed session stays completed;
// the score is still updated in place.
func WriteScore(db *sql.DB, periodID, evaluatorID, candidateID, itemID string, value float64) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var sessionID string
	err = tx.QueryRow(`
		INSERT INTO evaluation_sessions (period_id, evaluator_id, candidate_id, status)
		VALUES ($1, $2, $3, 'in_progress')
		ON CONFLICT (period_id, evaluator_id, candidate_id)
		DO UPDATE SET updated_at = NOW()
		RETURNING id
	`, periodID, evaluatorID, candidateID).Scan(&sessionID)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO scores (session_id, item_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id, item_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, sessionID, itemID, value)
	if err != nil {
		return fmt.Errorf("failed to upsert score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// completionOutcome decides whether a session may transition to completed
// and computes the total to snapshot. A completed session never completes
// again, and every rubric item must carry a non-nil score. Only rubric items
// contribute to the total; stray score rows are ignored.
func completionOutcome(status models.SessionStatus, scores map[string]*float64, itemIDs []string) (float64, error) {
	if status == models.SessionCompleted {
		return 0, ErrAlreadyCompleted
	}

	var total float64
	for _, itemID := range itemIDs {
		v, ok := scores[itemID]
		if !ok || v == nil {
			return 0, ErrIncompleteScores
		}
		total += *v
	}
	return total, nil
}

// CompleteSession transitions a session to completed, snapshotting the total
// of its item scores and storing the per-section comment map. Completion is
// rejected unless every rubric item carries a score.
func CompleteSession(db *sql.DB, periodID, evaluatorID, candidateID string,
	comments map[string]string, itemIDs []string) (*models.EvaluationSession, error) {

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var sessionID string
	var status models.SessionStatus
	err = tx.QueryRow(`
		SELECT id, status FROM evaluation_sessions
		WHERE period_id = $1 AND evaluator_id = $2 AND candidate_id = $3
		FOR UPDATE
	`, periodID, evaluatorID, candidateID).Scan(&sessionID, &status)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	scores := make(map[string]*float64)
	rows, err := tx.Query(`SELECT item_id, value FROM scores WHERE session_id = $1`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scores: %w", err)
	}
	for rows.Next() {
		var itemID string
		var value sql.NullFloat64
		if err := rows.Scan(&itemID, &value); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		if value.Valid {
			v := value.Float64
			scores[itemID] = &v
		} else {
			scores[itemID] = nil
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read scores: %w", err)
	}
	rows.Close()

	total, err := completionOutcome(status, scores, itemIDs)
	if err != nil {
		return nil, err
	}

	commentsJSON, err := json.Marshal(comments)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal comments: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE evaluation_sessions
		SET status = 'completed', total_score = $1, comments = $2,
			completed_at = NOW(), updated_at = NOW()
		WHERE id = $3
	`, total, commentsJSON, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return GetSession(db, periodID, evaluatorID, candidateID)
}
