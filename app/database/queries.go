package database

import (
	"database/sql"
	"fmt"

	"github.com/hongik423/chief-eval-system-sub000/app/models"
)

func GetEvaluatorByName(db *sql.DB, name string) (*models.Evaluator, error) {
	evaluator := &models.Evaluator{}
	query := `SELECT id, name, role, team, password, is_admin, is_active, created_at, updated_at
			  FROM evaluators WHERE name = $1 AND is_active = true`

	err := db.QueryRow(query, name).Scan(
		&evaluator.ID, &evaluator.Name, &evaluator.Role, &evaluator.Team,
		&evaluator.Password, &evaluator.IsAdmin, &evaluator.IsActive,
		&evaluator.CreatedAt, &evaluator.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}
	return evaluator, nil
}

func GetEvaluatorByID(db *sql.DB, evaluatorID string) (*models.Evaluator, error) {
	evaluator := &models.Evaluator{}
	query := `SELECT id, name, role, team, password, is_admin, is_active, created_at, updated_at
			  FROM evaluators WHERE id = $1 AND is_active = true`

	err := db.QueryRow(query, evaluatorID).Scan(
		&evaluator.ID, &evaluator.Name, &evaluator.Role, &evaluator.Team,
		&evaluator.Password, &evaluator.IsAdmin, &evaluator.IsActive,
		&evaluator.CreatedAt, &evaluator.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}
	return evaluator, nil
}

func CreateEvaluator(db *sql.DB, e *models.Evaluator) error {
	query := `
		INSERT INTO evaluators (name, role, team, password, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := db.QueryRow(query, e.Name, e.Role, e.Team, e.Password, e.IsAdmin).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create evaluator: %w", err)
	}
	return nil
}

func UpdateEvaluatorPassword(db *sql.DB, evaluatorID, hashedPassword string) error {
	query := `UPDATE evaluators SET password = $1, updated_at = NOW() WHERE id = $2`
	_, err := db.Exec(query, hashedPassword, evaluatorID)
	return err
}

// GetEvaluatorsByPeriod fetches every evaluator assigned to a period.
func GetEvaluatorsByPeriod(db *sql.DB, periodID string) ([]*models.Evaluator, error) {
	query := `
		SELECT e.id, e.name, e.role, e.team, e.is_admin, e.is_active, e.created_at, e.updated_at
		FROM evaluators e
		JOIN period_evaluators pe ON e.id = pe.evaluator_id
		WHERE pe.period_id = $1 AND e.is_active = true
		ORDER BY e.role, e.name
	`

	rows, err := db.Query(query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch evaluators: %w", err)
	}
	defer rows.Close()

	var evaluators []*models.Evaluator
	for rows.Next() {
		var e models.Evaluator
		err := rows.Scan(&e.ID, &e.Name, &e.Role, &e.Team, &e.IsAdmin,
			&e.IsActive, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evaluator: %w", err)
		}
		evaluators = append(evaluators, &e)
	}
	return evaluators, nil
}

func GetCandidateByID(db *sql.DB, candidateID string) (*models.Candidate, error) {
	candidate := &models.Candidate{}
	var email, phone sql.NullString

	query := `SELECT id, name, team, email, phone, status, created_at, updated_at
			  FROM candidates WHERE id = $1`

	err := db.QueryRow(query, candidateID).Scan(
		&candidate.ID, &candidate.Name, &candidate.Team, &email, &phone,
		&candidate.Status, &candidate.CreatedAt, &candidate.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if email.Valid {
		candidate.Email = &email.String
	}
	if phone.Valid {
		candidate.Phone = &phone.String
	}
	return candidate, nil
}

func CreateCandidate(db *sql.DB, c *models.Candidate) error {
	query := `
		INSERT INTO candidates (name, team, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, status, created_at, updated_at
	`

	err := db.QueryRow(query, c.Name, c.Team, c.Email, c.Phone).
		Scan(&c.ID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

// UpdateCandidateStatus persists the final admin pass/fail decision. The
// computed average is only a suggestion; this explicit status is what counts.
func UpdateCandidateStatus(db *sql.DB, candidateID string, status models.CandidateStatus) error {
	query := `UPDATE candidates SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := db.Exec(query, status, candidateID)
	if err != nil {
		return fmt.Errorf("failed to update candidate status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("candidate not found")
	}
	return nil
}

// GetCandidatesByPeriod fetches every candidate assigned to a period.
func GetCandidatesByPeriod(db *sql.DB, periodID string) ([]*models.Candidate, error) {
	query := `
		SELECT c.id, c.name, c.team, c.email, c.phone, c.status, c.created_at, c.updated_at
		FROM candidates c
		JOIN period_candidates pc ON c.id = pc.candidate_id
		WHERE pc.period_id = $1
		ORDER BY c.name
	`

	rows, err := db.Query(query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*models.Candidate
	for rows.Next() {
		var c models.Candidate
		var email, phone sql.NullString

		err := rows.Scan(&c.ID, &c.Name, &c.Team, &email, &phone,
			&c.Status, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}

		if email.Valid {
			c.Email = &email.String
		}
		if phone.Valid {
			c.Phone = &phone.String
		}
		candidates = append(candidates, &c)
	}
	return candidates, nil
}

// GetActivePeriod returns the single active period, or nil if none is active.
func GetActivePeriod(db *sql.DB) (*models.Period, error) {
	period := &models.Period{}
	query := `SELECT id, name, pass_score, max_score, status, created_at, updated_at
			  FROM periods WHERE status = 'active'`

	err := db.QueryRow(query).Scan(
		&period.ID, &period.Name, &period.PassScore, &period.MaxScore,
		&period.Status, &period.CreatedAt, &period.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active period: %w", err)
	}
	return period, nil
}

func GetPeriodByID(db *sql.DB, periodID string) (*models.Period, error) {
	period := &models.Period{}
	query := `SELECT id, name, pass_score, max_score, status, created_at, updated_at
			  FROM periods WHERE id = $1`

	err := db.QueryRow(query, periodID).Scan(
		&period.ID, &period.Name, &period.PassScore, &period.MaxScore,
		&period.Status, &period.CreatedAt, &period.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return period, nil
}

func GetAllPeriods(db *sql.DB) ([]*models.Period, error) {
	query := `SELECT id, name, pass_score, max_score, status, created_at, updated_at
			  FROM periods ORDER BY created_at DESC`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch periods: %w", err)
	}
	defer rows.Close()

	var periods []*models.Period
	for rows.Next() {
		var p models.Period
		err := rows.Scan(&p.ID, &p.Name, &p.PassScore, &p.MaxScore,
			&p.Status, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, &p)
	}
	return periods, nil
}

func CreatePeriod(db *sql.DB, p *models.Period) error {
	query := `
		INSERT INTO periods (name, pass_score, max_score)
		VALUES ($1, $2, $3)
		RETURNING id, status, created_at, updated_at
	`

	err := db.QueryRow(query, p.Name, p.PassScore, p.MaxScore).
		Scan(&p.ID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create period: %w", err)
	}
	return nil
}

// ActivatePeriod makes the given period the single active one, demoting any
// currently active period back to draft in the same transaction.
func ActivatePeriod(db *sql.DB, periodID string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE periods SET status = 'draft', updated_at = NOW() WHERE status = 'active'`); err != nil {
		return fmt.Errorf("failed to demote active period: %w", err)
	}

	result, err := tx.Exec(`UPDATE periods SET status = 'active', updated_at = NOW() WHERE id = $1`, periodID)
	if err != nil {
		return fmt.Errorf("failed to activate period: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("period not found")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func AssignEvaluatorToPeriod(db *sql.DB, periodID, evaluatorID string) error {
	query := `INSERT INTO period_evaluators (period_id, evaluator_id) VALUES ($1, $2)
			  ON CONFLICT DO NOTHING`
	_, err := db.Exec(query, periodID, evaluatorID)
	if err != nil {
		return fmt.Errorf("failed to assign evaluator: %w", err)
	}
	return nil
}

func AssignCandidateToPeriod(db *sql.DB, periodID, candidateID string) error {
	query := `INSERT INTO period_candidates (period_id, candidate_id) VALUES ($1, $2)
			  ON CONFLICT DO NOTHING`
	_, err := db.Exec(query, periodID, candidateID)
	if err != nil {
		return fmt.Errorf("failed to assign candidate: %w", err)
	}
	return nil
}

// IsEvaluatorAssigned reports whether the evaluator belongs to the period.
func IsEvaluatorAssigned(db *sql.DB, periodID, evaluatorID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
		SELECT 1 FROM period_evaluators WHERE period_id = $1 AND evaluator_id = $2
	)`

	if err := db.QueryRow(query, periodID, evaluatorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check evaluator assignment: %w", err)
	}
	return exists, nil
}

func IsCandidateAssigned(db *sql.DB, periodID, candidateID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
		SELECT 1 FROM period_candidates WHERE period_id = $1 AND candidate_id = $2
	)`

	if err := db.QueryRow(query, periodID, candidateID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check candidate assignment: %w", err)
	}
	return exists, nil
}

// GetBonusScore returns the bonus for a candidate in a period, defaulting to
// 0 when no row exists.
func GetBonusScore(db *sql.DB, periodID, candidateID string) (int, error) {
	var value int
	query := `SELECT value FROM bonus_scores WHERE period_id = $1 AND candidate_id = $2`

	err := db.QueryRow(query, periodID, candidateID).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to fetch bonus score: %w", err)
	}
	return value, nil
}

// SetBonusScore upserts the admin-set bonus for a candidate in a period.
func SetBonusScore(db *sql.DB, periodID, candidateID string, value int) error {
	query := `
		INSERT INTO bonus_scores (period_id, candidate_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (period_id, candidate_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := db.Exec(query, periodID, candidateID, value); err != nil {
		return fmt.Errorf("failed to set bonus score: %w", err)
	}
	return nil
}
