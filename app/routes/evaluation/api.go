package evaluation

import (
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/hongik423/chief-eval-system-sub000/app/database"
	"github.com/hongik423/chief-eval-system-sub000/app/models"
	"github.com/hongik423/chief-eval-system-sub000/app/rubric"
	"github.com/hongik423/chief-eval-system-sub000/app/services"
)

var validate = validator.New()

// requireAssignment resolves the active period and verifies the evaluator
// belongs to it. When it returns false the failure response has already been
// written and the handler must return nil without touching period.
func requireAssignment(c *fiber.Ctx, db *sql.DB) (*models.Period, *models.Evaluator, bool) {
	evaluator := c.Locals("evaluator").(*models.Evaluator)

	period, err := database.GetActivePeriod(db)
	if err != nil {
		c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch active period"})
		return nil, nil, false
	}
	if period == nil {
		c.Status(404).JSON(fiber.Map{"success": false, "error": "No active period"})
		return nil, nil, false
	}

	assigned, err := database.IsEvaluatorAssigned(db, period.ID, evaluator.ID)
	if err != nil {
		c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to check assignment"})
		return nil, nil, false
	}
	if !assigned {
		c.Status(403).JSON(fiber.Map{"success": false, "error": "Not assigned to the active period"})
		return nil, nil, false
	}

	return period, evaluator, true
}

// GetMyCandidates lists the candidates of the active period together with
// the status of the requesting evaluator's session for each.
func GetMyCandidates(c *fiber.Ctx, db *sql.DB) error {
	period, evaluator, ok := requireAssignment(c, db)
	if !ok {
		return nil
	}

	candidates, err := database.GetCandidatesByPeriod(db, period.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch candidates"})
	}

	type candidateEntry struct {
		Candidate *models.Candidate    `json:"candidate"`
		Status    models.SessionStatus `json:"status"`
	}

	entries := make([]candidateEntry, 0, len(candidates))
	for _, candidate := range candidates {
		session, err := database.GetSession(db, period.ID, evaluator.ID, candidate.ID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch session"})
		}

		status := models.SessionPending
		if session != nil {
			status = session.Status
		}
		entries = append(entries, candidateEntry{Candidate: candidate, Status: status})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"period":     period,
		"candidates": entries,
	})
}

// GetMySession returns the requesting evaluator's session for a candidate,
// or a pending skeleton when scoring has not started.
func GetMySession(c *fiber.Ctx, db *sql.DB) error {
	candidateID := c.Params("candidateID")

	period, evaluator, ok := requireAssignment(c, db)
	if !ok {
		return nil
	}

	session, err := database.GetSession(db, period.ID, evaluator.ID, candidateID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch session"})
	}

	if session == nil {
		session = &models.EvaluationSession{
			PeriodID:    period.ID,
			EvaluatorID: evaluator.ID,
			CandidateID: candidateID,
			Status:      models.SessionPending,
			Scores:      make(map[string]*float64),
			Comments:    make(map[string]string),
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"session": session,
	})
}

type scoreRequest struct {
	ItemID string  `json:"item_id" validate:"required"`
	Value  float64 `json:"value" validate:"gte=0"`
}

// WriteScoreAPI records a single item score. The first write lazily creates
// the session as in_progress; a completed session keeps its status but the
// stored value is still updated in place.
func WriteScoreAPI(c *fiber.Ctx, db *sql.DB, r *rubric.Rubric) error {
	candidateID := c.Params("candidateID")

	period, evaluator, ok := requireAssignment(c, db)
	if !ok {
		return nil
	}

	assigned, err := database.IsCandidateAssigned(db, period.ID, candidateID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to check candidate assignment"})
	}
	if !assigned {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Candidate is not part of the active period"})
	}

	var req scoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "item_id is required and value must not be negative"})
	}

	max, ok := r.ItemMax(req.ItemID)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Unknown rubric item"})
	}
	if req.Value > max {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Score exceeds the item maximum"})
	}

	if err := database.WriteScore(db, period.ID, evaluator.ID, candidateID, req.ItemID, req.Value); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to save score, please retry"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// CompleteSessionAPI finalizes the evaluator's session for a candidate:
// snapshots the score total, stores per-section comments and stamps the
// completion time. Rejected while any rubric item is unscored.
func CompleteSessionAPI(c *fiber.Ctx, db *sql.DB, r *rubric.Rubric) error {
	candidateID := c.Params("candidateID")

	period, evaluator, ok := requireAssignment(c, db)
	if !ok {
		return nil
	}

	var req struct {
		Comments map[string]string `json:"comments"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	// Keep comment keys in sync with the rubric: one entry per section,
	// defaulting to "", unknown keys dropped.
	comments := make(map[string]string, len(r.Sections))
	for _, section := range r.Sections {
		comments[section.ID] = req.Comments[section.ID]
	}

	itemIDs := make([]string, 0)
	for _, item := range r.Items() {
		itemIDs = append(itemIDs, item.ID)
	}

	session, err := database.CompleteSession(db, period.ID, evaluator.ID, candidateID, comments, itemIDs)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrSessionNotFound):
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "No scores entered yet"})
		case errors.Is(err, database.ErrAlreadyCompleted):
			return c.Status(409).JSON(fiber.Map{"success": false, "error": "Session already completed"})
		case errors.Is(err, database.ErrIncompleteScores):
			return c.Status(400).JSON(fiber.Map{"success": false, "error": "All rubric items must be scored before completion"})
		default:
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to complete session, please retry"})
		}
	}

	services.SessionsCompleted.Inc()
	database.WriteAudit(db, "evaluation_sessions", "complete", nil, session)

	return c.JSON(fiber.Map{
		"success": true,
		"session": session,
	})
}
