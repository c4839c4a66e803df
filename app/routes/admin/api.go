package admin

import (
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/hongik423/chief-eval-system-sub000/app/database"
	"github.com/hongik423/chief-eval-system-sub000/app/models"
	"github.com/hongik423/chief-eval-system-sub000/app/routes/auth"
)

var validate = validator.New()

func GetPeriods(c *fiber.Ctx, db *sql.DB) error {
	periods, err := database.GetAllPeriods(db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch periods"})
	}
	return c.JSON(fiber.Map{"success": true, "periods": periods})
}

type createPeriodRequest struct {
	Name      string   `json:"name" validate:"required"`
	PassScore *float64 `json:"pass_score" validate:"omitempty,gte=0"`
	MaxScore  *float64 `json:"max_score" validate:"omitempty,gt=0"`
}

func CreatePeriodAPI(c *fiber.Ctx, db *sql.DB) error {
	var req createPeriodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "name is required"})
	}

	period := &models.Period{
		Name:      req.Name,
		PassScore: models.DefaultPassScore,
		MaxScore:  models.DefaultMaxScore,
	}
	if req.PassScore != nil {
		period.PassScore = *req.PassScore
	}
	if req.MaxScore != nil {
		period.MaxScore = *req.MaxScore
	}

	if err := database.CreatePeriod(db, period); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create period"})
	}

	database.WriteAudit(db, "periods", "create", nil, period)
	return c.Status(201).JSON(fiber.Map{"success": true, "period": period})
}

func ActivatePeriodAPI(c *fiber.Ctx, db *sql.DB) error {
	periodID := c.Params("id")

	if err := database.ActivatePeriod(db, periodID); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to activate period"})
	}

	database.WriteAudit(db, "periods", "activate", nil, fiber.Map{"period_id": periodID})
	return c.JSON(fiber.Map{"success": true})
}

// ResetPeriodAPI archives every session, score and bonus of the period and
// then clears them. Archiving must succeed before anything is deleted; a
// failed clear phase can be retried safely.
func ResetPeriodAPI(c *fiber.Ctx, db *sql.DB) error {
	periodID := c.Params("id")

	if _, err := database.GetPeriodByID(db, periodID); err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Period not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch period"})
	}

	archiveID, err := database.ArchiveAndResetPeriod(db, periodID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to reset period, please retry"})
	}

	database.WriteAudit(db, "periods", "reset", nil,
		fiber.Map{"period_id": periodID, "archive_id": archiveID})
	return c.JSON(fiber.Map{"success": true, "archive_id": archiveID})
}

type bonusRequest struct {
	Value int `json:"value" validate:"gte=0,lte=10"`
}

// SetBonusAPI sets the candidate's 0-10 bonus for the active period.
func SetBonusAPI(c *fiber.Ctx, db *sql.DB) error {
	candidateID := c.Params("candidateID")

	var req bonusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "value must be between 0 and 10"})
	}

	period, err := database.GetActivePeriod(db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch active period"})
	}
	if period == nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "No active period"})
	}

	before, err := database.GetBonusScore(db, period.ID, candidateID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch bonus score"})
	}

	if err := database.SetBonusScore(db, period.ID, candidateID, req.Value); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to set bonus score"})
	}

	database.WriteAudit(db, "bonus_scores", "set",
		fiber.Map{"candidate_id": candidateID, "value": before},
		fiber.Map{"candidate_id": candidateID, "value": req.Value})
	return c.JSON(fiber.Map{"success": true})
}

type createEvaluatorRequest struct {
	Name     string `json:"name" validate:"required"`
	Team     string `json:"team" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=chair member"`
	Password string `json:"password" validate:"required,min=8"`
	IsAdmin  bool   `json:"is_admin"`
}

func CreateEvaluatorAPI(c *fiber.Ctx, db *sql.DB) error {
	var req createEvaluatorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "name, team, role and a password of at least 8 characters are required"})
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to hash password"})
	}

	evaluator := &models.Evaluator{
		Name:     req.Name,
		Team:     req.Team,
		Role:     models.EvaluatorRole(req.Role),
		Password: hashed,
		IsAdmin:  req.IsAdmin,
	}

	if err := database.CreateEvaluator(db, evaluator); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create evaluator"})
	}

	database.WriteAudit(db, "evaluators", "create", nil,
		fiber.Map{"id": evaluator.ID, "name": evaluator.Name, "team": evaluator.Team, "role": evaluator.Role})
	return c.Status(201).JSON(fiber.Map{"success": true, "evaluator": evaluator})
}

type createCandidateRequest struct {
	Name  string  `json:"name" validate:"required"`
	Team  string  `json:"team" validate:"required"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone"`
}

func CreateCandidateAPI(c *fiber.Ctx, db *sql.DB) error {
	var req createCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "name and team are required"})
	}

	candidate := &models.Candidate{
		Name:  req.Name,
		Team:  req.Team,
		Email: req.Email,
		Phone: req.Phone,
	}

	if err := database.CreateCandidate(db, candidate); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create candidate"})
	}

	database.WriteAudit(db, "candidates", "create", nil, candidate)
	return c.Status(201).JSON(fiber.Map{"success": true, "candidate": candidate})
}

type assignRequest struct {
	EvaluatorID string `json:"evaluator_id" validate:"omitempty,uuid"`
	CandidateID string `json:"candidate_id" validate:"omitempty,uuid"`
}

// AssignToPeriodAPI assigns an evaluator or a candidate to a period.
func AssignToPeriodAPI(c *fiber.Ctx, db *sql.DB) error {
	periodID := c.Params("id")

	var req assignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil || (req.EvaluatorID == "" && req.CandidateID == "") {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "evaluator_id or candidate_id is required"})
	}

	if req.EvaluatorID != "" {
		if err := database.AssignEvaluatorToPeriod(db, periodID, req.EvaluatorID); err != nil {
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to assign evaluator"})
		}
	}
	if req.CandidateID != "" {
		if err := database.AssignCandidateToPeriod(db, periodID, req.CandidateID); err != nil {
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to assign candidate"})
		}
	}

	database.WriteAudit(db, "periods", "assign", nil,
		fiber.Map{"period_id": periodID, "evaluator_id": req.EvaluatorID, "candidate_id": req.CandidateID})
	return c.JSON(fiber.Map{"success": true})
}

// GetPeriodRoster returns the evaluators and candidates assigned to a period.
func GetPeriodRoster(c *fiber.Ctx, db *sql.DB) error {
	periodID := c.Params("id")

	period, err := database.GetPeriodByID(db, periodID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Period not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch period"})
	}

	if period.Evaluators, err = database.GetEvaluatorsByPeriod(db, periodID); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch evaluators"})
	}
	if period.Candidates, err = database.GetCandidatesByPeriod(db, periodID); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch candidates"})
	}

	return c.JSON(fiber.Map{"success": true, "period": period})
}
