package results

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/hongik423/chief-eval-system-sub000/app/config"
	"github.com/hongik423/chief-eval-system-sub000/app/database"
	"github.com/hongik423/chief-eval-system-sub000/app/models"
	"github.com/hongik423/chief-eval-system-sub000/app/rubric"
	"github.com/hongik423/chief-eval-system-sub000/app/services"
)

// GetAllResults returns the aggregated result of every candidate in the
// active period.
func GetAllResults(c *fiber.Ctx, db *sql.DB, r *rubric.Rubric) error {
	period, err := database.GetActivePeriod(db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch active period"})
	}
	if period == nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "No active period"})
	}

	candidates, err := database.GetCandidatesByPeriod(db, period.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch candidates"})
	}

	var computed []*CandidateResult
	for _, candidate := range candidates {
		inputs, err := fetchResultInputs(db, period.ID, candidate.ID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch result inputs"})
		}
		computed = append(computed,
			ComputeResult(inputs.candidate, inputs.evaluators, inputs.sessions, inputs.bonus, r, period))
		services.ResultsComputed.Inc()
	}

	return c.JSON(fiber.Map{
		"success": true,
		"period":  period,
		"results": computed,
	})
}

// GetCandidateResult returns one candidate's full per-evaluator breakdown.
func GetCandidateResult(c *fiber.Ctx, db *sql.DB, r *rubric.Rubric) error {
	candidateID := c.Params("candidateID")

	period, err := database.GetActivePeriod(db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch active period"})
	}
	if period == nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "No active period"})
	}

	inputs, err := fetchResultInputs(db, period.ID, candidateID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch result inputs"})
	}

	result := ComputeResult(inputs.candidate, inputs.evaluators, inputs.sessions, inputs.bonus, r, period)
	services.ResultsComputed.Inc()

	return c.JSON(fiber.Map{
		"success": true,
		"period":  period,
		"result":  result,
	})
}

// DecideCandidate persists the explicit admin pass/fail decision. The
// decision is independent of the computed average: the engine only suggests.
func DecideCandidate(c *fiber.Ctx, db *sql.DB) error {
	candidateID := c.Params("candidateID")

	var req struct {
		Status models.CandidateStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if req.Status != models.CandidatePassed && req.Status != models.CandidateFailed {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Status must be passed or failed"})
	}

	before, err := database.GetCandidateByID(db, candidateID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Candidate not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch candidate"})
	}

	if err := database.UpdateCandidateStatus(db, candidateID, req.Status); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update candidate status"})
	}

	database.WriteAudit(db, "candidates", "decision", before,
		fiber.Map{"candidate_id": candidateID, "status": req.Status})

	return c.JSON(fiber.Map{"success": true})
}

// GenerateReport builds the candidate's current result and asks the AI
// collaborator for a narrative report. Failures leave scoring state
// untouched; the caller may simply retry.
func GenerateReport(c *fiber.Ctx, db *sql.DB, r *rubric.Rubric) error {
	candidateID := c.Params("candidateID")

	period, err := database.GetActivePeriod(db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch active period"})
	}
	if period == nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "No active period"})
	}

	inputs, err := fetchResultInputs(db, period.ID, candidateID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch result inputs"})
	}

	result := ComputeResult(inputs.candidate, inputs.evaluators, inputs.sessions, inputs.bonus, r, period)

	report, err := services.GenerateCandidateReport(c.Context(), config.AppConfig.OpenAI, result)
	if err != nil {
		return c.Status(502).JSON(fiber.Map{"success": false, "error": "Report generation unavailable, try again later"})
	}
	services.ReportsGenerated.Inc()

	return c.JSON(fiber.Map{
		"success": true,
		"report":  report,
	})
}
