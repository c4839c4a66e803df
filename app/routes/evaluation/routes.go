package evaluation

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/hongik423/chief-eval-system-sub000/app/models"
	"github.com/hongik423/chief-eval-system-sub000/app/routes/auth"
	"github.com/hongik423/chief-eval-system-sub000/app/rubric"
)

// SetupEvaluationRoutes sets up score entry routes for evaluators.
func SetupEvaluationRoutes(app *fiber.App, db *sql.DB, r *rubric.Rubric) {
	api := app.Group("/api/evaluation", auth.AuthMiddleware)
	api.Get("/candidates", func(c *fiber.Ctx) error { return GetMyCandidates(c, db) })
	api.Get("/sessions/:candidateID", func(c *fiber.Ctx) error { return GetMySession(c, db) })
	api.Put("/sessions/:candidateID/scores", func(c *fiber.Ctx) error { return WriteScoreAPI(c, db, r) })
	api.Post("/sessions/:candidateID/complete", func(c *fiber.Ctx) error { return CompleteSessionAPI(c, db, r) })

	// Rubric definition for the scoring form
	api.Get("/rubric", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "rubric": r})
	})

	// Page route
	app.Get("/evaluation", auth.AuthMiddleware, func(c *fiber.Ctx) error {
		evaluator := c.Locals("evaluator").(*models.Evaluator)
		return c.Render("evaluation/index", fiber.Map{
			"Title":       "후보자 평가",
			"CurrentPage": "evaluation",
			"evaluator":   evaluator,
		})
	})
}
