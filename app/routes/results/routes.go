package results

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/hongik423/chief-eval-system-sub000/app/models"
	"github.com/hongik423/chief-eval-system-sub000/app/routes/auth"
	"github.com/hongik423/chief-eval-system-sub000/app/rubric"
)

// SetupResultsRoutes sets up the admin-only result aggregation routes.
func SetupResultsRoutes(app *fiber.App, db *sql.DB, r *rubric.Rubric) {
	api := app.Group("/api/results", auth.AuthMiddleware, auth.AdminMiddleware)
	api.Get("/", func(c *fiber.Ctx) error { return GetAllResults(c, db, r) })
	api.Get("/:candidateID", func(c *fiber.Ctx) error { return GetCandidateResult(c, db, r) })
	api.Post("/:candidateID/decision", func(c *fiber.Ctx) error { return DecideCandidate(c, db) })
	api.Post("/:candidateID/report", func(c *fiber.Ctx) error { return GenerateReport(c, db, r) })

	// Page route
	app.Get("/results", auth.AuthMiddleware, auth.AdminMiddleware, func(c *fiber.Ctx) error {
		evaluator := c.Locals("evaluator").(*models.Evaluator)
		return c.Render("results/index", fiber.Map{
			"Title":       "평가 결과 집계",
			"CurrentPage": "results",
			"evaluator":   evaluator,
		})
	})
}
