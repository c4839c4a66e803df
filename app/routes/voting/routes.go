package voting

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/hongik423/chief-eval-system-sub000/app/models"
	"github.com/hongik423/chief-eval-system-sub000/app/routes/auth"
	"github.com/hongik423/chief-eval-system-sub000/app/rubric"
)

// SetupVotingRoutes sets up the question-selection voting routes.
func SetupVotingRoutes(app *fiber.App, db *sql.DB, pool *rubric.QuestionPool) {
	api := app.Group("/api/votes", auth.AuthMiddleware)
	api.Post("/", func(c *fiber.Ctx) error { return SubmitVote(c, db, pool) })
	api.Get("/results", func(c *fiber.Ctx) error { return GetResults(c, db, pool) })

	// Question pool for the voting form
	api.Get("/questions", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "categories": pool.Categories})
	})

	admin := api.Group("/", auth.AdminMiddleware)
	admin.Post("/close", func(c *fiber.Ctx) error { return CloseVotingAPI(c, db, pool) })
	admin.Post("/reopen", func(c *fiber.Ctx) error { return ReopenVotingAPI(c, db) })
	admin.Put("/final-questions", func(c *fiber.Ctx) error { return SetFinalQuestionsAPI(c, db, pool) })
	admin.Put("/schedule", func(c *fiber.Ctx) error { return ScheduleCloseAPI(c, db) })
	admin.Delete("/", func(c *fiber.Ctx) error { return ClearVotesAPI(c, db) })

	// Page route
	app.Get("/voting", auth.AuthMiddleware, func(c *fiber.Ctx) error {
		evaluator := c.Locals("evaluator").(*models.Evaluator)
		return c.Render("voting/index", fiber.Map{
			"Title":       "출제 문항 투표",
			"CurrentPage": "voting",
			"evaluator":   evaluator,
		})
	})
}
