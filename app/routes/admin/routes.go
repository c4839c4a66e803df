package admin

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"github.com/hongik423/chief-eval-system-sub000/app/models"
	"github.com/hongik423/chief-eval-system-sub000/app/routes/auth"
)

// SetupAdminRoutes sets up period management, bonus scoring and roster
// provisioning. Every route is admin-only.
func SetupAdminRoutes(app *fiber.App, db *sql.DB) {
	api := app.Group("/api/admin", auth.AuthMiddleware, auth.AdminMiddleware)

	api.Get("/periods", func(c *fiber.Ctx) error {
		return GetPeriods(c, db)
	})
	api.Post("/periods", func(c *fiber.Ctx) error {
		return CreatePeriodAPI(c, db)
	})
	api.Get("/periods/:id", func(c *fiber.Ctx) error {
		return GetPeriodRoster(c, db)
	})
	api.Post("/periods/:id/activate", func(c *fiber.Ctx) error {
		return ActivatePeriodAPI(c, db)
	})
	api.Post("/periods/:id/reset", func(c *fiber.Ctx) error {
		return ResetPeriodAPI(c, db)
	})
	api.Post("/periods/:id/assign", func(c *fiber.Ctx) error {
		return AssignToPeriodAPI(c, db)
	})
	api.Put("/bonus/:candidateID", func(c *fiber.Ctx) error {
		return SetBonusAPI(c, db)
	})
	api.Post("/candidates", func(c *fiber.Ctx) error {
		return CreateCandidateAPI(c, db)
	})
	api.Post("/evaluators", func(c *fiber.Ctx) error {
		return CreateEvaluatorAPI(c, db)
	})

	// Page route
	app.Get("/admin", auth.AuthMiddleware, auth.AdminMiddleware, func(c *fiber.Ctx) error {
		evaluator := c.Locals("evaluator").(*models.Evaluator)
		return c.Render("admin/index", fiber.Map{
			"Title":       "평가 관리",
			"CurrentPage": "admin",
			"evaluator":   evaluator,
		})
	})
}
