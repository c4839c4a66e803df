package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hongik423/chief-eval-system-sub000/app/models"
)

func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	// Public routes
	auth.Get("/login", ShowLoginPage)
	auth.Post("/login", LoginAPI)
	auth.Post("/logout", LogoutAPI)

	// Protected routes
	auth.Use(AuthMiddleware)
	auth.Post("/change-password", ChangePasswordAPI)
}

func ShowLoginPage(c *fiber.Ctx) error {
	// Check if already logged in
	if tokenString := c.Cookies("jwt_token"); tokenString != "" {
		if _, err := ValidateJWT(tokenString); err == nil {
			return c.Redirect("/dashboard")
		}
	}

	return c.Render("auth/login", fiber.Map{
		"Title": "로그인 - 수석컨설턴트 인증평가",
	}, "")
}

// AuthMiddleware validates the JWT and sets the evaluator context.
func AuthMiddleware(c *fiber.Ctx) error {
	var tokenString string

	// First try cookie
	tokenString = c.Cookies("jwt_token")

	// If no cookie, try Authorization header
	if tokenString == "" {
		auth := c.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			tokenString = strings.TrimPrefix(auth, "Bearer ")
		}
	}

	isAPIRequest := strings.HasPrefix(c.Path(), "/api/")

	if tokenString == "" {
		if isAPIRequest {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "No token found"})
		}
		return c.Redirect("/auth/login")
	}

	claims, err := ValidateJWT(tokenString)
	if err != nil {
		if isAPIRequest {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid token"})
		}
		return c.Redirect("/auth/login")
	}

	evaluator := &models.Evaluator{
		ID:       claims.EvaluatorID,
		Name:     claims.Name,
		Team:     claims.Team,
		Role:     models.EvaluatorRole(claims.Role),
		IsAdmin:  claims.IsAdmin,
		IsActive: true,
	}

	c.Locals("evaluator_id", evaluator.ID)
	c.Locals("evaluator", evaluator)

	return c.Next()
}

// AdminMiddleware rejects requests from evaluators without the admin flag.
func AdminMiddleware(c *fiber.Ctx) error {
	evaluator, ok := c.Locals("evaluator").(*models.Evaluator)
	if !ok || !evaluator.IsAdmin {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(403).JSON(fiber.Map{"success": false, "error": "Insufficient permissions"})
		}
		return fiber.NewError(fiber.StatusForbidden, "Admin access required")
	}
	return c.Next()
}
