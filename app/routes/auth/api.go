package auth

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hongik423/chief-eval-system-sub000/app/config"
	"github.com/hongik423/chief-eval-system-sub000/app/database"
)

func LoginAPI(c *fiber.Ctx) error {
	type LoginRequest struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request"})
	}

	evaluator, err := database.GetEvaluatorByName(config.GetDB(), req.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			// Same message as a wrong password: no hint about which part failed
			return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid credentials"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Database error"})
	}

	if !CheckPasswordHash(req.Password, evaluator.Password) {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid credentials"})
	}

	token, err := GenerateJWT(evaluator.ID, evaluator.Name, evaluator.Team,
		string(evaluator.Role), evaluator.IsAdmin)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to generate token"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "jwt_token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"success":   true,
		"evaluator": evaluator,
	})
}

func LogoutAPI(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "jwt_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})

	return c.Redirect("/auth/login")
}

func ChangePasswordAPI(c *fiber.Ctx) error {
	type ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request"})
	}
	if len(req.NewPassword) < 8 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "New password must be at least 8 characters"})
	}

	evaluatorID := c.Locals("evaluator_id").(string)

	evaluator, err := database.GetEvaluatorByID(config.GetDB(), evaluatorID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Database error"})
	}

	if !CheckPasswordHash(req.CurrentPassword, evaluator.Password) {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid credentials"})
	}

	hashedPassword, err := HashPassword(req.NewPassword)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to hash password"})
	}

	if err := database.UpdateEvaluatorPassword(config.GetDB(), evaluatorID, hashedPassword); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update password"})
	}

	database.WriteAudit(config.GetDB(), "evaluators", "change_password", nil,
		fiber.Map{"evaluator_id": evaluatorID})

	return c.JSON(fiber.Map{"success": true})
}
