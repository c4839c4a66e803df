package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hongik423/chief-eval-system-sub000/app/config"
	"github.com/hongik423/chief-eval-system-sub000/app/database"
	"github.com/hongik423/chief-eval-system-sub000/app/routes/admin"
	"github.com/hongik423/chief-eval-system-sub000/app/routes/auth"
	"github.com/hongik423/chief-eval-system-sub000/app/routes/evaluation"
	"github.com/hongik423/chief-eval-system-sub000/app/routes/results"
	"github.com/hongik423/chief-eval-system-sub000/app/routes/voting"
	"github.com/hongik423/chief-eval-system-sub000/app/rubric"
	"github.com/hongik423/chief-eval-system-sub000/app/services"
)

// customErrorHandler handles HTTP errors with custom templates
func customErrorHandler(c *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a *fiber.Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Check if this is an API request
	if len(c.Path()) >= 4 && c.Path()[:4] == "/api" {
		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"code":    code,
		})
	}

	// Handle different error codes for web requests
	switch code {
	case 404:
		return c.Status(404).Render("404", fiber.Map{
			"Title":       "페이지를 찾을 수 없습니다 - 수석컨설턴트 인증평가",
			"CurrentPage": "",
		})
	case 403:
		return c.Status(403).Render("error", fiber.Map{
			"Title":        "접근 권한 없음 - 수석컨설턴트 인증평가",
			"CurrentPage":  "",
			"ErrorCode":    "403",
			"ErrorTitle":   "접근 권한이 없습니다",
			"ErrorMessage": "해당 페이지에 접근할 권한이 없습니다.",
		})
	case 401:
		return c.Status(401).Render("error", fiber.Map{
			"Title":        "로그인 필요 - 수석컨설턴트 인증평가",
			"CurrentPage":  "",
			"ErrorCode":    "401",
			"ErrorTitle":   "로그인이 필요합니다",
			"ErrorMessage": "이 페이지를 보려면 먼저 로그인해 주세요.",
		})
	default:
		return c.Status(code).Render("error", fiber.Map{
			"Title":        "오류 - 수석컨설턴트 인증평가",
			"CurrentPage":  "",
			"ErrorCode":    code,
			"ErrorTitle":   "오류가 발생했습니다",
			"ErrorMessage": err.Error(),
		})
	}
}

func main() {
	// Set global time zone to Korea Standard Time
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		log.Printf("Warning: Failed to load Asia/Seoul location, falling back to UTC+9: %v", err)
		time.Local = time.FixedZone("KST", 9*60*60)
	} else {
		time.Local = loc
	}

	// Load the scoring rubric and the exam question pool
	r, err := rubric.Load("./app/rubric/rubric.yaml")
	if err != nil {
		log.Fatal("Failed to load rubric:", err)
	}
	pool, err := rubric.LoadQuestions("./app/rubric/questions.yaml")
	if err != nil {
		log.Fatal("Failed to load question pool:", err)
	}

	// Initialize database
	config.InitDB()
	defer config.GetDB().Close()

	// Run database migrations
	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Start the background scheduler that closes voting at its deadline
	services.StartScheduler(config.GetDB(), 5*time.Second, voting.ScheduledCloseChecker(pool))

	// Initialize template engine
	engine := html.New("./app/templates", ".html")
	engine.AddFunc("json", func(v interface{}) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	})
	engine.Reload(true) // Enable template reloading for development

	// Create Fiber app
	app := fiber.New(fiber.Config{
		Views:             engine,
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
		ErrorHandler:      customErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Static files
	app.Static("/static", "./static")

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Routes
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/auth/login")
	})

	app.Get("/dashboard", auth.AuthMiddleware, func(c *fiber.Ctx) error {
		return c.Render("dashboard/index", fiber.Map{
			"Title":       "대시보드 - 수석컨설턴트 인증평가",
			"CurrentPage": "dashboard",
		})
	})

	// Setup auth routes
	auth.SetupAuthRoutes(app)

	// Setup evaluation routes
	evaluation.SetupEvaluationRoutes(app, config.GetDB(), r)

	// Setup results routes
	results.SetupResultsRoutes(app, config.GetDB(), r)

	// Setup voting routes
	voting.SetupVotingRoutes(app, config.GetDB(), pool)

	// Setup admin routes
	admin.SetupAdminRoutes(app, config.GetDB())

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	})

	// Start server
	log.Println("Server starting on :8080")
	log.Fatal(app.Listen(":8080"))
}
