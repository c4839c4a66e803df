package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hongik423/chief-eval-system-sub000/app/config"
	"github.com/hongik423/chief-eval-system-sub000/app/database"
	"github.com/hongik423/chief-eval-system-sub000/app/models"
	"github.com/hongik423/chief-eval-system-sub000/app/routes/auth"
)

func main() {
	name := flag.String("name", "", "evaluator name (login id)")
	team := flag.String("team", "", "evaluator team")
	role := flag.String("role", string(models.RoleMember), "chair or member")
	password := flag.String("password", "", "initial password (min 8 chars)")
	admin := flag.Bool("admin", false, "grant admin access")
	flag.Parse()

	if *name == "" || *team == "" || *password == "" {
		fmt.Println("Usage: add_evaluator -name <name> -team <team> -password <password> [-role chair|member] [-admin]")
		os.Exit(1)
	}

	// Initialize database connection
	config.InitDB()
	db := config.GetDB()
	if db == nil {
		fmt.Println("Failed to connect to database")
		os.Exit(1)
	}

	hashed, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Printf("Error hashing password: %v\n", err)
		os.Exit(1)
	}

	evaluator := &models.Evaluator{
		Name:     *name,
		Team:     *team,
		Role:     models.EvaluatorRole(*role),
		Password: hashed,
		IsAdmin:  *admin,
	}

	if err := database.CreateEvaluator(db, evaluator); err != nil {
		fmt.Printf("Error creating evaluator: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Evaluator created successfully: %s (%s, %s)\n", evaluator.Name, evaluator.Team, evaluator.Role)
}
