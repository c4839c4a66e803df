package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
)

type Config struct {
	DB     *sql.DB
	OpenAI OpenAIConfig
}

// OpenAIConfig holds settings for the report-generation collaborator.
// An empty APIKey disables report generation; scoring never depends on it.
type OpenAIConfig struct {
	APIKey string
	Model  string
}

var AppConfig *Config

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func InitDB() {
	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s",
		getenv("DB_HOST", "localhost"),
		getenv("DB_PORT", "5432"),
		getenv("DB_USER", "postgres"),
		getenv("DB_NAME", "chief_eval"),
		getenv("DB_SSLMODE", "disable"),
	)
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		psqlInfo += " password=" + password
	}

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	// Connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Println("Testing database connection...")
	if err = db.Ping(); err != nil {
		log.Printf("Database connection failed: %v", err)
		log.Println("Set DB_HOST/DB_PORT/DB_USER/DB_PASSWORD/DB_NAME to point at a PostgreSQL instance")
		log.Fatal("Cannot establish database connection")
	}

	AppConfig = &Config{
		DB: db,
		OpenAI: OpenAIConfig{
			APIKey: os.Getenv("OPENAI_API_KEY"),
			Model:  getenv("OPENAI_MODEL", "gpt-4o-mini"),
		},
	}
	log.Println("Database connected successfully")
}

func GetDB() *sql.DB {
	return AppConfig.DB
}
