package services

import (
	"database/sql"
	"log"
	"time"
)

// StartScheduler starts the background task scheduler. Every tick it runs
// the scheduled-close check, which closes voting once the configured close
// time has elapsed. Polling is the only subscription mechanism; there is no
// push channel.
func StartScheduler(db *sql.DB, interval time.Duration, checkScheduledClose func(*sql.DB) error) {
	go func() {
		log.Println("Scheduler started...")
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			if err := checkScheduledClose(db); err != nil {
				log.Printf("Error running scheduled voting close: %v", err)
			}
		}
	}()
}
