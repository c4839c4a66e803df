package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
)

// WriteAudit appends a row to the audit log. Old and new payloads are
// marshalled to JSON; a nil payload is stored as SQL NULL. Audit failures are
// logged but never propagated, so they cannot block the mutation they record.
func WriteAudit(db *sql.DB, tableName, action string, oldData, newData interface{}) {
	oldJSON, err := marshalNullable(oldData)
	if err != nil {
		log.Printf("Failed to marshal audit old_data for %s.%s: %v", tableName, action, err)
		return
	}
	newJSON, err := marshalNullable(newData)
	if err != nil {
		log.Printf("Failed to marshal audit new_data for %s.%s: %v", tableName, action, err)
		return
	}

	query := `INSERT INTO audit_logs (table_name, action, old_data, new_data) VALUES ($1, $2, $3, $4)`
	if _, err := db.Exec(query, tableName, action, oldJSON, newJSON); err != nil {
		log.Printf("Failed to write audit log for %s.%s: %v", tableName, action, err)
	}
}

func marshalNullable(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return data, nil
}
