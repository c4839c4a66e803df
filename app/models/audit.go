package models

import (
	"encoding/json"
	"time"
)

// AuditLog is an append-only record of a mutation against a stored table.
type AuditLog struct {
	ID        string          `json:"id"`
	TableName string          `json:"table_name"`
	Action    string          `json:"action"`
	OldData   json.RawMessage `json:"old_data,omitempty"`
	NewData   json.RawMessage `json:"new_data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
