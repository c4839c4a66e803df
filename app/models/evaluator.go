package models

import "time"

// Evaluator is a panel member who scores candidates and votes on exam
// questions. Provisioned by an administrator; immutable during a scoring
// period except for credential changes.
type Evaluator struct {
	ID        string        `json:"id" validate:"required,uuid"`
	Name      string        `json:"name" validate:"required"`
	Role      EvaluatorRole `json:"role" validate:"required,oneof=chair member"`
	Team      string        `json:"team" validate:"required"`
	Password  string        `json:"-" validate:"omitempty,min=8"`
	IsAdmin   bool          `json:"is_admin"`
	IsActive  bool          `json:"is_active"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
