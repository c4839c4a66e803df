package models

import "time"

// Candidate is a consultant being evaluated for certification.
type Candidate struct {
	ID        string          `json:"id" validate:"required,uuid"`
	Name      string          `json:"name" validate:"required"`
	Team      string          `json:"team" validate:"required"`
	Email     *string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string         `json:"phone,omitempty"`
	Status    CandidateStatus `json:"status" validate:"required,oneof=registered passed failed"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
