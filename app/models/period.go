package models

import "time"

// Period is a named evaluation round with its own pass threshold, assigned
// evaluators and candidates. All sessions, scores and bonus rows are scoped
// to exactly one period.
type Period struct {
	ID        string       `json:"id" validate:"required,uuid"`
	Name      string       `json:"name" validate:"required"`
	PassScore float64      `json:"pass_score" validate:"gte=0"`
	MaxScore  float64      `json:"max_score" validate:"gt=0"`
	Status    PeriodStatus `json:"status" validate:"required,oneof=draft active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	Evaluators []*Evaluator `json:"evaluators,omitempty"`
	Candidates []*Candidate `json:"candidates,omitempty"`
}

const (
	// DefaultPassScore is the pass threshold for a new period.
	DefaultPassScore = 70
	// DefaultMaxScore is 100 rubric points plus the 10 point bonus.
	DefaultMaxScore = 110
)
