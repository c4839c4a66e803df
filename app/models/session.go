package models

import "time"

// EvaluationSession is one evaluator's scoring record for one candidate
// within a period. Created lazily on the first score write.
//
// Scores maps rubric item id to the entered value; a nil value means
// "not yet scored", which is distinct from a legitimate 0.
// Comments maps rubric section id to a free-text comment, defaulting to "".
type EvaluationSession struct {
	ID          string              `json:"id" validate:"required,uuid"`
	PeriodID    string              `json:"period_id" validate:"required,uuid"`
	EvaluatorID string              `json:"evaluator_id" validate:"required,uuid"`
	CandidateID string              `json:"candidate_id" validate:"required,uuid"`
	Status      SessionStatus       `json:"status" validate:"required,oneof=pending in_progress completed"`
	Scores      map[string]*float64 `json:"scores"`
	Comments    map[string]string   `json:"comments"`
	TotalScore  *float64            `json:"total_score,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	Evaluator *Evaluator `json:"evaluator,omitempty"`
	Candidate *Candidate `json:"candidate,omitempty"`
}

// Score is a single rubric-item score row belonging to a session.
// Value is nullable: NULL means the item has not been scored yet.
type Score struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id" validate:"required,uuid"`
	ItemID    string    `json:"item_id" validate:"required"`
	Value     *float64  `json:"value" validate:"omitempty,gte=0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BonusScore is the admin-set 0-10 supplement for a candidate in a period.
// It is added once to the panel's combined score before averaging.
type BonusScore struct {
	ID          string    `json:"id"`
	PeriodID    string    `json:"period_id" validate:"required,uuid"`
	CandidateID string    `json:"candidate_id" validate:"required,uuid"`
	Value       int       `json:"value" validate:"gte=0,lte=10"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
