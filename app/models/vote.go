package models

import "time"

// QuestionsPerVote is the number of questions each evaluator selects per
// category.
const QuestionsPerVote = 3

// Vote is one evaluator's question selection for a category. Re-submission
// overwrites the prior vote for that category (upsert, never append), so an
// evaluator contributes at most one count per question.
type Vote struct {
	ID          string    `json:"id"`
	EvaluatorID string    `json:"evaluator_id" validate:"required,uuid"`
	Category    string    `json:"category" validate:"required"`
	QuestionIDs []int     `json:"question_ids" validate:"required,len=3,unique"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VotingConfig is the process-wide voting state, stored as a single row.
// FinalQuestions is the administrator override: once voting is closed and an
// override exists for a category, it supersedes the computed tally for
// selection display.
type VotingConfig struct {
	Closed           bool             `json:"closed"`
	FinalQuestions   map[string][]int `json:"final_questions"`
	ClosedAt         *time.Time       `json:"closed_at,omitempty"`
	ScheduledCloseAt *time.Time       `json:"scheduled_close_at,omitempty"`
	UpdatedAt        time.Time        `json:"updated_at"`
}
