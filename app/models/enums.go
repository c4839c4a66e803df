package models

// EvaluatorRole defines the possible roles of an evaluator on the panel.
type EvaluatorRole string

const (
	RoleChair  EvaluatorRole = "chair"
	RoleMember EvaluatorRole = "member"
)

// ChairTeam is the organizational team of the chair evaluator. Membership in
// this team never triggers the same-team exclusion rule: it is not a real
// peer group, so the chair's judgments always count.
const ChairTeam = "대표"

// CandidateStatus defines the certification status of a candidate.
// Only an explicit admin decision moves a candidate out of "registered";
// the computed average is a suggestion, never persisted as status.
type CandidateStatus string

const (
	CandidateRegistered CandidateStatus = "registered"
	CandidatePassed     CandidateStatus = "passed"
	CandidateFailed     CandidateStatus = "failed"
)

// SessionStatus defines the lifecycle of an evaluation session.
type SessionStatus string

const (
	SessionPending    SessionStatus = "pending"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// PeriodStatus defines the lifecycle of an evaluation period.
// At most one period is active at a time.
type PeriodStatus string

const (
	PeriodDraft  PeriodStatus = "draft"
	PeriodActive PeriodStatus = "active"
)
