package results

import (
	"github.com/hongik423/chief-eval-system-sub000/app/models"
	"github.com/hongik423/chief-eval-system-sub000/app/rubric"
)

// EvaluatorBreakdown is one evaluator's row in a candidate's result,
// reported regardless of completeness or exclusion so the panel's scoring is
// fully transparent.
type EvaluatorBreakdown struct {
	Evaluator     *models.Evaluator    `json:"evaluator"`
	HasSession    bool                 `json:"has_session"`
	Status        models.SessionStatus `json:"status"`
	SectionScores map[string]float64   `json:"section_scores"`
	Total         float64              `json:"total"`
	TotalSnapshot *float64             `json:"total_snapshot,omitempty"`
	Complete      bool                 `json:"complete"`
	Excluded      bool                 `json:"excluded"`
	Comments      map[string]string    `json:"comments"`
}

// CandidateResult is the aggregation engine's output for one candidate.
// FinalAverage and Pass are nil while no evaluator contributes: the result
// is "pending", which is distinct from a determined failing result.
type CandidateResult struct {
	Candidate         *models.Candidate     `json:"candidate"`
	Breakdowns        []*EvaluatorBreakdown `json:"breakdowns"`
	ContributingCount int                   `json:"contributing_count"`
	Bonus             int                   `json:"bonus"`
	FinalAverage      *float64              `json:"final_average,omitempty"`
	Pass              *bool                 `json:"pass,omitempty"`
	PassScore         float64               `json:"pass_score"`
}

// IsSessionComplete reports whether a session counts toward the aggregate.
// A session is complete when its status says so. As a fallback for legacy
// rows that never carried a status, a session with every rubric item scored
// also counts. New data always carries an explicit status.
func IsSessionComplete(session *models.EvaluationSession, r *rubric.Rubric) bool {
	if session == nil {
		return false
	}
	if session.Status == models.SessionCompleted {
		return true
	}
	for _, item := range r.Items() {
		if v, ok := session.Scores[item.ID]; !ok || v == nil {
			return false
		}
	}
	return true
}

// ComputeResult combines completed, non-excluded sessions with the bonus
// score into a final average and suggested pass verdict.
//
//	finalAverage = (Σ contributing totals + bonus) / contributingCount
//
// The bonus is added once to the pooled sum before dividing, not once per
// evaluator. Missing item scores contribute 0, never an error.
func ComputeResult(candidate *models.Candidate, evaluators []*models.Evaluator,
	sessions []*models.EvaluationSession, bonus int, r *rubric.Rubric,
	period *models.Period) *CandidateResult {

	sessionsByEvaluator := make(map[string]*models.EvaluationSession, len(sessions))
	for _, s := range sessions {
		sessionsByEvaluator[s.EvaluatorID] = s
	}

	result := &CandidateResult{
		Candidate: candidate,
		Bonus:     bonus,
		PassScore: period.PassScore,
	}

	var contributingSum float64

	for _, evaluator := range evaluators {
		session := sessionsByEvaluator[evaluator.ID]
		excluded := IsExcluded(evaluator, candidate)
		complete := IsSessionComplete(session, r)

		breakdown := &EvaluatorBreakdown{
			Evaluator:     evaluator,
			HasSession:    session != nil,
			Status:        models.SessionPending,
			SectionScores: make(map[string]float64, len(r.Sections)),
			Complete:      complete,
			Excluded:      excluded,
			Comments:      make(map[string]string, len(r.Sections)),
		}

		for _, section := range r.Sections {
			var subtotal float64
			if session != nil {
				for _, item := range section.Items {
					if v := session.Scores[item.ID]; v != nil {
						subtotal += *v
					}
				}
			}
			breakdown.SectionScores[section.ID] = subtotal
			breakdown.Total += subtotal

			breakdown.Comments[section.ID] = ""
			if session != nil {
				if comment, ok := session.Comments[section.ID]; ok {
					breakdown.Comments[section.ID] = comment
				}
			}
		}

		if session != nil {
			breakdown.Status = session.Status
			breakdown.TotalSnapshot = session.TotalScore
		}

		if complete && !excluded {
			contributingSum += breakdown.Total
			result.ContributingCount++
		}

		result.Breakdowns = append(result.Breakdowns, breakdown)
	}

	if result.ContributingCount > 0 {
		average := (contributingSum + float64(bonus)) / float64(result.ContributingCount)
		pass := average >= period.PassScore
		result.FinalAverage = &average
		result.Pass = &pass
	}

	return result
}
