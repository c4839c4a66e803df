package results

import "github.com/hongik423/chief-eval-system-sub000/app/models"

// IsExcluded decides whether an evaluator's score counts toward a
// candidate's aggregate. An evaluator on the candidate's own team is
// excluded, except when that team is the chair's organizational team, which
// is never a basis for exclusion. Pure; callers must evaluate this fresh at
// aggregation time because team assignments can change.
func IsExcluded(evaluator *models.Evaluator, candidate *models.Candidate) bool {
	return evaluator.Team == candidate.Team && evaluator.Team != models.ChairTeam
}
