package results

import (
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hongik423/chief-eval-system-sub000/app/database"
	"github.com/hongik423/chief-eval-system-sub000/app/models"
)

// resultInputs bundles everything ComputeResult needs for one candidate.
type resultInputs struct {
	candidate  *models.Candidate
	evaluators []*models.Evaluator
	sessions   []*models.EvaluationSession
	bonus      int
}

// fetchResultInputs loads the aggregation inputs for a candidate. The four
// reads are independent, so they run concurrently; a slightly stale combined
// view is acceptable and self-corrects on the next read.
func fetchResultInputs(db *sql.DB, periodID, candidateID string) (*resultInputs, error) {
	inputs := &resultInputs{}

	var g errgroup.Group

	g.Go(func() error {
		candidate, err := database.GetCandidateByID(db, candidateID)
		if err != nil {
			if err == sql.ErrNoRows {
				return fmt.Errorf("candidate not found")
			}
			return fmt.Errorf("failed to fetch candidate: %w", err)
		}
		inputs.candidate = candidate
		return nil
	})

	g.Go(func() error {
		evaluators, err := database.GetEvaluatorsByPeriod(db, periodID)
		if err != nil {
			return err
		}
		inputs.evaluators = evaluators
		return nil
	})

	g.Go(func() error {
		sessions, err := database.GetSessionsForCandidate(db, periodID, candidateID)
		if err != nil {
			return err
		}
		inputs.sessions = sessions
		return nil
	})

	g.Go(func() error {
		bonus, err := database.GetBonusScore(db, periodID, candidateID)
		if err != nil {
			return err
		}
		inputs.bonus = bonus
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}
