package results

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongik423/chief-eval-system-sub000/app/models"
	"github.com/hongik423/chief-eval-system-sub000/app/rubric"
)

func testRubric() *rubric.Rubric {
	section := func(id string, n int) *rubric.Section {
		s := &rubric.Section{ID: id, Label: id, MaxScore: float64(n * 10)}
		for i := 1; i <= n; i++ {
			s.Items = append(s.Items, &rubric.Item{
				ID:        fmt.Sprintf("%s%d", id, i),
				SectionID: id,
				MaxScore:  10,
			})
		}
		return s
	}
	return &rubric.Rubric{
		BonusMax: 10,
		Sections: []*rubric.Section{section("a", 5), section("b", 3), section("c", 2)},
	}
}

func testPeriod() *models.Period {
	return &models.Period{
		ID:        "p1",
		PassScore: models.DefaultPassScore,
		MaxScore:  models.DefaultMaxScore,
		Status:    models.PeriodActive,
	}
}

func evaluator(id, team string) *models.Evaluator {
	return &models.Evaluator{ID: id, Name: id, Team: team, Role: models.RoleMember}
}

// completedSession builds a completed session scoring every item of a
// section at the given per-item value.
func completedSession(evaluatorID string, r *rubric.Rubric, perItem float64) *models.EvaluationSession {
	s := &models.EvaluationSession{
		EvaluatorID: evaluatorID,
		CandidateID: "cand",
		Status:      models.SessionCompleted,
		Scores:      make(map[string]*float64),
		Comments:    make(map[string]string),
	}
	for _, item := range r.Items() {
		v := perItem
		s.Scores[item.ID] = &v
	}
	return s
}

func TestIsExcluded(t *testing.T) {
	candidate := &models.Candidate{ID: "cand", Team: "컨설팅1팀"}

	tests := []struct {
		name     string
		team     string
		excluded bool
	}{
		{"same team", "컨설팅1팀", true},
		{"different team", "컨설팅2팀", false},
		{"chair team never excluded", models.ChairTeam, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.excluded, IsExcluded(evaluator("e", tt.team), candidate))
		})
	}
}

func TestIsExcludedChairTeamCandidate(t *testing.T) {
	// A candidate on the chair's team is never shielded from scoring by
	// same-team exclusion either.
	candidate := &models.Candidate{ID: "cand", Team: models.ChairTeam}
	assert.False(t, IsExcluded(evaluator("e", models.ChairTeam), candidate))
}

func TestIsSessionComplete(t *testing.T) {
	r := testRubric()

	t.Run("nil session", func(t *testing.T) {
		assert.False(t, IsSessionComplete(nil, r))
	})

	t.Run("completed status", func(t *testing.T) {
		s := &models.EvaluationSession{Status: models.SessionCompleted}
		assert.True(t, IsSessionComplete(s, r))
	})

	t.Run("legacy fallback when all items scored", func(t *testing.T) {
		s := completedSession("e1", r, 7)
		s.Status = models.SessionInProgress
		assert.True(t, IsSessionComplete(s, r))
	})

	t.Run("zero is a score, nil is not", func(t *testing.T) {
		s := completedSession("e1", r, 0)
		s.Status = models.SessionInProgress
		assert.True(t, IsSessionComplete(s, r))

		s.Scores["a1"] = nil
		assert.False(t, IsSessionComplete(s, r))
	})

	t.Run("missing item", func(t *testing.T) {
		s := completedSession("e1", r, 7)
		s.Status = models.SessionInProgress
		delete(s.Scores, "c2")
		assert.False(t, IsSessionComplete(s, r))
	})
}

func TestComputeResultAveragesContributors(t *testing.T) {
	r := testRubric()
	candidate := &models.Candidate{ID: "cand", Team: "컨설팅1팀"}
	evaluators := []*models.Evaluator{
		evaluator("e1", models.ChairTeam),
		evaluator("e2", "컨설팅2팀"),
	}
	sessions := []*models.EvaluationSession{
		completedSession("e1", r, 8), // total 80
		completedSession("e2", r, 9), // total 90
	}

	result := ComputeResult(candidate, evaluators, sessions, 5, r, testPeriod())

	assert.Equal(t, 2, result.ContributingCount)
	require.NotNil(t, result.FinalAverage)
	// (80 + 90 + 5) / 2: the bonus is pooled once, not added per evaluator.
	assert.InDelta(t, 87.5, *result.FinalAverage, 1e-9)
	require.NotNil(t, result.Pass)
	assert.True(t, *result.Pass)
}

func TestComputeResultExcludesSameTeam(t *testing.T) {
	r := testRubric()
	candidate := &models.Candidate{ID: "cand", Team: "컨설팅1팀"}
	evaluators := []*models.Evaluator{
		evaluator("e1", "컨설팅1팀"), // same team as the candidate
		evaluator("e2", "컨설팅2팀"),
	}
	sessions := []*models.EvaluationSession{
		completedSession("e1", r, 10), // perfect score, must not count
		completedSession("e2", r, 6),  // total 60
	}

	result := ComputeResult(candidate, evaluators, sessions, 0, r, testPeriod())

	assert.Equal(t, 1, result.ContributingCount)
	require.NotNil(t, result.FinalAverage)
	assert.InDelta(t, 60, *result.FinalAverage, 1e-9)
	require.NotNil(t, result.Pass)
	assert.False(t, *result.Pass)

	// The excluded evaluator still appears in the breakdown for
	// transparency, flagged but with the full subtotals visible.
	require.Len(t, result.Breakdowns, 2)
	assert.True(t, result.Breakdowns[0].Excluded)
	assert.InDelta(t, 100, result.Breakdowns[0].Total, 1e-9)
}

func TestComputeResultPendingWhenNoContributors(t *testing.T) {
	r := testRubric()
	candidate := &models.Candidate{ID: "cand", Team: "컨설팅1팀"}
	evaluators := []*models.Evaluator{evaluator("e1", "컨설팅2팀")}

	incomplete := completedSession("e1", r, 8)
	incomplete.Status = models.SessionInProgress
	incomplete.Scores["a1"] = nil

	result := ComputeResult(candidate, evaluators, []*models.EvaluationSession{incomplete}, 5, r, testPeriod())

	// Pending, not failing: no average and no verdict even with a bonus set.
	assert.Equal(t, 0, result.ContributingCount)
	assert.Nil(t, result.FinalAverage)
	assert.Nil(t, result.Pass)
}

func TestComputeResultMissingScoresCountAsZero(t *testing.T) {
	r := testRubric()
	candidate := &models.Candidate{ID: "cand", Team: "컨설팅1팀"}
	evaluators := []*models.Evaluator{evaluator("e1", "컨설팅2팀")}

	// Completed by status, yet one item was never written. The subtotal
	// treats it as 0 rather than erroring out.
	session := completedSession("e1", r, 10)
	delete(session.Scores, "b2")

	result := ComputeResult(candidate, evaluators, []*models.EvaluationSession{session}, 0, r, testPeriod())

	require.Len(t, result.Breakdowns, 1)
	assert.InDelta(t, 90, result.Breakdowns[0].Total, 1e-9)
	assert.InDelta(t, 20, result.Breakdowns[0].SectionScores["b"], 1e-9)
	assert.Equal(t, 1, result.ContributingCount)
}

func TestComputeResultNoSessionBreakdown(t *testing.T) {
	r := testRubric()
	candidate := &models.Candidate{ID: "cand", Team: "컨설팅1팀"}
	evaluators := []*models.Evaluator{evaluator("e1", "컨설팅2팀")}

	result := ComputeResult(candidate, evaluators, nil, 0, r, testPeriod())

	require.Len(t, result.Breakdowns, 1)
	b := result.Breakdowns[0]
	assert.False(t, b.HasSession)
	assert.Equal(t, models.SessionPending, b.Status)
	assert.Zero(t, b.Total)
	// Comments are normalized to every section with an empty default.
	assert.Equal(t, map[string]string{"a": "", "b": "", "c": ""}, b.Comments)
}

func TestComputeResultSnapshotSurvivesLiveEdits(t *testing.T) {
	r := testRubric()
	candidate := &models.Candidate{ID: "cand", Team: "컨설팅1팀"}
	evaluators := []*models.Evaluator{evaluator("e1", "컨설팅2팀")}

	// Completed at 80, then one item edited upward afterwards. The snapshot
	// taken at completion must not move with the live scores.
	session := completedSession("e1", r, 8)
	snapshot := 80.0
	session.TotalScore = &snapshot
	edited := 13.0
	session.Scores["a1"] = &edited // live total is now 85

	result := ComputeResult(candidate, evaluators, []*models.EvaluationSession{session}, 0, r, testPeriod())

	require.Len(t, result.Breakdowns, 1)
	b := result.Breakdowns[0]
	assert.InDelta(t, 85, b.Total, 1e-9)
	require.NotNil(t, b.TotalSnapshot)
	assert.InDelta(t, 80, *b.TotalSnapshot, 1e-9)
}

func TestComputeResultBoundaryPass(t *testing.T) {
	r := testRubric()
	candidate := &models.Candidate{ID: "cand", Team: "컨설팅1팀"}
	evaluators := []*models.Evaluator{evaluator("e1", "컨설팅2팀")}
	sessions := []*models.EvaluationSession{completedSession("e1", r, 7)} // total 70

	result := ComputeResult(candidate, evaluators, sessions, 0, r, testPeriod())

	require.NotNil(t, result.Pass)
	assert.True(t, *result.Pass, "average equal to the pass score passes")
}
