package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongik423/chief-eval-system-sub000/app/models"
)

var sessionItemIDs = []string{"A1", "A2", "B1"}

func sessionScores(values map[string]*float64) map[string]*float64 {
	scores := make(map[string]*float64, len(sessionItemIDs))
	for _, id := range sessionItemIDs {
		scores[id] = nil
	}
	for id, v := range values {
		scores[id] = v
	}
	return scores
}

func ptr(v float64) *float64 { return &v }

func TestCompletionOutcomeTotals(t *testing.T) {
	scores := sessionScores(map[string]*float64{
		"A1": ptr(8), "A2": ptr(9.5), "B1": ptr(7),
	})

	total, err := completionOutcome(models.SessionInProgress, scores, sessionItemIDs)
	require.NoError(t, err)
	assert.InDelta(t, 24.5, total, 1e-9)
}

func TestCompletionOutcomeCompletedStaysCompleted(t *testing.T) {
	scores := sessionScores(map[string]*float64{
		"A1": ptr(8), "A2": ptr(9), "B1": ptr(7),
	})

	_, err := completionOutcome(models.SessionCompleted, scores, sessionItemIDs)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestCompletionOutcomeIncomplete(t *testing.T) {
	t.Run("nil value", func(t *testing.T) {
		scores := sessionScores(map[string]*float64{"A1": ptr(8), "A2": ptr(9)})
		_, err := completionOutcome(models.SessionInProgress, scores, sessionItemIDs)
		assert.ErrorIs(t, err, ErrIncompleteScores)
	})

	t.Run("missing item row", func(t *testing.T) {
		scores := sessionScores(map[string]*float64{"A1": ptr(8), "A2": ptr(9), "B1": ptr(7)})
		delete(scores, "B1")
		_, err := completionOutcome(models.SessionInProgress, scores, sessionItemIDs)
		assert.ErrorIs(t, err, ErrIncompleteScores)
	})

	t.Run("zero is a score", func(t *testing.T) {
		scores := sessionScores(map[string]*float64{"A1": ptr(0), "A2": ptr(0), "B1": ptr(0)})
		total, err := completionOutcome(models.SessionInProgress, scores, sessionItemIDs)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestCompletionOutcomePendingMayComplete(t *testing.T) {
	// A pending status never blocks completion; only the scores decide.
	scores := sessionScores(map[string]*float64{
		"A1": ptr(5), "A2": ptr(5), "B1": ptr(5),
	})

	total, err := completionOutcome(models.SessionPending, scores, sessionItemIDs)
	require.NoError(t, err)
	assert.InDelta(t, 15, total, 1e-9)
}

func TestCompletionOutcomeIgnoresStrayScores(t *testing.T) {
	scores := sessionScores(map[string]*float64{
		"A1": ptr(5), "A2": ptr(5), "B1": ptr(5),
	})
	scores["Z9"] = ptr(100) // not a rubric item

	total, err := completionOutcome(models.SessionInProgress, scores, sessionItemIDs)
	require.NoError(t, err)
	assert.InDelta(t, 15, total, 1e-9)
}
