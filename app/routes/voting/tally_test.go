package voting

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongik423/chief-eval-system-sub000/app/models"
	"github.com/hongik423/chief-eval-system-sub000/app/rubric"
)

func testCategory(key string) *rubric.Category {
	c := &rubric.Category{Key: key, Label: key}
	for i := 1; i <= rubric.PoolSize; i++ {
		c.Questions = append(c.Questions, &rubric.Question{ID: i, Text: fmt.Sprintf("question %d", i)})
	}
	return c
}

func testPool(keys ...string) *rubric.QuestionPool {
	pool := &rubric.QuestionPool{}
	for _, key := range keys {
		pool.Categories = append(pool.Categories, testCategory(key))
	}
	return pool
}

func vote(evaluator, category string, ids ...int) *models.Vote {
	return &models.Vote{EvaluatorID: evaluator, Category: category, QuestionIDs: ids}
}

func TestTallyIncludesZeroCountQuestions(t *testing.T) {
	category := testCategory("tax_risk")

	entries := Tally(category, nil)

	require.Len(t, entries, rubric.PoolSize)
	for i, entry := range entries {
		assert.Equal(t, 0, entry.Count)
		assert.Equal(t, i+1, entry.QuestionID, "zero counts rank by ascending id")
	}
}

func TestTallyRanksByCountThenID(t *testing.T) {
	category := testCategory("tax_risk")
	votes := []*models.Vote{
		vote("e1", "tax_risk", 2, 5, 7),
		vote("e2", "tax_risk", 2, 5, 3),
		vote("e3", "tax_risk", 2, 7, 3),
	}

	entries := Tally(category, votes)

	require.Len(t, entries, rubric.PoolSize)
	// q2 has 3 votes; q3, q5 and q7 are tied on 2 and must rank by id.
	assert.Equal(t, TallyEntry{QuestionID: 2, Count: 3}, entries[0])
	assert.Equal(t, TallyEntry{QuestionID: 3, Count: 2}, entries[1])
	assert.Equal(t, TallyEntry{QuestionID: 5, Count: 2}, entries[2])
	assert.Equal(t, TallyEntry{QuestionID: 7, Count: 2}, entries[3])
	assert.Equal(t, 0, entries[4].Count)
}

func TestTallyIgnoresOtherCategoriesAndUnknownQuestions(t *testing.T) {
	category := testCategory("tax_risk")
	votes := []*models.Vote{
		vote("e1", "tax_risk", 1, 2, 99), // 99 is outside the pool
		vote("e2", "stock_transfer", 1, 2, 3),
	}

	entries := Tally(category, votes)

	counts := make(map[int]int)
	for _, entry := range entries {
		counts[entry.QuestionID] = entry.Count
	}
	assert.Equal(t, 1, counts[1])
	assert.Equal(t, 1, counts[2])
	assert.Equal(t, 0, counts[3])
	assert.NotContains(t, counts, 99)
}

func TestSelectTopN(t *testing.T) {
	entries := []TallyEntry{
		{QuestionID: 4, Count: 5},
		{QuestionID: 1, Count: 3},
		{QuestionID: 6, Count: 2},
		{QuestionID: 7, Count: 0},
	}

	assert.Equal(t, []int{4, 1, 6}, SelectTopN(entries, 3))
	assert.Equal(t, []int{4, 1, 6, 7}, SelectTopN(entries, 10))
	assert.Empty(t, SelectTopN(entries, 0))
}

func TestComputeSnapshot(t *testing.T) {
	pool := testPool("stock_transfer", "business_succession")
	votes := []*models.Vote{
		vote("e1", "stock_transfer", 3, 1, 6),
		vote("e2", "stock_transfer", 3, 6, 2),
	}

	snapshot := ComputeSnapshot(pool, votes)

	require.Len(t, snapshot, 2)
	assert.Equal(t, []int{3, 6, 1}, snapshot["stock_transfer"])
	// No votes at all: the top three by id are frozen.
	assert.Equal(t, []int{1, 2, 3}, snapshot["business_succession"])
}

func TestVotedCountRequiresFullQuota(t *testing.T) {
	pool := testPool("stock_transfer", "business_succession", "tax_risk")

	votes := []*models.Vote{
		// e1 voted in every category.
		vote("e1", "stock_transfer", 1, 2, 3),
		vote("e1", "business_succession", 1, 2, 3),
		vote("e1", "tax_risk", 4, 5, 6),
		// e2 skipped tax_risk.
		vote("e2", "stock_transfer", 1, 2, 3),
		vote("e2", "business_succession", 1, 2, 3),
		// e3 has a malformed two-pick vote in one category.
		vote("e3", "stock_transfer", 1, 2, 3),
		vote("e3", "business_succession", 1, 2, 3),
		vote("e3", "tax_risk", 4, 5),
	}

	assert.Equal(t, 1, VotedCount(pool, votes))
}

func TestVotedCountEmpty(t *testing.T) {
	pool := testPool("stock_transfer")
	assert.Equal(t, 0, VotedCount(pool, nil))
}

func TestSelectionPrecedence(t *testing.T) {
	entries := []TallyEntry{
		{QuestionID: 2, Count: 4},
		{QuestionID: 5, Count: 3},
		{QuestionID: 1, Count: 2},
		{QuestionID: 3, Count: 1},
	}

	t.Run("open without majority shows nothing", func(t *testing.T) {
		cfg := &models.VotingConfig{}
		ids, final := selection(cfg, "tax_risk", entries, false)
		assert.Nil(t, ids)
		assert.False(t, final)
	})

	t.Run("open with majority previews computed top", func(t *testing.T) {
		cfg := &models.VotingConfig{}
		ids, final := selection(cfg, "tax_risk", entries, true)
		assert.Equal(t, []int{2, 5, 1}, ids)
		assert.False(t, final)
	})

	t.Run("closed uses frozen final questions", func(t *testing.T) {
		cfg := &models.VotingConfig{
			Closed:         true,
			FinalQuestions: map[string][]int{"tax_risk": {7, 4, 6}},
		}
		ids, final := selection(cfg, "tax_risk", entries, false)
		// The override beats the tally even though 7, 4 and 6 rank last.
		assert.Equal(t, []int{7, 4, 6}, ids)
		assert.True(t, final)
	})

	t.Run("closed without frozen questions falls back to tally", func(t *testing.T) {
		cfg := &models.VotingConfig{Closed: true, FinalQuestions: map[string][]int{}}
		ids, final := selection(cfg, "tax_risk", entries, false)
		assert.Equal(t, []int{2, 5, 1}, ids)
		assert.False(t, final)
	})

	t.Run("override for another category does not leak", func(t *testing.T) {
		cfg := &models.VotingConfig{
			Closed:         true,
			FinalQuestions: map[string][]int{"stock_transfer": {7, 4, 6}},
		}
		ids, final := selection(cfg, "tax_risk", entries, false)
		assert.Equal(t, []int{2, 5, 1}, ids)
		assert.False(t, final)
	})
}

func TestReVoteReplacesPriorSelection(t *testing.T) {
	// Votes are upserts per (evaluator, category): the tally must only ever
	// see one row per evaluator. Simulate a re-vote by replacing e1's row.
	category := testCategory("tax_risk")

	before := Tally(category, []*models.Vote{vote("e1", "tax_risk", 1, 2, 3)})
	after := Tally(category, []*models.Vote{vote("e1", "tax_risk", 5, 6, 7)})

	counts := func(entries []TallyEntry) map[int]int {
		m := make(map[int]int)
		for _, e := range entries {
			m[e.QuestionID] = e.Count
		}
		return m
	}

	assert.Equal(t, 1, counts(before)[1])
	assert.Equal(t, 0, counts(after)[1])
	assert.Equal(t, 1, counts(after)[5])
}
