package voting

import (
	"sort"

	"github.com/hongik423/chief-eval-system-sub000/app/models"
	"github.com/hongik423/chief-eval-system-sub000/app/rubric"
)

// SelectedCount is how many winning questions each category gets.
const SelectedCount = 3

// TallyEntry is the vote count for one question in a category.
type TallyEntry struct {
	QuestionID int `json:"question_id"`
	Count      int `json:"count"`
}

// Tally counts per-question votes within a category and ranks them. Every
// question of the fixed pool appears in the result, zero-count ones
// included. Votes are per-evaluator upserts, so each evaluator contributes
// at most one count per question. Order: count descending, ties broken by
// ascending question id, which keeps the ranking deterministic.
func Tally(category *rubric.Category, votes []*models.Vote) []TallyEntry {
	counts := make(map[int]int, len(category.Questions))
	for _, q := range category.Questions {
		counts[q.ID] = 0
	}

	for _, vote := range votes {
		if vote.Category != category.Key {
			continue
		}
		for _, qid := range vote.QuestionIDs {
			if category.HasQuestion(qid) {
				counts[qid]++
			}
		}
	}

	entries := make([]TallyEntry, 0, len(category.Questions))
	for _, q := range category.Questions {
		entries = append(entries, TallyEntry{QuestionID: q.ID, Count: counts[q.ID]})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].QuestionID < entries[j].QuestionID
	})

	return entries
}

// SelectTopN returns the question ids of the first n ranked entries.
func SelectTopN(entries []TallyEntry, n int) []int {
	if n > len(entries) {
		n = len(entries)
	}
	ids := make([]int, 0, n)
	for _, entry := range entries[:n] {
		ids = append(ids, entry.QuestionID)
	}
	return ids
}

// ComputeSnapshot ranks every category and returns its top selections, as
// frozen when voting closes without a manual override.
func ComputeSnapshot(pool *rubric.QuestionPool, votes []*models.Vote) map[string][]int {
	snapshot := make(map[string][]int, len(pool.Categories))
	for _, category := range pool.Categories {
		snapshot[category.Key] = SelectTopN(Tally(category, votes), SelectedCount)
	}
	return snapshot
}

// VotedCount is the number of evaluators who have met the full voting quota:
// all categories filled with the required number of picks.
func VotedCount(pool *rubric.QuestionPool, votes []*models.Vote) int {
	filled := make(map[string]map[string]bool)
	for _, vote := range votes {
		if len(vote.QuestionIDs) != models.QuestionsPerVote {
			continue
		}
		if filled[vote.EvaluatorID] == nil {
			filled[vote.EvaluatorID] = make(map[string]bool)
		}
		filled[vote.EvaluatorID][vote.Category] = true
	}

	count := 0
	for _, categories := range filled {
		complete := true
		for _, category := range pool.Categories {
			if !categories[category.Key] {
				complete = false
				break
			}
		}
		if complete {
			count++
		}
	}
	return count
}
