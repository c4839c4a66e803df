package voting

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/hongik423/chief-eval-system-sub000/app/database"
	"github.com/hongik423/chief-eval-system-sub000/app/models"
	"github.com/hongik423/chief-eval-system-sub000/app/rubric"
	"github.com/hongik423/chief-eval-system-sub000/app/services"
)

var validate = validator.New()

// fail returns the validation-failure envelope. Vote endpoints always answer
// 200 with an internal success flag; HTTP error codes are reserved for auth
// and hard failures.
func fail(c *fiber.Ctx, message string) error {
	return c.JSON(fiber.Map{"success": false, "error": message})
}

type submitVoteRequest struct {
	Category    string `json:"category" validate:"required"`
	QuestionIDs []int  `json:"question_ids" validate:"required,len=3,unique"`
}

// SubmitVote records the requesting evaluator's 3 question picks for a
// category. Re-submission overwrites the prior vote.
func SubmitVote(c *fiber.Ctx, db *sql.DB, pool *rubric.QuestionPool) error {
	evaluator := c.Locals("evaluator").(*models.Evaluator)

	var req submitVoteRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, "category and exactly 3 distinct question_ids are required")
	}

	category, ok := pool.Category(req.Category)
	if !ok {
		return fail(c, "Unknown category")
	}
	for _, qid := range req.QuestionIDs {
		if !category.HasQuestion(qid) {
			return fail(c, "Question does not belong to this category")
		}
	}

	cfg, err := GetVotingConfig(db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch voting config"})
	}
	if cfg.Closed {
		return fail(c, "Voting is closed")
	}

	if err := UpsertVote(db, evaluator.ID, req.Category, req.QuestionIDs); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to save vote, please retry"})
	}

	services.VotesSubmitted.Inc()
	return c.JSON(fiber.Map{"success": true})
}

// categoryResult is the per-category block of the results payload.
type categoryResult struct {
	Key      string       `json:"key"`
	Label    string       `json:"label"`
	Tally    []TallyEntry `json:"tally"`
	Selected []int        `json:"selected,omitempty"`
	Final    bool         `json:"final"`
}

// selection resolves which question ids a category's results should display.
// Once voting is closed the frozen final questions are authoritative over the
// live tally; while open, projected winners are only previewed after a
// majority of evaluators has voted. The raw tally always stays visible for
// audit either way.
func selection(cfg *models.VotingConfig, categoryKey string, entries []TallyEntry, previewReady bool) (ids []int, final bool) {
	if cfg.Closed && len(cfg.FinalQuestions[categoryKey]) > 0 {
		return cfg.FinalQuestions[categoryKey], true
	}
	if cfg.Closed || previewReady {
		return SelectTopN(entries, SelectedCount), false
	}
	return nil, false
}

// GetResults returns the current tally, voting status and the selected
// questions per category.
func GetResults(c *fiber.Ctx, db *sql.DB, pool *rubric.QuestionPool) error {
	cfg, err := GetVotingConfig(db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch voting config"})
	}

	votes, err := GetAllVotes(db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch votes"})
	}

	votedCount := VotedCount(pool, votes)
	previewReady := votedCount >= rubric.MajorityThreshold

	categories := make([]categoryResult, 0, len(pool.Categories))
	for _, category := range pool.Categories {
		entries := Tally(category, votes)
		result := categoryResult{
			Key:   category.Key,
			Label: category.Label,
			Tally: entries,
		}

		result.Selected, result.Final = selection(cfg, category.Key, entries, previewReady)

		categories = append(categories, result)
	}

	return c.JSON(fiber.Map{
		"success":            true,
		"closed":             cfg.Closed,
		"closed_at":          cfg.ClosedAt,
		"scheduled_close_at": cfg.ScheduledCloseAt,
		"voted_count":        votedCount,
		"preview_ready":      previewReady,
		"categories":         categories,
	})
}

// CloseVotingAPI closes voting manually, freezing the current computed
// top selections as the final questions.
func CloseVotingAPI(c *fiber.Ctx, db *sql.DB, pool *rubric.QuestionPool) error {
	votes, err := GetAllVotes(db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch votes"})
	}

	snapshot := ComputeSnapshot(pool, votes)
	if err := CloseVoting(db, snapshot); err != nil {
		if errors.Is(err, ErrVotingClosed) {
			return fail(c, "Voting is already closed")
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to close voting"})
	}

	database.WriteAudit(db, "voting_config", "close", nil, snapshot)
	return c.JSON(fiber.Map{"success": true, "final_questions": snapshot})
}

// ReopenVotingAPI clears the closed flag and the override, returning to
// live tally mode.
func ReopenVotingAPI(c *fiber.Ctx, db *sql.DB) error {
	cfg, err := GetVotingConfig(db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch voting config"})
	}

	if err := ReopenVoting(db); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to reopen voting"})
	}

	database.WriteAudit(db, "voting_config", "reopen", cfg, nil)
	return c.JSON(fiber.Map{"success": true})
}

// SetFinalQuestionsAPI replaces the selection with an admin override. The
// override list is authoritative for closed display regardless of the tally.
func SetFinalQuestionsAPI(c *fiber.Ctx, db *sql.DB, pool *rubric.QuestionPool) error {
	var req struct {
		FinalQuestions map[string][]int `json:"final_questions"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "Invalid request body")
	}
	if len(req.FinalQuestions) == 0 {
		return fail(c, "final_questions is required")
	}

	for key, ids := range req.FinalQuestions {
		category, ok := pool.Category(key)
		if !ok {
			return fail(c, "Unknown category")
		}
		if len(ids) != SelectedCount {
			return fail(c, "Each category needs exactly 3 final questions")
		}
		for _, qid := range ids {
			if !category.HasQuestion(qid) {
				return fail(c, "Question does not belong to this category")
			}
		}
	}

	before, err := GetVotingConfig(db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch voting config"})
	}

	if err := SetFinalQuestions(db, req.FinalQuestions); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to set final questions"})
	}

	database.WriteAudit(db, "voting_config", "set_final_questions", before.FinalQuestions, req.FinalQuestions)
	return c.JSON(fiber.Map{"success": true})
}

// ScheduleCloseAPI sets or clears the automatic close time.
func ScheduleCloseAPI(c *fiber.Ctx, db *sql.DB) error {
	var req struct {
		ScheduledCloseAt *time.Time `json:"scheduled_close_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, "Invalid request body")
	}

	if err := SetScheduledClose(db, req.ScheduledCloseAt); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to set scheduled close"})
	}

	database.WriteAudit(db, "voting_config", "schedule_close", nil, req)
	return c.JSON(fiber.Map{"success": true})
}

// ClearVotesAPI removes all votes (admin reset).
func ClearVotesAPI(c *fiber.Ctx, db *sql.DB) error {
	if err := ClearVotes(db); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to clear votes"})
	}

	database.WriteAudit(db, "votes", "clear", nil, nil)
	return c.JSON(fiber.Map{"success": true})
}

// ScheduledCloseChecker returns the poll function the background scheduler
// runs: once the scheduled close time has elapsed and voting is still open,
// it executes the same close routine as the manual action, freezing the
// latest tally.
func ScheduledCloseChecker(pool *rubric.QuestionPool) func(*sql.DB) error {
	return func(db *sql.DB) error {
		cfg, err := GetVotingConfig(db)
		if err != nil {
			return err
		}
		if cfg.Closed || cfg.ScheduledCloseAt == nil || time.Now().Before(*cfg.ScheduledCloseAt) {
			return nil
		}

		votes, err := GetAllVotes(db)
		if err != nil {
			return err
		}

		snapshot := ComputeSnapshot(pool, votes)
		if err := CloseVoting(db, snapshot); err != nil {
			if errors.Is(err, ErrVotingClosed) {
				// Manual close won the race
				return nil
			}
			return err
		}

		log.Println("Voting closed automatically by schedule")
		database.WriteAudit(db, "voting_config", "scheduled_close", nil, snapshot)
		return nil
	}
}
