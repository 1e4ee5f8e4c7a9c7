package services

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/quiz-admin-service/internal/events"
	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories"
)

type gradingService struct {
	repo      repositories.Repository
	sweeper   CompletionSweeper
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewGradingService(repo repositories.Repository, sweeper CompletionSweeper, publisher events.EventPublisher, logger *slog.Logger) GradingService {
	return &gradingService{
		repo:      repo,
		sweeper:   sweeper,
		publisher: publisher,
		logger:    logger,
	}
}

// ===== MANUAL GRADING =====

// Grade scores every question of the submission's quiz and marks it.
// Unparseable or missing scores count as zero; each score is clamped to the question points.
func (s *gradingService) Grade(ctx context.Context, actor Identity, submissionID uint, rawScores map[uint]string) (int, error) {
	if err := requireAdmin(actor, "submission", submissionID, "grade"); err != nil {
		return 0, err
	}

	s.logger.Info("Grading submission", "submission_id", submissionID, "grader_id", actor.UserID)

	submission, err := s.repo.Submission().GetByIDWithDetails(ctx, nil, submissionID)
	if err != nil {
		return 0, lookupError("submission", submissionID, err)
	}

	var questions []models.Question
	if submission.Quiz != nil {
		questions = submission.Quiz.Questions
	}

	total := 0
	for _, q := range questions {
		total += clampScore(parseScore(rawScores[q.ID]), q.Points)
	}

	if err := s.repo.Submission().UpdateGrade(ctx, nil, submissionID, total, actor.UserID, time.Now().UTC()); err != nil {
		return 0, lookupError("submission", submissionID, err)
	}

	s.logger.Info("Submission graded",
		"submission_id", submissionID,
		"quiz_id", submission.QuizID,
		"score", total,
		"max_score", models.TotalPoints(questions))

	publishEvent(ctx, s.publisher, s.logger, events.SubmissionGraded, events.SubmissionGradedEvent{
		SubmissionID: submissionID,
		QuizID:       submission.QuizID,
		UserID:       submission.UserID,
		Score:        total,
		MaxScore:     models.TotalPoints(questions),
		GradedBy:     actor.UserID,
	})

	if _, err := s.sweeper.Sweep(ctx, submission.QuizID); err != nil {
		s.logger.Error("Completion sweep after grading failed", "quiz_id", submission.QuizID, "error", err)
		return total, err
	}

	return total, nil
}

// ListUngraded returns every unmarked submission, oldest first
func (s *gradingService) ListUngraded(ctx context.Context, actor Identity) ([]*models.Submission, error) {
	if err := requireAdmin(actor, "submission", 0, "list ungraded"); err != nil {
		return nil, err
	}

	marked := false
	submissions, err := s.repo.Submission().ListWithDetails(ctx, nil, repositories.SubmissionFilters{
		Marked:    &marked,
		SortBy:    "submitted_at",
		SortOrder: "asc",
	})
	if err != nil {
		return nil, storageError("list ungraded submissions", err)
	}
	if submissions == nil {
		submissions = []*models.Submission{}
	}
	return submissions, nil
}

// GetForGrading returns a grading sheet with suggested multiple choice scores
func (s *gradingService) GetForGrading(ctx context.Context, actor Identity, submissionID uint) (*GradingSheet, error) {
	if err := requireAdmin(actor, "submission", submissionID, "view for grading"); err != nil {
		return nil, err
	}

	submission, err := s.repo.Submission().GetByIDWithDetails(ctx, nil, submissionID)
	if err != nil {
		return nil, lookupError("submission", submissionID, err)
	}

	sheet := &GradingSheet{Submission: submission, Questions: []GradingLine{}}
	if submission.Quiz != nil {
		for _, q := range submission.Quiz.Questions {
			line := GradingLine{Question: q, Answer: submission.AnswerFor(q.ID)}
			if q.Type == models.MultipleChoice {
				line.Suggested = intPtr(suggestScore(&q, line.Answer))
			}
			sheet.Questions = append(sheet.Questions, line)
		}
		sheet.MaxScore = models.TotalPoints(submission.Quiz.Questions)
		submission.Quiz.Questions = nil
	}
	return sheet, nil
}

// ===== SCORE HELPERS =====

// parseScore reads an integer score; anything else counts as zero
func parseScore(raw string) int {
	score, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return score
}

func clampScore(score, points int) int {
	if score < 0 {
		return 0
	}
	if score > points {
		return points
	}
	return score
}

func suggestScore(q *models.Question, answer string) int {
	if q.IsCorrect(answer) {
		return q.Points
	}
	return 0
}
