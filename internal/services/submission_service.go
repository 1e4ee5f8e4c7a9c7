package services

import (
	"context"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/quiz-admin-service/internal/events"
	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories"
)

type submissionService struct {
	repo      repositories.Repository
	sweeper   CompletionSweeper
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewSubmissionService(repo repositories.Repository, sweeper CompletionSweeper, publisher events.EventPublisher, logger *slog.Logger) SubmissionService {
	return &submissionService{
		repo:      repo,
		sweeper:   sweeper,
		publisher: publisher,
		logger:    logger,
	}
}

// Submit stores the caller's single submission for a quiz
func (s *submissionService) Submit(ctx context.Context, actor Identity, quizID uint, rawAnswers map[uint]string) (*models.Submission, error) {
	s.logger.Info("Submitting quiz", "quiz_id", quizID, "user_id", actor.UserID)

	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, nil, quizID)
	if err != nil {
		return nil, lookupError("quiz", quizID, err)
	}
	if quiz.Hidden && !actor.IsAdmin {
		return nil, NewNotFoundError("quiz", quizID)
	}

	assigned, err := s.repo.Assignment().IsAssigned(ctx, nil, quizID, actor.UserID)
	if err != nil {
		return nil, storageError("check assignment", err)
	}
	if !assigned {
		return nil, NewPermissionError(actor.UserID, quizID, "quiz", "submit", "quiz is not assigned to the user")
	}

	exists, err := s.repo.Submission().ExistsForUserAndQuiz(ctx, nil, actor.UserID, quizID)
	if err != nil {
		return nil, storageError("check submission", err)
	}
	if exists {
		return nil, &DuplicateSubmissionError{UserID: actor.UserID, QuizID: quizID}
	}

	submission := &models.Submission{
		UserID:  actor.UserID,
		QuizID:  quizID,
		Answers: datatypes.NewJSONType(collectAnswers(quiz.Questions, rawAnswers)),
	}

	if err := s.repo.Submission().Create(ctx, nil, submission); err != nil {
		// lost a race with a concurrent submit
		if repositories.IsDuplicateKeyError(err) {
			return nil, &DuplicateSubmissionError{UserID: actor.UserID, QuizID: quizID}
		}
		return nil, storageError("create submission", err)
	}

	s.logger.Info("Quiz submitted", "submission_id", submission.ID, "quiz_id", quizID, "user_id", actor.UserID)

	publishEvent(ctx, s.publisher, s.logger, events.SubmissionCreated, events.SubmissionCreatedEvent{
		SubmissionID: submission.ID,
		QuizID:       quizID,
		UserID:       actor.UserID,
	})

	return submission, nil
}

// ListScores returns the caller's graded, visible submissions and marks them viewed.
// Quizzes that became complete are swept afterwards; the returned rows are unaffected.
func (s *submissionService) ListScores(ctx context.Context, actor Identity) ([]*models.Submission, error) {
	userID := actor.UserID
	marked, hidden := true, false

	submissions, err := s.repo.Submission().ListWithDetails(ctx, nil, repositories.SubmissionFilters{
		UserID: &userID,
		Marked: &marked,
		Hidden: &hidden,
	})
	if err != nil {
		return nil, storageError("list scores", err)
	}
	if len(submissions) == 0 {
		return []*models.Submission{}, nil
	}

	ids := make([]uint, 0, len(submissions))
	quizIDs := make([]uint, 0, len(submissions))
	for _, sub := range submissions {
		ids = append(ids, sub.ID)
		quizIDs = append(quizIDs, sub.QuizID)
		sub.Viewed = true
		sub.User = nil
		if sub.Quiz != nil {
			sub.Quiz.QuestionCount = len(sub.Quiz.Questions)
			sub.Quiz.TotalPoints = models.TotalPoints(sub.Quiz.Questions)
			sub.Quiz.Questions = nil
		}
	}

	if err := s.repo.Submission().MarkViewed(ctx, nil, ids); err != nil {
		return nil, storageError("mark scores viewed", err)
	}

	if _, err := s.sweeper.Sweep(ctx, quizIDs...); err != nil {
		s.logger.Error("Completion sweep after listing scores failed", "user_id", userID, "error", err)
		return nil, err
	}

	return submissions, nil
}

// ToggleScoreVisibility flips the hidden flag of the caller's own submission
func (s *submissionService) ToggleScoreVisibility(ctx context.Context, actor Identity, submissionID uint) (*models.Submission, error) {
	submission, err := s.repo.Submission().GetByID(ctx, nil, submissionID)
	if err != nil {
		return nil, lookupError("submission", submissionID, err)
	}
	if submission.UserID != actor.UserID {
		return nil, NewPermissionError(actor.UserID, submissionID, "submission", "toggle visibility of", "not the owner")
	}

	hidden := !submission.Hidden
	if err := s.repo.Submission().UpdateHidden(ctx, nil, submissionID, hidden); err != nil {
		return nil, lookupError("submission", submissionID, err)
	}
	submission.Hidden = hidden

	s.logger.Info("Score visibility toggled", "submission_id", submissionID, "hidden", hidden)
	return submission, nil
}

// collectAnswers keeps one answer per question; missing answers are empty
func collectAnswers(questions []models.Question, raw map[uint]string) models.Answers {
	answers := make(models.Answers, len(questions))
	for _, q := range questions {
		answers[q.ID] = raw[q.ID]
	}
	return answers
}
