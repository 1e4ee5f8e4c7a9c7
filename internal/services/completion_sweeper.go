package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/quiz-admin-service/internal/events"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories"
)

type completionSweeper struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewCompletionSweeper(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) CompletionSweeper {
	return &completionSweeper{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Sweep hard-deletes every given quiz whose assigned users all hold a marked
// submission. It returns the ids of the retired quizzes.
func (s *completionSweeper) Sweep(ctx context.Context, quizIDs ...uint) ([]uint, error) {
	retired := []uint{}

	for _, quizID := range uniqueIDs(quizIDs) {
		done, err := s.sweepOne(ctx, quizID)
		if err != nil {
			return retired, storageError("sweep completed quiz", err)
		}
		if !done {
			continue
		}

		retired = append(retired, quizID)
		s.logger.Info("Quiz completed and retired", "quiz_id", quizID)
		publishEvent(ctx, s.publisher, s.logger, events.QuizCompleted, events.QuizCompletedEvent{QuizID: quizID})
	}

	return retired, nil
}

func (s *completionSweeper) sweepOne(ctx context.Context, quizID uint) (bool, error) {
	done := false
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		assigned, err := txRepo.Assignment().GetUserIDsByQuiz(ctx, nil, quizID)
		if err != nil {
			return err
		}
		marked, err := txRepo.Submission().GetMarkedUserIDsByQuiz(ctx, nil, quizID)
		if err != nil {
			return err
		}

		completion := repositories.QuizCompletion{
			QuizID:          quizID,
			AssignedUserIDs: assigned,
			MarkedUserIDs:   marked,
		}
		if !completion.IsComplete() {
			return nil
		}

		if err := txRepo.Quiz().DeleteCascade(ctx, nil, quizID); err != nil {
			return err
		}
		done = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return done, nil
}
