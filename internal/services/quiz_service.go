package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/quiz-admin-service/internal/events"
	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-admin-service/internal/validator"
)

type quizService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuizService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) QuizService {
	return &quizService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// ===== LIFECYCLE =====

// CreateQuiz persists a quiz with its questions and assignments in one transaction
func (s *quizService) CreateQuiz(ctx context.Context, actor Identity, req *CreateQuizRequest) (*models.Quiz, error) {
	if err := requireAdmin(actor, "quiz", 0, "create"); err != nil {
		return nil, err
	}

	s.logger.Info("Creating quiz", "title", req.Title, "admin_id", actor.UserID)

	if errs := s.validator.Business().ValidateQuizCreate(req); len(errs) > 0 {
		return nil, fromValidator(errs)
	}

	userIDs := uniqueIDs(req.AssignedUserIDs)
	existing, err := s.repo.User().ExistingIDs(ctx, nil, userIDs)
	if err != nil {
		return nil, storageError("check assigned users", err)
	}
	if missing := missingIDs(userIDs, existing); len(missing) > 0 {
		return nil, ValidationErrors{*NewValidationError("assigned_user_ids", "unknown user ids", missing)}
	}

	quiz := buildQuiz(req, userIDs, actor.UserID)

	questions, assignments := quiz.Questions, quiz.Assignments
	quiz.Questions, quiz.Assignments = nil, nil

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Quiz().Create(ctx, nil, quiz); err != nil {
			return err
		}
		if err := txRepo.Question().CreateBatch(ctx, nil, questionRows(quiz.ID, questions)); err != nil {
			return err
		}
		return txRepo.Assignment().CreateBatch(ctx, nil, assignmentRows(quiz.ID, assignments))
	})
	if err != nil {
		return nil, storageError("create quiz", err)
	}
	quiz.Questions, quiz.Assignments = questions, assignments

	quiz.QuestionCount = len(quiz.Questions)
	quiz.TotalPoints = models.TotalPoints(quiz.Questions)

	s.logger.Info("Quiz created",
		"quiz_id", quiz.ID,
		"questions", quiz.QuestionCount,
		"assigned", len(userIDs))

	publishEvent(ctx, s.publisher, s.logger, events.QuizCreated, events.QuizCreatedEvent{
		QuizID:          quiz.ID,
		Title:           quiz.Title,
		QuestionCount:   quiz.QuestionCount,
		AssignedUserIDs: userIDs,
		CreatedBy:       actor.UserID,
	})

	return quiz, nil
}

func (s *quizService) SetVisibility(ctx context.Context, actor Identity, quizID uint, hidden bool) error {
	if err := requireAdmin(actor, "quiz", quizID, "change visibility of"); err != nil {
		return err
	}

	if err := s.repo.Quiz().UpdateVisibility(ctx, nil, quizID, hidden); err != nil {
		return lookupError("quiz", quizID, err)
	}

	s.logger.Info("Quiz visibility updated", "quiz_id", quizID, "hidden", hidden)
	return nil
}

// DeleteQuiz removes the quiz with its questions, assignments and submissions
func (s *quizService) DeleteQuiz(ctx context.Context, actor Identity, quizID uint) error {
	if err := requireAdmin(actor, "quiz", quizID, "delete"); err != nil {
		return err
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		return txRepo.Quiz().DeleteCascade(ctx, nil, quizID)
	})
	if err != nil {
		return lookupError("quiz", quizID, err)
	}

	s.logger.Info("Quiz deleted", "quiz_id", quizID, "admin_id", actor.UserID)

	publishEvent(ctx, s.publisher, s.logger, events.QuizDeleted, events.QuizDeletedEvent{
		QuizID:    quizID,
		DeletedBy: actor.UserID,
	})
	return nil
}

// ===== QUERIES =====

// ListVisibleQuizzes returns every quiz to admins and the open, assigned quizzes to users
func (s *quizService) ListVisibleQuizzes(ctx context.Context, actor Identity) ([]*models.Quiz, error) {
	if actor.IsAdmin {
		quizzes, _, err := s.repo.Quiz().List(ctx, nil, repositories.QuizFilters{})
		if err != nil {
			return nil, storageError("list quizzes", err)
		}
		if quizzes == nil {
			quizzes = []*models.Quiz{}
		}
		return quizzes, nil
	}

	quizzes, err := s.repo.Quiz().ListAvailableForUser(ctx, nil, actor.UserID)
	if err != nil {
		return nil, storageError("list available quizzes", err)
	}
	return quizzes, nil
}

// GetQuizForTaking returns a quiz with its visible questions.
// Correct options are removed for non-admins.
func (s *quizService) GetQuizForTaking(ctx context.Context, actor Identity, quizID uint) (*QuizView, error) {
	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, nil, quizID)
	if err != nil {
		return nil, lookupError("quiz", quizID, err)
	}

	if !actor.IsAdmin {
		if quiz.Hidden {
			return nil, NewNotFoundError("quiz", quizID)
		}
		assigned, err := s.repo.Assignment().IsAssigned(ctx, nil, quizID, actor.UserID)
		if err != nil {
			return nil, storageError("check assignment", err)
		}
		if !assigned {
			return nil, NewPermissionError(actor.UserID, quizID, "quiz", "take", "quiz is not assigned to the user")
		}
		submitted, err := s.repo.Submission().ExistsForUserAndQuiz(ctx, nil, actor.UserID, quizID)
		if err != nil {
			return nil, storageError("check submission", err)
		}
		if submitted {
			return nil, &DuplicateSubmissionError{UserID: actor.UserID, QuizID: quizID}
		}
	}

	view := &QuizView{Quiz: quiz, Questions: make([]models.Question, 0, len(quiz.Questions))}
	for _, q := range quiz.Questions {
		if q.Hidden && !actor.IsAdmin {
			continue
		}
		if !actor.IsAdmin {
			q = q.ForTaking()
		}
		view.Questions = append(view.Questions, q)
	}
	view.TotalPoints = models.TotalPoints(view.Questions)
	quiz.Questions = nil

	return view, nil
}

// ===== HELPERS =====

func buildQuiz(req *CreateQuizRequest, userIDs []uint, createdBy uint) *models.Quiz {
	quiz := &models.Quiz{
		Title:     strings.TrimSpace(req.Title),
		Hidden:    req.Hidden,
		CreatedBy: createdBy,
	}

	for i, spec := range req.Questions {
		q := models.Question{
			Position: i,
			Text:     strings.TrimSpace(spec.Text),
			Type:     spec.Type,
			Points:   1,
		}
		if spec.Points != nil {
			q.Points = *spec.Points
		}
		if spec.Type == models.MultipleChoice {
			q.OptionA = strings.TrimSpace(spec.OptionA)
			q.OptionB = strings.TrimSpace(spec.OptionB)
			q.OptionC = strings.TrimSpace(spec.OptionC)
			q.OptionD = strings.TrimSpace(spec.OptionD)
			q.CorrectOption = strings.ToLower(strings.TrimSpace(spec.CorrectOption))
		}
		quiz.Questions = append(quiz.Questions, q)
	}

	for _, id := range userIDs {
		quiz.Assignments = append(quiz.Assignments, models.Assignment{UserID: id})
	}
	return quiz
}

// questionRows points into questions so generated ids land in the slice
func questionRows(quizID uint, questions []models.Question) []*models.Question {
	rows := make([]*models.Question, len(questions))
	for i := range questions {
		questions[i].QuizID = quizID
		rows[i] = &questions[i]
	}
	return rows
}

func assignmentRows(quizID uint, assignments []models.Assignment) []*models.Assignment {
	rows := make([]*models.Assignment, len(assignments))
	for i := range assignments {
		assignments[i].QuizID = quizID
		rows[i] = &assignments[i]
	}
	return rows
}

func missingIDs(want, have []uint) []uint {
	found := make(map[uint]struct{}, len(have))
	for _, id := range have {
		found[id] = struct{}{}
	}
	var missing []uint
	for _, id := range want {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
