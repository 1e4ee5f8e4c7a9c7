package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/quiz-admin-service/internal/events"
	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/quiz-admin-service/internal/testutil"
	"github.com/SAP-F-2025/quiz-admin-service/internal/validator"
)

type testEnv struct {
	db        *gorm.DB
	repo      repositories.Repository
	publisher *events.MockEventPublisher
	services  ServiceManager

	admin *models.User
	alice *models.User
	bob   *models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := testutil.NewTestDB(t)
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
	publisher := events.NewMockEventPublisher(logger)

	sm := NewDefaultServiceManager(repo, publisher, logger, validator.New())
	if err := sm.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize services: %v", err)
	}

	return &testEnv{
		db:        db,
		repo:      repo,
		publisher: publisher,
		services:  sm,
		admin:     testutil.CreateUser(t, db, "admin@example.com", true),
		alice:     testutil.CreateUser(t, db, "alice@example.com", false),
		bob:       testutil.CreateUser(t, db, "bob@example.com", false),
	}
}

func asIdentity(u *models.User) Identity {
	return Identity{UserID: u.ID, IsAdmin: u.IsAdmin}
}

// twoQuestionRequest builds a quiz of two multiple choice questions worth 1 and 2 points
func twoQuestionRequest(title string, userIDs ...uint) *CreateQuizRequest {
	one, two := 1, 2
	return &CreateQuizRequest{
		Title: title,
		Questions: []QuestionSpec{
			{Text: "2+2?", Type: models.MultipleChoice, OptionA: "4", OptionB: "5", OptionC: "6", OptionD: "7", CorrectOption: "A", Points: &one},
			{Text: "Capital of France?", Type: models.MultipleChoice, OptionA: "Rome", OptionB: "Paris", OptionC: "Berlin", OptionD: "Madrid", CorrectOption: "b", Points: &two},
		},
		AssignedUserIDs: userIDs,
	}
}

func (e *testEnv) createQuiz(t *testing.T, title string, userIDs ...uint) *models.Quiz {
	t.Helper()
	quiz, err := e.services.Quiz().CreateQuiz(context.Background(), asIdentity(e.admin), twoQuestionRequest(title, userIDs...))
	if err != nil {
		t.Fatalf("CreateQuiz: %v", err)
	}
	return quiz
}

func (e *testEnv) submit(t *testing.T, user *models.User, quiz *models.Quiz, answers map[uint]string) *models.Submission {
	t.Helper()
	sub, err := e.services.Submission().Submit(context.Background(), asIdentity(user), quiz.ID, answers)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return sub
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
