package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"github.com/SAP-F-2025/quiz-admin-service/pkg"
)

var dbCounter uint64

// NewTestDB opens a migrated in-memory sqlite database private to the test
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_fk=1", name, atomic.AddUint64(&dbCounter, 1))

	db, err := pkg.OpenDatabase("sqlite", dsn, true)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := pkg.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with password "password"
func CreateUser(t *testing.T, db *gorm.DB, email string, isAdmin bool) *models.User {
	t.Helper()

	user := &models.User{Email: email, IsAdmin: isAdmin}
	if err := user.SetPassword("password"); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

// CreateQuiz inserts a quiz with the given questions assigned to the given users
func CreateQuiz(t *testing.T, db *gorm.DB, title string, questions []models.Question, userIDs ...uint) *models.Quiz {
	t.Helper()

	quiz := &models.Quiz{Title: title, Questions: questions}
	for _, id := range userIDs {
		quiz.Assignments = append(quiz.Assignments, models.Assignment{UserID: id})
	}
	if err := db.Create(quiz).Error; err != nil {
		t.Fatalf("create quiz %s: %v", title, err)
	}
	return quiz
}

// MultipleChoice builds a multiple-choice question whose correct option is "a"
func MultipleChoice(text string, points int) models.Question {
	return models.Question{
		Text:          text,
		Type:          models.MultipleChoice,
		OptionA:       "yes",
		OptionB:       "no",
		OptionC:       "maybe",
		OptionD:       "never",
		CorrectOption: "a",
		Points:        points,
	}
}

// ShortAnswer builds a short-answer question
func ShortAnswer(text string, points int) models.Question {
	return models.Question{Text: text, Type: models.ShortAnswer, Points: points}
}
