package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"gorm.io/gorm"
)

// QuestionRepository interface for question operations
type QuestionRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, questions []*models.Question) error
	DeleteByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) error
}

// AssignmentRepository interface for quiz-to-user assignments
type AssignmentRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, assignments []*models.Assignment) error
	GetUserIDsByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) ([]uint, error)
	IsAssigned(ctx context.Context, tx *gorm.DB, quizID, userID uint) (bool, error)
	DeleteByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) error
}
