package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"gorm.io/gorm"
)

// QuizRepository interface for quiz-specific operations
type QuizRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error
	GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error)
	UpdateVisibility(ctx context.Context, tx *gorm.DB, id uint, hidden bool) error

	// DeleteCascade removes the quiz with its questions, assignments and submissions
	DeleteCascade(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters QuizFilters) ([]*models.Quiz, int64, error)
	ListAvailableForUser(ctx context.Context, tx *gorm.DB, userID uint) ([]*models.Quiz, error)

	// Validation and checks
	Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
}
