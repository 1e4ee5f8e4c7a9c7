package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"gorm.io/gorm"
)

// SubmissionRepository interface for submission operations
type SubmissionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error) // Include user, quiz and questions

	// Grading and visibility
	UpdateGrade(ctx context.Context, tx *gorm.DB, id uint, score int, gradedBy uint, gradedAt time.Time) error
	UpdateHidden(ctx context.Context, tx *gorm.DB, id uint, hidden bool) error
	MarkViewed(ctx context.Context, tx *gorm.DB, ids []uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters SubmissionFilters) ([]*models.Submission, int64, error)
	ListWithDetails(ctx context.Context, tx *gorm.DB, filters SubmissionFilters) ([]*models.Submission, error)

	// Completion checks
	ExistsForUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uint) (bool, error)
	GetMarkedUserIDsByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) ([]uint, error)

	DeleteByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) error
}
