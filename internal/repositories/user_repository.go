package repositories

import (
	"context"

	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"gorm.io/gorm"
)

// UserRepository interface for account operations
type UserRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error

	// List and search operations
	List(ctx context.Context, tx *gorm.DB, filters UserFilters) ([]*models.User, int64, error)

	// Validation and checks
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string, excludeID *uint) (bool, error)
	ExistingIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]uint, error)
}
