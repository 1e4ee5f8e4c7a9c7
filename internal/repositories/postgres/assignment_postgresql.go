package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories"
	"gorm.io/gorm"
)

type AssignmentPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewAssignmentPostgreSQL(db *gorm.DB) repositories.AssignmentRepository {
	return &AssignmentPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

// CreateBatch inserts assignments in batches
func (a *AssignmentPostgreSQL) CreateBatch(ctx context.Context, tx *gorm.DB, assignments []*models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	db := a.getDB(tx)
	if err := db.WithContext(ctx).CreateInBatches(assignments, 100).Error; err != nil {
		return fmt.Errorf("failed to create assignments in batch: %w", err)
	}
	return nil
}

// GetUserIDsByQuiz returns the distinct assigned user ids of a quiz
func (a *AssignmentPostgreSQL) GetUserIDsByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) ([]uint, error) {
	ids, err := a.helpers.PluckUserIDs(ctx, a.getDB(tx), &models.Assignment{}, "quiz_id = ?", quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assigned user ids: %w", err)
	}
	return ids, nil
}

// IsAssigned checks whether the user holds a visible assignment for the quiz
func (a *AssignmentPostgreSQL) IsAssigned(ctx context.Context, tx *gorm.DB, quizID, userID uint) (bool, error) {
	db := a.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("quiz_id = ? AND user_id = ? AND hidden = ?", quizID, userID, false).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return count > 0, nil
}

// DeleteByQuiz removes every assignment of a quiz
func (a *AssignmentPostgreSQL) DeleteByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) error {
	db := a.getDB(tx)
	if err := db.WithContext(ctx).Where("quiz_id = ?", quizID).Delete(&models.Assignment{}).Error; err != nil {
		return fmt.Errorf("failed to delete assignments: %w", err)
	}
	return nil
}

func (a *AssignmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}
