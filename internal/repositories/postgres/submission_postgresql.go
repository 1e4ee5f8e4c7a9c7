package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/quiz-admin-service/internal/cache"
	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories"
	"gorm.io/gorm"
)

type SubmissionPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewSubmissionPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

// ===== BASIC CRUD OPERATIONS =====

// Create stores a submission. A unique violation on (user_id, quiz_id) stays
// detectable through repositories.IsDuplicateKeyError.
func (s *SubmissionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	db := s.getDB(tx)
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now()
	}
	if err := db.WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	cache.InvalidateUserQuizCache(ctx, s.cacheManager, submission.UserID)
	return nil
}

// GetByID retrieves a submission by ID
func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error) {
	db := s.getDB(tx)
	var submission models.Submission
	if err := db.WithContext(ctx).First(&submission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("submission not found with ID %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &submission, nil
}

// GetByIDWithDetails retrieves a submission with its user, quiz and questions
func (s *SubmissionPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error) {
	db := s.getDB(tx)
	var submission models.Submission
	if err := db.WithContext(ctx).
		Preload("User").
		Preload("Quiz").
		Preload("Quiz.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		First(&submission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("submission not found with ID %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get submission with details: %w", err)
	}
	return &submission, nil
}

// ===== GRADING AND VISIBILITY =====

// UpdateGrade stores the total score and marks the submission
func (s *SubmissionPostgreSQL) UpdateGrade(ctx context.Context, tx *gorm.DB, id uint, score int, gradedBy uint, gradedAt time.Time) error {
	db := s.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"score":     score,
			"marked":    true,
			"graded_by": gradedBy,
			"graded_at": gradedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update submission grade: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("submission not found with ID %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// UpdateHidden sets the submission hidden flag
func (s *SubmissionPostgreSQL) UpdateHidden(ctx context.Context, tx *gorm.DB, id uint, hidden bool) error {
	db := s.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Update("hidden", hidden)
	if result.Error != nil {
		return fmt.Errorf("failed to update submission visibility: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("submission not found with ID %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// MarkViewed sets viewed on the given submissions
func (s *SubmissionPostgreSQL) MarkViewed(ctx context.Context, tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	db := s.getDB(tx)
	if err := db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id IN ? AND viewed = ?", ids, false).
		Update("viewed", true).Error; err != nil {
		return fmt.Errorf("failed to mark submissions viewed: %w", err)
	}
	return nil
}

// ===== QUERY OPERATIONS =====

// List retrieves submissions with filters and total count
func (s *SubmissionPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	db := s.getDB(tx)
	query := s.helpers.ApplySubmissionFilters(db.WithContext(ctx).Model(&models.Submission{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	query = s.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, "submitted_at", filters.Limit, filters.Offset)

	var submissions []*models.Submission
	if err := query.Find(&submissions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}

	return submissions, total, nil
}

// ListWithDetails retrieves submissions with user, quiz and questions preloaded
func (s *SubmissionPostgreSQL) ListWithDetails(ctx context.Context, tx *gorm.DB, filters repositories.SubmissionFilters) ([]*models.Submission, error) {
	db := s.getDB(tx)
	query := s.helpers.ApplySubmissionFilters(db.WithContext(ctx).Model(&models.Submission{}), filters)
	query = s.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, "submitted_at", filters.Limit, filters.Offset)

	var submissions []*models.Submission
	if err := query.
		Preload("User").
		Preload("Quiz").
		Preload("Quiz.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to list submissions with details: %w", err)
	}

	return submissions, nil
}

// ===== COMPLETION CHECKS =====

// ExistsForUserAndQuiz checks whether the user already submitted the quiz
func (s *SubmissionPostgreSQL) ExistsForUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uint) (bool, error) {
	db := s.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check submission existence: %w", err)
	}
	return count > 0, nil
}

// GetMarkedUserIDsByQuiz returns the distinct user ids with a marked submission for the quiz
func (s *SubmissionPostgreSQL) GetMarkedUserIDsByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) ([]uint, error) {
	ids, err := s.helpers.PluckUserIDs(ctx, s.getDB(tx), &models.Submission{}, "quiz_id = ? AND marked = ?", quizID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get marked user ids: %w", err)
	}
	return ids, nil
}

// DeleteByQuiz removes every submission of a quiz
func (s *SubmissionPostgreSQL) DeleteByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) error {
	db := s.getDB(tx)
	if err := db.WithContext(ctx).Where("quiz_id = ?", quizID).Delete(&models.Submission{}).Error; err != nil {
		return fmt.Errorf("failed to delete submissions: %w", err)
	}
	return nil
}

func (s *SubmissionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}
