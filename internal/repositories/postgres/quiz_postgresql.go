package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/quiz-admin-service/internal/cache"
	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories"
	"gorm.io/gorm"
)

type QuizPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager

	// children removed by DeleteCascade
	questions   repositories.QuestionRepository
	assignments repositories.AssignmentRepository
	submissions repositories.SubmissionRepository
}

func NewQuizPostgreSQL(
	db *gorm.DB,
	cacheManager *cache.CacheManager,
	questions repositories.QuestionRepository,
	assignments repositories.AssignmentRepository,
	submissions repositories.SubmissionRepository,
) repositories.QuizRepository {
	return &QuizPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
		questions:    questions,
		assignments:  assignments,
		submissions:  submissions,
	}
}

// cachedQuizList is the cache payload of a counted quiz list
type cachedQuizList struct {
	Quizzes []*models.Quiz `json:"quizzes"`
	Total   int64          `json:"total"`
}

// ===== BASIC CRUD OPERATIONS =====

// Create creates a quiz. Nested questions and assignments are inserted with it.
func (q *QuizPostgreSQL) Create(ctx context.Context, tx *gorm.DB, quiz *models.Quiz) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Create(quiz).Error; err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	cache.InvalidateQuizLists(ctx, q.cacheManager)
	return nil
}

// GetByIDWithQuestions retrieves a quiz with its questions in position order, cached
func (q *QuizPostgreSQL) GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.Quiz, error) {
	db := q.getDB(tx)
	var quiz models.Quiz

	err := q.cacheManager.Quiz.CacheOrExecute(ctx, cache.QuizDetailsKey(id), &quiz, cache.QuizCacheConfig.TTL, func() (interface{}, error) {
		var dbQuiz models.Quiz
		if err := db.WithContext(ctx).
			Preload("Questions", func(db *gorm.DB) *gorm.DB {
				return db.Order("position ASC, id ASC")
			}).
			First(&dbQuiz, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("quiz not found with ID %d: %w", id, gorm.ErrRecordNotFound)
			}
			return nil, fmt.Errorf("failed to get quiz with questions: %w", err)
		}
		dbQuiz.QuestionCount = len(dbQuiz.Questions)
		dbQuiz.TotalPoints = models.TotalPoints(dbQuiz.Questions)
		return &dbQuiz, nil
	})
	if err != nil {
		return nil, err
	}

	return &quiz, nil
}

// UpdateVisibility sets the quiz hidden flag
func (q *QuizPostgreSQL) UpdateVisibility(ctx context.Context, tx *gorm.DB, id uint, hidden bool) error {
	db := q.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("id = ?", id).
		Update("hidden", hidden)
	if result.Error != nil {
		return fmt.Errorf("failed to update quiz visibility: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("quiz not found with ID %d: %w", id, gorm.ErrRecordNotFound)
	}

	cache.InvalidateQuizCache(ctx, q.cacheManager, id)
	return nil
}

// DeleteCascade removes submissions, assignments and questions of the quiz, then the quiz itself
func (q *QuizPostgreSQL) DeleteCascade(ctx context.Context, tx *gorm.DB, id uint) error {
	db := q.getDB(tx)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := q.submissions.DeleteByQuiz(ctx, tx, id); err != nil {
			return err
		}
		if err := q.assignments.DeleteByQuiz(ctx, tx, id); err != nil {
			return err
		}
		if err := q.questions.DeleteByQuiz(ctx, tx, id); err != nil {
			return err
		}

		result := tx.Delete(&models.Quiz{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete quiz: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("quiz not found with ID %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateQuizCache(ctx, q.cacheManager, id)
	cache.SafeDelete(ctx, q.cacheManager.Exists, cache.QuizExistsKey(id))
	return nil
}

// ===== QUERY OPERATIONS =====

// List retrieves quizzes with filters and total count.
// The unfiltered first page is served from cache.
func (q *QuizPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	if q.isDefaultAdminList(filters) {
		var cached cachedQuizList
		err := q.cacheManager.Quiz.CacheOrExecute(ctx, cache.QuizAdminListKey(), &cached, cache.QuizCacheConfig.TTL, func() (interface{}, error) {
			quizzes, total, err := q.list(ctx, tx, filters)
			if err != nil {
				return nil, err
			}
			return cachedQuizList{Quizzes: quizzes, Total: total}, nil
		})
		if err != nil {
			return nil, 0, err
		}
		return cached.Quizzes, cached.Total, nil
	}

	return q.list(ctx, tx, filters)
}

func (q *QuizPostgreSQL) list(ctx context.Context, tx *gorm.DB, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	db := q.getDB(tx)
	query := q.helpers.ApplyQuizFilters(db.WithContext(ctx).Model(&models.Quiz{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count quizzes: %w", err)
	}

	query = q.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, "created_at", filters.Limit, filters.Offset)

	var quizzes []*models.Quiz
	if err := query.Find(&quizzes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list quizzes: %w", err)
	}

	if err := q.helpers.FillQuestionStats(ctx, db, quizzes); err != nil {
		return nil, 0, fmt.Errorf("failed to load question stats: %w", err)
	}

	return quizzes, total, nil
}

func (q *QuizPostgreSQL) isDefaultAdminList(filters repositories.QuizFilters) bool {
	return filters.Hidden == nil &&
		filters.CreatedBy == nil &&
		filters.DateFrom == nil &&
		filters.DateTo == nil &&
		filters.Limit == 0 &&
		filters.Offset == 0 &&
		filters.SortBy == "" &&
		filters.SortOrder == ""
}

// ListAvailableForUser returns visible quizzes the user is assigned to and has not submitted
func (q *QuizPostgreSQL) ListAvailableForUser(ctx context.Context, tx *gorm.DB, userID uint) ([]*models.Quiz, error) {
	db := q.getDB(tx)
	var quizzes []*models.Quiz

	err := q.cacheManager.Quiz.CacheOrExecute(ctx, cache.QuizAvailableKey(userID), &quizzes, cache.QuizCacheConfig.TTL, func() (interface{}, error) {
		var dbQuizzes []*models.Quiz
		err := db.WithContext(ctx).
			Model(&models.Quiz{}).
			Where("hidden = ?", false).
			Where("EXISTS (SELECT 1 FROM assignments a WHERE a.quiz_id = quizzes.id AND a.user_id = ? AND a.hidden = ?)", userID, false).
			Where("NOT EXISTS (SELECT 1 FROM submissions s WHERE s.quiz_id = quizzes.id AND s.user_id = ?)", userID).
			Order("created_at DESC, id DESC").
			Find(&dbQuizzes).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list available quizzes: %w", err)
		}
		if err := q.helpers.FillQuestionStats(ctx, db, dbQuizzes); err != nil {
			return nil, fmt.Errorf("failed to load question stats: %w", err)
		}
		return dbQuizzes, nil
	})
	if err != nil {
		return nil, err
	}

	if quizzes == nil {
		quizzes = []*models.Quiz{}
	}
	return quizzes, nil
}

// ===== VALIDATION AND CHECKS =====

// Exists checks if a quiz exists, cached briefly
func (q *QuizPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := q.getDB(tx)
	var exists bool

	err := q.cacheManager.Exists.CacheOrExecute(ctx, cache.QuizExistsKey(id), &exists, cache.ExistsCacheConfig.TTL, func() (interface{}, error) {
		var count int64
		if err := db.WithContext(ctx).Model(&models.Quiz{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check quiz existence: %w", err)
		}
		return count > 0, nil
	})
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (q *QuizPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}
