package postgres

import (
	"context"

	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories"
	"gorm.io/gorm"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyQuizFilters applies common filters to quiz queries
func (h *SharedHelpers) ApplyQuizFilters(query *gorm.DB, filters repositories.QuizFilters) *gorm.DB {
	if filters.Hidden != nil {
		query = query.Where("hidden = ?", *filters.Hidden)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

// ApplySubmissionFilters applies common filters to submission queries
func (h *SharedHelpers) ApplySubmissionFilters(query *gorm.DB, filters repositories.SubmissionFilters) *gorm.DB {
	if filters.QuizID != nil {
		query = query.Where("quiz_id = ?", *filters.QuizID)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Marked != nil {
		query = query.Where("marked = ?", *filters.Marked)
	}
	if filters.Hidden != nil {
		query = query.Where("hidden = ?", *filters.Hidden)
	}
	if filters.DateFrom != nil {
		query = query.Where("submitted_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("submitted_at <= ?", *filters.DateTo)
	}
	return query
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder, defaultSort string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]bool{
		"created_at":   true,
		"updated_at":   true,
		"submitted_at": true,
		"id":           true,
		"title":        true,
		"score":        true,
		"email":        true,
	}

	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = defaultSort
	}

	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	// id breaks ties so pages are stable
	query = query.Order(sortBy + " " + sortOrder)
	if sortBy != "id" {
		query = query.Order("id " + sortOrder)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}

// PluckUserIDs returns the distinct user ids of the given model matching the query
func (h *SharedHelpers) PluckUserIDs(ctx context.Context, db *gorm.DB, model interface{}, query string, args ...interface{}) ([]uint, error) {
	var ids []uint
	err := db.WithContext(ctx).
		Model(model).
		Where(query, args...).
		Distinct().
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// FillQuestionStats sets QuestionCount and TotalPoints on each quiz with one grouped query
func (h *SharedHelpers) FillQuestionStats(ctx context.Context, db *gorm.DB, quizzes []*models.Quiz) error {
	if len(quizzes) == 0 {
		return nil
	}

	ids := make([]uint, len(quizzes))
	for i, quiz := range quizzes {
		ids[i] = quiz.ID
	}

	var rows []struct {
		QuizID        uint
		QuestionCount int
		TotalPoints   int
	}
	err := db.WithContext(ctx).
		Model(&models.Question{}).
		Select("quiz_id, COUNT(*) AS question_count, COALESCE(SUM(points), 0) AS total_points").
		Where("quiz_id IN ?", ids).
		Group("quiz_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	byQuiz := make(map[uint]int, len(rows))
	for i, row := range rows {
		byQuiz[row.QuizID] = i
	}
	for _, quiz := range quizzes {
		if i, ok := byQuiz[quiz.ID]; ok {
			quiz.QuestionCount = rows[i].QuestionCount
			quiz.TotalPoints = rows[i].TotalPoints
		}
	}
	return nil
}
