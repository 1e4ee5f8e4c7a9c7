package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

// CreateBatch inserts questions in batches
func (q *QuestionPostgreSQL) CreateBatch(ctx context.Context, tx *gorm.DB, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}

	db := q.getDB(tx)
	if err := db.WithContext(ctx).CreateInBatches(questions, 100).Error; err != nil {
		return fmt.Errorf("failed to create questions in batch: %w", err)
	}
	return nil
}

// DeleteByQuiz removes every question of a quiz
func (q *QuestionPostgreSQL) DeleteByQuiz(ctx context.Context, tx *gorm.DB, quizID uint) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error; err != nil {
		return fmt.Errorf("failed to delete questions: %w", err)
	}
	return nil
}

func (q *QuestionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return q.db
}
