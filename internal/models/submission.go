package models

import (
	"time"

	"gorm.io/datatypes"
)

// Answers maps question id to the free-text answer given for it.
// It is the only encoding stored in the answers column.
type Answers map[uint]string

type Submission struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"not null;uniqueIndex:idx_submission_user_quiz"`
	QuizID uint `json:"quiz_id" gorm:"not null;uniqueIndex:idx_submission_user_quiz;index"`

	Answers datatypes.JSONType[Answers] `json:"answers"`

	// Scoring
	Score    *int       `json:"score"`
	Marked   bool       `json:"marked" gorm:"default:false;index"`
	GradedAt *time.Time `json:"graded_at"`
	GradedBy *uint      `json:"graded_by"`

	// Visibility
	Viewed bool `json:"viewed" gorm:"default:false"`
	Hidden bool `json:"hidden" gorm:"default:false"`

	SubmittedAt time.Time `json:"submitted_at" gorm:"not null"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Quiz *Quiz `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
}

func (Submission) TableName() string {
	return "submissions"
}

// AnswerFor returns the stored answer for a question, or "" when absent
func (s *Submission) AnswerFor(questionID uint) string {
	answers := s.Answers.Data()
	if answers == nil {
		return ""
	}
	return answers[questionID]
}

// AllModels lists every persisted model in migration order
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Quiz{},
		&Question{},
		&Assignment{},
		&Submission{},
	}
}
