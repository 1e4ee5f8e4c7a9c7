package models

import "time"

type Quiz struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null;size:100;index"`
	Hidden    bool      `json:"hidden" gorm:"default:false;index"`
	CreatedBy uint      `json:"created_by" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Questions   []Question   `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	Assignments []Assignment `json:"assignments,omitempty" gorm:"foreignKey:QuizID"`

	// Computed fields (not stored)
	QuestionCount int `json:"question_count" gorm:"-"`
	TotalPoints   int `json:"total_points" gorm:"-"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Assignment grants a user permission to submit a quiz
type Assignment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	QuizID    uint      `json:"quiz_id" gorm:"not null;uniqueIndex:idx_assignment_quiz_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_assignment_quiz_user;index"`
	Hidden    bool      `json:"hidden" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Assignment) TableName() string {
	return "assignments"
}
