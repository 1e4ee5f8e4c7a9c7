package models

import (
	"strings"
	"time"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple"
	ShortAnswer    QuestionType = "short"
)

// OptionLetters lists the accepted correct-option letters in display order
var OptionLetters = []string{"a", "b", "c", "d"}

type Question struct {
	ID       uint         `json:"id" gorm:"primaryKey"`
	QuizID   uint         `json:"quiz_id" gorm:"not null;index"`
	Position int          `json:"position" gorm:"not null;default:0"`
	Text     string       `json:"text" gorm:"not null;size:255"`
	Type     QuestionType `json:"type" gorm:"not null;size:20;default:multiple"`

	// Multiple choice only
	OptionA       string `json:"option_a,omitempty" gorm:"size:100"`
	OptionB       string `json:"option_b,omitempty" gorm:"size:100"`
	OptionC       string `json:"option_c,omitempty" gorm:"size:100"`
	OptionD       string `json:"option_d,omitempty" gorm:"size:100"`
	CorrectOption string `json:"correct_option,omitempty" gorm:"size:1"`

	Points int  `json:"points" gorm:"not null;default:1"`
	Hidden bool `json:"hidden" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// IsCorrect reports an exact, case-insensitive match against the correct option.
// Short-answer questions never match.
func (q *Question) IsCorrect(answer string) bool {
	if q.Type != MultipleChoice || q.CorrectOption == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), q.CorrectOption)
}

// ForTaking returns a copy without the correct option
func (q Question) ForTaking() Question {
	q.CorrectOption = ""
	return q
}

// TotalPoints sums the points of the given questions
func TotalPoints(questions []Question) int {
	total := 0
	for _, q := range questions {
		total += q.Points
	}
	return total
}
