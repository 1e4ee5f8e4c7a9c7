package validator

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
)

// CreateQuizRequest represents the request structure for creating quizzes
type CreateQuizRequest struct {
	Title           string         `json:"title" validate:"required,quiz_title"`
	Hidden          bool           `json:"hidden"`
	Questions       []QuestionSpec `json:"questions" validate:"required,min=1,dive"`
	AssignedUserIDs []uint         `json:"assigned_user_ids" validate:"required,min=1,dive,gt=0"`
}

// QuestionSpec describes one question of a new quiz
type QuestionSpec struct {
	Text          string              `json:"text" validate:"required,max=255"`
	Type          models.QuestionType `json:"type" validate:"required,question_type"`
	OptionA       string              `json:"option_a" validate:"max=100"`
	OptionB       string              `json:"option_b" validate:"max=100"`
	OptionC       string              `json:"option_c" validate:"max=100"`
	OptionD       string              `json:"option_d" validate:"max=100"`
	CorrectOption string              `json:"correct_option" validate:"omitempty,option_letter"`
	Points        *int                `json:"points" validate:"omitempty,points_range"`
}

// VisibilityRequest toggles a quiz hidden flag
type VisibilityRequest struct {
	Hidden *bool `json:"hidden" validate:"required"`
}

// SubmitRequest carries the answers keyed by question id
type SubmitRequest struct {
	Answers map[uint]string `json:"answers"`
}

// GradeRequest carries per-question scores keyed by question id.
// A missing map grades every question as 0.
type GradeRequest struct {
	Scores map[string]ScoreInput `json:"scores"`
}

// RawScores converts the request into raw score strings. Keys that are not
// question ids are dropped.
func (r GradeRequest) RawScores() map[uint]string {
	raw := make(map[uint]string, len(r.Scores))
	for key, score := range r.Scores {
		questionID, err := strconv.ParseUint(strings.TrimSpace(key), 10, 64)
		if err != nil || questionID == 0 {
			continue
		}
		raw[uint(questionID)] = string(score)
	}
	return raw
}

// ScoreInput accepts a JSON number or a JSON string; anything else reads as ""
type ScoreInput string

func (s *ScoreInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*s = ""
	if len(data) == 0 {
		return nil
	}

	switch {
	case data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err == nil {
			*s = ScoreInput(str)
		}
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		var num json.Number
		if err := json.Unmarshal(data, &num); err == nil {
			*s = ScoreInput(num.String())
		}
	}
	return nil
}

// RegisterRequest creates a regular account
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// UpdateAccountRequest changes the caller's email
type UpdateAccountRequest struct {
	Email string `json:"email" validate:"required,email,max=120"`
}
