package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "quiz-admin-service"
	EventVersion = "1.0"
)

// Event types, also used as topic suffixes
const (
	QuizCreated       = "quiz.created"
	QuizDeleted       = "quiz.deleted"
	QuizCompleted     = "quiz.completed"
	SubmissionCreated = "submission.created"
	SubmissionGraded  = "submission.graded"
)

// Event is the envelope of every published domain event
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent wraps data in an envelope with a fresh id
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

type QuizCreatedEvent struct {
	QuizID          uint   `json:"quiz_id"`
	Title           string `json:"title"`
	QuestionCount   int    `json:"question_count"`
	AssignedUserIDs []uint `json:"assigned_user_ids"`
	CreatedBy       uint   `json:"created_by"`
}

type QuizDeletedEvent struct {
	QuizID    uint `json:"quiz_id"`
	DeletedBy uint `json:"deleted_by"`
}

type QuizCompletedEvent struct {
	QuizID uint `json:"quiz_id"`
}

type SubmissionCreatedEvent struct {
	SubmissionID uint `json:"submission_id"`
	QuizID       uint `json:"quiz_id"`
	UserID       uint `json:"user_id"`
}

type SubmissionGradedEvent struct {
	SubmissionID uint `json:"submission_id"`
	QuizID       uint `json:"quiz_id"`
	UserID       uint `json:"user_id"`
	Score        int  `json:"score"`
	MaxScore     int  `json:"max_score"`
	GradedBy     uint `json:"graded_by"`
}
