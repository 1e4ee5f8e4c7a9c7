package services

import (
	"bytes"
	"context"

	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"github.com/SAP-F-2025/quiz-admin-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-admin-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

type CreateQuizRequest = validator.CreateQuizRequest
type QuestionSpec = validator.QuestionSpec

// Identity is the authenticated caller of a service operation
type Identity struct {
	UserID  uint `json:"user_id"`
	IsAdmin bool `json:"is_admin"`
}

// QuizView is a quiz prepared for display to the caller
type QuizView struct {
	Quiz        *models.Quiz      `json:"quiz"`
	Questions   []models.Question `json:"questions"`
	TotalPoints int               `json:"total_points"`
}

// GradingSheet is a submission with the data an admin needs to grade it
type GradingSheet struct {
	Submission *models.Submission `json:"submission"`
	Questions  []GradingLine      `json:"questions"`
	MaxScore   int                `json:"max_score"`
}

// GradingLine is one question of a grading sheet
type GradingLine struct {
	Question models.Question `json:"question"`
	Answer   string          `json:"answer"`
	// Suggested is set only for multiple choice questions
	Suggested *int `json:"suggested_score,omitempty"`
}

// SeedUser is an account created by SeedDefaults when missing
type SeedUser struct {
	Email    string
	Password string
	IsAdmin  bool
}

// ===== SERVICE INTERFACES =====

type QuizService interface {
	CreateQuiz(ctx context.Context, actor Identity, req *CreateQuizRequest) (*models.Quiz, error)
	SetVisibility(ctx context.Context, actor Identity, quizID uint, hidden bool) error
	DeleteQuiz(ctx context.Context, actor Identity, quizID uint) error
	ListVisibleQuizzes(ctx context.Context, actor Identity) ([]*models.Quiz, error)
	GetQuizForTaking(ctx context.Context, actor Identity, quizID uint) (*QuizView, error)
}

type SubmissionService interface {
	Submit(ctx context.Context, actor Identity, quizID uint, rawAnswers map[uint]string) (*models.Submission, error)
	ListScores(ctx context.Context, actor Identity) ([]*models.Submission, error)
	ToggleScoreVisibility(ctx context.Context, actor Identity, submissionID uint) (*models.Submission, error)
}

type GradingService interface {
	Grade(ctx context.Context, actor Identity, submissionID uint, rawScores map[uint]string) (int, error)
	ListUngraded(ctx context.Context, actor Identity) ([]*models.Submission, error)
	GetForGrading(ctx context.Context, actor Identity, submissionID uint) (*GradingSheet, error)
}

// CompletionSweeper retires quizzes whose assigned users are all graded
type CompletionSweeper interface {
	Sweep(ctx context.Context, quizIDs ...uint) ([]uint, error)
}

type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetAccount(ctx context.Context, actor Identity) (*models.User, error)
	UpdateEmail(ctx context.Context, actor Identity, newEmail string) (*models.User, error)
	ListUsers(ctx context.Context, actor Identity, filters repositories.UserFilters) ([]*models.User, int64, error)
	ResolveExternal(ctx context.Context, email string, isAdmin bool) (*models.User, error)
	SeedDefaults(ctx context.Context, users []SeedUser) error
}

type ExportService interface {
	ExportScores(ctx context.Context, actor Identity) (*bytes.Buffer, error)
}

// ServiceManager owns every service instance and their lifecycle
type ServiceManager interface {
	Quiz() QuizService
	Submission() SubmissionService
	Grading() GradingService
	Sweeper() CompletionSweeper
	User() UserService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
	IsInitialized() bool
}
